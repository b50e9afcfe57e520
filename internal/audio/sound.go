package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
)

const (
	sampleRate    = beep.SampleRate(48000)
	DefaultVolume = 0.5
)

// SoundManager plays game sound cues through the system speaker.
// Every method is safe to call before Initialize and does nothing then.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	muted       bool
	initialized bool
}

// NewSoundManager creates a sound manager at the default volume.
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: DefaultVolume,
	}
}

// Initialize opens the speaker. Calling it again is a no-op.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything still queued on the mixer.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// SetVolume sets the master volume, clamped to [0, 1].
func (sm *SoundManager) SetVolume(v float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.volume = max(0, min(1, v))
}

// Volume returns the master volume.
func (sm *SoundManager) Volume() float64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.volume
}

// ToggleMute flips the mute flag and returns the new value.
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = !sm.muted
	return sm.muted
}

// SetMuted sets the mute flag.
func (sm *SoundManager) SetMuted(m bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = m
}

// Muted reports whether output is muted.
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// Play queues every note of c on the mixer.
func (sm *SoundManager) Play(c Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted || sm.volume == 0 {
		return
	}
	streams := make([]beep.Streamer, 0, len(c))
	for _, n := range c {
		tone := NewToneGenerator(sampleRate, n.Freq, n.Dur, n.Wave, sm.volume*n.Gain)
		if n.Delay > 0 {
			streams = append(streams, beep.Seq(beep.Silence(sampleRate.N(n.Delay)), tone))
		} else {
			streams = append(streams, tone)
		}
	}
	speaker.Lock()
	sm.mixer.Add(streams...)
	speaker.Unlock()
}

func (sm *SoundManager) PlayCorrect()        { sm.Play(Correct()) }
func (sm *SoundManager) PlayWrong()          { sm.Play(Wrong()) }
func (sm *SoundManager) PlayCombo(level int) { sm.Play(Combo(level)) }
func (sm *SoundManager) PlaySpeedUp()        { sm.Play(SpeedUp()) }
func (sm *SoundManager) PlayGameOver()       { sm.Play(GameOver()) }
func (sm *SoundManager) PlayGolden()         { sm.Play(Golden()) }
func (sm *SoundManager) PlayClick()          { sm.Play(Click()) }
func (sm *SoundManager) PlayStart()          { sm.Play(Start()) }

// CueFor maps an engine event to the cue it should sound, if any.
func CueFor(ev engine.Event) (Cue, bool) {
	switch ev.Type {
	case engine.EventWordCompleted:
		if ev.Record == nil {
			return nil, false
		}
		if ev.Record.Missed {
			return Wrong(), true
		}
		if ev.Record.Golden {
			return Golden(), true
		}
		return Correct(), true
	case engine.EventTypo:
		return Wrong(), true
	case engine.EventComboMilestone:
		return Combo(ev.Combo / 10), true
	case engine.EventSpeedUp:
		return SpeedUp(), true
	case engine.EventGameOver:
		return GameOver(), true
	}
	return nil, false
}

// Listener returns an engine listener that plays the matching cue for each event.
func (sm *SoundManager) Listener() engine.Listener {
	return func(ev engine.Event) {
		if c, ok := CueFor(ev); ok {
			sm.Play(c)
		}
	}
}
