package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Waveform selects the oscillator shape of a tone.
type Waveform int

const (
	Sine Waveform = iota
	Sawtooth
	Square
)

// floor is the gain an envelope decays to by the end of a tone.
const floor = 0.01

// Note is one tone in a cue, started Delay after the cue begins.
type Note struct {
	Freq  float64
	Dur   time.Duration
	Wave  Waveform
	Gain  float64
	Delay time.Duration
}

// ToneGenerator renders a single oscillator with an exponential decay envelope.
type ToneGenerator struct {
	sr    beep.SampleRate
	freq  float64
	wave  Waveform
	start float64
	rate  float64
	pos   int
	total int
}

// NewToneGenerator creates a tone that decays from gain to floor over dur.
func NewToneGenerator(sr beep.SampleRate, freq float64, dur time.Duration, wave Waveform, gain float64) *ToneGenerator {
	total := sr.N(dur)
	if total < 1 {
		total = 1
	}
	g := &ToneGenerator{sr: sr, freq: freq, wave: wave, start: gain, total: total}
	if gain > floor {
		g.rate = math.Log(floor/gain) / float64(total)
	}
	return g
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		t := float64(g.pos) / float64(g.sr)
		amp := g.start * math.Exp(g.rate*float64(g.pos))
		v := amp * oscillate(g.wave, g.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// oscillate evaluates one waveform at phase cycles, returning a value in [-1, 1].
func oscillate(w Waveform, cycles float64) float64 {
	frac := cycles - math.Floor(cycles)
	switch w {
	case Sawtooth:
		return 2*frac - 1
	case Square:
		if frac < 0.5 {
			return 1
		}
		return -1
	default:
		return math.Sin(2 * math.Pi * cycles)
	}
}
