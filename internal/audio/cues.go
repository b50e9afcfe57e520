package audio

import "time"

const ms = time.Millisecond

// Cue is a short sequence of notes played as one sound effect.
type Cue []Note

// Correct is a rising C major arpeggio.
func Correct() Cue {
	return Cue{
		{Freq: 523.25, Dur: 100 * ms, Gain: 0.6},
		{Freq: 659.25, Dur: 100 * ms, Gain: 0.6, Delay: 50 * ms},
		{Freq: 783.99, Dur: 150 * ms, Gain: 0.7, Delay: 100 * ms},
	}
}

// Wrong is a falling sawtooth buzz.
func Wrong() Cue {
	return Cue{
		{Freq: 300, Dur: 150 * ms, Wave: Sawtooth, Gain: 0.4},
		{Freq: 200, Dur: 200 * ms, Wave: Sawtooth, Gain: 0.3, Delay: 100 * ms},
	}
}

// Combo is a chime whose pitch rises with level.
func Combo(level int) Cue {
	if level < 1 {
		level = 1
	}
	base := 600 + float64(level)*50
	return Cue{
		{Freq: base, Dur: 100 * ms, Gain: 0.5},
		{Freq: base * 1.5, Dur: 150 * ms, Gain: 0.6, Delay: 80 * ms},
		{Freq: base * 2, Dur: 200 * ms, Gain: 0.7, Delay: 150 * ms},
	}
}

// SpeedUp is five quick ascending square blips.
func SpeedUp() Cue {
	c := make(Cue, 5)
	for i := range c {
		c[i] = Note{
			Freq:  400 + float64(i)*100,
			Dur:   80 * ms,
			Wave:  Square,
			Gain:  0.3,
			Delay: time.Duration(i) * 60 * ms,
		}
	}
	return c
}

// GameOver is a slow descending phrase.
func GameOver() Cue {
	return Cue{
		{Freq: 400, Dur: 300 * ms, Gain: 0.6},
		{Freq: 350, Dur: 300 * ms, Gain: 0.5, Delay: 200 * ms},
		{Freq: 300, Dur: 300 * ms, Gain: 0.4, Delay: 400 * ms},
		{Freq: 250, Dur: 500 * ms, Gain: 0.3, Delay: 600 * ms},
	}
}

// Golden is a bright A major run.
func Golden() Cue {
	return Cue{
		{Freq: 880, Dur: 100 * ms, Gain: 0.5},
		{Freq: 1108.73, Dur: 100 * ms, Gain: 0.6, Delay: 80 * ms},
		{Freq: 1318.51, Dur: 150 * ms, Gain: 0.7, Delay: 160 * ms},
		{Freq: 1760, Dur: 250 * ms, Gain: 0.8, Delay: 240 * ms},
	}
}

// Click is a single short tick for menu navigation.
func Click() Cue {
	return Cue{{Freq: 800, Dur: 50 * ms, Gain: 0.3}}
}

// Start is a rising G major fanfare.
func Start() Cue {
	return Cue{
		{Freq: 392, Dur: 150 * ms, Gain: 0.5},
		{Freq: 523.25, Dur: 150 * ms, Gain: 0.6, Delay: 150 * ms},
		{Freq: 659.25, Dur: 150 * ms, Gain: 0.7, Delay: 300 * ms},
		{Freq: 783.99, Dur: 250 * ms, Gain: 0.8, Delay: 450 * ms},
	}
}

// Length is the time from cue start until its last note ends.
func (c Cue) Length() time.Duration {
	var end time.Duration
	for _, n := range c {
		if e := n.Delay + n.Dur; e > end {
			end = e
		}
	}
	return end
}
