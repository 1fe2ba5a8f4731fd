package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Note is one tone of a melody. A zero frequency is a rest.
type Note struct {
	Freq     float64
	Duration time.Duration
}

// MarsTheme is the default background loop: a slow minor arpeggio.
var MarsTheme = []Note{
	{220.00, 400 * time.Millisecond}, // A3
	{261.63, 400 * time.Millisecond}, // C4
	{329.63, 400 * time.Millisecond}, // E4
	{440.00, 600 * time.Millisecond}, // A4
	{0, 200 * time.Millisecond},
	{392.00, 400 * time.Millisecond}, // G4
	{329.63, 400 * time.Millisecond}, // E4
	{293.66, 400 * time.Millisecond}, // D4
	{246.94, 800 * time.Millisecond}, // B3
	{0, 400 * time.Millisecond},
}

// MelodyStreamer loops a melody forever.
type MelodyStreamer struct {
	sr    beep.SampleRate
	notes []Note
	// lengths holds each note's length in samples.
	lengths []int

	note  int
	pos   int
	phase float64
}

// NewMelody creates an endless streamer for notes. An empty melody streams
// silence.
func NewMelody(sr beep.SampleRate, notes []Note) *MelodyStreamer {
	m := &MelodyStreamer{sr: sr, notes: notes}
	for _, n := range notes {
		l := sr.N(n.Duration)
		if l < 1 {
			l = 1
		}
		m.lengths = append(m.lengths, l)
	}
	return m
}

func (m *MelodyStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if len(m.notes) == 0 {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}

	for i := range samples {
		note := m.notes[m.note]
		length := m.lengths[m.note]

		var val float64
		if note.Freq > 0 {
			// 10ms attack, release over the last fifth of the note
			attack := math.Min(float64(m.pos)/(float64(m.sr)*0.01), 1)
			release := math.Min(float64(length-m.pos)/(float64(length)*0.2), 1)
			env := attack * release
			val = 0.2 * env * (math.Sin(2*math.Pi*m.phase) + 0.3*math.Sin(4*math.Pi*m.phase))
			m.phase += note.Freq / float64(m.sr)
			m.phase -= math.Floor(m.phase)
		}
		samples[i][0] = val
		samples[i][1] = val

		m.pos++
		if m.pos >= length {
			m.pos = 0
			m.phase = 0
			m.note = (m.note + 1) % len(m.notes)
		}
	}
	return len(samples), true
}

func (m *MelodyStreamer) Err() error {
	return nil
}

// CycleLen returns the number of samples in one pass of the melody.
func (m *MelodyStreamer) CycleLen() int {
	total := 0
	for _, l := range m.lengths {
		total += l
	}
	return total
}
