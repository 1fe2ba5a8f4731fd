package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player loops a melody on the system speaker.
type Player struct {
	mu      sync.Mutex
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	playing bool

	initialized bool
	initErr     error

	// speaker hooks, swapped in tests
	openSpeaker func(sr beep.SampleRate, s beep.Streamer) error
	lock        func()
	unlock      func()
}

// NewPlayer prepares a paused player for notes. Nothing touches the audio
// device until the first Play.
func NewPlayer(notes []Note) *Player {
	ctrl := &beep.Ctrl{Streamer: NewMelody(sampleRate, notes), Paused: true}
	return &Player{
		ctrl:        ctrl,
		volume:      &effects.Volume{Streamer: ctrl, Base: 2},
		openSpeaker: openSpeaker,
		lock:        speaker.Lock,
		unlock:      speaker.Unlock,
	}
}

func openSpeaker(sr beep.SampleRate, s beep.Streamer) error {
	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s)
	return nil
}

func (p *Player) ensureInit() error {
	if p.initialized {
		return p.initErr
	}
	p.initialized = true
	if err := p.openSpeaker(sampleRate, p.volume); err != nil {
		p.initErr = fmt.Errorf("audio device unavailable: %w", err)
	}
	return p.initErr
}

// Play resumes the music.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureInit(); err != nil {
		return err
	}
	p.lock()
	p.ctrl.Paused = false
	p.unlock()
	p.playing = true
	return nil
}

// Pause silences the music without closing the device.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.initErr != nil {
		p.playing = false
		return nil
	}
	p.lock()
	p.ctrl.Paused = true
	p.unlock()
	p.playing = false
	return nil
}

// Playing reports whether the music is audible.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// SetVolume sets a linear volume; 0 mutes and 1 is full scale.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock()
	defer p.unlock()
	if v <= 0 {
		p.volume.Silent = true
		return
	}
	p.volume.Silent = false
	p.volume.Volume = math.Log2(v)
}
