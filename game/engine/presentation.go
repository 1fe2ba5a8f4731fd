package engine

import "sync"

// Renderer receives a snapshot after every state change. Implementations must
// not block for long; the engine serializes calls in mutation order.
type Renderer interface {
	Render(state *GameState)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(state *GameState)

// Render calls f(state).
func (f RendererFunc) Render(state *GameState) { f(state) }

// MultiRenderer fans a snapshot out to several renderers in order.
type MultiRenderer []Renderer

// Render implements Renderer.
func (m MultiRenderer) Render(state *GameState) {
	for _, r := range m {
		if r != nil {
			r.Render(state)
		}
	}
}

// AudioPlayer controls the background music.
type AudioPlayer interface {
	Play() error
	Pause() error
	Playing() bool
}

// mutedPlayer tracks the toggle without producing sound. Used when no audio
// device is wired in.
type mutedPlayer struct {
	mu      sync.Mutex
	playing bool
}

func (p *mutedPlayer) Play() error {
	p.mu.Lock()
	p.playing = true
	p.mu.Unlock()
	return nil
}

func (p *mutedPlayer) Pause() error {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()
	return nil
}

func (p *mutedPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Caption is the label next to the music toggle. It names the action the
// toggle performs and is hidden on viewports at or below breakpoint.
func Caption(musicOn bool, width, breakpoint int) string {
	if width > 0 && width <= breakpoint {
		return ""
	}
	if musicOn {
		return "Sound off"
	}
	return "Sound on"
}
