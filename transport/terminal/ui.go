package terminal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/mars-rover-game/game/engine"
)

const (
	// Countdown redraw period while a game runs.
	refreshInterval = 100 * time.Millisecond

	// A terminal column stands in for this many browser pixels when the
	// grid size is picked from the viewport.
	pixelsPerColumn = 10

	gridTop  = 2
	gridLeft = 2
	cellW    = 2
)

var (
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed).Bold(true)
	styleCell    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleRover   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleAlien   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleTimer   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleDialog  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed).Bold(true)
	styleVictory = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen).Bold(true)
	styleHelp    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

var headingGlyphs = map[engine.Heading]rune{
	engine.North: '▲',
	engine.East:  '▶',
	engine.South: '▼',
	engine.West:  '◀',
}

// UI draws a game on a tcell screen and turns key presses into engine
// commands. It is also the engine's Renderer: every snapshot the engine
// publishes schedules a redraw.
type UI struct {
	screen tcell.Screen
	engine engine.Engine

	mu    sync.Mutex
	state *engine.GameState

	dirty chan struct{}
}

// New creates a UI on an initialized screen. Attach must be called before Run.
func New(screen tcell.Screen) *UI {
	return &UI{
		screen: screen,
		dirty:  make(chan struct{}, 1),
	}
}

// Attach connects the engine driven by the keyboard.
func (u *UI) Attach(e engine.Engine) {
	u.engine = e
	u.Render(e.GetState())
}

// Render implements engine.Renderer.
func (u *UI) Render(state *engine.GameState) {
	u.mu.Lock()
	u.state = state
	u.mu.Unlock()

	select {
	case u.dirty <- struct{}{}:
	default:
	}
}

// State returns the last snapshot received.
func (u *UI) State() *engine.GameState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// ViewportWidth converts the terminal width to the pixel width the grid
// breakpoint is expressed in.
func (u *UI) ViewportWidth() int {
	w, _ := u.screen.Size()
	return w * pixelsPerColumn
}

// HandleKey runs the command bound to a key. It returns false when the
// player asked to quit.
//
//	s            start
//	l r f b      turn left, turn right, forward, backward
//	arrows       same as l r f b
//	x            reset
//	enter, esc   close the dialog
//	m            music on/off
//	q, ctrl-c    quit
func (u *UI) HandleKey(key tcell.Key, ch rune) bool {
	switch key {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		u.engine.AttemptMove(engine.CommandLeft)
	case tcell.KeyRight:
		u.engine.AttemptMove(engine.CommandRight)
	case tcell.KeyUp:
		u.engine.AttemptMove(engine.CommandForward)
	case tcell.KeyDown:
		u.engine.AttemptMove(engine.CommandBackward)
	case tcell.KeyEnter, tcell.KeyEscape:
		u.engine.CloseDialog()
	case tcell.KeyRune:
		switch ch {
		case 'q', 'Q':
			return false
		case 's', 'S':
			u.engine.Start(u.ViewportWidth())
		case 'x', 'X':
			u.engine.Reset()
		case 'm', 'M':
			u.engine.ToggleAudio()
		default:
			if cmd, err := engine.ParseCommand(string(ch)); err == nil {
				u.engine.AttemptMove(cmd)
			}
		}
	}
	return true
}

// Run polls the screen until ctx is cancelled or the player quits. The
// caller owns the screen and must Fini it afterwards.
func (u *UI) Run(ctx context.Context) error {
	if u.engine == nil {
		return fmt.Errorf("terminal: no engine attached")
	}

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	u.engine.UpdateViewport(u.ViewportWidth(), false)
	u.Draw()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !u.HandleKey(ev.Key(), ev.Rune()) {
					return nil
				}
			case *tcell.EventResize:
				u.screen.Sync()
				u.engine.UpdateViewport(u.ViewportWidth(), false)
			}

		case <-u.dirty:
			u.Draw()

		case <-ticker.C:
			if state := u.State(); state != nil && state.Started && !state.TimerPaused {
				u.Render(u.engine.GetState())
			}
		}
	}
}

// Draw paints the last snapshot.
func (u *UI) Draw() {
	state := u.State()
	u.screen.Clear()
	if state == nil {
		u.screen.Show()
		return
	}

	width, _ := u.screen.Size()
	u.drawText(gridLeft, 0, styleTitle, "MARS ROVER - ALIEN HUNT")
	if state.Caption != "" {
		caption := "[m] " + state.Caption
		u.drawText(width-len(caption)-1, 0, styleHelp, caption)
	}

	for r := 0; r < state.GridSize; r++ {
		for c := 0; c < state.GridSize; c++ {
			glyph, style := cellGlyph(state, r, c)
			u.screen.SetContent(gridLeft+c*cellW, gridTop+r, glyph, nil, style)
		}
	}

	y := gridTop + state.GridSize + 1
	u.drawText(gridLeft, y, styleStatus, fmt.Sprintf("Position: %d/%d - Direction: %s",
		state.Rover.Row, state.Rover.Column, state.Rover.Heading))
	y++
	if state.Started {
		timer := fmt.Sprintf("Time left: %.1fs", float64(state.RemainingMs)/1000)
		if state.TimerPaused {
			timer += " (paused)"
		}
		u.drawText(gridLeft, y, styleTimer, timer)
	}
	y += 2

	if state.Dialog != nil {
		style := styleDialog
		if state.Dialog.Kind == engine.DialogVictory {
			style = styleVictory
		}
		u.drawText(gridLeft, y, style, " "+state.Dialog.Message+" ")
		if state.Dialog.Closable {
			u.drawText(gridLeft, y+1, styleHelp, "press enter to close")
		}
	} else if state.Message != "" {
		u.drawText(gridLeft, y, styleStatus, state.Message)
	}

	u.drawText(gridLeft, y+3, styleHelp, "s start  l/r/f/b or arrows pilot  x reset  m music  q quit")
	u.screen.Show()
}

func (u *UI) drawText(x, y int, style tcell.Style, text string) {
	if x < 0 {
		x = 0
	}
	for _, ch := range text {
		u.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func cellGlyph(state *engine.GameState, row, col int) (rune, tcell.Style) {
	if state.Rover.Row == row && state.Rover.Column == col {
		if g, ok := headingGlyphs[state.Rover.Heading]; ok {
			return g, styleRover
		}
		return '?', styleRover
	}
	if state.AlienPos != nil && state.AlienPos.Row == row && state.AlienPos.Column == col {
		return 'A', styleAlien
	}
	return '·', styleCell
}
