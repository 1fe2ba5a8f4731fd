package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/wricardo/mars-rover-game/game/clock"
)

var (
	ErrNotStarted     = errors.New("game not started")
	ErrAlreadyStarted = errors.New("game already started")
	ErrDialogOpen     = errors.New("a dialog is open")
	ErrDialogLocked   = errors.New("dialog cannot be closed")
	ErrNoDialog       = errors.New("no dialog is open")
	ErrEngineClosed   = errors.New("engine closed")
	ErrAudio          = errors.New("audio unavailable")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Player commands
	Start(viewportWidth int) Outcome
	AttemptMove(cmd Command) Outcome
	Reset() Outcome
	CloseDialog() Outcome
	ToggleAudio() Outcome
	UpdateViewport(width int, landscape bool) Outcome

	// Queries
	GetState() *GameState
	GetConfig() *GameConfig
	GetMoveHistory() []MoveHistoryEntry

	Close()
}

// Option configures a GameEngine.
type Option func(*GameEngine)

// WithRenderer sets the presentation layer notified after each change.
func WithRenderer(r Renderer) Option {
	return func(e *GameEngine) { e.renderer = r }
}

// WithAudio sets the background music player.
func WithAudio(p AudioPlayer) Option {
	return func(e *GameEngine) { e.audio = p }
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c clock.Clock) Option {
	return func(e *GameEngine) { e.clk = c }
}

// WithRand sets the source used to hide the alien.
func WithRand(r *rand.Rand) Option {
	return func(e *GameEngine) { e.rng = r }
}

// WithViewport sets the initial viewport width used to size the grid.
func WithViewport(width int) Option {
	return func(e *GameEngine) { e.viewportWidth = width }
}

// GameEngine implements the Engine interface
type GameEngine struct {
	mu sync.Mutex
	// renderMu keeps Render calls in mutation order without holding mu.
	renderMu sync.Mutex

	config   *GameConfig
	renderer Renderer
	audio    AudioPlayer
	clk      clock.Clock
	rng      *rand.Rand
	timer    *clock.GameClock

	grid       Grid
	rover      Rover
	started    bool
	alienFound bool
	gameOver   bool
	message    string
	dialog     *Dialog
	// stashed is the dialog hidden by the orientation lock.
	stashed *Dialog

	viewportWidth int
	landscape     bool

	history    []MoveHistoryEntry
	totalMoves int
	closed     bool
}

// NewEngine creates a new game engine with the provided configuration. A nil
// config uses DefaultConfig.
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if config == nil {
		config = DefaultConfig()
	} else {
		config = config.Clone()
		ApplyDefaults(config)
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	duration, err := config.TimerDuration()
	if err != nil {
		return nil, err
	}

	e := &GameEngine{config: config}
	for _, opt := range opts {
		opt(e)
	}
	if e.clk == nil {
		e.clk = clock.Real{}
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.audio == nil {
		e.audio = &mutedPlayer{}
	}
	e.timer = clock.NewGameClock(e.clk, duration, e.handleExpiry)

	e.grid.Size = GridSizeForViewport(e.viewportWidth, config.Grid)
	e.rover = Rover{Heading: North}
	e.grid.HideAlien(e.rng)
	e.message = config.Messages.NotStarted
	e.history = []MoveHistoryEntry{}

	return e, nil
}

// Start begins a new game. The grid is resized from the latest viewport
// width, the rover returns to base and the alien is hidden again. A game
// whose alien lands on the base is won on the spot.
func (e *GameEngine) Start(viewportWidth int) Outcome {
	e.mu.Lock()
	if e.closed {
		return e.rejectLocked(ErrEngineClosed, ErrEngineClosed.Error())
	}
	if e.dialog != nil && !e.dialog.Closable {
		return e.rejectLocked(ErrDialogLocked, e.dialog.Message)
	}
	if e.started {
		e.message = e.config.Messages.AlreadyStarted
		return e.rejectLocked(ErrAlreadyStarted, e.message)
	}

	if viewportWidth > 0 {
		e.viewportWidth = viewportWidth
	}
	e.dialog = nil
	e.grid.Size = GridSizeForViewport(e.viewportWidth, e.config.Grid)
	e.relocateLocked()
	e.started = true
	e.alienFound = false
	e.gameOver = false
	e.message = e.config.Messages.Started
	e.timer.Start()
	// The alien may be hiding under the base.
	won := e.winCheckLocked()

	return e.acceptLocked(Outcome{Message: e.message, Won: won, From: e.rover, To: e.rover})
}

// AttemptMove applies one piloting command. Rejected commands leave the rover
// where it is; out-of-bounds moves and commands sent before Start also open
// an advisory dialog, which pauses the countdown.
func (e *GameEngine) AttemptMove(cmd Command) Outcome {
	e.mu.Lock()
	if e.closed {
		return e.rejectLocked(ErrEngineClosed, ErrEngineClosed.Error())
	}
	from := e.rover

	if e.dialog != nil {
		e.recordLocked(cmd, from, from, false)
		return e.rejectLocked(ErrDialogOpen, e.config.Messages.DialogOpen)
	}
	if !e.started {
		e.recordLocked(cmd, from, from, false)
		e.openDialogLocked(DialogInfo, e.config.Messages.NotStarted, true)
		return e.rejectLocked(ErrNotStarted, e.message)
	}

	to, err := Apply(from, cmd, e.grid.Size)
	if err != nil {
		e.recordLocked(cmd, from, from, false)
		switch {
		case errors.Is(err, ErrOutOfBounds) && cmd == CommandForward:
			e.openDialogLocked(DialogInfo, e.config.Messages.CantMoveForward, true)
		case errors.Is(err, ErrOutOfBounds) && cmd == CommandBackward:
			e.openDialogLocked(DialogInfo, e.config.Messages.CantMoveBackward, true)
		default:
			e.message = err.Error()
		}
		return e.rejectLocked(err, e.message)
	}

	e.rover = to
	e.recordLocked(cmd, from, to, true)
	e.message = e.statusLocked()
	won := e.winCheckLocked()

	return e.acceptLocked(Outcome{Message: e.message, Won: won, From: from, To: to})
}

// Reset returns the rover to base heading north and hides the alien again.
// Only valid while a game is running.
func (e *GameEngine) Reset() Outcome {
	e.mu.Lock()
	if e.closed {
		return e.rejectLocked(ErrEngineClosed, ErrEngineClosed.Error())
	}
	if e.dialog != nil {
		return e.rejectLocked(ErrDialogOpen, e.config.Messages.DialogOpen)
	}
	if !e.started {
		e.openDialogLocked(DialogInfo, e.config.Messages.NotStarted, true)
		return e.rejectLocked(ErrNotStarted, e.message)
	}

	from := e.rover
	e.relocateLocked()
	e.message = e.config.Messages.Reset
	won := e.winCheckLocked()

	return e.acceptLocked(Outcome{Message: e.message, Won: won, From: from, To: e.rover})
}

// CloseDialog dismisses the current dialog and resumes a paused countdown.
func (e *GameEngine) CloseDialog() Outcome {
	e.mu.Lock()
	if e.closed {
		return e.rejectLocked(ErrEngineClosed, ErrEngineClosed.Error())
	}
	if e.dialog == nil {
		return e.rejectLocked(ErrNoDialog, ErrNoDialog.Error())
	}
	if !e.dialog.Closable {
		return e.rejectLocked(ErrDialogLocked, e.dialog.Message)
	}
	e.closeDialogLocked()
	if e.started {
		e.message = e.statusLocked()
	}
	return e.acceptLocked(Outcome{Message: e.message, From: e.rover, To: e.rover})
}

// ToggleAudio flips the background music. Allowed at any time.
func (e *GameEngine) ToggleAudio() Outcome {
	e.mu.Lock()
	if e.closed {
		return e.rejectLocked(ErrEngineClosed, ErrEngineClosed.Error())
	}
	var err error
	if e.audio.Playing() {
		err = e.audio.Pause()
	} else {
		err = e.audio.Play()
	}
	if err != nil {
		return e.rejectLocked(fmt.Errorf("%w: %v", ErrAudio, err), fmt.Sprintf("audio: %v", err))
	}
	caption := Caption(e.audio.Playing(), e.viewportWidth, e.config.CaptionBreakpoint)
	return e.acceptLocked(Outcome{Message: caption, From: e.rover, To: e.rover})
}

// UpdateViewport records the player's screen geometry. Small landscape
// screens get a dialog that cannot be closed until the screen is rotated
// back. The grid size only follows the width at the next Start.
func (e *GameEngine) UpdateViewport(width int, landscape bool) Outcome {
	e.mu.Lock()
	if e.closed {
		return e.rejectLocked(ErrEngineClosed, ErrEngineClosed.Error())
	}
	if width > 0 {
		e.viewportWidth = width
	}
	e.landscape = landscape

	locked := landscape && e.viewportWidth > 0 && e.viewportWidth <= e.config.OrientationLockWidth
	showing := e.dialog != nil && e.dialog.Kind == DialogOrientation
	switch {
	case locked && !showing:
		e.stashed = e.dialog
		e.openDialogLocked(DialogOrientation, e.config.Messages.Landscape, false)
	case !locked && showing:
		prev := e.stashed
		e.stashed = nil
		if prev != nil {
			e.dialog = prev
			e.message = prev.Message
		} else {
			e.closeDialogLocked()
			if e.started {
				e.message = e.statusLocked()
			}
		}
	}
	return e.acceptLocked(Outcome{Message: e.message, From: e.rover, To: e.rover})
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// GetConfig returns a copy of the game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config.Clone()
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]MoveHistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// Close stops the countdown and the music. Further commands are rejected.
func (e *GameEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.timer.Stop()
	if e.audio.Playing() {
		_ = e.audio.Pause()
	}
}

// handleExpiry runs on the clock goroutine when the countdown ends.
func (e *GameEngine) handleExpiry() {
	e.mu.Lock()
	if e.closed || !e.started || e.alienFound {
		e.mu.Unlock()
		return
	}
	e.started = false
	e.gameOver = true
	e.relocateLocked()
	if e.dialog != nil && e.dialog.Kind == DialogOrientation {
		// Keep the lock; the result shows once the screen is rotated back.
		e.stashed = &Dialog{Kind: DialogGameOver, Message: e.config.Messages.GameOver, Closable: true}
		e.acceptLocked(Outcome{})
		return
	}
	e.stashed = nil
	e.openDialogLocked(DialogGameOver, e.config.Messages.GameOver, true)
	e.acceptLocked(Outcome{})
}

// winCheckLocked ends the game if the rover sits on the alien cell.
func (e *GameEngine) winCheckLocked() bool {
	if !e.grid.HasAlien(e.rover.Position()) {
		return false
	}
	e.timer.Cancel()
	e.alienFound = true
	e.started = false
	msg := fmt.Sprintf(e.config.Messages.Victory, e.rover.Row, e.rover.Column)
	e.openDialogLocked(DialogVictory, msg, true)
	return true
}

func (e *GameEngine) relocateLocked() {
	e.rover = Rover{Heading: North}
	e.grid.HideAlien(e.rng)
}

// openDialogLocked shows a dialog and freezes the countdown.
func (e *GameEngine) openDialogLocked(kind DialogKind, msg string, closable bool) {
	e.dialog = &Dialog{Kind: kind, Message: msg, Closable: closable}
	e.message = msg
	e.timer.Pause()
}

func (e *GameEngine) closeDialogLocked() {
	e.dialog = nil
	e.timer.Resume()
}

func (e *GameEngine) statusLocked() string {
	return fmt.Sprintf(e.config.Messages.Status, e.rover.Row, e.rover.Column, e.rover.Heading)
}

func (e *GameEngine) recordLocked(cmd Command, from, to Rover, success bool) {
	e.totalMoves++
	e.history = append(e.history, MoveHistoryEntry{
		Action:     cmd.Name(),
		From:       from,
		To:         to,
		Timestamp:  e.clk.Now().Unix(),
		Success:    success,
		MoveNumber: e.totalMoves,
	})
}

func (e *GameEngine) snapshotLocked() *GameState {
	history := make([]MoveHistoryEntry, len(e.history))
	copy(history, e.history)

	state := &GameState{
		ConfigName:    e.config.Name,
		GridSize:      e.grid.Size,
		Rover:         e.rover,
		Started:       e.started,
		AlienFound:    e.alienFound,
		GameOver:      e.gameOver,
		TimerPaused:   e.timer.State() == clock.Paused,
		ClockState:    e.timer.State().String(),
		RemainingMs:   e.timer.Remaining().Milliseconds(),
		MusicOn:       e.audio.Playing(),
		Message:       e.message,
		ViewportWidth: e.viewportWidth,
		Landscape:     e.landscape,
		MoveHistory:   history,
		TotalMoves:    e.totalMoves,
	}
	state.Caption = Caption(state.MusicOn, e.viewportWidth, e.config.CaptionBreakpoint)
	if e.dialog != nil {
		d := *e.dialog
		state.Dialog = &d
	}
	if e.alienFound {
		alien := e.grid.Alien()
		state.AlienPos = &alien
	}
	return state
}

// acceptLocked finishes a state-changing command: it snapshots, releases mu
// and renders. Must be called with mu held.
func (e *GameEngine) acceptLocked(out Outcome) Outcome {
	out.Accepted = true
	return e.finishLocked(out)
}

// rejectLocked finishes a refused command. Dialogs opened on the way are
// still rendered.
func (e *GameEngine) rejectLocked(err error, msg string) Outcome {
	return e.finishLocked(Outcome{Err: err, Message: msg, From: e.rover, To: e.rover})
}

func (e *GameEngine) finishLocked(out Outcome) Outcome {
	state := e.snapshotLocked()
	out.State = state
	closed := e.closed

	e.renderMu.Lock()
	e.mu.Unlock()
	defer e.renderMu.Unlock()
	if e.renderer != nil && !closed {
		e.renderer.Render(state)
	}
	return out
}
