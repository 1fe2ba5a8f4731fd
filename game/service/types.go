package service

import (
	"time"

	"github.com/wricardo/mars-rover-game/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// Reason codes for rejected commands
const (
	ReasonNotStarted     = "not_started"
	ReasonAlreadyStarted = "already_started"
	ReasonOutOfBounds    = "out_of_bounds"
	ReasonDialogOpen     = "dialog_open"
	ReasonDialogLocked   = "dialog_locked"
	ReasonNoDialog       = "no_dialog"
	ReasonInvalidCommand = "invalid_command"
	ReasonSessionClosed  = "session_closed"
	ReasonAudio          = "audio_error"
	ReasonGameEnded      = "game_ended"
	ReasonVictory        = "victory"
	ReasonError          = "error"
)

// CommandResult is the outcome of one player command. A rejected command is
// not an error: Accepted is false and Message explains why.
type CommandResult struct {
	Command   string            `json:"command"`
	Accepted  bool              `json:"accepted"`
	Message   string            `json:"message"`
	Reason    string            `json:"reason,omitempty"`
	Won       bool              `json:"won,omitempty"`
	From      engine.Rover      `json:"from"`
	To        engine.Rover      `json:"to"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// BulkCommandResult contains the result of several piloting commands
type BulkCommandResult struct {
	// Summary
	CommandsExecuted  int               `json:"commands_executed"`
	RequestedCommands int               `json:"requested_commands"`
	Success           bool              `json:"success"`
	GameState         *engine.GameState `json:"game_state"`
	Events            []GameEvent       `json:"events"`
	StoppedReason     string            `json:"stopped_reason,omitempty"`
	StopReasonCode    string            `json:"stop_reason_code,omitempty"` // one of the Reason* codes
	StoppedOnCommand  int               `json:"stopped_on_command,omitempty"`
	Truncated         bool              `json:"truncated,omitempty"`
	Limit             int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartRover engine.Rover `json:"start_rover"`
	EndRover   engine.Rover `json:"end_rover"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	Won      bool   `json:"won"`
	GameOver bool   `json:"game_over"`
	Message  string `json:"message,omitempty"`
}

// StepInfo is a compact record for each executed command in a bulk call
type StepInfo struct {
	Idx      int          `json:"idx"`
	Command  string       `json:"command"`
	From     engine.Rover `json:"from"`
	To       engine.Rover `json:"to"`
	Accepted bool         `json:"accepted"`
	Won      bool         `json:"won,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "turn", "blocked", "victory", "start", "reset", "dialog_closed", "audio", "viewport"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	SmallGrid   int    `json:"small_grid"`
	LargeGrid   int    `json:"large_grid"`
	Breakpoint  int    `json:"breakpoint"`
	Timer       string `json:"timer"`
}
