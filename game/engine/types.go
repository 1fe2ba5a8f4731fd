package engine

// Heading is the direction the rover faces.
type Heading string

const (
	North Heading = "N"
	East  Heading = "E"
	South Heading = "S"
	West  Heading = "W"
)

// Command is a single piloting instruction.
type Command string

const (
	CommandLeft     Command = "l"
	CommandRight    Command = "r"
	CommandForward  Command = "f"
	CommandBackward Command = "b"
)

// DialogKind classifies the message box shown to the player.
type DialogKind string

const (
	DialogInfo        DialogKind = "info"
	DialogVictory     DialogKind = "victory"
	DialogGameOver    DialogKind = "game_over"
	DialogOrientation DialogKind = "orientation"
)

const (
	// Validation constants
	MinGridSize      = 2
	MaxGridSize      = 50
	MaxBulkCommands  = 50
	DefaultSmallGrid = 8
	DefaultLargeGrid = 10
)

// Position is a zero-based grid coordinate. Row 0 is the top edge.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Rover is the piloted vehicle.
type Rover struct {
	Row     int     `json:"row"`
	Column  int     `json:"column"`
	Heading Heading `json:"heading"`
}

// Position returns the rover's coordinates.
func (r Rover) Position() Position {
	return Position{Row: r.Row, Column: r.Column}
}

// Dialog is the modal message currently shown. An open dialog freezes the
// countdown; Closable=false dialogs can only be dismissed by the engine.
type Dialog struct {
	Kind     DialogKind `json:"kind"`
	Message  string     `json:"message"`
	Closable bool       `json:"closable"`
}

// MoveHistoryEntry represents a single piloting command in the session history
type MoveHistoryEntry struct {
	Action     string `json:"action"`
	From       Rover  `json:"from"`
	To         Rover  `json:"to"`
	Timestamp  int64  `json:"timestamp"`
	Success    bool   `json:"success"`
	MoveNumber int    `json:"move_number"`
}

// GameState is a snapshot of one session. The alien position is only
// included once it has been found.
type GameState struct {
	ConfigName    string    `json:"config_name"`
	GridSize      int       `json:"grid_size"`
	Rover         Rover     `json:"rover"`
	Started       bool      `json:"started"`
	AlienFound    bool      `json:"alien_found"`
	GameOver      bool      `json:"game_over"`
	TimerPaused   bool      `json:"timer_paused"`
	ClockState    string    `json:"clock_state"`
	RemainingMs   int64     `json:"remaining_ms"`
	Dialog        *Dialog   `json:"dialog,omitempty"`
	MusicOn       bool      `json:"music_on"`
	Caption       string    `json:"caption"`
	Message       string    `json:"message"`
	AlienPos      *Position `json:"alien_pos,omitempty"`
	ViewportWidth int       `json:"viewport_width"`
	Landscape     bool      `json:"landscape"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`
}

// Outcome reports the result of a player command. A rejected command leaves
// the game state unchanged apart from the advisory dialog it may open.
type Outcome struct {
	Accepted bool       `json:"accepted"`
	Message  string     `json:"message,omitempty"`
	Err      error      `json:"-"`
	Won      bool       `json:"won,omitempty"`
	From     Rover      `json:"from"`
	To       Rover      `json:"to"`
	State    *GameState `json:"-"`
}
