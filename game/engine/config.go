package engine

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultBreakpoint           = 485
	DefaultTimer                = "30s"
	DefaultOrientationLockWidth = 1000
	DefaultCaptionBreakpoint    = 700
	MaxTimer                    = time.Hour
)

// GameConfig represents the game configuration loaded from HCL or JSON files
type GameConfig struct {
	Name                 string        `hcl:"name" json:"name"`
	Description          string        `hcl:"description,optional" json:"description"`
	Timer                string        `hcl:"timer,optional" json:"timer"`
	OrientationLockWidth int           `hcl:"orientation_lock_width,optional" json:"orientation_lock_width"`
	CaptionBreakpoint    int           `hcl:"caption_breakpoint,optional" json:"caption_breakpoint"`
	Grid                 *GridSettings `hcl:"grid,block" json:"grid"`
	Messages             *Messages     `hcl:"messages,block" json:"messages"`
}

// GridSettings selects the grid side from the viewport width.
type GridSettings struct {
	Small      int `hcl:"small,optional" json:"small"`
	Large      int `hcl:"large,optional" json:"large"`
	Breakpoint int `hcl:"breakpoint,optional" json:"breakpoint"`
}

// Messages are the texts shown to the player. Victory takes the row and
// column of the alien cell.
type Messages struct {
	NotStarted       string `hcl:"not_started,optional" json:"not_started"`
	Started          string `hcl:"started,optional" json:"started"`
	AlreadyStarted   string `hcl:"already_started,optional" json:"already_started"`
	CantMoveForward  string `hcl:"cant_move_forward,optional" json:"cant_move_forward"`
	CantMoveBackward string `hcl:"cant_move_backward,optional" json:"cant_move_backward"`
	Victory          string `hcl:"victory,optional" json:"victory"`
	GameOver         string `hcl:"game_over,optional" json:"game_over"`
	Reset            string `hcl:"reset,optional" json:"reset"`
	DialogOpen       string `hcl:"dialog_open,optional" json:"dialog_open"`
	Landscape        string `hcl:"landscape,optional" json:"landscape"`
	Status           string `hcl:"status,optional" json:"status"`
}

// DefaultMessages returns the stock player-facing texts.
func DefaultMessages() *Messages {
	return &Messages{
		NotStarted:       "Click on 'Start Game' to start piloting the rover.",
		Started:          "Mission started: find the alien before the timer runs out!",
		AlreadyStarted:   "The game is already running.",
		CantMoveForward:  "You can't move forward!",
		CantMoveBackward: "You can't move backward!",
		Victory:          "CONGRATULATIONS! You've found an alien on Mars at position %d/%d!",
		GameOver:         "GAME OVER! You didn't find the alien within the deadline!",
		Reset:            "Rover returned to base.",
		DialogOpen:       "Close the message to continue.",
		Landscape:        "Landscape mode is not allowed.",
		Status:           "Position: %d/%d - Direction: %s",
	}
}

// DefaultConfig returns the built-in configuration: 8 or 10 cells split at a
// 485px viewport and a 30 second countdown.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:                 "classic",
		Description:          "Find the alien on an 8x8 (narrow screens) or 10x10 grid within 30 seconds",
		Timer:                DefaultTimer,
		OrientationLockWidth: DefaultOrientationLockWidth,
		CaptionBreakpoint:    DefaultCaptionBreakpoint,
		Grid: &GridSettings{
			Small:      DefaultSmallGrid,
			Large:      DefaultLargeGrid,
			Breakpoint: DefaultBreakpoint,
		},
		Messages: DefaultMessages(),
	}
}

// ApplyDefaults fills every unset field from DefaultConfig.
func ApplyDefaults(config *GameConfig) {
	def := DefaultConfig()

	if config.Timer == "" {
		config.Timer = def.Timer
	}
	if config.OrientationLockWidth == 0 {
		config.OrientationLockWidth = def.OrientationLockWidth
	}
	if config.CaptionBreakpoint == 0 {
		config.CaptionBreakpoint = def.CaptionBreakpoint
	}

	if config.Grid == nil {
		config.Grid = def.Grid
	} else {
		if config.Grid.Small == 0 {
			config.Grid.Small = def.Grid.Small
		}
		if config.Grid.Large == 0 {
			config.Grid.Large = def.Grid.Large
		}
		if config.Grid.Breakpoint == 0 {
			config.Grid.Breakpoint = def.Grid.Breakpoint
		}
	}

	if config.Messages == nil {
		config.Messages = def.Messages
		return
	}
	m, d := config.Messages, def.Messages
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&m.NotStarted, d.NotStarted)
	fill(&m.Started, d.Started)
	fill(&m.AlreadyStarted, d.AlreadyStarted)
	fill(&m.CantMoveForward, d.CantMoveForward)
	fill(&m.CantMoveBackward, d.CantMoveBackward)
	fill(&m.Victory, d.Victory)
	fill(&m.GameOver, d.GameOver)
	fill(&m.Reset, d.Reset)
	fill(&m.DialogOpen, d.DialogOpen)
	fill(&m.Landscape, d.Landscape)
	fill(&m.Status, d.Status)
}

// TimerDuration parses the countdown length.
func (c *GameConfig) TimerDuration() (time.Duration, error) {
	if c.Timer == "" {
		return 0, fmt.Errorf("timer is not set")
	}
	d, err := time.ParseDuration(c.Timer)
	if err != nil {
		return 0, fmt.Errorf("invalid timer %q: %w", c.Timer, err)
	}
	return d, nil
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.Grid == nil {
		return fmt.Errorf("config validation: grid block is required")
	}
	g := config.Grid
	if g.Small < MinGridSize || g.Small > MaxGridSize {
		return fmt.Errorf("config validation: grid.small must be between %d and %d, got %d", MinGridSize, MaxGridSize, g.Small)
	}
	if g.Large < MinGridSize || g.Large > MaxGridSize {
		return fmt.Errorf("config validation: grid.large must be between %d and %d, got %d", MinGridSize, MaxGridSize, g.Large)
	}
	if g.Small > g.Large {
		return fmt.Errorf("config validation: grid.small (%d) must not exceed grid.large (%d)", g.Small, g.Large)
	}
	if g.Breakpoint <= 0 {
		return fmt.Errorf("config validation: grid.breakpoint must be positive, got %d", g.Breakpoint)
	}

	d, err := config.TimerDuration()
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if d <= 0 || d > MaxTimer {
		return fmt.Errorf("config validation: timer must be between 0 and %s, got %s", MaxTimer, d)
	}

	if config.OrientationLockWidth < 0 {
		return fmt.Errorf("config validation: orientation_lock_width must not be negative")
	}
	if config.CaptionBreakpoint < 0 {
		return fmt.Errorf("config validation: caption_breakpoint must not be negative")
	}

	if config.Messages == nil {
		return fmt.Errorf("config validation: messages block is required")
	}
	if strings.Count(config.Messages.Victory, "%d") != 2 {
		return fmt.Errorf("config validation: messages.victory must contain %%d twice for row and column")
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *GameConfig) Clone() *GameConfig {
	out := *c
	if c.Grid != nil {
		g := *c.Grid
		out.Grid = &g
	}
	if c.Messages != nil {
		m := *c.Messages
		out.Messages = &m
	}
	return &out
}
