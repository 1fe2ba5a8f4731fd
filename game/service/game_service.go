package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/mars-rover-game/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, viewportWidth int) (*SessionInfo, error)
	JoinSession(ctx context.Context, sessionID, configName string, viewportWidth int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Player commands
	StartGame(ctx context.Context, sessionID string, viewportWidth int) (*CommandResult, error)
	Pilot(ctx context.Context, sessionID, command string) (*CommandResult, error)
	BulkPilot(ctx context.Context, sessionID string, commands []string) (*BulkCommandResult, error)
	Reset(ctx context.Context, sessionID string) (*CommandResult, error)
	CloseDialog(ctx context.Context, sessionID string) (*CommandResult, error)
	ToggleAudio(ctx context.Context, sessionID string) (*CommandResult, error)
	UpdateViewport(ctx context.Context, sessionID string, width int, landscape bool) (*CommandResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, viewportWidth int) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig, viewportWidth int) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID        string
	Engine    *engine.GameEngine
	Config    *engine.GameConfig
	CreatedAt time.Time

	mu             sync.Mutex
	lastAccessedAt time.Time
}

// Touch records an access at t.
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	s.lastAccessedAt = t
	s.mu.Unlock()
}

// LastAccessed returns the time of the latest access.
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}
