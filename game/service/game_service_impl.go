package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/mars-rover-game/game/engine"
)

// ErrNoCommands is returned by BulkPilot when the command list is empty.
var ErrNoCommands = errors.New("no commands provided")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, viewportWidth int) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			return nil, s.configNotFound(configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config, viewportWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(session, configName), nil
}

// JoinSession returns the named session, creating it with the given config
// when it does not exist yet. Several players can share a session id this way.
func (s *gameServiceImpl) JoinSession(ctx context.Context, sessionID, configName string, viewportWidth int) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config := s.configs.GetDefault()
	if configName != "" {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			return nil, s.configNotFound(configName, err)
		}
	}

	session, err := s.sessions.GetOrCreate(sessionID, config, viewportWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to join session: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(session.ID)
	return s.sessionInfo(session, ""), nil
}

// configNotFound adds the available config ids to a lookup failure.
func (s *gameServiceImpl) configNotFound(configName string, err error) error {
	available, listErr := s.configs.ListConfigs()
	if listErr == nil && len(available) > 0 {
		ids := make([]string, 0, len(available))
		for _, cfg := range available {
			ids = append(ids, cfg.ConfigID)
		}
		return fmt.Errorf("config '%s': %w. Available configs: %v", configName, err, ids)
	}
	return fmt.Errorf("config '%s': %w. Use /api/configs to list available configurations", configName, err)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// session looks up a session and marks it as used.
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// command runs one engine operation against a session.
func (s *gameServiceImpl) command(sessionID, name string, op func(*engine.GameEngine) engine.Outcome) (*CommandResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	out := op(sess.Engine)
	return newCommandResult(name, out), nil
}

// StartGame starts (or restarts after the end) the game of a session
func (s *gameServiceImpl) StartGame(ctx context.Context, sessionID string, viewportWidth int) (*CommandResult, error) {
	return s.command(sessionID, "start", func(e *engine.GameEngine) engine.Outcome {
		return e.Start(viewportWidth)
	})
}

// Pilot executes a single piloting command
func (s *gameServiceImpl) Pilot(ctx context.Context, sessionID, command string) (*CommandResult, error) {
	cmd, err := engine.ParseCommand(command)
	if err != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		sess, serr := s.session(sessionID)
		if serr != nil {
			return nil, serr
		}
		state := sess.Engine.GetState()
		return &CommandResult{
			Command:   command,
			Message:   err.Error(),
			Reason:    ReasonInvalidCommand,
			From:      state.Rover,
			To:        state.Rover,
			GameState: state,
		}, nil
	}
	return s.command(sessionID, cmd.Name(), func(e *engine.GameEngine) engine.Outcome {
		return e.AttemptMove(cmd)
	})
}

// BulkPilot executes commands in order until one is rejected, the game ends
// or the list is exhausted. At most engine.MaxBulkCommands run per call.
func (s *gameServiceImpl) BulkPilot(ctx context.Context, sessionID string, commands []string) (*BulkCommandResult, error) {
	if len(commands) == 0 {
		return nil, ErrNoCommands
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	result := &BulkCommandResult{
		RequestedCommands: len(commands),
		Events:            make([]GameEvent, 0),
		Success:           true,
		StartRover:        state.Rover,
		EndRover:          state.Rover,
		GameState:         state,
		GameOver:          state.GameOver,
		Message:           state.Message,
	}

	// Limit commands to prevent abuse
	if len(commands) > engine.MaxBulkCommands {
		result.Truncated = true
		result.Limit = engine.MaxBulkCommands
		commands = commands[:engine.MaxBulkCommands]
	}

	stop := func(idx int, code, reason string) {
		result.StopReasonCode = code
		result.StoppedReason = reason
		result.StoppedOnCommand = idx + 1
	}

	for i, raw := range commands {
		if err := ctx.Err(); err != nil {
			result.Success = false
			stop(i, "cancelled", err.Error())
			break
		}

		cmd, err := engine.ParseCommand(raw)
		if err != nil {
			result.Success = false
			stop(i, ReasonInvalidCommand, err.Error())
			break
		}

		out := sess.Engine.AttemptMove(cmd)
		cr := newCommandResult(cmd.Name(), out)
		result.Steps = append(result.Steps, StepInfo{
			Idx:      i,
			Command:  cmd.Name(),
			From:     out.From,
			To:       out.To,
			Accepted: out.Accepted,
			Won:      out.Won,
		})
		result.Events = append(result.Events, cr.Events...)
		result.GameState = out.State
		result.EndRover = out.State.Rover
		result.Message = out.Message

		if !out.Accepted {
			result.Success = false
			stop(i, cr.Reason, out.Message)
			break
		}
		result.CommandsExecuted++
		if out.Won {
			result.Won = true
			stop(i, ReasonVictory, out.Message)
			break
		}
	}

	result.GameOver = result.GameState.GameOver
	return result, nil
}

// Reset returns the rover to base and hides the alien again
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*CommandResult, error) {
	return s.command(sessionID, "reset", func(e *engine.GameEngine) engine.Outcome {
		return e.Reset()
	})
}

// CloseDialog dismisses the open dialog
func (s *gameServiceImpl) CloseDialog(ctx context.Context, sessionID string) (*CommandResult, error) {
	return s.command(sessionID, "close-dialog", func(e *engine.GameEngine) engine.Outcome {
		return e.CloseDialog()
	})
}

// ToggleAudio flips the background music
func (s *gameServiceImpl) ToggleAudio(ctx context.Context, sessionID string) (*CommandResult, error) {
	return s.command(sessionID, "toggle-audio", func(e *engine.GameEngine) engine.Outcome {
		return e.ToggleAudio()
	})
}

// UpdateViewport records the player's screen geometry
func (s *gameServiceImpl) UpdateViewport(ctx context.Context, sessionID string, width int, landscape bool) (*CommandResult, error) {
	return s.command(sessionID, "viewport", func(e *engine.GameEngine) engine.Outcome {
		return e.UpdateViewport(width, landscape)
	})
}

// GetGameState returns the current game state for a session
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history for a session
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return paginateHistory(sess.Engine.GetMoveHistory(), opts), nil
}

func paginateHistory(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}
	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// newCommandResult converts an engine outcome and derives its events.
func newCommandResult(name string, out engine.Outcome) *CommandResult {
	result := &CommandResult{
		Command:   name,
		Accepted:  out.Accepted,
		Message:   out.Message,
		Reason:    ReasonCode(out.Err),
		Won:       out.Won,
		From:      out.From,
		To:        out.To,
		GameState: out.State,
	}
	if result.Reason == ReasonNotStarted && out.State != nil && out.State.GameOver {
		result.Reason = ReasonGameEnded
	}
	result.Events = extractEvents(name, out)
	return result
}

// ReasonCode maps an engine rejection to a machine-friendly code.
func ReasonCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, engine.ErrNotStarted):
		return ReasonNotStarted
	case errors.Is(err, engine.ErrAlreadyStarted):
		return ReasonAlreadyStarted
	case errors.Is(err, engine.ErrOutOfBounds):
		return ReasonOutOfBounds
	case errors.Is(err, engine.ErrDialogOpen):
		return ReasonDialogOpen
	case errors.Is(err, engine.ErrDialogLocked):
		return ReasonDialogLocked
	case errors.Is(err, engine.ErrNoDialog):
		return ReasonNoDialog
	case errors.Is(err, engine.ErrInvalidCommand), errors.Is(err, engine.ErrInvalidHeading):
		return ReasonInvalidCommand
	case errors.Is(err, engine.ErrEngineClosed):
		return ReasonSessionClosed
	case errors.Is(err, engine.ErrAudio):
		return ReasonAudio
	default:
		return ReasonError
	}
}

// extractEvents generates events from a command outcome
func extractEvents(name string, out engine.Outcome) []GameEvent {
	now := time.Now()
	pos := out.To.Position()

	if !out.Accepted {
		return []GameEvent{{Type: "blocked", Message: out.Message, Timestamp: now, Position: pos}}
	}

	var events []GameEvent
	switch name {
	case engine.CommandLeft.Name(), engine.CommandRight.Name():
		events = append(events, GameEvent{
			Type:      "turn",
			Message:   fmt.Sprintf("Rover now facing %s", out.To.Heading),
			Timestamp: now,
			Position:  pos,
		})
	case engine.CommandForward.Name(), engine.CommandBackward.Name():
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Moved to %d/%d", out.To.Row, out.To.Column),
			Timestamp: now,
			Position:  pos,
		})
	case "start":
		events = append(events, GameEvent{Type: "start", Message: out.Message, Timestamp: now, Position: pos})
	case "reset":
		events = append(events, GameEvent{Type: "reset", Message: out.Message, Timestamp: now, Position: pos})
	case "close-dialog":
		events = append(events, GameEvent{Type: "dialog_closed", Message: out.Message, Timestamp: now, Position: pos})
	case "toggle-audio":
		msg := "Music off"
		if out.State != nil && out.State.MusicOn {
			msg = "Music on"
		}
		events = append(events, GameEvent{Type: "audio", Message: msg, Timestamp: now, Position: pos})
	case "viewport":
		events = append(events, GameEvent{Type: "viewport", Message: out.Message, Timestamp: now, Position: pos})
	}

	if out.Won {
		msg := out.Message
		if out.State != nil && out.State.Dialog != nil {
			msg = out.State.Dialog.Message
		}
		events = append(events, GameEvent{Type: "victory", Message: msg, Timestamp: now, Position: pos})
	}
	return events
}
