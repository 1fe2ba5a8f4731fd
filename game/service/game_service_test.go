package service_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mars-rover-game/game/clock"
	"github.com/wricardo/mars-rover-game/game/engine"
	"github.com/wricardo/mars-rover-game/game/service"
	"github.com/wricardo/mars-rover-game/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	clock    *clock.Fake
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
		clock:    clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig, viewportWidth int) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config,
		engine.WithClock(m.clock),
		engine.WithRand(rand.New(rand.NewPCG(1, 7))),
		engine.WithViewport(viewportWidth),
	)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:        id,
		Engine:    eng,
		Config:    config,
		CreatedAt: time.Now(),
	}
	session.Touch(session.CreatedAt)
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.GameConfig, viewportWidth int) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config, viewportWidth)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if s, ok := m.sessions[id]; ok {
		s.Engine.Close()
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.Touch(time.Now())
		return nil
	}
	return errors.New("session not found")
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	tiny := engine.DefaultConfig()
	tiny.Name = "tiny"
	tiny.Grid = &engine.GridSettings{Small: 2, Large: 2, Breakpoint: 485}

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"classic": engine.DefaultConfig(),
			"tiny":    tiny,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, ok := m.configs[name]
	if !ok {
		return nil, errors.New("configuration not found")
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var result []*service.ConfigInfo
	for id, c := range m.configs {
		result = append(result, &service.ConfigInfo{ConfigID: id, Name: c.Name, Filename: id + ".hcl"})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["classic"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.configs[name] = config
	return nil
}

func newTestService(t *testing.T) (service.GameService, *MockSessionManager) {
	t.Helper()
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockConfigManager()), sessions
}

func createStartedSession(t *testing.T, svc service.GameService, configName string) string {
	t.Helper()
	ctx := context.Background()
	info, err := svc.CreateSession(ctx, configName, 1280)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	res, err := svc.StartGame(ctx, info.ID, 0)
	if err != nil || !res.Accepted {
		t.Fatalf("StartGame: err=%v result=%+v", err, res)
	}
	return info.ID
}

func TestCreateSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "", 1280)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if info.ID == "" || info.ConfigName != "classic" {
		t.Errorf("unexpected session info %+v", info)
	}
	if info.GameState.Started {
		t.Error("new session must not be started")
	}

	named, err := svc.CreateSession(ctx, "tiny", 0)
	if err != nil {
		t.Fatalf("CreateSession tiny: %v", err)
	}
	if named.ConfigName != "tiny" || named.GameState.GridSize != 2 {
		t.Errorf("unexpected tiny session %+v", named)
	}

	if _, err := svc.CreateSession(ctx, "missing", 0); err == nil {
		t.Error("expected error for unknown config")
	}

	sessions, _ := svc.ListSessions(ctx)
	if len(sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestJoinSession(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	first, err := svc.JoinSession(ctx, "crew", "tiny", 0)
	if err != nil {
		t.Fatalf("JoinSession: %v", err)
	}
	if first.ID != "crew" || first.ConfigName != "tiny" {
		t.Errorf("unexpected session info %+v", first)
	}

	// The second player lands in the same game; the config argument is ignored.
	second, err := svc.JoinSession(ctx, "crew", "classic", 1280)
	if err != nil {
		t.Fatalf("JoinSession again: %v", err)
	}
	if second.ID != first.ID || second.ConfigName != "tiny" {
		t.Errorf("expected to join %q, got %+v", first.ID, second)
	}
	if len(sessions.sessions) != 1 {
		t.Errorf("expected 1 session, got %d", len(sessions.sessions))
	}

	if _, err := svc.JoinSession(ctx, "other", "missing", 0); err == nil {
		t.Error("expected error for unknown config")
	}
}

func TestConcurrentReadsAndPiloting(t *testing.T) {
	manager := session.NewManager(session.WithRandSource(func() *rand.Rand {
		return rand.New(rand.NewPCG(1, 7))
	}))
	svc := service.NewGameService(manager, NewMockConfigManager())
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "", 1280)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := svc.StartGame(ctx, info.ID, 0); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = svc.GetGameState(ctx, info.ID)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				list, err := svc.ListSessions(ctx)
				if err != nil || len(list) != 1 || list[0].LastAccessedAt.IsZero() {
					t.Errorf("ListSessions = %+v, %v", list, err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = svc.GetSession(ctx, info.ID)
				_, _ = svc.Pilot(ctx, info.ID, "l")
			}
		}()
	}
	wg.Wait()
	_ = svc.DeleteSession(ctx, info.ID)
}

func TestGetAndDeleteSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "", 0)

	if _, err := svc.GetSession(ctx, info.ID); err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := svc.GetSession(ctx, info.ID); err == nil {
		t.Error("expected error after delete")
	}
	if _, err := svc.Pilot(ctx, info.ID, "l"); err == nil {
		t.Error("expected error for deleted session")
	}
}

func TestPilotBeforeStart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "", 1280)

	res, err := svc.Pilot(ctx, info.ID, "f")
	if err != nil {
		t.Fatalf("Pilot: %v", err)
	}
	if res.Accepted || res.Reason != service.ReasonNotStarted {
		t.Errorf("expected not_started rejection, got %+v", res)
	}
	if len(res.Events) != 1 || res.Events[0].Type != "blocked" {
		t.Errorf("expected blocked event, got %+v", res.Events)
	}
}

func TestPilotTurnAndInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createStartedSession(t, svc, "")

	res, err := svc.Pilot(ctx, id, "turn-right")
	if err != nil {
		t.Fatalf("Pilot: %v", err)
	}
	if !res.Accepted || res.To.Heading != engine.East || res.Command != "turn-right" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(res.Events) != 1 || res.Events[0].Type != "turn" {
		t.Errorf("expected turn event, got %+v", res.Events)
	}

	res, err = svc.Pilot(ctx, id, "jump")
	if err != nil {
		t.Fatalf("Pilot: %v", err)
	}
	if res.Accepted || res.Reason != service.ReasonInvalidCommand {
		t.Errorf("expected invalid_command, got %+v", res)
	}
}

func TestPilotOutOfBoundsThenDialog(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createStartedSession(t, svc, "")

	res, _ := svc.Pilot(ctx, id, "f")
	if res.Reason != service.ReasonOutOfBounds || res.Message != "You can't move forward!" {
		t.Fatalf("expected out_of_bounds, got %+v", res)
	}

	res, _ = svc.Pilot(ctx, id, "r")
	if res.Reason != service.ReasonDialogOpen {
		t.Errorf("expected dialog_open, got %+v", res)
	}

	res, _ = svc.CloseDialog(ctx, id)
	if !res.Accepted || res.GameState.Dialog != nil {
		t.Errorf("expected dialog closed, got %+v", res)
	}
	if res.Events[0].Type != "dialog_closed" {
		t.Errorf("expected dialog_closed event, got %+v", res.Events)
	}
}

func TestBulkPilotStopsOnRejection(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createStartedSession(t, svc, "")

	res, err := svc.BulkPilot(ctx, id, []string{"l", "r", "x", "l"})
	if err != nil {
		t.Fatalf("BulkPilot: %v", err)
	}
	if res.Success || res.CommandsExecuted != 2 || res.StoppedOnCommand != 3 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.StopReasonCode != service.ReasonInvalidCommand {
		t.Errorf("expected invalid_command, got %s", res.StopReasonCode)
	}

	res, _ = svc.BulkPilot(ctx, id, []string{"r", "l", "f", "r"})
	if res.StopReasonCode != service.ReasonOutOfBounds || res.CommandsExecuted != 2 || res.StoppedOnCommand != 3 {
		t.Errorf("expected stop at the boundary, got %+v", res)
	}
	if len(res.Steps) != 3 || res.Steps[2].Accepted {
		t.Errorf("expected 3 steps with the last rejected, got %+v", res.Steps)
	}
}

func TestBulkPilotFindsAlien(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createStartedSession(t, svc, "tiny")

	// Visits every cell of a 2x2 grid.
	res, err := svc.BulkPilot(ctx, id, []string{"b", "r", "f", "l", "f", "l", "l"})
	if err != nil {
		t.Fatalf("BulkPilot: %v", err)
	}
	if !res.Won || !res.Success || res.StopReasonCode != service.ReasonVictory {
		t.Fatalf("expected a win, got %+v", res)
	}
	if !res.GameState.AlienFound || res.GameState.AlienPos == nil {
		t.Error("expected the alien revealed")
	}
	if *res.GameState.AlienPos != res.EndRover.Position() {
		t.Errorf("alien %+v and rover %+v differ", res.GameState.AlienPos, res.EndRover)
	}
	last := res.Events[len(res.Events)-1]
	if last.Type != "victory" {
		t.Errorf("expected victory event last, got %+v", last)
	}
}

func TestBulkPilotLimits(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createStartedSession(t, svc, "")

	if _, err := svc.BulkPilot(ctx, id, nil); !errors.Is(err, service.ErrNoCommands) {
		t.Errorf("expected ErrNoCommands, got %v", err)
	}

	commands := make([]string, 60)
	for i := range commands {
		commands[i] = "l"
	}
	res, err := svc.BulkPilot(ctx, id, commands)
	if err != nil {
		t.Fatalf("BulkPilot: %v", err)
	}
	if !res.Truncated || res.Limit != engine.MaxBulkCommands || res.CommandsExecuted != engine.MaxBulkCommands {
		t.Errorf("expected truncation to %d, got %+v", engine.MaxBulkCommands, res)
	}
	if res.RequestedCommands != 60 {
		t.Errorf("expected 60 requested, got %d", res.RequestedCommands)
	}
}

func TestBulkPilotCancelledContext(t *testing.T) {
	svc, _ := newTestService(t)
	id := createStartedSession(t, svc, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := svc.BulkPilot(ctx, id, []string{"l"})
	if err != nil {
		t.Fatalf("BulkPilot: %v", err)
	}
	if res.Success || res.CommandsExecuted != 0 || res.StopReasonCode != "cancelled" {
		t.Errorf("expected cancellation, got %+v", res)
	}
}

func TestStartTwice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createStartedSession(t, svc, "")

	res, _ := svc.StartGame(ctx, id, 0)
	if res.Accepted || res.Reason != service.ReasonAlreadyStarted {
		t.Errorf("expected already_started, got %+v", res)
	}
}

func TestResetAndGameEnded(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	id := createStartedSession(t, svc, "")

	res, _ := svc.Reset(ctx, id)
	if !res.Accepted || res.Events[0].Type != "reset" {
		t.Errorf("unexpected reset result %+v", res)
	}

	sessions.clock.Advance(30 * time.Second)
	state, _ := svc.GetGameState(ctx, id)
	if !state.GameOver {
		t.Fatal("expected the countdown to end the game")
	}

	_, _ = svc.CloseDialog(ctx, id)
	res, _ = svc.Pilot(ctx, id, "l")
	if res.Reason != service.ReasonGameEnded {
		t.Errorf("expected game_ended, got %s", res.Reason)
	}
}

func TestToggleAudioAndViewport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "", 1280)

	res, _ := svc.ToggleAudio(ctx, info.ID)
	if !res.Accepted || !res.GameState.MusicOn || res.Events[0].Message != "Music on" {
		t.Errorf("unexpected toggle result %+v", res)
	}

	res, _ = svc.UpdateViewport(ctx, info.ID, 700, true)
	if res.GameState.Dialog == nil || res.GameState.Dialog.Kind != engine.DialogOrientation {
		t.Errorf("expected orientation dialog, got %+v", res.GameState.Dialog)
	}
	res, _ = svc.CloseDialog(ctx, info.ID)
	if res.Reason != service.ReasonDialogLocked {
		t.Errorf("expected dialog_locked, got %s", res.Reason)
	}
}

func TestGetMoveHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := createStartedSession(t, svc, "")

	for i := 0; i < 25; i++ {
		_, _ = svc.Pilot(ctx, id, "r")
	}

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantLen   int
		wantFirst int
		wantNext  bool
		wantPages int
	}{
		{"default desc", service.HistoryOptions{}, 20, 25, true, 2},
		{"asc page 1", service.HistoryOptions{Page: 1, Limit: 10, Order: "asc"}, 10, 1, true, 3},
		{"asc last page", service.HistoryOptions{Page: 3, Limit: 10, Order: "asc"}, 5, 21, false, 3},
		{"desc page 2", service.HistoryOptions{Page: 2, Limit: 10, Order: "desc"}, 10, 15, true, 3},
		{"past the end", service.HistoryOptions{Page: 9, Limit: 10, Order: "asc"}, 0, 0, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.GetMoveHistory(ctx, id, tt.opts)
			if err != nil {
				t.Fatalf("GetMoveHistory: %v", err)
			}
			if len(res.Moves) != tt.wantLen {
				t.Fatalf("expected %d moves, got %d", tt.wantLen, len(res.Moves))
			}
			if tt.wantLen > 0 && res.Moves[0].MoveNumber != tt.wantFirst {
				t.Errorf("expected first move %d, got %d", tt.wantFirst, res.Moves[0].MoveNumber)
			}
			if res.HasNext != tt.wantNext || res.TotalPages != tt.wantPages || res.TotalMoves != 25 {
				t.Errorf("unexpected paging %+v", res)
			}
		})
	}
}

func TestReasonCode(t *testing.T) {
	tests := map[error]string{
		nil:                     "",
		engine.ErrNotStarted:    service.ReasonNotStarted,
		engine.ErrOutOfBounds:   service.ReasonOutOfBounds,
		engine.ErrDialogOpen:    service.ReasonDialogOpen,
		engine.ErrDialogLocked:  service.ReasonDialogLocked,
		engine.ErrEngineClosed:  service.ReasonSessionClosed,
		errors.New("disk full"): service.ReasonError,

		fmt.Errorf("%w: no speaker", engine.ErrAudio): service.ReasonAudio,
	}
	for err, expected := range tests {
		if got := service.ReasonCode(err); got != expected {
			t.Errorf("ReasonCode(%v) = %q, expected %q", err, got, expected)
		}
	}
	wrapped := fmt.Errorf("pilot: %w", engine.ErrInvalidCommand)
	if service.ReasonCode(wrapped) != service.ReasonInvalidCommand {
		t.Error("wrapped errors must map through errors.Is")
	}
}

func TestConfigPassthrough(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 2 {
		t.Fatalf("expected 2 configs, got %d (%v)", len(configs), err)
	}

	custom := engine.DefaultConfig()
	custom.Name = "custom"
	if err := svc.SaveConfig(ctx, "custom", custom); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := svc.LoadConfig(ctx, "custom")
	if err != nil || loaded.Name != "custom" {
		t.Errorf("LoadConfig: %v %+v", err, loaded)
	}
}
