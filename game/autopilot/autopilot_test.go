package autopilot

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wricardo/mars-rover-game/api"
	"github.com/wricardo/mars-rover-game/game/config"
	"github.com/wricardo/mars-rover-game/game/engine"
	"github.com/wricardo/mars-rover-game/game/service"
	"github.com/wricardo/mars-rover-game/game/session"
)

func TestSweepPlan_VisitsEveryCell(t *testing.T) {
	for size := 1; size <= 12; size++ {
		plan := SweepPlan(size)
		if len(plan) != SweepLength(size) {
			t.Errorf("size %d: plan has %d commands, SweepLength says %d", size, len(plan), SweepLength(size))
		}

		rover := engine.Rover{Heading: engine.North}
		visited := map[engine.Position]bool{rover.Position(): true}
		for i, cmd := range plan {
			next, err := engine.Apply(rover, cmd, size)
			if err != nil {
				t.Fatalf("size %d: command %d (%s) refused: %v", size, i, cmd, err)
			}
			rover = next
			visited[rover.Position()] = true
		}
		if len(visited) != size*size {
			t.Errorf("size %d: visited %d cells, want %d", size, len(visited), size*size)
		}
	}
}

func TestSweepPlan_Small(t *testing.T) {
	want := []engine.Command{"r", "f", "r", "f", "r", "f"}
	if diff := cmp.Diff(want, SweepPlan(2)); diff != "" {
		t.Errorf("SweepPlan(2) mismatch (-want +got):\n%s", diff)
	}
	if SweepPlan(0) != nil {
		t.Error("Expected no plan for an empty grid")
	}
}

func TestChunks(t *testing.T) {
	plan := SweepPlan(10)
	chunks := Chunks(plan, engine.MaxBulkCommands)

	total := 0
	for i, c := range chunks {
		if len(c) > engine.MaxBulkCommands {
			t.Errorf("chunk %d has %d commands", i, len(c))
		}
		total += len(c)
	}
	if total != len(plan) {
		t.Errorf("Expected %d commands across chunks, got %d", len(plan), total)
	}
	if chunks[0][0] != "r" {
		t.Errorf("Expected first command r, got %s", chunks[0][0])
	}
}

type stubGame struct {
	starts, resets, closes int
	startResults           []*service.CommandResult
	bulkResults            []*service.BulkCommandResult
	bulkCalls              int
}

func (g *stubGame) Start(ctx context.Context, width int) (*service.CommandResult, error) {
	res := g.startResults[min(g.starts, len(g.startResults)-1)]
	g.starts++
	return res, nil
}

func (g *stubGame) Reset(ctx context.Context) (*service.CommandResult, error) {
	g.resets++
	return &service.CommandResult{Accepted: true, GameState: &engine.GameState{GridSize: 3, Started: true}}, nil
}

func (g *stubGame) CloseDialog(ctx context.Context) (*service.CommandResult, error) {
	g.closes++
	return &service.CommandResult{Accepted: true}, nil
}

func (g *stubGame) BulkPilot(ctx context.Context, commands []string) (*service.BulkCommandResult, error) {
	res := g.bulkResults[min(g.bulkCalls, len(g.bulkResults)-1)]
	g.bulkCalls++
	res.CommandsExecuted = len(commands)
	return res, nil
}

func started() *service.CommandResult {
	return &service.CommandResult{Accepted: true, GameState: &engine.GameState{GridSize: 3, Started: true}}
}

func TestRun_RetriesAfterExpiry(t *testing.T) {
	alien := engine.Position{Row: 2, Column: 1}
	game := &stubGame{
		startResults: []*service.CommandResult{started()},
		bulkResults: []*service.BulkCommandResult{
			{GameOver: true, StopReasonCode: service.ReasonDialogOpen},
			{Won: true, GameState: &engine.GameState{AlienFound: true, AlienPos: &alien}},
		},
	}

	result, err := Run(context.Background(), game, Options{MaxAttempts: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Won || result.Attempts != 2 {
		t.Errorf("Expected a win on attempt 2, got %+v", result)
	}
	if result.Alien == nil || *result.Alien != alien {
		t.Errorf("Expected alien at %v, got %v", alien, result.Alien)
	}
	if game.closes != 1 {
		t.Errorf("Expected the game over dialog closed once, got %d", game.closes)
	}
}

func TestRun_AlienAtBase(t *testing.T) {
	base := engine.Position{}
	game := &stubGame{
		startResults: []*service.CommandResult{{
			Accepted:  true,
			Won:       true,
			GameState: &engine.GameState{GridSize: 3, AlienFound: true, AlienPos: &base},
		}},
	}

	result, err := Run(context.Background(), game, Options{MaxAttempts: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := &Result{Won: true, Attempts: 1, Alien: &base, State: game.startResults[0].GameState}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("Run() mismatch (-want +got):\n%s", diff)
	}
	if game.bulkCalls != 0 {
		t.Errorf("Expected no piloting, got %d bulk calls", game.bulkCalls)
	}
}

func TestRun_GivesUp(t *testing.T) {
	game := &stubGame{
		startResults: []*service.CommandResult{started()},
		bulkResults:  []*service.BulkCommandResult{{GameOver: true}},
	}

	result, err := Run(context.Background(), game, Options{MaxAttempts: 2})
	if !errors.Is(err, ErrGaveUp) {
		t.Fatalf("Expected ErrGaveUp, got %v", err)
	}
	if result.Attempts != 2 || result.Won {
		t.Errorf("Unexpected result %+v", result)
	}
}

func TestLaunch(t *testing.T) {
	tests := []struct {
		name       string
		first      *service.CommandResult
		wantErr    bool
		wantResets int
		wantCloses int
	}{
		{"fresh start", started(), false, 0, 0},
		{"already running", &service.CommandResult{Reason: service.ReasonAlreadyStarted}, false, 1, 0},
		{"locked dialog", &service.CommandResult{Reason: service.ReasonDialogLocked, Message: "Landscape mode is not allowed."}, true, 0, 0},
		{"other refusal", &service.CommandResult{Reason: service.ReasonDialogOpen}, false, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &stubGame{startResults: []*service.CommandResult{tt.first, started()}}
			state, err := launch(context.Background(), game, 0)
			if (err != nil) != tt.wantErr {
				t.Fatalf("launch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && state.GridSize != 3 {
				t.Errorf("Expected grid size 3, got %d", state.GridSize)
			}
			if game.resets != tt.wantResets || game.closes != tt.wantCloses {
				t.Errorf("resets=%d closes=%d, want %d and %d", game.resets, game.closes, tt.wantResets, tt.wantCloses)
			}
		})
	}
}

func TestRun_AgainstAPI(t *testing.T) {
	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("config manager: %v", err)
	}
	sessions := session.NewManager(session.WithRandSource(func() *rand.Rand {
		return rand.New(rand.NewPCG(1, 2))
	}))
	server := httptest.NewServer(api.NewServer(service.NewGameService(sessions, configs), nil))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()
	info, err := client.CreateSession(ctx, "", 1280)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	defer sessions.Delete(info.ID)

	result, err := Run(ctx, client, Options{ViewportWidth: 1280, MaxAttempts: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Won || result.Alien == nil {
		t.Fatalf("Expected the alien to be found, got %+v", result)
	}
	if result.Commands > SweepLength(engine.DefaultLargeGrid) {
		t.Errorf("Used %d commands, more than a full sweep", result.Commands)
	}

	state, err := client.State(ctx)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if !state.AlienFound || state.Rover.Position() != *result.Alien {
		t.Errorf("Expected rover on the alien, got rover %v alien %v", state.Rover.Position(), result.Alien)
	}
}

func TestClient_Errors(t *testing.T) {
	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("config manager: %v", err)
	}
	server := httptest.NewServer(api.NewServer(service.NewGameService(session.NewManager(session.WithRandSource(func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) })), configs), nil))
	defer server.Close()

	client := NewClient(server.URL)
	client.UseSession("zz99")
	if _, err := client.State(context.Background()); err == nil {
		t.Error("Expected error for unknown session")
	}
	if _, err := client.CreateSession(context.Background(), "missing", 0); err == nil {
		t.Error("Expected error for unknown config")
	}
}
