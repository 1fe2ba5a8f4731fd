package terminal

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/mars-rover-game/game/clock"
	"github.com/wricardo/mars-rover-game/game/engine"
)

func newTestUI(t *testing.T, cols, rows int) (*UI, *engine.GameEngine, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)

	ui := New(screen)
	e, err := engine.NewEngine(nil,
		engine.WithRenderer(ui),
		engine.WithClock(clock.NewFake(time.Unix(0, 0))),
		engine.WithRand(rand.New(rand.NewPCG(1, 2))),
	)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	ui.Attach(e)
	return ui, e, screen
}

func rowText(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func screenText(screen tcell.Screen) string {
	_, h := screen.Size()
	var lines []string
	for y := 0; y < h; y++ {
		lines = append(lines, rowText(screen, y))
	}
	return strings.Join(lines, "\n")
}

func TestUI_DrawsRoverAtBase(t *testing.T) {
	ui, _, screen := newTestUI(t, 80, 30)
	ui.Draw()

	if !strings.Contains(rowText(screen, 0), "MARS ROVER") {
		t.Errorf("Expected title, got %q", rowText(screen, 0))
	}
	if r, _, _, _ := screen.GetContent(gridLeft, gridTop); r != '▲' {
		t.Errorf("Expected rover glyph at base, got %q", r)
	}
	if !strings.Contains(screenText(screen), "Position: 0/0 - Direction: N") {
		t.Error("Expected status line")
	}
}

func TestUI_HandleKey(t *testing.T) {
	ui, _, _ := newTestUI(t, 80, 30)

	if !ui.HandleKey(tcell.KeyRune, 's') {
		t.Fatal("start should not quit")
	}
	state := ui.State()
	if !state.Started {
		t.Fatal("Expected game started")
	}
	if state.GridSize != engine.DefaultLargeGrid {
		t.Errorf("Expected large grid for an 80 column terminal, got %d", state.GridSize)
	}

	ui.HandleKey(tcell.KeyRune, 'r')
	if got := ui.State().Rover.Heading; got != engine.East {
		t.Errorf("Expected heading E, got %s", got)
	}

	ui.HandleKey(tcell.KeyLeft, 0)
	if got := ui.State().Rover.Heading; got != engine.North {
		t.Errorf("Expected heading N after left arrow, got %s", got)
	}

	ui.HandleKey(tcell.KeyDown, 0)
	if got := ui.State().Rover; got.Row != 1 || got.Column != 0 {
		t.Errorf("Expected rover at 1/0 after moving back, got %d/%d", got.Row, got.Column)
	}

	ui.HandleKey(tcell.KeyRune, 'm')
	if !ui.State().MusicOn {
		t.Error("Expected music on")
	}
}

func TestUI_DialogFlow(t *testing.T) {
	ui, _, screen := newTestUI(t, 80, 30)

	// Piloting before start opens the advisory dialog
	ui.HandleKey(tcell.KeyRune, 'f')
	if ui.State().Dialog == nil {
		t.Fatal("Expected a dialog")
	}
	ui.Draw()
	if !strings.Contains(screenText(screen), "press enter to close") {
		t.Error("Expected close hint on a closable dialog")
	}

	ui.HandleKey(tcell.KeyEnter, 0)
	if ui.State().Dialog != nil {
		t.Error("Expected dialog closed")
	}
}

func TestUI_Quit(t *testing.T) {
	ui, _, _ := newTestUI(t, 80, 30)

	for _, tc := range []struct {
		name string
		key  tcell.Key
		ch   rune
	}{
		{"q", tcell.KeyRune, 'q'},
		{"ctrl-c", tcell.KeyCtrlC, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if ui.HandleKey(tc.key, tc.ch) {
				t.Error("Expected quit")
			}
		})
	}
}

func TestUI_ViewportWidth(t *testing.T) {
	ui, _, _ := newTestUI(t, 40, 30)
	if got := ui.ViewportWidth(); got != 400 {
		t.Errorf("Expected 400, got %d", got)
	}

	ui.HandleKey(tcell.KeyRune, 's')
	if got := ui.State().GridSize; got != engine.DefaultSmallGrid {
		t.Errorf("Expected small grid for a narrow terminal, got %d", got)
	}
}

func TestUI_RunStopsOnCancel(t *testing.T) {
	ui, _, _ := newTestUI(t, 80, 30)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ui.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestUI_RunWithoutEngine(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	defer screen.Fini()

	if err := New(screen).Run(context.Background()); err == nil {
		t.Error("Expected error without an engine")
	}
}
