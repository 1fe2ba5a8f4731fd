package main

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mars-rover-game/game/engine"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	sprint := `{"name": "sprint", "timer": "10s", "grid": {"small": 5, "large": 5}}`
	if err := os.WriteFile(filepath.Join(dir, "sprint.json"), []byte(sprint), 0o644); err != nil {
		t.Fatal(err)
	}
	crater := "name = \"crater\"\ntimer = \"45s\"\n"
	cratersPath := filepath.Join(t.TempDir(), "crater.hcl")
	if err := os.WriteFile(cratersPath, []byte(crater), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		dir      string
		config   string
		wantName string
		wantErr  bool
	}{
		{"directory default", dir, "", "sprint", false},
		{"named in directory", dir, "sprint", "sprint", false},
		{"file path", dir, cratersPath, "crater", false},
		{"missing dir falls back to built-in", filepath.Join(dir, "nope"), "", "classic", false},
		{"missing dir with a name", filepath.Join(dir, "nope"), "sprint", "", true},
		{"unknown name", dir, "marathon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(tt.dir, tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cfg.Name != tt.wantName {
				t.Errorf("Expected config %q, got %q", tt.wantName, cfg.Name)
			}
		})
	}
}

func TestNewCommand(t *testing.T) {
	cmd := newCommand()
	if cmd.Name != "rover-tui" {
		t.Errorf("Expected name rover-tui, got %s", cmd.Name)
	}
	for _, name := range []string{"config-dir", "config", "mute", "volume", "log"} {
		found := false
		for _, f := range cmd.Flags {
			for _, n := range f.Names() {
				if n == name {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("Expected flag %q", name)
		}
	}
}

func TestVolumeFlag(t *testing.T) {
	tests := []struct {
		args []string
		want float64
	}{
		{[]string{"rover-tui"}, 1},
		{[]string{"rover-tui", "--volume", "0.25"}, 0.25},
	}
	for _, tt := range tests {
		var got float64
		cmd := newCommand()
		cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
			got = cmd.Float("volume")
			return nil
		}
		if err := cmd.Run(context.Background(), tt.args); err != nil {
			t.Fatalf("Run(%v): %v", tt.args, err)
		}
		if got != tt.want {
			t.Errorf("Run(%v): volume %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestNewPlayerStaysPaused(t *testing.T) {
	for _, v := range []float64{-1, 0, 0.5, 3} {
		if p := newPlayer(v); p.Playing() {
			t.Errorf("newPlayer(%v) should not start playing", v)
		}
	}
}

func TestLogRendererAlongsideUI(t *testing.T) {
	var buf bytes.Buffer
	var uiFrames int
	ui := engine.RendererFunc(func(*engine.GameState) { uiFrames++ })
	renderer := engine.MultiRenderer{ui, logRenderer(log.New(&buf, "", 0))}

	alien := engine.Position{Row: 3, Column: 4}
	renderer.Render(&engine.GameState{Message: "Game started"})
	renderer.Render(&engine.GameState{Message: "Game started"})
	renderer.Render(&engine.GameState{Message: "Position: 3/4 - Direction: E", AlienFound: true, AlienPos: &alien})
	renderer.Render(&engine.GameState{Message: "Game over", GameOver: true, Rover: engine.Rover{Row: 1, Column: 2}})

	if uiFrames != 4 {
		t.Errorf("Expected 4 UI frames, got %d", uiFrames)
	}
	want := []string{
		"status: Game started",
		"status: Position: 3/4 - Direction: E",
		"alien found at 3/4",
		"status: Game over",
		"countdown expired with the rover at 1/2",
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Unexpected log lines:\n%s", buf.String())
	}
}
