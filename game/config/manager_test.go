package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mars-rover-game/game/engine"
)

const classicHCL = `
name        = "classic"
description = "Classic hunt"
timer       = "30s"

grid {
  small = defaults.small_grid
  large = defaults.large_grid
}
`

const sprintJSON = `{"name": "sprint", "description": "Fast", "timer": "10s", "grid": {"small": 5, "large": 5}}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func createTestConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "classic.hcl", classicHCL)
	writeFile(t, dir, "sprint.json", sprintJSON)
	return dir
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		manager, err := NewManager(createTestConfigDir(t))
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "classic" {
			t.Errorf("Expected classic as default, got %s", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("missing classic falls back to first config", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "sprint.json", sprintJSON)
		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "sprint" {
			t.Errorf("Expected sprint as default, got %s", manager.GetDefault().Name)
		}
	})

	t.Run("empty directory uses built-in config", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if err := engine.ValidateGameConfig(manager.GetDefault()); err != nil {
			t.Errorf("Built-in default should be valid: %v", err)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	writeFile(t, dir, "broken.hcl", `name = `)
	writeFile(t, dir, "invalid.json", `{"name": "invalid", "grid": {"small": 1}}`)
	manager, _ := NewManager(dir)

	t.Run("load hcl config", func(t *testing.T) {
		config, err := manager.LoadConfig("classic")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Grid.Large != engine.DefaultLargeGrid {
			t.Errorf("Expected large grid %d, got %d", engine.DefaultLargeGrid, config.Grid.Large)
		}
	})

	t.Run("load with extension", func(t *testing.T) {
		config, err := manager.LoadConfig("sprint.json")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Timer != "10s" {
			t.Errorf("Expected timer 10s, got %s", config.Timer)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		first, _ := manager.LoadConfig("sprint")
		second, _ := manager.LoadConfig("sprint")
		if first != second {
			t.Error("Expected cached config")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		if _, err := manager.LoadConfig("missing"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load built-in config", func(t *testing.T) {
		config, err := manager.LoadConfig(BuiltinID)
		if err != nil {
			t.Fatalf("Failed to load built-in config: %v", err)
		}
		if config.Timer != engine.DefaultTimer {
			t.Errorf("Expected default timer, got %s", config.Timer)
		}
	})

	t.Run("load malformed config", func(t *testing.T) {
		if _, err := manager.LoadConfig("broken"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		if _, err := manager.LoadConfig("invalid"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("reject path traversal", func(t *testing.T) {
		if _, err := manager.LoadConfig("../secret"); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Expected ErrInvalidName, got %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := createTestConfigDir(t)
	writeFile(t, dir, "broken.hcl", `name = `)
	writeFile(t, dir, "notes.txt", "not a config")
	manager, _ := NewManager(dir)

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d", len(configs))
	}
	if configs[0].ConfigID != "classic" || configs[1].ConfigID != "sprint" {
		t.Errorf("Unexpected order: %s, %s", configs[0].ConfigID, configs[1].ConfigID)
	}
	if configs[1].SmallGrid != 5 || configs[1].Timer != "10s" || configs[1].Filename != "sprint.json" {
		t.Errorf("Unexpected info %+v", configs[1])
	}

	empty, _ := NewManager(t.TempDir())
	configs, _ = empty.ListConfigs()
	if len(configs) != 1 || configs[0].ConfigID != BuiltinID {
		t.Errorf("Expected only the built-in config, got %+v", configs)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	manager, _ := NewManager(dir)

	config := &engine.GameConfig{Name: "custom", Timer: "45s", Grid: &engine.GridSettings{Large: 12}}
	if err := manager.SaveConfig("custom", config); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "custom.hcl")); err != nil {
		t.Fatalf("Expected custom.hcl on disk: %v", err)
	}

	// A fresh manager must read back what was written.
	reloaded, _ := NewManager(dir)
	loaded, err := reloaded.LoadConfig("custom")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Timer != "45s" || loaded.Grid.Large != 12 || loaded.Grid.Small != engine.DefaultSmallGrid {
		t.Errorf("Unexpected reloaded config %+v %+v", loaded, loaded.Grid)
	}

	t.Run("invalid config", func(t *testing.T) {
		bad := &engine.GameConfig{Name: "bad", Timer: "never"}
		if err := manager.SaveConfig("bad", bad); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("json name clash", func(t *testing.T) {
		if err := manager.SaveConfig("sprint", engine.DefaultConfig()); err == nil {
			t.Error("Expected error when a JSON config has the same id")
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		if err := manager.SaveConfig("a/b", engine.DefaultConfig()); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Expected ErrInvalidName, got %v", err)
		}
	})
}

func TestManager_SetDefaultAndRefresh(t *testing.T) {
	dir := createTestConfigDir(t)
	manager, _ := NewManager(dir)

	if err := manager.SetDefault("sprint"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if manager.GetDefault().Name != "sprint" {
		t.Errorf("Expected sprint default, got %s", manager.GetDefault().Name)
	}

	writeFile(t, dir, "sprint.json", `{"name": "sprint", "timer": "20s"}`)
	manager.RefreshCache()
	config, _ := manager.LoadConfig("sprint")
	if config.Timer != "20s" {
		t.Errorf("Expected reloaded timer 20s, got %s", config.Timer)
	}
	if manager.GetDefault().Name != "classic" {
		t.Errorf("Refresh should reselect classic, got %s", manager.GetDefault().Name)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager, _ := NewManager(createTestConfigDir(t))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadConfig("classic"); err != nil {
				t.Errorf("LoadConfig: %v", err)
			}
			if _, err := manager.ListConfigs(); err != nil {
				t.Errorf("ListConfigs: %v", err)
			}
		}()
	}
	wg.Wait()
}
