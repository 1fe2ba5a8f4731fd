// Package config provides configuration management for the Mars Rover game.
//
// The config package handles:
//   - Loading game configurations from HCL or JSON files
//   - Configuration validation and defaults
//   - Default configuration management
//   - Configuration discovery, listing and saving
//
// Configuration Format:
//
// Each file in the config directory is one game configuration, identified by
// its base name. HCL files may refer to the built-in values through the
// defaults object:
//
//	name  = "crater"
//	timer = "60s"
//
//	grid {
//	  small      = defaults.small_grid
//	  large      = defaults.large_grid + 2
//	  breakpoint = 600
//	}
//
// JSON files use the same attribute names. Unset attributes and messages
// fall back to engine.DefaultConfig. Configurations saved through the
// manager are written as HCL.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("crater")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config
