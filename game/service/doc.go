// Package service provides the business logic layer for the Mars Rover game.
//
// The service package implements:
//   - Multi-session game management
//   - Player commands (start, pilot, bulk pilot, reset, dialogs, audio, viewport)
//   - Machine-friendly reason codes for rejected commands
//   - Paginated move history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and the
// game engine. A rejected command is not an error: it comes back as a
// CommandResult with Accepted=false and a Reason code. Errors are reserved
// for unknown sessions, unknown configs and similar failures.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", 1280)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameService.StartGame(ctx, info.ID, 0)
//	result, err := gameService.Pilot(ctx, info.ID, "f")
package service
