// Package terminal plays a rover game in a text terminal using tcell.
//
// UI is both the engine's Renderer and its keyboard controller. Engine
// snapshots schedule a redraw; key presses become engine commands on the
// Run goroutine.
//
// Usage:
//
//	screen, _ := tcell.NewScreen()
//	screen.Init()
//	defer screen.Fini()
//
//	ui := terminal.New(screen)
//	eng, _ := engine.NewEngine(cfg, engine.WithRenderer(ui), engine.WithViewport(ui.ViewportWidth()))
//	ui.Attach(eng)
//	ui.Run(ctx)
package terminal
