// Package clock provides the countdown used by a rover game session.
//
// The package implements:
//   - A Clock abstraction over time.AfterFunc so sessions can be driven by a fake clock in tests
//   - GameClock, a one-shot countdown with pause and resume
//   - Fake, a manually advanced clock that fires due timers synchronously
//
// GameClock States:
//
//	Idle ──Start──▶ Running ──Pause──▶ Paused ──Resume──▶ Running
//	                   │                  │
//	                   ├──(deadline)──▶ Expired
//	                   └──Cancel──────▶ Cancelled ◀──Cancel── Paused
//
// Pausing freezes the remaining time. Resuming continues the countdown from
// that remainder rather than restarting it. Expired and Cancelled are terminal
// until the next Start, which always runs the full duration again.
//
// Usage:
//
//	gc := clock.NewGameClock(clock.Real{}, 30*time.Second, func() {
//		log.Println("time is up")
//	})
//	gc.Start()
//	gc.Pause()  // dialog opened
//	gc.Resume() // dialog closed
//	gc.Cancel() // alien found
package clock
