// Package autopilot finds the alien without looking at the grid.
//
// The rover cannot see the alien, so the only sure strategy is to visit every
// cell. SweepPlan drives a serpentine route from base that never hits an
// edge; Run sends it as bulk requests, restarting the game when the
// countdown expires. Client plays a session over the REST API.
package autopilot
