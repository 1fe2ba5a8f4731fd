// Package api provides HTTP REST API handlers for the Mars Rover game.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "crater", "viewport_width": 800})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Sessions grouped for a multi-session view
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Player Commands:
//   - POST /api/sessions/{id}/start - Start the hunt ({"viewport_width": 800}, optional)
//   - POST /api/sessions/{id}/pilot - One command ({"command": "l|r|f|b"})
//   - POST /api/sessions/{id}/bulk-pilot - Up to 50 commands ({"commands": ["f", "f", "r"]})
//   - POST /api/sessions/{id}/reset - Return the rover to base
//   - POST /api/sessions/{id}/dialog/close - Dismiss the current dialog
//   - POST /api/sessions/{id}/audio/toggle - Toggle background music
//   - POST /api/sessions/{id}/viewport - Report the display ({"width": 800, "landscape": true})
//
// Game State:
//   - GET /api/sessions/{id}/state - Current state (?format=text for an ASCII grid)
//   - GET /api/sessions/{id}/history - Command history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get one configuration (?format=hcl)
//   - POST /api/configs - Save a configuration
//
// Other:
//   - GET /api/health
//   - GET /ws?session=ID - WebSocket upgrade
//   - / - Static files from ./static
//
// Rejected commands are not HTTP errors. They answer 200 with accepted=false
// and a reason code such as not_started, out_of_bounds or dialog_open.
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status code:
//
//	{
//	  "error": "session not found: session not found",
//	  "code": 404
//	}
//
// Unknown sessions and configurations map to 404, invalid input to 400 and
// everything else to 500.
package api
