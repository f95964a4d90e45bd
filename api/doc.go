// Package api provides HTTP REST API handlers for the toy robot simulator.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Robot Operations:
//   - GET /api/sessions/{id}/state - Robot state
//   - POST /api/sessions/{id}/place - {"x":0,"y":0,"facing":"NORTH"}
//   - POST /api/sessions/{id}/command - {"command":"MOVE"}
//   - POST /api/sessions/{id}/sequence - {"commands":[...]} or {"text":"MOVE\nLEFT"}
//   - POST /api/sessions/{id}/run - placement plus commands on a reset robot
//   - POST /api/sessions/{id}/reset - Reset robot
//   - GET /api/sessions/{id}/report - {"report":"1,2,NORTH","placed":true}
//   - GET /api/sessions/{id}/history - Paginated history (?page&limit&order)
//
// Scenarios:
//   - GET /api/scenarios - List scenario files
//   - GET /api/scenarios/{name} - Get one scenario
//   - POST /api/scenarios - Save a scenario (?id= overrides the derived id)
//   - POST /api/sessions/{id}/scenarios/{name}/run - Run a scenario
//
// Other:
//   - GET /ws?session={id} - WebSocket state stream
//   - GET /health - Health check
//
// Ignored input is not an error: an invalid placement or unknown command
// returns 200 with "accepted": false. Errors are JSON bodies of the form
// {"error": "message"}; unknown sessions and scenarios map to 404, invalid
// scenarios to 400.
//
// Usage:
//
//	srv := api.NewServer(svc, hub)
//	http.ListenAndServe(":8080", srv)
package api
