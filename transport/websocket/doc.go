// Package websocket pushes robot state to browsers and other watchers.
//
// The package uses a hub-and-spoke model: a central Hub owns every
// connection, grouped by session ID, and each client connection gets a read
// and a write goroutine. Clients connect to /ws?session=<id> and only
// receive messages for that session.
//
// Message Protocol:
//
// Outgoing messages are JSON:
//
//	{"session_id": "a1b2", "event": "state_update", "state": {...}}
//	{"session_id": "a1b2", "event": "run", "data": {...}}
//
// "state" is an engine.RobotState snapshot. Incoming frames are read only to
// keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastToSession(sessionID, state)
//
// A client whose send buffer is full is dropped rather than stalling the hub.
package websocket
