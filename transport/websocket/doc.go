// Package websocket pushes route updates to browser and tool clients.
//
// A Hub keeps one set of clients per session. Clients connect to
// /ws?session=<id> and receive a JSON Message every time that session's route
// changes:
//
//	{"session_id": "a1b2", "event": "route_update", "route": {...}}
//
// Incoming frames are ignored; the connection is kept alive with ping/pong.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	hub.BroadcastRoute(sessionID, view)
//	hub.BroadcastEvent(sessionID, websocket.EventSessionDeleted, nil)
//
// Broadcasts never block the caller. When the queue is full the message is
// dropped and logged.
package websocket
