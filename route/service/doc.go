// Package service provides the business logic layer for the route plotter.
//
// The service package implements:
//   - Multi-session route tracking
//   - Profile lookup and persistence through a ProfileManager
//   - Single and bulk move processing
//   - Coordinate removal and route export
//
// Core Interfaces:
//
// RouteService is the main service interface used by every transport.
// SessionManager stores sessions and ProfileManager resolves grid profiles.
//
// Concurrency:
//
// Trackers from the engine package are not safe for concurrent use. The
// service holds its own lock for every operation that touches a tracker, so
// HTTP, WebSocket and MCP callers may share one service value.
//
// Usage:
//
//	sessions := session.NewManager()
//	profiles, _ := config.NewManager("profiles")
//	svc := service.NewRouteService(sessions, profiles)
//
//	info, err := svc.CreateSession(ctx, "standard", &engine.Coordinate{X: 1, Y: 1})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := svc.Move(ctx, info.ID, "N")
package service
