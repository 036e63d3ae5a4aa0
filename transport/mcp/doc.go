// Package mcp exposes the route plotter to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool call becomes a request to the REST API
// served by package api, and the JSON reply is turned into readable text.
//
// MCP Tools:
//   - create_session: start a route at (x, y) on a chosen profile
//   - load_route: create a session from a route description
//   - list_sessions, delete_session
//   - get_route: coordinates, rendered grid and statistics
//   - move, bulk_move: extend the route with N/S/E/W tokens
//   - remove_coordinate: drop the last coordinate or one at an index
//   - list_profiles
//   - route_instructions: grid orientation and file format help
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	http.Handle("/mcp", server.NewStreamableHTTPServer(client.GetMCPServer()))
package mcp
