// Package api provides the HTTP REST API for the route plotter.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session {profile, start:{x,y}}
//   - POST /api/routes - Load a route description {profile, description}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Routes:
//   - GET /api/sessions/{id}/route - Coordinates, rendered grid and summary
//   - GET /api/sessions/{id}/grid - Rendered grid as text/plain
//   - GET /api/sessions/{id}/export - Route description as text/plain
//   - POST /api/sessions/{id}/move - {direction: "N"}
//   - POST /api/sessions/{id}/bulk-move - {moves: ["N", "E"]}
//   - DELETE /api/sessions/{id}/coordinates - Remove the last coordinate
//   - DELETE /api/sessions/{id}/coordinates/{index} - Remove by index, negative counts from the end
//
// Profiles:
//   - GET /api/profiles
//   - GET /api/profiles/{name}
//   - POST /api/profiles
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket route updates
//
// Errors are returned as JSON with the HTTP status code repeated in the body:
//
//	{
//	  "error": "session ab12: session not found",
//	  "code": 404
//	}
//
// A malformed route start or bad coordinate index is 400, a move or start off
// the grid is 422, an unknown session or profile is 404 and removing the only
// coordinate of a route is 409. A single move that is rejected is not an HTTP
// error: it returns 200 with success=false and a code of out_of_grid or
// invalid_direction.
package api
