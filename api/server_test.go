package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/route-plotter/route/config"
	"github.com/wricardo/route-plotter/route/engine"
	"github.com/wricardo/route-plotter/route/loader"
	"github.com/wricardo/route-plotter/route/service"
	"github.com/wricardo/route-plotter/route/session"
)

// MockRouteService implements service.RouteService for testing
type MockRouteService struct {
	CreateSessionFunc    func(ctx context.Context, profileName string, start *engine.Coordinate) (*service.SessionInfo, error)
	LoadRouteFunc        func(ctx context.Context, profileName, description string) (*service.LoadResult, error)
	GetSessionFunc       func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	DeleteSessionFunc    func(ctx context.Context, sessionID string) error
	MoveFunc             func(ctx context.Context, sessionID, direction string) (*service.MoveResult, error)
	RemoveCoordinateFunc func(ctx context.Context, sessionID string, index *int) (*service.RemoveResult, error)
	GetRouteFunc         func(ctx context.Context, sessionID string) (*service.RouteView, error)
}

func (m *MockRouteService) CreateSession(ctx context.Context, profileName string, start *engine.Coordinate) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, profileName, start)
	}
	return &service.SessionInfo{ID: "ab12", ProfileID: profileName}, nil
}

func (m *MockRouteService) LoadRoute(ctx context.Context, profileName, description string) (*service.LoadResult, error) {
	if m.LoadRouteFunc != nil {
		return m.LoadRouteFunc(ctx, profileName, description)
	}
	return &service.LoadResult{Session: &service.SessionInfo{ID: "ab12"}}, nil
}

func (m *MockRouteService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID}, nil
}

func (m *MockRouteService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	return []*service.SessionInfo{}, nil
}

func (m *MockRouteService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockRouteService) Move(ctx context.Context, sessionID, direction string) (*service.MoveResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, sessionID, direction)
	}
	return &service.MoveResult{Success: true, Code: service.CodeMoved, Direction: direction}, nil
}

func (m *MockRouteService) BulkMove(ctx context.Context, sessionID string, moves []string) (*service.BulkMoveResult, error) {
	return &service.BulkMoveResult{Success: true, RequestedMoves: len(moves)}, nil
}

func (m *MockRouteService) RemoveCoordinate(ctx context.Context, sessionID string, index *int) (*service.RemoveResult, error) {
	if m.RemoveCoordinateFunc != nil {
		return m.RemoveCoordinateFunc(ctx, sessionID, index)
	}
	return &service.RemoveResult{}, nil
}

func (m *MockRouteService) GetRoute(ctx context.Context, sessionID string) (*service.RouteView, error) {
	if m.GetRouteFunc != nil {
		return m.GetRouteFunc(ctx, sessionID)
	}
	return &service.RouteView{SessionID: sessionID}, nil
}

func (m *MockRouteService) ExportRoute(ctx context.Context, sessionID string) (string, error) {
	return "1\n1\n", nil
}

func (m *MockRouteService) ListProfiles(ctx context.Context) ([]*service.ProfileInfo, error) {
	return nil, nil
}

func (m *MockRouteService) LoadProfile(ctx context.Context, name string) (*engine.Profile, error) {
	return nil, fmt.Errorf("%w: %s", service.ErrProfileNotFound, name)
}

func (m *MockRouteService) SaveProfile(ctx context.Context, name string, profile *engine.Profile) error {
	return nil
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"session not found", fmt.Errorf("session x: %w", service.ErrSessionNotFound), http.StatusNotFound},
		{"profile not found", config.ErrProfileNotFound, http.StatusNotFound},
		{"malformed start", fmt.Errorf("load: %w", loader.ErrMalformedStart), http.StatusBadRequest},
		{"index out of range", engine.ErrIndexOutOfRange, http.StatusBadRequest},
		{"invalid profile", config.ErrInvalidProfile, http.StatusBadRequest},
		{"out of grid", fmt.Errorf("line 3: %w", engine.ErrOutOfGrid), http.StatusUnprocessableEntity},
		{"last coordinate", engine.ErrLastCoordinate, http.StatusConflict},
		{"not contiguous", loader.ErrNotContiguous, http.StatusConflict},
		{"duplicate session", session.ErrSessionAlreadyExists, http.StatusConflict},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := statusFor(test.err); got != test.expected {
				t.Errorf("statusFor(%v): expected %d, got %d", test.err, test.expected, got)
			}
		})
	}
}

func TestHandleCreateSession(t *testing.T) {
	var gotProfile string
	var gotStart *engine.Coordinate
	mock := &MockRouteService{
		CreateSessionFunc: func(ctx context.Context, profileName string, start *engine.Coordinate) (*service.SessionInfo, error) {
			gotProfile, gotStart = profileName, start
			return &service.SessionInfo{ID: "ab12", ProfileID: profileName}, nil
		},
	}
	server := NewServer(mock, nil)

	rec := doRequest(t, server, "POST", "/api/sessions", map[string]interface{}{
		"profile": "small",
		"start":   map[string]int{"x": 2, "y": 3},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotProfile != "small" || gotStart == nil || *gotStart != (engine.Coordinate{X: 2, Y: 3}) {
		t.Errorf("Unexpected arguments profile=%q start=%v", gotProfile, gotStart)
	}

	rec = doRequest(t, server, "POST", "/api/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Errorf("Empty body should use defaults, got %d", rec.Code)
	}
	if gotStart != nil {
		t.Errorf("Expected nil start for empty body, got %v", gotStart)
	}
}

func TestHandleCreateSession_Errors(t *testing.T) {
	mock := &MockRouteService{
		CreateSessionFunc: func(ctx context.Context, profileName string, start *engine.Coordinate) (*service.SessionInfo, error) {
			if profileName == "missing" {
				return nil, fmt.Errorf("%w: missing", service.ErrProfileNotFound)
			}
			return nil, fmt.Errorf("failed to create session: %w", engine.ErrOutOfGrid)
		},
	}
	server := NewServer(mock, nil)

	rec := doRequest(t, server, "POST", "/api/sessions", map[string]string{"profile": "missing"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, server, "POST", "/api/sessions", map[string]interface{}{"start": map[string]int{"x": 99, "y": 1}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", rec.Code)
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	if body["code"] != float64(http.StatusUnprocessableEntity) {
		t.Errorf("Expected code in body, got %v", body)
	}
}

func TestHandleMove_InvalidBody(t *testing.T) {
	server := NewServer(&MockRouteService{}, nil)

	req := httptest.NewRequest("POST", "/api/sessions/ab12/move", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleRemoveCoordinate_IndexParsing(t *testing.T) {
	var gotIndex *int
	mock := &MockRouteService{
		RemoveCoordinateFunc: func(ctx context.Context, sessionID string, index *int) (*service.RemoveResult, error) {
			gotIndex = index
			return &service.RemoveResult{}, nil
		},
	}
	server := NewServer(mock, nil)

	rec := doRequest(t, server, "DELETE", "/api/sessions/ab12/coordinates", nil)
	if rec.Code != http.StatusOK || gotIndex != nil {
		t.Errorf("Expected last-coordinate removal, got %d index=%v", rec.Code, gotIndex)
	}

	rec = doRequest(t, server, "DELETE", "/api/sessions/ab12/coordinates/-2", nil)
	if rec.Code != http.StatusOK || gotIndex == nil || *gotIndex != -2 {
		t.Errorf("Expected index -2, got %d index=%v", rec.Code, gotIndex)
	}

	rec = doRequest(t, server, "DELETE", "/api/sessions/ab12/coordinates/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric index, got %d", rec.Code)
	}
}

func TestHandleWebSocket_Disabled(t *testing.T) {
	server := NewServer(&MockRouteService{}, nil)

	rec := doRequest(t, server, "GET", "/ws?session=ab12", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a hub, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	server := NewServer(&MockRouteService{}, nil)

	rec := doRequest(t, server, "GET", "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["status"] != "healthy" {
		t.Errorf("Unexpected health body %v", body)
	}
}

// newIntegrationServer wires the real session and profile managers
func newIntegrationServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	profile := `{"name": "small", "description": "3x3", "rows": 3, "cols": 3, "marker": "x"}`
	if err := os.WriteFile(filepath.Join(dir, "small.json"), []byte(profile), 0644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	profiles, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create profile manager: %v", err)
	}

	return NewServer(service.NewRouteService(session.NewManager(), profiles), nil)
}

func TestIntegration_RouteLifecycle(t *testing.T) {
	server := newIntegrationServer(t)

	rec := doRequest(t, server, "POST", "/api/sessions", map[string]interface{}{
		"profile": "small",
		"start":   map[string]int{"x": 1, "y": 1},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create failed: %d %s", rec.Code, rec.Body.String())
	}
	var info service.SessionInfo
	decode(t, rec, &info)

	base := "/api/sessions/" + info.ID

	for _, dir := range []string{"N", "N", "E"} {
		rec = doRequest(t, server, "POST", base+"/move", map[string]string{"direction": dir})
		if rec.Code != http.StatusOK {
			t.Fatalf("Move %s failed: %d", dir, rec.Code)
		}
	}

	// Rejected move is a 200 with success=false
	rec = doRequest(t, server, "POST", base+"/move", map[string]string{"direction": "N"})
	var move service.MoveResult
	decode(t, rec, &move)
	if rec.Code != http.StatusOK || move.Success || move.Code != service.CodeOutOfGrid {
		t.Errorf("Expected rejected out_of_grid move, got %d %+v", rec.Code, move)
	}

	rec = doRequest(t, server, "GET", base+"/grid", nil)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected text/plain grid, got %q", ct)
	}
	expectedGrid := strings.Join([]string{
		"   :   :   :   :   ",
		"---:---:---:---:---",
		"  3: x : x :   :",
		"---:---:---:---:---",
		"  2: x :   :   :",
		"---:---:---:---:---",
		"  1: x :   :   :",
		"---:---:---:---:---",
		"   : 1 : 2 : 3 :",
	}, "\n") + "\n"
	if rec.Body.String() != expectedGrid {
		t.Errorf("Unexpected grid:\n%s", rec.Body.String())
	}

	rec = doRequest(t, server, "GET", base+"/export", nil)
	if rec.Body.String() != "1\n1\nN\nN\nE\n" {
		t.Errorf("Unexpected export %q", rec.Body.String())
	}

	rec = doRequest(t, server, "DELETE", base+"/coordinates/9", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad index, got %d", rec.Code)
	}

	for i := 0; i < 3; i++ {
		rec = doRequest(t, server, "DELETE", base+"/coordinates", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Remove %d failed: %d %s", i, rec.Code, rec.Body.String())
		}
	}
	rec = doRequest(t, server, "DELETE", base+"/coordinates", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 removing the only coordinate, got %d", rec.Code)
	}

	rec = doRequest(t, server, "GET", base+"/route", nil)
	var view service.RouteView
	decode(t, rec, &view)
	if len(view.Coordinates) != 1 || view.Coordinates[0] != (engine.Coordinate{X: 1, Y: 1}) {
		t.Errorf("Expected only the start to remain, got %v", view.Coordinates)
	}

	rec = doRequest(t, server, "DELETE", base, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Delete failed: %d", rec.Code)
	}
	rec = doRequest(t, server, "GET", base, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
}

func TestIntegration_LoadRoute(t *testing.T) {
	server := newIntegrationServer(t)

	tests := []struct {
		name        string
		description string
		status      int
	}{
		{"valid", "2\n2\nN\nbad\nE\n", http.StatusCreated},
		{"malformed start", "two\n2\n", http.StatusBadRequest},
		{"leaves grid", "3\n3\nE\n", http.StatusUnprocessableEntity},
		{"empty", "  ", http.StatusBadRequest},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := doRequest(t, server, "POST", "/api/routes", map[string]string{
				"profile":     "small",
				"description": test.description,
			})
			if rec.Code != test.status {
				t.Errorf("Expected %d, got %d: %s", test.status, rec.Code, rec.Body.String())
			}
		})
	}

	rec := doRequest(t, server, "POST", "/api/routes", map[string]string{
		"profile":     "nope",
		"description": "1\n1\n",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown profile, got %d", rec.Code)
	}
}

func TestIntegration_BulkMoveSkippedPositions(t *testing.T) {
	server := newIntegrationServer(t)

	rec := doRequest(t, server, "POST", "/api/sessions", map[string]interface{}{"profile": "small"})
	var info service.SessionInfo
	decode(t, rec, &info)

	rec = doRequest(t, server, "POST", "/api/sessions/"+info.ID+"/bulk-move", map[string][]string{
		"moves": {"E", "up", "N"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Bulk move failed: %d %s", rec.Code, rec.Body.String())
	}

	var raw struct {
		Skipped []map[string]interface{} `json:"skipped"`
	}
	decode(t, rec, &raw)
	if len(raw.Skipped) != 1 {
		t.Fatalf("Expected one skipped move, got %v", raw.Skipped)
	}
	if raw.Skipped[0]["move"] != float64(2) || raw.Skipped[0]["token"] != "up" {
		t.Errorf("Expected move 2 token up, got %v", raw.Skipped[0])
	}
	if _, ok := raw.Skipped[0]["line"]; ok {
		t.Error("Bulk move positions should not be reported as lines")
	}
}

func TestIntegration_ConcurrentRequests(t *testing.T) {
	server := newIntegrationServer(t)

	rec := doRequest(t, server, "POST", "/api/sessions", map[string]interface{}{"profile": "small"})
	var info service.SessionInfo
	decode(t, rec, &info)
	base := "/api/sessions/" + info.ID

	requests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", base, nil},
		{"GET", base + "/route", nil},
		{"GET", base + "/grid", nil},
		{"GET", "/api/sessions", nil},
		{"POST", base + "/move", map[string]string{"direction": "E"}},
		{"POST", base + "/move", map[string]string{"direction": "W"}},
	}

	var wg sync.WaitGroup
	for worker := 0; worker < 4; worker++ {
		for _, req := range requests {
			wg.Add(1)
			go func(method, path string, body interface{}) {
				defer wg.Done()
				for i := 0; i < 25; i++ {
					if rec := doRequest(t, server, method, path, body); rec.Code != http.StatusOK {
						t.Errorf("%s %s: expected 200, got %d", method, path, rec.Code)
						return
					}
				}
			}(req.method, req.path, req.body)
		}
	}
	wg.Wait()
}

func TestIntegration_Profiles(t *testing.T) {
	server := newIntegrationServer(t)

	rec := doRequest(t, server, "GET", "/api/profiles", nil)
	var profiles []service.ProfileInfo
	decode(t, rec, &profiles)
	if len(profiles) != 1 || profiles[0].ProfileID != "small" {
		t.Errorf("Unexpected profiles %+v", profiles)
	}

	rec = doRequest(t, server, "POST", "/api/profiles", engine.Profile{Name: "wide", Rows: 2, Cols: 10})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, server, "GET", "/api/profiles/wide", nil)
	var p engine.Profile
	decode(t, rec, &p)
	if p.Cols != 10 {
		t.Errorf("Expected saved profile, got %+v", p)
	}

	rec = doRequest(t, server, "POST", "/api/profiles", engine.Profile{Name: "bad", Rows: 0, Cols: 10})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid profile, got %d", rec.Code)
	}

	rec = doRequest(t, server, "GET", "/api/profiles/none", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
