package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/route-plotter/route/engine"
)

func createTestProfile() *engine.Profile {
	return &engine.Profile{
		Name:        "test",
		Description: "Test profile",
		Rows:        3,
		Cols:        3,
		Marker:      "x",
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	profile := createTestProfile()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", profile, engine.Coordinate{X: 2, Y: 3})
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Tracker == nil {
			t.Fatal("Expected tracker to be initialized")
		}
		if session.Tracker.Start() != (engine.Coordinate{X: 2, Y: 3}) {
			t.Errorf("Unexpected start %v", session.Tracker.Start())
		}
		if session.Profile != profile {
			t.Error("Expected session to keep its profile")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", profile, engine.Coordinate{X: 1, Y: 1})
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got '%s'", session.ID)
		}
	})

	t.Run("duplicate ID ignores case", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", profile, engine.Coordinate{X: 1, Y: 1})
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("start outside grid", func(t *testing.T) {
		_, err := manager.Create("", profile, engine.Coordinate{X: 4, Y: 1})
		if !errors.Is(err, engine.ErrOutOfGrid) {
			t.Errorf("Expected ErrOutOfGrid, got %v", err)
		}
	})

	t.Run("nil profile", func(t *testing.T) {
		_, err := manager.Create("", nil, engine.Coordinate{X: 1, Y: 1})
		if !errors.Is(err, ErrInvalidSession) {
			t.Errorf("Expected ErrInvalidSession, got %v", err)
		}
	})
}

func TestManager_Adopt(t *testing.T) {
	manager := NewManager()
	profile := createTestProfile()

	tracker, err := engine.NewTracker(3, 3, engine.Coordinate{X: 1, Y: 1})
	if err != nil {
		t.Fatalf("Failed to create tracker: %v", err)
	}
	if _, err := tracker.Move("N"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	session, err := manager.Adopt("", profile, tracker)
	if err != nil {
		t.Fatalf("Failed to adopt tracker: %v", err)
	}
	if session.Tracker != tracker {
		t.Error("Expected session to hold the adopted tracker")
	}
	if session.Tracker.Len() != 2 {
		t.Errorf("Expected route of length 2, got %d", session.Tracker.Len())
	}

	if _, err := manager.Adopt("", profile, nil); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Expected ErrInvalidSession for nil tracker, got %v", err)
	}
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, err := manager.Create("AbCd", createTestProfile(), engine.Coordinate{X: 1, Y: 1})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	for _, id := range []string{"AbCd", "abcd", "ABCD"} {
		got, err := manager.Get(id)
		if err != nil {
			t.Errorf("Get(%q) failed: %v", id, err)
			continue
		}
		if got != created {
			t.Errorf("Get(%q) returned a different session", id)
		}
	}

	if _, err := manager.Get("zzzz"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ListAndCount(t *testing.T) {
	manager := NewManager()
	profile := createTestProfile()

	for i := 0; i < 3; i++ {
		if _, err := manager.Create(fmt.Sprintf("s%d", i), profile, engine.Coordinate{X: 1, Y: 1}); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	if got := len(manager.List()); got != 3 {
		t.Errorf("Expected 3 sessions, got %d", got)
	}
	if manager.Count() != 3 {
		t.Errorf("Expected count 3, got %d", manager.Count())
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	if _, err := manager.Create("del1", createTestProfile(), engine.Coordinate{X: 1, Y: 1}); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := manager.Delete("DEL1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := manager.Get("del1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected session to be gone, got %v", err)
	}
	if err := manager.Delete("del1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, err := manager.Create("acc1", createTestProfile(), engine.Coordinate{X: 1, Y: 1})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	before := session.LastAccessedAt
	time.Sleep(5 * time.Millisecond)

	if err := manager.UpdateLastAccessed("ACC1"); err != nil {
		t.Fatalf("UpdateLastAccessed failed: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected LastAccessedAt to advance")
	}

	if err := manager.UpdateLastAccessed("none"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	profile := createTestProfile()

	old, _ := manager.Create("old1", profile, engine.Coordinate{X: 1, Y: 1})
	manager.Create("new1", profile, engine.Coordinate{X: 1, Y: 1})

	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if _, err := manager.Get("old1"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session to be removed")
	}
	if _, err := manager.Get("new1"); err != nil {
		t.Errorf("Expected recent session to remain, got %v", err)
	}
}

func TestManager_ConcurrentCreate(t *testing.T) {
	manager := NewManager()
	profile := createTestProfile()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.Create("", profile, engine.Coordinate{X: 1, Y: 1}); err != nil {
				t.Errorf("Concurrent create failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}
