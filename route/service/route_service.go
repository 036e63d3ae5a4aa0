package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/route-plotter/route/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidRequest  = errors.New("invalid request")
)

// RouteService defines all route-related operations
type RouteService interface {
	// Session Management
	CreateSession(ctx context.Context, profileName string, start *engine.Coordinate) (*SessionInfo, error)
	LoadRoute(ctx context.Context, profileName, description string) (*LoadResult, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Route Operations
	Move(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error)
	RemoveCoordinate(ctx context.Context, sessionID string, index *int) (*RemoveResult, error)

	// Route State
	GetRoute(ctx context.Context, sessionID string) (*RouteView, error)
	ExportRoute(ctx context.Context, sessionID string) (string, error)

	// Profiles
	ListProfiles(ctx context.Context) ([]*ProfileInfo, error)
	LoadProfile(ctx context.Context, name string) (*engine.Profile, error)
	SaveProfile(ctx context.Context, name string, profile *engine.Profile) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, profile *engine.Profile, start engine.Coordinate) (*Session, error)
	Adopt(id string, profile *engine.Profile, tracker *engine.Tracker) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ProfileManager handles grid profile loading
type ProfileManager interface {
	LoadProfile(name string) (*engine.Profile, error)
	ListProfiles() ([]*ProfileInfo, error)
	GetDefault() *engine.Profile
	SaveProfile(name string, profile *engine.Profile) error
}

// Session represents an active route
type Session struct {
	ID             string
	ProfileID      string
	Tracker        *engine.Tracker
	Profile        *engine.Profile
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
