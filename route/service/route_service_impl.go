package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/wricardo/route-plotter/route/engine"
	"github.com/wricardo/route-plotter/route/loader"
)

// routeServiceImpl implements the RouteService interface
type routeServiceImpl struct {
	sessions SessionManager
	profiles ProfileManager
	logger   *log.Logger
	mu       sync.RWMutex
}

// NewRouteService creates a new route service instance
func NewRouteService(sessions SessionManager, profiles ProfileManager) RouteService {
	return &routeServiceImpl{
		sessions: sessions,
		profiles: profiles,
		logger:   log.Default(),
	}
}

// resolveProfile loads a profile by ID, falling back to the default when name is empty.
// It returns the profile and the identifier it should be reported under.
func (s *routeServiceImpl) resolveProfile(name string) (*engine.Profile, string, error) {
	if name == "" {
		p := s.profiles.GetDefault()
		return p, s.profileID(p.Name), nil
	}

	p, err := s.profiles.LoadProfile(name)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			available, listErr := s.profiles.ListProfiles()
			if listErr == nil && len(available) > 0 {
				var ids []string
				for _, info := range available {
					ids = append(ids, info.ProfileID)
				}
				return nil, "", fmt.Errorf("%w: '%s'. Available profiles: %v", ErrProfileNotFound, name, ids)
			}
			return nil, "", fmt.Errorf("%w: '%s'. Use /api/profiles to list available profiles", ErrProfileNotFound, name)
		}
		return nil, "", fmt.Errorf("failed to load profile %s: %w", name, err)
	}
	return p, name, nil
}

// profileID returns the profile_id for a display name
func (s *routeServiceImpl) profileID(displayName string) string {
	available, err := s.profiles.ListProfiles()
	if err == nil {
		for _, info := range available {
			if info.Name == displayName {
				return info.ProfileID
			}
		}
	}
	if displayName == "" {
		return "default"
	}
	return displayName
}

// CreateSession starts a new route at start, or (1, 1) when start is nil
func (s *routeServiceImpl) CreateSession(ctx context.Context, profileName string, start *engine.Coordinate) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, profileID, err := s.resolveProfile(profileName)
	if err != nil {
		return nil, err
	}

	origin := engine.Coordinate{X: 1, Y: 1}
	if start != nil {
		origin = *start
	}

	sess, err := s.sessions.Create("", profile, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.ProfileID = profileID

	return sessionInfo(sess), nil
}

// LoadRoute parses a route description into a new session
func (s *routeServiceImpl) LoadRoute(ctx context.Context, profileName, description string) (*LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, profileID, err := s.resolveProfile(profileName)
	if err != nil {
		return nil, err
	}

	loaded, err := loader.Parse(strings.NewReader(description), loader.Options{
		Rows:   profile.Rows,
		Cols:   profile.Cols,
		Logger: s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load route: %w", err)
	}

	sess, err := s.sessions.Adopt("", profile, loaded.Tracker)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.ProfileID = profileID

	return &LoadResult{
		Session: sessionInfo(sess),
		Moves:   loaded.Moves,
		Skipped: loaded.Skipped,
		Route:   routeView(sess),
	}, nil
}

// GetSession retrieves session information
func (s *routeServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions. It only reads, so it shares the
// lock with other listings.
func (s *routeServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *routeServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// Move executes a single move. Rejected moves are reported in the result.
func (s *routeServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	tracker := sess.Tracker
	from := tracker.Current()
	result := &MoveResult{
		Direction: direction,
		From:      from,
	}

	to, err := tracker.Move(direction)
	switch {
	case err == nil:
		result.Success = true
		result.Code = CodeMoved
		result.To = to
		result.Message = fmt.Sprintf("Moved %s to %s", strings.TrimSpace(direction), to)
	case errors.Is(err, engine.ErrInvalidDirection):
		result.Code = CodeInvalidDirection
		result.To = from
		result.Message = fmt.Sprintf("Invalid direction %q: use N, S, E or W", direction)
	case errors.Is(err, engine.ErrOutOfGrid):
		result.Code = CodeOutOfGrid
		result.To = from
		result.Message = fmt.Sprintf("Cannot move %s from %s: outside the %dx%d grid", strings.TrimSpace(direction), from, tracker.Rows(), tracker.Cols())
	default:
		return nil, fmt.Errorf("move failed: %w", err)
	}

	result.Current = tracker.Current()
	result.Length = tracker.Len()
	result.PossibleMoves = possibleMoves(tracker)

	return result, nil
}

// BulkMove executes moves in order. Unknown tokens are skipped and the first
// move that would leave the grid stops the sequence.
func (s *routeServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	tracker := sess.Tracker
	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Success:        true,
		StartPos:       tracker.Current(),
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		to, err := tracker.Move(move)
		if err != nil {
			if errors.Is(err, engine.ErrInvalidDirection) {
				result.Skipped = append(result.Skipped, SkippedMove{Move: i + 1, Token: move})
				continue
			}
			result.Success = false
			result.StoppedOnMove = i + 1
			if errors.Is(err, engine.ErrOutOfGrid) {
				result.StopReasonCode = CodeOutOfGrid
			}
			result.StoppedReason = fmt.Sprintf("move %d blocked: %v", i+1, err)
			break
		}

		result.MovesExecuted++
		result.Path = append(result.Path, to)
	}

	result.EndPos = tracker.Current()
	result.PossibleMoves = possibleMoves(tracker)

	return result, nil
}

// RemoveCoordinate removes the coordinate at index, or the last one when index is nil
func (s *routeServiceImpl) RemoveCoordinate(ctx context.Context, sessionID string, index *int) (*RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	tracker := sess.Tracker
	i := -1
	if index != nil {
		i = *index
	}
	position := i
	if position < 0 {
		position += tracker.Len()
	}

	removed, err := tracker.RemoveCoordinate(i)
	if err != nil {
		return nil, fmt.Errorf("failed to remove coordinate: %w", err)
	}

	return &RemoveResult{
		Removed: removed,
		Index:   position,
		Current: tracker.Current(),
		Length:  tracker.Len(),
	}, nil
}

// GetRoute returns the coordinates, rendered grid and summary of a session
func (s *routeServiceImpl) GetRoute(ctx context.Context, sessionID string) (*RouteView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return routeView(sess), nil
}

// ExportRoute serializes a session's route as a route description
func (s *routeServiceImpl) ExportRoute(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return "", err
	}

	out, err := loader.Format(sess.Tracker)
	if err != nil {
		return "", fmt.Errorf("failed to export route: %w", err)
	}
	return out, nil
}

// ListProfiles returns available grid profiles
func (s *routeServiceImpl) ListProfiles(ctx context.Context) ([]*ProfileInfo, error) {
	return s.profiles.ListProfiles()
}

// LoadProfile loads a specific grid profile
func (s *routeServiceImpl) LoadProfile(ctx context.Context, name string) (*engine.Profile, error) {
	return s.profiles.LoadProfile(name)
}

// SaveProfile saves a grid profile
func (s *routeServiceImpl) SaveProfile(ctx context.Context, name string, profile *engine.Profile) error {
	if name == "" {
		return fmt.Errorf("%w: profile name is required", ErrInvalidRequest)
	}
	return s.profiles.SaveProfile(name, profile)
}

// session looks up a session and marks it as accessed. Marking writes
// LastAccessedAt, so callers hold the write lock.
func (s *routeServiceImpl) session(id string) (*Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	s.sessions.UpdateLastAccessed(id)
	return sess, nil
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ProfileID:      sess.ProfileID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Rows:           sess.Tracker.Rows(),
		Cols:           sess.Tracker.Cols(),
		Start:          sess.Tracker.Start(),
		Current:        sess.Tracker.Current(),
		Length:         sess.Tracker.Len(),
		Profile:        sess.Profile,
	}
}

func routeView(sess *Session) *RouteView {
	return &RouteView{
		SessionID:   sess.ID,
		Rows:        sess.Tracker.Rows(),
		Cols:        sess.Tracker.Cols(),
		Coordinates: sess.Tracker.Coordinates(),
		Grid:        sess.Profile.Renderer().Render(sess.Tracker),
		Summary:     engine.Summarize(sess.Tracker),
	}
}

func possibleMoves(t *engine.Tracker) []string {
	dirs := t.PossibleMoves()
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, string(d))
	}
	return out
}
