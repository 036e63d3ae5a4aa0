package service

import (
	"time"

	"github.com/wricardo/route-plotter/route/engine"
	"github.com/wricardo/route-plotter/route/loader"
)

// Move result codes
const (
	CodeMoved            = "moved"
	CodeOutOfGrid        = "out_of_grid"
	CodeInvalidDirection = "invalid_direction"
)

// SessionInfo provides information about a route session
type SessionInfo struct {
	ID             string            `json:"id"`
	ProfileID      string            `json:"profile_id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	Rows           int               `json:"rows"`
	Cols           int               `json:"cols"`
	Start          engine.Coordinate `json:"start"`
	Current        engine.Coordinate `json:"current"`
	Length         int               `json:"length"`
	Profile        *engine.Profile   `json:"profile"`
}

// LoadResult is returned after a route description has been loaded into a new session
type LoadResult struct {
	Session *SessionInfo          `json:"session"`
	Moves   int                   `json:"moves"`
	Skipped []loader.SkippedToken `json:"skipped,omitempty"`
	Route   *RouteView            `json:"route"`
}

// MoveResult contains the result of a single move
type MoveResult struct {
	Success       bool              `json:"success"`
	Code          string            `json:"code"`
	Message       string            `json:"message"`
	Direction     string            `json:"direction"`
	From          engine.Coordinate `json:"from"`
	To            engine.Coordinate `json:"to"`
	Current       engine.Coordinate `json:"current"`
	Length        int               `json:"length"`
	PossibleMoves []string          `json:"possible_moves"`
}

// SkippedMove records a bulk move token that was not a valid direction
type SkippedMove struct {
	Move  int    `json:"move"` // 1-based position in the request
	Token string `json:"token"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	RequestedMoves int                 `json:"requested_moves"`
	MovesExecuted  int                 `json:"moves_executed"`
	Success        bool                `json:"success"`
	Skipped        []SkippedMove       `json:"skipped,omitempty"`
	StoppedReason  string              `json:"stopped_reason,omitempty"`
	StopReasonCode string              `json:"stop_reason_code,omitempty"`
	StoppedOnMove  int                 `json:"stopped_on_move,omitempty"` // 1-based
	Truncated      bool                `json:"truncated,omitempty"`
	Limit          int                 `json:"limit,omitempty"`
	StartPos       engine.Coordinate   `json:"start_pos"`
	EndPos         engine.Coordinate   `json:"end_pos"`
	Path           []engine.Coordinate `json:"path,omitempty"`
	PossibleMoves  []string            `json:"possible_moves"`
}

// RemoveResult describes a removed coordinate
type RemoveResult struct {
	Removed engine.Coordinate `json:"removed"`
	Index   int               `json:"index"`
	Current engine.Coordinate `json:"current"`
	Length  int               `json:"length"`
}

// RouteView is a full snapshot of a session's route
type RouteView struct {
	SessionID   string              `json:"session_id"`
	Rows        int                 `json:"rows"`
	Cols        int                 `json:"cols"`
	Coordinates []engine.Coordinate `json:"coordinates"`
	Grid        string              `json:"grid"`
	Summary     engine.Summary      `json:"summary"`
}

// ProfileInfo provides information about a grid profile
type ProfileInfo struct {
	Filename    string `json:"filename"`
	ProfileID   string `json:"profile_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Marker      string `json:"marker,omitempty"`
}
