package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionRecord describes one completed game round. It is created once by
// the game loop when a run ends and is never mutated afterwards.
type SessionRecord struct {
	SessionID           string    `json:"session_id"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	FinalScore          int       `json:"final_score"`
	JumpCount           int       `json:"jump_count"`
	PulseUsageCount     int       `json:"pulse_usage_count"`
	PowerUpsCollected   int       `json:"power_ups_collected"`
	SurvivalTimeSeconds float64   `json:"survival_time_seconds"`
}

// NewSessionRecord builds a session record, stamping a fresh session id
// when the caller does not supply one.
func NewSessionRecord(sessionID string, start, end time.Time, finalScore int) SessionRecord {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return SessionRecord{
		SessionID:           sessionID,
		StartTime:           start,
		EndTime:             end,
		FinalScore:          finalScore,
		SurvivalTimeSeconds: end.Sub(start).Seconds(),
	}
}

// UserIdentity is supplied by the authentication layer at call time.
// The engine treats it as read-only input and never caches credentials.
type UserIdentity struct {
	UserID      string `json:"user_id"`
	IsGuest     bool   `json:"is_guest"`
	DisplayName string `json:"display_name"`
}

// GameMode identifies which leaderboard a score belongs to.
type GameMode string

const (
	ModeClassic GameMode = "classic"
	ModeEndless GameMode = "endless"
	ModeDaily   GameMode = "daily"
)

// RequiresIdentity reports whether scores in this mode may only be
// published under an authenticated, non-guest identity. All current
// modes post to shared leaderboards, so all require identity.
func (m GameMode) RequiresIdentity() bool {
	return true
}

// QueuedScoreEntry is a not-yet-submitted score held in the offline
// backlog. At most one entry exists per (UserID, GameMode) at any time.
type QueuedScoreEntry struct {
	UserID    string    `json:"user_id"`
	GameMode  GameMode  `json:"game_mode"`
	Score     int       `json:"score"`
	SessionID string    `json:"session_id"`
	QueuedAt  time.Time `json:"queued_at"`
}

// ScoreRecord is the remote leaderboard's best known record for a
// (user, mode) pair.
type ScoreRecord struct {
	UserID     string    `json:"user_id"`
	GameMode   GameMode  `json:"game_mode"`
	Score      int       `json:"score"`
	SessionID  string    `json:"session_id"`
	RecordedAt time.Time `json:"recorded_at"`
}

// CoordinatorState tracks whether a submission is in flight. It is
// process-local, never persisted; the UI uses it to gate the restart
// control.
type CoordinatorState int

const (
	StateIdle CoordinatorState = iota
	StateSubmitting
)

func (s CoordinatorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}
