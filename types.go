package scoresync

import (
	"time"

	"github.com/dmonteiro/scoresync/internal/models"
)

// Public aliases for the engine's data types, so embedding code never
// imports internal packages directly.
type (
	SessionRecord     = models.SessionRecord
	UserIdentity      = models.UserIdentity
	GameMode          = models.GameMode
	QueuedScoreEntry  = models.QueuedScoreEntry
	ScoreRecord       = models.ScoreRecord
	SubmissionOutcome = models.SubmissionOutcome
	CoordinatorState  = models.CoordinatorState
)

const (
	ModeClassic = models.ModeClassic
	ModeEndless = models.ModeEndless
	ModeDaily   = models.ModeDaily
)

const (
	OutcomeSuccess          = models.OutcomeSuccess
	OutcomeQueued           = models.OutcomeQueued
	OutcomeNotBestScore     = models.OutcomeNotBestScore
	OutcomeInvalidScore     = models.OutcomeInvalidScore
	OutcomeNotAuthenticated = models.OutcomeNotAuthenticated
	OutcomeNetworkError     = models.OutcomeNetworkError
	OutcomeFailed           = models.OutcomeFailed
)

const (
	StateIdle       = models.StateIdle
	StateSubmitting = models.StateSubmitting
)

// NewSessionRecord builds a session record, stamping a fresh session id
// when the caller does not supply one.
func NewSessionRecord(sessionID string, start, end time.Time, finalScore int) SessionRecord {
	return models.NewSessionRecord(sessionID, start, end, finalScore)
}
