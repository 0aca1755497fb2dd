package engine

import (
	"github.com/dmonteiro/scoresync/internal/errors"
	"github.com/dmonteiro/scoresync/internal/models"
)

// Validator rejects impossible scores before any network or disk access.
// It is pure: degenerate or corrupted input must never consume the
// submission time budget or pollute the offline queue.
type Validator struct {
	ceiling int
}

// NewValidator creates a validator with the given score ceiling. The
// ceiling is derived from game mechanics: no legitimate session can
// reach it.
func NewValidator(ceiling int) *Validator {
	return &Validator{ceiling: ceiling}
}

// ValidateScore checks a raw score against the plausible range.
func (v *Validator) ValidateScore(score int) error {
	if score < 0 {
		return errors.NewInvalidScoreError("score", "must not be negative")
	}
	if score > v.ceiling {
		return errors.NewInvalidScoreError("score", "exceeds plausible ceiling")
	}
	return nil
}

// ValidateSession checks the session record itself: the score plus basic
// sanity on the recorded timings and counters.
func (v *Validator) ValidateSession(s models.SessionRecord) error {
	if err := v.ValidateScore(s.FinalScore); err != nil {
		return err
	}
	if s.EndTime.Before(s.StartTime) {
		return errors.NewInvalidScoreError("end_time", "precedes start_time")
	}
	if s.SurvivalTimeSeconds < 0 {
		return errors.NewInvalidScoreError("survival_time_seconds", "must not be negative")
	}
	if s.JumpCount < 0 || s.PulseUsageCount < 0 || s.PowerUpsCollected < 0 {
		return errors.NewInvalidScoreError("counters", "must not be negative")
	}
	return nil
}
