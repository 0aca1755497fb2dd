package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	syncerrors "github.com/dmonteiro/scoresync/internal/errors"
	"github.com/dmonteiro/scoresync/internal/engine"
	"github.com/dmonteiro/scoresync/internal/models"
)

func TestValidateScore(t *testing.T) {
	v := engine.NewValidator(10000)

	tests := []struct {
		name    string
		score   int
		wantErr bool
	}{
		{"zero", 0, false},
		{"typical", 420, false},
		{"at ceiling", 10000, false},
		{"negative", -1, true},
		{"above ceiling", 15000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateScore(tt.score)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, syncerrors.HasCode(err, syncerrors.ErrCodeInvalidScore))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSession(t *testing.T) {
	v := engine.NewValidator(10000)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	valid := models.SessionRecord{
		SessionID:           "sess-1",
		StartTime:           start,
		EndTime:             start.Add(90 * time.Second),
		FinalScore:          420,
		JumpCount:           37,
		PulseUsageCount:     4,
		PowerUpsCollected:   2,
		SurvivalTimeSeconds: 90,
	}
	assert.NoError(t, v.ValidateSession(valid))

	endsBeforeStart := valid
	endsBeforeStart.EndTime = start.Add(-time.Second)
	assert.Error(t, v.ValidateSession(endsBeforeStart))

	negativeSurvival := valid
	negativeSurvival.SurvivalTimeSeconds = -1
	assert.Error(t, v.ValidateSession(negativeSurvival))

	negativeCounter := valid
	negativeCounter.JumpCount = -3
	assert.Error(t, v.ValidateSession(negativeCounter))

	implausibleScore := valid
	implausibleScore.FinalScore = 15000
	assert.Error(t, v.ValidateSession(implausibleScore))
}
