package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	syncerrors "github.com/dmonteiro/scoresync/internal/errors"
	"github.com/dmonteiro/scoresync/internal/models"
)

// HTTPClient talks to the remote leaderboard service. Per-call budgets
// are enforced by the caller through the context; the client timeout is
// only a backstop against leaked connections.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

type bestScoreResp struct {
	UserID     string `json:"user_id"`
	GameMode   string `json:"game_mode"`
	Score      int    `json:"score"`
	SessionID  string `json:"session_id"`
	RecordedAt int64  `json:"recorded_at"`
}

type submitReq struct {
	UserID              string  `json:"user_id"`
	GameMode            string  `json:"game_mode"`
	Score               int     `json:"score"`
	SessionID           string  `json:"session_id"`
	SurvivalTimeSeconds float64 `json:"survival_time_seconds"`
	JumpCount           int     `json:"jump_count"`
	PulseUsageCount     int     `json:"pulse_usage_count"`
	PowerUpsCollected   int     `json:"power_ups_collected"`
}

func (c *HTTPClient) QueryBest(ctx context.Context, userID string, mode models.GameMode) (*models.ScoreRecord, error) {
	reqURL := fmt.Sprintf("%s/v1/leaderboard/%s/best/%s", c.baseURL, url.PathEscape(string(mode)), url.PathEscape(userID))

	log.Debug().Str("user_id", userID).Str("game_mode", string(mode)).Msg("querying remote best score")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, syncerrors.NewInternalError(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("best score query failed")
		return nil, syncerrors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	log.Debug().Dur("elapsed", time.Since(start)).Int("status", resp.StatusCode).Msg("best score response received")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// First-ever score for this (user, mode).
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Warn().Int("status", resp.StatusCode).Str("body", string(body)).Msg("best score query returned error status")
		return nil, syncerrors.NewNetworkError(fmt.Errorf("query best status %d: %s", resp.StatusCode, string(body)))
	}

	var out bestScoreResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Warn().Err(err).Msg("failed to decode best score response")
		return nil, syncerrors.NewNetworkError(err)
	}

	return &models.ScoreRecord{
		UserID:     out.UserID,
		GameMode:   models.GameMode(out.GameMode),
		Score:      out.Score,
		SessionID:  out.SessionID,
		RecordedAt: time.Unix(out.RecordedAt, 0),
	}, nil
}

func (c *HTTPClient) SubmitScore(ctx context.Context, entry models.QueuedScoreEntry, meta models.SessionRecord) error {
	reqURL := fmt.Sprintf("%s/v1/leaderboard/%s/scores", c.baseURL, url.PathEscape(string(entry.GameMode)))

	payload, err := json.Marshal(submitReq{
		UserID:              entry.UserID,
		GameMode:            string(entry.GameMode),
		Score:               entry.Score,
		SessionID:           entry.SessionID,
		SurvivalTimeSeconds: meta.SurvivalTimeSeconds,
		JumpCount:           meta.JumpCount,
		PulseUsageCount:     meta.PulseUsageCount,
		PowerUpsCollected:   meta.PowerUpsCollected,
	})
	if err != nil {
		return syncerrors.NewInternalError(err)
	}

	log.Debug().Str("user_id", entry.UserID).Str("game_mode", string(entry.GameMode)).Int("score", entry.Score).Msg("submitting score")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return syncerrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("user_id", entry.UserID).Msg("score submission failed")
		return syncerrors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	log.Debug().Dur("elapsed", time.Since(start)).Int("status", resp.StatusCode).Msg("submit response received")

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		log.Info().Str("user_id", entry.UserID).Str("game_mode", string(entry.GameMode)).Int("score", entry.Score).Msg("score accepted by leaderboard")
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// The service received the call and refused the payload. Not a
		// transport failure: do not queue, do not retry.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("leaderboard rejected submission")
		return syncerrors.NewRemoteRejectedError(resp.StatusCode, string(body))
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Warn().Int("status", resp.StatusCode).Str("body", string(body)).Msg("submit returned server error")
		return syncerrors.NewNetworkError(fmt.Errorf("submit status %d: %s", resp.StatusCode, string(body)))
	}
}
