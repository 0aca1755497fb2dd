package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog/log"

	"github.com/dmonteiro/scoresync/internal/models"
	"github.com/dmonteiro/scoresync/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type queueRepository struct {
	db *sql.DB
}

// NewScoreQueueRepository creates a new ScoreQueueRepository implementation
func NewScoreQueueRepository(db *sql.DB) repository.ScoreQueueRepository {
	return &queueRepository{db: db}
}

func (r *queueRepository) Append(ctx context.Context, entry models.QueuedScoreEntry) error {
	log.Debug().
		Str("user_id", entry.UserID).
		Str("game_mode", string(entry.GameMode)).
		Int("score", entry.Score).
		Msg("appending queued score")

	_, err := r.db.ExecContext(ctx, `
INSERT INTO queued_scores (user_id, game_mode, score, session_id, queued_at)
VALUES (?, ?, ?, ?, ?)
`, entry.UserID, string(entry.GameMode), entry.Score, entry.SessionID, entry.QueuedAt)
	if err != nil {
		log.Error().Err(err).Str("session_id", entry.SessionID).Msg("failed to append queued score")
	}
	return err
}

func (r *queueRepository) ListByUser(ctx context.Context, userID string) ([]models.QueuedScoreEntry, error) {
	return r.list(ctx, &userID)
}

func (r *queueRepository) ListAll(ctx context.Context) ([]models.QueuedScoreEntry, error) {
	return r.list(ctx, nil)
}

func (r *queueRepository) list(ctx context.Context, userID *string) ([]models.QueuedScoreEntry, error) {
	query := sqlBuilder.Select("user_id", "game_mode", "score", "session_id", "queued_at").
		From("queued_scores").
		OrderBy("id ASC")
	if userID != nil {
		query = query.Where(squirrel.Eq{"user_id": *userID})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error().Err(err).Msg("failed to build queue list query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error().Err(err).Msg("failed to list queued scores")
		return nil, err
	}
	defer rows.Close()

	var entries []models.QueuedScoreEntry
	for rows.Next() {
		var e models.QueuedScoreEntry
		var mode string
		if err := rows.Scan(&e.UserID, &mode, &e.Score, &e.SessionID, &e.QueuedAt); err != nil {
			log.Error().Err(err).Msg("failed to scan queued score")
			return nil, err
		}
		e.GameMode = models.GameMode(mode)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *queueRepository) Remove(ctx context.Context, sessionID string) error {
	log.Debug().Str("session_id", sessionID).Msg("removing queued score")

	_, err := r.db.ExecContext(ctx, `DELETE FROM queued_scores WHERE session_id = ?`, sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to remove queued score")
	}
	return err
}

func (r *queueRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queued_scores`).Scan(&n)
	if err != nil {
		log.Error().Err(err).Msg("failed to count queued scores")
		return 0, err
	}
	return n, nil
}
