package postgres

import (
	"context"
	"fmt"

	"github.com/GhadeBhavesh/QZone/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ScoreRepository persists finished-game scores per user.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

func (r *ScoreRepository) Save(ctx context.Context, userID int64, score, questionsAttempted int) (domain.Score, error) {
	var saved domain.Score
	err := r.pool.QueryRow(ctx,
		`INSERT INTO scores (user_id, score, questions_attempted) VALUES ($1, $2, $3)
		 RETURNING id, user_id, score, questions_attempted, game_date`,
		userID, score, questionsAttempted,
	).Scan(&saved.ID, &saved.UserID, &saved.Score, &saved.QuestionsAttempted, &saved.GameDate)
	if err != nil {
		return domain.Score{}, fmt.Errorf("save score: %w", err)
	}
	return saved, nil
}

// ListByUser returns the user's scores, newest game first.
func (r *ScoreRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Score, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, score, questions_attempted, game_date
		 FROM scores WHERE user_id=$1 ORDER BY game_date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.Score
	for rows.Next() {
		var s domain.Score
		if err := rows.Scan(&s.ID, &s.UserID, &s.Score, &s.QuestionsAttempted, &s.GameDate); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// Best returns the user's highest score, zero when they have none.
func (r *ScoreRepository) Best(ctx context.Context, userID int64) (int, error) {
	var best *int
	err := r.pool.QueryRow(ctx,
		`SELECT MAX(score) FROM scores WHERE user_id=$1`, userID,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("best score: %w", err)
	}
	if best == nil {
		return 0, nil
	}
	return *best, nil
}

// Top returns the all-time leaderboard: each user's best score, descending.
func (r *ScoreRepository) Top(ctx context.Context, limit int) ([]domain.BestScore, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.email, MAX(s.score) AS best_score, MAX(s.game_date) AS last_played
		 FROM users u
		 JOIN scores s ON u.id = s.user_id
		 GROUP BY u.id, u.email
		 ORDER BY best_score DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var top []domain.BestScore
	for rows.Next() {
		var b domain.BestScore
		if err := rows.Scan(&b.Email, &b.BestScore, &b.LastPlayed); err != nil {
			return nil, fmt.Errorf("scan best score: %w", err)
		}
		top = append(top, b)
	}
	return top, rows.Err()
}
