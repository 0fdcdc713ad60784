package repository

import (
	"context"

	"gridjump/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// хранит итоги матчей в Postgres
type ResultRepository struct {
	db *pgxpool.Pool
}

func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create сохраняет итог матча вместе с очками игроков одной транзакцией
func (r *ResultRepository) Create(ctx context.Context, res *domain.MatchResult) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
		INSERT INTO match_results (match_id, turns, finished_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, res.MatchID, res.Turns, res.FinishedAt).Scan(&res.ID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, p := range res.Players {
		batch.Queue(`
			INSERT INTO match_result_players (result_id, player_hash, points, winner)
			VALUES ($1, $2, $3, $4)
		`, res.ID, p.PlayerHash, p.Points, p.Winner)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetTop возвращает лучшие результаты игроков за все матчи
func (r *ResultRepository) GetTop(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.player_hash, p.points, m.match_id, p.winner
		FROM match_result_players p
		JOIN match_results m ON m.id = p.result_id
		ORDER BY p.points DESC, m.finished_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.LeaderboardEntry])
}
