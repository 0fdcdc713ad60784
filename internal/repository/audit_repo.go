package repository

import (
	"context"
	"encoding/json"

	"gridjump/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// отвечает за операции с базой данных для логов аудита
type AuditRepository struct {
	db *pgxpool.Pool
}

// создает новый репозиторий для логов аудита
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// создает новую запись в логе аудита
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_logs (match_id, action, category, details)
		VALUES ($1, $2, $3, $4)
	`, log.MatchID, log.Action, log.Category, detailsJSON(log.Details))
	return err
}

// возвращает логи аудита матча, новые первыми
func (r *AuditRepository) GetByMatch(ctx context.Context, matchID int64, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, match_id, action, category, details, created_at
		FROM audit_logs
		WHERE match_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, matchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var raw []byte
		if err := rows.Scan(&log.ID, &log.MatchID, &log.Action, &log.Category, &raw, &log.CreatedAt); err != nil {
			return nil, err
		}
		log.Details = parseDetails(raw)
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

func parseDetails(raw []byte) map[string]interface{} {
	details := make(map[string]interface{})
	if err := json.Unmarshal(raw, &details); err != nil {
		return make(map[string]interface{})
	}
	return details
}

func detailsJSON(details map[string]interface{}) []byte {
	if details == nil {
		return []byte("{}")
	}
	b, err := json.Marshal(details)
	if err != nil {
		return []byte("{}")
	}
	return b
}
