package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gridjump/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS match_results (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	match_id    INTEGER NOT NULL,
	turns       INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS match_result_players (
	result_id   INTEGER NOT NULL REFERENCES match_results(id) ON DELETE CASCADE,
	player_hash TEXT    NOT NULL,
	points      INTEGER NOT NULL,
	winner      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	match_id   INTEGER NOT NULL,
	action     TEXT    NOT NULL,
	category   TEXT    NOT NULL,
	details    TEXT    NOT NULL DEFAULT '{}',
	created_at INTEGER NOT NULL
);
`

// OpenSQLite открывает (или создает) файл базы и применяет схему.
// Подходит для локального запуска без Postgres; ":memory:" - для тестов.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// один писатель, иначе SQLITE_BUSY; для :memory: еще и одна общая база
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return db, nil
}

// SQLiteResultRepository - то же, что ResultRepository, поверх SQLite
type SQLiteResultRepository struct {
	db *sql.DB
}

func NewSQLiteResultRepository(db *sql.DB) *SQLiteResultRepository {
	return &SQLiteResultRepository{db: db}
}

func (r *SQLiteResultRepository) Create(ctx context.Context, res *domain.MatchResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	out, err := tx.ExecContext(ctx, `
		INSERT INTO match_results (match_id, turns, finished_at) VALUES (?, ?, ?)
	`, res.MatchID, res.Turns, res.FinishedAt.UnixMilli())
	if err != nil {
		return err
	}
	if res.ID, err = out.LastInsertId(); err != nil {
		return err
	}

	for _, p := range res.Players {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO match_result_players (result_id, player_hash, points, winner) VALUES (?, ?, ?, ?)
		`, res.ID, p.PlayerHash, p.Points, p.Winner); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteResultRepository) GetTop(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.player_hash, p.points, m.match_id, p.winner
		FROM match_result_players p
		JOIN match_results m ON m.id = p.result_id
		ORDER BY p.points DESC, m.finished_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.PlayerHash, &e.Points, &e.MatchID, &e.Winner); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SQLiteAuditRepository - журнал аудита поверх SQLite
type SQLiteAuditRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteAuditRepository(db *sql.DB) *SQLiteAuditRepository {
	return &SQLiteAuditRepository{db: db, now: time.Now}
}

func (r *SQLiteAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (match_id, action, category, details, created_at) VALUES (?, ?, ?, ?, ?)
	`, log.MatchID, log.Action, log.Category, string(detailsJSON(log.Details)), r.now().UnixMilli())
	return err
}

func (r *SQLiteAuditRepository) GetByMatch(ctx context.Context, matchID int64, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, match_id, action, category, details, created_at
		FROM audit_logs
		WHERE match_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, matchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var raw string
		var createdMs int64
		if err := rows.Scan(&log.ID, &log.MatchID, &log.Action, &log.Category, &raw, &createdMs); err != nil {
			return nil, err
		}
		log.Details = parseDetails([]byte(raw))
		log.CreatedAt = time.UnixMilli(createdMs)
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}
