package domain

import "time"

// запись журнала событий матча
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	MatchID   int64                  `db:"match_id" json:"match_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

const (
	AuditCategoryLobby = "lobby"
	AuditCategoryMatch = "match"
)

const (
	AuditActionMatchCreated   = "match_created"
	AuditActionStartScheduled = "start_scheduled"
	AuditActionMatchStart     = "match_start"
	AuditActionMatchEnd       = "match_end"
)
