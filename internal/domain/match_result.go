package domain

import "time"

// итог завершенного матча
type MatchResult struct {
	ID         int64          `db:"id" json:"id"`
	MatchID    int64          `db:"match_id" json:"match_id"`
	Turns      int            `db:"turns" json:"turns"`
	FinishedAt time.Time      `db:"finished_at" json:"finished_at"`
	Players    []PlayerResult `json:"players"`
}

type PlayerResult struct {
	PlayerHash string `db:"player_hash" json:"player_hash"`
	Points     int    `db:"points" json:"points"`
	Winner     bool   `db:"winner" json:"winner"`
}

// строка таблицы лидеров
type LeaderboardEntry struct {
	PlayerHash string `db:"player_hash" json:"player_hash"`
	Points     int    `db:"points" json:"points"`
	MatchID    int64  `db:"match_id" json:"match_id"`
	Winner     bool   `db:"winner" json:"winner"`
}
