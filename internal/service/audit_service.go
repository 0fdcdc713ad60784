package service

import (
	"context"
	"time"

	"gridjump/internal/domain"
	"gridjump/internal/logger"
)

// AuditStore - куда пишутся события матчей (postgres или sqlite)
type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetByMatch(ctx context.Context, matchID int64, limit int) ([]*domain.AuditLog, error)
}

// обрабатывает журнал событий матчей
type AuditService struct {
	repo AuditStore
}

// создает новый сервис аудита; nil store - журнал выключен
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// создает новую запись в журнале аудита
func (s *AuditService) Log(ctx context.Context, matchID int64, action, category string, details map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}
	log := &domain.AuditLog{
		MatchID:  matchID,
		Action:   action,
		Category: category,
		Details:  details,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("не удалось создать запись аудита", "error", err, "action", action, "match_id", matchID)
	}
}

// возвращает события матча, новые первыми; без хранилища - пустой список
func (s *AuditService) History(ctx context.Context, matchID int64, limit int) ([]*domain.AuditLog, error) {
	if s == nil || s.repo == nil {
		return []*domain.AuditLog{}, nil
	}
	logs, err := s.repo.GetByMatch(ctx, matchID, limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	return logs, nil
}

// логирует создание нового лобби
func (s *AuditService) LogCreated(ctx context.Context, matchID int64) {
	s.Log(ctx, matchID, domain.AuditActionMatchCreated, domain.AuditCategoryLobby, nil)
}

// логирует назначение времени старта
func (s *AuditService) LogScheduled(ctx context.Context, matchID int64, startTime time.Time) {
	s.Log(ctx, matchID, domain.AuditActionStartScheduled, domain.AuditCategoryLobby, map[string]interface{}{
		"start_time": startTime.UnixMilli(),
	})
}

// логирует начало игры
func (s *AuditService) LogStart(ctx context.Context, matchID int64, players int) {
	s.Log(ctx, matchID, domain.AuditActionMatchStart, domain.AuditCategoryMatch, map[string]interface{}{
		"players": players,
	})
}

// логирует завершение игры
func (s *AuditService) LogEnd(ctx context.Context, res *domain.MatchResult) {
	winners := make([]string, 0, 1)
	for _, p := range res.Players {
		if p.Winner {
			winners = append(winners, p.PlayerHash)
		}
	}
	s.Log(ctx, res.MatchID, domain.AuditActionMatchEnd, domain.AuditCategoryMatch, map[string]interface{}{
		"turns":   res.Turns,
		"winners": winners,
	})
}
