// Package economy — service.go: история начислений игрока.
package economy

import (
	"context"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Service отдаёт журнал начислений.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// History возвращает последние limit записей (по умолчанию 20, не больше 100).
func (s *Service) History(ctx context.Context, playerID int64, limit int) ([]*LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)
	return s.repo.History(ctx, playerID, limit)
}
