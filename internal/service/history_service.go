package service

import (
	"context"
	"log"

	"resto-orders/internal/domain"
)

type HistoryService struct {
	history HistoryRepository
	users   UserDirectory
	cache   UserCache
}

func NewHistoryService(history HistoryRepository, users UserDirectory, cache UserCache) *HistoryService {
	return &HistoryService{
		history: history,
		users:   users,
		cache:   cache,
	}
}

// OrderHistory returns one page of an order's history, newest first, with the
// acting user denormalized onto each row. User resolution is best-effort:
// any cache or directory failure leaves changed_by_user null.
func (s *HistoryService) OrderHistory(ctx context.Context, orderID, page, limit int) ([]domain.OrderHistory, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, total, err := s.history.OrderHistoryByOrder(ctx, orderID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	s.enrich(ctx, rows)
	return rows, total, nil
}

func (s *HistoryService) enrich(ctx context.Context, rows []domain.OrderHistory) {
	resolved := map[int]*domain.UserProjection{}
	var missing []int
	for _, row := range rows {
		if _, seen := resolved[row.ChangedBy]; seen {
			continue
		}
		resolved[row.ChangedBy] = nil
		if s.cache != nil {
			if user, err := s.cache.GetUser(ctx, row.ChangedBy); err == nil {
				resolved[row.ChangedBy] = user
				continue
			}
		}
		missing = append(missing, row.ChangedBy)
	}

	if len(missing) > 0 {
		users, err := s.users.GetUsersByIDs(ctx, missing)
		if err != nil {
			log.Printf("[history] failed to resolve acting users: %v", err)
		} else {
			for id, user := range users {
				u := user
				resolved[id] = &u
				if s.cache != nil {
					if err := s.cache.SetUser(ctx, user); err != nil {
						log.Printf("[history] failed to cache user %d: %v", id, err)
					}
				}
			}
		}
	}

	for i := range rows {
		rows[i].ChangedByUser = resolved[rows[i].ChangedBy]
	}
}
