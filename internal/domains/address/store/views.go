package store

import (
	"context"

	"storefront-backend/internal/domains/address/model"
)

// Các view dưới đây chỉ đọc snapshot, không gọi repository.

func (s *Store) Addresses(ctx context.Context, userID string) []model.Address {
	addrs, ok := s.snapshot(ctx, userID)
	if !ok {
		return []model.Address{}
	}
	return addrs
}

func (s *Store) Loading(userID string) bool {
	s.loadingMu.Lock()
	defer s.loadingMu.Unlock()
	return s.loading[userID] > 0
}

func (s *Store) Default(ctx context.Context, userID string) (model.Address, bool) {
	return model.FindDefault(s.Addresses(ctx, userID))
}

// FormattedLines maps address id to its single-line form.
func (s *Store) FormattedLines(ctx context.Context, userID string) map[string]string {
	addrs := s.Addresses(ctx, userID)
	lines := make(map[string]string, len(addrs))
	for _, addr := range addrs {
		lines[addr.ID] = addr.Line()
	}
	return lines
}
