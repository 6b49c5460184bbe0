package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/refh96/catalogo-rancho-sub000/internal/repository"
)

// Counter name for storefront page visits.
const counterVisits = "visits"

// StatsService tracks storefront counters (page visits, cart adds).
type StatsService struct {
	counters repository.CounterRepository
	logger   *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(counters repository.CounterRepository, logger *slog.Logger) *StatsService {
	return &StatsService{
		counters: counters,
		logger:   logger,
	}
}

// RecordVisit bumps the visit counter.
func (s *StatsService) RecordVisit(ctx context.Context) error {
	if err := s.counters.Increment(ctx, counterVisits, 1); err != nil {
		return fmt.Errorf("increment visits counter: %w", err)
	}
	return nil
}

// Stats returns every counter keyed by name.
func (s *StatsService) Stats(ctx context.Context) (map[string]int64, error) {
	stats, err := s.counters.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read counters: %w", err)
	}
	return stats, nil
}
