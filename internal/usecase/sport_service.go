package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/sport-alerts/internal/domain/sport"
)

type SportService struct {
	repo sport.Repository
}

func NewSportService(repo sport.Repository) *SportService {
	return &SportService{repo: repo}
}

func (s *SportService) ListActive(ctx context.Context) ([]sport.Sport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SportService.ListActive")
	defer span.End()

	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sports: %w", err)
	}
	return items, nil
}
