package services

import (
	"context"
	"fmt"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
)

type HealthService interface {
	Check(ctx context.Context) (int64, error)
}

type healthService struct {
	playerRepo repositories.PlayerRepository
}

func NewHealthService(playerRepo repositories.PlayerRepository) HealthService {
	return &healthService{playerRepo: playerRepo}
}

// Check counts players, which proves the database answers queries.
func (s *healthService) Check(ctx context.Context) (int64, error) {
	n, err := s.playerRepo.Count(ctx, models.PlayerFilter{})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrHealthCheckFailed, err)
	}
	return n, nil
}
