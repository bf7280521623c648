package services

import (
	"context"
	"fmt"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (*models.RegistryStats, error)
}

type dashboardService struct {
	userRepo       repositories.UserRepository
	playerRepo     repositories.PlayerRepository
	clubRepo       repositories.ClubRepository
	tournamentRepo repositories.TournamentRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	playerRepo repositories.PlayerRepository,
	clubRepo repositories.ClubRepository,
	tournamentRepo repositories.TournamentRepository,
) DashboardService {
	return &dashboardService{
		userRepo:       userRepo,
		playerRepo:     playerRepo,
		clubRepo:       clubRepo,
		tournamentRepo: tournamentRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (*models.RegistryStats, error) {
	var stats models.RegistryStats
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, total, err := s.userRepo.List(gCtx, models.UserFilter{Page: 1, Limit: 1})
		stats.UsersTotal = total
		return err
	})
	g.Go(func() error {
		_, total, err := s.userRepo.List(gCtx, models.UserFilter{Role: models.RoleAdmin, Page: 1, Limit: 1})
		stats.AdminsTotal = total
		return err
	})
	g.Go(func() error {
		n, err := s.playerRepo.Count(gCtx, models.PlayerFilter{})
		stats.PlayersTotal = n
		return err
	})
	g.Go(func() error {
		clubs, err := s.clubRepo.List(gCtx)
		stats.ClubsTotal = int64(len(clubs))
		return err
	})
	g.Go(func() error {
		all, err := s.tournamentRepo.List(gCtx, "")
		stats.TournamentsTotal = int64(len(all))
		return err
	})
	g.Go(func() error {
		live, err := s.tournamentRepo.List(gCtx, models.StatusInProgress)
		stats.TournamentsInProgress = int64(len(live))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect registry stats: %w", err)
	}
	return &stats, nil
}
