package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
	"github.com/gnbf/badminton-registry/validation"
)

const (
	DefaultCategoryLimit = 100
	MaxCategoryLimit     = 200
	DefaultTopLimit      = 10
	MaxTopLimit          = 50
	globalPerCategory    = 10
	DefaultHistoryDays   = 90
	MinHistoryDays       = 7
	MaxHistoryDays       = 365
)

type RankingService interface {
	ByCategory(ctx context.Context, category string, limit int) ([]models.RankingEntry, error)
	Global(ctx context.Context) (map[string][]models.RankingEntry, error)
	ForPlayer(ctx context.Context, slug string) (*models.PlayerRankings, error)
	History(ctx context.Context, slug, category string, days int) (*models.RankingHistory, error)
	ForTournament(ctx context.Context, slug string) ([]models.TournamentPointsEntry, error)
	TopPlayers(ctx context.Context, limit int) ([]models.RankingEntry, error)
	Calculate(ctx context.Context, tournamentID int) (*models.CalculationSummary, error)
	RecalculateAll(ctx context.Context) (*models.RecalculationResult, error)
}

type rankingService struct {
	rankingRepo    repositories.RankingRepository
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	playerRepo     repositories.PlayerRepository
	notifier       Notifier
	now            func() time.Time
}

func NewRankingService(
	rankingRepo repositories.RankingRepository,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	notifier Notifier,
) RankingService {
	return &rankingService{
		rankingRepo:    rankingRepo,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		playerRepo:     playerRepo,
		notifier:       notifierOrNop(notifier),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// ClampLimit returns def for a non-positive limit and caps it at ceiling.
func ClampLimit(limit, def, ceiling int) int {
	if limit <= 0 {
		return def
	}
	if limit > ceiling {
		return ceiling
	}
	return limit
}

func (s *rankingService) refs(ctx context.Context, ids []int) (map[int]models.PlayerRef, error) {
	refs := make(map[int]models.PlayerRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	players, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranked players: %w", err)
	}
	for _, p := range players {
		refs[p.ID] = p.Ref()
	}
	return refs, nil
}

func (s *rankingService) entries(ctx context.Context, rankings []models.PlayerRanking) ([]models.RankingEntry, error) {
	ids := make([]int, 0, len(rankings))
	for _, r := range rankings {
		ids = append(ids, r.PlayerID)
	}
	refs, err := s.refs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.RankingEntry, 0, len(rankings))
	for _, r := range rankings {
		out = append(out, models.RankingEntry{PlayerRanking: r, Player: refs[r.PlayerID], Change: r.Movement()})
	}
	return out, nil
}

func (s *rankingService) ByCategory(ctx context.Context, category string, limit int) ([]models.RankingEntry, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}
	rankings, err := s.rankingRepo.ListByCategory(ctx, c, ClampLimit(limit, DefaultCategoryLimit, MaxCategoryLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s rankings: %w", c, err)
	}
	return s.entries(ctx, rankings)
}

func (s *rankingService) Global(ctx context.Context) (map[string][]models.RankingEntry, error) {
	global := make(map[string][]models.RankingEntry, len(models.Categories))
	for _, c := range models.Categories {
		entries, err := s.ByCategory(ctx, c, globalPerCategory)
		if err != nil {
			return nil, err
		}
		global[c] = entries
	}
	return global, nil
}

func (s *rankingService) ForPlayer(ctx context.Context, slug string) (*models.PlayerRankings, error) {
	player, err := s.playerRepo.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by slug %q: %w", slug, err)
	}
	rankings, err := s.rankingRepo.ListForPlayer(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankings of player %d: %w", player.ID, err)
	}
	if rankings == nil {
		rankings = []models.PlayerRanking{}
	}
	return &models.PlayerRankings{Player: player.Ref(), Rankings: rankings}, nil
}

// History returns the daily rank snapshots of a player over the last days,
// grouped by category.
func (s *rankingService) History(ctx context.Context, slug, category string, days int) (*models.RankingHistory, error) {
	if days < MinHistoryDays || days > MaxHistoryDays {
		return nil, validation.Field("days", fmt.Sprintf("must be between %d and %d", MinHistoryDays, MaxHistoryDays))
	}
	if category != "" {
		c, err := ParseCategory(category)
		if err != nil {
			return nil, err
		}
		category = c
	}
	player, err := s.playerRepo.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by slug %q: %w", slug, err)
	}

	now := s.now()
	since := models.NewDate(now.Year(), now.Month(), now.Day()-days)
	snapshots, err := s.rankingRepo.RankHistory(ctx, player.ID, category, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get rank history of player %d: %w", player.ID, err)
	}
	history := &models.RankingHistory{
		PlayerID: player.ID,
		Player:   player.Ref(),
		Days:     days,
		History:  make(map[string][]models.RankingHistoryPoint),
	}
	for _, snap := range snapshots {
		history.History[snap.Category] = append(history.History[snap.Category], models.RankingHistoryPoint{
			Date: snap.RecordedAt, Rank: snap.Rank, Points: snap.TotalPoints,
		})
	}
	return history, nil
}

func (s *rankingService) ForTournament(ctx context.Context, slug string) ([]models.TournamentPointsEntry, error) {
	t, err := s.tournamentRepo.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament by slug %q: %w", slug, err)
	}
	points, err := s.rankingRepo.ListTournamentPoints(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list points of tournament %d: %w", t.ID, err)
	}
	ids := make([]int, 0, len(points))
	for _, p := range points {
		ids = append(ids, p.PlayerID)
	}
	refs, err := s.refs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.TournamentPointsEntry, 0, len(points))
	for _, p := range points {
		out = append(out, models.TournamentPointsEntry{TournamentPlayerPoints: p, Player: refs[p.PlayerID]})
	}
	return out, nil
}

func (s *rankingService) TopPlayers(ctx context.Context, limit int) ([]models.RankingEntry, error) {
	rankings, err := s.rankingRepo.TopPlayers(ctx, ClampLimit(limit, DefaultTopLimit, MaxTopLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to list top players: %w", err)
	}
	return s.entries(ctx, rankings)
}

func (s *rankingService) Calculate(ctx context.Context, tournamentID int) (*models.CalculationSummary, error) {
	if tournamentID <= 0 {
		return nil, validation.Field("tournament_id", "must be a positive integer")
	}
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrRankingCalculationFailed, err)
	}

	config, err := s.rankingRepo.ActiveConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: point config: %w", ErrRankingCalculationFailed, err)
	}
	winners, err := s.tournamentRepo.GetWinners(ctx, t.ID)
	if err != nil && !errors.Is(err, repositories.ErrWinnersNotFound) {
		return nil, fmt.Errorf("%w: winners: %w", ErrRankingCalculationFailed, err)
	}
	lineups, err := s.tournamentRepo.ListLineups(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: lineups: %w", ErrRankingCalculationFailed, err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: matches: %w", ErrRankingCalculationFailed, err)
	}

	points, processed := calculatePoints(config, winners, lineups, matches, s.now())
	if err := s.rankingRepo.ReplaceTournamentPoints(ctx, t.ID, points); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRankingCalculationFailed, err)
	}

	summary := &models.CalculationSummary{
		TournamentID:     t.ID,
		PlayersAwarded:   countPlayers(points),
		MatchesProcessed: processed,
	}
	for _, p := range points {
		summary.PointsAwarded += p.TotalPoints
	}
	slog.InfoContext(ctx, "rankings calculated",
		"tournament_id", t.ID, "players", summary.PlayersAwarded, "matches", processed)
	s.notifier.Publish(t.Slug, EventRankingsCalculated, summary)
	return summary, nil
}

func countPlayers(points []models.TournamentPlayerPoints) int {
	seen := make(map[int]struct{}, len(points))
	for _, p := range points {
		seen[p.PlayerID] = struct{}{}
	}
	return len(seen)
}

// RecalculateAll rebuilds the points of every tournament, oldest first. A
// failing tournament is reported and does not stop the run.
func (s *rankingService) RecalculateAll(ctx context.Context) (*models.RecalculationResult, error) {
	tournaments, err := s.tournamentRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRankingCalculationFailed, err)
	}
	sort.SliceStable(tournaments, func(i, j int) bool {
		if !tournaments[i].StartDate.Equal(tournaments[j].StartDate.Time) {
			return tournaments[i].StartDate.Before(tournaments[j].StartDate)
		}
		return tournaments[i].ID < tournaments[j].ID
	})

	result := &models.RecalculationResult{Details: make([]models.RecalculationOutcome, 0, len(tournaments))}
	for _, t := range tournaments {
		outcome := models.RecalculationOutcome{TournamentID: t.ID, TournamentName: t.Name, Status: "success"}
		if _, err := s.Calculate(ctx, t.ID); err != nil {
			slog.ErrorContext(ctx, "ranking recalculation failed", "tournament_id", t.ID, "error", err)
			outcome.Status = "failed"
			outcome.Error = ErrRankingCalculationFailed.Error()
			result.Failed++
		} else {
			result.Successful++
		}
		result.Details = append(result.Details, outcome)
	}
	result.TournamentsProcessed = len(tournaments)
	return result, nil
}
