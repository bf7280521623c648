package repositories

import (
	"context"
	"fmt"

	"github.com/gnbf/badminton-registry/models"
	"gorm.io/gorm"
)

type RankingRepository interface {
	ActiveConfig(ctx context.Context) ([]models.RankingPointConfig, error)
	// ReplaceTournamentPoints stores the points of one tournament and rebuilds
	// every player ranking from the stored points, in one transaction.
	ReplaceTournamentPoints(ctx context.Context, tournamentID int, points []models.TournamentPlayerPoints) error
	ListTournamentPoints(ctx context.Context, tournamentID int) ([]models.TournamentPlayerPoints, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]models.PlayerRanking, error)
	ListForPlayer(ctx context.Context, playerID int) ([]models.PlayerRanking, error)
	TopPlayers(ctx context.Context, limit int) ([]models.PlayerRanking, error)
	PlayerTournamentHistory(ctx context.Context, playerID int) ([]models.PlayerTournamentResult, error)
	// RankHistory returns the daily rank snapshots of a player recorded on or
	// after since, oldest first. An empty category matches every category.
	RankHistory(ctx context.Context, playerID int, category string, since models.Date) ([]models.RankingSnapshot, error)
}

type gormRankingRepository struct {
	db *gorm.DB
}

func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &gormRankingRepository{db: db}
}

func (r *gormRankingRepository) ActiveConfig(ctx context.Context) ([]models.RankingPointConfig, error) {
	config := make([]models.RankingPointConfig, 0)
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&config).Error
	return config, err
}

const aggregateRankingsSQL = `
INSERT INTO player_rankings (
    player_id, category, total_points, tournament_points, match_points, set_points,
    tournaments_played, matches_won, matches_lost, sets_won, sets_lost, last_updated)
SELECT player_id, category,
       SUM(total_points), SUM(placement_points), SUM(match_points), SUM(set_points),
       COUNT(DISTINCT tournament_id),
       SUM(matches_won), SUM(matches_lost), SUM(sets_won), SUM(sets_lost), NOW()
FROM tournament_player_points
GROUP BY player_id, category
ON CONFLICT (player_id, category) DO UPDATE SET
    total_points       = EXCLUDED.total_points,
    tournament_points  = EXCLUDED.tournament_points,
    match_points       = EXCLUDED.match_points,
    set_points         = EXCLUDED.set_points,
    tournaments_played = EXCLUDED.tournaments_played,
    matches_won        = EXCLUDED.matches_won,
    matches_lost       = EXCLUDED.matches_lost,
    sets_won           = EXCLUDED.sets_won,
    sets_lost          = EXCLUDED.sets_lost,
    last_updated       = EXCLUDED.last_updated`

const pruneRankingsSQL = `
DELETE FROM player_rankings pr
WHERE NOT EXISTS (
    SELECT 1 FROM tournament_player_points p
    WHERE p.player_id = pr.player_id AND p.category = pr.category)`

const assignRanksSQL = `
WITH ranked AS (
    SELECT player_id, category,
           ROW_NUMBER() OVER (
               PARTITION BY category
               ORDER BY total_points DESC, matches_won DESC, player_id ASC) AS new_rank
    FROM player_rankings)
UPDATE player_rankings pr SET
    previous_rank  = pr.current_rank,
    current_rank   = ranked.new_rank,
    peak_rank      = CASE WHEN pr.peak_rank IS NULL OR ranked.new_rank < pr.peak_rank
                          THEN ranked.new_rank ELSE pr.peak_rank END,
    peak_rank_date = CASE WHEN pr.peak_rank IS NULL OR ranked.new_rank < pr.peak_rank
                          THEN CURRENT_DATE ELSE pr.peak_rank_date END
FROM ranked
WHERE pr.player_id = ranked.player_id AND pr.category = ranked.category`

const recordHistorySQL = `
INSERT INTO ranking_history (player_id, category, rank, total_points, recorded_at)
SELECT player_id, category, current_rank, total_points, CURRENT_DATE
FROM player_rankings
WHERE current_rank IS NOT NULL
ON CONFLICT (player_id, category, recorded_at) DO UPDATE SET
    rank         = EXCLUDED.rank,
    total_points = EXCLUDED.total_points`

func (r *gormRankingRepository) ReplaceTournamentPoints(ctx context.Context, tournamentID int, points []models.TournamentPlayerPoints) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("tournament_id = ?", tournamentID).Delete(&models.TournamentPlayerPoints{}).Error
		if err != nil {
			return fmt.Errorf("clear tournament points: %w", err)
		}
		if len(points) > 0 {
			for i := range points {
				points[i].ID = 0
				points[i].TournamentID = tournamentID
			}
			if err := tx.Create(&points).Error; err != nil {
				return fmt.Errorf("insert tournament points: %w", err)
			}
		}
		for _, step := range []struct {
			name string
			sql  string
		}{
			{"aggregate rankings", aggregateRankingsSQL},
			{"prune rankings", pruneRankingsSQL},
			{"assign ranks", assignRanksSQL},
			{"record history", recordHistorySQL},
		} {
			if err := tx.Exec(step.sql).Error; err != nil {
				return fmt.Errorf("%s: %w", step.name, err)
			}
		}
		return nil
	})
}

func (r *gormRankingRepository) ListTournamentPoints(ctx context.Context, tournamentID int) ([]models.TournamentPlayerPoints, error) {
	points := make([]models.TournamentPlayerPoints, 0)
	err := r.db.WithContext(ctx).Where("tournament_id = ?", tournamentID).
		Order("category, total_points DESC, player_id").Find(&points).Error
	return points, err
}

func (r *gormRankingRepository) ListByCategory(ctx context.Context, category string, limit int) ([]models.PlayerRanking, error) {
	rankings := make([]models.PlayerRanking, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN players p ON p.id = player_rankings.player_id AND p.deleted_at IS NULL").
		Where("player_rankings.category = ?", category).
		Order("player_rankings.current_rank ASC NULLS LAST").
		Limit(limit).
		Find(&rankings).Error
	return rankings, err
}

func (r *gormRankingRepository) ListForPlayer(ctx context.Context, playerID int) ([]models.PlayerRanking, error) {
	rankings := make([]models.PlayerRanking, 0)
	err := r.db.WithContext(ctx).Where("player_id = ?", playerID).Order("category").Find(&rankings).Error
	return rankings, err
}

func (r *gormRankingRepository) TopPlayers(ctx context.Context, limit int) ([]models.PlayerRanking, error) {
	rankings := make([]models.PlayerRanking, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN players p ON p.id = player_rankings.player_id AND p.deleted_at IS NULL").
		Order("player_rankings.total_points DESC, player_rankings.player_id").
		Limit(limit).
		Find(&rankings).Error
	return rankings, err
}

func (r *gormRankingRepository) PlayerTournamentHistory(ctx context.Context, playerID int) ([]models.PlayerTournamentResult, error) {
	results := make([]models.PlayerTournamentResult, 0)
	err := r.db.WithContext(ctx).
		Table("tournament_player_points AS p").
		Select(`p.tournament_id, t.name AS tournament_name, t.slug AS tournament_slug, t.start_date,
			p.category, p.final_placement, p.total_points, p.matches_won, p.matches_lost,
			c.name AS club_name`).
		Joins("JOIN tournaments t ON t.id = p.tournament_id AND t.deleted_at IS NULL").
		Joins(`LEFT JOIN tournament_lineups l ON l.tournament_id = p.tournament_id
			AND l.player_id = p.player_id AND l.category = p.category`).
		Joins("LEFT JOIN clubs c ON c.id = l.club_id").
		Where("p.player_id = ?", playerID).
		Order("t.start_date DESC, p.category").
		Scan(&results).Error
	return results, err
}

func (r *gormRankingRepository) RankHistory(ctx context.Context, playerID int, category string, since models.Date) ([]models.RankingSnapshot, error) {
	history := make([]models.RankingSnapshot, 0)
	q := r.db.WithContext(ctx).Where("player_id = ? AND recorded_at >= ?", playerID, since)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("recorded_at, category").Find(&history).Error
	return history, err
}
