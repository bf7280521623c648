package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gnbf/badminton-registry/models"
)

type rankingRepo struct{ s *Store }

func (r rankingRepo) ActiveConfig(_ context.Context) ([]models.RankingPointConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	config := make([]models.RankingPointConfig, 0, len(r.s.pointConfig))
	for _, c := range r.s.pointConfig {
		if c.Active {
			config = append(config, c)
		}
	}
	return config, nil
}

func (r rankingRepo) ReplaceTournamentPoints(_ context.Context, tournamentID int, points []models.TournamentPlayerPoints) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.points {
		if p.TournamentID == tournamentID {
			delete(r.s.points, id)
		}
	}
	for i := range points {
		points[i].ID = r.s.next("tournament_player_points")
		points[i].TournamentID = tournamentID
		if points[i].AwardedAt.IsZero() {
			points[i].AwardedAt = r.s.now()
		}
		r.s.points[points[i].ID] = points[i]
	}
	r.rebuild()
	return nil
}

// rebuild recomputes the aggregates and rank positions the same way the SQL
// implementation does.
func (r rankingRepo) rebuild() {
	now := r.s.now()
	agg := make(map[rankingKey]models.PlayerRanking)
	played := make(map[rankingKey]map[int]bool)
	for _, p := range r.s.points {
		k := rankingKey{p.PlayerID, p.Category}
		pr := agg[k]
		pr.PlayerID, pr.Category = p.PlayerID, p.Category
		pr.TotalPoints += p.TotalPoints
		pr.TournamentPoints += p.PlacementPoints
		pr.MatchPoints += p.MatchPoints
		pr.SetPoints += p.SetPoints
		pr.MatchesWon += p.MatchesWon
		pr.MatchesLost += p.MatchesLost
		pr.SetsWon += p.SetsWon
		pr.SetsLost += p.SetsLost
		agg[k] = pr
		if played[k] == nil {
			played[k] = make(map[int]bool)
		}
		played[k][p.TournamentID] = true
	}

	next := make(map[rankingKey]models.PlayerRanking, len(agg))
	byCategory := make(map[string][]rankingKey)
	for k, pr := range agg {
		old := r.s.rankings[k]
		pr.TournamentsPlayed = len(played[k])
		pr.CurrentRank, pr.PeakRank, pr.PeakRankDate = old.CurrentRank, old.PeakRank, old.PeakRankDate
		pr.LastUpdated = now
		next[k] = pr
		byCategory[k.category] = append(byCategory[k.category], k)
	}

	today := models.NewDate(now.Year(), now.Month(), now.Day())
	for _, keys := range byCategory {
		sort.Slice(keys, func(i, j int) bool {
			a, b := next[keys[i]], next[keys[j]]
			if a.TotalPoints != b.TotalPoints {
				return a.TotalPoints > b.TotalPoints
			}
			if a.MatchesWon != b.MatchesWon {
				return a.MatchesWon > b.MatchesWon
			}
			return a.PlayerID < b.PlayerID
		})
		for i, k := range keys {
			pr := next[k]
			rank := i + 1
			pr.PreviousRank = pr.CurrentRank
			pr.CurrentRank = &rank
			if pr.PeakRank == nil || rank < *pr.PeakRank {
				peak := rank
				pr.PeakRank = &peak
				d := today
				pr.PeakRankDate = &d
			}
			next[k] = pr
			hk := historyKey{k, today.String()}
			snap := r.s.history[hk]
			if snap.ID == 0 {
				snap.ID = r.s.next("ranking_history")
			}
			snap.PlayerID, snap.Category, snap.RecordedAt = k.playerID, k.category, today
			snap.Rank, snap.TotalPoints = rank, pr.TotalPoints
			r.s.history[hk] = snap
		}
	}
	r.s.rankings = next
}

func (r rankingRepo) ListTournamentPoints(_ context.Context, tournamentID int) ([]models.TournamentPlayerPoints, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	points := make([]models.TournamentPlayerPoints, 0)
	for _, p := range r.s.points {
		if p.TournamentID == tournamentID {
			points = append(points, p)
		}
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Category != points[j].Category {
			return points[i].Category < points[j].Category
		}
		if points[i].TotalPoints != points[j].TotalPoints {
			return points[i].TotalPoints > points[j].TotalPoints
		}
		return points[i].PlayerID < points[j].PlayerID
	})
	return points, nil
}

func (r rankingRepo) activePlayer(id int) bool {
	p, ok := r.s.players[id]
	return ok && alive(p.DeletedAt)
}

func (r rankingRepo) ListByCategory(_ context.Context, category string, limit int) ([]models.PlayerRanking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rankings := make([]models.PlayerRanking, 0)
	for k, pr := range r.s.rankings {
		if k.category == category && r.activePlayer(k.playerID) {
			rankings = append(rankings, pr)
		}
	}
	sort.Slice(rankings, func(i, j int) bool { return rankValue(rankings[i]) < rankValue(rankings[j]) })
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings, nil
}

func rankValue(pr models.PlayerRanking) int {
	if pr.CurrentRank == nil {
		return int(^uint(0) >> 1)
	}
	return *pr.CurrentRank
}

func (r rankingRepo) ListForPlayer(_ context.Context, playerID int) ([]models.PlayerRanking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rankings := make([]models.PlayerRanking, 0)
	for k, pr := range r.s.rankings {
		if k.playerID == playerID {
			rankings = append(rankings, pr)
		}
	}
	sort.Slice(rankings, func(i, j int) bool { return rankings[i].Category < rankings[j].Category })
	return rankings, nil
}

func (r rankingRepo) TopPlayers(_ context.Context, limit int) ([]models.PlayerRanking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rankings := make([]models.PlayerRanking, 0)
	for k, pr := range r.s.rankings {
		if r.activePlayer(k.playerID) {
			rankings = append(rankings, pr)
		}
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].TotalPoints != rankings[j].TotalPoints {
			return rankings[i].TotalPoints > rankings[j].TotalPoints
		}
		return rankings[i].PlayerID < rankings[j].PlayerID
	})
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings, nil
}

func (r rankingRepo) PlayerTournamentHistory(_ context.Context, playerID int) ([]models.PlayerTournamentResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	results := make([]models.PlayerTournamentResult, 0)
	for _, p := range r.s.points {
		if p.PlayerID != playerID {
			continue
		}
		t, ok := r.s.tournaments[p.TournamentID]
		if !ok || !alive(t.DeletedAt) {
			continue
		}
		res := models.PlayerTournamentResult{
			TournamentID:   t.ID,
			TournamentName: t.Name,
			TournamentSlug: t.Slug,
			StartDate:      t.StartDate,
			Category:       p.Category,
			FinalPlacement: p.FinalPlacement,
			TotalPoints:    p.TotalPoints,
			MatchesWon:     p.MatchesWon,
			MatchesLost:    p.MatchesLost,
		}
		for _, l := range r.s.lineups {
			if l.TournamentID == t.ID && l.PlayerID == playerID && l.Category == p.Category && l.ClubID != nil {
				if c, ok := r.s.clubs[*l.ClubID]; ok {
					name := c.Name
					res.ClubName = &name
				}
			}
		}
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].StartDate.Equal(results[j].StartDate.Time) {
			return results[i].StartDate.After(results[j].StartDate.Time)
		}
		return results[i].Category < results[j].Category
	})
	return results, nil
}

func (r rankingRepo) RankHistory(_ context.Context, playerID int, category string, since models.Date) ([]models.RankingSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	history := make([]models.RankingSnapshot, 0)
	for k, snap := range r.s.history {
		if k.playerID != playerID || (category != "" && k.category != category) || snap.RecordedAt.Before(since) {
			continue
		}
		history = append(history, snap)
	}
	sort.Slice(history, func(i, j int) bool {
		if !history[i].RecordedAt.Equal(history[j].RecordedAt.Time) {
			return history[i].RecordedAt.Before(history[j].RecordedAt)
		}
		return history[i].Category < history[j].Category
	})
	return history, nil
}

// RecordSnapshot stores a rank snapshot for a past day.
func (s *Store) RecordSnapshot(playerID int, category string, day time.Time, rank, points int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := models.NewDate(day.Year(), day.Month(), day.Day())
	k := historyKey{rankingKey{playerID, category}, d.String()}
	snap := s.history[k]
	if snap.ID == 0 {
		snap.ID = s.next("ranking_history")
	}
	snap.PlayerID, snap.Category, snap.RecordedAt, snap.Rank, snap.TotalPoints = playerID, category, d, rank, points
	s.history[k] = snap
}
