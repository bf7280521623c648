package memory

import (
	"context"
	"sort"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
)

type matchRepo struct{ s *Store }

func (r matchRepo) CreateTie(_ context.Context, tie *models.MatchTie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tournaments[tie.TournamentID]; !ok {
		return repositories.ErrMatchInvalidReference
	}
	for _, id := range []*int{tie.Club1ID, tie.Club2ID} {
		if id != nil {
			if _, ok := r.s.clubs[*id]; !ok {
				return repositories.ErrMatchInvalidReference
			}
		}
	}
	tie.ID = r.s.next("match_ties")
	tie.CreatedAt = r.s.now()
	tie.UpdatedAt = tie.CreatedAt
	r.s.ties[tie.ID] = *tie
	return nil
}

func (r matchRepo) GetTie(_ context.Context, id int) (*models.MatchTie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tie, ok := r.s.ties[id]
	if !ok {
		return nil, repositories.ErrTieNotFound
	}
	return &tie, nil
}

func (r matchRepo) ListTies(_ context.Context, tournamentID int) ([]models.MatchTie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ties := make([]models.MatchTie, 0)
	for _, t := range r.s.ties {
		if t.TournamentID == tournamentID {
			ties = append(ties, t)
		}
	}
	sort.Slice(ties, func(i, j int) bool { return ties[i].ID < ties[j].ID })
	return ties, nil
}

func (r matchRepo) CreateMatch(_ context.Context, match *models.IndividualMatch, doubles []models.MatchDoublesPlayer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.ties[match.TieID]; !ok {
		return repositories.ErrMatchInvalidReference
	}
	refs := []*int{match.Player1ID, match.Player2ID, match.WinnerID}
	for _, d := range doubles {
		id := d.PlayerID
		refs = append(refs, &id)
	}
	for _, id := range refs {
		if id != nil {
			if _, ok := r.s.players[*id]; !ok {
				return repositories.ErrMatchInvalidReference
			}
		}
	}
	if match.UmpireID != nil {
		if _, ok := r.s.officials[models.OfficialUmpire][*match.UmpireID]; !ok {
			return repositories.ErrMatchInvalidReference
		}
	}

	match.ID = r.s.next("individual_matches")
	match.CreatedAt = r.s.now()
	r.s.matches[match.ID] = *match
	sides := make([]models.MatchDoublesPlayer, len(doubles))
	for i, d := range doubles {
		d.ID = r.s.next("match_doubles_players")
		d.MatchID = match.ID
		doubles[i] = d
		sides[i] = d
	}
	if len(sides) > 0 {
		r.s.doubles[match.ID] = sides
	}
	return nil
}

func (r matchRepo) record(m models.IndividualMatch) models.MatchRecord {
	return models.MatchRecord{
		IndividualMatch: m,
		TournamentID:    r.s.ties[m.TieID].TournamentID,
		Doubles:         append([]models.MatchDoublesPlayer(nil), r.s.doubles[m.ID]...),
	}
}

// selectMatches returns matching records newest first.
func (r matchRepo) selectMatches(keep func(models.MatchRecord) bool, limit int) []models.MatchRecord {
	records := make([]models.MatchRecord, 0)
	for _, m := range r.s.matches {
		rec := r.record(m)
		if keep(rec) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

func byID(records []models.MatchRecord) []models.MatchRecord {
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

func (r matchRepo) GetMatch(_ context.Context, id int) (*models.MatchRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	rec := r.record(m)
	return &rec, nil
}

func (r matchRepo) ListByTie(_ context.Context, tieID int) ([]models.MatchRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return byID(r.selectMatches(func(m models.MatchRecord) bool { return m.TieID == tieID }, 0)), nil
}

func (r matchRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.MatchRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return byID(r.selectMatches(func(m models.MatchRecord) bool { return m.TournamentID == tournamentID }, 0)), nil
}

func (r matchRepo) ListByCategory(_ context.Context, category string, limit int) ([]models.MatchRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.selectMatches(func(m models.MatchRecord) bool { return m.Category == category }, limit), nil
}

func (r matchRepo) ListRecent(_ context.Context, limit int) ([]models.MatchRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.selectMatches(func(m models.MatchRecord) bool { return m.WinnerID != nil }, limit), nil
}

func (r matchRepo) ListByPlayer(_ context.Context, playerID int, limit int) ([]models.MatchRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.selectMatches(func(m models.MatchRecord) bool {
		if (m.Player1ID != nil && *m.Player1ID == playerID) || (m.Player2ID != nil && *m.Player2ID == playerID) {
			return true
		}
		for _, d := range m.Doubles {
			if d.PlayerID == playerID {
				return true
			}
		}
		return false
	}, limit), nil
}

func (r matchRepo) ListByUmpire(_ context.Context, umpireID int) ([]models.MatchRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return byID(r.selectMatches(func(m models.MatchRecord) bool {
		return m.UmpireID != nil && *m.UmpireID == umpireID
	}, 0)), nil
}
