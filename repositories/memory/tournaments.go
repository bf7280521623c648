package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
)

type tournamentRepo struct{ s *Store }

func (r tournamentRepo) check(t *models.Tournament) error {
	for id, other := range r.s.tournaments {
		if id != t.ID && alive(other.DeletedAt) && other.Slug == t.Slug {
			return repositories.ErrTournamentSlugConflict
		}
	}
	if t.OrganizerOrganizationID != nil {
		return repositories.ErrTournamentInvalidReference
	}
	return nil
}

func (r tournamentRepo) checkEntry(entry models.TournamentEntry, skip map[int]bool) error {
	if entry.PlayerID == nil {
		return nil
	}
	if _, ok := r.s.players[*entry.PlayerID]; !ok {
		return repositories.ErrTournamentInvalidReference
	}
	for id, e := range r.s.entries {
		if skip[id] || e.TournamentID != entry.TournamentID || e.PlayerID == nil || *e.PlayerID != *entry.PlayerID {
			continue
		}
		if eventKey(e.EventID) == eventKey(entry.EventID) {
			return repositories.ErrEntryConflict
		}
	}
	return nil
}

func eventKey(id *int) int {
	if id == nil {
		return 0
	}
	return *id
}

// writeParts validates and then replaces the nested collections. Nothing is
// written when validation fails.
func (r tournamentRepo) writeParts(tournamentID int, parts repositories.TournamentParts) error {
	if parts.Entries != nil {
		replaced := make(map[int]bool)
		for id, e := range r.s.entries {
			if e.TournamentID == tournamentID {
				replaced[id] = true
			}
		}
		seen := make(map[[2]int]bool)
		for _, e := range *parts.Entries {
			e.TournamentID = tournamentID
			if err := r.checkEntry(e, replaced); err != nil {
				return err
			}
			if e.PlayerID != nil {
				k := [2]int{eventKey(e.EventID), *e.PlayerID}
				if seen[k] {
					return repositories.ErrEntryConflict
				}
				seen[k] = true
			}
		}
	}

	if parts.Venue != nil {
		parts.Venue.TournamentID = tournamentID
		r.s.venues[tournamentID] = *parts.Venue
	}
	if parts.Events != nil {
		for id, e := range r.s.events {
			if e.TournamentID == tournamentID {
				delete(r.s.events, id)
			}
		}
		events := *parts.Events
		for i := range events {
			events[i].ID = r.s.next("tournament_events")
			events[i].TournamentID = tournamentID
			r.s.events[events[i].ID] = events[i]
		}
	}
	if parts.Courts != nil {
		for id, c := range r.s.courts {
			if c.TournamentID == tournamentID {
				delete(r.s.courts, id)
			}
		}
		courts := *parts.Courts
		for i := range courts {
			courts[i].ID = r.s.next("tournament_courts")
			courts[i].TournamentID = tournamentID
			r.s.courts[courts[i].ID] = courts[i]
		}
	}
	if parts.TimeBlocks != nil {
		for id, b := range r.s.blocks {
			if b.TournamentID == tournamentID {
				delete(r.s.blocks, id)
			}
		}
		blocks := *parts.TimeBlocks
		for i := range blocks {
			blocks[i].ID = r.s.next("tournament_time_blocks")
			blocks[i].TournamentID = tournamentID
			r.s.blocks[blocks[i].ID] = blocks[i]
		}
	}
	if parts.Entries != nil {
		for id, e := range r.s.entries {
			if e.TournamentID == tournamentID {
				delete(r.s.entries, id)
			}
		}
		entries := *parts.Entries
		for i := range entries {
			entries[i].ID = r.s.next("tournament_entries")
			entries[i].TournamentID = tournamentID
			entries[i].CreatedAt = r.s.now()
			r.s.entries[entries[i].ID] = entries[i]
		}
	}
	return nil
}

func (r tournamentRepo) Create(_ context.Context, t *models.Tournament, parts repositories.TournamentParts) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = 0
	if err := r.check(t); err != nil {
		return err
	}
	t.ID = r.s.next("tournaments")
	if err := r.writeParts(t.ID, parts); err != nil {
		t.ID = 0
		return err
	}
	t.CreatedAt = r.s.now()
	t.UpdatedAt = t.CreatedAt
	t.ComputeReadiness()
	r.s.tournaments[t.ID] = *t
	return nil
}

func (r tournamentRepo) Update(_ context.Context, t *models.Tournament, parts repositories.TournamentParts) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tournaments[t.ID]
	if !ok || !alive(stored.DeletedAt) {
		return repositories.ErrTournamentNotFound
	}
	if err := r.check(t); err != nil {
		return err
	}
	if err := r.writeParts(t.ID, parts); err != nil {
		return err
	}
	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = r.s.now()
	t.ComputeReadiness()
	r.s.tournaments[t.ID] = *t
	return nil
}

func (r tournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tournaments[id]
	if !ok || !alive(t.DeletedAt) {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r tournamentRepo) GetBySlug(_ context.Context, slug string) (*models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tournaments {
		if alive(t.DeletedAt) && t.Slug == slug {
			return &t, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func sortByStartDesc(ts []models.Tournament) {
	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].StartDate.Equal(ts[j].StartDate.Time) {
			return ts[i].StartDate.After(ts[j].StartDate.Time)
		}
		return ts[i].ID > ts[j].ID
	})
}

func (r tournamentRepo) List(_ context.Context, status models.TournamentStatus) ([]models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tournaments := make([]models.Tournament, 0)
	for _, t := range r.s.tournaments {
		if alive(t.DeletedAt) && (status == "" || t.Status == status) {
			tournaments = append(tournaments, t)
		}
	}
	sortByStartDesc(tournaments)
	return tournaments, nil
}

func (r tournamentRepo) Search(_ context.Context, query string, limit int) ([]models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.ToLower(query)
	contains := func(s *string) bool { return s != nil && strings.Contains(strings.ToLower(*s), q) }

	tournaments := make([]models.Tournament, 0)
	for _, t := range r.s.tournaments {
		if !alive(t.DeletedAt) {
			continue
		}
		v := r.s.venues[t.ID]
		if strings.Contains(strings.ToLower(t.Name), q) || contains(v.VenueCity) || contains(v.VenueName) {
			tournaments = append(tournaments, t)
		}
	}
	sortByStartDesc(tournaments)
	if len(tournaments) > limit {
		tournaments = tournaments[:limit]
	}
	return tournaments, nil
}

func (r tournamentRepo) UpdateLogo(_ context.Context, id int, logoURL string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok || !alive(t.DeletedAt) {
		return repositories.ErrTournamentNotFound
	}
	t.LogoURL = &logoURL
	r.s.tournaments[id] = t
	return nil
}

func (r tournamentRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok || !alive(t.DeletedAt) {
		return repositories.ErrTournamentNotFound
	}
	t.DeletedAt = r.s.deletedAt()
	r.s.tournaments[id] = t
	return nil
}

func (r tournamentRepo) GetVenue(_ context.Context, tournamentID int) (*models.TournamentVenue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.venues[tournamentID]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r tournamentRepo) ListEvents(_ context.Context, tournamentID int) ([]models.TournamentEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	events := make([]models.TournamentEvent, 0)
	for _, e := range r.s.events {
		if e.TournamentID == tournamentID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (r tournamentRepo) ListCourts(_ context.Context, tournamentID int) ([]models.TournamentCourt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	courts := make([]models.TournamentCourt, 0)
	for _, c := range r.s.courts {
		if c.TournamentID == tournamentID {
			courts = append(courts, c)
		}
	}
	sort.Slice(courts, func(i, j int) bool { return courts[i].ID < courts[j].ID })
	return courts, nil
}

func (r tournamentRepo) ListTimeBlocks(_ context.Context, tournamentID int) ([]models.TournamentTimeBlock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	blocks := make([]models.TournamentTimeBlock, 0)
	for _, b := range r.s.blocks {
		if b.TournamentID == tournamentID {
			blocks = append(blocks, b)
		}
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].ID < blocks[j].ID })
	return blocks, nil
}

func (r tournamentRepo) ListEntries(_ context.Context, tournamentID int) ([]models.TournamentEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	entries := make([]models.TournamentEntry, 0)
	for _, e := range r.s.entries {
		if e.TournamentID == tournamentID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (r tournamentRepo) CreateEntry(_ context.Context, entry *models.TournamentEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tournaments[entry.TournamentID]; !ok {
		return repositories.ErrTournamentInvalidReference
	}
	if entry.EventID != nil {
		if e, ok := r.s.events[*entry.EventID]; !ok || e.TournamentID != entry.TournamentID {
			return repositories.ErrTournamentInvalidReference
		}
	}
	if err := r.checkEntry(*entry, nil); err != nil {
		return err
	}
	entry.ID = r.s.next("tournament_entries")
	entry.CreatedAt = r.s.now()
	r.s.entries[entry.ID] = *entry
	return nil
}

func (r tournamentRepo) DeleteEntry(_ context.Context, tournamentID, entryID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[entryID]
	if !ok || e.TournamentID != tournamentID {
		return repositories.ErrEntryNotFound
	}
	delete(r.s.entries, entryID)
	return nil
}

func (r tournamentRepo) GetWinners(_ context.Context, tournamentID int) (*models.TournamentWinner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.winners[tournamentID]
	if !ok {
		return nil, repositories.ErrWinnersNotFound
	}
	return &w, nil
}

func (r tournamentRepo) UpsertWinners(_ context.Context, winners *models.TournamentWinner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tournaments[winners.TournamentID]; !ok {
		return repositories.ErrTournamentInvalidReference
	}
	for _, id := range []*int{winners.FirstPlaceClubID, winners.SecondPlaceClubID, winners.ThirdPlaceClubID} {
		if id != nil {
			if _, ok := r.s.clubs[*id]; !ok {
				return repositories.ErrTournamentInvalidReference
			}
		}
	}
	for _, id := range []*int{winners.FirstPlacePlayerID, winners.SecondPlacePlayerID, winners.ThirdPlacePlayerID} {
		if id != nil {
			if _, ok := r.s.players[*id]; !ok {
				return repositories.ErrTournamentInvalidReference
			}
		}
	}
	if existing, ok := r.s.winners[winners.TournamentID]; ok {
		winners.ID = existing.ID
	} else {
		winners.ID = r.s.next("tournament_winners")
	}
	winners.UpdatedAt = r.s.now()
	r.s.winners[winners.TournamentID] = *winners
	return nil
}

func (r tournamentRepo) ListWinners(_ context.Context) ([]models.TournamentWinnerSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ts []models.Tournament
	for _, t := range r.s.tournaments {
		if _, ok := r.s.winners[t.ID]; ok && alive(t.DeletedAt) {
			ts = append(ts, t)
		}
	}
	sortByStartDesc(ts)
	summaries := make([]models.TournamentWinnerSummary, 0, len(ts))
	for _, t := range ts {
		summaries = append(summaries, models.TournamentWinnerSummary{
			TournamentWinner: r.s.winners[t.ID],
			TournamentName:   t.Name,
			TournamentSlug:   t.Slug,
		})
	}
	return summaries, nil
}

func (r tournamentRepo) AddLineup(_ context.Context, lineup *models.TournamentLineup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tournaments[lineup.TournamentID]; !ok {
		return repositories.ErrTournamentInvalidReference
	}
	if _, ok := r.s.players[lineup.PlayerID]; !ok {
		return repositories.ErrTournamentInvalidReference
	}
	if lineup.Player2ID != nil {
		if _, ok := r.s.players[*lineup.Player2ID]; !ok {
			return repositories.ErrTournamentInvalidReference
		}
	}
	if lineup.ClubID != nil {
		if _, ok := r.s.clubs[*lineup.ClubID]; !ok {
			return repositories.ErrTournamentInvalidReference
		}
	}
	for _, l := range r.s.lineups {
		if l.TournamentID == lineup.TournamentID && l.PlayerID == lineup.PlayerID && l.Category == lineup.Category {
			return repositories.ErrLineupConflict
		}
	}
	lineup.ID = r.s.next("tournament_lineups")
	r.s.lineups[lineup.ID] = *lineup
	return nil
}

func (r tournamentRepo) ListByClubs(_ context.Context, clubIDs []int) ([]models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	clubs := make(map[int]bool, len(clubIDs))
	for _, id := range clubIDs {
		clubs[id] = true
	}
	entered := make(map[int]bool)
	for _, l := range r.s.lineups {
		if l.ClubID != nil && clubs[*l.ClubID] {
			entered[l.TournamentID] = true
		}
	}
	tournaments := make([]models.Tournament, 0)
	for id := range entered {
		if t, ok := r.s.tournaments[id]; ok && alive(t.DeletedAt) {
			tournaments = append(tournaments, t)
		}
	}
	sortByStartDesc(tournaments)
	return tournaments, nil
}

func (r tournamentRepo) ListLineups(_ context.Context, tournamentID int) ([]models.TournamentLineup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	lineups := make([]models.TournamentLineup, 0)
	for _, l := range r.s.lineups {
		if l.TournamentID == tournamentID {
			lineups = append(lineups, l)
		}
	}
	sort.Slice(lineups, func(i, j int) bool {
		if lineups[i].Category != lineups[j].Category {
			return lineups[i].Category < lineups[j].Category
		}
		return lineups[i].ID < lineups[j].ID
	})
	return lineups, nil
}
