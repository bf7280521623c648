package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
)

const (
	clubLeaderboardSize    = 5
	playerLeaderboardSize  = 8
	recentCoachTournaments = 5
	standingPointsPerWin   = 2
)

// ReportService derives read-only summaries from tournaments, their lineups
// and their matches.
type ReportService interface {
	TournamentStats(ctx context.Context, slug string) (*models.TournamentStats, error)
	Standings(ctx context.Context, slug, group string) (*models.Standings, error)
	Teams(ctx context.Context, slug string) ([]models.TournamentTeam, error)
	CoachStats(ctx context.Context, slug string) (*models.CoachStats, error)
}

type reportService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	playerRepo     repositories.PlayerRepository
	clubRepo       repositories.ClubRepository
	coachRepo      repositories.CoachRepository
}

func NewReportService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	clubRepo repositories.ClubRepository,
	coachRepo repositories.CoachRepository,
) ReportService {
	return &reportService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		playerRepo:     playerRepo,
		clubRepo:       clubRepo,
		coachRepo:      coachRepo,
	}
}

func (s *reportService) tournament(ctx context.Context, slug string) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament by slug %q: %w", slug, err)
	}
	return t, nil
}

func (s *reportService) clubs(ctx context.Context) (map[int]models.Club, error) {
	list, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	clubs := make(map[int]models.Club, len(list))
	for _, c := range list {
		clubs[c.ID] = c
	}
	return clubs, nil
}

func (s *reportService) players(ctx context.Context, ids []int) (map[int]models.Player, error) {
	players := make(map[int]models.Player, len(ids))
	if len(ids) == 0 {
		return players, nil
	}
	list, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	for _, p := range list {
		players[p.ID] = p
	}
	return players, nil
}

// winners returns the players credited with a decided match.
func winners(m models.MatchRecord) []int {
	if side := m.WinningSide(); side != 0 {
		return m.Side(side)
	}
	if m.WinnerID != nil {
		return []int{*m.WinnerID}
	}
	return nil
}

func (s *reportService) TournamentStats(ctx context.Context, slug string) (*models.TournamentStats, error) {
	t, err := s.tournament(ctx, slug)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %d: %w", t.ID, err)
	}
	lineups, err := s.tournamentRepo.ListLineups(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lineups of tournament %d: %w", t.ID, err)
	}
	ties, err := s.matchRepo.ListTies(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ties of tournament %d: %w", t.ID, err)
	}

	stats := &models.TournamentStats{
		ClubLeaderboard:   []models.ClubLeader{},
		PlayerLeaderboard: []models.PlayerLeader{},
	}
	entered := make(map[int]struct{})
	clubIDs := make(map[int]struct{})
	for _, l := range lineups {
		entered[l.PlayerID] = struct{}{}
		if l.Player2ID != nil {
			entered[*l.Player2ID] = struct{}{}
		}
		if l.ClubID != nil {
			clubIDs[*l.ClubID] = struct{}{}
		}
	}
	for _, tie := range ties {
		for _, id := range []*int{tie.Club1ID, tie.Club2ID} {
			if id != nil {
				clubIDs[*id] = struct{}{}
			}
		}
	}
	stats.TotalPlayers = len(entered)
	stats.TotalClubs = len(clubIDs)

	wins := make(map[int]int)
	var decided []models.MatchRecord
	for _, m := range matches {
		stats.TotalMatches++
		if m.DurationMinutes != nil {
			stats.TotalDuration += *m.DurationMinutes
		}
		for _, score := range m.SetScores() {
			if a, b, ok := parseScore(score); ok {
				stats.TotalPoints += a + b
			}
		}
		ids := winners(m)
		if len(ids) == 0 {
			continue
		}
		stats.DecidedMatches++
		decided = append(decided, m)
		for _, id := range ids {
			wins[id]++
		}
	}
	if len(wins) == 0 {
		return stats, nil
	}

	ids := make([]int, 0, len(wins))
	for id := range wins {
		ids = append(ids, id)
	}
	players, err := s.players(ctx, ids)
	if err != nil {
		return nil, err
	}
	clubs, err := s.clubs(ctx)
	if err != nil {
		return nil, err
	}

	for id, won := range wins {
		p, ok := players[id]
		if !ok {
			continue
		}
		leader := models.PlayerLeader{Player: p.Ref(), MatchesWon: won}
		if p.ClubID != nil {
			if c, ok := clubs[*p.ClubID]; ok {
				name := c.Name
				leader.ClubName, leader.ClubLogo = &name, c.LogoURL
			}
		}
		stats.PlayerLeaderboard = append(stats.PlayerLeaderboard, leader)
	}
	sort.Slice(stats.PlayerLeaderboard, func(i, j int) bool {
		a, b := stats.PlayerLeaderboard[i], stats.PlayerLeaderboard[j]
		if a.MatchesWon != b.MatchesWon {
			return a.MatchesWon > b.MatchesWon
		}
		return a.Player.ID < b.Player.ID
	})
	if len(stats.PlayerLeaderboard) > playerLeaderboardSize {
		stats.PlayerLeaderboard = stats.PlayerLeaderboard[:playerLeaderboardSize]
	}
	if len(stats.PlayerLeaderboard) > 0 {
		mvp := stats.PlayerLeaderboard[0]
		stats.MVP = &mvp
	}

	// A doubles pair from one club earns that club a single win.
	clubWins := make(map[int]int)
	for _, m := range decided {
		credited := make(map[int]bool)
		for _, id := range winners(m) {
			p, ok := players[id]
			if !ok || p.ClubID == nil || credited[*p.ClubID] {
				continue
			}
			credited[*p.ClubID] = true
			clubWins[*p.ClubID]++
		}
	}
	for id, won := range clubWins {
		c, ok := clubs[id]
		if !ok {
			continue
		}
		stats.ClubLeaderboard = append(stats.ClubLeaderboard, models.ClubLeader{
			ClubID: c.ID, ClubName: c.Name, ClubSlug: c.Slug, ClubLogo: c.LogoURL, MatchesWon: won,
		})
	}
	sort.Slice(stats.ClubLeaderboard, func(i, j int) bool {
		a, b := stats.ClubLeaderboard[i], stats.ClubLeaderboard[j]
		if a.MatchesWon != b.MatchesWon {
			return a.MatchesWon > b.MatchesWon
		}
		return a.ClubID < b.ClubID
	})
	if len(stats.ClubLeaderboard) > clubLeaderboardSize {
		stats.ClubLeaderboard = stats.ClubLeaderboard[:clubLeaderboardSize]
	}
	return stats, nil
}

// Standings builds a table per tie group. A tie is scored by the individual
// matches each club won and counts once at least one of them is decided. A
// win is worth standingPointsPerWin; drawn ties give no points.
func (s *reportService) Standings(ctx context.Context, slug, group string) (*models.Standings, error) {
	t, err := s.tournament(ctx, slug)
	if err != nil {
		return nil, err
	}
	ties, err := s.matchRepo.ListTies(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ties of tournament %d: %w", t.ID, err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %d: %w", t.ID, err)
	}
	clubs, err := s.clubs(ctx)
	if err != nil {
		return nil, err
	}

	byTie := make(map[int][]models.MatchRecord)
	for _, m := range matches {
		byTie[m.TieID] = append(byTie[m.TieID], m)
	}

	tables := make(map[string]map[int]*models.ClubStanding)
	row := func(groupName string, clubID int) *models.ClubStanding {
		if tables[groupName] == nil {
			tables[groupName] = make(map[int]*models.ClubStanding)
		}
		st, ok := tables[groupName][clubID]
		if !ok {
			st = &models.ClubStanding{ClubID: clubID, HeadToHead: map[string]string{}}
			if c, ok := clubs[clubID]; ok {
				st.ClubName, st.ClubLogo = c.Name, c.LogoURL
			}
			tables[groupName][clubID] = st
		}
		return st
	}

	for _, tie := range ties {
		if tie.GroupName == nil || tie.Club1ID == nil || tie.Club2ID == nil {
			continue
		}
		name := *tie.GroupName
		if group != "" && !strings.EqualFold(name, strings.TrimSpace(group)) {
			continue
		}
		home, away := row(name, *tie.Club1ID), row(name, *tie.Club2ID)

		var score [3]int
		for _, m := range byTie[tie.ID] {
			score[m.WinningSide()]++
		}
		if score[1]+score[2] == 0 {
			continue
		}
		home.MatchesPlayed++
		away.MatchesPlayed++
		switch {
		case score[1] > score[2]:
			home.MatchesWon++
			away.MatchesLost++
		case score[2] > score[1]:
			away.MatchesWon++
			home.MatchesLost++
		}
		home.HeadToHead[strconv.Itoa(away.ClubID)] = fmt.Sprintf("%d-%d", score[1], score[2])
		away.HeadToHead[strconv.Itoa(home.ClubID)] = fmt.Sprintf("%d-%d", score[2], score[1])
	}

	standings := &models.Standings{Groups: make(map[string][]models.ClubStanding, len(tables))}
	for name, table := range tables {
		rows := make([]models.ClubStanding, 0, len(table))
		for _, st := range table {
			st.Points = st.MatchesWon * standingPointsPerWin
			rows = append(rows, *st)
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Points != rows[j].Points {
				return rows[i].Points > rows[j].Points
			}
			if rows[i].MatchesWon != rows[j].MatchesWon {
				return rows[i].MatchesWon > rows[j].MatchesWon
			}
			return rows[i].ClubName < rows[j].ClubName
		})
		standings.Groups[name] = rows
	}
	return standings, nil
}

// Teams lists the lineups entered by clubs, grouped by club and ordered by
// club name. Lineups without a club are left out.
func (s *reportService) Teams(ctx context.Context, slug string) ([]models.TournamentTeam, error) {
	t, err := s.tournament(ctx, slug)
	if err != nil {
		return nil, err
	}
	lineups, err := s.tournamentRepo.ListLineups(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lineups of tournament %d: %w", t.ID, err)
	}
	teams := make([]models.TournamentTeam, 0)
	if len(lineups) == 0 {
		return teams, nil
	}

	var ids []int
	for _, l := range lineups {
		ids = append(ids, l.PlayerID)
		if l.Player2ID != nil {
			ids = append(ids, *l.Player2ID)
		}
	}
	players, err := s.players(ctx, ids)
	if err != nil {
		return nil, err
	}
	clubs, err := s.clubs(ctx)
	if err != nil {
		return nil, err
	}

	byClub := make(map[int]*models.TournamentTeam)
	for _, l := range lineups {
		if l.ClubID == nil {
			continue
		}
		team, ok := byClub[*l.ClubID]
		if !ok {
			c, found := clubs[*l.ClubID]
			if !found {
				continue
			}
			team = &models.TournamentTeam{ClubID: c.ID, ClubName: c.Name, ClubLogo: c.LogoURL, Roster: []models.RosterEntry{}}
			if c.HeadCoachID != nil {
				coach, err := s.coachRepo.GetByID(ctx, *c.HeadCoachID)
				if err != nil && !errors.Is(err, repositories.ErrCoachNotFound) {
					return nil, fmt.Errorf("failed to get head coach of club %d: %w", c.ID, err)
				}
				if coach != nil {
					name := coach.FullName()
					team.CoachName = &name
				}
			}
			byClub[*l.ClubID] = team
		}
		entry := models.RosterEntry{Category: l.Category, Player1Name: players[l.PlayerID].FullName()}
		if l.Player2ID != nil {
			name := players[*l.Player2ID].FullName()
			entry.Player2Name = &name
		}
		team.Roster = append(team.Roster, entry)
	}

	for _, team := range byClub {
		teams = append(teams, *team)
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].ClubName != teams[j].ClubName {
			return teams[i].ClubName < teams[j].ClubName
		}
		return teams[i].ClubID < teams[j].ClubID
	})
	return teams, nil
}

// CoachStats counts the tournaments a coach took part in through the clubs
// they head or belong to.
func (s *reportService) CoachStats(ctx context.Context, slug string) (*models.CoachStats, error) {
	coach, err := s.coachRepo.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, repositories.ErrCoachNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, fmt.Errorf("failed to get coach by slug %q: %w", slug, err)
	}
	clubs, err := s.clubs(ctx)
	if err != nil {
		return nil, err
	}
	var clubIDs []int
	for id, c := range clubs {
		if c.HeadCoachID != nil && *c.HeadCoachID == coach.ID {
			clubIDs = append(clubIDs, id)
		}
	}
	if coach.ClubID != nil {
		if _, ok := clubs[*coach.ClubID]; ok {
			clubIDs = append(clubIDs, *coach.ClubID)
		}
	}

	tournaments, err := s.tournamentRepo.ListByClubs(ctx, clubIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments of coach %d: %w", coach.ID, err)
	}
	stats := &models.CoachStats{TournamentCount: len(tournaments), RecentTournaments: []models.TournamentRef{}}
	for i, t := range tournaments {
		if i == recentCoachTournaments {
			break
		}
		stats.RecentTournaments = append(stats.RecentTournaments, models.TournamentRef{
			Name: t.Name, Slug: t.Slug, StartDate: t.StartDate,
		})
	}
	return stats, nil
}
