// Package memory implements the repository interfaces over process memory.
// It mirrors the uniqueness, foreign-key and soft-delete rules of the Postgres
// schema closely enough for service and handler tests.
package memory

import (
	"sync"
	"time"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
	"gorm.io/gorm"
)

type rankingKey struct {
	playerID int
	category string
}

type historyKey struct {
	rankingKey
	day string
}

type Store struct {
	mu  sync.RWMutex
	seq map[string]int
	now func() time.Time

	users     map[int]models.User
	clubs     map[int]models.Club
	players   map[int]models.Player
	coaches   map[int]models.Coach
	officials map[models.OfficialKind]map[int]models.Official

	tournaments map[int]models.Tournament
	venues      map[int]models.TournamentVenue
	events      map[int]models.TournamentEvent
	courts      map[int]models.TournamentCourt
	blocks      map[int]models.TournamentTimeBlock
	entries     map[int]models.TournamentEntry
	winners     map[int]models.TournamentWinner
	lineups     map[int]models.TournamentLineup

	ties    map[int]models.MatchTie
	matches map[int]models.IndividualMatch
	doubles map[int][]models.MatchDoublesPlayer

	pointConfig []models.RankingPointConfig
	points      map[int]models.TournamentPlayerPoints
	rankings    map[rankingKey]models.PlayerRanking
	history     map[historyKey]models.RankingSnapshot
}

func NewStore() *Store {
	s := &Store{
		seq:         make(map[string]int),
		now:         func() time.Time { return time.Now().UTC() },
		users:       make(map[int]models.User),
		clubs:       make(map[int]models.Club),
		players:     make(map[int]models.Player),
		coaches:     make(map[int]models.Coach),
		officials:   map[models.OfficialKind]map[int]models.Official{models.OfficialUmpire: {}, models.OfficialReferee: {}},
		tournaments: make(map[int]models.Tournament),
		venues:      make(map[int]models.TournamentVenue),
		events:      make(map[int]models.TournamentEvent),
		courts:      make(map[int]models.TournamentCourt),
		blocks:      make(map[int]models.TournamentTimeBlock),
		entries:     make(map[int]models.TournamentEntry),
		winners:     make(map[int]models.TournamentWinner),
		lineups:     make(map[int]models.TournamentLineup),
		ties:        make(map[int]models.MatchTie),
		matches:     make(map[int]models.IndividualMatch),
		doubles:     make(map[int][]models.MatchDoublesPlayer),
		points:      make(map[int]models.TournamentPlayerPoints),
		rankings:    make(map[rankingKey]models.PlayerRanking),
		history:     make(map[historyKey]models.RankingSnapshot),
	}
	for _, c := range []struct {
		typ, key string
		points   int
	}{
		{models.AchievementPlacement, "1st_place", 100},
		{models.AchievementPlacement, "2nd_place", 70},
		{models.AchievementPlacement, "3rd_place", 50},
		{models.AchievementMatchWin, models.MatchSingles, 10},
		{models.AchievementMatchWin, models.MatchDoubles, 8},
		{models.AchievementSetWin, "set", 2},
	} {
		s.pointConfig = append(s.pointConfig, models.RankingPointConfig{
			ID: s.next("ranking_point_config"), AchievementType: c.typ, AchievementKey: c.key, Points: c.points, Active: true,
		})
	}
	return s
}

// SetPointConfig replaces the ranking point table.
func (s *Store) SetPointConfig(config []models.RankingPointConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointConfig = append([]models.RankingPointConfig(nil), config...)
}

func (s *Store) next(table string) int {
	s.seq[table]++
	return s.seq[table]
}

func alive(d gorm.DeletedAt) bool {
	return !d.Valid
}

func (s *Store) deletedAt() gorm.DeletedAt {
	return gorm.DeletedAt{Time: s.now(), Valid: true}
}

func (s *Store) Users() repositories.UserRepository             { return userRepo{s} }
func (s *Store) Clubs() repositories.ClubRepository             { return clubRepo{s} }
func (s *Store) Players() repositories.PlayerRepository         { return playerRepo{s} }
func (s *Store) Coaches() repositories.CoachRepository          { return coachRepo{s} }
func (s *Store) Officials() repositories.OfficialRepository     { return officialRepo{s} }
func (s *Store) Tournaments() repositories.TournamentRepository { return tournamentRepo{s} }
func (s *Store) Matches() repositories.MatchRepository          { return matchRepo{s} }
func (s *Store) Rankings() repositories.RankingRepository       { return rankingRepo{s} }
