package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories/memory"
	"github.com/gnbf/badminton-registry/validation"
	"github.com/stretchr/testify/require"
)

type published struct {
	room    string
	event   string
	payload interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []published
}

func (n *recordingNotifier) Publish(room, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, published{room, event, payload})
}

func (n *recordingNotifier) all() []published {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]published(nil), n.events...)
}

type testEnv struct {
	store       *memory.Store
	notifier    *recordingNotifier
	clubs       ClubService
	players     PlayerService
	tournaments TournamentService
	matches     MatchService
	rankings    RankingService
	reports     ReportService
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	n := &recordingNotifier{}
	return &testEnv{
		store:       store,
		notifier:    n,
		clubs:       NewClubService(store.Clubs(), store.Coaches(), store.Players()),
		players:     NewPlayerService(store.Players(), store.Clubs(), store.Matches(), store.Rankings()),
		tournaments: NewTournamentService(store.Tournaments(), store.Matches(), store.Players(), n),
		matches:     NewMatchService(store.Matches(), store.Players(), store.Tournaments()),
		rankings:    NewRankingService(store.Rankings(), store.Tournaments(), store.Matches(), store.Players(), n),
		reports:     NewReportService(store.Tournaments(), store.Matches(), store.Players(), store.Clubs(), store.Coaches()),
	}
}

func (e *testEnv) player(t *testing.T, first, last, gender string) *models.Player {
	t.Helper()
	p, err := e.players.Create(context.Background(), CreatePlayerInput{FirstName: first, LastName: last, Gender: gender})
	require.NoError(t, err)
	return p
}

func (e *testEnv) tournament(t *testing.T, name string) *models.TournamentDetail {
	t.Helper()
	d, err := e.tournaments.Create(context.Background(), CreateTournamentInput{
		Name:      name,
		StartDate: models.NewDate(2024, time.May, 10),
		EndDate:   models.NewDate(2024, time.May, 12),
	})
	require.NoError(t, err)
	return d
}

func (e *testEnv) tie(t *testing.T, tournamentID int) *models.MatchTie {
	t.Helper()
	tie, err := e.matches.CreateTie(context.Background(), CreateTieInput{TournamentID: tournamentID})
	require.NoError(t, err)
	return tie
}

func (e *testEnv) singles(t *testing.T, tieID int, category string, p1, p2, winner int, scores ...string) *models.MatchView {
	t.Helper()
	in := CreateMatchInput{TieID: tieID, Category: category, Player1ID: &p1, Player2ID: &p2, WinnerID: &winner}
	for i, s := range scores {
		s := s
		switch i {
		case 0:
			in.Set1Score = &s
		case 1:
			in.Set2Score = &s
		case 2:
			in.Set3Score = &s
		}
	}
	m, err := e.matches.CreateMatch(context.Background(), in)
	require.NoError(t, err)
	return m
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

// fieldErrors unwraps validation failures for assertions on their keys.
func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	return verrs
}
