package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/gnbf/badminton-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type league struct {
	tournament      *models.TournamentDetail
	coach           *models.Coach
	tbilisi, batumi *models.Club
	kutaisi         *models.Club
	a, b, c, d, e   *models.Player
	groupA, groupB  *models.MatchTie
	pendingTie      *models.MatchTie
}

// seedLeague plays a club league. Group A: Tbilisi beat Batumi 2-1 and has not
// played Kutaisi yet. Group B: Kutaisi beat Batumi 1-0.
func seedLeague(t *testing.T, env *testEnv) *league {
	t.Helper()
	ctx := context.Background()
	l := &league{}

	l.coach = &models.Coach{FirstName: "Nino", LastName: "Beridze", Slug: "nino-beridze"}
	require.NoError(t, env.store.Coaches().Create(ctx, l.coach))

	club := func(name string, coachID *int) *models.Club {
		c, err := env.clubs.Create(ctx, CreateClubInput{Name: name, HeadCoachID: coachID})
		require.NoError(t, err)
		return c
	}
	l.tbilisi = club("Tbilisi Shuttle", &l.coach.ID)
	l.batumi = club("Batumi Smash", nil)
	l.kutaisi = club("Kutaisi Feathers", nil)

	player := func(first string, clubID int) *models.Player {
		p, err := env.players.Create(ctx, CreatePlayerInput{FirstName: first, LastName: "League", Gender: "M", ClubID: &clubID})
		require.NoError(t, err)
		return p
	}
	l.a, l.c = player("Avto", l.tbilisi.ID), player("Cotne", l.tbilisi.ID)
	l.b, l.d = player("Beka", l.batumi.ID), player("Dato", l.batumi.ID)
	l.e = player("Elguja", l.kutaisi.ID)

	l.tournament = env.tournament(t, "League Cup")
	for _, in := range []LineupInput{
		{ClubID: &l.tbilisi.ID, PlayerID: l.a.ID, Category: "MS"},
		{ClubID: &l.tbilisi.ID, PlayerID: l.a.ID, Player2ID: &l.c.ID, Category: "MD"},
		{ClubID: &l.batumi.ID, PlayerID: l.b.ID, Category: "MS"},
		{ClubID: &l.batumi.ID, PlayerID: l.d.ID, Category: "MS"},
		{ClubID: &l.kutaisi.ID, PlayerID: l.e.ID, Category: "MS"},
		{PlayerID: l.e.ID, Category: "WS"},
	} {
		_, err := env.tournaments.AddLineup(ctx, l.tournament.ID, in)
		require.NoError(t, err)
	}

	tie := func(group string, club1, club2 int) *models.MatchTie {
		tie, err := env.matches.CreateTie(ctx, CreateTieInput{TournamentID: l.tournament.ID, GroupName: &group, Club1ID: &club1, Club2ID: &club2})
		require.NoError(t, err)
		return tie
	}
	l.groupA = tie("A", l.tbilisi.ID, l.batumi.ID)
	l.pendingTie = tie("A", l.tbilisi.ID, l.kutaisi.ID)
	l.groupB = tie("B", l.batumi.ID, l.kutaisi.ID)

	_, err := env.matches.CreateMatch(ctx, CreateMatchInput{
		TieID: l.groupA.ID, Category: "MS", Player1ID: &l.a.ID, Player2ID: &l.b.ID, WinnerID: &l.a.ID,
		Set1Score: strPtr("21-15"), Set2Score: strPtr("21-18"), DurationMinutes: intPtr(30),
	})
	require.NoError(t, err)
	env.singles(t, l.groupA.ID, "MS", l.c.ID, l.d.ID, l.d.ID, "21-19", "15-21", "17-21")
	_, err = env.matches.CreateMatch(ctx, CreateMatchInput{
		TieID: l.groupA.ID, Category: "MD", Side1: []int{l.a.ID, l.c.ID}, Side2: []int{l.b.ID, l.d.ID}, WinnerID: &l.c.ID,
		Set1Score: strPtr("21-10"), Set2Score: strPtr("21-12"), DurationMinutes: intPtr(25),
	})
	require.NoError(t, err)
	env.singles(t, l.groupB.ID, "MS", l.b.ID, l.e.ID, l.e.ID, "5-21", "5-21")
	return l
}

func TestTournamentStats(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	l := seedLeague(t, env)

	stats, err := env.reports.TournamentStats(ctx, "LEAGUE-CUP")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalMatches)
	assert.Equal(t, 4, stats.DecidedMatches)
	assert.Equal(t, 55, stats.TotalDuration)
	assert.Equal(t, (21+15)+(21+18)+(21+19)+(15+21)+(17+21)+(21+10)+(21+12)+(5+21)+(5+21), stats.TotalPoints)
	assert.Equal(t, 5, stats.TotalPlayers)
	assert.Equal(t, 3, stats.TotalClubs)

	require.NotNil(t, stats.MVP)
	assert.Equal(t, l.a.ID, stats.MVP.Player.ID, "singles and doubles wins both count")
	assert.Equal(t, 2, stats.MVP.MatchesWon)
	require.NotNil(t, stats.MVP.ClubName)
	assert.Equal(t, "Tbilisi Shuttle", *stats.MVP.ClubName)
	require.Len(t, stats.PlayerLeaderboard, 4)
	assert.Equal(t, l.c.ID, stats.PlayerLeaderboard[1].Player.ID)

	require.Len(t, stats.ClubLeaderboard, 3)
	assert.Equal(t, l.tbilisi.ID, stats.ClubLeaderboard[0].ClubID)
	assert.Equal(t, 2, stats.ClubLeaderboard[0].MatchesWon, "a doubles win counts once per club")
	assert.Equal(t, 1, stats.ClubLeaderboard[1].MatchesWon)

	empty := env.tournament(t, "Quiet Open")
	stats, err = env.reports.TournamentStats(ctx, empty.Slug)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalMatches)
	assert.Nil(t, stats.MVP)
	assert.Empty(t, stats.PlayerLeaderboard)
	assert.NotNil(t, stats.ClubLeaderboard)

	_, err = env.reports.TournamentStats(ctx, "ghost")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestStandings(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	l := seedLeague(t, env)

	standings, err := env.reports.Standings(ctx, l.tournament.Slug, "")
	require.NoError(t, err)
	require.Len(t, standings.Groups, 2)

	groupA := standings.Groups["A"]
	require.Len(t, groupA, 3, "clubs with no decided tie are still listed")
	assert.Equal(t, l.tbilisi.ID, groupA[0].ClubID)
	assert.Equal(t, 1, groupA[0].MatchesPlayed)
	assert.Equal(t, 1, groupA[0].MatchesWon)
	assert.Equal(t, 2, groupA[0].Points)
	assert.Equal(t, map[string]string{strconv.Itoa(l.batumi.ID): "2-1"}, groupA[0].HeadToHead)
	assert.Equal(t, "Batumi Smash", groupA[1].ClubName)
	assert.Equal(t, 1, groupA[1].MatchesLost)
	assert.Equal(t, "1-2", groupA[1].HeadToHead[strconv.Itoa(l.tbilisi.ID)])
	assert.Equal(t, l.kutaisi.ID, groupA[2].ClubID)
	assert.Zero(t, groupA[2].MatchesPlayed)
	assert.Empty(t, groupA[2].HeadToHead)

	groupB := standings.Groups["B"]
	require.Len(t, groupB, 2)
	assert.Equal(t, l.kutaisi.ID, groupB[0].ClubID)
	assert.Equal(t, "1-0", groupB[0].HeadToHead[strconv.Itoa(l.batumi.ID)])

	only, err := env.reports.Standings(ctx, l.tournament.Slug, "b")
	require.NoError(t, err)
	assert.Len(t, only.Groups, 1)
	assert.Contains(t, only.Groups, "B")

	none, err := env.reports.Standings(ctx, l.tournament.Slug, "Z")
	require.NoError(t, err)
	assert.NotNil(t, none.Groups)
	assert.Empty(t, none.Groups)

	_, err = env.reports.Standings(ctx, "ghost", "")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestTeams(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	l := seedLeague(t, env)

	teams, err := env.reports.Teams(ctx, l.tournament.Slug)
	require.NoError(t, err)
	require.Len(t, teams, 3, "lineups without a club are left out")
	assert.Equal(t, []string{"Batumi Smash", "Kutaisi Feathers", "Tbilisi Shuttle"},
		[]string{teams[0].ClubName, teams[1].ClubName, teams[2].ClubName})

	tbilisi := teams[2]
	require.NotNil(t, tbilisi.CoachName)
	assert.Equal(t, "Nino Beridze", *tbilisi.CoachName)
	require.Len(t, tbilisi.Roster, 2)
	assert.Equal(t, "MD", tbilisi.Roster[0].Category)
	assert.Equal(t, "Avto League", tbilisi.Roster[0].Player1Name)
	require.NotNil(t, tbilisi.Roster[0].Player2Name)
	assert.Equal(t, "Cotne League", *tbilisi.Roster[0].Player2Name)
	assert.Equal(t, "MS", tbilisi.Roster[1].Category)
	assert.Nil(t, tbilisi.Roster[1].Player2Name)
	assert.Nil(t, teams[0].CoachName)
	assert.Len(t, teams[0].Roster, 2)

	empty := env.tournament(t, "Empty Open")
	teams, err = env.reports.Teams(ctx, empty.Slug)
	require.NoError(t, err)
	assert.NotNil(t, teams)
	assert.Empty(t, teams)
}

func TestCoachStats(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	l := seedLeague(t, env)

	for i := 0; i < 5; i++ {
		d, err := env.tournaments.Create(ctx, CreateTournamentInput{
			Name:      "Autumn Open " + strconv.Itoa(i),
			StartDate: models.NewDate(2024, time.September, 1+i),
			EndDate:   models.NewDate(2024, time.September, 1+i),
		})
		require.NoError(t, err)
		_, err = env.tournaments.AddLineup(ctx, d.ID, LineupInput{ClubID: &l.tbilisi.ID, PlayerID: l.a.ID, Category: "MS"})
		require.NoError(t, err)
	}
	other := env.tournament(t, "Batumi Only")
	_, err := env.tournaments.AddLineup(ctx, other.ID, LineupInput{ClubID: &l.batumi.ID, PlayerID: l.b.ID, Category: "MS"})
	require.NoError(t, err)

	stats, err := env.reports.CoachStats(ctx, "Nino-Beridze")
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TournamentCount)
	require.Len(t, stats.RecentTournaments, 5)
	assert.Equal(t, "autumn-open-4", stats.RecentTournaments[0].Slug)
	assert.Equal(t, models.NewDate(2024, time.September, 5), stats.RecentTournaments[0].StartDate)
	for _, ref := range stats.RecentTournaments {
		assert.NotEqual(t, l.tournament.Slug, ref.Slug, "older tournaments fall off the recent list")
	}

	idle := &models.Coach{FirstName: "Idle", LastName: "Coach", Slug: "idle-coach"}
	require.NoError(t, env.store.Coaches().Create(ctx, idle))
	stats, err = env.reports.CoachStats(ctx, idle.Slug)
	require.NoError(t, err)
	assert.Zero(t, stats.TournamentCount)
	assert.NotNil(t, stats.RecentTournaments)

	_, err = env.reports.CoachStats(ctx, "ghost")
	assert.ErrorIs(t, err, ErrCoachNotFound)
}
