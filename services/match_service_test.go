package services

import (
	"context"
	"testing"

	"github.com/gnbf/badminton-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMatch(t *testing.T) {
	one, two, three, four := 1, 2, 3, 4
	tests := []struct {
		name    string
		in      CreateMatchInput
		wantKey string
	}{
		{
			name:    "match type contradicts category",
			in:      CreateMatchInput{Category: "MS", MatchType: models.MatchDoubles},
			wantKey: "match_type",
		},
		{
			name:    "singles needs both players",
			in:      CreateMatchInput{Category: "WS", Player1ID: &one},
			wantKey: "player_2_id",
		},
		{
			name:    "singles rejects sides",
			in:      CreateMatchInput{Category: "MS", Player1ID: &one, Player2ID: &two, Side1: []int{1, 3}},
			wantKey: "side_1",
		},
		{
			name:    "doubles needs two per side",
			in:      CreateMatchInput{Category: "MD", Side1: []int{1, 2}, Side2: []int{3}},
			wantKey: "side_2",
		},
		{
			name:    "player on both sides",
			in:      CreateMatchInput{Category: "XD", Side1: []int{1, 2}, Side2: []int{2, 3}},
			wantKey: "players",
		},
		{
			name:    "singles against self",
			in:      CreateMatchInput{Category: "MS", Player1ID: &one, Player2ID: &one},
			wantKey: "players",
		},
		{
			name:    "winner outside the match",
			in:      CreateMatchInput{Category: "MS", Player1ID: &one, Player2ID: &two, WinnerID: &four},
			wantKey: "winner_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := checkMatch(tt.in)
			assert.Contains(t, fieldErrors(t, err), tt.wantKey)
		})
	}

	t.Run("doubles rows", func(t *testing.T) {
		match, doubles, err := checkMatch(CreateMatchInput{Category: "WD", Side1: []int{1, 2}, Side2: []int{3, 4}, WinnerID: &three})
		require.NoError(t, err)
		assert.Equal(t, models.MatchDoubles, match.MatchType)
		assert.Equal(t, 1, *match.Player1ID)
		assert.Equal(t, 3, *match.Player2ID)
		assert.Equal(t, []models.MatchDoublesPlayer{
			{PlayerID: 1, TeamSide: 1}, {PlayerID: 2, TeamSide: 1},
			{PlayerID: 3, TeamSide: 2}, {PlayerID: 4, TeamSide: 2},
		}, doubles)
	})
}

func TestCreateTie(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	d := env.tournament(t, "Tie Cup")
	club, err := env.clubs.Create(ctx, CreateClubInput{Name: "Rustavi"})
	require.NoError(t, err)

	_, err = env.matches.CreateTie(ctx, CreateTieInput{TournamentID: d.ID, Club1ID: &club.ID, Club2ID: &club.ID})
	assert.Contains(t, fieldErrors(t, err), "club_2_id")

	_, err = env.matches.CreateTie(ctx, CreateTieInput{TournamentID: 999})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = env.matches.CreateTie(ctx, CreateTieInput{TournamentID: d.ID, Club1ID: intPtr(999)})
	assert.ErrorIs(t, err, ErrInvalidReference)

	tie, err := env.matches.CreateTie(ctx, CreateTieInput{TournamentID: d.ID, Club1ID: &club.ID, GroupName: strPtr("Group A")})
	require.NoError(t, err)
	assert.NotZero(t, tie.ID)

	view, err := env.matches.GetTie(ctx, tie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Group A", *view.GroupName)
	assert.NotNil(t, view.Matches)
	assert.Empty(t, view.Matches)

	_, err = env.matches.GetTie(ctx, 999)
	assert.ErrorIs(t, err, ErrTieNotFound)
}

func TestCreateMatch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	d := env.tournament(t, "Match Cup")
	tie := env.tie(t, d.ID)
	var ids []int
	for _, name := range []string{"Aa", "Bb", "Cc", "Dd"} {
		ids = append(ids, env.player(t, name, "Player", "M").ID)
	}

	t.Run("doubles view carries both sides", func(t *testing.T) {
		m, err := env.matches.CreateMatch(ctx, CreateMatchInput{
			TieID: tie.ID, Category: "md",
			Side1: []int{ids[0], ids[1]}, Side2: []int{ids[2], ids[3]},
			WinnerID: &ids[1], Set1Score: strPtr("21-17"), Set2Score: strPtr("21-19"),
		})
		require.NoError(t, err)
		assert.Equal(t, "MD", m.Category)
		assert.Equal(t, models.MatchDoubles, m.MatchType)
		assert.Equal(t, d.ID, m.TournamentID)
		require.Len(t, m.Side1, 2)
		require.Len(t, m.Side2, 2)
		assert.Equal(t, ids[1], m.Winner.ID)

		got, err := env.matches.GetMatch(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, m.Side1, got.Side1)
	})

	t.Run("unknown tie", func(t *testing.T) {
		_, err := env.matches.CreateMatch(ctx, CreateMatchInput{TieID: 999, Category: "MS", Player1ID: &ids[0], Player2ID: &ids[1]})
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	t.Run("unknown player", func(t *testing.T) {
		_, err := env.matches.CreateMatch(ctx, CreateMatchInput{TieID: tie.ID, Category: "MS", Player1ID: &ids[0], Player2ID: intPtr(999)})
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	t.Run("unknown umpire", func(t *testing.T) {
		_, err := env.matches.CreateMatch(ctx, CreateMatchInput{TieID: tie.ID, Category: "MS", Player1ID: &ids[0], Player2ID: &ids[1], UmpireID: intPtr(5)})
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	_, err := env.matches.GetMatch(ctx, 999)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestListMatches(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	d := env.tournament(t, "List Cup")
	tie := env.tie(t, d.ID)
	a := env.player(t, "Ana", "A", "F")
	b := env.player(t, "Bea", "B", "F")
	c := env.player(t, "Cia", "C", "M")
	e := env.player(t, "Eto", "E", "M")

	env.singles(t, tie.ID, "WS", a.ID, b.ID, a.ID, "21-11", "21-13")
	_, err := env.matches.CreateMatch(ctx, CreateMatchInput{TieID: tie.ID, Category: "MS", Player1ID: &c.ID, Player2ID: &e.ID})
	require.NoError(t, err)

	ws, err := env.matches.ListByCategory(ctx, "ws")
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, a.ID, ws[0].Player1.ID)

	_, err = env.matches.ListByCategory(ctx, "XS")
	assert.Contains(t, fieldErrors(t, err), "category")

	recent, err := env.matches.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1, "undecided matches are not recent results")
	assert.Equal(t, "WS", recent[0].Category)
}

func TestHeadToHead(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	d := env.tournament(t, "Rivalry Cup")
	tie := env.tie(t, d.ID)
	a := env.player(t, "Tornike", "A", "M")
	b := env.player(t, "Vakho", "B", "M")
	c := env.player(t, "Zura", "C", "M")
	partner := env.player(t, "Partner", "P", "M")

	env.singles(t, tie.ID, "MS", a.ID, b.ID, a.ID, "21-10", "21-10")
	env.singles(t, tie.ID, "MS", b.ID, a.ID, b.ID, "21-19", "21-19")
	env.singles(t, tie.ID, "MS", a.ID, b.ID, a.ID, "21-5", "21-5")
	env.singles(t, tie.ID, "MS", a.ID, c.ID, c.ID, "5-21", "5-21")
	_, err := env.matches.CreateMatch(ctx, CreateMatchInput{
		TieID: tie.ID, Category: "MD", Side1: []int{a.ID, b.ID}, Side2: []int{c.ID, partner.ID}, WinnerID: &a.ID,
	})
	require.NoError(t, err)

	h2h, err := env.matches.HeadToHead(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, h2h.Player1Wins)
	assert.Equal(t, 1, h2h.Player2Wins)
	assert.Len(t, h2h.Matches, 3, "partners are not opponents")
	assert.Equal(t, a.Slug, h2h.Player1.Slug)

	reverse, err := env.matches.HeadToHead(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reverse.Player1Wins)
	assert.Equal(t, 2, reverse.Player2Wins)

	_, err = env.matches.HeadToHead(ctx, a.ID, a.ID)
	assert.Contains(t, fieldErrors(t, err), "player2")

	_, err = env.matches.HeadToHead(ctx, a.ID, 999)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	stats, err := env.matches.PlayerStats(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.MatchesPlayed)
	assert.Equal(t, 3, stats.MatchesWon)
	assert.Equal(t, 2, stats.MatchesLost)
	assert.InDelta(t, 60.0, stats.WinRate, 0.001)

	_, err = env.matches.PlayerStats(ctx, 999)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		in     string
		a, b   int
		wantOK bool
	}{
		{"21-15", 21, 15, true},
		{" 30 - 29 ", 30, 29, true},
		{"[default]", 0, 0, false},
		{"", 0, 0, false},
		{"21:15", 0, 0, false},
		{"x-3", 0, 0, false},
		{"-1-3", 0, 0, false},
	}
	for _, tt := range tests {
		a, b, ok := parseScore(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.a, a, tt.in)
		assert.Equal(t, tt.b, b, tt.in)
	}
}

func TestSetsWon(t *testing.T) {
	m := models.IndividualMatch{Set1Score: strPtr("21-15"), Set2Score: strPtr("15-21"), Set3Score: strPtr("[default]")}
	s1, s2 := setsWon(m)
	assert.Equal(t, 1, s1)
	assert.Equal(t, 1, s2)
}
