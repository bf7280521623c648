package services

import (
	"context"
	"testing"
	"time"

	"github.com/gnbf/badminton-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNormalizeGender(t *testing.T) {
	for _, in := range []string{"m", "M", " male ", "Men"} {
		g, err := NormalizeGender(in)
		require.NoError(t, err, in)
		assert.Equal(t, models.GenderMale, g)
	}
	for _, in := range []string{"f", "Female", "women"} {
		g, err := NormalizeGender(in)
		require.NoError(t, err, in)
		assert.Equal(t, models.GenderFemale, g)
	}
	_, err := NormalizeGender("x")
	assert.Contains(t, fieldErrors(t, err), "gender")
}

func TestPlayerCreateThenGet(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		env := newTestEnv()
		ctx := context.Background()
		in := CreatePlayerInput{
			FirstName: rapid.StringMatching(`[A-Z][a-z]{1,12}`).Draw(rt, "first"),
			LastName:  rapid.StringMatching(`[A-Z][a-z]{1,12}`).Draw(rt, "last"),
			Gender:    rapid.SampledFrom([]string{"M", "F", "male", "female"}).Draw(rt, "gender"),
		}
		if rapid.Bool().Draw(rt, "with_registration") {
			in.RegistrationNumber = strPtr(rapid.StringMatching(`GEO-[0-9]{4}`).Draw(rt, "registration"))
		}
		if rapid.Bool().Draw(rt, "with_speed") {
			in.MetricSpeed = intPtr(rapid.IntRange(0, 100).Draw(rt, "speed"))
		}

		created, err := env.players.Create(ctx, in)
		if err != nil {
			rt.Fatalf("create: %v", err)
		}
		got, err := env.players.GetByID(ctx, created.ID)
		if err != nil {
			rt.Fatalf("get: %v", err)
		}
		assert.Equal(rt, created.Slug, got.Slug)
		assert.Equal(rt, in.FirstName, got.FirstName)
		assert.Equal(rt, in.LastName, got.LastName)
		assert.Equal(rt, in.RegistrationNumber, got.RegistrationNumber)
		assert.Equal(rt, Slugify(in.FirstName+" "+in.LastName), got.Slug)
		if in.MetricSpeed == nil {
			assert.Equal(rt, models.DefaultMetricSpeed, got.MetricSpeed)
		} else {
			assert.Equal(rt, *in.MetricSpeed, got.MetricSpeed)
		}
	})
}

func TestPlayerCreateGeneratesDistinctSlugs(t *testing.T) {
	env := newTestEnv()
	a := env.player(t, "Ana", "Beridze", "F")
	b := env.player(t, "Ana", "Beridze", "F")
	assert.Equal(t, "ana-beridze", a.Slug)
	assert.Equal(t, "ana-beridze-2", b.Slug)

	georgian := env.player(t, "ანა", "ბერიძე", "F")
	assert.Regexp(t, `^player-[0-9a-f]{8}$`, georgian.Slug)
}

func TestPlayerCreateConflicts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.players.Create(ctx, CreatePlayerInput{FirstName: "Giorgi", LastName: "K", Gender: "M", RegistrationNumber: strPtr("GEO-1")})
	require.NoError(t, err)

	_, err = env.players.Create(ctx, CreatePlayerInput{FirstName: "Other", LastName: "P", Gender: "M", RegistrationNumber: strPtr("GEO-1")})
	assert.ErrorIs(t, err, ErrPlayerRegistrationConflict)

	_, err = env.players.Create(ctx, CreatePlayerInput{FirstName: "Other", LastName: "P", Gender: "M", Slug: "giorgi-k"})
	assert.ErrorIs(t, err, ErrPlayerSlugConflict)

	_, err = env.players.Create(ctx, CreatePlayerInput{FirstName: "Other", LastName: "P", Gender: "M", ClubID: intPtr(99)})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestPlayerUpdate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	p := env.player(t, "Luka", "Maisuradze", "M")

	t.Run("partial update keeps other fields", func(t *testing.T) {
		updated, err := env.players.Update(ctx, p.ID, UpdatePlayerInput{MetricPower: intPtr(90), NationalityCode: strPtr("geo")})
		require.NoError(t, err)
		assert.Equal(t, 90, updated.MetricPower)
		assert.Equal(t, "GEO", *updated.NationalityCode)
		assert.Equal(t, "Luka", updated.FirstName)
		assert.Equal(t, models.DefaultMetricSpeed, updated.MetricSpeed)
	})

	t.Run("repeating an update is idempotent", func(t *testing.T) {
		in := UpdatePlayerInput{LastName: strPtr("Maisuradze-Jr"), Gender: strPtr("male")}
		first, err := env.players.Update(ctx, p.ID, in)
		require.NoError(t, err)
		second, err := env.players.Update(ctx, p.ID, in)
		require.NoError(t, err)
		assert.Equal(t, first.LastName, second.LastName)
		assert.Equal(t, first.Gender, second.Gender)
		assert.Equal(t, first.Slug, second.Slug)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.players.Update(ctx, 999, UpdatePlayerInput{FirstName: strPtr("x")})
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})

	t.Run("bad gender", func(t *testing.T) {
		_, err := env.players.Update(ctx, p.ID, UpdatePlayerInput{Gender: strPtr("q")})
		assert.Contains(t, fieldErrors(t, err), "gender")
	})
}

func TestPlayerDelete(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	p := env.player(t, "Mariam", "Lomidze", "F")

	require.NoError(t, env.players.Delete(ctx, p.ID))

	_, err := env.players.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = env.players.GetProfile(ctx, p.Slug)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.ErrorIs(t, env.players.Delete(ctx, p.ID), ErrPlayerNotFound)

	players, err := env.players.List(ctx, "", nil)
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestPlayerList(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	club, err := env.clubs.Create(ctx, CreateClubInput{Name: "Olimpi"})
	require.NoError(t, err)

	env.player(t, "Nino", "A", "F")
	env.player(t, "Dato", "B", "M")
	_, err = env.players.Create(ctx, CreatePlayerInput{FirstName: "Tako", LastName: "C", Gender: "F", ClubID: &club.ID})
	require.NoError(t, err)

	women, err := env.players.ListByGender(ctx, "women")
	require.NoError(t, err)
	assert.Len(t, women, 2)

	inClub, err := env.players.List(ctx, "F", &club.ID)
	require.NoError(t, err)
	require.Len(t, inClub, 1)
	assert.Equal(t, "Tako", inClub[0].FirstName)

	_, err = env.players.ListByGender(ctx, " ")
	assert.Contains(t, fieldErrors(t, err), "gender")
}

func TestPlayerProfile(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	club, err := env.clubs.Create(ctx, CreateClubInput{Name: "Dinamo"})
	require.NoError(t, err)
	p, err := env.players.Create(ctx, CreatePlayerInput{FirstName: "Saba", LastName: "G", Gender: "M", ClubID: &club.ID})
	require.NoError(t, err)

	profile, err := env.players.GetProfile(ctx, "SABA-G")
	require.NoError(t, err)
	assert.Equal(t, p.ID, profile.ID)
	require.NotNil(t, profile.ClubName)
	assert.Equal(t, "Dinamo", *profile.ClubName)
	assert.NotNil(t, profile.Rankings)
	assert.Empty(t, profile.Rankings)
}

func TestPlayerStatsAndHistory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.player(t, "Irakli", "A", "M")
	b := env.player(t, "Beka", "B", "M")
	tour := env.tournament(t, "Kutaisi Cup")
	tie := env.tie(t, tour.ID)

	env.singles(t, tie.ID, "MS", a.ID, b.ID, a.ID, "21-15", "18-21", "21-10")
	env.singles(t, tie.ID, "MS", a.ID, b.ID, b.ID, "10-21", "12-21")

	stats, err := env.players.Stats(ctx, a.Slug)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.MatchesPlayed)
	assert.Equal(t, 1, stats.MatchesWon)
	assert.Equal(t, 1, stats.MatchesLost)
	assert.Equal(t, 2, stats.SetsWon)
	assert.Equal(t, 3, stats.SetsLost)
	assert.Equal(t, 1, stats.TournamentsPlayed)
	assert.InDelta(t, 50.0, stats.WinRate, 0.001)
	assert.Equal(t, models.CategoryRecord{Played: 2, Won: 1, Lost: 1}, stats.ByCategory["MS"])

	history, err := env.players.MatchHistory(ctx, a.Slug)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.NotNil(t, history[0].Winner)

	_, err = env.players.Stats(ctx, "nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestComputeStats(t *testing.T) {
	one, two, three := 1, 2, 3
	won := "21-19"
	records := []models.MatchRecord{
		{IndividualMatch: models.IndividualMatch{ID: 1, MatchType: models.MatchSingles, Category: "MS", Player1ID: &one, Player2ID: &two, WinnerID: &one, Set1Score: &won}, TournamentID: 1},
		{IndividualMatch: models.IndividualMatch{ID: 2, MatchType: models.MatchSingles, Category: "MS", Player1ID: &two, Player2ID: &one}, TournamentID: 2},
		{IndividualMatch: models.IndividualMatch{ID: 3, MatchType: models.MatchSingles, Category: "MS", Player1ID: &two, Player2ID: &three, WinnerID: &two}, TournamentID: 2},
	}

	stats := computeStats(1, records)
	assert.Equal(t, 2, stats.MatchesPlayed)
	assert.Equal(t, 1, stats.MatchesWon)
	assert.Equal(t, 0, stats.MatchesLost)
	assert.Equal(t, 2, stats.TournamentsPlayed)
	assert.InDelta(t, 100.0, stats.WinRate, 0.001)
	assert.Equal(t, 1, stats.SetsWon)
}

func TestPlayerTournamentHistory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.player(t, "Ana", "A", "F")
	b := env.player(t, "Bela", "B", "F")
	tour := env.tournament(t, "Batumi Open")
	tie := env.tie(t, tour.ID)
	env.singles(t, tie.ID, "WS", a.ID, b.ID, a.ID, "21-3", "21-4")

	_, err := env.rankings.Calculate(ctx, tour.ID)
	require.NoError(t, err)

	history, err := env.players.TournamentHistory(ctx, a.Slug)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, tour.Slug, history[0].TournamentSlug)
	assert.Equal(t, "WS", history[0].Category)
	assert.Equal(t, 1, history[0].MatchesWon)
	assert.Equal(t, models.NewDate(2024, time.May, 10), history[0].StartDate)
}
