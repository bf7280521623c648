package services

import (
	"context"
	"testing"
	"time"

	"github.com/gnbf/badminton-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 10, ClampLimit(0, 10, 50))
	assert.Equal(t, 10, ClampLimit(-3, 10, 50))
	assert.Equal(t, 25, ClampLimit(25, 10, 50))
	assert.Equal(t, 50, ClampLimit(500, 10, 50))
}

func singlesRecord(id, tournamentID int, category string, p1, p2, winner int, scores ...string) models.MatchRecord {
	m := models.IndividualMatch{
		ID: id, MatchType: models.MatchTypeFor(category), Category: category,
		Player1ID: &p1, Player2ID: &p2, WinnerID: &winner,
	}
	slots := []**string{&m.Set1Score, &m.Set2Score, &m.Set3Score}
	for i, s := range scores {
		s := s
		*slots[i] = &s
	}
	return models.MatchRecord{IndividualMatch: m, TournamentID: tournamentID}
}

func TestCalculatePoints(t *testing.T) {
	ws := "WS"
	config := []models.RankingPointConfig{
		{AchievementType: models.AchievementPlacement, AchievementKey: "1st_place", Points: 100, Active: true},
		{AchievementType: models.AchievementPlacement, AchievementKey: "2nd_place", Points: 70, Active: true},
		{AchievementType: models.AchievementMatchWin, AchievementKey: models.MatchSingles, Points: 10, Active: true},
		{AchievementType: models.AchievementMatchWin, AchievementKey: models.MatchSingles, Category: &ws, Points: 20, Active: true},
		{AchievementType: models.AchievementSetWin, AchievementKey: "set", Points: 2, Active: true},
		{AchievementType: models.AchievementSetWin, AchievementKey: "set", Category: &ws, Points: 99, Active: false},
	}
	first, second := 1, 2
	winners := &models.TournamentWinner{FirstPlacePlayerID: &first, SecondPlacePlayerID: &second}
	matches := []models.MatchRecord{
		singlesRecord(2, 7, "WS", 1, 2, 1, "21-10", "19-21", "21-15"),
		singlesRecord(1, 7, "MS", 3, 4, 4, "10-21", "10-21"),
		{IndividualMatch: models.IndividualMatch{ID: 3, MatchType: models.MatchSingles, Category: "MS", Player1ID: &first, Player2ID: &second}},
	}
	awardedAt := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	points, processed := calculatePoints(config, winners, nil, matches, awardedAt)
	assert.Equal(t, 2, processed, "only decided matches earn match points")

	byPlayer := make(map[int]models.TournamentPlayerPoints)
	for _, p := range points {
		byPlayer[p.PlayerID] = p
		assert.Equal(t, awardedAt, p.AwardedAt)
	}
	require.Len(t, byPlayer, 4)

	winner := byPlayer[1]
	assert.Equal(t, "WS", winner.Category)
	assert.Equal(t, 100, winner.PlacementPoints)
	assert.Equal(t, 20, winner.MatchPoints, "category specific row wins")
	assert.Equal(t, 4, winner.SetPoints, "inactive rows are ignored")
	assert.Equal(t, 124, winner.TotalPoints)
	require.NotNil(t, winner.FinalPlacement)
	assert.Equal(t, 1, *winner.FinalPlacement)

	runnerUp := byPlayer[2]
	assert.Equal(t, 70+2, runnerUp.TotalPoints)
	assert.Equal(t, 1, runnerUp.MatchesLost)
	assert.Equal(t, 1, runnerUp.SetsWon)
	assert.Equal(t, 2, runnerUp.SetsLost)

	assert.Equal(t, 10+4, byPlayer[4].TotalPoints)
	assert.Equal(t, 0, byPlayer[3].TotalPoints)
	assert.Nil(t, byPlayer[3].FinalPlacement)
}

func TestCalculatePointsCountsSetsOfUndecidedMatches(t *testing.T) {
	config := []models.RankingPointConfig{
		{AchievementType: models.AchievementMatchWin, AchievementKey: models.MatchSingles, Points: 10, Active: true},
		{AchievementType: models.AchievementSetWin, AchievementKey: "set", Points: 2, Active: true},
	}
	one, two := 1, 2
	scored := singlesRecord(1, 7, "MS", one, two, one, "21-10", "21-15")
	scored.WinnerID = nil
	unscored := models.MatchRecord{IndividualMatch: models.IndividualMatch{ID: 2, MatchType: models.MatchSingles, Category: "MS", Player1ID: &one, Player2ID: &two}}

	points, processed := calculatePoints(config, nil, nil, []models.MatchRecord{scored, unscored}, time.Now())
	assert.Zero(t, processed)
	require.Len(t, points, 2)

	first, second := points[0], points[1]
	assert.Equal(t, one, first.PlayerID)
	assert.Equal(t, 4, first.SetPoints)
	assert.Equal(t, 4, first.TotalPoints)
	assert.Equal(t, 2, first.SetsWon)
	assert.Zero(t, first.MatchesWon)
	assert.Zero(t, first.MatchPoints)

	assert.Equal(t, two, second.PlayerID)
	assert.Equal(t, 2, second.SetsLost)
	assert.Zero(t, second.TotalPoints)
	assert.Zero(t, second.MatchesLost)
}

func TestCalculatePointsPlacementFollowsLineups(t *testing.T) {
	config := []models.RankingPointConfig{
		{AchievementType: models.AchievementPlacement, AchievementKey: "1st_place", Points: 100, Active: true},
	}
	champion, partner := 1, 2
	winners := &models.TournamentWinner{FirstPlacePlayerID: &champion}
	lineups := []models.TournamentLineup{
		{PlayerID: champion, Player2ID: &partner, Category: "MD"},
		{PlayerID: 5, Player2ID: &champion, Category: "XD"},
	}

	points, _ := calculatePoints(config, winners, lineups, nil, time.Now())
	require.Len(t, points, 2)
	assert.Equal(t, "MD", points[0].Category)
	assert.Equal(t, "XD", points[1].Category)
	for _, p := range points {
		assert.Equal(t, champion, p.PlayerID)
		assert.Equal(t, 100, p.TotalPoints)
	}
}

// seedRankedTournament plays a small MS round robin: a beats b and c, c beats b.
func seedRankedTournament(t *testing.T, env *testEnv, name string) (tournament *models.TournamentDetail, a, b, c *models.Player) {
	t.Helper()
	ctx := context.Background()
	tournament = env.tournament(t, name)
	a = env.player(t, "Alpha", name, "M")
	b = env.player(t, "Bravo", name, "M")
	c = env.player(t, "Charlie", name, "M")
	tie := env.tie(t, tournament.ID)
	env.singles(t, tie.ID, "MS", a.ID, b.ID, a.ID, "21-10", "21-12")
	env.singles(t, tie.ID, "MS", c.ID, b.ID, c.ID, "21-19", "18-21", "21-5")
	env.singles(t, tie.ID, "MS", a.ID, c.ID, a.ID, "21-1", "21-1")
	_, err := env.tournaments.SetWinners(ctx, tournament.ID, WinnersInput{
		FirstPlacePlayerID: &a.ID, SecondPlacePlayerID: &c.ID, ThirdPlacePlayerID: &b.ID,
	})
	require.NoError(t, err)
	return tournament, a, b, c
}

func TestCalculateRankings(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tour, a, b, c := seedRankedTournament(t, env, "Ranked Open")

	summary, err := env.rankings.Calculate(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CalculationSummary{
		TournamentID:     tour.ID,
		PlayersAwarded:   3,
		MatchesProcessed: 3,
		PointsAwarded:    128 + 84 + 52,
	}, *summary)

	ranked, err := env.rankings.ByCategory(ctx, "ms", 0)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	for i, want := range []struct {
		id     int
		points int
	}{{a.ID, 128}, {c.ID, 84}, {b.ID, 52}} {
		assert.Equal(t, want.id, ranked[i].PlayerID)
		assert.Equal(t, want.points, ranked[i].TotalPoints)
		require.NotNil(t, ranked[i].CurrentRank)
		assert.Equal(t, i+1, *ranked[i].CurrentRank)
		assert.Equal(t, want.id, ranked[i].Player.ID)
		assert.Equal(t, models.RankSame, ranked[i].Change)
	}

	points, err := env.rankings.ForTournament(ctx, tour.Slug)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, a.ID, points[0].Player.ID)

	mine, err := env.rankings.ForPlayer(ctx, a.Slug)
	require.NoError(t, err)
	require.Len(t, mine.Rankings, 1)
	assert.Equal(t, 1, mine.Rankings[0].TournamentsPlayed)

	profile, err := env.players.GetProfile(ctx, a.Slug)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryRank{{Category: "MS", Rank: 1}}, profile.Rankings)

	var calculated []published
	for _, e := range env.notifier.all() {
		if e.event == EventRankingsCalculated {
			calculated = append(calculated, e)
		}
	}
	require.Len(t, calculated, 1)
	assert.Equal(t, tour.Slug, calculated[0].room)
}

func TestCalculateIsRepeatable(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tour, a, _, _ := seedRankedTournament(t, env, "Twice Open")

	first, err := env.rankings.Calculate(ctx, tour.ID)
	require.NoError(t, err)
	second, err := env.rankings.Calculate(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	ranked, err := env.rankings.ByCategory(ctx, "MS", 1)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, a.ID, ranked[0].PlayerID)
	assert.Equal(t, 128, ranked[0].TotalPoints)
	require.NotNil(t, ranked[0].PreviousRank)
	assert.Equal(t, 1, *ranked[0].PreviousRank)
	assert.Equal(t, models.RankSame, ranked[0].Change)
}

func TestCalculateRejects(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.rankings.Calculate(ctx, 0)
	assert.Contains(t, fieldErrors(t, err), "tournament_id")

	_, err = env.rankings.Calculate(ctx, 42)
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	_, err = env.rankings.ByCategory(ctx, "XX", 10)
	assert.Contains(t, fieldErrors(t, err), "category")

	_, err = env.rankings.ForPlayer(ctx, "ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = env.rankings.ForTournament(ctx, "ghost")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestRecalculateAll(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	first, a, _, _ := seedRankedTournament(t, env, "Spring")
	second, _, _, _ := seedRankedTournament(t, env, "Autumn")

	result, err := env.rankings.RecalculateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TournamentsProcessed)
	assert.Equal(t, 2, result.Successful)
	assert.Zero(t, result.Failed)
	require.Len(t, result.Details, 2)
	assert.Equal(t, first.ID, result.Details[0].TournamentID)
	assert.Equal(t, second.ID, result.Details[1].TournamentID)
	assert.Equal(t, "success", result.Details[0].Status)

	top, err := env.rankings.TopPlayers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 128, top[0].TotalPoints)
	assert.Equal(t, a.ID, top[0].PlayerID)

	global, err := env.rankings.Global(ctx)
	require.NoError(t, err)
	assert.Len(t, global, len(models.Categories))
	assert.Len(t, global["MS"], 6)
	assert.Empty(t, global["WD"])
}

func TestRankingHistory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tour, a, _, _ := seedRankedTournament(t, env, "History Open")
	_, err := env.rankings.Calculate(ctx, tour.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	env.store.RecordSnapshot(a.ID, "MS", now.AddDate(0, 0, -30), 4, 60)
	env.store.RecordSnapshot(a.ID, "MS", now.AddDate(0, 0, -200), 9, 10)
	env.store.RecordSnapshot(a.ID, "XD", now.AddDate(0, 0, -10), 2, 40)

	history, err := env.rankings.History(ctx, a.Slug, "", DefaultHistoryDays)
	require.NoError(t, err)
	assert.Equal(t, a.ID, history.PlayerID)
	assert.Equal(t, DefaultHistoryDays, history.Days)
	require.Len(t, history.History["MS"], 2, "snapshots older than the window are left out")
	assert.Equal(t, 4, history.History["MS"][0].Rank)
	assert.Equal(t, 1, history.History["MS"][1].Rank)
	assert.Equal(t, 128, history.History["MS"][1].Points)
	assert.Len(t, history.History["XD"], 1)

	history, err = env.rankings.History(ctx, a.Slug, "ms", MaxHistoryDays)
	require.NoError(t, err)
	assert.Len(t, history.History["MS"], 3)
	assert.NotContains(t, history.History, "XD")

	_, err = env.rankings.Calculate(ctx, tour.ID)
	require.NoError(t, err)
	history, err = env.rankings.History(ctx, a.Slug, "MS", MinHistoryDays)
	require.NoError(t, err)
	assert.Len(t, history.History["MS"], 1, "one snapshot per day")

	_, err = env.rankings.History(ctx, a.Slug, "", 6)
	assert.Contains(t, fieldErrors(t, err), "days")
	_, err = env.rankings.History(ctx, a.Slug, "", 366)
	assert.Contains(t, fieldErrors(t, err), "days")
	_, err = env.rankings.History(ctx, a.Slug, "QQ", 30)
	assert.Contains(t, fieldErrors(t, err), "category")
	_, err = env.rankings.History(ctx, "ghost", "", 30)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
