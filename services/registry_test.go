package services

import (
	"context"
	"testing"

	"github.com/gnbf/badminton-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClubLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	coaches := NewCoachService(env.store.Coaches())

	coach, err := coaches.Create(ctx, CreateCoachInput{FirstName: "Levan", LastName: "Jgerenaia"})
	require.NoError(t, err)

	club, err := env.clubs.Create(ctx, CreateClubInput{Name: "Tbilisi Shuttle Club", HeadCoachID: &coach.ID})
	require.NoError(t, err)
	assert.Equal(t, "tbilisi-shuttle-club", club.Slug)

	_, err = env.clubs.Create(ctx, CreateClubInput{Name: "Ghost Coach", HeadCoachID: intPtr(77)})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = env.clubs.Create(ctx, CreateClubInput{Name: "Copy", Slug: club.Slug})
	assert.ErrorIs(t, err, ErrClubSlugConflict)

	_, err = env.players.Create(ctx, CreatePlayerInput{FirstName: "Club", LastName: "Member", Gender: "F", ClubID: &club.ID})
	require.NoError(t, err)

	detail, err := env.clubs.GetBySlug(ctx, club.Slug)
	require.NoError(t, err)
	require.NotNil(t, detail.HeadCoach)
	assert.Equal(t, coach.ID, detail.HeadCoach.ID)
	assert.EqualValues(t, 1, detail.PlayerCount)

	members, err := env.clubs.ListPlayers(ctx, club.Slug)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	updated, err := env.clubs.Update(ctx, club.ID, UpdateClubInput{Location: strPtr("Vake")})
	require.NoError(t, err)
	assert.Equal(t, "Vake", *updated.Location)
	assert.Equal(t, club.Name, updated.Name)

	require.NoError(t, env.clubs.Delete(ctx, club.ID))
	_, err = env.clubs.GetBySlug(ctx, club.Slug)
	assert.ErrorIs(t, err, ErrClubNotFound)
	_, err = env.clubs.Update(ctx, club.ID, UpdateClubInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrClubNotFound)

	clubs, err := env.clubs.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, clubs)
	assert.Empty(t, clubs)
}

func TestCoachLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	coaches := NewCoachService(env.store.Coaches())

	coach, err := coaches.Create(ctx, CreateCoachInput{FirstName: "Tamar", LastName: "Kvaratskhelia", CertificationLevel: strPtr("BWF Level 2")})
	require.NoError(t, err)

	_, err = coaches.Create(ctx, CreateCoachInput{FirstName: "No", LastName: "Club", ClubID: intPtr(5)})
	assert.ErrorIs(t, err, ErrInvalidReference)

	got, err := coaches.GetBySlug(ctx, "Tamar-Kvaratskhelia")
	require.NoError(t, err)
	assert.Equal(t, coach.ID, got.ID)

	updated, err := coaches.Update(ctx, coach.ID, UpdateCoachInput{LastName: strPtr(" K ")})
	require.NoError(t, err)
	assert.Equal(t, "K", updated.LastName)
	assert.Equal(t, coach.Slug, updated.Slug)

	list, err := coaches.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, coaches.Delete(ctx, coach.ID))
	assert.ErrorIs(t, coaches.Delete(ctx, coach.ID), ErrCoachNotFound)
}

func TestOfficials(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	officials := NewOfficialService(env.store.Officials(), env.store.Matches())

	umpire, err := officials.Create(ctx, models.OfficialUmpire, CreateOfficialInput{FirstName: "Irma", LastName: "Chanturia", NationalityCode: strPtr("geo")})
	require.NoError(t, err)
	assert.Equal(t, "GEO", *umpire.NationalityCode)

	referee, err := officials.Create(ctx, models.OfficialReferee, CreateOfficialInput{FirstName: "Irma", LastName: "Chanturia"})
	require.NoError(t, err)
	assert.Equal(t, umpire.Slug, referee.Slug, "umpires and referees have separate slug spaces")

	_, err = officials.Create(ctx, models.OfficialKind("linesmen"), CreateOfficialInput{FirstName: "x", LastName: "y"})
	assert.ErrorIs(t, err, ErrNotFound)

	umpires, err := officials.List(ctx, models.OfficialUmpire)
	require.NoError(t, err)
	assert.Len(t, umpires, 1)

	d := env.tournament(t, "Umpired Cup")
	tie := env.tie(t, d.ID)
	a := env.player(t, "Ana", "A", "F")
	b := env.player(t, "Bea", "B", "F")
	_, err = env.matches.CreateMatch(ctx, CreateMatchInput{TieID: tie.ID, Category: "WS", Player1ID: &a.ID, Player2ID: &b.ID, UmpireID: &umpire.ID})
	require.NoError(t, err)
	_, err = env.matches.CreateMatch(ctx, CreateMatchInput{TieID: tie.ID, Category: "WD", Side1: []int{a.ID, b.ID}, Side2: []int{env.player(t, "C", "C", "F").ID, env.player(t, "D", "D", "F").ID}, UmpireID: &umpire.ID})
	require.NoError(t, err)

	stats, err := officials.UmpireStats(ctx, umpire.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.MatchesOfficiated)
	assert.Equal(t, map[string]int{"WS": 1, "WD": 1}, stats.ByCategory)

	_, err = officials.UmpireStats(ctx, "nobody")
	assert.ErrorIs(t, err, ErrOfficialNotFound)

	updated, err := officials.Update(ctx, models.OfficialReferee, referee.ID, UpdateOfficialInput{CertificationLevel: strPtr("National")})
	require.NoError(t, err)
	assert.Equal(t, "National", *updated.CertificationLevel)

	require.NoError(t, officials.Delete(ctx, models.OfficialReferee, referee.ID))
	_, err = officials.GetBySlug(ctx, models.OfficialReferee, referee.Slug)
	assert.ErrorIs(t, err, ErrOfficialNotFound)
	_, err = officials.GetBySlug(ctx, models.OfficialUmpire, umpire.Slug)
	require.NoError(t, err)
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv()
	health := NewHealthService(env.store.Players())

	n, err := health.Check(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	env.player(t, "One", "Player", "M")
	n, err = health.Check(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
