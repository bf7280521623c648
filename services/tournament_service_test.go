package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gnbf/badminton-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want models.TournamentStatus
	}{
		{"draft", models.StatusDraft},
		{"DRAFT", models.StatusDraft},
		{"published", models.StatusUpcoming},
		{"Upcoming", models.StatusUpcoming},
		{"In Progress", models.StatusInProgress},
		{"in-progress", models.StatusInProgress},
		{"live", models.StatusInProgress},
		{"completed", models.StatusFinished},
		{" canceled ", models.StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeStatus(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NormalizeStatus("postponed")
	assert.Contains(t, fieldErrors(t, err), "status")
}

func TestTournamentCreateDefaults(t *testing.T) {
	env := newTestEnv()
	d := env.tournament(t, "Georgian National Championship")

	assert.Equal(t, "georgian-national-championship", d.Slug)
	assert.Equal(t, models.DefaultTimezone, d.Timezone)
	assert.Equal(t, models.StatusDraft, d.Status)
	assert.Equal(t, models.MinPhase, d.CurrentPhase)
	assert.Equal(t, 0, d.ReadinessPercent)
	assert.True(t, d.PublicRegistration)
	assert.True(t, d.AllowEntryEditing)
	assert.False(t, d.AutoApproveEntries)
	assert.Equal(t, models.DefaultVenueMode, d.VenueMode)
	assert.Nil(t, d.Venue)
	assert.NotNil(t, d.Events)
	assert.NotNil(t, d.Entries)
}

func TestTournamentCreateWithNestedSettings(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	p := env.player(t, "Nika", "Kapanadze", "M")

	d, err := env.tournaments.Create(ctx, CreateTournamentInput{
		Name:      "Tbilisi Open",
		StartDate: models.NewDate(2024, time.June, 1),
		EndDate:   models.NewDate(2024, time.June, 3),
		TournamentSettings: TournamentSettings{
			Status:             strPtr("upcoming"),
			CurrentPhase:       intPtr(4),
			AutoApproveEntries: boolPtr(true),
			Venue:              &VenueInput{VenueName: strPtr("Olympic Palace"), VenueCity: strPtr("Tbilisi"), VenueCountryCode: strPtr("geo")},
			Events: []EventInput{{
				EventName: "Men's Singles", Discipline: "singles", Category: "MS",
				Currency: strPtr("gel"), DrawSetup: json.RawMessage(`{"size":32}`),
			}},
			Courts: []CourtInput{{CourtName: "Court 1"}, {CourtName: "Court 2"}},
			TimeBlocks: []TimeBlockInput{{
				BlockDate: models.NewDate(2024, time.June, 1), StartTime: "09:00", EndTime: "18:00",
			}},
			Entries: []EntryInput{{PlayerID: &p.ID, EntryName: "Nika Kapanadze"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusUpcoming, d.Status)
	assert.Equal(t, 50, d.ReadinessPercent)
	require.NotNil(t, d.Venue)
	assert.Equal(t, "GEO", *d.Venue.VenueCountryCode)
	require.Len(t, d.Events, 1)
	assert.Equal(t, "GEL", *d.Events[0].Currency)
	assert.JSONEq(t, `{"size":32}`, string(d.Events[0].DrawSetup))
	assert.Len(t, d.Courts, 2)
	assert.Len(t, d.TimeBlocks, 1)
	require.Len(t, d.Entries, 1)
	assert.Equal(t, EntryApproved, d.Entries[0].ApprovalStatus)

	found, err := env.tournaments.Search(ctx, "tbilisi")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, d.ID, found[0].ID)
}

func TestTournamentCreateRejectsBadInput(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	t.Run("end before start", func(t *testing.T) {
		_, err := env.tournaments.Create(ctx, CreateTournamentInput{
			Name:      "Backwards",
			StartDate: models.NewDate(2024, time.June, 3),
			EndDate:   models.NewDate(2024, time.June, 1),
		})
		assert.Contains(t, fieldErrors(t, err), "end_date")
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := env.tournaments.Create(ctx, CreateTournamentInput{
			Name:               "Unknown",
			StartDate:          models.NewDate(2024, time.June, 1),
			EndDate:            models.NewDate(2024, time.June, 1),
			TournamentSettings: TournamentSettings{Status: strPtr("paused")},
		})
		assert.Contains(t, fieldErrors(t, err), "status")
	})

	t.Run("time block ends before it starts", func(t *testing.T) {
		_, err := env.tournaments.Create(ctx, CreateTournamentInput{
			Name:      "Blocks",
			StartDate: models.NewDate(2024, time.June, 1),
			EndDate:   models.NewDate(2024, time.June, 1),
			TournamentSettings: TournamentSettings{TimeBlocks: []TimeBlockInput{{
				BlockDate: models.NewDate(2024, time.June, 1), StartTime: "18:00", EndTime: "09:00",
			}}},
		})
		assert.Contains(t, fieldErrors(t, err), "time_blocks[0].end_time")
	})

	t.Run("duplicate entry", func(t *testing.T) {
		p := env.player(t, "Dup", "Entry", "M")
		_, err := env.tournaments.Create(ctx, CreateTournamentInput{
			Name:      "Dups",
			StartDate: models.NewDate(2024, time.June, 1),
			EndDate:   models.NewDate(2024, time.June, 1),
			TournamentSettings: TournamentSettings{Entries: []EntryInput{
				{PlayerID: &p.ID, EntryName: "a"},
				{PlayerID: &p.ID, EntryName: "b"},
			}},
		})
		assert.ErrorIs(t, err, ErrEntryConflict)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		env.tournament(t, "Same Name")
		_, err := env.tournaments.Create(ctx, CreateTournamentInput{
			Name:      "Other",
			Slug:      "same-name",
			StartDate: models.NewDate(2024, time.June, 1),
			EndDate:   models.NewDate(2024, time.June, 1),
		})
		assert.ErrorIs(t, err, ErrTournamentSlugConflict)
	})
}

func TestTournamentUpdateNestedCollections(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	created, err := env.tournaments.Create(ctx, CreateTournamentInput{
		Name:      "Rustavi Cup",
		StartDate: models.NewDate(2024, time.July, 1),
		EndDate:   models.NewDate(2024, time.July, 2),
		TournamentSettings: TournamentSettings{
			Courts: []CourtInput{{CourtName: "A"}, {CourtName: "B"}},
		},
	})
	require.NoError(t, err)

	t.Run("omitted collections are kept", func(t *testing.T) {
		d, err := env.tournaments.Update(ctx, created.ID, UpdateTournamentInput{Name: strPtr("Rustavi Cup 2024")})
		require.NoError(t, err)
		assert.Equal(t, "Rustavi Cup 2024", d.Name)
		assert.Equal(t, created.Slug, d.Slug)
		assert.Len(t, d.Courts, 2)
	})

	t.Run("empty collections clear", func(t *testing.T) {
		d, err := env.tournaments.Update(ctx, created.ID, UpdateTournamentInput{
			TournamentSettings: TournamentSettings{Courts: []CourtInput{}},
		})
		require.NoError(t, err)
		assert.Empty(t, d.Courts)
	})

	t.Run("status alias", func(t *testing.T) {
		d, err := env.tournaments.Update(ctx, created.ID, UpdateTournamentInput{
			TournamentSettings: TournamentSettings{Status: strPtr("in_progress")},
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, d.Status)

		inProgress, err := env.tournaments.List(ctx, "live")
		require.NoError(t, err)
		require.Len(t, inProgress, 1)
		assert.Equal(t, created.ID, inProgress[0].ID)
	})

	t.Run("unknown tournament", func(t *testing.T) {
		_, err := env.tournaments.Update(ctx, 999, UpdateTournamentInput{Name: strPtr("x")})
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})

	events := env.notifier.all()
	require.NotEmpty(t, events)
	for _, e := range events {
		assert.Equal(t, created.Slug, e.room)
		assert.Equal(t, EventTournamentUpdated, e.event)
	}
}

func TestTournamentRenameNotifiesBothRooms(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	created := env.tournament(t, "Poti Open")

	d, err := env.tournaments.Update(ctx, created.ID, UpdateTournamentInput{Slug: strPtr("poti-open-2025")})
	require.NoError(t, err)
	assert.Equal(t, "poti-open-2025", d.Slug)

	var rooms []string
	for _, e := range env.notifier.all() {
		if e.event == EventTournamentUpdated {
			rooms = append(rooms, e.room)
		}
	}
	assert.ElementsMatch(t, []string{"poti-open-2025", created.Slug}, rooms)
}

func TestTournamentSearchAndList(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.tournament(t, "Kutaisi Open")
	env.tournament(t, "Batumi Masters")

	_, err := env.tournaments.Search(ctx, "  ")
	assert.Contains(t, fieldErrors(t, err), "q")

	found, err := env.tournaments.Search(ctx, "KUTAISI")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Kutaisi Open", found[0].Name)

	all, err := env.tournaments.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	finished, err := env.tournaments.List(ctx, "finished")
	require.NoError(t, err)
	assert.Empty(t, finished)

	_, err = env.tournaments.List(ctx, "nope")
	assert.Contains(t, fieldErrors(t, err), "status")
}

func TestTournamentDelete(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	d := env.tournament(t, "Gone Soon")

	require.NoError(t, env.tournaments.Delete(ctx, d.ID))
	_, err := env.tournaments.GetDetail(ctx, d.Slug)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	assert.ErrorIs(t, env.tournaments.Delete(ctx, d.ID), ErrTournamentNotFound)
}

func TestTournamentEntries(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	d := env.tournament(t, "Entries Cup")
	p := env.player(t, "Keti", "M", "F")

	entry, err := env.tournaments.AddEntry(ctx, d.ID, EntryInput{PlayerID: &p.ID, EntryName: "Keti M"})
	require.NoError(t, err)
	assert.Equal(t, EntryPending, entry.ApprovalStatus)

	_, err = env.tournaments.AddEntry(ctx, d.ID, EntryInput{PlayerID: &p.ID, EntryName: "again"})
	assert.ErrorIs(t, err, ErrEntryConflict)

	_, err = env.tournaments.AddEntry(ctx, d.ID, EntryInput{PlayerID: intPtr(999), EntryName: "ghost"})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = env.tournaments.AddEntry(ctx, 999, EntryInput{EntryName: "nowhere"})
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	require.NoError(t, env.tournaments.DeleteEntry(ctx, d.ID, entry.ID))
	assert.ErrorIs(t, env.tournaments.DeleteEntry(ctx, d.ID, entry.ID), ErrEntryNotFound)
}

func TestTournamentLineups(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	d := env.tournament(t, "Lineup Cup")
	a := env.player(t, "Lasha", "A", "M")
	b := env.player(t, "Gela", "B", "M")

	_, err := env.tournaments.AddLineup(ctx, d.ID, LineupInput{PlayerID: a.ID, Player2ID: &b.ID, Category: "MS"})
	assert.Contains(t, fieldErrors(t, err), "player_2_id")

	_, err = env.tournaments.AddLineup(ctx, d.ID, LineupInput{PlayerID: a.ID, Player2ID: &a.ID, Category: "MD"})
	assert.Contains(t, fieldErrors(t, err), "player_2_id")

	lineup, err := env.tournaments.AddLineup(ctx, d.ID, LineupInput{PlayerID: a.ID, Player2ID: &b.ID, Category: "md"})
	require.NoError(t, err)
	assert.Equal(t, "MD", lineup.Category)

	_, err = env.tournaments.AddLineup(ctx, d.ID, LineupInput{PlayerID: a.ID, Category: "MD"})
	assert.ErrorIs(t, err, ErrLineupConflict)

	players, err := env.tournaments.ListPlayers(ctx, d.Slug)
	require.NoError(t, err)
	require.Len(t, players, 1)
	require.NotNil(t, players[0].Player)
	require.NotNil(t, players[0].Partner)
	assert.Equal(t, a.ID, players[0].Player.ID)
	assert.Equal(t, b.ID, players[0].Partner.ID)
}

func TestTournamentWinners(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	d := env.tournament(t, "Winners Cup")
	a := env.player(t, "First", "Place", "F")
	b := env.player(t, "Second", "Place", "F")

	_, err := env.tournaments.SetWinners(ctx, d.ID, WinnersInput{FirstPlacePlayerID: &a.ID, SecondPlacePlayerID: &a.ID})
	assert.Contains(t, fieldErrors(t, err), "second_place_player_id")

	_, err = env.tournaments.SetWinners(ctx, d.ID, WinnersInput{FirstPlacePlayerID: intPtr(999)})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = env.tournaments.SetWinners(ctx, 999, WinnersInput{FirstPlacePlayerID: &a.ID})
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	w, err := env.tournaments.SetWinners(ctx, d.ID, WinnersInput{FirstPlacePlayerID: &a.ID, SecondPlacePlayerID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: a.ID, 2: b.ID}, w.PlacedPlayers())

	again, err := env.tournaments.SetWinners(ctx, d.ID, WinnersInput{FirstPlacePlayerID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID, "winners are upserted")
	assert.Nil(t, again.SecondPlacePlayerID)

	summaries, err := env.tournaments.ListWinners(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, d.Slug, summaries[0].TournamentSlug)

	detail, err := env.tournaments.GetDetail(ctx, d.Slug)
	require.NoError(t, err)
	require.NotNil(t, detail.Winners)

	var winnerEvents int
	for _, e := range env.notifier.all() {
		if e.event == EventTournamentWinners {
			winnerEvents++
			assert.Equal(t, d.Slug, e.room)
		}
	}
	assert.Equal(t, 2, winnerEvents)
}

func TestTournamentListMatches(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	d := env.tournament(t, "Match List Cup")
	a := env.player(t, "A", "A", "M")
	b := env.player(t, "B", "B", "M")
	tie := env.tie(t, d.ID)
	env.singles(t, tie.ID, "MS", a.ID, b.ID, a.ID, "21-0")

	matches, err := env.tournaments.ListMatches(ctx, d.Slug)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, d.ID, matches[0].TournamentID)
	require.NotNil(t, matches[0].Winner)
	assert.Equal(t, a.ID, matches[0].Winner.ID)

	_, err = env.tournaments.ListMatches(ctx, "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
