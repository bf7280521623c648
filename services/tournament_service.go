package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
	"github.com/gnbf/badminton-registry/validation"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

const searchLimit = 20

const (
	EntryPending  = "pending"
	EntryApproved = "approved"
)

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.TournamentDetail, error)
	GetDetail(ctx context.Context, slug string) (*models.TournamentDetail, error)
	List(ctx context.Context, status string) ([]models.Tournament, error)
	Search(ctx context.Context, query string) ([]models.Tournament, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.TournamentDetail, error)
	Delete(ctx context.Context, id int) error

	ListMatches(ctx context.Context, slug string) ([]models.MatchView, error)
	ListPlayers(ctx context.Context, slug string) ([]models.TournamentLineupView, error)
	AddLineup(ctx context.Context, tournamentID int, input LineupInput) (*models.TournamentLineup, error)

	AddEntry(ctx context.Context, tournamentID int, input EntryInput) (*models.TournamentEntry, error)
	DeleteEntry(ctx context.Context, tournamentID, entryID int) error

	ListWinners(ctx context.Context) ([]models.TournamentWinnerSummary, error)
	SetWinners(ctx context.Context, tournamentID int, input WinnersInput) (*models.TournamentWinner, error)
}

type VenueInput struct {
	VenueName        *string `json:"venue_name" validate:"omitempty,max=255"`
	VenueCity        *string `json:"venue_city" validate:"omitempty,max=100"`
	VenueCountryCode *string `json:"venue_country_code" validate:"omitempty,min=2,max=3,alpha"`
	Location         *string `json:"location" validate:"omitempty,max=500"`
}

type EventInput struct {
	EventName             string          `json:"event_name" validate:"required,max=255"`
	Discipline            string          `json:"discipline" validate:"required,max=50"`
	Category              string          `json:"category" validate:"required,max=50"`
	Level                 *string         `json:"level" validate:"omitempty,max=50"`
	ScoringFormat         *string         `json:"scoring_format" validate:"omitempty,max=100"`
	MaxEntries            *int            `json:"max_entries" validate:"omitempty,min=1,max=1024"`
	EntryFee              *float64        `json:"entry_fee" validate:"omitempty,min=0"`
	Currency              *string         `json:"currency" validate:"omitempty,len=3,alpha"`
	MemberPerks           *string         `json:"member_perks" validate:"omitempty,max=500"`
	DrawType              *string         `json:"draw_type" validate:"omitempty,max=50"`
	DrawSetup             json.RawMessage `json:"draw_setup"`
	GenerationRules       json.RawMessage `json:"generation_rules"`
	SeedingMode           *string         `json:"seeding_mode" validate:"omitempty,max=50"`
	LockEntries           bool            `json:"lock_entries"`
	PublishBracketPreview bool            `json:"publish_bracket_preview"`
	BracketVisibility     *string         `json:"bracket_visibility" validate:"omitempty,max=50"`
}

type CourtInput struct {
	CourtName   string  `json:"court_name" validate:"required,max=100"`
	CourtNumber *int    `json:"court_number" validate:"omitempty,min=1"`
	VenueLabel  *string `json:"venue_label" validate:"omitempty,max=255"`
}

type TimeBlockInput struct {
	BlockType         *string     `json:"block_type" validate:"omitempty,max=50"`
	BlockLabel        *string     `json:"block_label" validate:"omitempty,max=100"`
	BlockDate         models.Date `json:"block_date" validate:"required"`
	StartTime         string      `json:"start_time" validate:"required,clock"`
	EndTime           string      `json:"end_time" validate:"required,clock"`
	LunchBreakEnabled bool        `json:"lunch_break_enabled"`
	BreakStartTime    *string     `json:"break_start_time" validate:"omitempty,clock"`
	BreakEndTime      *string     `json:"break_end_time" validate:"omitempty,clock"`
}

type EntryInput struct {
	EventID         *int    `json:"event_id" validate:"omitempty,min=1"`
	PlayerID        *int    `json:"player_id" validate:"omitempty,min=1"`
	EntryName       string  `json:"entry_name" validate:"required,max=255"`
	EntryType       *string `json:"entry_type" validate:"omitempty,max=50"`
	EntryCategory   *string `json:"entry_category" validate:"omitempty,max=50"`
	EntryDiscipline *string `json:"entry_discipline" validate:"omitempty,max=50"`
	ApprovalStatus  *string `json:"approval_status" validate:"omitempty,oneof=pending approved rejected waitlisted"`
}

// TournamentSettings holds the optional fields shared by create and update.
// Nested collections replace the stored ones when present, so an empty list
// clears them.
type TournamentSettings struct {
	Timezone                *string          `json:"timezone" validate:"omitempty,timezone"`
	OrganizerOrganizationID *int             `json:"organizer_organization_id" validate:"omitempty,min=1"`
	Status                  *string          `json:"status"`
	CurrentPhase            *int             `json:"current_phase" validate:"omitempty,min=1,max=7"`
	LastCompletedPhase      *int             `json:"last_completed_phase" validate:"omitempty,min=0,max=7"`
	RegistrationDeadlineAt  *time.Time       `json:"registration_deadline_at"`
	LogoURL                 *string          `json:"logo_url" validate:"omitempty,url,max=500"`
	BannerURL               *string          `json:"banner_url" validate:"omitempty,url,max=500"`
	InvitesEnabled          *bool            `json:"invites_enabled"`
	InvitesOpenAt           *time.Time       `json:"invites_open_at"`
	InvitesCloseAt          *time.Time       `json:"invites_close_at"`
	PublicRegistration      *bool            `json:"public_registration"`
	AllowWaitlist           *bool            `json:"allow_waitlist"`
	ShowBracketPublicly     *bool            `json:"show_bracket_publicly"`
	AutoApproveEntries      *bool            `json:"auto_approve_entries"`
	AllowEntryEditing       *bool            `json:"allow_entry_editing"`
	VenueMode               *string          `json:"venue_mode" validate:"omitempty,oneof=single multi"`
	AvgMatchDurationMin     *int             `json:"avg_match_duration_min" validate:"omitempty,min=1,max=600"`
	MatchBufferMin          *int             `json:"match_buffer_min" validate:"omitempty,min=0,max=240"`
	EnforceQuietHours       *bool            `json:"enforce_quiet_hours"`
	Venue                   *VenueInput      `json:"venue"`
	Events                  []EventInput     `json:"events" validate:"dive"`
	Courts                  []CourtInput     `json:"courts" validate:"dive"`
	TimeBlocks              []TimeBlockInput `json:"time_blocks" validate:"dive"`
	Entries                 []EntryInput     `json:"entries" validate:"dive"`
}

type CreateTournamentInput struct {
	Name      string      `json:"name" validate:"required,max=255"`
	Slug      string      `json:"slug" validate:"omitempty,slug,max=255"`
	StartDate models.Date `json:"start_date" validate:"required"`
	EndDate   models.Date `json:"end_date" validate:"required"`
	TournamentSettings
}

type UpdateTournamentInput struct {
	Name      *string      `json:"name" validate:"omitempty,min=1,max=255"`
	Slug      *string      `json:"slug" validate:"omitempty,slug,max=255"`
	StartDate *models.Date `json:"start_date"`
	EndDate   *models.Date `json:"end_date"`
	TournamentSettings
}

type LineupInput struct {
	ClubID    *int   `json:"club_id" validate:"omitempty,min=1"`
	PlayerID  int    `json:"player_id" validate:"required,min=1"`
	Player2ID *int   `json:"player_2_id" validate:"omitempty,min=1"`
	Category  string `json:"category" validate:"required,category"`
}

type WinnersInput struct {
	FirstPlaceClubID    *int `json:"first_place_club_id" validate:"omitempty,min=1"`
	SecondPlaceClubID   *int `json:"second_place_club_id" validate:"omitempty,min=1"`
	ThirdPlaceClubID    *int `json:"third_place_club_id" validate:"omitempty,min=1"`
	FirstPlacePlayerID  *int `json:"first_place_player_id" validate:"omitempty,min=1"`
	SecondPlacePlayerID *int `json:"second_place_player_id" validate:"omitempty,min=1"`
	ThirdPlacePlayerID  *int `json:"third_place_player_id" validate:"omitempty,min=1"`
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	playerRepo     repositories.PlayerRepository
	views          matchViewBuilder
	notifier       Notifier
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	notifier Notifier,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		playerRepo:     playerRepo,
		views:          matchViewBuilder{playerRepo: playerRepo},
		notifier:       notifierOrNop(notifier),
	}
}

var statusAliases = map[string]models.TournamentStatus{
	"draft":       models.StatusDraft,
	"published":   models.StatusUpcoming,
	"upcoming":    models.StatusUpcoming,
	"in_progress": models.StatusInProgress,
	"in progress": models.StatusInProgress,
	"live":        models.StatusInProgress,
	"ongoing":     models.StatusInProgress,
	"finished":    models.StatusFinished,
	"completed":   models.StatusFinished,
	"cancelled":   models.StatusCancelled,
	"canceled":    models.StatusCancelled,
}

// NormalizeStatus maps the spellings used by the admin frontend onto the
// stored status values.
func NormalizeStatus(status string) (models.TournamentStatus, error) {
	key := strings.ToLower(strings.TrimSpace(status))
	key = strings.ReplaceAll(key, "-", "_")
	if s, ok := statusAliases[key]; ok {
		return s, nil
	}
	return "", validation.Field("status", "must be one of: draft, upcoming, in_progress, finished, cancelled")
}

func (s *tournamentService) translate(err error, failed error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentSlugConflict):
		return ErrTournamentSlugConflict
	case errors.Is(err, repositories.ErrEntryConflict):
		return ErrEntryConflict
	case errors.Is(err, repositories.ErrEntryNotFound):
		return ErrEntryNotFound
	case errors.Is(err, repositories.ErrLineupConflict):
		return ErrLineupConflict
	case errors.Is(err, repositories.ErrTournamentInvalidReference):
		return fmt.Errorf("%w: %w", ErrInvalidReference, err)
	case errors.Is(err, repositories.ErrConstraintViolation):
		return validation.Field("tournament", err.Error())
	}
	return fmt.Errorf("%w: %w", failed, err)
}

// applySettings copies the non-nil settings onto t and returns the nested
// collections to write.
func applySettings(t *models.Tournament, in TournamentSettings) (repositories.TournamentParts, error) {
	var parts repositories.TournamentParts

	if in.Status != nil {
		status, err := NormalizeStatus(*in.Status)
		if err != nil {
			return parts, err
		}
		t.Status = status
	}
	if in.Timezone != nil {
		t.Timezone = *in.Timezone
	}
	if in.OrganizerOrganizationID != nil {
		t.OrganizerOrganizationID = in.OrganizerOrganizationID
	}
	if in.CurrentPhase != nil {
		t.CurrentPhase = *in.CurrentPhase
	}
	if in.LastCompletedPhase != nil {
		t.LastCompletedPhase = *in.LastCompletedPhase
	}
	if in.RegistrationDeadlineAt != nil {
		t.RegistrationDeadlineAt = utcPtr(in.RegistrationDeadlineAt)
	}
	if in.LogoURL != nil {
		t.LogoURL = in.LogoURL
	}
	if in.BannerURL != nil {
		t.BannerURL = in.BannerURL
	}
	if in.InvitesOpenAt != nil {
		t.InvitesOpenAt = utcPtr(in.InvitesOpenAt)
	}
	if in.InvitesCloseAt != nil {
		t.InvitesCloseAt = utcPtr(in.InvitesCloseAt)
	}
	setBool(&t.InvitesEnabled, in.InvitesEnabled)
	setBool(&t.PublicRegistration, in.PublicRegistration)
	setBool(&t.AllowWaitlist, in.AllowWaitlist)
	setBool(&t.ShowBracketPublicly, in.ShowBracketPublicly)
	setBool(&t.AutoApproveEntries, in.AutoApproveEntries)
	setBool(&t.AllowEntryEditing, in.AllowEntryEditing)
	setBool(&t.EnforceQuietHours, in.EnforceQuietHours)
	if in.VenueMode != nil {
		t.VenueMode = *in.VenueMode
	}
	if in.AvgMatchDurationMin != nil {
		t.AvgMatchDurationMin = in.AvgMatchDurationMin
	}
	if in.MatchBufferMin != nil {
		t.MatchBufferMin = in.MatchBufferMin
	}

	if in.Venue != nil {
		parts.Venue = &models.TournamentVenue{
			VenueName:        in.Venue.VenueName,
			VenueCity:        in.Venue.VenueCity,
			VenueCountryCode: upperPtr(in.Venue.VenueCountryCode),
			Location:         in.Venue.Location,
		}
	}
	if in.Events != nil {
		events := make([]models.TournamentEvent, 0, len(in.Events))
		for _, e := range in.Events {
			events = append(events, models.TournamentEvent{
				EventName:             e.EventName,
				Discipline:            e.Discipline,
				Category:              e.Category,
				Level:                 e.Level,
				ScoringFormat:         e.ScoringFormat,
				MaxEntries:            e.MaxEntries,
				EntryFee:              e.EntryFee,
				Currency:              upperPtr(e.Currency),
				MemberPerks:           e.MemberPerks,
				DrawType:              e.DrawType,
				DrawSetup:             jsonColumn(e.DrawSetup),
				GenerationRules:       jsonColumn(e.GenerationRules),
				SeedingMode:           e.SeedingMode,
				LockEntries:           e.LockEntries,
				PublishBracketPreview: e.PublishBracketPreview,
				BracketVisibility:     e.BracketVisibility,
			})
		}
		parts.Events = &events
	}
	if in.Courts != nil {
		courts := make([]models.TournamentCourt, 0, len(in.Courts))
		for _, c := range in.Courts {
			courts = append(courts, models.TournamentCourt{
				CourtName:   c.CourtName,
				CourtNumber: c.CourtNumber,
				VenueLabel:  c.VenueLabel,
			})
		}
		parts.Courts = &courts
	}
	if in.TimeBlocks != nil {
		verrs := validation.Errors{}
		blocks := make([]models.TournamentTimeBlock, 0, len(in.TimeBlocks))
		for i, b := range in.TimeBlocks {
			if b.EndTime <= b.StartTime {
				verrs.Add(fmt.Sprintf("time_blocks[%d].end_time", i), "must be after start_time")
			}
			blocks = append(blocks, models.TournamentTimeBlock{
				BlockType:         b.BlockType,
				BlockLabel:        b.BlockLabel,
				BlockDate:         b.BlockDate,
				StartTime:         b.StartTime,
				EndTime:           b.EndTime,
				LunchBreakEnabled: b.LunchBreakEnabled,
				BreakStartTime:    b.BreakStartTime,
				BreakEndTime:      b.BreakEndTime,
			})
		}
		if err := verrs.Err(); err != nil {
			return parts, err
		}
		parts.TimeBlocks = &blocks
	}
	if in.Entries != nil {
		entries := make([]models.TournamentEntry, 0, len(in.Entries))
		for _, e := range in.Entries {
			entries = append(entries, newEntry(t, e))
		}
		parts.Entries = &entries
	}
	return parts, nil
}

func newEntry(t *models.Tournament, in EntryInput) models.TournamentEntry {
	status := EntryPending
	if t.AutoApproveEntries {
		status = EntryApproved
	}
	if in.ApprovalStatus != nil {
		status = *in.ApprovalStatus
	}
	return models.TournamentEntry{
		TournamentID:    t.ID,
		EventID:         in.EventID,
		PlayerID:        in.PlayerID,
		EntryName:       in.EntryName,
		EntryType:       in.EntryType,
		EntryCategory:   in.EntryCategory,
		EntryDiscipline: in.EntryDiscipline,
		ApprovalStatus:  status,
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func utcPtr(t *time.Time) *time.Time {
	u := t.UTC()
	return &u
}

func jsonColumn(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}

// checkTournament enforces the cross-field rules the schema also checks.
func checkTournament(t *models.Tournament) error {
	verrs := validation.Errors{}
	if t.EndDate.Before(t.StartDate) {
		verrs.Add("end_date", "must not be before start_date")
	}
	if t.CurrentPhase < models.MinPhase || t.CurrentPhase > models.MaxPhase {
		verrs.Add("current_phase", fmt.Sprintf("must be between %d and %d", models.MinPhase, models.MaxPhase))
	}
	if t.LastCompletedPhase < 0 || t.LastCompletedPhase > models.MaxPhase {
		verrs.Add("last_completed_phase", fmt.Sprintf("must be between 0 and %d", models.MaxPhase))
	}
	if t.InvitesOpenAt != nil && t.InvitesCloseAt != nil && t.InvitesCloseAt.Before(*t.InvitesOpenAt) {
		verrs.Add("invites_close_at", "must not be before invites_open_at")
	}
	return verrs.Err()
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.TournamentDetail, error) {
	t := &models.Tournament{
		Name:               strings.TrimSpace(input.Name),
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		Timezone:           models.DefaultTimezone,
		Status:             models.StatusDraft,
		CurrentPhase:       models.MinPhase,
		PublicRegistration: true,
		AllowEntryEditing:  true,
		VenueMode:          models.DefaultVenueMode,
	}
	parts, err := applySettings(t, input.TournamentSettings)
	if err != nil {
		return nil, err
	}
	if err := checkTournament(t); err != nil {
		return nil, err
	}

	generated := Slugify(t.Name)
	if generated == "" {
		generated = fallbackSlug("tournament")
	}
	err = createWithSlug(ctx, input.Slug, generated, repositories.ErrTournamentSlugConflict,
		func(ctx context.Context, slug string) error {
			t.ID = 0
			t.Slug = slug
			return s.tournamentRepo.Create(ctx, t, parts)
		})
	if err != nil {
		return nil, s.translate(err, ErrTournamentCreationFailed)
	}
	return s.detail(ctx, t)
}

func (s *tournamentService) bySlug(ctx context.Context, slug string) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament by slug %q: %w", slug, err)
	}
	return t, nil
}

func (s *tournamentService) byID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament by id %d: %w", id, err)
	}
	return t, nil
}

func (s *tournamentService) GetDetail(ctx context.Context, slug string) (*models.TournamentDetail, error) {
	t, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, t)
}

// detail loads the nested collections of t concurrently.
func (s *tournamentService) detail(ctx context.Context, t *models.Tournament) (*models.TournamentDetail, error) {
	t.ComputeReadiness()
	d := &models.TournamentDetail{Tournament: *t}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		venue, err := s.tournamentRepo.GetVenue(gctx, t.ID)
		d.Venue = venue
		return err
	})
	g.Go(func() error {
		events, err := s.tournamentRepo.ListEvents(gctx, t.ID)
		d.Events = events
		return err
	})
	g.Go(func() error {
		courts, err := s.tournamentRepo.ListCourts(gctx, t.ID)
		d.Courts = courts
		return err
	})
	g.Go(func() error {
		blocks, err := s.tournamentRepo.ListTimeBlocks(gctx, t.ID)
		d.TimeBlocks = blocks
		return err
	})
	g.Go(func() error {
		entries, err := s.tournamentRepo.ListEntries(gctx, t.ID)
		d.Entries = entries
		return err
	})
	g.Go(func() error {
		winners, err := s.tournamentRepo.GetWinners(gctx, t.ID)
		if errors.Is(err, repositories.ErrWinnersNotFound) {
			return nil
		}
		d.Winners = winners
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament %d: %w", t.ID, err)
	}

	if d.Events == nil {
		d.Events = []models.TournamentEvent{}
	}
	if d.Courts == nil {
		d.Courts = []models.TournamentCourt{}
	}
	if d.TimeBlocks == nil {
		d.TimeBlocks = []models.TournamentTimeBlock{}
	}
	if d.Entries == nil {
		d.Entries = []models.TournamentEntry{}
	}
	return d, nil
}

func (s *tournamentService) List(ctx context.Context, status string) ([]models.Tournament, error) {
	var filter models.TournamentStatus
	if status != "" {
		normalized, err := NormalizeStatus(status)
		if err != nil {
			return nil, err
		}
		filter = normalized
	}
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	if tournaments == nil {
		tournaments = []models.Tournament{}
	}
	return tournaments, nil
}

func (s *tournamentService) Search(ctx context.Context, query string) ([]models.Tournament, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validation.Field("q", "is required")
	}
	tournaments, err := s.tournamentRepo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search tournaments: %w", err)
	}
	if tournaments == nil {
		tournaments = []models.Tournament{}
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.TournamentDetail, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, ErrTournamentUpdateFailed)
	}
	previousSlug := t.Slug

	if input.Name != nil {
		t.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		t.Slug = *input.Slug
	}
	if input.StartDate != nil {
		t.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		t.EndDate = *input.EndDate
	}
	parts, err := applySettings(t, input.TournamentSettings)
	if err != nil {
		return nil, err
	}
	if err := checkTournament(t); err != nil {
		return nil, err
	}

	if err := s.tournamentRepo.Update(ctx, t, parts); err != nil {
		return nil, s.translate(err, ErrTournamentUpdateFailed)
	}

	d, err := s.detail(ctx, t)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(d.Slug, EventTournamentUpdated, d)
	// Subscribers joined under the old slug hear about the rename.
	if previousSlug != d.Slug {
		s.notifier.Publish(previousSlug, EventTournamentUpdated, d)
	}
	return d, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return s.translate(err, ErrTournamentDeleteFailed)
	}
	return nil
}

func (s *tournamentService) ListMatches(ctx context.Context, slug string) ([]models.MatchView, error) {
	t, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	records, err := s.matchRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %d: %w", t.ID, err)
	}
	return s.views.build(ctx, records)
}

func (s *tournamentService) ListPlayers(ctx context.Context, slug string) ([]models.TournamentLineupView, error) {
	t, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	lineups, err := s.tournamentRepo.ListLineups(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lineups of tournament %d: %w", t.ID, err)
	}

	var ids []int
	for _, l := range lineups {
		ids = append(ids, l.PlayerID)
		if l.Player2ID != nil {
			ids = append(ids, *l.Player2ID)
		}
	}
	refs := make(map[int]models.PlayerRef)
	if len(ids) > 0 {
		players, err := s.playerRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load lineup players: %w", err)
		}
		for _, p := range players {
			refs[p.ID] = p.Ref()
		}
	}

	views := make([]models.TournamentLineupView, 0, len(lineups))
	for _, l := range lineups {
		v := models.TournamentLineupView{TournamentLineup: l}
		if r, ok := refs[l.PlayerID]; ok {
			v.Player = &r
		}
		if l.Player2ID != nil {
			if r, ok := refs[*l.Player2ID]; ok {
				v.Partner = &r
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *tournamentService) AddLineup(ctx context.Context, tournamentID int, input LineupInput) (*models.TournamentLineup, error) {
	category := strings.ToUpper(input.Category)
	if input.Player2ID != nil {
		if models.MatchTypeFor(category) == models.MatchSingles {
			return nil, validation.Field("player_2_id", "is only allowed for doubles categories")
		}
		if *input.Player2ID == input.PlayerID {
			return nil, validation.Field("player_2_id", "must differ from player_id")
		}
	}
	if _, err := s.byID(ctx, tournamentID); err != nil {
		return nil, err
	}

	lineup := &models.TournamentLineup{
		TournamentID: tournamentID,
		ClubID:       input.ClubID,
		PlayerID:     input.PlayerID,
		Player2ID:    input.Player2ID,
		Category:     category,
	}
	if err := s.tournamentRepo.AddLineup(ctx, lineup); err != nil {
		return nil, s.translate(err, ErrTournamentUpdateFailed)
	}
	return lineup, nil
}

func (s *tournamentService) AddEntry(ctx context.Context, tournamentID int, input EntryInput) (*models.TournamentEntry, error) {
	t, err := s.byID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	entry := newEntry(t, input)
	if err := s.tournamentRepo.CreateEntry(ctx, &entry); err != nil {
		return nil, s.translate(err, ErrTournamentUpdateFailed)
	}
	return &entry, nil
}

func (s *tournamentService) DeleteEntry(ctx context.Context, tournamentID, entryID int) error {
	if _, err := s.byID(ctx, tournamentID); err != nil {
		return err
	}
	if err := s.tournamentRepo.DeleteEntry(ctx, tournamentID, entryID); err != nil {
		return s.translate(err, ErrTournamentUpdateFailed)
	}
	return nil
}

func (s *tournamentService) ListWinners(ctx context.Context) ([]models.TournamentWinnerSummary, error) {
	winners, err := s.tournamentRepo.ListWinners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	if winners == nil {
		winners = []models.TournamentWinnerSummary{}
	}
	return winners, nil
}

func (s *tournamentService) SetWinners(ctx context.Context, tournamentID int, input WinnersInput) (*models.TournamentWinner, error) {
	verrs := validation.Errors{}
	placed := map[string]*int{
		"first_place_player_id":  input.FirstPlacePlayerID,
		"second_place_player_id": input.SecondPlacePlayerID,
		"third_place_player_id":  input.ThirdPlacePlayerID,
	}
	seen := make(map[int]bool)
	for _, key := range []string{"first_place_player_id", "second_place_player_id", "third_place_player_id"} {
		if id := placed[key]; id != nil {
			if seen[*id] {
				verrs.Add(key, "player is already placed")
			}
			seen[*id] = true
		}
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	t, err := s.byID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	winners := &models.TournamentWinner{
		TournamentID:        tournamentID,
		FirstPlaceClubID:    input.FirstPlaceClubID,
		SecondPlaceClubID:   input.SecondPlaceClubID,
		ThirdPlaceClubID:    input.ThirdPlaceClubID,
		FirstPlacePlayerID:  input.FirstPlacePlayerID,
		SecondPlacePlayerID: input.SecondPlacePlayerID,
		ThirdPlacePlayerID:  input.ThirdPlacePlayerID,
		UpdatedAt:           time.Now().UTC(),
	}
	if err := s.tournamentRepo.UpsertWinners(ctx, winners); err != nil {
		return nil, s.translate(err, ErrTournamentUpdateFailed)
	}

	stored, err := s.tournamentRepo.GetWinners(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload winners of tournament %d: %w", tournamentID, err)
	}
	s.notifier.Publish(t.Slug, EventTournamentWinners, stored)
	return stored, nil
}
