package models

import (
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TournamentStatus string

const (
	StatusDraft      TournamentStatus = "DRAFT"
	StatusUpcoming   TournamentStatus = "Upcoming"
	StatusInProgress TournamentStatus = "In Progress"
	StatusFinished   TournamentStatus = "Finished"
	StatusCancelled  TournamentStatus = "Cancelled"
)

const (
	MinPhase = 1
	MaxPhase = 7

	DefaultTimezone  = "Asia/Tbilisi"
	DefaultVenueMode = "single"
)

type Tournament struct {
	ID                      int              `gorm:"primaryKey" json:"id"`
	Name                    string           `json:"name"`
	Slug                    string           `json:"slug"`
	StartDate               Date             `json:"start_date"`
	EndDate                 Date             `json:"end_date"`
	Timezone                string           `json:"timezone"`
	OrganizerOrganizationID *int             `json:"organizer_organization_id,omitempty"`
	Status                  TournamentStatus `json:"status"`
	CurrentPhase            int              `json:"current_phase"`
	LastCompletedPhase      int              `json:"last_completed_phase"`
	ReadinessPercent        int              `gorm:"-" json:"readiness_percent"`
	RegistrationDeadlineAt  *time.Time       `json:"registration_deadline_at,omitempty"`
	LogoURL                 *string          `json:"logo_url,omitempty"`
	BannerURL               *string          `json:"banner_url,omitempty"`
	InvitesEnabled          bool             `json:"invites_enabled"`
	InvitesOpenAt           *time.Time       `json:"invites_open_at,omitempty"`
	InvitesCloseAt          *time.Time       `json:"invites_close_at,omitempty"`
	PublicRegistration      bool             `json:"public_registration"`
	AllowWaitlist           bool             `json:"allow_waitlist"`
	ShowBracketPublicly     bool             `json:"show_bracket_publicly"`
	AutoApproveEntries      bool             `json:"auto_approve_entries"`
	AllowEntryEditing       bool             `json:"allow_entry_editing"`
	VenueMode               string           `json:"venue_mode"`
	AvgMatchDurationMin     *int             `json:"avg_match_duration_min,omitempty"`
	MatchBufferMin          *int             `json:"match_buffer_min,omitempty"`
	EnforceQuietHours       bool             `json:"enforce_quiet_hours"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
	DeletedAt               gorm.DeletedAt   `json:"-"`
}

// ComputeReadiness derives the setup progress from the current phase.
func (t *Tournament) ComputeReadiness() {
	phase := t.CurrentPhase
	if phase < MinPhase {
		phase = MinPhase
	}
	t.ReadinessPercent = int(math.Round(float64(phase-1) * 100 / float64(MaxPhase-1)))
}

func (t *Tournament) AfterFind(*gorm.DB) error {
	t.ComputeReadiness()
	return nil
}

type TournamentVenue struct {
	TournamentID     int     `gorm:"primaryKey;autoIncrement:false" json:"-"`
	VenueName        *string `json:"venue_name,omitempty"`
	VenueCity        *string `json:"venue_city,omitempty"`
	VenueCountryCode *string `json:"venue_country_code,omitempty"`
	Location         *string `json:"location,omitempty"`
}

type TournamentEvent struct {
	ID                    int            `gorm:"primaryKey" json:"id"`
	TournamentID          int            `json:"-"`
	EventName             string         `json:"event_name"`
	Discipline            string         `json:"discipline"`
	Category              string         `json:"category"`
	Level                 *string        `json:"level,omitempty"`
	ScoringFormat         *string        `json:"scoring_format,omitempty"`
	MaxEntries            *int           `json:"max_entries,omitempty"`
	EntryFee              *float64       `json:"entry_fee,omitempty"`
	Currency              *string        `json:"currency,omitempty"`
	MemberPerks           *string        `json:"member_perks,omitempty"`
	DrawType              *string        `json:"draw_type,omitempty"`
	DrawSetup             datatypes.JSON `json:"draw_setup,omitempty"`
	GenerationRules       datatypes.JSON `json:"generation_rules,omitempty"`
	SeedingMode           *string        `json:"seeding_mode,omitempty"`
	LockEntries           bool           `json:"lock_entries"`
	PublishBracketPreview bool           `json:"publish_bracket_preview"`
	BracketVisibility     *string        `json:"bracket_visibility,omitempty"`
}

type TournamentCourt struct {
	ID           int     `gorm:"primaryKey" json:"id"`
	TournamentID int     `json:"-"`
	CourtName    string  `json:"court_name"`
	CourtNumber  *int    `json:"court_number,omitempty"`
	VenueLabel   *string `json:"venue_label,omitempty"`
}

type TournamentTimeBlock struct {
	ID                int     `gorm:"primaryKey" json:"id"`
	TournamentID      int     `json:"-"`
	BlockType         *string `json:"block_type,omitempty"`
	BlockLabel        *string `json:"block_label,omitempty"`
	BlockDate         Date    `json:"block_date"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	LunchBreakEnabled bool    `json:"lunch_break_enabled"`
	BreakStartTime    *string `json:"break_start_time,omitempty"`
	BreakEndTime      *string `json:"break_end_time,omitempty"`
}

// TournamentEntry is a registration of a player (or a named team) for a tournament event.
type TournamentEntry struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	TournamentID    int       `json:"tournament_id"`
	EventID         *int      `json:"event_id,omitempty"`
	PlayerID        *int      `json:"player_id,omitempty"`
	EntryName       string    `json:"entry_name"`
	EntryType       *string   `json:"entry_type,omitempty"`
	EntryCategory   *string   `json:"entry_category,omitempty"`
	EntryDiscipline *string   `json:"entry_discipline,omitempty"`
	ApprovalStatus  string    `json:"approval_status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (TournamentEntry) TableName() string {
	return "tournament_entries"
}

type TournamentWinner struct {
	ID                  int       `gorm:"primaryKey" json:"id"`
	TournamentID        int       `json:"tournament_id"`
	FirstPlaceClubID    *int      `json:"first_place_club_id,omitempty"`
	SecondPlaceClubID   *int      `json:"second_place_club_id,omitempty"`
	ThirdPlaceClubID    *int      `json:"third_place_club_id,omitempty"`
	FirstPlacePlayerID  *int      `json:"first_place_player_id,omitempty"`
	SecondPlacePlayerID *int      `json:"second_place_player_id,omitempty"`
	ThirdPlacePlayerID  *int      `json:"third_place_player_id,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// PlacedPlayers returns the podium player ids keyed by placement (1..3).
func (w TournamentWinner) PlacedPlayers() map[int]int {
	placed := make(map[int]int, 3)
	for place, id := range []*int{w.FirstPlacePlayerID, w.SecondPlacePlayerID, w.ThirdPlacePlayerID} {
		if id != nil {
			placed[place+1] = *id
		}
	}
	return placed
}

type TournamentLineup struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	TournamentID int    `json:"tournament_id"`
	ClubID       *int   `json:"club_id,omitempty"`
	PlayerID     int    `json:"player_id"`
	Player2ID    *int   `gorm:"column:player_2_id" json:"player_2_id,omitempty"`
	Category     string `json:"category"`
}

type TournamentWinnerSummary struct {
	TournamentWinner
	TournamentName string `json:"tournament_name"`
	TournamentSlug string `json:"tournament_slug"`
}

type TournamentDetail struct {
	Tournament
	Venue      *TournamentVenue      `json:"venue,omitempty"`
	Events     []TournamentEvent     `json:"events"`
	Courts     []TournamentCourt     `json:"courts"`
	TimeBlocks []TournamentTimeBlock `json:"time_blocks"`
	Entries    []TournamentEntry     `json:"entries"`
	Winners    *TournamentWinner     `json:"winners,omitempty"`
}

type TournamentLineupView struct {
	TournamentLineup
	Player  *PlayerRef `json:"player,omitempty"`
	Partner *PlayerRef `json:"partner,omitempty"`
}
