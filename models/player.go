package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GenderMale   = "M"
	GenderFemale = "F"
)

const (
	DefaultMetricSpeed   = 85
	DefaultMetricStamina = 78
	DefaultMetricAgility = 92
	DefaultMetricPower   = 74
)

type Player struct {
	ID                 int            `gorm:"primaryKey" json:"id"`
	RegistrationNumber *string        `json:"registration_number,omitempty"`
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	FirstNameGeo       *string        `json:"first_name_geo,omitempty"`
	LastNameGeo        *string        `json:"last_name_geo,omitempty"`
	Gender             string         `json:"gender"`
	BirthDate          *Date          `json:"birth_date,omitempty"`
	NationalityCode    *string        `json:"nationality_code,omitempty"`
	Slug               string         `json:"slug"`
	ImageURL           *string        `json:"image_url,omitempty"`
	ClubID             *int           `json:"club_id,omitempty"`
	MetricSpeed        int            `json:"metric_speed"`
	MetricStamina      int            `json:"metric_stamina"`
	MetricAgility      int            `json:"metric_agility"`
	MetricPower        int            `json:"metric_power"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-"`
}

func (p Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

func (p Player) Ref() PlayerRef {
	return PlayerRef{ID: p.ID, Slug: p.Slug, FirstName: p.FirstName, LastName: p.LastName, ImageURL: p.ImageURL}
}

// PlayerRef is the compact player shape embedded in match and ranking responses.
type PlayerRef struct {
	ID        int     `json:"id"`
	Slug      string  `json:"slug"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	ImageURL  *string `json:"image_url,omitempty"`
}

type PlayerFilter struct {
	Gender string
	ClubID *int
}

type CategoryRank struct {
	Category string `json:"category"`
	Rank     int    `json:"rank"`
}

type PlayerProfile struct {
	Player
	ClubName *string        `json:"club_name,omitempty"`
	ClubLogo *string        `json:"club_logo,omitempty"`
	Rankings []CategoryRank `json:"rankings"`
}

type CategoryRecord struct {
	Played int `json:"played"`
	Won    int `json:"won"`
	Lost   int `json:"lost"`
}

type PlayerStats struct {
	PlayerID          int                       `json:"player_id"`
	TournamentsPlayed int                       `json:"tournaments_played"`
	MatchesPlayed     int                       `json:"matches_played"`
	MatchesWon        int                       `json:"matches_won"`
	MatchesLost       int                       `json:"matches_lost"`
	WinRate           float64                   `json:"win_rate"`
	SetsWon           int                       `json:"sets_won"`
	SetsLost          int                       `json:"sets_lost"`
	ByCategory        map[string]CategoryRecord `json:"by_category"`
}

type PlayerTournamentResult struct {
	TournamentID   int     `json:"tournament_id"`
	TournamentName string  `json:"tournament_name"`
	TournamentSlug string  `json:"tournament_slug"`
	StartDate      Date    `json:"start_date"`
	Category       string  `json:"category"`
	FinalPlacement *int    `json:"final_placement,omitempty"`
	TotalPoints    int     `json:"total_points"`
	MatchesWon     int     `json:"matches_won"`
	MatchesLost    int     `json:"matches_lost"`
	ClubName       *string `json:"club_name,omitempty"`
}
