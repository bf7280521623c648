package models

import (
	"time"

	"gorm.io/gorm"
)

// OfficialKind selects the table an official lives in. Umpires and referees
// share one shape.
type OfficialKind string

const (
	OfficialUmpire  OfficialKind = "umpires"
	OfficialReferee OfficialKind = "referees"
)

func (k OfficialKind) Valid() bool {
	return k == OfficialUmpire || k == OfficialReferee
}

func (k OfficialKind) Table() string {
	return string(k)
}

// Singular is used in response envelopes and error messages.
func (k OfficialKind) Singular() string {
	switch k {
	case OfficialUmpire:
		return "umpire"
	case OfficialReferee:
		return "referee"
	}
	return "official"
}

type Official struct {
	ID                 int            `gorm:"primaryKey" json:"id"`
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	Slug               string         `json:"slug"`
	ImageURL           *string        `json:"image_url,omitempty"`
	CertificationLevel *string        `json:"certification_level,omitempty"`
	NationalityCode    *string        `json:"nationality_code,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-"`
}

type UmpireStats struct {
	Umpire            Official       `json:"umpire"`
	MatchesOfficiated int64          `json:"matches_officiated"`
	ByCategory        map[string]int `json:"by_category"`
}
