package models

import (
	"time"

	"gorm.io/gorm"
)

type Coach struct {
	ID                   int            `gorm:"primaryKey" json:"id"`
	FirstName            string         `json:"first_name"`
	LastName             string         `json:"last_name"`
	Slug                 string         `json:"slug"`
	CertificationLevel   *string        `json:"certification_level,omitempty"`
	CertificationLevelID *int           `json:"certification_level_id,omitempty"`
	ClubID               *int           `json:"club_id,omitempty"`
	ImageURL             *string        `json:"image_url,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `json:"-"`
}

func (c Coach) FullName() string {
	return c.FirstName + " " + c.LastName
}
