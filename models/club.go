package models

import (
	"time"

	"gorm.io/gorm"
)

type Club struct {
	ID          int            `gorm:"primaryKey" json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Location    *string        `json:"location,omitempty"`
	LogoURL     *string        `json:"logo_url,omitempty"`
	HeadCoachID *int           `json:"head_coach_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"`
}

type ClubDetail struct {
	Club
	HeadCoach   *Coach `json:"head_coach,omitempty"`
	PlayerCount int64  `json:"player_count"`
}
