package models

import "time"

const (
	MatchSingles = "singles"
	MatchDoubles = "doubles"
)

// Categories lists the ranking categories in display order.
var Categories = []string{"MS", "WS", "MD", "WD", "XD"}

func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MatchTypeFor returns the match type implied by a category.
func MatchTypeFor(category string) string {
	if category == "MS" || category == "WS" {
		return MatchSingles
	}
	return MatchDoubles
}

type MatchTie struct {
	ID           int        `gorm:"primaryKey" json:"id"`
	TournamentID int        `json:"tournament_id"`
	GroupName    *string    `json:"group_name,omitempty"`
	TieDate      *time.Time `json:"tie_date,omitempty"`
	Club1ID      *int       `gorm:"column:club_1_id" json:"club_1_id,omitempty"`
	Club2ID      *int       `gorm:"column:club_2_id" json:"club_2_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type IndividualMatch struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	TieID           int       `json:"tie_id"`
	MatchType       string    `json:"match_type"`
	Category        string    `json:"category"`
	Player1ID       *int      `gorm:"column:player_1_id" json:"player_1_id,omitempty"`
	Player2ID       *int      `gorm:"column:player_2_id" json:"player_2_id,omitempty"`
	WinnerID        *int      `json:"winner_id,omitempty"`
	Set1Score       *string   `gorm:"column:set_1_score" json:"set_1_score,omitempty"`
	Set2Score       *string   `gorm:"column:set_2_score" json:"set_2_score,omitempty"`
	Set3Score       *string   `gorm:"column:set_3_score" json:"set_3_score,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	UmpireID        *int      `json:"umpire_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (m IndividualMatch) SetScores() []string {
	var scores []string
	for _, s := range []*string{m.Set1Score, m.Set2Score, m.Set3Score} {
		if s != nil && *s != "" {
			scores = append(scores, *s)
		}
	}
	return scores
}

type MatchDoublesPlayer struct {
	ID       int `gorm:"primaryKey" json:"-"`
	MatchID  int `json:"match_id"`
	PlayerID int `json:"player_id"`
	TeamSide int `json:"team_side"`
}

// MatchRecord is an individual match together with its doubles sides and the
// tournament it was played in.
type MatchRecord struct {
	IndividualMatch
	TournamentID int                  `json:"tournament_id"`
	Doubles      []MatchDoublesPlayer `gorm:"-" json:"-"`
}

// Side returns the players on side 1 or 2. Singles sides are player_1 and player_2.
func (m MatchRecord) Side(side int) []int {
	if m.MatchType == MatchDoubles && len(m.Doubles) > 0 {
		var ids []int
		for _, d := range m.Doubles {
			if d.TeamSide == side {
				ids = append(ids, d.PlayerID)
			}
		}
		return ids
	}
	p := m.Player1ID
	if side == 2 {
		p = m.Player2ID
	}
	if p == nil {
		return nil
	}
	return []int{*p}
}

// WinningSide returns 1 or 2, or 0 when the winner is unknown.
func (m MatchRecord) WinningSide() int {
	if m.WinnerID == nil {
		return 0
	}
	for _, side := range []int{1, 2} {
		for _, id := range m.Side(side) {
			if id == *m.WinnerID {
				return side
			}
		}
	}
	return 0
}

type MatchView struct {
	IndividualMatch
	TournamentID int         `json:"tournament_id"`
	Player1      *PlayerRef  `json:"player_1,omitempty"`
	Player2      *PlayerRef  `json:"player_2,omitempty"`
	Winner       *PlayerRef  `json:"winner,omitempty"`
	Side1        []PlayerRef `json:"side_1,omitempty"`
	Side2        []PlayerRef `json:"side_2,omitempty"`
}

type MatchTieView struct {
	MatchTie
	Matches []MatchView `json:"matches"`
}

type HeadToHead struct {
	Player1     PlayerRef   `json:"player_1"`
	Player2     PlayerRef   `json:"player_2"`
	Player1Wins int         `json:"player_1_wins"`
	Player2Wins int         `json:"player_2_wins"`
	Matches     []MatchView `json:"matches"`
}
