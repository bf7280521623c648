package models

import "time"

const (
	AchievementPlacement = "placement"
	AchievementMatchWin  = "match_win"
	AchievementSetWin    = "set_win"
)

type RankingPointConfig struct {
	ID              int     `gorm:"primaryKey" json:"id"`
	AchievementType string  `json:"achievement_type"`
	AchievementKey  string  `json:"achievement_key"`
	Category        *string `json:"category,omitempty"`
	Points          int     `json:"points"`
	Active          bool    `json:"active"`
}

func (RankingPointConfig) TableName() string {
	return "ranking_point_config"
}

type TournamentPlayerPoints struct {
	ID              int       `gorm:"primaryKey" json:"-"`
	TournamentID    int       `json:"tournament_id"`
	PlayerID        int       `json:"player_id"`
	Category        string    `json:"category"`
	PlacementPoints int       `json:"placement_points"`
	MatchPoints     int       `json:"match_points"`
	SetPoints       int       `json:"set_points"`
	TotalPoints     int       `json:"total_points"`
	MatchesWon      int       `json:"matches_won"`
	MatchesLost     int       `json:"matches_lost"`
	SetsWon         int       `json:"sets_won"`
	SetsLost        int       `json:"sets_lost"`
	FinalPlacement  *int      `json:"final_placement,omitempty"`
	AwardedAt       time.Time `json:"awarded_at"`
}

func (TournamentPlayerPoints) TableName() string {
	return "tournament_player_points"
}

type PlayerRanking struct {
	PlayerID          int       `gorm:"primaryKey;autoIncrement:false" json:"player_id"`
	Category          string    `gorm:"primaryKey" json:"category"`
	CurrentRank       *int      `json:"current_rank,omitempty"`
	PreviousRank      *int      `json:"previous_rank,omitempty"`
	TotalPoints       int       `json:"total_points"`
	TournamentPoints  int       `json:"tournament_points"`
	MatchPoints       int       `json:"match_points"`
	SetPoints         int       `json:"set_points"`
	TournamentsPlayed int       `json:"tournaments_played"`
	MatchesWon        int       `json:"matches_won"`
	MatchesLost       int       `json:"matches_lost"`
	SetsWon           int       `json:"sets_won"`
	SetsLost          int       `json:"sets_lost"`
	PeakRank          *int      `json:"peak_rank,omitempty"`
	PeakRankDate      *Date     `json:"peak_rank_date,omitempty"`
	LastUpdated       time.Time `json:"last_updated"`
}

const (
	RankUp   = "up"
	RankDown = "down"
	RankSame = "same"
)

type RankingEntry struct {
	PlayerRanking
	Player PlayerRef `json:"player"`
	Change string    `json:"change"`
}

// Movement compares the current and previous rank.
func (r PlayerRanking) Movement() string {
	if r.CurrentRank == nil || r.PreviousRank == nil {
		return RankSame
	}
	switch {
	case *r.CurrentRank < *r.PreviousRank:
		return RankUp
	case *r.CurrentRank > *r.PreviousRank:
		return RankDown
	}
	return RankSame
}

type PlayerRankings struct {
	Player   PlayerRef       `json:"player"`
	Rankings []PlayerRanking `json:"rankings"`
}

type TournamentPointsEntry struct {
	TournamentPlayerPoints
	Player PlayerRef `json:"player"`
}

type CalculationSummary struct {
	TournamentID     int `json:"tournament_id"`
	PlayersAwarded   int `json:"players_awarded"`
	MatchesProcessed int `json:"matches_processed"`
	PointsAwarded    int `json:"points_awarded"`
}

type RecalculationOutcome struct {
	TournamentID   int    `json:"tournament_id"`
	TournamentName string `json:"name"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
}

type RecalculationResult struct {
	TournamentsProcessed int                    `json:"tournaments_processed"`
	Successful           int                    `json:"successful"`
	Failed               int                    `json:"failed"`
	Details              []RecalculationOutcome `json:"details"`
}

// RankingSnapshot is the rank a player held in a category at the end of a day.
type RankingSnapshot struct {
	ID          int    `gorm:"primaryKey" json:"-"`
	PlayerID    int    `json:"player_id"`
	Category    string `json:"category"`
	Rank        int    `json:"rank"`
	TotalPoints int    `json:"total_points"`
	RecordedAt  Date   `json:"recorded_at"`
}

func (RankingSnapshot) TableName() string {
	return "ranking_history"
}

type RankingHistoryPoint struct {
	Date   Date `json:"date"`
	Rank   int  `json:"rank"`
	Points int  `json:"points"`
}

type RankingHistory struct {
	PlayerID int                              `json:"player_id"`
	Player   PlayerRef                        `json:"player"`
	Days     int                              `json:"days"`
	History  map[string][]RankingHistoryPoint `json:"history"`
}
