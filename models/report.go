package models

type ClubLeader struct {
	ClubID     int     `json:"club_id"`
	ClubName   string  `json:"club_name"`
	ClubSlug   string  `json:"club_slug"`
	ClubLogo   *string `json:"club_logo,omitempty"`
	MatchesWon int     `json:"matches_won"`
}

type PlayerLeader struct {
	Player     PlayerRef `json:"player"`
	ClubName   *string   `json:"club_name,omitempty"`
	ClubLogo   *string   `json:"club_logo,omitempty"`
	MatchesWon int       `json:"matches_won"`
}

// TournamentStats summarizes the matches played in one tournament. TotalPoints
// is the sum of rally points over every parsable set score.
type TournamentStats struct {
	TotalMatches      int            `json:"total_matches"`
	DecidedMatches    int            `json:"decided_matches"`
	TotalDuration     int            `json:"total_duration"`
	TotalPoints       int            `json:"total_points"`
	TotalPlayers      int            `json:"total_players"`
	TotalClubs        int            `json:"total_clubs"`
	MVP               *PlayerLeader  `json:"mvp"`
	ClubLeaderboard   []ClubLeader   `json:"club_leaderboard"`
	PlayerLeaderboard []PlayerLeader `json:"player_leaderboard"`
}

// ClubStanding is one club's line in a group table. HeadToHead maps the
// opponent club id to the tie score seen from this club.
type ClubStanding struct {
	ClubID        int               `json:"club_id"`
	ClubName      string            `json:"club_name"`
	ClubLogo      *string           `json:"club_logo,omitempty"`
	MatchesPlayed int               `json:"matches_played"`
	MatchesWon    int               `json:"matches_won"`
	MatchesLost   int               `json:"matches_lost"`
	Points        int               `json:"points"`
	HeadToHead    map[string]string `json:"head_to_head"`
}

type Standings struct {
	Groups map[string][]ClubStanding `json:"groups"`
}

type RosterEntry struct {
	Category    string  `json:"category"`
	Player1Name string  `json:"player1_name"`
	Player2Name *string `json:"player2_name,omitempty"`
}

type TournamentTeam struct {
	ClubID    int           `json:"club_id"`
	ClubName  string        `json:"club_name"`
	ClubLogo  *string       `json:"club_logo,omitempty"`
	CoachName *string       `json:"coach_name,omitempty"`
	Roster    []RosterEntry `json:"roster"`
}

type TournamentRef struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	StartDate Date   `json:"start_date"`
}

type CoachStats struct {
	TournamentCount   int             `json:"tournament_count"`
	RecentTournaments []TournamentRef `json:"recent_tournaments"`
}
