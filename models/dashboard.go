package models

// RegistryStats is the admin overview of what the registry holds.
type RegistryStats struct {
	UsersTotal            int64 `json:"users_total"`
	AdminsTotal           int64 `json:"admins_total"`
	PlayersTotal          int64 `json:"players_total"`
	ClubsTotal            int64 `json:"clubs_total"`
	TournamentsTotal      int64 `json:"tournaments_total"`
	TournamentsInProgress int64 `json:"tournaments_in_progress"`
}
