package services

import "errors"

// Shared errors used across services and by the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// validation and business rules
	ErrInvalidReference   = errors.New("referenced record does not exist")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrIncorrectPassword  = errors.New("current password is incorrect")

	// conflicts
	ErrUserEmailConflict          = errors.New("email is already registered")
	ErrClubSlugConflict           = errors.New("club slug already exists")
	ErrPlayerSlugConflict         = errors.New("player slug already exists")
	ErrPlayerRegistrationConflict = errors.New("registration number already exists")
	ErrCoachSlugConflict          = errors.New("coach slug already exists")
	ErrOfficialSlugConflict       = errors.New("official slug already exists")
	ErrTournamentSlugConflict     = errors.New("tournament slug already exists")
	ErrEntryConflict              = errors.New("player is already registered for this event")
	ErrLineupConflict             = errors.New("player is already in the lineup for this category")

	// authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// entity specific not-found errors
	ErrUserNotFound       = errors.New("user not found")
	ErrClubNotFound       = errors.New("club not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrCoachNotFound      = errors.New("coach not found")
	ErrOfficialNotFound   = errors.New("official not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrEntryNotFound      = errors.New("tournament entry not found")
	ErrWinnersNotFound    = errors.New("tournament winners not found")
	ErrTieNotFound        = errors.New("match tie not found")
	ErrMatchNotFound      = errors.New("match not found")

	// unexpected failures
	ErrUserCreationFailed       = errors.New("failed to create user")
	ErrClubCreationFailed       = errors.New("failed to create club")
	ErrClubUpdateFailed         = errors.New("failed to update club")
	ErrClubDeleteFailed         = errors.New("failed to delete club")
	ErrPlayerCreationFailed     = errors.New("failed to create player")
	ErrPlayerUpdateFailed       = errors.New("failed to update player")
	ErrPlayerDeleteFailed       = errors.New("failed to delete player")
	ErrCoachCreationFailed      = errors.New("failed to create coach")
	ErrCoachUpdateFailed        = errors.New("failed to update coach")
	ErrCoachDeleteFailed        = errors.New("failed to delete coach")
	ErrOfficialCreationFailed   = errors.New("failed to create official")
	ErrOfficialUpdateFailed     = errors.New("failed to update official")
	ErrOfficialDeleteFailed     = errors.New("failed to delete official")
	ErrTournamentCreationFailed = errors.New("failed to create tournament")
	ErrTournamentUpdateFailed   = errors.New("failed to update tournament")
	ErrTournamentDeleteFailed   = errors.New("failed to delete tournament")
	ErrMatchCreationFailed      = errors.New("failed to create match")
	ErrRankingCalculationFailed = errors.New("failed to calculate rankings")
	ErrUploadFailed             = errors.New("failed to upload file")
	ErrStorageDisabled          = errors.New("file storage is not configured")
	ErrHealthCheckFailed        = errors.New("database unavailable")
)
