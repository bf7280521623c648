package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
	"github.com/gnbf/badminton-registry/validation"
	"golang.org/x/sync/errgroup"
)

const matchHistoryLimit = 10

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetProfile(ctx context.Context, slug string) (*models.PlayerProfile, error)
	List(ctx context.Context, gender string, clubID *int) ([]models.Player, error)
	ListByGender(ctx context.Context, gender string) ([]models.Player, error)
	Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id int) error
	Stats(ctx context.Context, slug string) (*models.PlayerStats, error)
	MatchHistory(ctx context.Context, slug string) ([]models.MatchView, error)
	TournamentHistory(ctx context.Context, slug string) ([]models.PlayerTournamentResult, error)
}

type CreatePlayerInput struct {
	RegistrationNumber *string      `json:"registration_number" validate:"omitempty,min=1,max=50"`
	FirstName          string       `json:"first_name" validate:"required,max=100"`
	LastName           string       `json:"last_name" validate:"required,max=100"`
	FirstNameGeo       *string      `json:"first_name_geo" validate:"omitempty,max=100"`
	LastNameGeo        *string      `json:"last_name_geo" validate:"omitempty,max=100"`
	Gender             string       `json:"gender" validate:"required"`
	BirthDate          *models.Date `json:"birth_date"`
	NationalityCode    *string      `json:"nationality_code" validate:"omitempty,len=3,alpha"`
	Slug               string       `json:"slug" validate:"omitempty,slug,max=255"`
	ImageURL           *string      `json:"image_url" validate:"omitempty,url,max=500"`
	ClubID             *int         `json:"club_id" validate:"omitempty,min=1"`
	MetricSpeed        *int         `json:"metric_speed" validate:"omitempty,min=0,max=100"`
	MetricStamina      *int         `json:"metric_stamina" validate:"omitempty,min=0,max=100"`
	MetricAgility      *int         `json:"metric_agility" validate:"omitempty,min=0,max=100"`
	MetricPower        *int         `json:"metric_power" validate:"omitempty,min=0,max=100"`
}

type UpdatePlayerInput struct {
	RegistrationNumber *string      `json:"registration_number" validate:"omitempty,min=1,max=50"`
	FirstName          *string      `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName           *string      `json:"last_name" validate:"omitempty,min=1,max=100"`
	FirstNameGeo       *string      `json:"first_name_geo" validate:"omitempty,max=100"`
	LastNameGeo        *string      `json:"last_name_geo" validate:"omitempty,max=100"`
	Gender             *string      `json:"gender"`
	BirthDate          *models.Date `json:"birth_date"`
	NationalityCode    *string      `json:"nationality_code" validate:"omitempty,len=3,alpha"`
	Slug               *string      `json:"slug" validate:"omitempty,slug,max=255"`
	ClubID             *int         `json:"club_id" validate:"omitempty,min=1"`
	MetricSpeed        *int         `json:"metric_speed" validate:"omitempty,min=0,max=100"`
	MetricStamina      *int         `json:"metric_stamina" validate:"omitempty,min=0,max=100"`
	MetricAgility      *int         `json:"metric_agility" validate:"omitempty,min=0,max=100"`
	MetricPower        *int         `json:"metric_power" validate:"omitempty,min=0,max=100"`
}

type playerService struct {
	playerRepo  repositories.PlayerRepository
	clubRepo    repositories.ClubRepository
	matchRepo   repositories.MatchRepository
	rankingRepo repositories.RankingRepository
	views       matchViewBuilder
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	clubRepo repositories.ClubRepository,
	matchRepo repositories.MatchRepository,
	rankingRepo repositories.RankingRepository,
) PlayerService {
	return &playerService{
		playerRepo:  playerRepo,
		clubRepo:    clubRepo,
		matchRepo:   matchRepo,
		rankingRepo: rankingRepo,
		views:       matchViewBuilder{playerRepo: playerRepo},
	}
}

// NormalizeGender accepts M/F and the spelled out forms.
func NormalizeGender(gender string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "m", "male", "men", "man":
		return models.GenderMale, nil
	case "f", "female", "women", "woman":
		return models.GenderFemale, nil
	}
	return "", validation.Field("gender", "must be one of: M, F")
}

func (s *playerService) translate(err error, failed error) error {
	switch {
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrPlayerSlugConflict):
		return ErrPlayerSlugConflict
	case errors.Is(err, repositories.ErrPlayerRegistrationConflict):
		return ErrPlayerRegistrationConflict
	case errors.Is(err, repositories.ErrPlayerInvalidClub):
		return fmt.Errorf("%w: club", ErrInvalidReference)
	}
	return fmt.Errorf("%w: %w", failed, err)
}

func metricOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	gender, err := NormalizeGender(input.Gender)
	if err != nil {
		return nil, err
	}

	player := &models.Player{
		RegistrationNumber: input.RegistrationNumber,
		FirstName:          strings.TrimSpace(input.FirstName),
		LastName:           strings.TrimSpace(input.LastName),
		FirstNameGeo:       input.FirstNameGeo,
		LastNameGeo:        input.LastNameGeo,
		Gender:             gender,
		BirthDate:          input.BirthDate,
		NationalityCode:    upperPtr(input.NationalityCode),
		ImageURL:           input.ImageURL,
		ClubID:             input.ClubID,
		MetricSpeed:        metricOr(input.MetricSpeed, models.DefaultMetricSpeed),
		MetricStamina:      metricOr(input.MetricStamina, models.DefaultMetricStamina),
		MetricAgility:      metricOr(input.MetricAgility, models.DefaultMetricAgility),
		MetricPower:        metricOr(input.MetricPower, models.DefaultMetricPower),
	}

	generated := Slugify(player.FullName())
	if generated == "" {
		generated = fallbackSlug("player")
	}
	err = createWithSlug(ctx, input.Slug, generated, repositories.ErrPlayerSlugConflict,
		func(ctx context.Context, slug string) error {
			player.ID = 0
			player.Slug = slug
			return s.playerRepo.Create(ctx, player)
		})
	if err != nil {
		return nil, s.translate(err, ErrPlayerCreationFailed)
	}
	return player, nil
}

func upperPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToUpper(*s)
	return &v
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by id %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) bySlug(ctx context.Context, slug string) (*models.Player, error) {
	player, err := s.playerRepo.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by slug %q: %w", slug, err)
	}
	return player, nil
}

func (s *playerService) GetProfile(ctx context.Context, slug string) (*models.PlayerProfile, error) {
	player, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	profile := &models.PlayerProfile{Player: *player, Rankings: []models.CategoryRank{}}

	g, gctx := errgroup.WithContext(ctx)
	if player.ClubID != nil {
		g.Go(func() error {
			club, err := s.clubRepo.GetByID(gctx, *player.ClubID)
			if err != nil {
				if errors.Is(err, repositories.ErrClubNotFound) {
					return nil
				}
				return fmt.Errorf("failed to get club %d: %w", *player.ClubID, err)
			}
			profile.ClubName = &club.Name
			profile.ClubLogo = club.LogoURL
			return nil
		})
	}
	g.Go(func() error {
		rankings, err := s.rankingRepo.ListForPlayer(gctx, player.ID)
		if err != nil {
			return fmt.Errorf("failed to get rankings of player %d: %w", player.ID, err)
		}
		for _, r := range rankings {
			if r.CurrentRank != nil {
				profile.Rankings = append(profile.Rankings, models.CategoryRank{Category: r.Category, Rank: *r.CurrentRank})
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *playerService) List(ctx context.Context, gender string, clubID *int) ([]models.Player, error) {
	filter := models.PlayerFilter{ClubID: clubID}
	if gender != "" {
		g, err := NormalizeGender(gender)
		if err != nil {
			return nil, err
		}
		filter.Gender = g
	}
	players, err := s.playerRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	if players == nil {
		players = []models.Player{}
	}
	return players, nil
}

func (s *playerService) ListByGender(ctx context.Context, gender string) ([]models.Player, error) {
	if strings.TrimSpace(gender) == "" {
		return nil, validation.Field("gender", "is required")
	}
	return s.List(ctx, gender, nil)
}

func (s *playerService) Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, ErrPlayerUpdateFailed)
	}

	if input.Gender != nil {
		gender, err := NormalizeGender(*input.Gender)
		if err != nil {
			return nil, err
		}
		player.Gender = gender
	}
	if input.RegistrationNumber != nil {
		player.RegistrationNumber = input.RegistrationNumber
	}
	if input.FirstName != nil {
		player.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		player.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.FirstNameGeo != nil {
		player.FirstNameGeo = input.FirstNameGeo
	}
	if input.LastNameGeo != nil {
		player.LastNameGeo = input.LastNameGeo
	}
	if input.BirthDate != nil {
		player.BirthDate = input.BirthDate
	}
	if input.NationalityCode != nil {
		player.NationalityCode = upperPtr(input.NationalityCode)
	}
	if input.Slug != nil {
		player.Slug = *input.Slug
	}
	if input.ClubID != nil {
		player.ClubID = input.ClubID
	}
	player.MetricSpeed = metricOr(input.MetricSpeed, player.MetricSpeed)
	player.MetricStamina = metricOr(input.MetricStamina, player.MetricStamina)
	player.MetricAgility = metricOr(input.MetricAgility, player.MetricAgility)
	player.MetricPower = metricOr(input.MetricPower, player.MetricPower)

	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, s.translate(err, ErrPlayerUpdateFailed)
	}
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		return s.translate(err, ErrPlayerDeleteFailed)
	}
	return nil
}

func (s *playerService) Stats(ctx context.Context, slug string) (*models.PlayerStats, error) {
	player, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	records, err := s.matchRepo.ListByPlayer(ctx, player.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of player %d: %w", player.ID, err)
	}
	return computeStats(player.ID, records), nil
}

// computeStats aggregates a player's record. Matches without a winner count as
// played but neither won nor lost.
func computeStats(playerID int, records []models.MatchRecord) *models.PlayerStats {
	stats := &models.PlayerStats{
		PlayerID:   playerID,
		ByCategory: make(map[string]models.CategoryRecord),
	}
	tournaments := make(map[int]struct{})
	for _, rec := range records {
		side := sideOf(rec, playerID)
		if side == 0 {
			continue
		}
		tournaments[rec.TournamentID] = struct{}{}

		cat := stats.ByCategory[rec.Category]
		stats.MatchesPlayed++
		cat.Played++
		switch rec.WinningSide() {
		case side:
			stats.MatchesWon++
			cat.Won++
		case 0:
		default:
			stats.MatchesLost++
			cat.Lost++
		}
		stats.ByCategory[rec.Category] = cat

		s1, s2 := setsWon(rec.IndividualMatch)
		if side == 1 {
			stats.SetsWon += s1
			stats.SetsLost += s2
		} else {
			stats.SetsWon += s2
			stats.SetsLost += s1
		}
	}
	stats.TournamentsPlayed = len(tournaments)
	if decided := stats.MatchesWon + stats.MatchesLost; decided > 0 {
		stats.WinRate = math.Round(float64(stats.MatchesWon)*1000/float64(decided)) / 10
	}
	return stats
}

func (s *playerService) MatchHistory(ctx context.Context, slug string) ([]models.MatchView, error) {
	player, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	records, err := s.matchRepo.ListByPlayer(ctx, player.ID, matchHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of player %d: %w", player.ID, err)
	}
	return s.views.build(ctx, records)
}

func (s *playerService) TournamentHistory(ctx context.Context, slug string) ([]models.PlayerTournamentResult, error) {
	player, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	results, err := s.rankingRepo.PlayerTournamentHistory(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament history of player %d: %w", player.ID, err)
	}
	if results == nil {
		results = []models.PlayerTournamentResult{}
	}
	return results, nil
}
