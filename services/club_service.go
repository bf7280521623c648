package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
)

type ClubService interface {
	Create(ctx context.Context, input CreateClubInput) (*models.Club, error)
	GetBySlug(ctx context.Context, slug string) (*models.ClubDetail, error)
	List(ctx context.Context) ([]models.Club, error)
	ListPlayers(ctx context.Context, slug string) ([]models.Player, error)
	Update(ctx context.Context, id int, input UpdateClubInput) (*models.Club, error)
	Delete(ctx context.Context, id int) error
}

type CreateClubInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Slug        string  `json:"slug" validate:"omitempty,slug,max=255"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url,max=500"`
	HeadCoachID *int    `json:"head_coach_id" validate:"omitempty,min=1"`
}

type UpdateClubInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug" validate:"omitempty,slug,max=255"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url,max=500"`
	HeadCoachID *int    `json:"head_coach_id" validate:"omitempty,min=1"`
}

type clubService struct {
	clubRepo   repositories.ClubRepository
	coachRepo  repositories.CoachRepository
	playerRepo repositories.PlayerRepository
}

func NewClubService(
	clubRepo repositories.ClubRepository,
	coachRepo repositories.CoachRepository,
	playerRepo repositories.PlayerRepository,
) ClubService {
	return &clubService{
		clubRepo:   clubRepo,
		coachRepo:  coachRepo,
		playerRepo: playerRepo,
	}
}

func (s *clubService) translate(err error, failed error) error {
	switch {
	case errors.Is(err, repositories.ErrClubNotFound):
		return ErrClubNotFound
	case errors.Is(err, repositories.ErrClubSlugConflict):
		return ErrClubSlugConflict
	case errors.Is(err, repositories.ErrClubInvalidReference):
		return fmt.Errorf("%w: head coach", ErrInvalidReference)
	}
	return fmt.Errorf("%w: %w", failed, err)
}

func (s *clubService) Create(ctx context.Context, input CreateClubInput) (*models.Club, error) {
	club := &models.Club{
		Name:        input.Name,
		Location:    input.Location,
		LogoURL:     input.LogoURL,
		HeadCoachID: input.HeadCoachID,
	}
	err := createWithSlug(ctx, input.Slug, s.generateSlug(input.Name), repositories.ErrClubSlugConflict,
		func(ctx context.Context, slug string) error {
			club.ID = 0
			club.Slug = slug
			return s.clubRepo.Create(ctx, club)
		})
	if err != nil {
		return nil, s.translate(err, ErrClubCreationFailed)
	}
	return club, nil
}

func (s *clubService) generateSlug(name string) string {
	if slug := Slugify(name); slug != "" {
		return slug
	}
	return fallbackSlug("club")
}

func (s *clubService) GetBySlug(ctx context.Context, slug string) (*models.ClubDetail, error) {
	club, err := s.clubRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get club by slug %q: %w", slug, err)
	}

	detail := &models.ClubDetail{Club: *club}
	if club.HeadCoachID != nil {
		coach, err := s.coachRepo.GetByID(ctx, *club.HeadCoachID)
		switch {
		case err == nil:
			detail.HeadCoach = coach
		case !errors.Is(err, repositories.ErrCoachNotFound):
			return nil, fmt.Errorf("failed to get head coach of club %d: %w", club.ID, err)
		}
	}

	count, err := s.playerRepo.Count(ctx, models.PlayerFilter{ClubID: &club.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to count players of club %d: %w", club.ID, err)
	}
	detail.PlayerCount = count
	return detail, nil
}

func (s *clubService) List(ctx context.Context) ([]models.Club, error) {
	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	if clubs == nil {
		clubs = []models.Club{}
	}
	return clubs, nil
}

func (s *clubService) ListPlayers(ctx context.Context, slug string) ([]models.Player, error) {
	club, err := s.clubRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get club by slug %q: %w", slug, err)
	}
	players, err := s.playerRepo.List(ctx, models.PlayerFilter{ClubID: &club.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list players of club %d: %w", club.ID, err)
	}
	if players == nil {
		players = []models.Player{}
	}
	return players, nil
}

func (s *clubService) Update(ctx context.Context, id int, input UpdateClubInput) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, ErrClubUpdateFailed)
	}

	if input.Name != nil {
		club.Name = *input.Name
	}
	if input.Slug != nil {
		club.Slug = *input.Slug
	}
	if input.Location != nil {
		club.Location = input.Location
	}
	if input.LogoURL != nil {
		club.LogoURL = input.LogoURL
	}
	if input.HeadCoachID != nil {
		club.HeadCoachID = input.HeadCoachID
	}

	if err := s.clubRepo.Update(ctx, club); err != nil {
		return nil, s.translate(err, ErrClubUpdateFailed)
	}
	return club, nil
}

func (s *clubService) Delete(ctx context.Context, id int) error {
	if err := s.clubRepo.Delete(ctx, id); err != nil {
		return s.translate(err, ErrClubDeleteFailed)
	}
	return nil
}
