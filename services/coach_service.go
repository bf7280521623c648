package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
)

type CoachService interface {
	Create(ctx context.Context, input CreateCoachInput) (*models.Coach, error)
	GetBySlug(ctx context.Context, slug string) (*models.Coach, error)
	List(ctx context.Context) ([]models.Coach, error)
	Update(ctx context.Context, id int, input UpdateCoachInput) (*models.Coach, error)
	Delete(ctx context.Context, id int) error
}

type CreateCoachInput struct {
	FirstName            string  `json:"first_name" validate:"required,max=100"`
	LastName             string  `json:"last_name" validate:"required,max=100"`
	Slug                 string  `json:"slug" validate:"omitempty,slug,max=255"`
	CertificationLevel   *string `json:"certification_level" validate:"omitempty,max=100"`
	CertificationLevelID *int    `json:"certification_level_id" validate:"omitempty,min=1"`
	ClubID               *int    `json:"club_id" validate:"omitempty,min=1"`
	ImageURL             *string `json:"image_url" validate:"omitempty,url,max=500"`
}

type UpdateCoachInput struct {
	FirstName            *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName             *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Slug                 *string `json:"slug" validate:"omitempty,slug,max=255"`
	CertificationLevel   *string `json:"certification_level" validate:"omitempty,max=100"`
	CertificationLevelID *int    `json:"certification_level_id" validate:"omitempty,min=1"`
	ClubID               *int    `json:"club_id" validate:"omitempty,min=1"`
	ImageURL             *string `json:"image_url" validate:"omitempty,url,max=500"`
}

type coachService struct {
	coachRepo repositories.CoachRepository
}

func NewCoachService(coachRepo repositories.CoachRepository) CoachService {
	return &coachService{coachRepo: coachRepo}
}

func (s *coachService) translate(err error, failed error) error {
	switch {
	case errors.Is(err, repositories.ErrCoachNotFound):
		return ErrCoachNotFound
	case errors.Is(err, repositories.ErrCoachSlugConflict):
		return ErrCoachSlugConflict
	case errors.Is(err, repositories.ErrCoachInvalidReference):
		return fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}
	return fmt.Errorf("%w: %w", failed, err)
}

func (s *coachService) Create(ctx context.Context, input CreateCoachInput) (*models.Coach, error) {
	coach := &models.Coach{
		FirstName:            strings.TrimSpace(input.FirstName),
		LastName:             strings.TrimSpace(input.LastName),
		CertificationLevel:   input.CertificationLevel,
		CertificationLevelID: input.CertificationLevelID,
		ClubID:               input.ClubID,
		ImageURL:             input.ImageURL,
	}
	generated := Slugify(coach.FullName())
	if generated == "" {
		generated = fallbackSlug("coach")
	}
	err := createWithSlug(ctx, input.Slug, generated, repositories.ErrCoachSlugConflict,
		func(ctx context.Context, slug string) error {
			coach.ID = 0
			coach.Slug = slug
			return s.coachRepo.Create(ctx, coach)
		})
	if err != nil {
		return nil, s.translate(err, ErrCoachCreationFailed)
	}
	return coach, nil
}

func (s *coachService) GetBySlug(ctx context.Context, slug string) (*models.Coach, error) {
	coach, err := s.coachRepo.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, repositories.ErrCoachNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, fmt.Errorf("failed to get coach by slug %q: %w", slug, err)
	}
	return coach, nil
}

func (s *coachService) List(ctx context.Context) ([]models.Coach, error) {
	coaches, err := s.coachRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}
	if coaches == nil {
		coaches = []models.Coach{}
	}
	return coaches, nil
}

func (s *coachService) Update(ctx context.Context, id int, input UpdateCoachInput) (*models.Coach, error) {
	coach, err := s.coachRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, ErrCoachUpdateFailed)
	}

	if input.FirstName != nil {
		coach.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		coach.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Slug != nil {
		coach.Slug = *input.Slug
	}
	if input.CertificationLevel != nil {
		coach.CertificationLevel = input.CertificationLevel
	}
	if input.CertificationLevelID != nil {
		coach.CertificationLevelID = input.CertificationLevelID
	}
	if input.ClubID != nil {
		coach.ClubID = input.ClubID
	}
	if input.ImageURL != nil {
		coach.ImageURL = input.ImageURL
	}

	if err := s.coachRepo.Update(ctx, coach); err != nil {
		return nil, s.translate(err, ErrCoachUpdateFailed)
	}
	return coach, nil
}

func (s *coachService) Delete(ctx context.Context, id int) error {
	if err := s.coachRepo.Delete(ctx, id); err != nil {
		return s.translate(err, ErrCoachDeleteFailed)
	}
	return nil
}
