package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
)

// OfficialService manages umpires and referees, which share one shape.
type OfficialService interface {
	Create(ctx context.Context, kind models.OfficialKind, input CreateOfficialInput) (*models.Official, error)
	GetBySlug(ctx context.Context, kind models.OfficialKind, slug string) (*models.Official, error)
	List(ctx context.Context, kind models.OfficialKind) ([]models.Official, error)
	Update(ctx context.Context, kind models.OfficialKind, id int, input UpdateOfficialInput) (*models.Official, error)
	Delete(ctx context.Context, kind models.OfficialKind, id int) error
	UmpireStats(ctx context.Context, slug string) (*models.UmpireStats, error)
}

type CreateOfficialInput struct {
	FirstName          string  `json:"first_name" validate:"required,max=100"`
	LastName           string  `json:"last_name" validate:"required,max=100"`
	Slug               string  `json:"slug" validate:"omitempty,slug,max=255"`
	ImageURL           *string `json:"image_url" validate:"omitempty,url,max=500"`
	CertificationLevel *string `json:"certification_level" validate:"omitempty,max=100"`
	NationalityCode    *string `json:"nationality_code" validate:"omitempty,len=3,alpha"`
}

type UpdateOfficialInput struct {
	FirstName          *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName           *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Slug               *string `json:"slug" validate:"omitempty,slug,max=255"`
	ImageURL           *string `json:"image_url" validate:"omitempty,url,max=500"`
	CertificationLevel *string `json:"certification_level" validate:"omitempty,max=100"`
	NationalityCode    *string `json:"nationality_code" validate:"omitempty,len=3,alpha"`
}

type officialService struct {
	officialRepo repositories.OfficialRepository
	matchRepo    repositories.MatchRepository
}

func NewOfficialService(officialRepo repositories.OfficialRepository, matchRepo repositories.MatchRepository) OfficialService {
	return &officialService{
		officialRepo: officialRepo,
		matchRepo:    matchRepo,
	}
}

func (s *officialService) translate(err error, failed error) error {
	switch {
	case errors.Is(err, repositories.ErrOfficialNotFound):
		return ErrOfficialNotFound
	case errors.Is(err, repositories.ErrOfficialSlugConflict):
		return ErrOfficialSlugConflict
	}
	return fmt.Errorf("%w: %w", failed, err)
}

func checkKind(kind models.OfficialKind) error {
	if !kind.Valid() {
		return ErrNotFound
	}
	return nil
}

func (s *officialService) Create(ctx context.Context, kind models.OfficialKind, input CreateOfficialInput) (*models.Official, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	official := &models.Official{
		FirstName:          strings.TrimSpace(input.FirstName),
		LastName:           strings.TrimSpace(input.LastName),
		ImageURL:           input.ImageURL,
		CertificationLevel: input.CertificationLevel,
		NationalityCode:    upperPtr(input.NationalityCode),
	}
	generated := Slugify(official.FirstName + " " + official.LastName)
	if generated == "" {
		generated = fallbackSlug(kind.Singular())
	}
	err := createWithSlug(ctx, input.Slug, generated, repositories.ErrOfficialSlugConflict,
		func(ctx context.Context, slug string) error {
			official.ID = 0
			official.Slug = slug
			return s.officialRepo.Create(ctx, kind, official)
		})
	if err != nil {
		return nil, s.translate(err, ErrOfficialCreationFailed)
	}
	return official, nil
}

func (s *officialService) GetBySlug(ctx context.Context, kind models.OfficialKind, slug string) (*models.Official, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	official, err := s.officialRepo.GetBySlug(ctx, kind, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, repositories.ErrOfficialNotFound) {
			return nil, ErrOfficialNotFound
		}
		return nil, fmt.Errorf("failed to get %s by slug %q: %w", kind.Singular(), slug, err)
	}
	return official, nil
}

func (s *officialService) List(ctx context.Context, kind models.OfficialKind) ([]models.Official, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	officials, err := s.officialRepo.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	if officials == nil {
		officials = []models.Official{}
	}
	return officials, nil
}

func (s *officialService) Update(ctx context.Context, kind models.OfficialKind, id int, input UpdateOfficialInput) (*models.Official, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	official, err := s.officialRepo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, s.translate(err, ErrOfficialUpdateFailed)
	}

	if input.FirstName != nil {
		official.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		official.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Slug != nil {
		official.Slug = *input.Slug
	}
	if input.ImageURL != nil {
		official.ImageURL = input.ImageURL
	}
	if input.CertificationLevel != nil {
		official.CertificationLevel = input.CertificationLevel
	}
	if input.NationalityCode != nil {
		official.NationalityCode = upperPtr(input.NationalityCode)
	}

	if err := s.officialRepo.Update(ctx, kind, official); err != nil {
		return nil, s.translate(err, ErrOfficialUpdateFailed)
	}
	return official, nil
}

func (s *officialService) Delete(ctx context.Context, kind models.OfficialKind, id int) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	if err := s.officialRepo.Delete(ctx, kind, id); err != nil {
		return s.translate(err, ErrOfficialDeleteFailed)
	}
	return nil
}

func (s *officialService) UmpireStats(ctx context.Context, slug string) (*models.UmpireStats, error) {
	umpire, err := s.GetBySlug(ctx, models.OfficialUmpire, slug)
	if err != nil {
		return nil, err
	}
	records, err := s.matchRepo.ListByUmpire(ctx, umpire.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of umpire %d: %w", umpire.ID, err)
	}
	stats := &models.UmpireStats{
		Umpire:            *umpire,
		MatchesOfficiated: int64(len(records)),
		ByCategory:        make(map[string]int),
	}
	for _, rec := range records {
		stats.ByCategory[rec.Category]++
	}
	return stats, nil
}
