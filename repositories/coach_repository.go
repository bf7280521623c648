package repositories

import (
	"context"
	"errors"

	"github.com/gnbf/badminton-registry/models"
	"gorm.io/gorm"
)

var (
	ErrCoachNotFound         = errors.New("coach not found")
	ErrCoachSlugConflict     = errors.New("coach slug conflict")
	ErrCoachInvalidReference = errors.New("coach references a missing record")
)

type CoachRepository interface {
	Create(ctx context.Context, coach *models.Coach) error
	GetByID(ctx context.Context, id int) (*models.Coach, error)
	GetBySlug(ctx context.Context, slug string) (*models.Coach, error)
	List(ctx context.Context) ([]models.Coach, error)
	Update(ctx context.Context, coach *models.Coach) error
	Delete(ctx context.Context, id int) error
}

type gormCoachRepository struct {
	db *gorm.DB
}

func NewCoachRepository(db *gorm.DB) CoachRepository {
	return &gormCoachRepository{db: db}
}

var coachErrors = pgErrors{
	notFound:   ErrCoachNotFound,
	unique:     map[string]error{"coaches_slug_key": ErrCoachSlugConflict},
	foreignKey: ErrCoachInvalidReference,
}

func (r *gormCoachRepository) Create(ctx context.Context, coach *models.Coach) error {
	return coachErrors.translate(r.db.WithContext(ctx).Create(coach).Error)
}

func (r *gormCoachRepository) GetByID(ctx context.Context, id int) (*models.Coach, error) {
	var coach models.Coach
	if err := r.db.WithContext(ctx).First(&coach, id).Error; err != nil {
		return nil, coachErrors.translate(err)
	}
	return &coach, nil
}

func (r *gormCoachRepository) GetBySlug(ctx context.Context, slug string) (*models.Coach, error) {
	var coach models.Coach
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&coach).Error; err != nil {
		return nil, coachErrors.translate(err)
	}
	return &coach, nil
}

func (r *gormCoachRepository) List(ctx context.Context) ([]models.Coach, error) {
	coaches := make([]models.Coach, 0)
	if err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&coaches).Error; err != nil {
		return nil, err
	}
	return coaches, nil
}

func (r *gormCoachRepository) Update(ctx context.Context, coach *models.Coach) error {
	result := r.db.WithContext(ctx).Model(coach).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(coach)
	if result.Error != nil {
		return coachErrors.translate(result.Error)
	}
	return checkAffectedRows(result, ErrCoachNotFound)
}

func (r *gormCoachRepository) Delete(ctx context.Context, id int) error {
	return checkAffectedRows(r.db.WithContext(ctx).Delete(&models.Coach{}, id), ErrCoachNotFound)
}
