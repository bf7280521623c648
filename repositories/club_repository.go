package repositories

import (
	"context"
	"errors"

	"github.com/gnbf/badminton-registry/models"
	"gorm.io/gorm"
)

var (
	ErrClubNotFound         = errors.New("club not found")
	ErrClubSlugConflict     = errors.New("club slug conflict")
	ErrClubInvalidReference = errors.New("club references a missing record")
)

type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id int) (*models.Club, error)
	GetBySlug(ctx context.Context, slug string) (*models.Club, error)
	List(ctx context.Context) ([]models.Club, error)
	Update(ctx context.Context, club *models.Club) error
	UpdateLogo(ctx context.Context, id int, logoURL string) error
	Delete(ctx context.Context, id int) error
}

type gormClubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) ClubRepository {
	return &gormClubRepository{db: db}
}

var clubErrors = pgErrors{
	notFound:   ErrClubNotFound,
	unique:     map[string]error{"clubs_slug_key": ErrClubSlugConflict},
	foreignKey: ErrClubInvalidReference,
}

func (r *gormClubRepository) Create(ctx context.Context, club *models.Club) error {
	return clubErrors.translate(r.db.WithContext(ctx).Create(club).Error)
}

func (r *gormClubRepository) GetByID(ctx context.Context, id int) (*models.Club, error) {
	var club models.Club
	if err := r.db.WithContext(ctx).First(&club, id).Error; err != nil {
		return nil, clubErrors.translate(err)
	}
	return &club, nil
}

func (r *gormClubRepository) GetBySlug(ctx context.Context, slug string) (*models.Club, error) {
	var club models.Club
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&club).Error; err != nil {
		return nil, clubErrors.translate(err)
	}
	return &club, nil
}

func (r *gormClubRepository) List(ctx context.Context) ([]models.Club, error) {
	clubs := make([]models.Club, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&clubs).Error; err != nil {
		return nil, err
	}
	return clubs, nil
}

func (r *gormClubRepository) Update(ctx context.Context, club *models.Club) error {
	result := r.db.WithContext(ctx).Model(club).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(club)
	if result.Error != nil {
		return clubErrors.translate(result.Error)
	}
	return checkAffectedRows(result, ErrClubNotFound)
}

func (r *gormClubRepository) UpdateLogo(ctx context.Context, id int, logoURL string) error {
	result := r.db.WithContext(ctx).Model(&models.Club{}).Where("id = ?", id).Update("logo_url", logoURL)
	return checkAffectedRows(result, ErrClubNotFound)
}

func (r *gormClubRepository) Delete(ctx context.Context, id int) error {
	return checkAffectedRows(r.db.WithContext(ctx).Delete(&models.Club{}, id), ErrClubNotFound)
}
