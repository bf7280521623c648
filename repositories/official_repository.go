package repositories

import (
	"context"
	"errors"

	"github.com/gnbf/badminton-registry/models"
	"gorm.io/gorm"
)

var (
	ErrOfficialNotFound     = errors.New("official not found")
	ErrOfficialSlugConflict = errors.New("official slug conflict")
)

// OfficialRepository stores umpires and referees. Every call names the kind,
// which selects the table.
type OfficialRepository interface {
	Create(ctx context.Context, kind models.OfficialKind, official *models.Official) error
	GetByID(ctx context.Context, kind models.OfficialKind, id int) (*models.Official, error)
	GetBySlug(ctx context.Context, kind models.OfficialKind, slug string) (*models.Official, error)
	List(ctx context.Context, kind models.OfficialKind) ([]models.Official, error)
	Update(ctx context.Context, kind models.OfficialKind, official *models.Official) error
	Delete(ctx context.Context, kind models.OfficialKind, id int) error
}

type gormOfficialRepository struct {
	db *gorm.DB
}

func NewOfficialRepository(db *gorm.DB) OfficialRepository {
	return &gormOfficialRepository{db: db}
}

func officialErrors(kind models.OfficialKind) pgErrors {
	return pgErrors{
		notFound: ErrOfficialNotFound,
		unique:   map[string]error{kind.Table() + "_slug_key": ErrOfficialSlugConflict},
	}
}

func (r *gormOfficialRepository) table(ctx context.Context, kind models.OfficialKind) *gorm.DB {
	return r.db.WithContext(ctx).Table(kind.Table())
}

func (r *gormOfficialRepository) Create(ctx context.Context, kind models.OfficialKind, official *models.Official) error {
	return officialErrors(kind).translate(r.table(ctx, kind).Create(official).Error)
}

func (r *gormOfficialRepository) GetByID(ctx context.Context, kind models.OfficialKind, id int) (*models.Official, error) {
	var official models.Official
	if err := r.table(ctx, kind).First(&official, id).Error; err != nil {
		return nil, officialErrors(kind).translate(err)
	}
	return &official, nil
}

func (r *gormOfficialRepository) GetBySlug(ctx context.Context, kind models.OfficialKind, slug string) (*models.Official, error) {
	var official models.Official
	if err := r.table(ctx, kind).Where("slug = ?", slug).First(&official).Error; err != nil {
		return nil, officialErrors(kind).translate(err)
	}
	return &official, nil
}

func (r *gormOfficialRepository) List(ctx context.Context, kind models.OfficialKind) ([]models.Official, error) {
	officials := make([]models.Official, 0)
	if err := r.table(ctx, kind).Order("last_name ASC, first_name ASC").Find(&officials).Error; err != nil {
		return nil, err
	}
	return officials, nil
}

func (r *gormOfficialRepository) Update(ctx context.Context, kind models.OfficialKind, official *models.Official) error {
	result := r.table(ctx, kind).Model(official).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(official)
	if result.Error != nil {
		return officialErrors(kind).translate(result.Error)
	}
	return checkAffectedRows(result, ErrOfficialNotFound)
}

func (r *gormOfficialRepository) Delete(ctx context.Context, kind models.OfficialKind, id int) error {
	return checkAffectedRows(r.table(ctx, kind).Delete(&models.Official{}, id), ErrOfficialNotFound)
}
