package repositories

import (
	"context"
	"errors"

	"github.com/gnbf/badminton-registry/models"
	"gorm.io/gorm"
)

var (
	ErrPlayerNotFound             = errors.New("player not found")
	ErrPlayerSlugConflict         = errors.New("player slug conflict")
	ErrPlayerRegistrationConflict = errors.New("player registration number conflict")
	ErrPlayerInvalidClub          = errors.New("player references a missing club")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetBySlug(ctx context.Context, slug string) (*models.Player, error)
	GetByIDs(ctx context.Context, ids []int) ([]models.Player, error)
	List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error)
	Count(ctx context.Context, filter models.PlayerFilter) (int64, error)
	Update(ctx context.Context, player *models.Player) error
	UpdateImage(ctx context.Context, id int, imageURL string) error
	Delete(ctx context.Context, id int) error
}

type gormPlayerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &gormPlayerRepository{db: db}
}

var playerErrors = pgErrors{
	notFound: ErrPlayerNotFound,
	unique: map[string]error{
		"players_slug_key":                ErrPlayerSlugConflict,
		"players_registration_number_key": ErrPlayerRegistrationConflict,
	},
	foreignKey: ErrPlayerInvalidClub,
}

func (r *gormPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	return playerErrors.translate(r.db.WithContext(ctx).Create(player).Error)
}

func (r *gormPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	var player models.Player
	if err := r.db.WithContext(ctx).First(&player, id).Error; err != nil {
		return nil, playerErrors.translate(err)
	}
	return &player, nil
}

func (r *gormPlayerRepository) GetBySlug(ctx context.Context, slug string) (*models.Player, error) {
	var player models.Player
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&player).Error; err != nil {
		return nil, playerErrors.translate(err)
	}
	return &player, nil
}

func (r *gormPlayerRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Player, error) {
	players := make([]models.Player, 0, len(ids))
	if len(ids) == 0 {
		return players, nil
	}
	if err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *gormPlayerRepository) filtered(ctx context.Context, filter models.PlayerFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Player{})
	if filter.Gender != "" {
		q = q.Where("gender = ?", filter.Gender)
	}
	if filter.ClubID != nil {
		q = q.Where("club_id = ?", *filter.ClubID)
	}
	return q
}

func (r *gormPlayerRepository) List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error) {
	players := make([]models.Player, 0)
	err := r.filtered(ctx, filter).Order("last_name ASC, first_name ASC").Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *gormPlayerRepository) Count(ctx context.Context, filter models.PlayerFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *gormPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	result := r.db.WithContext(ctx).Model(player).
		Select("*").Omit("id", "created_at", "deleted_at", "image_url").
		Updates(player)
	if result.Error != nil {
		return playerErrors.translate(result.Error)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *gormPlayerRepository) UpdateImage(ctx context.Context, id int, imageURL string) error {
	result := r.db.WithContext(ctx).Model(&models.Player{}).Where("id = ?", id).Update("image_url", imageURL)
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *gormPlayerRepository) Delete(ctx context.Context, id int) error {
	return checkAffectedRows(r.db.WithContext(ctx).Delete(&models.Player{}, id), ErrPlayerNotFound)
}
