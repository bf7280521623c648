package repositories

import (
	"context"
	"errors"

	"github.com/gnbf/badminton-registry/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int64, error)
	UpdateRole(ctx context.Context, id int, role models.UserRole) error
	Delete(ctx context.Context, id int) error
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

var userErrors = pgErrors{
	notFound: ErrUserNotFound,
	unique:   map[string]error{"users_email_key": ErrUserEmailConflict},
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	return userErrors.translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *gormUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, userErrors.translate(err)
	}
	return &user, nil
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, userErrors.translate(err)
	}
	return &user, nil
}

func (r *gormUserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("password_hash", passwordHash)
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *gormUserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.User{})
		if filter.Role != "" {
			q = q.Where("role = ?", filter.Role)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := make([]models.User, 0, filter.Limit)
	err := scoped().Order("id").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *gormUserRepository) UpdateRole(ctx context.Context, id int, role models.UserRole) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return userErrors.translate(result.Error)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *gormUserRepository) Delete(ctx context.Context, id int) error {
	return checkAffectedRows(r.db.WithContext(ctx).Delete(&models.User{}, id), ErrUserNotFound)
}
