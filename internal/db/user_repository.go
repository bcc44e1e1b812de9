package db

import (
	"context"
	"errors"

	"github.com/terraincognita07/cyclecast/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(ctx context.Context, userID uint) (models.User, bool, error) {
	var user models.User
	err := repo.database.WithContext(ctx).First(&user, userID).Error
	return user, found(err), ignoreNotFound(err)
}

// FindByNormalizedEmail expects an already lowercased and trimmed address.
func (repo *UserRepository) FindByNormalizedEmail(ctx context.Context, email string) (models.User, bool, error) {
	var user models.User
	err := repo.database.WithContext(ctx).Where("lower(trim(email)) = ?", email).First(&user).Error
	return user, found(err), ignoreNotFound(err)
}

func (repo *UserRepository) Create(ctx context.Context, user *models.User) error {
	return repo.database.WithContext(ctx).Create(user).Error
}

func (repo *UserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string, mustChangePassword bool) error {
	return repo.database.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"password_hash":        passwordHash,
		"must_change_password": mustChangePassword,
	}).Error
}

func (repo *UserRepository) ListOwnerIDs(ctx context.Context) ([]uint, error) {
	ids := make([]uint, 0)
	if err := repo.database.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", models.RoleOwner).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func found(err error) bool {
	return err == nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
