package repo

import (
	"context"
	"errors"

	"github.com/hortti/inventory/internal/models"
)

var ErrUserAlreadyExists = errors.New("user already exists")

func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUserIfNotExists is used by the seeder; duplicates are reported as
// ErrUserAlreadyExists instead of bubbling up a constraint violation.
func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("username = ?", u.Username).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExists
	}
	return nil
}
