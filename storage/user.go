package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/xImouto/imoddit/models"
)

// CreateUser - saves a new user
// Returns ErrDuplicate if username or email is already taken
func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	created := *user
	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, errors.Wrapf(translateError(err), "creating user %s failed", user.Username)
	}
	return &created, nil
}

// FindUserByLogin - retrieves user whose username or email equals login
func (s *Store) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	user := &models.User{}
	err := s.db.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(user).Error
	if err != nil {
		return nil, errors.Wrapf(translateError(err), "retrieving user %s failed", login)
	}
	return user, nil
}
