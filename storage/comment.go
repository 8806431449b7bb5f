package storage

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/xImouto/imoddit/models"
)

// CreateComment - saves a new comment
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	created := *comment
	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, errors.Wrap(translateError(err), "creating comment failed")
	}
	return &created, nil
}

// FindCommentByID - retrieves comment with the given ID
func (s *Store) FindCommentByID(ctx context.Context, commentID string) (*models.Comment, error) {
	comment := &models.Comment{}
	if err := s.db.WithContext(ctx).Where("id = ?", commentID).First(comment).Error; err != nil {
		return nil, errors.Wrapf(translateError(err), "retrieving comment %s failed", commentID)
	}
	return comment, nil
}

// DeleteComment - deletes comment with the given ID
// returns the comment as it was right before deletion
func (s *Store) DeleteComment(ctx context.Context, commentID string) (*models.Comment, error) {
	deleted := &models.Comment{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", commentID).First(deleted).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", commentID).Delete(&models.Comment{}).Error
	})
	if err != nil {
		return nil, errors.Wrapf(translateError(err), "deleting comment %s failed", commentID)
	}
	return deleted, nil
}
