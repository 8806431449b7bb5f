package storage

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/xImouto/imoddit/models"
)

// FindPublicPosts - retrieves all public posts, newest first
func (s *Store) FindPublicPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Preload("Comments", orderedComments).
		Where("visibility = ?", models.VisibilityPublic).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "retrieving public posts failed")
	}
	return posts, nil
}

// FindPublicPostByID - retrieves public post with the given ID
// Returns ErrNotFound if the post does not exist or is not public
func (s *Store) FindPublicPostByID(ctx context.Context, postID string) (*models.Post, error) {
	post := &models.Post{}
	err := s.db.WithContext(ctx).
		Preload("Comments", orderedComments).
		Where("id = ? AND visibility = ?", postID, models.VisibilityPublic).
		First(post).Error
	if err != nil {
		return nil, errors.Wrapf(translateError(err), "retrieving public post %s failed", postID)
	}
	return post, nil
}

// FindPostByID - retrieves post with the given ID regardless of its visibility
func (s *Store) FindPostByID(ctx context.Context, postID string) (*models.Post, error) {
	post := &models.Post{}
	if err := s.db.WithContext(ctx).Where("id = ?", postID).First(post).Error; err != nil {
		return nil, errors.Wrapf(translateError(err), "retrieving post %s failed", postID)
	}
	return post, nil
}

// CreatePost - saves a new post
// returns the created post with its (empty) comments
func (s *Store) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	created := *post
	if err := s.db.WithContext(ctx).Omit("Comments").Create(&created).Error; err != nil {
		return nil, errors.Wrap(translateError(err), "creating post failed")
	}
	created.Comments = []models.Comment{}
	return &created, nil
}

// UpdatePost - applies the supplied fields of request to the post with the given ID
// returns the updated post with its comments
func (s *Store) UpdatePost(ctx context.Context, postID string, request *models.UpdatePostRequest) (*models.Post, error) {
	updated := &models.Post{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !request.Empty() {
			result := tx.Model(&models.Post{}).Where("id = ?", postID).Updates(request.Columns())
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		return tx.Preload("Comments", orderedComments).Where("id = ?", postID).First(updated).Error
	})
	if err != nil {
		return nil, errors.Wrapf(translateError(err), "updating post %s failed", postID)
	}
	return updated, nil
}

// DeletePost - deletes post with the given ID together with its comments
// returns the post as it was right before deletion
func (s *Store) DeletePost(ctx context.Context, postID string) (*models.Post, error) {
	deleted := &models.Post{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Comments", orderedComments).Where("id = ?", postID).First(deleted).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", postID).Delete(&models.Post{}).Error
	})
	if err != nil {
		return nil, errors.Wrapf(translateError(err), "deleting post %s failed", postID)
	}
	return deleted, nil
}
