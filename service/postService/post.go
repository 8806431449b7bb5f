// Package postService implements reading and mutating blog posts on behalf of a caller.
package postService

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/xImouto/imoddit/models"
	"github.com/xImouto/imoddit/service/authService"
	"github.com/xImouto/imoddit/storage"
)

// Gateway - persistence of posts
type Gateway interface {
	FindPublicPosts(ctx context.Context) ([]models.Post, error)
	FindPublicPostByID(ctx context.Context, postID string) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	UpdatePost(ctx context.Context, postID string, request *models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) (*models.Post, error)
}

// Authenticator - resolves the caller of a request
type Authenticator interface {
	Authenticate(ctx context.Context) (*models.Caller, error)
	AuthenticateWithPost(ctx context.Context, postID string) (*models.Post, error)
}

// Service - post operations. It holds no state between calls
type Service struct {
	gateway Gateway
	auth    Authenticator
	logger  *zap.SugaredLogger
}

// New - creates post service
func New(gateway Gateway, auth Authenticator, logger *zap.SugaredLogger) *Service {
	return &Service{
		gateway: gateway,
		auth:    auth,
		logger:  logger,
	}
}

// ListPublicPosts - returns every public post, newest first
func (s *Service) ListPublicPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.gateway.FindPublicPosts(ctx)
	if err != nil {
		s.logger.Errorf("Error retrieving public posts: %s", err)
		return nil, err
	}
	return posts, nil
}

// GetPublicPost - returns the post with the given ID if it is public
// Returns nil post if the post does not exist or is private
func (s *Service) GetPublicPost(ctx context.Context, postID string) (*models.Post, error) {
	if _, err := uuid.Parse(postID); err != nil {
		s.logger.Debugf("Can't retrieve post: malformed post ID. Post ID: %q", postID)
		return nil, nil
	}

	post, err := s.gateway.FindPublicPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		s.logger.Errorf("Error retrieving post. Post ID: %s. Error: %s", postID, err)
		return nil, err
	}
	return post, nil
}

// CreatePost - saves a new post owned by the caller
func (s *Service) CreatePost(ctx context.Context, request *models.CreatePostRequest) *models.PostResponse {
	caller, err := s.auth.Authenticate(ctx)
	if err != nil {
		s.logger.Infof("Can't create post: %s", err)
		return &models.PostResponse{Error: models.NotAuthenticated}
	}

	s.logger.Infof("Got new post creation request. Author: %s", caller.ID)

	visibility := models.VisibilityPublic
	if request.Visibility != nil {
		visibility = *request.Visibility
	}
	if !visibility.Valid() {
		s.logger.Infof("Can't create post: invalid visibility. Visibility: %q", visibility)
		return &models.PostResponse{Error: models.NotAuthenticated}
	}

	post, err := s.gateway.CreatePost(ctx, &models.Post{
		Title:      request.Title,
		Content:    request.Content,
		Visibility: visibility,
		AuthorID:   caller.ID,
	})
	if err != nil {
		s.logger.Errorf("Error saving post. Author: %s. Error: %s", caller.ID, err)
		return &models.PostResponse{Error: models.NotAuthenticated}
	}

	s.logger.Infof("Post saved. Post ID: %s", post.ID)
	return &models.PostResponse{Post: post}
}

// UpdatePost - changes only the supplied fields of the post
// Only the author of the post may update it
func (s *Service) UpdatePost(ctx context.Context, postID string, request *models.UpdatePostRequest) *models.PostResponse {
	s.logger.Infof("Got new post update request. Post ID: %s", postID)

	target, err := s.auth.AuthenticateWithPost(ctx, postID)
	if err != nil {
		s.logger.Infof("Can't update post: %s", err)
		return &models.PostResponse{Error: models.NotAuthorized}
	}

	if request.Visibility != nil && !request.Visibility.Valid() {
		s.logger.Infof("Can't update post: invalid visibility. Post ID: %s. Visibility: %q", postID, *request.Visibility)
		return &models.PostResponse{Error: models.NotAuthorized}
	}

	post, err := s.gateway.UpdatePost(ctx, target.ID, request)
	if err != nil {
		s.logger.Errorf("Error updating post. Post ID: %s. Error: %s", postID, err)
		return &models.PostResponse{Error: models.NotAuthorized}
	}

	s.logger.Infof("Post updated. Post ID: %s", post.ID)
	return &models.PostResponse{Post: post}
}

// DeletePost - removes the post and returns its final state
// Only the author of the post may delete it
func (s *Service) DeletePost(ctx context.Context, postID string) *models.PostResponse {
	s.logger.Infof("Got new post deletion request. Post ID: %s", postID)

	target, err := s.auth.AuthenticateWithPost(ctx, postID)
	if err != nil {
		s.logger.Infof("Can't delete post: %s", err)
		return &models.PostResponse{Error: models.NotAuthorized}
	}

	post, err := s.gateway.DeletePost(ctx, target.ID)
	if err != nil {
		s.logger.Errorf("Error deleting post. Post ID: %s. Error: %s", postID, err)
		return &models.PostResponse{Error: models.NotAuthorized}
	}

	s.logger.Infof("Post deleted. Post ID: %s", post.ID)
	return &models.PostResponse{Post: post}
}

var _ Authenticator = (*authService.Service)(nil)
