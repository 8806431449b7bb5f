package commentService

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xImouto/imoddit/models"
)

// InvalidContent - comment content is blank or too long
const InvalidContent models.ErrorKind = "InvalidContent"

// MaxCommentLen - maximum comment length in runes
const MaxCommentLen int = 10000

// Gateway - persistence of comments
type Gateway interface {
	FindPostByID(ctx context.Context, postID string) (*models.Post, error)
	CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	FindCommentByID(ctx context.Context, commentID string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) (*models.Comment, error)
}

// Authenticator - resolves the caller of a request
type Authenticator interface {
	Authenticate(ctx context.Context) (*models.Caller, error)
}

// Service - comment operations
type Service struct {
	gateway Gateway
	auth    Authenticator
	logger  *zap.SugaredLogger
}

// New - creates comment service
func New(gateway Gateway, auth Authenticator, logger *zap.SugaredLogger) *Service {
	return &Service{
		gateway: gateway,
		auth:    auth,
		logger:  logger,
	}
}

func validateContent(content string) bool {
	contentLen := len([]rune(strings.TrimSpace(content)))
	return contentLen > 0 && contentLen <= MaxCommentLen
}

// CreateComment - adds a comment to the post on behalf of the caller
// The post must be public or belong to the caller
func (s *Service) CreateComment(ctx context.Context, postID string, request *models.CreateCommentRequest) *models.CommentResponse {
	caller, err := s.auth.Authenticate(ctx)
	if err != nil {
		s.logger.Infof("Can't create comment: %s", err)
		return &models.CommentResponse{Error: models.NotAuthenticated}
	}

	s.logger.Infof("Got new comment creation request. Post ID: %s. Author: %s", postID, caller.ID)

	if !validateContent(request.Content) {
		s.logger.Infof("Can't create comment: invalid content. Post ID: %s", postID)
		return &models.CommentResponse{Error: InvalidContent}
	}

	if _, err := uuid.Parse(postID); err != nil {
		s.logger.Infof("Can't create comment: malformed post ID. Post ID: %q", postID)
		return &models.CommentResponse{Error: models.NotAuthorized}
	}
	post, err := s.gateway.FindPostByID(ctx, postID)
	if err != nil {
		s.logger.Infof("Can't create comment: %s", err)
		return &models.CommentResponse{Error: models.NotAuthorized}
	}
	if !post.IsPublic() && post.AuthorID != caller.ID {
		s.logger.Infof("Can't create comment: post is private. Post ID: %s. Caller: %s", postID, caller.ID)
		return &models.CommentResponse{Error: models.NotAuthorized}
	}

	comment, err := s.gateway.CreateComment(ctx, &models.Comment{
		PostID:   post.ID,
		AuthorID: caller.ID,
		Content:  strings.TrimSpace(request.Content),
	})
	if err != nil {
		s.logger.Errorf("Error saving comment. Post ID: %s. Error: %s", postID, err)
		return &models.CommentResponse{Error: models.NotAuthorized}
	}

	s.logger.Infof("Comment saved. Comment ID: %s", comment.ID)
	return &models.CommentResponse{Comment: comment}
}

// DeleteComment - removes the comment if the caller wrote it
func (s *Service) DeleteComment(ctx context.Context, commentID string) *models.CommentResponse {
	caller, err := s.auth.Authenticate(ctx)
	if err != nil {
		s.logger.Infof("Can't delete comment: %s", err)
		return &models.CommentResponse{Error: models.NotAuthenticated}
	}

	s.logger.Infof("Got new comment deletion request. Comment ID: %s", commentID)

	if _, err := uuid.Parse(commentID); err != nil {
		s.logger.Infof("Can't delete comment: malformed comment ID. Comment ID: %q", commentID)
		return &models.CommentResponse{Error: models.NotAuthorized}
	}
	comment, err := s.gateway.FindCommentByID(ctx, commentID)
	if err != nil {
		s.logger.Infof("Can't delete comment: %s", err)
		return &models.CommentResponse{Error: models.NotAuthorized}
	}
	if comment.AuthorID != caller.ID {
		s.logger.Infof("Can't delete comment: caller is not the author. Comment ID: %s. Caller: %s",
			commentID, caller.ID)
		return &models.CommentResponse{Error: models.NotAuthorized}
	}

	deleted, err := s.gateway.DeleteComment(ctx, commentID)
	if err != nil {
		s.logger.Errorf("Error deleting comment. Comment ID: %s. Error: %s", commentID, err)
		return &models.CommentResponse{Error: models.NotAuthorized}
	}

	s.logger.Infof("Comment deleted. Comment ID: %s", commentID)
	return &models.CommentResponse{Comment: deleted}
}
