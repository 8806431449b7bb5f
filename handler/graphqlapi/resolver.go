// Package graphqlapi serves posts, comments and users over GraphQL.
package graphqlapi

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/xImouto/imoddit/metrics"
	"github.com/xImouto/imoddit/models"
)

// PostService - post operations exposed by the API
type PostService interface {
	ListPublicPosts(ctx context.Context) ([]models.Post, error)
	GetPublicPost(ctx context.Context, postID string) (*models.Post, error)
	CreatePost(ctx context.Context, request *models.CreatePostRequest) *models.PostResponse
	UpdatePost(ctx context.Context, postID string, request *models.UpdatePostRequest) *models.PostResponse
	DeletePost(ctx context.Context, postID string) *models.PostResponse
}

// CommentService - comment operations exposed by the API
type CommentService interface {
	CreateComment(ctx context.Context, postID string, request *models.CreateCommentRequest) *models.CommentResponse
	DeleteComment(ctx context.Context, commentID string) *models.CommentResponse
}

// UserService - registration and login exposed by the API
type UserService interface {
	Register(ctx context.Context, request *models.RegistrationRequest) *models.AuthResponse
	Login(ctx context.Context, request *models.LoginRequest) *models.AuthResponse
}

// Resolver - root resolver. Its methods are the Query and Mutation fields of Schema
type Resolver struct {
	posts    PostService
	comments CommentService
	users    UserService
	metrics  *metrics.Recorder
	logger   *zap.SugaredLogger
}

// NewResolver - creates root resolver. recorder may be nil
func NewResolver(posts PostService, comments CommentService, users UserService,
	recorder *metrics.Recorder, logger *zap.SugaredLogger) *Resolver {
	return &Resolver{
		posts:    posts,
		comments: comments,
		users:    users,
		metrics:  recorder,
		logger:   logger,
	}
}

// NewSchema - parses Schema and binds it to the resolver
// It panics if a resolver method does not match the schema
func NewSchema(resolver *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(Schema, resolver,
		graphql.Logger(&panicLogger{logger: resolver.logger}),
		graphql.MaxDepth(8),
	)
}

type panicLogger struct {
	logger *zap.SugaredLogger
}

// LogPanic - logs a panic recovered while resolving a field
func (l *panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.logger.Errorw("Panic while resolving field", "panic", value, zap.Stack("stack"))
}

func (r *Resolver) observe(operation string, start time.Time, kind models.ErrorKind) {
	outcome := metrics.OutcomeOK
	if kind != "" {
		outcome = string(kind)
	}
	r.metrics.Observe(operation, start, outcome)
}

func (r *Resolver) observeErr(operation string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	r.metrics.Observe(operation, start, outcome)
}

func errorString(kind models.ErrorKind) *string {
	if kind == "" {
		return nil
	}
	s := string(kind)
	return &s
}
