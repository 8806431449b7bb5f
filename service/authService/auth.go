// Package authService resolves the caller of a request and checks post ownership.
package authService

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/xImouto/imoddit/models"
)

var (
	// ErrNotAuthenticated - request carries no valid caller identity
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotAuthorized - caller has no rights over the target post, or the post does not exist
	ErrNotAuthorized = errors.New("not authorized")
)

// ctxTokenKey - special type for getting raw token from request context
type ctxTokenKey struct{}

// WithToken - returns a copy of ctx carrying the raw bearer token
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext - returns the raw bearer token stored in ctx, if any
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ctxTokenKey{}).(string)
	return token, ok && token != ""
}

// TokenFromHeader - extracts token from "Authorization: Bearer <token>" header value
func TokenFromHeader(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// PostFinder - looks a post up regardless of its visibility
type PostFinder interface {
	FindPostByID(ctx context.Context, postID string) (*models.Post, error)
}

// Service - issues and verifies tokens
type Service struct {
	posts      PostFinder
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
	logger     *zap.SugaredLogger
}

// New - creates auth service
func New(posts PostFinder, signingKey []byte, tokenTTL time.Duration, logger *zap.SugaredLogger) *Service {
	return &Service{
		posts:      posts,
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
		now:        time.Now,
		logger:     logger,
	}
}

// IssueToken - generates signed JWT token for the given user
func (s *Service) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := models.TokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", errors.Wrapf(err, "signing token for user %s failed", user.ID)
	}
	return signed, nil
}

func (s *Service) parseToken(raw string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse jwt token")
	}
	if !token.Valid {
		return nil, errors.New("jwt token is not valid")
	}
	return claims, nil
}

// Authenticate - returns the caller of the request
// Fails with ErrNotAuthenticated if the request carries no token or the token is not valid
func (s *Service) Authenticate(ctx context.Context) (*models.Caller, error) {
	raw, ok := TokenFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	claims, err := s.parseToken(raw)
	if err != nil {
		s.logger.Infof("Rejected token: %s", err)
		return nil, ErrNotAuthenticated
	}

	callerID := claims.Subject
	if _, err := uuid.Parse(callerID); err != nil {
		s.logger.Infof("Rejected token: subject is not a user ID. Subject: %q", callerID)
		return nil, ErrNotAuthenticated
	}

	return &models.Caller{ID: callerID, Username: claims.Username}, nil
}

// AuthenticateWithPost - returns the post with the given ID if the caller is its author
// Fails with ErrNotAuthenticated if there is no valid caller and with ErrNotAuthorized
// if the post does not exist or belongs to somebody else
func (s *Service) AuthenticateWithPost(ctx context.Context, postID string) (*models.Post, error) {
	caller, err := s.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(postID); err != nil {
		return nil, errors.Wrapf(ErrNotAuthorized, "malformed post ID %q", postID)
	}

	post, err := s.posts.FindPostByID(ctx, postID)
	if err != nil {
		return nil, errors.Wrapf(ErrNotAuthorized, "looking up post: %s", err)
	}
	if post.AuthorID != caller.ID {
		return nil, errors.Wrapf(ErrNotAuthorized, "user %s is not the author of post %s", caller.ID, postID)
	}

	return post, nil
}
