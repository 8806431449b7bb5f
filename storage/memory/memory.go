// Package memory keeps posts, comments and users in process memory.
// It mirrors the semantics of the postgres store and is used for local
// development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/xImouto/imoddit/models"
	"github.com/xImouto/imoddit/storage"
)

// Store - in-memory storage
type Store struct {
	mu       sync.RWMutex
	posts    map[string]models.Post
	comments map[string]models.Comment
	users    map[string]models.User
	now      func() time.Time
}

// New - creates an empty store
func New() *Store {
	return &Store{
		posts:    make(map[string]models.Post),
		comments: make(map[string]models.Comment),
		users:    make(map[string]models.User),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock - replaces the time source used for timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Ping - always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// withComments - returns a copy of post with its comments attached
// caller must hold at least a read lock
func (s *Store) withComments(post models.Post) *models.Post {
	comments := make([]models.Comment, 0)
	for _, comment := range s.comments {
		if comment.PostID == post.ID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	post.Comments = comments
	return &post
}

// FindPublicPosts - retrieves all public posts, newest first
func (s *Store) FindPublicPosts(ctx context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if post.IsPublic() {
			posts = append(posts, *s.withComments(post))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// FindPublicPostByID - retrieves public post with the given ID
func (s *Store) FindPublicPostByID(ctx context.Context, postID string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[postID]
	if !ok || !post.IsPublic() {
		return nil, errors.Wrapf(storage.ErrNotFound, "retrieving public post %s failed", postID)
	}
	return s.withComments(post), nil
}

// FindPostByID - retrieves post with the given ID regardless of its visibility
func (s *Store) FindPostByID(ctx context.Context, postID string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, errors.Wrapf(storage.ErrNotFound, "retrieving post %s failed", postID)
	}
	post.Comments = nil
	return &post, nil
}

// CreatePost - saves a new post
func (s *Store) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *post
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if _, ok := s.posts[created.ID]; ok {
		return nil, errors.Wrap(storage.ErrDuplicate, "creating post failed")
	}
	if created.Visibility == "" {
		created.Visibility = models.VisibilityPublic
	}
	now := s.now()
	created.CreatedAt = now
	created.UpdatedAt = now
	created.Comments = nil
	s.posts[created.ID] = created

	return s.withComments(created), nil
}

// UpdatePost - applies the supplied fields of request to the post with the given ID
func (s *Store) UpdatePost(ctx context.Context, postID string, request *models.UpdatePostRequest) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, errors.Wrapf(storage.ErrNotFound, "updating post %s failed", postID)
	}
	if !request.Empty() {
		request.Apply(&post)
		post.UpdatedAt = s.now()
		s.posts[postID] = post
	}
	return s.withComments(post), nil
}

// DeletePost - deletes post with the given ID together with its comments
func (s *Store) DeletePost(ctx context.Context, postID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, errors.Wrapf(storage.ErrNotFound, "deleting post %s failed", postID)
	}
	deleted := s.withComments(post)
	for _, comment := range deleted.Comments {
		delete(s.comments, comment.ID)
	}
	delete(s.posts, postID)
	return deleted, nil
}

// CreateComment - saves a new comment
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return nil, errors.Wrapf(storage.ErrNotFound, "creating comment on post %s failed", comment.PostID)
	}
	created := *comment
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	now := s.now()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.comments[created.ID] = created
	return &created, nil
}

// FindCommentByID - retrieves comment with the given ID
func (s *Store) FindCommentByID(ctx context.Context, commentID string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[commentID]
	if !ok {
		return nil, errors.Wrapf(storage.ErrNotFound, "retrieving comment %s failed", commentID)
	}
	return &comment, nil
}

// DeleteComment - deletes comment with the given ID
func (s *Store) DeleteComment(ctx context.Context, commentID string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[commentID]
	if !ok {
		return nil, errors.Wrapf(storage.ErrNotFound, "deleting comment %s failed", commentID)
	}
	delete(s.comments, commentID)
	return &comment, nil
}

// CreateUser - saves a new user
// Usernames and emails are unique, compared case-sensitively like the postgres unique index
func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, errors.Wrapf(storage.ErrDuplicate, "creating user %s failed", user.Username)
		}
	}
	created := *user
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	created.CreatedAt = s.now()
	s.users[created.ID] = created
	return &created, nil
}

// FindUserByLogin - retrieves user whose username or email equals login
func (s *Store) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	login = strings.TrimSpace(login)
	for _, user := range s.users {
		if user.Username == login || user.Email == login {
			found := user
			return &found, nil
		}
	}
	return nil, errors.Wrapf(storage.ErrNotFound, "retrieving user %s failed", login)
}
