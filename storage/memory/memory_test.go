package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/xImouto/imoddit/models"
	"github.com/xImouto/imoddit/storage"
)

// stepClock - returns a time one second later on every call
func stepClock() func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestFindPublicPostsOrder(t *testing.T) {
	ctx := context.Background()
	store := New()
	store.SetClock(stepClock())
	authorID := uuid.NewString()

	first, err := store.CreatePost(ctx, &models.Post{Title: "first", Visibility: models.VisibilityPublic, AuthorID: authorID})
	assert.NilError(t, err)
	_, err = store.CreatePost(ctx, &models.Post{Title: "hidden", Visibility: models.VisibilityPrivate, AuthorID: authorID})
	assert.NilError(t, err)
	second, err := store.CreatePost(ctx, &models.Post{Title: "second", Visibility: models.VisibilityPublic, AuthorID: authorID})
	assert.NilError(t, err)

	posts, err := store.FindPublicPosts(ctx)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(posts, 2))
	assert.Equal(t, posts[0].ID, second.ID)
	assert.Equal(t, posts[1].ID, first.ID)
}

func TestCreatePostDefaultsVisibility(t *testing.T) {
	store := New()
	post, err := store.CreatePost(context.Background(), &models.Post{Title: "t", AuthorID: uuid.NewString()})
	assert.NilError(t, err)
	assert.Equal(t, post.Visibility, models.VisibilityPublic)
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	store := New()
	store.SetClock(stepClock())

	post, err := store.CreatePost(ctx, &models.Post{Title: "t", Content: "c", Visibility: models.VisibilityPublic})
	assert.NilError(t, err)

	content := "new content"
	updated, err := store.UpdatePost(ctx, post.ID, &models.UpdatePostRequest{Content: &content})
	assert.NilError(t, err)
	assert.Equal(t, updated.Title, "t")
	assert.Equal(t, updated.Content, content)
	assert.Assert(t, updated.UpdatedAt.After(post.UpdatedAt))
	assert.Equal(t, updated.CreatedAt, post.CreatedAt)

	unchanged, err := store.UpdatePost(ctx, post.ID, &models.UpdatePostRequest{})
	assert.NilError(t, err)
	assert.Equal(t, unchanged.UpdatedAt, updated.UpdatedAt)

	_, err = store.UpdatePost(ctx, uuid.NewString(), &models.UpdatePostRequest{Content: &content})
	assert.Assert(t, errors.Is(err, storage.ErrNotFound))
}

func TestDeletePostCascadesComments(t *testing.T) {
	ctx := context.Background()
	store := New()
	store.SetClock(stepClock())

	post, err := store.CreatePost(ctx, &models.Post{Title: "t", Visibility: models.VisibilityPublic})
	assert.NilError(t, err)
	first, err := store.CreateComment(ctx, &models.Comment{PostID: post.ID, Content: "1"})
	assert.NilError(t, err)
	second, err := store.CreateComment(ctx, &models.Comment{PostID: post.ID, Content: "2"})
	assert.NilError(t, err)

	deleted, err := store.DeletePost(ctx, post.ID)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(deleted.Comments, 2))
	assert.Equal(t, deleted.Comments[0].ID, first.ID)
	assert.Equal(t, deleted.Comments[1].ID, second.ID)

	_, err = store.FindCommentByID(ctx, first.ID)
	assert.Assert(t, errors.Is(err, storage.ErrNotFound))
	_, err = store.FindPostByID(ctx, post.ID)
	assert.Assert(t, errors.Is(err, storage.ErrNotFound))
	_, err = store.DeletePost(ctx, post.ID)
	assert.Assert(t, errors.Is(err, storage.ErrNotFound))
}

func TestCreateCommentOnMissingPost(t *testing.T) {
	store := New()
	_, err := store.CreateComment(context.Background(), &models.Comment{PostID: uuid.NewString(), Content: "c"})
	assert.Assert(t, errors.Is(err, storage.ErrNotFound))
}

func TestReturnedPostsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := New()

	post, err := store.CreatePost(ctx, &models.Post{Title: "t", Visibility: models.VisibilityPublic})
	assert.NilError(t, err)
	post.Title = "mutated"

	found, err := store.FindPublicPostByID(ctx, post.ID)
	assert.NilError(t, err)
	assert.Equal(t, found.Title, "t")
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	store := New()

	user, err := store.CreateUser(ctx, &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"})
	assert.NilError(t, err)

	_, err = store.CreateUser(ctx, &models.User{Username: "alice", Email: "other@example.com"})
	assert.Assert(t, errors.Is(err, storage.ErrDuplicate))

	byName, err := store.FindUserByLogin(ctx, "alice")
	assert.NilError(t, err)
	assert.Equal(t, byName.ID, user.ID)

	byEmail, err := store.FindUserByLogin(ctx, "alice@example.com")
	assert.NilError(t, err)
	assert.Equal(t, byEmail.ID, user.ID)

	_, err = store.FindUserByLogin(ctx, "bob")
	assert.Assert(t, errors.Is(err, storage.ErrNotFound))
}
