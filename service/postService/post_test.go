package postService

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/xImouto/imoddit/models"
	"github.com/xImouto/imoddit/service/authService"
	"github.com/xImouto/imoddit/storage/memory"
)

var testSigningKey = []byte("testSecretKey")

type testEnv struct {
	store   *memory.Store
	auth    *authService.Service
	service *Service
}

func newTestEnv() *testEnv {
	store := memory.New()
	auth := authService.New(store, testSigningKey, time.Hour, zap.NewNop().Sugar())
	return &testEnv{
		store:   store,
		auth:    auth,
		service: New(store, auth, zap.NewNop().Sugar()),
	}
}

// callerContext - returns context of a request sent by the user with the given ID
func (e *testEnv) callerContext(t *testing.T, userID string) context.Context {
	t.Helper()
	token, err := e.auth.IssueToken(&models.User{ID: userID, Username: "user-" + userID[:8]})
	assert.NilError(t, err)
	return authService.WithToken(context.Background(), token)
}

func visibility(v models.Visibility) *models.Visibility {
	return &v
}

func str(s string) *string {
	return &s
}

func (e *testEnv) createPost(t *testing.T, ctx context.Context, title string, v models.Visibility) *models.Post {
	t.Helper()
	response := e.service.CreatePost(ctx, &models.CreatePostRequest{
		Title:      title,
		Content:    "Content of " + title,
		Visibility: visibility(v),
	})
	assert.Equal(t, response.Error, models.ErrorKind(""))
	assert.Assert(t, response.Post != nil)
	return response.Post
}

func TestListPublicPostsExcludesPrivatePosts(t *testing.T) {
	env := newTestEnv()
	author := env.callerContext(t, uuid.NewString())

	publicPost := env.createPost(t, author, "public post", models.VisibilityPublic)
	env.createPost(t, author, "private post", models.VisibilityPrivate)

	posts, err := env.service.ListPublicPosts(context.Background())
	assert.NilError(t, err)
	assert.Assert(t, is.Len(posts, 1))
	assert.Equal(t, posts[0].ID, publicPost.ID)
	for _, post := range posts {
		assert.Equal(t, post.Visibility, models.VisibilityPublic)
	}
}

func TestGetPublicPostHidesPrivatePostFromEveryone(t *testing.T) {
	env := newTestEnv()
	authorID := uuid.NewString()
	author := env.callerContext(t, authorID)

	privatePost := env.createPost(t, author, "private post", models.VisibilityPrivate)

	for name, ctx := range map[string]context.Context{
		"anonymous": context.Background(),
		"author":    author,
		"stranger":  env.callerContext(t, uuid.NewString()),
	} {
		post, err := env.service.GetPublicPost(ctx, privatePost.ID)
		assert.NilError(t, err, name)
		assert.Assert(t, post == nil, name)
	}
}

func TestGetPublicPost(t *testing.T) {
	env := newTestEnv()
	author := env.callerContext(t, uuid.NewString())
	created := env.createPost(t, author, "public post", models.VisibilityPublic)

	post, err := env.service.GetPublicPost(context.Background(), created.ID)
	assert.NilError(t, err)
	assert.DeepEqual(t, post, created)
}

func TestGetPublicPostWithMissingOrMalformedID(t *testing.T) {
	env := newTestEnv()

	for _, id := range []string{uuid.NewString(), "", "not-a-uuid", "1"} {
		post, err := env.service.GetPublicPost(context.Background(), id)
		assert.NilError(t, err, id)
		assert.Assert(t, post == nil, id)
	}
}

func TestCreatePostWithoutCaller(t *testing.T) {
	env := newTestEnv()

	response := env.service.CreatePost(context.Background(), &models.CreatePostRequest{
		Title:   "Title",
		Content: "Content",
	})
	assert.Equal(t, response.Error, models.NotAuthenticated)
	assert.Assert(t, response.Post == nil)

	posts, err := env.service.ListPublicPosts(context.Background())
	assert.NilError(t, err)
	assert.Assert(t, is.Len(posts, 0))
}

func TestCreatePostWithInvalidToken(t *testing.T) {
	env := newTestEnv()

	other := authService.New(env.store, []byte("anotherKey"), time.Hour, zap.NewNop().Sugar())
	token, err := other.IssueToken(&models.User{ID: uuid.NewString(), Username: "mallory"})
	assert.NilError(t, err)

	for name, token := range map[string]string{
		"foreign key": token,
		"garbage":     "definitely.not.jwt",
	} {
		ctx := authService.WithToken(context.Background(), token)
		response := env.service.CreatePost(ctx, &models.CreatePostRequest{Title: "Title", Content: "Content"})
		assert.Equal(t, response.Error, models.NotAuthenticated, name)
		assert.Assert(t, response.Post == nil, name)
	}
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv()
	authorID := uuid.NewString()
	author := env.callerContext(t, authorID)

	response := env.service.CreatePost(author, &models.CreatePostRequest{Title: "T", Content: "C"})
	assert.Equal(t, response.Error, models.ErrorKind(""))
	post := response.Post
	assert.Assert(t, post != nil)
	assert.Equal(t, post.Title, "T")
	assert.Equal(t, post.Content, "C")
	assert.Equal(t, post.AuthorID, authorID)
	assert.Equal(t, post.Visibility, models.VisibilityPublic)
	assert.Assert(t, is.Len(post.Comments, 0))
	_, err := uuid.Parse(post.ID)
	assert.NilError(t, err)
}

type failingGateway struct {
	*memory.Store
}

func (g *failingGateway) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	return nil, errors.New("connection refused")
}

func (g *failingGateway) FindPublicPosts(ctx context.Context) ([]models.Post, error) {
	return nil, errors.New("connection refused")
}

func TestCreatePostPersistenceFailure(t *testing.T) {
	env := newTestEnv()
	service := New(&failingGateway{Store: env.store}, env.auth, zap.NewNop().Sugar())

	response := service.CreatePost(env.callerContext(t, uuid.NewString()),
		&models.CreatePostRequest{Title: "T", Content: "C"})
	assert.Equal(t, response.Error, models.NotAuthenticated)
	assert.Assert(t, response.Post == nil)
}

func TestListPublicPostsPropagatesGatewayError(t *testing.T) {
	env := newTestEnv()
	service := New(&failingGateway{Store: env.store}, env.auth, zap.NewNop().Sugar())

	_, err := service.ListPublicPosts(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestUpdatePostByNonAuthor(t *testing.T) {
	env := newTestEnv()
	author := env.callerContext(t, uuid.NewString())
	post := env.createPost(t, author, "Title", models.VisibilityPublic)

	for name, ctx := range map[string]context.Context{
		"anonymous": context.Background(),
		"stranger":  env.callerContext(t, uuid.NewString()),
	} {
		response := env.service.UpdatePost(ctx, post.ID, &models.UpdatePostRequest{Title: str("hijacked")})
		assert.Equal(t, response.Error, models.NotAuthorized, name)
		assert.Assert(t, response.Post == nil, name)
	}

	stored, err := env.store.FindPostByID(context.Background(), post.ID)
	assert.NilError(t, err)
	assert.Equal(t, stored.Title, "Title")
}

func TestUpdatePostOfMissingPost(t *testing.T) {
	env := newTestEnv()
	ctx := env.callerContext(t, uuid.NewString())

	for _, id := range []string{uuid.NewString(), "malformed"} {
		response := env.service.UpdatePost(ctx, id, &models.UpdatePostRequest{Title: str("X")})
		assert.Equal(t, response.Error, models.NotAuthorized, id)
	}
}

func TestUpdatePostChangesOnlySuppliedFields(t *testing.T) {
	env := newTestEnv()
	author := env.callerContext(t, uuid.NewString())
	post := env.createPost(t, author, "Title", models.VisibilityPrivate)

	request := &models.UpdatePostRequest{Title: str("X")}

	first := env.service.UpdatePost(author, post.ID, request)
	assert.Equal(t, first.Error, models.ErrorKind(""))
	assert.Equal(t, first.Post.Title, "X")
	assert.Equal(t, first.Post.Content, post.Content)
	assert.Equal(t, first.Post.Visibility, models.VisibilityPrivate)
	assert.Equal(t, first.Post.AuthorID, post.AuthorID)

	second := env.service.UpdatePost(author, post.ID, request)
	assert.Equal(t, second.Error, models.ErrorKind(""))
	assert.Equal(t, second.Post.Title, first.Post.Title)
	assert.Equal(t, second.Post.Content, first.Post.Content)
	assert.Equal(t, second.Post.Visibility, first.Post.Visibility)
}

func TestUpdatePostVisibility(t *testing.T) {
	env := newTestEnv()
	author := env.callerContext(t, uuid.NewString())
	post := env.createPost(t, author, "Title", models.VisibilityPrivate)

	found, err := env.service.GetPublicPost(context.Background(), post.ID)
	assert.NilError(t, err)
	assert.Assert(t, found == nil)

	response := env.service.UpdatePost(author, post.ID,
		&models.UpdatePostRequest{Visibility: visibility(models.VisibilityPublic)})
	assert.Equal(t, response.Error, models.ErrorKind(""))
	assert.Equal(t, response.Post.Title, "Title")

	found, err = env.service.GetPublicPost(context.Background(), post.ID)
	assert.NilError(t, err)
	assert.Assert(t, found != nil)
}

func TestDeletePostByNonAuthor(t *testing.T) {
	env := newTestEnv()
	author := env.callerContext(t, uuid.NewString())
	post := env.createPost(t, author, "Title", models.VisibilityPublic)

	response := env.service.DeletePost(env.callerContext(t, uuid.NewString()), post.ID)
	assert.Equal(t, response.Error, models.NotAuthorized)
	assert.Assert(t, response.Post == nil)

	found, err := env.service.GetPublicPost(context.Background(), post.ID)
	assert.NilError(t, err)
	assert.Assert(t, found != nil)
}

func TestDeletePostReturnsComments(t *testing.T) {
	env := newTestEnv()
	authorID := uuid.NewString()
	author := env.callerContext(t, authorID)
	post := env.createPost(t, author, "Title", models.VisibilityPublic)

	comment, err := env.store.CreateComment(context.Background(), &models.Comment{
		PostID:   post.ID,
		AuthorID: authorID,
		Content:  "first!",
	})
	assert.NilError(t, err)

	response := env.service.DeletePost(author, post.ID)
	assert.Equal(t, response.Error, models.ErrorKind(""))
	assert.Assert(t, is.Len(response.Post.Comments, 1))
	assert.Equal(t, response.Post.Comments[0].ID, comment.ID)

	_, err = env.store.FindCommentByID(context.Background(), comment.ID)
	assert.ErrorContains(t, err, "not found")
}

func TestPostLifecycle(t *testing.T) {
	env := newTestEnv()
	authorID := uuid.NewString()
	author := env.callerContext(t, authorID)
	stranger := env.callerContext(t, uuid.NewString())

	var post *models.Post

	// Step 1: author creates a post
	{
		response := env.service.CreatePost(author, &models.CreatePostRequest{Title: "T", Content: "C"})
		assert.Equal(t, response.Error, models.ErrorKind(""))
		post = response.Post
		assert.Equal(t, post.Title, "T")
		assert.Equal(t, post.Content, "C")
		assert.Equal(t, post.AuthorID, authorID)
	}

	// Step 2: another user tries to update it
	{
		response := env.service.UpdatePost(stranger, post.ID, &models.UpdatePostRequest{Title: str("X")})
		assert.Equal(t, response.Error, models.NotAuthorized)
		assert.Assert(t, response.Post == nil)
	}

	// Step 3: author deletes it
	{
		response := env.service.DeletePost(author, post.ID)
		assert.Equal(t, response.Error, models.ErrorKind(""))
		assert.Equal(t, response.Post.ID, post.ID)
		assert.Equal(t, response.Post.Title, "T")
	}

	// Step 4: deleted post is gone
	{
		found, err := env.service.GetPublicPost(context.Background(), post.ID)
		assert.NilError(t, err)
		assert.Assert(t, found == nil)
	}
}
