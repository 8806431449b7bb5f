package graphqlapi

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/xImouto/imoddit/models"
)

type postResolver struct {
	post *models.Post
}

func (r *postResolver) ID() graphql.ID {
	return graphql.ID(r.post.ID)
}

func (r *postResolver) Title() string {
	return r.post.Title
}

func (r *postResolver) Content() string {
	return r.post.Content
}

func (r *postResolver) Visibility() string {
	return string(r.post.Visibility)
}

func (r *postResolver) AuthorID() graphql.ID {
	return graphql.ID(r.post.AuthorID)
}

func (r *postResolver) CreatedAt() graphql.Time {
	return graphql.Time{Time: r.post.CreatedAt}
}

func (r *postResolver) UpdatedAt() graphql.Time {
	return graphql.Time{Time: r.post.UpdatedAt}
}

func (r *postResolver) Comments() []*commentResolver {
	comments := make([]*commentResolver, 0, len(r.post.Comments))
	for i := range r.post.Comments {
		comments = append(comments, &commentResolver{comment: &r.post.Comments[i]})
	}
	return comments
}

type postResponseResolver struct {
	response *models.PostResponse
}

func (r *postResponseResolver) Post() *postResolver {
	if r.response.Post == nil {
		return nil
	}
	return &postResolver{post: r.response.Post}
}

func (r *postResponseResolver) Error() *string {
	return errorString(r.response.Error)
}

type createPostInput struct {
	Title      string
	Content    string
	Visibility *string
}

type updatePostInput struct {
	Title      *string
	Content    *string
	Visibility *string
}

func toVisibility(s *string) *models.Visibility {
	if s == nil {
		return nil
	}
	v := models.Visibility(*s)
	return &v
}

// FindAllPosts - lists public posts
func (r *Resolver) FindAllPosts(ctx context.Context) ([]*postResolver, error) {
	start := time.Now()
	posts, err := r.posts.ListPublicPosts(ctx)
	r.observeErr("findAllPosts", start, err)
	if err != nil {
		return nil, err
	}

	resolvers := make([]*postResolver, 0, len(posts))
	for i := range posts {
		resolvers = append(resolvers, &postResolver{post: &posts[i]})
	}
	return resolvers, nil
}

// FindOnePost - returns a public post or null
func (r *Resolver) FindOnePost(ctx context.Context, args struct{ ID graphql.ID }) (*postResolver, error) {
	start := time.Now()
	post, err := r.posts.GetPublicPost(ctx, string(args.ID))
	r.observeErr("findOnePost", start, err)
	if err != nil || post == nil {
		return nil, err
	}
	return &postResolver{post: post}, nil
}

// CreatePost - creates a post owned by the caller
func (r *Resolver) CreatePost(ctx context.Context, args struct{ Input createPostInput }) *postResponseResolver {
	start := time.Now()
	response := r.posts.CreatePost(ctx, &models.CreatePostRequest{
		Title:      args.Input.Title,
		Content:    args.Input.Content,
		Visibility: toVisibility(args.Input.Visibility),
	})
	r.observe("createPost", start, response.Error)
	return &postResponseResolver{response: response}
}

// UpdatePost - changes the supplied fields of the caller's post
func (r *Resolver) UpdatePost(ctx context.Context, args struct {
	PostID graphql.ID
	Input  updatePostInput
}) *postResponseResolver {
	start := time.Now()
	response := r.posts.UpdatePost(ctx, string(args.PostID), &models.UpdatePostRequest{
		Title:      args.Input.Title,
		Content:    args.Input.Content,
		Visibility: toVisibility(args.Input.Visibility),
	})
	r.observe("updatePost", start, response.Error)
	return &postResponseResolver{response: response}
}

// DeletePost - deletes the caller's post
func (r *Resolver) DeletePost(ctx context.Context, args struct{ PostID graphql.ID }) *postResponseResolver {
	start := time.Now()
	response := r.posts.DeletePost(ctx, string(args.PostID))
	r.observe("deletePost", start, response.Error)
	return &postResponseResolver{response: response}
}
