package graphqlapi

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/xImouto/imoddit/models"
)

type commentResolver struct {
	comment *models.Comment
}

func (r *commentResolver) ID() graphql.ID {
	return graphql.ID(r.comment.ID)
}

func (r *commentResolver) PostID() graphql.ID {
	return graphql.ID(r.comment.PostID)
}

func (r *commentResolver) AuthorID() graphql.ID {
	return graphql.ID(r.comment.AuthorID)
}

func (r *commentResolver) Content() string {
	return r.comment.Content
}

func (r *commentResolver) CreatedAt() graphql.Time {
	return graphql.Time{Time: r.comment.CreatedAt}
}

type commentResponseResolver struct {
	response *models.CommentResponse
}

func (r *commentResponseResolver) Comment() *commentResolver {
	if r.response.Comment == nil {
		return nil
	}
	return &commentResolver{comment: r.response.Comment}
}

func (r *commentResponseResolver) Error() *string {
	return errorString(r.response.Error)
}

type createCommentInput struct {
	Content string
}

// CreateComment - comments on a post
func (r *Resolver) CreateComment(ctx context.Context, args struct {
	PostID graphql.ID
	Input  createCommentInput
}) *commentResponseResolver {
	start := time.Now()
	response := r.comments.CreateComment(ctx, string(args.PostID), &models.CreateCommentRequest{
		Content: args.Input.Content,
	})
	r.observe("createComment", start, response.Error)
	return &commentResponseResolver{response: response}
}

// DeleteComment - deletes the caller's comment
func (r *Resolver) DeleteComment(ctx context.Context, args struct{ CommentID graphql.ID }) *commentResponseResolver {
	start := time.Now()
	response := r.comments.DeleteComment(ctx, string(args.CommentID))
	r.observe("deleteComment", start, response.Error)
	return &commentResponseResolver{response: response}
}
