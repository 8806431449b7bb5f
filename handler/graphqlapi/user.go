package graphqlapi

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/xImouto/imoddit/models"
)

type userResolver struct {
	user *models.User
}

func (r *userResolver) ID() graphql.ID {
	return graphql.ID(r.user.ID)
}

func (r *userResolver) Username() string {
	return r.user.Username
}

func (r *userResolver) Email() string {
	return r.user.Email
}

func (r *userResolver) CreatedAt() graphql.Time {
	return graphql.Time{Time: r.user.CreatedAt}
}

type authResponseResolver struct {
	response *models.AuthResponse
}

func (r *authResponseResolver) User() *userResolver {
	if r.response.User == nil {
		return nil
	}
	return &userResolver{user: r.response.User}
}

func (r *authResponseResolver) Token() *string {
	if r.response.Token == "" {
		return nil
	}
	return &r.response.Token
}

func (r *authResponseResolver) Error() *string {
	return errorString(r.response.Error)
}

type registerInput struct {
	Username string
	Email    string
	Password string
}

type loginInput struct {
	Login    string
	Password string
}

// Register - creates a user account
func (r *Resolver) Register(ctx context.Context, args struct{ Input registerInput }) *authResponseResolver {
	start := time.Now()
	response := r.users.Register(ctx, &models.RegistrationRequest{
		Username: args.Input.Username,
		Email:    args.Input.Email,
		Password: args.Input.Password,
	})
	r.observe("register", start, response.Error)
	return &authResponseResolver{response: response}
}

// Login - exchanges credentials for a token
func (r *Resolver) Login(ctx context.Context, args struct{ Input loginInput }) *authResponseResolver {
	start := time.Now()
	response := r.users.Login(ctx, &models.LoginRequest{
		Login:    args.Input.Login,
		Password: args.Input.Password,
	})
	r.observe("login", start, response.Error)
	return &authResponseResolver{response: response}
}
