package models

// ErrorKind - coarse failure reported to the caller of a mutation
type ErrorKind string

// error kinds shared by all mutations
const (
	NotAuthenticated ErrorKind = "NotAuthenticated"
	NotAuthorized    ErrorKind = "NotAuthorized"
)

// PostResponse - result of a post mutation
// It behaves like Either Monad: 'Error' field is set if error occurred, otherwise 'Post' contains payload
type PostResponse struct {
	Post  *Post
	Error ErrorKind
}

// CommentResponse - result of a comment mutation
type CommentResponse struct {
	Comment *Comment
	Error   ErrorKind
}

// AuthResponse - result of registration or login
// Token is set only on successful login
type AuthResponse struct {
	User  *User
	Token string
	Error ErrorKind
}
