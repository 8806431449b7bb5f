package userService

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xImouto/imoddit/models"
	"github.com/xImouto/imoddit/storage"
)

// error codes for this service
const (
	// WrongCredentials - user inputs wrong password or login while logging in
	WrongCredentials models.ErrorKind = "WrongCredentials"
	// InvalidEmail - user inputs invalid email while registration
	InvalidEmail models.ErrorKind = "InvalidEmail"
	// InvalidUsername - user inputs invalid username while registration
	InvalidUsername models.ErrorKind = "InvalidUsername"
	// InvalidPassword - user inputs invalid password while registration
	InvalidPassword models.ErrorKind = "InvalidPassword"
	// UserAlreadyRegistered - username or email is already taken
	UserAlreadyRegistered models.ErrorKind = "UserAlreadyRegistered"
	// IncompleteCredentials - user do not input full credentials
	IncompleteCredentials models.ErrorKind = "IncompleteCredentials"
	// TechnicalError - internal server error
	TechnicalError models.ErrorKind = "TechnicalError"
	// NoError - no error occurred. Should not be exposed but only used internally
	NoError models.ErrorKind = ""
)

// constants for use in validator methods
const (
	// MinPwdLen - minimum length of user password
	MinPwdLen int = 8
	// MaxPwdLen - maximum length of user password. bcrypt ignores everything past 72 bytes
	MaxPwdLen int = 72

	// MinUsernameLen - minimum username length
	MinUsernameLen int = 3
	// MaxUsernameLen - maximum username length
	MaxUsernameLen int = 36

	// MaxEmailLen - maximum length of email
	MaxEmailLen int = 255
)

// Gateway - persistence of users
type Gateway interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByLogin(ctx context.Context, login string) (*models.User, error)
}

// TokenIssuer - signs tokens for logged in users
type TokenIssuer interface {
	IssueToken(user *models.User) (string, error)
}

// Service - registration and login
type Service struct {
	gateway    Gateway
	tokens     TokenIssuer
	bcryptCost int
	logger     *zap.SugaredLogger
}

// New - creates user service
func New(gateway Gateway, tokens TokenIssuer, logger *zap.SugaredLogger) *Service {
	return &Service{
		gateway:    gateway,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

// SetBcryptCost - overrides the cost used for hashing passwords
func (s *Service) SetBcryptCost(cost int) {
	s.bcryptCost = cost
}

func validateEmail(email string) models.ErrorKind {
	if strings.Count(email, "@") != 1 || len(email) > MaxEmailLen || email[0] == '@' || email[len(email)-1] == '@' {
		return InvalidEmail
	}
	return NoError
}

func validateUsername(username string) models.ErrorKind {
	usernameLen := len([]rune(username))
	if usernameLen > MaxUsernameLen || usernameLen < MinUsernameLen || strings.Contains(username, "@") {
		return InvalidUsername
	}
	return NoError
}

func validatePassword(password string) models.ErrorKind {
	passwordLen := len(password)
	if passwordLen < MinPwdLen || passwordLen > MaxPwdLen {
		return InvalidPassword
	}
	return NoError
}

func validateRegistrationRequest(request *models.RegistrationRequest) models.ErrorKind {
	if request.Username == "" || request.Email == "" || request.Password == "" {
		return IncompleteCredentials
	}
	if err := validateEmail(request.Email); err != NoError {
		return err
	}
	if err := validateUsername(request.Username); err != NoError {
		return err
	}
	return validatePassword(request.Password)
}

// Register - creates a new user account
// The password is stored as bcrypt hash, so compare passwords with bcrypt.CompareHashAndPassword
func (s *Service) Register(ctx context.Context, request *models.RegistrationRequest) *models.AuthResponse {
	request = &models.RegistrationRequest{
		Username: strings.TrimSpace(request.Username),
		Email:    strings.TrimSpace(request.Email),
		Password: request.Password,
	}

	s.logger.Infof("Got new user registration request. Username: %s", request.Username)

	if validateError := validateRegistrationRequest(request); validateError != NoError {
		s.logger.Infof("Can't register user: invalid request. Error: %s", validateError)
		return &models.AuthResponse{Error: validateError}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), s.bcryptCost)
	if err != nil {
		s.logger.Errorf("Can't register user: error generating hashed password. Username: %s. Error: %s",
			request.Username, err)
		return &models.AuthResponse{Error: TechnicalError}
	}

	user, err := s.gateway.CreateUser(ctx, &models.User{
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			s.logger.Infof("Can't register user: user already registered. Username: %s", request.Username)
			return &models.AuthResponse{Error: UserAlreadyRegistered}
		}
		s.logger.Errorf("Error saving user. Username: %s. Error: %s", request.Username, err)
		return &models.AuthResponse{Error: TechnicalError}
	}

	s.logger.Infof("User registered. Username: %s, ID: %s", user.Username, user.ID)
	return &models.AuthResponse{User: user}
}

// Login - checks credentials and issues a token
// Login may be either username or email
func (s *Service) Login(ctx context.Context, request *models.LoginRequest) *models.AuthResponse {
	login := strings.TrimSpace(request.Login)

	s.logger.Infof("Got new user login request. Login: %s", login)

	if login == "" || request.Password == "" {
		return &models.AuthResponse{Error: IncompleteCredentials}
	}

	user, err := s.gateway.FindUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Infof("Login failed: user does not exist. Login: %s", login)
			return &models.AuthResponse{Error: WrongCredentials}
		}
		s.logger.Errorf("Bad login: error retrieving user. Login: %s. Error: %s", login, err)
		return &models.AuthResponse{Error: TechnicalError}
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		s.logger.Infof("Login failed: inputted password does not match hashed one. Login: %s", login)
		return &models.AuthResponse{Error: WrongCredentials}
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		s.logger.Errorf("Bad login: error generating JWT token. Login: %s. Error: %s", login, err)
		return &models.AuthResponse{Error: TechnicalError}
	}

	s.logger.Infof("Successful login. Username: %s", user.Username)
	return &models.AuthResponse{User: user, Token: token}
}
