package services

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/store"
	"github.com/taskflow-dev/taskflow/internal/types"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserService is the credential store plus the read-only user directory.
// Registration and login are the only unauthenticated operations in the core.
type UserService struct {
	store  *store.Store
	tokens *auth.JWTManager
	logger zerolog.Logger
}

func NewUserService(s *store.Store, tokens *auth.JWTManager, logger zerolog.Logger) *UserService {
	return &UserService{store: s, tokens: tokens, logger: logger}
}

// Register creates a user and issues a session token. The strength policy
// applies here uniformly, whichever entry point is calling.
func (s *UserService) Register(name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, "", apperrors.Validation("name is required")
	}

	if !emailPattern.MatchString(email) {
		return nil, "", apperrors.Validation("invalid email address")
	}

	if err := auth.ValidatePasswordStrength(password); err != nil {
		return nil, "", err
	}

	existing, err := s.store.UserByEmail(email)

	if err != nil {
		s.logger.Error().Err(err).Msg("checking existing user")
		return nil, "", err
	}

	if existing != nil {
		return nil, "", apperrors.DuplicateEmail()
	}

	hash, err := auth.HashPassword(password)

	if err != nil {
		s.logger.Error().Err(err).Msg("hashing password")
		return nil, "", err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         types.RoleMember,
	}

	if err := s.store.CreateUser(&user); err != nil {
		s.logger.Error().Err(err).Msg("creating user")
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)

	if err != nil {
		s.logger.Error().Err(err).Msg("issuing token")
		return nil, "", err
	}

	return &user, token, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password produce the same error.
func (s *UserService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.UserByEmail(email)

	if err != nil {
		s.logger.Error().Err(err).Msg("fetching user for login")
		return nil, "", err
	}

	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", apperrors.InvalidCredentials()
	}

	token, err := s.tokens.Issue(user.ID, user.Role)

	if err != nil {
		s.logger.Error().Err(err).Msg("issuing token")
		return nil, "", err
	}

	return user, token, nil
}

func (s *UserService) Get(id uint) (*models.User, error) {
	return s.store.UserByID(id)
}

func (s *UserService) List() ([]models.User, error) {
	return s.store.ListUsers()
}
