package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dropzero/backend/libs/auth"
	"dropzero/backend/services/auth-service/internal/models"
	"dropzero/backend/services/auth-service/internal/password"
	"dropzero/backend/services/auth-service/internal/repository"
)

var (
	// ErrEmailInUse is returned when attempting to register duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidInput marks requests rejected before touching storage.
	ErrInvalidInput = errors.New("auth: invalid input")
	// ErrForbidden is returned when the caller may not act on the target user.
	ErrForbidden = errors.New("auth: forbidden")
	// ErrUserNotFound is returned for unknown profile ids.
	ErrUserNotFound = errors.New("auth: user not found")
)

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

// RegisterInput is the payload of a sign-up.
type RegisterInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	FiscalCode string `json:"fiscalCode"`
	Role       string `json:"role"`
}

// ProfileUpdate lists the profile fields a user may change. Empty fields keep
// their stored value.
type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Password  string `json:"password"`
}

// Session is returned by register and login.
type Session struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	Role      string `json:"role"`
	Token     string `json:"token"`
}

// AuthService contains registration, login and profile logic.
type AuthService struct {
	repo             UserRepository
	hasher           password.Hasher
	tokenizer        TokenIssuer
	allowAdminSignup bool
	logger           *zap.Logger
}

// NewAuthService builds AuthService. Self-registration as admin is refused
// unless allowAdminSignup is set.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer TokenIssuer, allowAdminSignup bool, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:             repo,
		hasher:           hasher,
		tokenizer:        tokenizer,
		allowAdminSignup: allowAdminSignup,
		logger:           logger,
	}
}

// Register creates an account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = auth.RolePrivate
	}
	if !auth.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}
	if role == auth.RoleAdmin && !s.allowAdminSignup {
		return nil, ErrForbidden
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if role == auth.RolePrivate && (firstName == "" || lastName == "") {
		return nil, fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FirstName:    firstName,
		LastName:     lastName,
		FiscalCode:   strings.ToUpper(strings.TrimSpace(in.FiscalCode)),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	return s.session(user)
}

// Login authenticates a user and produces a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

// Profile returns the account of userID as seen by the caller.
func (s *AuthService) Profile(ctx context.Context, caller *auth.Claims, userID int64) (*models.User, error) {
	if !caller.CanAccessUser(userID) {
		return nil, ErrForbidden
	}
	return s.load(ctx, userID)
}

// UpdateProfile applies the non-empty fields of upd to userID's account. A new
// password is hashed before storage.
func (s *AuthService) UpdateProfile(ctx context.Context, caller *auth.Claims, userID int64, upd ProfileUpdate) (*models.User, error) {
	if !caller.CanAccessUser(userID) {
		return nil, ErrForbidden
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	replace(&user.FirstName, upd.FirstName)
	replace(&user.LastName, upd.LastName)
	replace(&user.Email, strings.ToLower(upd.Email))
	replace(&user.Phone, upd.Phone)
	replace(&user.Address, upd.Address)
	if upd.Password != "" {
		hash, err := s.hasher.Hash(upd.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailInUse
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logger.Info("profile updated", zap.Int64("user_id", user.ID), zap.Int64("by", caller.UserID))
	return user, nil
}

func (s *AuthService) load(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.tokenizer.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		Role:      user.Role,
		Token:     token,
	}, nil
}

func replace(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}
