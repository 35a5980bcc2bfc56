package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vovakirdan/chatline-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when email/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when trying to register with an existing email.
	ErrUserExists = errors.New("user already exists")
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords don't match")
	// ErrInvalidRegistration is returned when registration fields fail validation.
	ErrInvalidRegistration = errors.New("invalid registration")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash in full.
	ErrPasswordTooLong = errors.New("password too long")
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var validate = validator.New(validator.WithRequiredStructEnabled())

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name            string `validate:"required,max=64"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string
}

// Service provides authentication operations.
type Service struct {
	store     store.Directory
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(directory store.Directory, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     directory,
		jwtConfig: jwtConfig,
	}
}

// Register validates the input and stores a new identity with a hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*store.Identity, error) {
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = store.NormalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
	}

	hashedPassword, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	identity := &store.Identity{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashedPassword,
	}
	if err := s.store.CreateIdentity(ctx, identity); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	return identity, nil
}

// Login validates credentials and returns a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	identity, err := s.store.GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup identity: %w", err)
	}

	ok, err := ComparePassword(identity.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtConfig, identity.Email)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// VerifyToken validates a session token and returns the email it was issued for.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	claims, err := ValidateToken(s.jwtConfig, tokenString)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}
