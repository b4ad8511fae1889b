package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is the authentication slice of a user row.
type Credentials struct {
	UserID       string
	Email        string
	Role         string
	PasswordHash string
}

type UserRepository interface {
	// GetCredentials loads the active user's credentials by email, or nil
	// when no active user matches.
	GetCredentials(email string) (*Credentials, error)
	GetCredentialsByID(userID string) (*Credentials, error)
}

type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	logger         *slog.Logger
	bcryptCost     int
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		logger:         logger,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	creds, err := s.userRepo.GetCredentials(dto.Email)
	if err != nil || creds == nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(creds)
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	// Re-read the user so a deactivation or role change takes effect on
	// the next refresh rather than living as long as the refresh token.
	creds, err := s.userRepo.GetCredentialsByID(claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}
	if creds == nil {
		return AuthTokens{}, ErrUserInactive
	}

	return s.issueTokens(creds)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(creds *Credentials) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(creds.UserID, creds.Email, creds.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(creds.UserID, creds.Email, creds.Role)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
