package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sklink/internal/models"
	"sklink/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// invalidCredentials is the single message for every failed login path.
// Unknown identifier and wrong password are indistinguishable on purpose.
const invalidCredentials = "invalid credentials"

// AuthConfig holds token issuance settings.
type AuthConfig struct {
	JWTSecret   []byte
	TokenExpiry time.Duration
}

type authService struct {
	officials repositories.OfficialRepository
	youths    repositories.YouthRepository
	config    *AuthConfig
	logger    *zap.Logger
}

// NewAuthService creates the authentication service.
func NewAuthService(
	officials repositories.OfficialRepository,
	youths repositories.YouthRepository,
	config *AuthConfig,
	logger *zap.Logger,
) AuthService {
	return &authService{
		officials: officials,
		youths:    youths,
		config:    config,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if req.Identifier == "" || req.Password == "" {
		return nil, NewValidationError("identifier and password are required", nil)
	}

	switch req.Kind {
	case models.ActorOfficial:
		return s.loginOfficial(ctx, req)
	case models.ActorYouth:
		return s.loginYouth(ctx, req)
	default:
		return nil, NewValidationError("kind must be official or youth", nil)
	}
}

func (s *authService) loginOfficial(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	official, err := s.officials.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUnauthorizedError(invalidCredentials)
		}
		return nil, NewInternalError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(official.PasswordHash), []byte(req.Password)) != nil {
		return nil, NewUnauthorizedError(invalidCredentials)
	}

	token, expiresAt, err := s.IssueToken(official.Actor(), official.Role)
	if err != nil {
		return nil, NewInternalError(err)
	}

	s.logger.Info("official logged in", zap.Int64("official_id", official.ID))
	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Kind:      models.ActorOfficial,
		Principal: official,
	}, nil
}

func (s *authService) loginYouth(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	youth, err := s.youths.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUnauthorizedError(invalidCredentials)
		}
		return nil, NewInternalError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(youth.PasswordHash), []byte(req.Password)) != nil {
		return nil, NewUnauthorizedError(invalidCredentials)
	}

	token, expiresAt, err := s.IssueToken(youth.Actor(), "")
	if err != nil {
		return nil, NewInternalError(err)
	}

	s.logger.Info("youth logged in", zap.Int64("youth_id", youth.ID))
	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Kind:      models.ActorYouth,
		Principal: youth,
	}, nil
}

// IssueToken mints an HS256 session token. Role is empty for youths.
func (s *authService) IssueToken(actor models.Actor, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.TokenExpiry)

	claims := jwt.MapClaims{
		"userType": string(actor.Kind),
		"id":       actor.ID,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}
	if role != "" {
		claims["role"] = role
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.JWTSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
