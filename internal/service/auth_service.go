package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/event-tracker-api/internal/models"
	appErrors "github.com/noah-isme/event-tracker-api/pkg/errors"
)

type authUserRepository interface {
	Register(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, normalized string) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	FindSession(ctx context.Context, id string, now time.Time) (*models.SessionUser, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService registers accounts and manages bearer sessions.
type AuthService struct {
	repo      authUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeUsername is the uniqueness key of a username.
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Register creates an account. The account becomes admin while no admin exists.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Username and 6+ character password required.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		UsernameDisplay:    req.Username,
		UsernameNormalized: NormalizeUsername(req.Username),
		PasswordHash:       string(hash),
		CreatedAt:          s.now(),
	}
	if err := s.repo.Register(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "User already exists.")
		}
		return nil, appErrors.Internal(err, "failed to register user")
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &models.RegisterResponse{OK: true, Role: user.Role}, nil
}

// Login verifies credentials, opens a session and returns a token bound to it.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, NormalizeUsername(req.Username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidLogin, "")
		}
		return nil, appErrors.Internal(err, "failed to fetch user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidLogin, "")
	}

	issuedAt := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: issuedAt,
		ExpiresAt: issuedAt.Add(s.config.AccessTokenExpiry),
	}
	token, err := s.generateAccessToken(user, session)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, appErrors.Internal(err, "failed to persist session")
	}

	return &models.LoginResponse{
		Token:     token,
		Username:  user.UsernameDisplay,
		Role:      models.NormalizeRole(string(user.Role)),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return appErrors.Internal(err, "failed to delete session")
	}
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, appErrors.ErrUnauthorized.Message)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	return claims, nil
}

// Authenticate resolves a bearer token to its live session. Revoked or
// expired sessions are rejected even when the token signature is valid.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.SessionUser, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	session, err := s.repo.FindSession(ctx, claims.ID, s.now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
		}
		return nil, appErrors.Internal(err, "failed to load session")
	}
	session.Role = models.NormalizeRole(string(session.Role))
	return session, nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, err
	}
	s.metrics.RecordSessionsPurged(n)
	if n > 0 {
		s.logger.Info("expired sessions purged", zap.Int64("count", n))
	}
	return n, nil
}

func (s *AuthService) generateAccessToken(user *models.User, session *models.Session) (string, error) {
	claims := &models.JWTClaims{
		UserID:   user.ID,
		Role:     models.NormalizeRole(string(user.Role)),
		Username: user.UsernameDisplay,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}
