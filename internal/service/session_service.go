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

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

type sessionUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type revocationRepository interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry models.AuditLog)
}

// SessionConfig defines configuration for session tokens.
type SessionConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	AllowSwitch       bool
}

// SessionService tracks who is signed in via signed, revocable access tokens.
type SessionService struct {
	users     sessionUserRepository
	revoked   revocationRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	config    SessionConfig
	now       func() time.Time
}

// NewSessionService constructs a SessionService instance.
func NewSessionService(users sessionUserRepository, revoked revocationRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger, config SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &SessionService{
		users:     users,
		revoked:   revoked,
		audit:     audit,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Login signs in the user owning email.
func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email must be a valid address")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrAuthenticationFailed, "no account found for this email")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.record(ctx, user.ID, models.AuditActionLogin, req.IP, req.UserAgent)
	s.logger.Info("user signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return res, nil
}

// Logout revokes the presented token.
func (s *SessionService) Logout(ctx context.Context, claims *models.JWTClaims, meta models.LoginRequest) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}
	s.record(ctx, claims.UserID, models.AuditActionLogout, meta.IP, meta.UserAgent)
	return nil
}

// ListUsers returns every provisioned user.
func (s *SessionService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// SwitchUser replaces the current session with one for userID. It is a demo helper, not a security boundary.
func (s *SessionService) SwitchUser(ctx context.Context, claims *models.JWTClaims, req models.SwitchUserRequest) (*models.LoginResponse, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !s.config.AllowSwitch {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "user switching is disabled")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "user_id is required")
	}

	target, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	res, err := s.issue(target)
	if err != nil {
		return nil, err
	}
	if err := s.revoke(ctx, claims); err != nil {
		s.logger.Warn("failed to revoke previous session on switch", zap.String("user_id", claims.UserID), zap.Error(err))
	}

	s.record(ctx, target.ID, models.AuditActionSwitchUser, "", "")
	return res, nil
}

// ValidateToken parses and validates an access token and refreshes the role from the user record.
func (s *SessionService) ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check session")
		}
		if revoked {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session has ended")
		}
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "user no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	claims.Role = user.Role
	claims.Name = user.Name
	claims.Email = user.Email

	return claims, nil
}

func (s *SessionService) issue(user *models.User) (*models.LoginResponse, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		User:        *user,
		IssuedAt:    issuedAt,
	}, nil
}

func (s *SessionService) revoke(ctx context.Context, claims *models.JWTClaims) error {
	if s.revoked == nil || claims.ID == "" {
		return nil
	}
	until := s.now().Add(s.config.AccessTokenExpiry)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.revoked.Revoke(ctx, claims.ID, until); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to end session")
	}
	return nil
}

func (s *SessionService) record(ctx context.Context, userID, action, ip, userAgent string) {
	if s.audit == nil {
		return
	}
	uid := userID
	s.audit.Record(ctx, models.AuditLog{
		UserID:     &uid,
		Action:     action,
		Resource:   models.AuditResourceAuth,
		ResourceID: &uid,
		IPAddress:  ip,
		UserAgent:  userAgent,
	})
}
