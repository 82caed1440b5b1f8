// Package auth implements registration, login, and bearer-session resolution
// for the SymptomLog API. Sessions are opaque random tokens; only their
// SHA-256 hash is persisted.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"symptomlog/internal/types"
)

// bcryptCost is the bcrypt cost factor used for password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// UserStore defines the user persistence methods the service needs.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*types.User, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	GetByID(ctx context.Context, id string) (*types.User, error)
}

// SessionStore defines the session persistence methods the service needs.
type SessionStore interface {
	Create(ctx context.Context, s *types.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*types.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpiredByUser(ctx context.Context, userID string) error
}

// PasswordHasher abstracts bcrypt operations for testability.
type PasswordHasher interface {
	CompareHashAndPassword(hashedPassword, password string) error
	GenerateFromPassword(password string) (string, error)
}

type bcryptHasher struct{}

func (bcryptHasher) CompareHashAndPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func (bcryptHasher) GenerateFromPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// HashToken produces the hex-encoded SHA-256 hash of a raw session token.
// SHA-256 (unlike bcrypt) is unsalted, so the hash stays searchable by
// equality in the sessions table.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// Service implements account and session operations.
type Service struct {
	users    UserStore
	sessions SessionStore
	hasher   PasswordHasher
	clock    types.Clock
	ttl      time.Duration
	logger   *slog.Logger
}

// ServiceConfig holds the dependencies for creating an auth Service.
type ServiceConfig struct {
	Users      UserStore
	Sessions   SessionStore
	Hasher     PasswordHasher
	Clock      types.Clock
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// NewService creates an auth Service. Hasher defaults to bcrypt, Clock to the
// real clock, Logger to slog.Default.
func NewService(cfg ServiceConfig) *Service {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = bcryptHasher{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:    cfg.Users,
		sessions: cfg.Sessions,
		hasher:   hasher,
		clock:    clock,
		ttl:      cfg.SessionTTL,
		logger:   logger,
	}
}

// Register creates an account and opens a session for it. Returns the user
// and the raw session token.
func (s *Service) Register(ctx context.Context, email, password string) (*types.User, string, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", types.NewAppError(types.ErrCodeValidationInvalidEmail, "invalid email address", nil)
	}
	if len(password) < minPasswordLength {
		return nil, "", types.NewAppError(
			types.ErrCodeValidationInvalidField,
			"password must be at least 8 characters",
			nil,
		)
	}

	passwordHash, err := s.hasher.GenerateFromPassword(password)
	if err != nil {
		return nil, "", types.NewAppError(types.ErrCodeInternalUnexpected, "failed to hash password", err)
	}

	user, err := s.users.Create(ctx, email, passwordHash)
	if err != nil {
		return nil, "", err
	}

	token, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies credentials and opens a session. User-not-found and wrong
// password both surface as invalid credentials so account existence cannot
// be probed.
func (s *Service) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) && appErr.Code == types.ErrCodeAuthUserNotFound {
			return nil, "", types.NewAppError(types.ErrCodeAuthInvalidCreds, "invalid email or password", nil)
		}
		return nil, "", err
	}

	if err := s.hasher.CompareHashAndPassword(user.PasswordHash, password); err != nil {
		return nil, "", types.NewAppError(types.ErrCodeAuthInvalidCreds, "invalid email or password", nil)
	}

	token, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	// Lazy cleanup of this user's expired sessions; failure is non-fatal.
	if err := s.sessions.DeleteExpiredByUser(ctx, user.ID); err != nil {
		s.logger.Warn("failed to clean expired sessions during login",
			"user_id", user.ID,
			"error", err,
		)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// Logout invalidates the session for the raw token. Idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, HashToken(token))
}

// ResolveToken resolves a raw bearer token to an Actor, checking session
// expiry against the injected clock.
func (s *Service) ResolveToken(ctx context.Context, token string) (*types.Actor, error) {
	session, err := s.sessions.GetByTokenHash(ctx, HashToken(token))
	if err != nil {
		return nil, err
	}

	if s.clock.Now().After(session.ExpiresAt) {
		return nil, types.NewAppError(types.ErrCodeAuthSessionExpired, "session has expired", nil)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	return &types.Actor{
		ID:    user.ID,
		Email: user.Email,
		Type:  types.ActorTypeUser,
	}, nil
}

// createSession generates a raw token, persists its hash, and returns the
// raw token for the client.
func (s *Service) createSession(ctx context.Context, userID string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "failed to generate session token", err)
	}

	session := &types.Session{
		TokenHash: HashToken(token),
		UserID:    userID,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}

	return token, nil
}

// generateToken returns 32 cryptographically random bytes, hex encoded.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
