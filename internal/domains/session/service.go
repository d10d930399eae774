package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/model"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/jwt"
)

// UserVerifier kiểm tra user document tồn tại trước khi mở session
type UserVerifier interface {
	FetchAll(ctx context.Context, userID string) ([]model.Address, error)
}

// LoginResult is returned to the client after login
type LoginResult struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service giữ user hiện tại của mỗi session trong cache với key
// session:<sid>:userId. Login ghi key, Logout xóa key.
type Service struct {
	cache cache.Cache
	jwt   *jwt.Manager
	users UserVerifier
	ttl   time.Duration
}

func NewService(c cache.Cache, jwtManager *jwt.Manager, users UserVerifier, ttl time.Duration) *Service {
	return &Service{
		cache: c,
		jwt:   jwtManager,
		users: users,
		ttl:   ttl,
	}
}

func (s *Service) Login(ctx context.Context, userID string) (*LoginResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, address.NewValidationFailed(errors.New("userId is required"))
	}

	if _, err := s.users.FetchAll(ctx, userID); err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	if err := s.cache.Set(ctx, userKey(sessionID), userID, s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token, expiresAt, err := s.jwt.GenerateSessionToken(userID, sessionID)
	if err != nil {
		_ = s.cache.Delete(ctx, userKey(sessionID))
		return nil, err
	}

	log.Info().Str("user_id", userID).Str("session_id", sessionID).Msg("session opened")
	return &LoginResult{
		Token:     token,
		UserID:    userID,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return address.NewNoCurrentUser()
	}
	if err := s.cache.Delete(ctx, userKey(sessionID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	log.Info().Str("session_id", sessionID).Msg("session closed")
	return nil
}

// CurrentUser trả về user id của session; không có thì NO_CURRENT_USER
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", address.NewNoCurrentUser()
	}

	var userID string
	found, err := s.cache.Get(ctx, userKey(sessionID), &userID)
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	if !found || userID == "" {
		return "", address.NewNoCurrentUser()
	}
	return userID, nil
}

// Authenticate validates a bearer token and resolves it to the session's user.
func (s *Service) Authenticate(ctx context.Context, token string) (string, string, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return "", "", &address.AddressError{
			Code:    address.CodeNoCurrentUser,
			Message: "Invalid or expired token",
			Err:     err,
		}
	}

	userID, err := s.CurrentUser(ctx, claims.SessionID)
	if err != nil {
		return "", "", err
	}
	if userID != claims.UserID {
		return "", "", address.NewNoCurrentUser()
	}

	// sliding session: mỗi request hợp lệ gia hạn TTL
	if err := s.cache.Expire(ctx, userKey(claims.SessionID), s.ttl); err != nil {
		log.Warn().Err(err).Str("session_id", claims.SessionID).Msg("could not extend session")
	}
	return userID, claims.SessionID, nil
}

func userKey(sessionID string) string {
	return "session:" + sessionID + ":userId"
}
