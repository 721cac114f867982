package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediatracker/internal/platform/crypto"
	"mediatracker/internal/session"
	"mediatracker/internal/user"
)

var ErrUnauthorized = errors.New("unauthorized")

const (
	AccessTokenTTL     = 15 * time.Minute
	RefreshTokenTTL    = 30 * 24 * time.Hour
	RememberMeTokenTTL = 90 * 24 * time.Hour

	refreshTokenBytes = 32
)

// Tokens is the credential pair handed to a client after login or refresh.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
	UserAgent  string
	IPAddress  string
}

type Service struct {
	secret         string
	userService    *user.Service
	sessionService *session.Service
	now            func() time.Time
}

func NewService(secret string, userService *user.Service, sessionService *session.Service) *Service {
	return &Service{
		secret:         secret,
		userService:    userService,
		sessionService: sessionService,
		now:            time.Now,
	}
}

func refreshTTL(rememberMe bool) time.Duration {
	if rememberMe {
		return RememberMeTokenTTL
	}
	return RefreshTokenTTL
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Tokens, error) {
	u, err := s.userService.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Tokens{}, ErrUnauthorized
		}
		return Tokens{}, err
	}

	return s.issue(ctx, u, session.Session{
		UserID:     u.ID,
		UserAgent:  in.UserAgent,
		IPAddress:  in.IPAddress,
		RememberMe: in.RememberMe,
	})
}

// Refresh rotates a refresh token: the presented one is consumed and a new
// pair is issued. A token can be exchanged at most once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	tokenHash := crypto.HashToken(refreshToken)
	sess, err := s.sessionService.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Tokens{}, ErrUnauthorized
		}
		return Tokens{}, err
	}

	u, err := s.userService.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Tokens{}, ErrUnauthorized
		}
		return Tokens{}, err
	}

	if err := s.sessionService.DeleteByTokenHash(ctx, tokenHash); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Tokens{}, ErrUnauthorized
		}
		return Tokens{}, err
	}

	return s.issue(ctx, u, session.Session{
		UserID:     u.ID,
		UserAgent:  sess.UserAgent,
		IPAddress:  sess.IPAddress,
		RememberMe: sess.RememberMe,
	})
}

func (s *Service) issue(ctx context.Context, u user.User, sess session.Session) (Tokens, error) {
	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, u.Role, AccessTokenTTL)
	if err != nil {
		return Tokens{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := crypto.RandomHex(refreshTokenBytes)
	if err != nil {
		return Tokens{}, fmt.Errorf("generate refresh token: %w", err)
	}

	sess.RefreshTokenHash = crypto.HashToken(refreshToken)
	sess.ExpiresAt = s.now().Add(refreshTTL(sess.RememberMe))
	if err := s.sessionService.Create(ctx, &sess); err != nil {
		return Tokens{}, fmt.Errorf("create session: %w", err)
	}

	return Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(AccessTokenTTL.Seconds()),
	}, nil
}

// Logout revokes accessToken until it would have expired anyway and, when
// refreshToken is set, ends that refresh session.
func (s *Service) Logout(ctx context.Context, accessToken, userID, refreshToken string) error {
	claims, err := crypto.ParseToken(s.secret, accessToken)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := s.now().Add(AccessTokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.sessionService.AddToBlacklist(ctx, claims.ID, userID, expiresAt); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	if refreshToken != "" {
		err := s.sessionService.DeleteByTokenHash(ctx, crypto.HashToken(refreshToken))
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			return fmt.Errorf("end session: %w", err)
		}
	}
	return nil
}
