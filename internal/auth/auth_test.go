package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediatracker/internal/httpx"
	"mediatracker/internal/platform/crypto"
	"mediatracker/internal/session"
	"mediatracker/internal/user"
)

const secret = "test-secret"

type fixture struct {
	users     *user.MockRepository
	sessions  *session.MockRepository
	blacklist *session.MockBlacklistRepository
	service   *Service
	handler   *HTTPHandler
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		users:     user.NewMockRepository(ctrl),
		sessions:  session.NewMockRepository(ctrl),
		blacklist: session.NewMockBlacklistRepository(ctrl),
	}
	f.service = NewService(secret, user.NewService(f.users), session.NewService(f.sessions, f.blacklist))
	f.service.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	f.handler = NewHTTPHandler(f.service)
	return f
}

func storedUser(t *testing.T) user.User {
	hash, err := crypto.HashPassword("Test123!@#")
	require.NoError(t, err)
	return user.User{ID: "u-1", Email: "reader@example.com", Password: hash, Role: user.RoleUser}
}

func TestService_Login(t *testing.T) {
	t.Run("remember me extends refresh lifetime", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "reader@example.com").Return(storedUser(t), nil)

		var created session.Session
		f.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *session.Session) error {
			created = *s
			return nil
		})

		tokens, err := f.service.Login(context.Background(), LoginInput{
			Email: "reader@example.com", Password: "Test123!@#", RememberMe: true, UserAgent: "curl",
		})
		require.NoError(t, err)

		assert.Equal(t, 900, tokens.ExpiresIn)
		assert.Len(t, tokens.RefreshToken, 64)
		assert.Equal(t, crypto.HashToken(tokens.RefreshToken), created.RefreshTokenHash)
		assert.Equal(t, f.service.now().Add(RememberMeTokenTTL), created.ExpiresAt)
		assert.Equal(t, "curl", created.UserAgent)

		claims, err := crypto.ParseToken(secret, tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.Sub)
	})

	t.Run("default refresh lifetime", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(storedUser(t), nil)
		f.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *session.Session) error {
			assert.Equal(t, f.service.now().Add(RefreshTokenTTL), s.ExpiresAt)
			return nil
		})

		_, err := f.service.Login(context.Background(), LoginInput{Email: "reader@example.com", Password: "Test123!@#"})
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(storedUser(t), nil)

		_, err := f.service.Login(context.Background(), LoginInput{Email: "reader@example.com", Password: "Wrong123!@#"})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user.User{}, user.ErrNotFound)

		_, err := f.service.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_Refresh(t *testing.T) {
	const presented = "old-refresh-token"
	oldHash := crypto.HashToken(presented)

	t.Run("rotates", func(t *testing.T) {
		f := newFixture(t)
		f.sessions.EXPECT().GetByTokenHash(gomock.Any(), oldHash).
			Return(session.Session{ID: "s-1", UserID: "u-1", RememberMe: true, UserAgent: "ua"}, nil)
		f.users.EXPECT().GetByID(gomock.Any(), "u-1").Return(storedUser(t), nil)
		f.sessions.EXPECT().DeleteByTokenHash(gomock.Any(), oldHash).Return(nil)
		f.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *session.Session) error {
			assert.Empty(t, s.ID)
			assert.NotEqual(t, oldHash, s.RefreshTokenHash)
			assert.True(t, s.RememberMe)
			assert.Equal(t, "ua", s.UserAgent)
			return nil
		})

		tokens, err := f.service.Refresh(context.Background(), presented)
		require.NoError(t, err)
		assert.NotEqual(t, presented, tokens.RefreshToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newFixture(t)
		f.sessions.EXPECT().GetByTokenHash(gomock.Any(), oldHash).Return(session.Session{}, session.ErrNotFound)

		_, err := f.service.Refresh(context.Background(), presented)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("concurrent reuse loses the race", func(t *testing.T) {
		f := newFixture(t)
		f.sessions.EXPECT().GetByTokenHash(gomock.Any(), oldHash).Return(session.Session{UserID: "u-1"}, nil)
		f.users.EXPECT().GetByID(gomock.Any(), "u-1").Return(storedUser(t), nil)
		f.sessions.EXPECT().DeleteByTokenHash(gomock.Any(), oldHash).Return(session.ErrNotFound)

		_, err := f.service.Refresh(context.Background(), presented)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_Logout(t *testing.T) {
	token, jti, err := crypto.GenerateToken(secret, "u-1", "USER", AccessTokenTTL)
	require.NoError(t, err)

	t.Run("blacklists and ends session", func(t *testing.T) {
		f := newFixture(t)
		f.blacklist.EXPECT().AddToken(gomock.Any(), jti, "u-1", gomock.Any()).Return(nil)
		f.sessions.EXPECT().DeleteByTokenHash(gomock.Any(), crypto.HashToken("rt")).Return(session.ErrNotFound)

		require.NoError(t, f.service.Logout(context.Background(), token, "u-1", "rt"))
	})

	t.Run("without refresh token", func(t *testing.T) {
		f := newFixture(t)
		f.blacklist.EXPECT().AddToken(gomock.Any(), jti, "u-1", gomock.Any()).Return(nil)

		require.NoError(t, f.service.Logout(context.Background(), token, "u-1", ""))
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.service.Logout(context.Background(), "garbage", "u-1", ""), ErrUnauthorized)
	})
}

func TestHTTPHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "reader@example.com").Return(storedUser(t), nil)
		f.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"reader@example.com","password":"Test123!@#"}`))
		f.handler.Login(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data Tokens `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.NotEmpty(t, resp.Data.AccessToken)
		assert.NotEmpty(t, resp.Data.RefreshToken)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user.User{}, user.ErrNotFound)

		w := httptest.NewRecorder()
		f.handler.Login(w, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"reader@example.com","password":"x"}`)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)

		w := httptest.NewRecorder()
		f.handler.Login(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user.User{}, errors.New("db down"))

		w := httptest.NewRecorder()
		f.handler.Login(w, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"reader@example.com","password":"x"}`)))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Refresh(t *testing.T) {
	f := newFixture(t)
	f.sessions.EXPECT().GetByTokenHash(gomock.Any(), gomock.Any()).Return(session.Session{}, session.ErrNotFound)

	w := httptest.NewRecorder()
	f.handler.Refresh(w, httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{"refresh_token":"x"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	f.handler.Refresh(w, httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTPHandler_Logout(t *testing.T) {
	token, jti, err := crypto.GenerateToken(secret, "u-1", "USER", AccessTokenTTL)
	require.NoError(t, err)

	f := newFixture(t)
	f.blacklist.EXPECT().AddToken(gomock.Any(), jti, "u-1", gomock.Any()).Return(nil)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	r = r.WithContext(httpx.ContextWithUser(r.Context(), "u-1", "USER"))

	w := httptest.NewRecorder()
	f.handler.Logout(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	f.handler.Logout(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
