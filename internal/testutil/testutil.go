// Package testutil holds request and token helpers shared by HTTP tests.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"mediatracker/internal/platform/crypto"
)

const (
	TestSecret = "test-secret-at-least-32-bytes-long!!"
	TestUserID = "3f2b8c1e-7d4a-4e5f-9a6b-0c1d2e3f4a5b"
	OtherUser  = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

// AccessToken signs a short-lived access token for userID.
func AccessToken(secret, userID string) string {
	token, _, _ := crypto.GenerateToken(secret, userID, "USER", time.Hour)
	return token
}

// ExpiredToken signs a token whose expiry is already in the past.
func ExpiredToken(secret, userID string) string {
	c := crypto.Claims{
		Sub:  userID,
		Role: "USER",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "mediatracker",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	return token
}

// NewRequest builds a request whose body is body marshaled as JSON.
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth is NewRequest plus an Authorization bearer header.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// Envelope is the decoded response body of any API endpoint.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]any `json:"meta"`
}

type RecordResponse struct {
	Code   int
	Header http.Header
	Body   Envelope
}

// RecordHTTPResponse reads the recorder into a RecordResponse. Bodies that
// are not JSON leave Body zero.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var env Envelope
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &env)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   env,
	}
}
