package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type memStore struct {
	objects map[string][]byte
	err     error
}

func (m *memStore) Put(_ context.Context, name string, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects[name] = b
	return "/uploads/" + name, nil
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestUpload_Stored(t *testing.T) {
	store := &memStore{objects: map[string][]byte{}}
	h := NewHTTPHandler(store, 5<<20)

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)
	w := httptest.NewRecorder()
	h.Upload(w, multipartRequest(t, "file", "poster.txt", content))

	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Data uploadResp `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Regexp(t, regexp.MustCompile(`^/uploads/[0-9a-f-]{36}\.png$`), body.Data.URL)

	require.Len(t, store.objects, 1)
	for _, b := range store.objects {
		assert.Equal(t, content, b)
	}
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		req      func(t *testing.T) *http.Request
		wantCode int
		wantText string
	}{
		{
			name: "not an image",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "poster.png", []byte("just some text, honestly"))
			},
			wantCode: http.StatusBadRequest,
			wantText: "Invalid file type",
		},
		{
			name: "missing file field",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "image", "poster.png", pngHeader)
			},
			wantCode: http.StatusBadRequest,
			wantText: "No file uploaded",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{}`))
			},
			wantCode: http.StatusBadRequest,
			wantText: "No file uploaded",
		},
		{
			name: "too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "big.png", append(append([]byte{}, pngHeader...), make([]byte, 2048)...))
			},
			wantCode: http.StatusRequestEntityTooLarge,
			wantText: "PAYLOAD_TOO_LARGE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{objects: map[string][]byte{}}
			h := NewHTTPHandler(store, 1024)

			w := httptest.NewRecorder()
			h.Upload(w, tt.req(t))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantText)
			assert.Empty(t, store.objects)
		})
	}
}

func TestUpload_StoreFailure(t *testing.T) {
	h := NewHTTPHandler(&memStore{err: errors.New("disk full")}, 5<<20)

	w := httptest.NewRecorder()
	h.Upload(w, multipartRequest(t, "file", "a.png", pngHeader))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")
}

func TestLocalStore_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "a.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/a.png", url)

	got, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStore_RejectsPaths(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, name := range []string{"../escape.png", "a/b.png", ".."} {
		_, err := store.Put(context.Background(), name, bytes.NewReader(pngHeader))
		assert.Error(t, err, name)
	}
}

func TestLocalStore_CanceledContext(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Put(ctx, "a.png", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, context.Canceled)
}
