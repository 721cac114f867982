package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"mediatracker/internal/httpx"
	"mediatracker/internal/logging"
)

// multipartOverhead leaves room for boundaries and part headers on top of
// the file itself.
const multipartOverhead = 64 << 10

var allowedTypes = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/gif", ".gif"},
	{"image/webp", ".webp"},
}

type HTTPHandler struct {
	store    Store
	maxBytes int64
}

func NewHTTPHandler(store Store, maxBytes int64) *HTTPHandler {
	return &HTTPHandler{store: store, maxBytes: maxBytes}
}

type uploadResp struct {
	URL string `json:"url"`
}

// Upload handles POST /api/upload
func (h *HTTPHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.tooLarge(w, r)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "No file uploaded",
			[]httpx.ErrorDetail{{Field: "file", Message: "file is required"}})
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		h.tooLarge(w, r)
		return
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	ext, ok := extensionFor(mtype)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR",
			"Invalid file type. Allowed: JPEG, PNG, GIF, WebP",
			[]httpx.ErrorDetail{{Field: "file", Message: "unsupported content type " + mtype.String()}})
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		httpx.InternalError(w, r, err)
		return
	}

	name := uuid.NewString() + ext
	url, err := h.store.Put(r.Context(), name, file)
	if err != nil {
		httpx.InternalError(w, r, fmt.Errorf("store %s: %w", name, err))
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("name", name).
		Str("content_type", mtype.String()).
		Int64("size", header.Size).
		Msg("upload stored")
	httpx.JSONCreated(w, r, uploadResp{URL: url})
}

func (h *HTTPHandler) tooLarge(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
		fmt.Sprintf("File too large. Maximum size is %dMB", h.maxBytes>>20), nil)
}

func extensionFor(mtype *mimetype.MIME) (string, bool) {
	for _, t := range allowedTypes {
		if mtype.Is(t.mime) {
			return t.ext, true
		}
	}
	return "", false
}
