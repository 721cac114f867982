package bookinfo

import (
	"errors"
	"net/http"

	"mediatracker/internal/httpx"
	"mediatracker/internal/logging"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type lookupReq struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Lookup handles POST /api/book-info
func (h *HTTPHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupReq
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	info, err := h.service.Lookup(r.Context(), Query(req))
	switch {
	case err == nil:
		httpx.JSONSuccess(w, r, info, nil)
	case errors.Is(err, ErrEmptyQuery):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Provide isbn or title/author", nil)
	case errors.Is(err, ErrInvalidISBN):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "not a valid ISBN",
			[]httpx.ErrorDetail{{Field: "isbn", Message: "isbn must be a valid ISBN-10 or ISBN-13"}})
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found. Please try a different search term.", nil)
	default:
		logging.Ctx(r.Context()).Warn().Err(err).Msg("book lookup failed")
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Book lookup is temporarily unavailable", nil)
	}
}
