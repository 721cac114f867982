package movieinfo

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
	Title  string        `json:"title"`
	TMDbID httpx.LooseID `json:"tmdb_id"`
}

// Lookup handles POST /api/movie-info
func (h *HTTPHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupReq
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	info, err := h.service.Lookup(r.Context(), Query{Title: req.Title, TMDbID: string(req.TMDbID)})
	switch {
	case err == nil:
		httpx.JSONSuccess(w, r, info, nil)
	case errors.Is(err, ErrEmptyQuery):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Provide movie title or TMDb ID", nil)
	case errors.Is(err, ErrNotConfigured):
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_CONFIGURED",
			"TMDb API key not configured. Please add TMDB_API_KEY to your environment variables.", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Movie not found. Please try a different search term.", nil)
	default:
		logging.Ctx(r.Context()).Warn().Err(err).Msg("movie lookup failed")
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Movie lookup is temporarily unavailable", nil)
	}
}
