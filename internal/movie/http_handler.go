package movie

import (
	"errors"
	"net/http"

	"mediatracker/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type movieReq struct {
	Title       string        `json:"title" validate:"max=500"`
	Director    string        `json:"director" validate:"max=255"`
	ReleaseYear *int          `json:"release_year" validate:"omitempty,gte=1870,lte=2100"`
	Genre       string        `json:"genre" validate:"max=255"`
	Runtime     *int          `json:"runtime" validate:"omitempty,gte=1,lte=1000"`
	TMDbID      httpx.LooseID `json:"tmdb_id" validate:"max=32"`
	Status      string        `json:"status"`
	PosterURL   string        `json:"poster_url" validate:"max=2048"`
	Rating      *float64      `json:"rating"`
	Notes       *string       `json:"notes" validate:"omitempty,max=10000"`
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var req movieReq
	fields, err := httpx.DecodeJSONFields(r, &req)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return Input{}, false
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return Input{}, false
	}

	return Input{
		Title:       req.Title,
		Director:    req.Director,
		ReleaseYear: req.ReleaseYear,
		Genre:       req.Genre,
		Runtime:     req.Runtime,
		TMDbID:      string(req.TMDbID),
		Status:      req.Status,
		PosterURL:   req.PosterURL,
		Rating:      Patch[float64]{Set: fields.Has("rating"), Value: req.Rating},
		Notes:       Patch[string]{Set: fields.Has("notes"), Value: req.Notes},
	}, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message,
			[]httpx.ErrorDetail{{Field: ve.Field, Message: ve.Message}})
	case errors.Is(err, ErrInvalidID):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_ID", "Invalid movie ID", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Movie not found", nil)
	case errors.Is(err, ErrForbidden):
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	default:
		httpx.InternalError(w, r, err)
	}
}

// List handles GET /api/movies
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.PageFrom(r)
	query := r.URL.Query()

	movies, total, err := h.service.List(r.Context(), Query{
		UserID: httpx.UserIDFrom(r),
		Status: query.Get("status"),
		Search: query.Get("search"),
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, movies, page.Meta(total))
}

// Create handles POST /api/movies
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	m, err := h.service.Create(r.Context(), httpx.UserIDFrom(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, m)
}

// Get handles GET /api/movies/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Get(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// Update handles PUT /api/movies/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	m, err := h.service.Update(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, m, nil)
}

// Delete handles DELETE /api/movies/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), httpx.UserIDFrom(r), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}
