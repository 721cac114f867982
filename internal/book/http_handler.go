package book

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

type bookReq struct {
	Title    string  `json:"title" validate:"max=500"`
	Author   string  `json:"author" validate:"max=500"`
	ISBN     string  `json:"isbn" validate:"omitempty,isbn"`
	Status   string  `json:"status"`
	Notes    *string `json:"notes" validate:"omitempty,max=10000"`
	CoverURL string  `json:"cover_url" validate:"max=2048"`
}

func (req bookReq) input() Input {
	return Input{
		Title:    req.Title,
		Author:   req.Author,
		ISBN:     req.ISBN,
		Status:   req.Status,
		Notes:    req.Notes,
		CoverURL: req.CoverURL,
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message,
			[]httpx.ErrorDetail{{Field: ve.Field, Message: ve.Message}})
	case errors.Is(err, ErrInvalidID):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_ID", "Invalid book ID", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrForbidden):
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
	default:
		httpx.InternalError(w, r, err)
	}
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request) (bookReq, bool) {
	var req bookReq
	fields, err := httpx.DecodeJSONFields(r, &req)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return bookReq{}, false
	}
	// An explicit null clears notes just like an empty string.
	if fields.IsNull("notes") {
		empty := ""
		req.Notes = &empty
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return bookReq{}, false
	}
	return req, true
}

// List handles GET /api/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.PageFrom(r)
	query := r.URL.Query()

	books, total, err := h.service.List(r.Context(), Query{
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

	httpx.JSONSuccess(w, r, books, page.Meta(total))
}

// Create handles POST /api/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	b, err := h.service.Create(r.Context(), httpx.UserIDFrom(r), req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, b)
}

// Get handles GET /api/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Update handles PUT /api/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	b, err := h.service.Update(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"), req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /api/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), httpx.UserIDFrom(r), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}
