package movie

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediatracker/internal/httpx"
)

func newHandler(t *testing.T) (*HTTPHandler, *MockRepository) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	return NewHTTPHandler(NewService(mockRepo)), mockRepo
}

func request(method, target, body, id string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if id != "" {
		r.SetPathValue("id", id)
	}
	return r.WithContext(httpx.ContextWithUser(r.Context(), owner, "USER"))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httpx.ErrorResponseBody {
	var body struct {
		Error httpx.ErrorResponseBody `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body.Error
}

func TestHTTPHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		handler, mockRepo := newHandler(t)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *Movie) error {
			m.ID = movieID
			return nil
		})

		w := httptest.NewRecorder()
		handler.Create(w, request(http.MethodPost, "/api/movies",
			`{"title":"Arrival","director":"Denis Villeneuve","release_year":2016,"tmdb_id":"329865","rating":0}`, ""))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"To Watch"`)
		assert.Contains(t, w.Body.String(), `"rating":0`)
		assert.Contains(t, w.Body.String(), `"tmdb_id":"329865"`)
	})

	t.Run("numeric tmdb id", func(t *testing.T) {
		handler, mockRepo := newHandler(t)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *Movie) error {
			require.NotNil(t, m.TMDbID)
			assert.Equal(t, "329865", *m.TMDbID)
			m.ID = movieID
			return nil
		})

		w := httptest.NewRecorder()
		handler.Create(w, request(http.MethodPost, "/api/movies", `{"title":"Arrival","tmdb_id":329865}`, ""))

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"tmdb_id":"329865"`)
	})

	t.Run("rating out of range", func(t *testing.T) {
		handler, _ := newHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, request(http.MethodPost, "/api/movies", `{"title":"T","rating":12}`, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		require.Len(t, body.Details, 1)
		assert.Equal(t, "rating", body.Details[0].Field)
	})

	t.Run("release year out of range", func(t *testing.T) {
		handler, _ := newHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, request(http.MethodPost, "/api/movies", `{"title":"T","release_year":1200}`, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid status", func(t *testing.T) {
		handler, _ := newHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, request(http.MethodPost, "/api/movies", `{"title":"T","status":"Seen"}`, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid status. Must be: To Watch, Watching, or Watched", decodeError(t, w).Message)
	})

	t.Run("empty body", func(t *testing.T) {
		handler, _ := newHandler(t)

		w := httptest.NewRecorder()
		handler.Create(w, request(http.MethodPost, "/api/movies", "", ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	existing := Movie{ID: movieID, UserID: owner, Title: "T", Status: StatusWatched, Rating: floatPtr(8)}

	t.Run("null rating clears", func(t *testing.T) {
		handler, mockRepo := newHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), movieID).Return(existing, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *Movie) error {
			assert.Nil(t, m.Rating)
			return nil
		})

		w := httptest.NewRecorder()
		handler.Update(w, request(http.MethodPut, "/api/movies/"+movieID, `{"title":"T","rating":null}`, movieID))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("absent rating kept", func(t *testing.T) {
		handler, mockRepo := newHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), movieID).Return(existing, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *Movie) error {
			require.NotNil(t, m.Rating)
			assert.Equal(t, 8.0, *m.Rating)
			return nil
		})

		w := httptest.NewRecorder()
		handler.Update(w, request(http.MethodPut, "/api/movies/"+movieID, `{"title":"T"}`, movieID))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not owner", func(t *testing.T) {
		handler, mockRepo := newHandler(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), movieID).Return(Movie{ID: movieID, UserID: other}, nil)

		w := httptest.NewRecorder()
		handler.Update(w, request(http.MethodPut, "/api/movies/"+movieID, `{"title":"T"}`, movieID))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHTTPHandler_GetDeleteList(t *testing.T) {
	handler, mockRepo := newHandler(t)

	w := httptest.NewRecorder()
	handler.Get(w, request(http.MethodGet, "/api/movies/x", "", "x"))
	assert.Equal(t, "INVALID_ID", decodeError(t, w).Code)

	mockRepo.EXPECT().GetByID(gomock.Any(), movieID).Return(Movie{}, ErrNotFound)
	w = httptest.NewRecorder()
	handler.Delete(w, request(http.MethodDelete, "/api/movies/"+movieID, "", movieID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	mockRepo.EXPECT().List(gomock.Any(), Query{UserID: owner, Status: StatusWatched, Limit: 20}).Return([]Movie{}, 0, nil)
	w = httptest.NewRecorder()
	handler.List(w, request(http.MethodGet, "/api/movies?status=Watched", "", ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}
