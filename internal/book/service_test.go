package book

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner  = "owner-1"
	other  = "other-2"
	bookID = "6f1c2d3e-4a5b-4c6d-8e7f-9a0b1c2d3e4f"
)

func strPtr(s string) *string { return &s }

func newService(t *testing.T) (*Service, *MockRepository) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	return NewService(mockRepo), mockRepo
}

func TestService_Create(t *testing.T) {
	t.Run("defaults and normalization", func(t *testing.T) {
		service, mockRepo := newService(t)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			b.ID = bookID
			return nil
		})

		b, err := service.Create(context.Background(), owner, Input{
			Title:  "  Dune ",
			Author: "Frank Herbert",
			ISBN:   "1-55404-295-x",
			Notes:  strPtr("   "),
		})
		require.NoError(t, err)

		assert.Equal(t, bookID, b.ID)
		assert.Equal(t, owner, b.UserID)
		assert.Equal(t, "Dune", b.Title)
		assert.Equal(t, StatusToRead, b.Status)
		require.NotNil(t, b.ISBN)
		assert.Equal(t, "155404295X", *b.ISBN)
		assert.Nil(t, b.Notes)
		assert.Nil(t, b.CoverURL)
	})

	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"missing title", Input{Author: "A"}, ErrTitleRequired},
		{"blank title", Input{Title: "   ", Author: "A"}, ErrTitleRequired},
		{"missing author", Input{Title: "T"}, ErrAuthorRequired},
		{"unknown status", Input{Title: "T", Author: "A", Status: "Abandoned"}, ErrInvalidStatus},
		{"bad isbn", Input{Title: "T", Author: "A", ISBN: "0306406153"}, ErrInvalidISBN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService(t)
			_, err := service.Create(context.Background(), owner, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_Get(t *testing.T) {
	service, mockRepo := newService(t)

	t.Run("malformed id", func(t *testing.T) {
		_, err := service.Get(context.Background(), owner, "42")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), bookID).Return(Book{}, ErrNotFound)
		_, err := service.Get(context.Background(), owner, bookID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other owner", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), bookID).Return(Book{ID: bookID, UserID: other}, nil)
		_, err := service.Get(context.Background(), owner, bookID)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestService_Update(t *testing.T) {
	existing := Book{
		ID:       bookID,
		UserID:   owner,
		Title:    "Old",
		Author:   "Someone",
		Status:   StatusReading,
		Notes:    strPtr("keep me"),
		CoverURL: strPtr("/uploads/a.png"),
	}

	t.Run("missing status and notes keep existing values", func(t *testing.T) {
		service, mockRepo := newService(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), bookID).Return(existing, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		b, err := service.Update(context.Background(), owner, bookID, Input{Title: "New", Author: "Someone"})
		require.NoError(t, err)

		assert.Equal(t, "New", b.Title)
		assert.Equal(t, StatusReading, b.Status)
		require.NotNil(t, b.Notes)
		assert.Equal(t, "keep me", *b.Notes)
		assert.Nil(t, b.CoverURL, "optional fields other than notes are replaced")
	})

	t.Run("empty notes clears", func(t *testing.T) {
		service, mockRepo := newService(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), bookID).Return(existing, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		b, err := service.Update(context.Background(), owner, bookID, Input{
			Title: "Old", Author: "Someone", Status: StatusFinished, Notes: strPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, StatusFinished, b.Status)
		assert.Nil(t, b.Notes)
	})

	t.Run("forbidden does not write", func(t *testing.T) {
		service, mockRepo := newService(t)
		mockRepo.EXPECT().GetByID(gomock.Any(), bookID).Return(Book{ID: bookID, UserID: other}, nil)

		_, err := service.Update(context.Background(), owner, bookID, Input{Title: "T", Author: "A"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("invalid status rejected before lookup", func(t *testing.T) {
		service, _ := newService(t)
		_, err := service.Update(context.Background(), owner, bookID, Input{Title: "T", Author: "A", Status: "Done"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestService_Delete(t *testing.T) {
	service, mockRepo := newService(t)

	mockRepo.EXPECT().GetByID(gomock.Any(), bookID).Return(Book{ID: bookID, UserID: owner}, nil)
	mockRepo.EXPECT().Delete(gomock.Any(), bookID).Return(nil)
	require.NoError(t, service.Delete(context.Background(), owner, bookID))

	mockRepo.EXPECT().GetByID(gomock.Any(), bookID).Return(Book{ID: bookID, UserID: other}, nil)
	assert.ErrorIs(t, service.Delete(context.Background(), owner, bookID), ErrForbidden)
}

func TestService_List(t *testing.T) {
	service, mockRepo := newService(t)

	mockRepo.EXPECT().List(gomock.Any(), Query{UserID: owner, Search: "dune", Limit: 20}).Return([]Book{}, 0, nil)

	_, _, err := service.List(context.Background(), Query{UserID: owner, Status: "all", Search: " dune ", Limit: 20})
	require.NoError(t, err)
}
