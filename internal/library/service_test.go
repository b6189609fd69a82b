package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmood/internal/book"
)

const (
	testISBN = "9788936434267"
	itemID   = "c2b8e4d1-7a3f-4e69-8b05-1d9f6a3c7e42"
)

func newTestService(t *testing.T) (*Service, *MockRepository, *MockBookLookup) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	books := NewMockBookLookup(ctrl)
	svc := NewService(repo, books)
	svc.now = func() time.Time { return today }
	return svc, repo, books
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()
	cached := book.External{ISBN13: testISBN, Title: "소나기", PageCount: 200}

	t.Run("wishlist", func(t *testing.T) {
		svc, repo, books := newTestService(t)
		books.EXPECT().Lookup(gomock.Any(), testISBN).Return(cached, nil)
		repo.EXPECT().GetByISBN(gomock.Any(), "u-1", testISBN).Return(Item{}, ErrNotFound)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, it *Item) error {
			assert.True(t, it.Wishlist)
			assert.Nil(t, it.Status)
			it.ID = itemID
			return nil
		})

		it, err := svc.Add(ctx, "u-1", testISBN, true, "")
		require.NoError(t, err)
		assert.Equal(t, itemID, it.ID)
		assert.Equal(t, "소나기", it.Book.Title)
	})

	t.Run("shelf defaults to want to read", func(t *testing.T) {
		svc, repo, books := newTestService(t)
		books.EXPECT().Lookup(gomock.Any(), testISBN).Return(cached, nil)
		repo.EXPECT().GetByISBN(gomock.Any(), "u-1", testISBN).Return(Item{}, ErrNotFound)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		it, err := svc.Add(ctx, "u-1", testISBN, false, "")
		require.NoError(t, err)
		assert.Equal(t, StatusWantToRead, *it.Status)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, repo, books := newTestService(t)
		books.EXPECT().Lookup(gomock.Any(), testISBN).Return(cached, nil)
		repo.EXPECT().GetByISBN(gomock.Any(), "u-1", testISBN).Return(Item{ID: itemID}, nil)

		_, err := svc.Add(ctx, "u-1", testISBN, true, "")
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("unknown book", func(t *testing.T) {
		svc, _, books := newTestService(t)
		books.EXPECT().Lookup(gomock.Any(), testISBN).Return(book.External{}, book.ErrNotFound)

		_, err := svc.Add(ctx, "u-1", testISBN, true, "")
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("bad status", func(t *testing.T) {
		svc, repo, books := newTestService(t)
		books.EXPECT().Lookup(gomock.Any(), testISBN).Return(cached, nil)
		repo.EXPECT().GetByISBN(gomock.Any(), "u-1", testISBN).Return(Item{}, ErrNotFound)

		_, err := svc.Add(ctx, "u-1", testISBN, false, Status("finished"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestService_StartReading(t *testing.T) {
	ctx := context.Background()

	t.Run("existing wishlist item moves to reading", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().GetByISBN(gomock.Any(), "u-1", testISBN).Return(Item{ID: itemID, UserID: "u-1", Wishlist: true}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		it, err := svc.StartReading(ctx, "u-1", testISBN)
		require.NoError(t, err)
		assert.Equal(t, StatusReading, *it.Status)
		assert.Equal(t, todayDate, *it.StartedAt)
	})

	t.Run("new book is added as reading", func(t *testing.T) {
		svc, repo, books := newTestService(t)
		repo.EXPECT().GetByISBN(gomock.Any(), "u-1", testISBN).Return(Item{}, ErrNotFound).Times(2)
		books.EXPECT().Lookup(gomock.Any(), testISBN).Return(book.External{ISBN13: testISBN}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		it, err := svc.StartReading(ctx, "u-1", testISBN)
		require.NoError(t, err)
		assert.Equal(t, StatusReading, *it.Status)
	})
}

func TestService_UpdateProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("hundred completes the book", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().Get(gomock.Any(), "u-1", itemID).Return(Item{ID: itemID, Status: statusPtr(StatusReading), StartedAt: &lastWeek}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, it *Item) error {
			assert.Equal(t, StatusCompleted, *it.Status)
			assert.Equal(t, todayDate, *it.FinishedAt)
			return nil
		})

		_, err := svc.UpdateProgress(ctx, "u-1", itemID, 100)
		require.NoError(t, err)
	})

	t.Run("invalid progress never writes", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().Get(gomock.Any(), "u-1", itemID).Return(Item{ID: itemID, Status: statusPtr(StatusReading)}, nil)

		_, err := svc.UpdateProgress(ctx, "u-1", itemID, 150)
		assert.ErrorIs(t, err, ErrInvalidProgress)
	})

	t.Run("other user's item", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().Get(gomock.Any(), "u-2", itemID).Return(Item{}, ErrNotFound)

		_, err := svc.UpdateProgress(ctx, "u-2", itemID, 10)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_UpdateDetails(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.EXPECT().Get(gomock.Any(), "u-1", itemID).Return(Item{ID: itemID, Status: statusPtr(StatusReading), StartedAt: &todayDate}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	note := "  두 번째 읽기  "
	it, err := svc.UpdateDetails(context.Background(), "u-1", itemID, Details{Note: &note, StartedAt: &lastWeek})
	require.NoError(t, err)
	assert.Equal(t, "두 번째 읽기", it.Note)
	assert.Equal(t, lastWeek, *it.StartedAt)
}

func TestService_Remove(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.EXPECT().Delete(gomock.Any(), "u-1", itemID).Return(errors.New("db down"))
	assert.Error(t, svc.Remove(context.Background(), "u-1", itemID))
}
