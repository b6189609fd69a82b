package aladin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lookupBody = `{
  "version": "20131101",
  "totalResults": 1,
  "startIndex": 1,
  "itemsPerPage": 1,
  "query": "isbn13=9788936434120",
  "item": [{
    "title": "소년이 온다",
    "author": "한강 (지은이)",
    "pubDate": "2014-05-19",
    "description": "1980년 5월 광주를 다룬 장편소설",
    "isbn": "8936434128",
    "isbn13": "9788936434120",
    "itemId": 40869703,
    "priceSales": 13500,
    "priceStandard": 15000,
    "cover": "https://image.aladin.co.kr/cover.jpg",
    "categoryId": 50993,
    "categoryName": "국내도서>소설/시/희곡>한국소설>2000년대 이후 한국소설",
    "publisher": "창비",
    "customerReviewRank": 10,
    "subInfo": {"itemPage": 216}
  }]
}`

func newTestClient(srv *httptest.Server, retries int) *Client {
	c := NewClient(srv.URL, "ttb-test", 0, retries)
	c.baseBackoff = time.Millisecond
	return c
}

func TestClient_LookupISBN13(t *testing.T) {
	t.Run("decodes item and keeps raw payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ItemLookUp.aspx", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "ttb-test", q.Get("ttbkey"))
			assert.Equal(t, "9788936434120", q.Get("ItemId"))
			assert.Equal(t, "ISBN13", q.Get("ItemIdType"))
			assert.Equal(t, "js", q.Get("output"))
			assert.Equal(t, apiVersion, q.Get("Version"))
			_, _ = w.Write([]byte(lookupBody))
		}))
		defer srv.Close()

		item, err := newTestClient(srv, 0).LookupISBN13(context.Background(), "9788936434120")
		require.NoError(t, err)

		assert.Equal(t, "소년이 온다", item.Title)
		assert.Equal(t, "창비", item.Publisher)
		assert.Equal(t, 216, item.SubInfo.ItemPage)
		assert.Equal(t, int64(40869703), item.ItemID)
		assert.Equal(t, 13500, item.PriceSales)
		assert.Contains(t, string(item.Raw), `"itemId": 40869703`)
	})

	t.Run("unknown item", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"errorCode":8,"errorMessage":"존재하지 않는 상품입니다."}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv, 0).LookupISBN13(context.Background(), "9780000000002")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty item list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"totalResults":0,"item":[]}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv, 0).LookupISBN13(context.Background(), "9780000000002")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other api errors pass through", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"errorCode":3,"errorMessage":"잘못된 TTBKey"}`))
		}))
		defer srv.Close()

		_, err := newTestClient(srv, 0).LookupISBN13(context.Background(), "9788936434120")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 3, apiErr.Code)
	})
}

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ItemSearch.aspx", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "한강", q.Get("Query"))
		assert.Equal(t, "Author", q.Get("QueryType"))
		assert.Equal(t, "Book", q.Get("SearchTarget"))
		assert.Equal(t, "2", q.Get("start"))
		assert.Equal(t, "20", q.Get("MaxResults"))
		assert.Equal(t, "50993", q.Get("CategoryId"))
		_, _ = w.Write([]byte(lookupBody))
	}))
	defer srv.Close()

	res, err := newTestClient(srv, 0).Search(context.Background(), SearchParams{
		Query:      "한강",
		Type:       QueryAuthor,
		CategoryID: 50993,
		Page:       2,
		PageSize:   500,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalResults)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "9788936434120", res.Items[0].ISBN13)
}

func TestClient_Retries(t *testing.T) {
	t.Run("retries 5xx then succeeds", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(lookupBody))
		}))
		defer srv.Close()

		item, err := newTestClient(srv, 3).LookupISBN13(context.Background(), "9788936434120")
		require.NoError(t, err)
		assert.Equal(t, "소년이 온다", item.Title)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := newTestClient(srv, 2).LookupISBN13(context.Background(), "9788936434120")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 2 retries")
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("4xx is not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := newTestClient(srv, 3).LookupISBN13(context.Background(), "9788936434120")
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("context cancellation stops backoff", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := newTestClient(srv, 5)
		c.baseBackoff = time.Hour
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := c.LookupISBN13(ctx, "9788936434120")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
