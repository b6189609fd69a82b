package book

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmood/internal/platform/aladin"
)

func TestNormalizeGenre(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"국내도서>소설/시/희곡>한국소설>2000년대 이후 한국소설", "소설/시/희곡"},
		{"국내도서 > 에세이", "에세이"},
		{"외국도서", "외국도서"},
		{"", "기타"},
		{" > > ", "기타"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeGenre(tt.in), tt.in)
	}
}

func TestEstimatePageCount(t *testing.T) {
	tests := []struct {
		name     string
		category string
		price    int
		want     int
	}{
		{"nothing known", "", 0, DefaultPageCount},
		{"category and price blend", "국내도서>소설/시/희곡>한국소설", 15000, 320},
		{"category only", "국내도서>컴퓨터/모바일>프로그래밍", 0, 520},
		{"price only rounds to ten", "", 14980, 300},
		{"clamped low", "국내도서>유아>그림책", 0, MinPageCount},
		{"poetry segment", "국내도서>시>한국시", 0, 140},
		{"history era is not poetry", "국내도서>역사>조선시대", 0, 420},
		{"current affairs is not poetry", "국내도서>시사>정치", 0, DefaultPageCount},
		{"clamped high", "", 100000, MaxPageCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimatePageCount(tt.category, tt.price))
		})
	}

	for price := 0; price <= 200000; price += 777 {
		got := EstimatePageCount("국내도서>인문학", price)
		assert.GreaterOrEqual(t, got, MinPageCount)
		assert.LessOrEqual(t, got, MaxPageCount)
		assert.Zero(t, got%10)
	}
}

func TestISBN10To13(t *testing.T) {
	got, ok := ISBN10To13("0-306-40615-2")
	require.True(t, ok)
	assert.Equal(t, "9780306406157", got)

	got, ok = ISBN10To13("8936434268")
	require.True(t, ok)
	assert.Equal(t, "9788936434267", got)

	_, ok = ISBN10To13("0306406153")
	assert.False(t, ok, "bad check digit")
	_, ok = ISBN10To13("12345")
	assert.False(t, ok)
}

func TestNormalizeISBN13(t *testing.T) {
	got, err := NormalizeISBN13("978-89-364-3426-7")
	require.NoError(t, err)
	assert.Equal(t, "9788936434267", got)

	got, err = NormalizeISBN13("8936434268")
	require.NoError(t, err)
	assert.Equal(t, "9788936434267", got)

	_, err = NormalizeISBN13("9788936434260")
	assert.ErrorIs(t, err, ErrInvalidISBN)
	_, err = NormalizeISBN13("")
	assert.ErrorIs(t, err, ErrInvalidISBN)
}

func TestFromItem(t *testing.T) {
	t.Run("provider page count wins", func(t *testing.T) {
		b := FromItem(aladin.Item{
			Title:        "소나기 &amp; 다른 이야기",
			ISBN13:       "9788936434267",
			CategoryName: "국내도서>소설/시/희곡>한국소설",
			Cover:        "https://image.example/cover.jpg",
			SubInfo:      aladin.SubInfo{ItemPage: 212},
			Raw:          json.RawMessage(`{"isbn13":"9788936434267"}`),
		})
		assert.Equal(t, "소나기 & 다른 이야기", b.Title)
		assert.Equal(t, 212, b.PageCount)
		assert.False(t, b.PageEstimated)
		assert.Equal(t, "소설/시/희곡", b.Genre)
		assert.Equal(t, "https://image.example/cover.jpg", b.CoverURL)
		assert.JSONEq(t, `{"isbn13":"9788936434267"}`, string(b.Raw))
	})

	t.Run("fills gaps", func(t *testing.T) {
		b := FromItem(aladin.Item{ISBN: "8936434268", PriceStandard: 15000, CategoryName: "국내도서>소설/시/희곡"})
		assert.Equal(t, "9788936434267", b.ISBN13)
		assert.Equal(t, DefaultCoverURL, b.CoverURL)
		assert.True(t, b.PageEstimated)
		assert.Equal(t, 320, b.PageCount)
	})

	t.Run("sales price used when list price missing", func(t *testing.T) {
		b := FromItem(aladin.Item{ISBN13: "9788936434267", PriceSales: 20000})
		assert.Equal(t, 400, b.PageCount)
	})
}
