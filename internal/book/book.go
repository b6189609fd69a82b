package book

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when neither the cache nor the catalog knows the ISBN.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidISBN is returned for input that cannot be turned into an ISBN-13.
	ErrInvalidISBN = errors.New("invalid isbn")
	// ErrCatalogUnavailable wraps transport and API failures of the catalog.
	ErrCatalogUnavailable = errors.New("book catalog unavailable")
)

// External is catalog metadata cached locally under its ISBN-13.
type External struct {
	ISBN13        string          `json:"isbn13"`
	ISBN10        string          `json:"isbn10,omitempty"`
	ItemID        int64           `json:"item_id,omitempty"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Publisher     string          `json:"publisher"`
	PubDate       string          `json:"pub_date,omitempty"`
	Summary       string          `json:"summary,omitempty"`
	PriceSales    int             `json:"price_sales"`
	PriceStandard int             `json:"price_standard"`
	ReviewRank    int             `json:"review_rank"`
	CoverURL      string          `json:"cover_url"`
	CategoryID    int             `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	Genre         string          `json:"genre"`
	PageCount     int             `json:"page_count"`
	PageEstimated bool            `json:"page_estimated"`
	Link          string          `json:"link,omitempty"`
	Raw           json.RawMessage `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SearchType selects the field a catalog search matches against.
type SearchType string

const (
	SearchKeyword   SearchType = "keyword"
	SearchTitle     SearchType = "title"
	SearchAuthor    SearchType = "author"
	SearchPublisher SearchType = "publisher"
	SearchISBN      SearchType = "isbn"
)

func ParseSearchType(s string) (SearchType, bool) {
	switch t := SearchType(s); t {
	case "":
		return SearchKeyword, true
	case SearchKeyword, SearchTitle, SearchAuthor, SearchPublisher, SearchISBN:
		return t, true
	}
	return "", false
}

type SearchQuery struct {
	Query      string
	Type       SearchType
	CategoryID int
	Page       int
	PageSize   int
}

type SearchResult struct {
	Items    []External `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// ListQuery filters the local cache.
type ListQuery struct {
	Genre      string
	CategoryID int
	Limit      int
	Offset     int
}
