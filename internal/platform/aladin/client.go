// Package aladin is a small client for the Aladin Open API (ItemSearch and ItemLookUp).
package aladin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.aladin.co.kr/ttb/api"
	apiVersion     = "20131101"
)

var ErrNotFound = errors.New("aladin: item not found")

// APIError is returned when the API answers 200 with an errorCode body.
type APIError struct {
	Code    int    `json:"errorCode"`
	Message string `json:"errorMessage"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aladin api error %d: %s", e.Code, e.Message)
}

// QueryType selects which field ItemSearch matches against.
type QueryType string

const (
	QueryKeyword   QueryType = "Keyword"
	QueryTitle     QueryType = "Title"
	QueryAuthor    QueryType = "Author"
	QueryPublisher QueryType = "Publisher"
)

type Client struct {
	httpClient  *http.Client
	userAgent   string
	baseURL     string
	ttbKey      string
	limiter     *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration
}

func NewClient(baseURL, ttbKey string, rps int, maxRetries int) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Every(time.Second / time.Duration(rps))
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:   "BookMood/1.0",
		baseURL:     strings.TrimRight(baseURL, "/"),
		ttbKey:      ttbKey,
		limiter:     rate.NewLimiter(limit, 1),
		maxRetries:  maxRetries,
		baseBackoff: time.Second,
	}
}

// Item is one product entry. Raw holds the item's JSON exactly as received.
type Item struct {
	Title              string  `json:"title"`
	Link               string  `json:"link"`
	Author             string  `json:"author"`
	PubDate            string  `json:"pubDate"`
	Description        string  `json:"description"`
	ISBN               string  `json:"isbn"`
	ISBN13             string  `json:"isbn13"`
	ItemID             int64   `json:"itemId"`
	PriceSales         int     `json:"priceSales"`
	PriceStandard      int     `json:"priceStandard"`
	Cover              string  `json:"cover"`
	CategoryID         int     `json:"categoryId"`
	CategoryName       string  `json:"categoryName"`
	Publisher          string  `json:"publisher"`
	CustomerReviewRank int     `json:"customerReviewRank"`
	SubInfo            SubInfo `json:"subInfo"`

	Raw json.RawMessage `json:"-"`
}

type SubInfo struct {
	ItemPage int `json:"itemPage"`
}

// SearchResponse matches ItemSearch.aspx / ItemLookUp.aspx with output=js.
type SearchResponse struct {
	TotalResults int    `json:"totalResults"`
	StartIndex   int    `json:"startIndex"`
	ItemsPerPage int    `json:"itemsPerPage"`
	Query        string `json:"query"`
	Items        []Item `json:"-"`
}

type rawResponse struct {
	APIError
	TotalResults int               `json:"totalResults"`
	StartIndex   int               `json:"startIndex"`
	ItemsPerPage int               `json:"itemsPerPage"`
	Query        string            `json:"query"`
	Item         []json.RawMessage `json:"item"`
}

type SearchParams struct {
	Query      string
	Type       QueryType
	CategoryID int
	Page       int
	PageSize   int
}

func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResponse, error) {
	if p.Type == "" {
		p.Type = QueryKeyword
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 50 {
		p.PageSize = 20
	}

	q := c.baseQuery()
	q.Set("Query", p.Query)
	q.Set("QueryType", string(p.Type))
	q.Set("SearchTarget", "Book")
	q.Set("MaxResults", strconv.Itoa(p.PageSize))
	q.Set("start", strconv.Itoa(p.Page))
	q.Set("Cover", "Big")
	if p.CategoryID > 0 {
		q.Set("CategoryId", strconv.Itoa(p.CategoryID))
	}

	return c.fetch(ctx, "/ItemSearch.aspx", q)
}

// LookupISBN13 returns the single item for isbn13 or ErrNotFound.
func (c *Client) LookupISBN13(ctx context.Context, isbn13 string) (*Item, error) {
	q := c.baseQuery()
	q.Set("ItemId", isbn13)
	q.Set("ItemIdType", "ISBN13")
	q.Set("Cover", "Big")

	res, err := c.fetch(ctx, "/ItemLookUp.aspx", q)
	if err != nil {
		var apiErr *APIError
		// Aladin reports unknown ids as errorCode 8 ("존재하지 않는 상품").
		if errors.As(err, &apiErr) && apiErr.Code == 8 {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, ErrNotFound
	}
	return &res.Items[0], nil
}

func (c *Client) baseQuery() url.Values {
	q := url.Values{}
	q.Set("ttbkey", c.ttbKey)
	q.Set("output", "js")
	q.Set("Version", apiVersion)
	return q
}

func (c *Client) fetch(ctx context.Context, path string, q url.Values) (*SearchResponse, error) {
	body, err := c.get(ctx, c.baseURL+path+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("aladin decode: %w", err)
	}
	if raw.Code != 0 {
		apiErr := raw.APIError
		return nil, &apiErr
	}

	res := &SearchResponse{
		TotalResults: raw.TotalResults,
		StartIndex:   raw.StartIndex,
		ItemsPerPage: raw.ItemsPerPage,
		Query:        raw.Query,
		Items:        make([]Item, 0, len(raw.Item)),
	}
	for _, msg := range raw.Item {
		var it Item
		if err := json.Unmarshal(msg, &it); err != nil {
			return nil, fmt.Errorf("aladin decode item: %w", err)
		}
		it.Raw = msg
		res.Items = append(res.Items, it)
	}
	return res, nil
}

// get retries transport errors, 429 and 5xx with exponential backoff.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := c.baseBackoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retry, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		return nil, resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
