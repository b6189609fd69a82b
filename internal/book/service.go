package book

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bookmood/internal/platform/aladin"
)

// Service answers book questions from the local cache first and the catalog second.
type Service struct {
	repo    Repository
	catalog Catalog
	logger  *zap.Logger
}

func NewService(repo Repository, catalog Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, catalog: catalog, logger: logger}
}

var searchTypes = map[SearchType]aladin.QueryType{
	SearchKeyword:   aladin.QueryKeyword,
	SearchTitle:     aladin.QueryTitle,
	SearchAuthor:    aladin.QueryAuthor,
	SearchPublisher: aladin.QueryPublisher,
}

// Search queries the catalog. Results are not cached; an ISBN search goes
// through Lookup and therefore is.
func (s *Service) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 50 {
		q.PageSize = 20
	}

	if q.Type == SearchISBN {
		b, err := s.Lookup(ctx, q.Query)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidISBN) {
			return SearchResult{Items: []External{}, Page: q.Page, PageSize: q.PageSize}, nil
		}
		if err != nil {
			return SearchResult{}, err
		}
		return SearchResult{Items: []External{b}, Total: 1, Page: 1, PageSize: q.PageSize}, nil
	}

	qt, ok := searchTypes[q.Type]
	if !ok {
		qt = aladin.QueryKeyword
	}
	resp, err := s.catalog.Search(ctx, aladin.SearchParams{
		Query:      q.Query,
		Type:       qt,
		CategoryID: q.CategoryID,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		s.logger.Warn("catalog search failed", zap.String("query", q.Query), zap.Error(err))
		return SearchResult{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	items := make([]External, 0, len(resp.Items))
	for _, it := range resp.Items {
		b := FromItem(it)
		if b.ISBN13 == "" {
			continue
		}
		items = append(items, b)
	}
	return SearchResult{Items: items, Total: resp.TotalResults, Page: q.Page, PageSize: q.PageSize}, nil
}

// Lookup returns cached metadata, fetching and caching it on a miss.
func (s *Service) Lookup(ctx context.Context, isbn string) (External, error) {
	isbn13, err := NormalizeISBN13(isbn)
	if err != nil {
		return External{}, err
	}

	cached, err := s.repo.GetByISBN(ctx, isbn13)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return External{}, err
	}

	item, err := s.catalog.LookupISBN13(ctx, isbn13)
	if err != nil {
		if errors.Is(err, aladin.ErrNotFound) {
			return External{}, ErrNotFound
		}
		s.logger.Warn("catalog lookup failed", zap.String("isbn", isbn13), zap.Error(err))
		return External{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	b := FromItem(*item)
	b.ISBN13 = isbn13
	if err := s.repo.Upsert(ctx, &b); err != nil {
		return External{}, fmt.Errorf("cache book %s: %w", isbn13, err)
	}
	return b, nil
}

// ListCached pages through books already in the cache.
func (s *Service) ListCached(ctx context.Context, q ListQuery) ([]External, int, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return s.repo.List(ctx, q)
}
