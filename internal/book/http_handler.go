package book

import (
	"errors"
	"net/http"
	"strconv"

	"bookmood/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func pageParams(r *http.Request, maxSize int) (page, pageSize int) {
	query := r.URL.Query()
	page, _ = strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > maxSize {
		pageSize = 20
	}
	return page, pageSize
}

// Search handles GET /v1/books/search
// @Summary Search the book catalog
// @Tags books
// @Produce json
// @Param q query string true "Search text"
// @Param type query string false "keyword|title|author|publisher|isbn"
// @Param category query int false "Catalog category id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 503 {object} httpx.ErrorResponse
// @Router /v1/books/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := query.Get("q")
	if q == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Search text is required",
			[]httpx.ErrorDetail{{Field: "q", Message: "This field is required"}})
		return
	}
	searchType, ok := ParseSearchType(query.Get("type"))
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Unknown search type",
			[]httpx.ErrorDetail{{Field: "type", Message: "Must be one of keyword, title, author, publisher, isbn"}})
		return
	}
	categoryID, _ := strconv.Atoi(query.Get("category"))
	page, pageSize := pageParams(r, 50)

	result, err := h.service.Search(r.Context(), SearchQuery{
		Query:      q,
		Type:       searchType,
		CategoryID: categoryID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, result.Items, map[string]any{
		"page":      result.Page,
		"page_size": result.PageSize,
		"total":     result.Total,
	})
}

// GetByISBN handles GET /v1/books/{isbn}
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Lookup(r.Context(), r.PathValue("isbn"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// List handles GET /v1/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r, 100)
	categoryID, _ := strconv.Atoi(r.URL.Query().Get("category"))

	books, total, err := h.service.ListCached(r.Context(), ListQuery{
		Genre:      r.URL.Query().Get("genre"),
		CategoryID: categoryID,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidISBN):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid ISBN",
			[]httpx.ErrorDetail{{Field: "isbn", Message: "Must be a valid ISBN-13 or ISBN-10"}})
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "ISBN not found", nil)
	case errors.Is(err, ErrCatalogUnavailable):
		httpx.JSONError(w, r, http.StatusServiceUnavailable, httpx.CodeUnavailable, "Book catalog is unavailable, please try again later", nil)
	default:
		httpx.InternalError(w, r, err)
	}
}
