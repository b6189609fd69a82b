package library

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookmood/internal/book"
	"bookmood/internal/httpx"
)

const dateLayout = "2006-01-02"

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type itemResponse struct {
	ID         string       `json:"id"`
	ISBN13     string       `json:"isbn13"`
	Wishlist   bool         `json:"wishlist"`
	Status     *Status      `json:"status"`
	Progress   int          `json:"progress"`
	StartedAt  *string      `json:"started_at"`
	FinishedAt *string      `json:"finished_at"`
	Note       string       `json:"note"`
	Book       *BookSummary `json:"book,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toResponse(it Item) itemResponse {
	return itemResponse{
		ID:         it.ID,
		ISBN13:     it.ISBN13,
		Wishlist:   it.Wishlist,
		Status:     it.Status,
		Progress:   it.Progress,
		StartedAt:  formatDate(it.StartedAt),
		FinishedAt: formatDate(it.FinishedAt),
		Note:       it.Note,
		Book:       it.Book,
		CreatedAt:  it.CreatedAt,
		UpdatedAt:  it.UpdatedAt,
	}
}

type addReq struct {
	ISBN     string `json:"isbn" validate:"required"`
	Wishlist bool   `json:"wishlist"`
	Status   string `json:"status" validate:"omitempty,shelf_status"`
}

// Add handles POST /v1/library
// @Summary Add a book to the library
// @Tags library
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body addReq true "Book and shelf"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/library [post]
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}

	var req addReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	if req.Wishlist && req.Status != "" {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "A wishlist item has no shelf status",
			[]httpx.ErrorDetail{{Field: "status", Message: "Leave empty when wishlist is true"}})
		return
	}

	it, err := h.service.Add(r.Context(), userID, req.ISBN, req.Wishlist, Status(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, toResponse(it))
}

type startReq struct {
	ISBN string `json:"isbn" validate:"required"`
}

// StartReading handles POST /v1/library/reading
func (h *HTTPHandler) StartReading(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	var req startReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	it, err := h.service.StartReading(r.Context(), userID, req.ISBN)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, toResponse(it), nil)
}

// List handles GET /v1/library?wishlist=true or ?status=reading
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}

	query := r.URL.Query()
	f := ListFilter{UserID: userID}
	if v := query.Get("wishlist"); v != "" {
		wl, err := strconv.ParseBool(v)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "wishlist must be true or false", nil)
			return
		}
		f.Wishlist = &wl
	}
	if v := query.Get("status"); v != "" {
		st, err := ParseStatus(v)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		f.Status = &st
	}
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	f.Limit = pageSize
	f.Offset = (page - 1) * pageSize

	items, total, err := h.service.List(r.Context(), f)
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toResponse(it))
	}
	httpx.JSONSuccess(w, r, out, map[string]any{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

// Get handles GET /v1/library/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	it, err := h.service.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, toResponse(it), nil)
}

type progressReq struct {
	Progress *int `json:"progress" validate:"required,min=0,max=100"`
}

// UpdateProgress handles PATCH /v1/library/{id}/progress
func (h *HTTPHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	var req progressReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	it, err := h.service.UpdateProgress(r.Context(), userID, r.PathValue("id"), *req.Progress)
	h.respond(w, r, it, err)
}

type statusReq struct {
	Status string `json:"status" validate:"required,shelf_status"`
}

// SetStatus handles PATCH /v1/library/{id}/status
func (h *HTTPHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	var req statusReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	it, err := h.service.SetStatus(r.Context(), userID, r.PathValue("id"), Status(req.Status))
	h.respond(w, r, it, err)
}

// Complete handles POST /v1/library/{id}/complete
func (h *HTTPHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	it, err := h.service.Complete(r.Context(), userID, r.PathValue("id"))
	h.respond(w, r, it, err)
}

// MoveToWishlist handles POST /v1/library/{id}/wishlist
func (h *HTTPHandler) MoveToWishlist(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	it, err := h.service.MoveToWishlist(r.Context(), userID, r.PathValue("id"))
	h.respond(w, r, it, err)
}

type detailsReq struct {
	Note       *string `json:"note" validate:"omitempty,max=2000"`
	StartedAt  *string `json:"started_at" validate:"omitempty,datetime=2006-01-02"`
	FinishedAt *string `json:"finished_at" validate:"omitempty,datetime=2006-01-02"`
}

func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

// UpdateDetails handles PATCH /v1/library/{id}
func (h *HTTPHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	var req detailsReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	it, err := h.service.UpdateDetails(r.Context(), userID, r.PathValue("id"), Details{
		Note:       req.Note,
		StartedAt:  parseDate(req.StartedAt),
		FinishedAt: parseDate(req.FinishedAt),
	})
	h.respond(w, r, it, err)
}

// Remove handles DELETE /v1/library/{id}
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	if err := h.service.Remove(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func (h *HTTPHandler) respond(w http.ResponseWriter, r *http.Request, it Item, err error) {
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, toResponse(it), nil)
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Library item not found", nil)
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "ISBN not found", nil)
	case errors.Is(err, ErrAlreadyExists):
		httpx.JSONError(w, r, http.StatusConflict, httpx.CodeConflict, "Book is already in your library", nil)
	case errors.Is(err, book.ErrInvalidISBN):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid ISBN", nil)
	case errors.Is(err, book.ErrCatalogUnavailable):
		httpx.JSONError(w, r, http.StatusServiceUnavailable, httpx.CodeUnavailable, "Book catalog is unavailable, please try again later", nil)
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidProgress), errors.Is(err, ErrInvalidDates):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, err.Error(), nil)
	case errors.Is(err, ErrInvalidTransition):
		httpx.JSONError(w, r, http.StatusConflict, httpx.CodeConflict, "This change is not allowed for the item's current shelf", nil)
	default:
		httpx.InternalError(w, r, err)
	}
}
