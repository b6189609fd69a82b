package review

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

type submitReq struct {
	ISBN             string   `json:"isbn" validate:"required"`
	Memo             string   `json:"memo" validate:"required,max=20000"`
	SelectedEmotions []string `json:"selected_emotions" validate:"max=10,dive,min=1,max=20"`
	ReadDate         *string  `json:"read_date" validate:"omitempty,datetime=2006-01-02"`
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

func (req submitReq) input() SubmitInput {
	return SubmitInput{
		ISBN:             req.ISBN,
		Memo:             req.Memo,
		SelectedEmotions: req.SelectedEmotions,
		ReadDate:         parseDate(req.ReadDate),
	}
}

// Submit handles POST /v1/reviews
// @Summary Submit a review
// @Description Analyses the memo (LLM or keyword fallback) and stores the review
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body submitReq true "Review"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /v1/reviews [post]
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}

	var req submitReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}

	rv, err := h.service.Submit(r.Context(), userID, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, rv)
}

// Preview handles POST /v1/reviews/preview
func (h *HTTPHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}

	var req submitReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.Preview(r.Context(), userID, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, res, nil)
}

// Get handles GET /v1/reviews/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	rv, err := h.service.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rv, nil)
}

// ListMine handles GET /v1/me/reviews?cursor=&limit=
func (h *HTTPHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	reviews, next, err := h.service.ListMine(r.Context(), userID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	meta := map[string]any{"count": len(reviews)}
	if next != "" {
		meta["next_cursor"] = next
	}
	httpx.JSONSuccess(w, r, reviews, meta)
}

// ListByBook handles GET /v1/books/{isbn}/reviews
func (h *HTTPHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 20
	}

	reviews, total, err := h.service.ListByBook(r.Context(), r.PathValue("isbn"), pageSize, (page-1)*pageSize)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, reviews, map[string]any{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

type updateReq struct {
	Memo     *string `json:"memo" validate:"omitempty,max=20000"`
	ReadDate *string `json:"read_date" validate:"omitempty,datetime=2006-01-02"`
}

// Update handles PATCH /v1/reviews/{id}. Only memo and read date change;
// the stored analysis is kept.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	var req updateReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	rv, err := h.service.Update(r.Context(), userID, r.PathValue("id"), UpdateInput{
		Memo:     req.Memo,
		ReadDate: parseDate(req.ReadDate),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rv, nil)
}

// Delete handles DELETE /v1/reviews/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}
	if err := h.service.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var dup *DuplicateError
	switch {
	case errors.As(err, &dup):
		details := []httpx.ErrorDetail{{Field: "isbn", Message: "You already reviewed this book"}}
		if dup.ExistingID != "" {
			details = append(details, httpx.ErrorDetail{Field: "existing_review_id", Message: dup.ExistingID})
			w.Header().Set("Location", "/v1/reviews/"+dup.ExistingID)
		}
		httpx.JSONError(w, r, http.StatusConflict, httpx.CodeConflict, "You already wrote a review for this book", details)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "Review not found", nil)
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, httpx.CodeNotFound, "ISBN not found", nil)
	case errors.Is(err, ErrEmptyMemo), errors.Is(err, ErrMemoTooLong):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, err.Error(),
			[]httpx.ErrorDetail{{Field: "memo", Message: err.Error()}})
	case errors.Is(err, ErrInvalidCursor):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid cursor", nil)
	case errors.Is(err, book.ErrInvalidISBN):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid ISBN", nil)
	case errors.Is(err, book.ErrCatalogUnavailable):
		httpx.JSONError(w, r, http.StatusServiceUnavailable, httpx.CodeUnavailable, "Book catalog is unavailable, please try again later", nil)
	default:
		httpx.InternalErrorMessage(w, r, err, "Something went wrong with your review, please try again in a moment")
	}
}
