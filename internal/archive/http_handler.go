package archive

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

// Dashboard handles GET /v1/me/archive?year=
// @Summary Reading archive
// @Description Shelf counts, review stats, top emotions and topics, books completed per month
// @Tags archive
// @Produce json
// @Security Bearer
// @Param year query int false "Year for the monthly chart, defaults to the current year"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/me/archive [get]
func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.Unauthorized(w, r)
		return
	}

	year := 0
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid year",
				[]httpx.ErrorDetail{{Field: "year", Message: "must be a number"}})
			return
		}
		year = n
	}

	d, err := h.service.Dashboard(r.Context(), userID, year)
	if err != nil {
		if errors.Is(err, ErrInvalidYear) {
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid year", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, d, nil)
}
