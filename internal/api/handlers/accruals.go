package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/landrise/Fund-Distribution-Backend/internal/api/response"
	"github.com/landrise/Fund-Distribution-Backend/internal/apperrors"
	"github.com/landrise/Fund-Distribution-Backend/internal/service"
)

// AccrualHandler serves a fund's accrual snapshots and handles internal
// requests to run the preferred-return snapshot outside its nightly schedule.
type AccrualHandler struct {
	accrualService *service.AccrualService
}

// NewAccrualHandler creates a new AccrualHandler with the provided service
// dependency.
func NewAccrualHandler(accrualService *service.AccrualService) *AccrualHandler {
	return &AccrualHandler{
		accrualService: accrualService,
	}
}

// RunSnapshots handles POST requests to snapshot accrued preferred return
// for every investor, as of today.
//
// Endpoint: POST /api/internal/accruals/run (API key protected)
// Response: 200 OK with the number of snapshots written
// Error: 500 Internal Server Error if the run fails
func (h *AccrualHandler) RunSnapshots(w http.ResponseWriter, r *http.Request) {
	count, err := h.accrualService.RunSnapshots(r.Context(), time.Now().UTC())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to run accrual snapshots", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int{"snapshots": count})
}

// FundAccruals handles GET requests to retrieve a fund's accrual snapshots
// for a date. Without a date parameter it returns today's snapshots.
//
// Endpoint: GET /api/fund/{uuid}/accruals?date=YYYY-MM-DD
// Response: 200 OK with array of AccrualSnapshot
// Error: 400 Bad Request if the date is malformed
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *AccrualHandler) FundAccruals(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid date", "date must be in YYYY-MM-DD format")
			return
		}
		date = parsed
	}

	snapshots, err := h.accrualService.GetSnapshots(fundID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve accrual snapshots", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshots)
}
