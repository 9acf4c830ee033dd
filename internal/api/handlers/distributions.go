package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/landrise/Fund-Distribution-Backend/internal/api/request"
	"github.com/landrise/Fund-Distribution-Backend/internal/api/response"
	"github.com/landrise/Fund-Distribution-Backend/internal/apperrors"
	"github.com/landrise/Fund-Distribution-Backend/internal/model"
	"github.com/landrise/Fund-Distribution-Backend/internal/service"
	"github.com/landrise/Fund-Distribution-Backend/internal/validation"
	"github.com/landrise/Fund-Distribution-Backend/internal/waterfall"
)

// DistributionHandler handles HTTP requests for the distribution workflow:
// creating distributions, running the waterfall calculator, and moving
// calculations through draft, approved and recorded.
type DistributionHandler struct {
	distributionService *service.DistributionService
}

// NewDistributionHandler creates a new DistributionHandler with the provided
// service dependency.
func NewDistributionHandler(distributionService *service.DistributionService) *DistributionHandler {
	return &DistributionHandler{
		distributionService: distributionService,
	}
}

// calculationResponse wraps a persisted calculation with its line items.
type calculationResponse struct {
	Calculation model.DistributionCalculation `json:"calculation"`
	LineItems   []model.DistributionLineItem  `json:"lineItems"`
}

// FundDistributions handles GET requests to list a fund's distributions
// together with per-tier summary totals.
//
// Endpoint: GET /api/fund/{uuid}/distributions
// Response: 200 OK with array of DistributionSummary
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *DistributionHandler) FundDistributions(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	summaries, err := h.distributionService.GetDistributionSummaries(fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDistributions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summaries)
}

// CreateDistribution handles POST requests to create a new draft distribution.
//
// Endpoint: POST /api/distribution
// Request Body: CreateDistributionRequest (fundId, amount, date)
// Response: 201 Created with Distribution
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if creation fails
func (h *DistributionHandler) CreateDistribution(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateDistributionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateDistribution(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	distribution, err := h.distributionService.CreateDistribution(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create distribution", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, distribution)
}

// GetDistribution handles GET requests to retrieve a single distribution.
//
// Endpoint: GET /api/distribution/{uuid}
// Response: 200 OK with Distribution
// Error: 404 Not Found if distribution not found
// Error: 500 Internal Server Error if retrieval fails
func (h *DistributionHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	distributionID := chi.URLParam(r, "uuid")

	distribution, err := h.distributionService.GetDistribution(distributionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDistributionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDistributionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDistributions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, distribution)
}

// Calculate handles POST requests to run the waterfall calculator for a
// distribution. The result is returned but not persisted; a follow-up
// save request persists it as a draft calculation.
//
// Endpoint: POST /api/distribution/{uuid}/calculate
// Response: 200 OK with CalculationResult (input, output, warnings)
// Error: 400 Bad Request if the distribution amount or tier config is invalid
// Error: 404 Not Found if distribution not found
// Error: 409 Conflict if the distribution is no longer in draft
// Error: 422 Unprocessable Entity if the fund has no tiers or no investors
// Error: 500 Internal Server Error if calculation fails
func (h *DistributionHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	distributionID := chi.URLParam(r, "uuid")

	result, err := h.distributionService.Calculate(r.Context(), distributionID)
	if err != nil {
		h.respondCalculationError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// SaveCalculation handles POST requests to compute and persist a draft
// calculation snapshot for a distribution. Any previous draft for the
// distribution is superseded.
//
// Endpoint: POST /api/distribution/{uuid}/save
// Response: 201 Created with DistributionCalculation
// Error: 400 Bad Request if the distribution amount or tier config is invalid
// Error: 404 Not Found if distribution not found
// Error: 409 Conflict if an approved or recorded calculation already exists
// Error: 422 Unprocessable Entity if the fund has no tiers or no investors
// Error: 500 Internal Server Error if persistence fails
func (h *DistributionHandler) SaveCalculation(w http.ResponseWriter, r *http.Request) {
	distributionID := chi.URLParam(r, "uuid")

	result, err := h.distributionService.Calculate(r.Context(), distributionID)
	if err != nil {
		h.respondCalculationError(w, err)
		return
	}

	calculation, err := h.distributionService.SaveCalculation(r.Context(), result)
	if err != nil {
		h.respondCalculationError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, calculation)
}

// LatestCalculation handles GET requests to retrieve the most recent
// persisted calculation for a distribution together with its line items.
//
// Endpoint: GET /api/distribution/{uuid}/calculation
// Response: 200 OK with calculation and line items
// Error: 404 Not Found if distribution or calculation not found
// Error: 500 Internal Server Error if retrieval fails
func (h *DistributionHandler) LatestCalculation(w http.ResponseWriter, r *http.Request) {
	distributionID := chi.URLParam(r, "uuid")

	calculation, lineItems, err := h.distributionService.GetLatestCalculation(distributionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDistributionNotFound) || errors.Is(err, apperrors.ErrCalculationNotFound) {
			response.RespondError(w, http.StatusNotFound, err.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCalculation.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, calculationResponse{
		Calculation: calculation,
		LineItems:   lineItems,
	})
}

// Approve handles POST requests to approve a draft calculation.
//
// Endpoint: POST /api/calculation/{uuid}/approve
// Request Body: ApproveCalculationRequest (approverId)
// Response: 200 OK with the approved DistributionCalculation
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if calculation not found
// Error: 409 Conflict if the calculation is not in draft
// Error: 500 Internal Server Error if the transition fails
func (h *DistributionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	calculationID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.ApproveCalculationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateApproveCalculation(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	calculation, err := h.distributionService.Approve(r.Context(), calculationID, req.ApproverID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCalculationNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrCalculationNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrCalculationNotDraft),
			errors.Is(err, apperrors.ErrCalculationAlreadyApproved),
			errors.Is(err, apperrors.ErrCalculationAlreadyRecorded):
			response.RespondError(w, http.StatusConflict, err.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to approve calculation", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, calculation)
}

// Record handles POST requests to record an approved calculation: investor
// balances are updated from the saved line items and the distribution is
// marked paid, all inside a single transaction.
//
// Endpoint: POST /api/calculation/{uuid}/record
// Response: 200 OK with the recorded DistributionCalculation
// Error: 404 Not Found if calculation not found
// Error: 409 Conflict if the calculation is not approved or already recorded
// Error: 500 Internal Server Error if recording fails
func (h *DistributionHandler) Record(w http.ResponseWriter, r *http.Request) {
	calculationID := chi.URLParam(r, "uuid")

	if err := h.distributionService.Record(r.Context(), calculationID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCalculationNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrCalculationNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrCalculationNotApproved),
			errors.Is(err, apperrors.ErrCalculationAlreadyRecorded):
			response.RespondError(w, http.StatusConflict, err.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to record calculation", err.Error())
		}
		return
	}

	calculation, err := h.distributionService.GetCalculation(calculationID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCalculation.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, calculation)
}

// respondCalculationError maps calculator and workflow errors onto HTTP
// status codes shared by the calculate and save endpoints.
func (h *DistributionHandler) respondCalculationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrDistributionNotFound),
		errors.Is(err, apperrors.ErrFundNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error(), err.Error())
	case errors.Is(err, apperrors.ErrNoTiersConfigured),
		errors.Is(err, apperrors.ErrNoInvestors):
		response.RespondError(w, http.StatusUnprocessableEntity, err.Error(), err.Error())
	case errors.Is(err, apperrors.ErrDistributionNotDraft),
		errors.Is(err, apperrors.ErrCalculationAlreadyApproved),
		errors.Is(err, apperrors.ErrCalculationAlreadyRecorded):
		response.RespondError(w, http.StatusConflict, err.Error(), err.Error())
	case errors.Is(err, waterfall.ErrNegativeDistributable),
		errors.Is(err, waterfall.ErrInvalidTierPercentage),
		errors.Is(err, waterfall.ErrNegativePrefRate):
		response.RespondError(w, http.StatusBadRequest, err.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, "calculation failed", err.Error())
	}
}
