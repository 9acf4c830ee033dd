package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/landrise/Fund-Distribution-Backend/internal/api/request"
	"github.com/landrise/Fund-Distribution-Backend/internal/api/response"
	"github.com/landrise/Fund-Distribution-Backend/internal/apperrors"
	"github.com/landrise/Fund-Distribution-Backend/internal/service"
	"github.com/landrise/Fund-Distribution-Backend/internal/validation"
)

// FundHandler handles HTTP requests for fund, investor, and tier endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the fundService.
type FundHandler struct {
	fundService *service.FundService
}

// NewFundHandler creates a new FundHandler with the provided service dependency.
func NewFundHandler(fundService *service.FundService) *FundHandler {
	return &FundHandler{
		fundService: fundService,
	}
}

// AllFunds handles GET requests to retrieve all funds.
//
// Endpoint: GET /api/fund
// Response: 200 OK with array of Fund
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) AllFunds(w http.ResponseWriter, _ *http.Request) {
	funds, err := h.fundService.GetAllFunds()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFunds.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, funds)
}

// GetFund handles GET requests to retrieve a single fund by ID.
//
// Endpoint: GET /api/fund/{uuid}
// Response: 200 OK with Fund
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) GetFund(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	fund, err := h.fundService.GetFund(fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFund.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// CreateFund handles POST requests to create a new fund.
//
// Endpoint: POST /api/fund
// Request Body: CreateFundRequest (name, preferredReturnRate)
// Response: 201 Created with Fund
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *FundHandler) CreateFund(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateFundRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateFund(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.fundService.CreateFund(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create fund", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, fund)
}

// FundInvestors handles GET requests to retrieve all investors of a fund.
//
// Endpoint: GET /api/fund/{uuid}/investors
// Response: 200 OK with array of Investor
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) FundInvestors(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	investors, err := h.fundService.GetInvestors(fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInvestors.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, investors)
}

// CreateInvestor handles POST requests to add an investor to a fund.
//
// Endpoint: POST /api/fund/{uuid}/investors
// Request Body: CreateInvestorRequest (name, isGp, calledAmount, contributionDate)
// Response: 201 Created with Investor
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if creation fails
func (h *FundHandler) CreateInvestor(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.CreateInvestorRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInvestor(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	investor, err := h.fundService.CreateInvestor(r.Context(), fundID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create investor", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, investor)
}

// UpdateInvestor handles PUT requests to update an existing investor.
//
// Endpoint: PUT /api/investor/{uuid}
// Request Body: UpdateInvestorRequest (all fields optional)
// Response: 200 OK with updated Investor
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if investor not found
// Error: 500 Internal Server Error if update fails
func (h *FundHandler) UpdateInvestor(w http.ResponseWriter, r *http.Request) {
	investorID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateInvestorRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateInvestor(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	investor, err := h.fundService.UpdateInvestor(r.Context(), investorID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvestorNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInvestorNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update investor", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, investor)
}

// FundTiers handles GET requests to retrieve a fund's waterfall tier configuration.
//
// Endpoint: GET /api/fund/{uuid}/tiers
// Response: 200 OK with array of WaterfallTier ordered by tier order
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) FundTiers(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	tiers, err := h.fundService.GetTiers(fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTiers.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, tiers)
}

// ReplaceTiers handles PUT requests to replace a fund's waterfall tier configuration.
//
// Endpoint: PUT /api/fund/{uuid}/tiers
// Request Body: ReplaceTiersRequest
// Response: 200 OK with the new tier configuration
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if fund not found
// Error: 409 Conflict if an approved or recorded calculation locks the configuration
// Error: 500 Internal Server Error if replacement fails
func (h *FundHandler) ReplaceTiers(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.ReplaceTiersRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateReplaceTiers(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	tiers, err := h.fundService.ReplaceTiers(r.Context(), fundID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		if errors.Is(err, apperrors.ErrTiersLocked) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrTiersLocked.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to replace tiers", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, tiers)
}
