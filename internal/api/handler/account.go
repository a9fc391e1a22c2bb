// internal/api/handler/account.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"finflow-account/internal/api/types"
	"finflow-account/internal/service"
	"finflow-account/internal/util"
)

// DefaultTimeout bounds the handling of a single request.
const DefaultTimeout = 15 * time.Second

// AccountHandler handles HTTP requests related to account operations.
type AccountHandler struct {
	service service.AccountService
	logger  *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		service: svc,
		logger:  logger,
	}
}

// Helper function to send JSON responses.
func (h *AccountHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h *AccountHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput), util.IsError(err, util.ErrUnsupportedCurrency):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrInvalidAmount):
		statusCode = http.StatusBadRequest
		message = "Amount must be positive"
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrAccountNotFound):
		statusCode = http.StatusNotFound
		message = "Account not found"
	case util.IsError(err, util.ErrCurrencyMismatch):
		statusCode = http.StatusUnprocessableEntity
		message = "Currency does not match the account currency"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired // 402 Payment Required
		message = "Insufficient funds"
	case util.IsError(err, util.ErrDailyLimitReached):
		statusCode = http.StatusTooManyRequests
		message = "Daily debit limit reached"
	case util.IsError(err, util.ErrPersistence):
		statusCode = http.StatusServiceUnavailable
		message = "Storage unavailable, try again later"
		h.logger.Error("Persistence failure", "error", err)
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, types.ErrorResponse{Error: message})
}

// OpenAccountRequest represents the request body for opening an account.
type OpenAccountRequest struct {
	Currency string `json:"currency"`
}

// OpenAccount handles the open account request.
// POST /accounts
func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	acct, err := h.service.OpenAccount(r.Context(), req.Currency)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, types.NewAccountResponse(acct))
}

// GetAccount handles the account lookup request.
// GET /accounts/{accountID}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := h.service.GetAccount(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewAccountResponse(acct))
}

// GetDailyLimit handles the daily limit lookup request.
// GET /accounts/{accountID}/daily-limit
func (h *AccountHandler) GetDailyLimit(w http.ResponseWriter, r *http.Request) {
	dl, err := h.service.GetDailyLimit(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.NewDailyLimitResponse(dl))
}

// PaymentRequest represents the request body for debit and credit. Amount is in minor units.
type PaymentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Debit handles the debit request.
// POST /accounts/{accountID}/debit
func (h *AccountHandler) Debit(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	res, err := h.service.Debit(r.Context(), accountID, req.Amount, req.Currency)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	resp := types.OperationResponse{
		Message:   "Debit successful",
		AccountID: res.AccountID,
		Balance:   res.Balance,
		Fee:       res.Fee,
	}
	if res.DailyLimit != nil {
		resp.DailyLimit = types.NewDailyLimitResponse(*res.DailyLimit)
	}
	h.respondWithJSON(w, http.StatusOK, resp)
}

// Credit handles the credit request.
// POST /accounts/{accountID}/credit
func (h *AccountHandler) Credit(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	res, err := h.service.Credit(r.Context(), accountID, req.Amount, req.Currency)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.OperationResponse{
		Message:   "Credit successful",
		AccountID: res.AccountID,
		Balance:   res.Balance,
		Fee:       res.Fee,
	})
}
