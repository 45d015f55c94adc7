package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

type LedgerHandler struct {
	ledgerSvc     service.LedgerService
	withdrawalSvc service.WithdrawalService
}

func NewLedgerHandler(ledgerSvc service.LedgerService, withdrawalSvc service.WithdrawalService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc, withdrawalSvc: withdrawalSvc}
}

type balanceResponse struct {
	BalanceCents int64 `json:"balance_cents"`
}

func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerSvc.GetBalance(r.Context(), UserFromContext(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{BalanceCents: balance})
}

func (h *LedgerHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.ledgerSvc.GetTransactions(r.Context(), UserFromContext(r.Context()).ID, page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, items, total)
}

func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledgerSvc.GetLedgerSummary(r.Context(), UserFromContext(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *LedgerHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req service.WithdrawalRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	wd, err := h.withdrawalSvc.RequestWithdrawal(r.Context(), UserFromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wd)
}

func (h *LedgerHandler) MyWithdrawals(w http.ResponseWriter, r *http.Request) {
	items, err := h.withdrawalSvc.ListMyWithdrawals(r.Context(), UserFromContext(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
