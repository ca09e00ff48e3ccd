/**
 * @description
 * This file contains the HTTP handlers for the donation-service's API
 * endpoints. Handlers parse incoming requests, call the appropriate methods
 * on the application service, and write the HTTP response. They act as the
 * bridge between the web layer and the lifecycle logic.
 *
 * @dependencies
 * - encoding/json, errors, log, net/http, strconv: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: service logic, models, and
 *   custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/satsforgood/donation-service/internal/app"
	"github.com/satsforgood/donation-service/internal/domain"
	"github.com/satsforgood/donation-service/internal/store"
)

const defaultRecentLimit = 10

// DonationHandlers holds the application service that handlers will use.
type DonationHandlers struct {
	service *app.Service
}

// NewDonationHandlers creates a new instance of DonationHandlers.
func NewDonationHandlers(service *app.Service) *DonationHandlers {
	return &DonationHandlers{service: service}
}

// CreateInvoiceHandler handles requests for new donation invoices. Parameters
// arrive as query values so payment pages can call it with a plain GET.
func (h *DonationHandlers) CreateInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	amountStr := r.URL.Query().Get("amount_sats")
	amount, err := strconv.ParseInt(amountStr, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "amount_sats must be an integer")
		return
	}

	req := domain.CreateInvoiceRequest{AmountSats: amount}
	if donor := r.URL.Query().Get("donor_name"); donor != "" {
		req.DonorName = &donor
	}
	if recipient := r.URL.Query().Get("recipient"); recipient != "" {
		req.Recipient = &recipient
	}

	resp, err := h.service.CreateInvoice(r.Context(), req)
	if err != nil {
		if errors.Is(err, store.ErrInvalidAmount) {
			h.writeError(w, http.StatusBadRequest, "Donation amount out of bounds")
			return
		}
		log.Printf("level=error component=api endpoint=create_invoice outcome=failed err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Could not create invoice")
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// CheckPaymentHandler reports the current lifecycle status of a payment hash.
func (h *DonationHandlers) CheckPaymentHandler(w http.ResponseWriter, r *http.Request) {
	paymentHash := r.URL.Query().Get("payment_hash")
	if paymentHash == "" {
		h.writeError(w, http.StatusBadRequest, "payment_hash is required")
		return
	}

	status := h.service.CheckPayment(r.Context(), paymentHash)
	h.writeJSON(w, http.StatusOK, status)
}

// ConfirmPaymentHandler is the operator-initiated settlement path. It marks a
// pending invoice paid without consulting the payment verifier.
func (h *DonationHandlers) ConfirmPaymentHandler(w http.ResponseWriter, r *http.Request) {
	paymentHash := r.URL.Query().Get("payment_hash")
	if paymentHash == "" {
		h.writeError(w, http.StatusBadRequest, "payment_hash is required")
		return
	}

	status := h.service.ConfirmPayment(r.Context(), paymentHash)
	h.writeJSON(w, http.StatusOK, status)
}

// DonationStatsHandler returns aggregate statistics over the ledger.
func (h *DonationHandlers) DonationStatsHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Stats())
}

// RecentDonationsHandler returns the most recent donations, newest first.
func (h *DonationHandlers) RecentDonationsHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	donations := h.service.RecentDonations(limit)
	if donations == nil {
		donations = []domain.Donation{}
	}
	h.writeJSON(w, http.StatusOK, donations)
}

// DonationReceiptHandler returns the receipt for a settled payment hash.
func (h *DonationHandlers) DonationReceiptHandler(w http.ResponseWriter, r *http.Request) {
	paymentHash := r.URL.Query().Get("payment_hash")
	if paymentHash == "" {
		h.writeError(w, http.StatusBadRequest, "payment_hash is required")
		return
	}

	receipt, err := h.service.Receipt(paymentHash)
	if err != nil {
		if app.IsNotFound(err) {
			h.writeError(w, http.StatusNotFound, "No settled donation for payment hash")
			return
		}
		log.Printf("level=error component=api endpoint=donation_receipt outcome=failed payment_hash=%s err=%v", paymentHash, err)
		h.writeError(w, http.StatusInternalServerError, "Could not build receipt")
		return
	}

	h.writeJSON(w, http.StatusOK, receipt)
}

// writeJSON is a helper for writing JSON responses.
func (h *DonationHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *DonationHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
