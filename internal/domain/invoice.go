/**
 * @description
 * This file defines the core domain models for the donation-service: the pending
 * Lightning invoice and its lifecycle state, plus the DTOs exchanged with the API
 * layer.
 *
 * @notes
 * - Amounts are stored as `int64` satoshis, the smallest settlement unit, which
 *   avoids floating-point inaccuracies with monetary data.
 * - A pending invoice is keyed by its payment hash, the opaque identifier that
 *   correlates the invoice with its eventual settlement.
 */

package domain

import "time"

// PaymentState is the lifecycle state of a pending invoice.
type PaymentState string

const (
	// StatePending means the invoice was created and is waiting for payment.
	StatePending PaymentState = "PENDING"
	// StatePaid means the payment was confirmed on the Lightning Network.
	StatePaid PaymentState = "PAID"
	// StateExpired means the invoice expired without payment.
	StateExpired PaymentState = "EXPIRED"
)

// StatusNotFound is reported for payment hashes the system does not know about.
// It is a derived status, never a stored invoice state.
const StatusNotFound = "NOT_FOUND"

// Invoice represents a pending donation invoice. It is owned by the invoice
// store while Pending or Expired; on promotion the record moves to the donation
// ledger and the store entry is deleted.
type Invoice struct {
	Bolt11      string       `json:"invoice"`
	PaymentHash string       `json:"payment_hash"`
	AmountSats  int64        `json:"amount_sats"`
	DonorName   *string      `json:"donor_name,omitempty"`
	Recipient   *string      `json:"recipient,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
	State       PaymentState `json:"payment_state"`
	PaidAt      *time.Time   `json:"paid_at,omitempty"`
}

// CreateInvoiceRequest is the DTO for incoming invoice creation requests.
type CreateInvoiceRequest struct {
	AmountSats int64   `json:"amount_sats"`
	DonorName  *string `json:"donor_name,omitempty"`
	Recipient  *string `json:"recipient,omitempty"`
}

// CreateInvoiceResponse is returned to the client after an invoice is created.
type CreateInvoiceResponse struct {
	Invoice     string `json:"invoice"`
	PaymentHash string `json:"payment_hash"`
	QRCode      string `json:"qr_code"`
	ExpiresIn   int64  `json:"expires_in"` // seconds until expiry
}

// PaymentStatus is the response payload for status and confirmation queries.
type PaymentStatus struct {
	Status string     `json:"status"` // PENDING, PAID, EXPIRED or NOT_FOUND
	PaidAt *time.Time `json:"paid_at,omitempty"`
}
