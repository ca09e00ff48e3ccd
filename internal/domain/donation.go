/**
 * @description
 * This file defines the settled donation record and its read models. A donation
 * is immutable once created and lives in the ledger for the process lifetime.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Donation is a confirmed, settled donation. The payment hash is the foreign
// key back to the originating invoice and is used for deduplication.
type Donation struct {
	ID          uuid.UUID `json:"id"`
	DonorName   string    `json:"donor_name"`
	Recipient   *string   `json:"recipient,omitempty"`
	AmountSats  int64     `json:"amount_sats"`
	PaymentHash string    `json:"payment_hash"`
	PaidAt      time.Time `json:"paid_at"`
}

// DonationStats is an aggregate snapshot over the ledger.
type DonationStats struct {
	TotalSats  int64 `json:"total_sats"`
	DonorCount int   `json:"donor_count"`
}

// DonationReceipt is the receipt payload for a settled payment.
type DonationReceipt struct {
	ID            uuid.UUID `json:"id"`
	DonorName     string    `json:"donor_name"`
	Recipient     *string   `json:"recipient,omitempty"`
	AmountSats    int64     `json:"amount_sats"`
	PaymentHash   string    `json:"payment_hash"`
	PaidAt        time.Time `json:"paid_at"`
	TransactionID string    `json:"transaction_id"`
	Network       string    `json:"network"`
}
