/**
 * @description
 * Sentinel errors shared by the in-memory stores. Callers match these with
 * errors.Is to decide how a failure maps onto the API surface.
 */

package store

import "errors"

var (
	ErrInvalidAmount    = errors.New("donation amount out of bounds")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrDonationNotFound = errors.New("donation not found")
	ErrDuplicateInvoice = errors.New("invoice already exists for payment hash")
	ErrInvalidExpiry    = errors.New("invoice expiry must be after creation")
)
