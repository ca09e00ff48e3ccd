/**
 * @description
 * The in-memory invoice store: a concurrent map from payment hash to pending
 * invoice. The store owns invoice creation, expiry sweeps and removal; all
 * state transitions are persisted back through Upsert by the lifecycle service.
 *
 * Concurrency: every read-modify-write runs under the store mutex. Snapshot
 * reads use the shared lock and return copies, never pointers into the map, so
 * callers cannot mutate stored records outside a critical section.
 */

package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/satsforgood/donation-service/internal/domain"
)

// InvoiceStore holds pending invoices keyed by payment hash.
type InvoiceStore struct {
	mu        sync.RWMutex
	invoices  map[string]domain.Invoice
	minAmount int64
	maxAmount int64
}

// NewInvoiceStore creates an empty invoice store enforcing the given donation
// amount bounds (inclusive, in satoshis).
func NewInvoiceStore(minAmount, maxAmount int64) *InvoiceStore {
	return &InvoiceStore{
		invoices:  make(map[string]domain.Invoice),
		minAmount: minAmount,
		maxAmount: maxAmount,
	}
}

// ValidateAmount checks a donation amount against the configured bounds.
func (s *InvoiceStore) ValidateAmount(amountSats int64) error {
	if amountSats < s.minAmount || amountSats > s.maxAmount {
		return fmt.Errorf("%w: %d sats not in [%d, %d]", ErrInvalidAmount, amountSats, s.minAmount, s.maxAmount)
	}
	return nil
}

// Create validates and inserts a new pending invoice. Before inserting it
// opportunistically evicts entries whose expiry has passed as of now, which
// bounds growth from abandoned invoices without a dedicated background pass.
// The caller supplies now so eviction and the service's expiry decisions
// observe the same clock.
func (s *InvoiceStore) Create(inv domain.Invoice, now time.Time) error {
	if err := s.ValidateAmount(inv.AmountSats); err != nil {
		return err
	}
	if !inv.ExpiresAt.After(inv.CreatedAt) {
		return ErrInvalidExpiry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for hash, existing := range s.invoices {
		if !existing.ExpiresAt.After(now) && existing.State != domain.StatePaid {
			delete(s.invoices, hash)
		}
	}

	if _, exists := s.invoices[inv.PaymentHash]; exists {
		return ErrDuplicateInvoice
	}
	s.invoices[inv.PaymentHash] = inv
	return nil
}

// Get returns a snapshot of the invoice for the given payment hash.
func (s *InvoiceStore) Get(paymentHash string) (domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[paymentHash]
	if !ok {
		return domain.Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

// Upsert replaces the stored record for the invoice's payment hash. It is used
// by the lifecycle service to persist state transitions.
func (s *InvoiceStore) Upsert(inv domain.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.PaymentHash] = inv
}

// Remove deletes the entry for the payment hash. Removing an absent hash is a
// no-op so promotion and expiry cleanup stay idempotent.
func (s *InvoiceStore) Remove(paymentHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.invoices, paymentHash)
}

// Sweep removes every invoice whose expiry is at or before now and whose state
// is not Paid. Paid entries are never swept; they are removed by promotion.
// It returns the number of entries removed.
func (s *InvoiceStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for hash, inv := range s.invoices {
		if !inv.ExpiresAt.After(now) && inv.State != domain.StatePaid {
			delete(s.invoices, hash)
			removed++
		}
	}
	return removed
}

// Len reports the number of pending entries. Intended for tests and logging.
func (s *InvoiceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.invoices)
}
