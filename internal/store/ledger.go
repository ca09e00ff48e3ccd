/**
 * @description
 * The donation ledger: an append-only, deduplicated collection of confirmed
 * donations. Deduplication is keyed by payment hash and the contains+append
 * check runs inside one critical section, so two concurrent promotions of the
 * same payment can never both land in the ledger.
 */

package store

import (
	"sync"

	"github.com/satsforgood/donation-service/internal/domain"
)

// DonationLedger holds settled donations in insertion order.
type DonationLedger struct {
	mu        sync.RWMutex
	donations []domain.Donation
	byHash    map[string]int // payment hash -> index into donations
}

// NewDonationLedger creates an empty ledger.
func NewDonationLedger() *DonationLedger {
	return &DonationLedger{byHash: make(map[string]int)}
}

// Contains reports whether a donation for the payment hash is already recorded.
func (l *DonationLedger) Contains(paymentHash string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.byHash[paymentHash]
	return ok
}

// Append records a donation. If one already exists for the same payment hash
// the call is a no-op and returns false. The dedup check and the append happen
// under the same lock.
func (l *DonationLedger) Append(d domain.Donation) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byHash[d.PaymentHash]; ok {
		return false
	}
	l.byHash[d.PaymentHash] = len(l.donations)
	l.donations = append(l.donations, d)
	return true
}

// Stats returns a consistent aggregate snapshot of the ledger.
func (l *DonationLedger) Stats() domain.DonationStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total int64
	for _, d := range l.donations {
		total += d.AmountSats
	}
	return domain.DonationStats{TotalSats: total, DonorCount: len(l.donations)}
}

// Recent returns up to n donations in reverse insertion order, newest first.
func (l *DonationLedger) Recent(n int) []domain.Donation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	if n > len(l.donations) {
		n = len(l.donations)
	}
	recent := make([]domain.Donation, 0, n)
	for i := len(l.donations) - 1; i >= len(l.donations)-n; i-- {
		recent = append(recent, l.donations[i])
	}
	return recent
}

// Find returns the donation recorded for the payment hash.
func (l *DonationLedger) Find(paymentHash string) (domain.Donation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, ok := l.byHash[paymentHash]
	if !ok {
		return domain.Donation{}, ErrDonationNotFound
	}
	return l.donations[idx], nil
}
