package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/satsforgood/donation-service/internal/domain"
)

func donation(hash string, amount int64, paidAt time.Time) domain.Donation {
	return domain.Donation{
		ID:          uuid.New(),
		DonorName:   "Anonymous",
		AmountSats:  amount,
		PaymentHash: hash,
		PaidAt:      paidAt,
	}
}

func TestLedgerAppendDeduplicatesByPaymentHash(t *testing.T) {
	l := NewDonationLedger()
	now := time.Now().UTC()

	if !l.Append(donation("hash-1", 5000, now)) {
		t.Fatal("first append should succeed")
	}
	if l.Append(donation("hash-1", 9000, now)) {
		t.Fatal("second append for the same payment hash must be a no-op")
	}

	stats := l.Stats()
	if stats.DonorCount != 1 || stats.TotalSats != 5000 {
		t.Fatalf("expected 1 donation of 5000 sats, got count=%d total=%d", stats.DonorCount, stats.TotalSats)
	}
}

func TestLedgerStats(t *testing.T) {
	l := NewDonationLedger()
	now := time.Now().UTC()

	empty := l.Stats()
	if empty.DonorCount != 0 || empty.TotalSats != 0 {
		t.Fatalf("expected zero stats on empty ledger, got %+v", empty)
	}

	l.Append(donation("a", 100, now))
	l.Append(donation("b", 250, now))
	l.Append(donation("c", 1000, now))

	stats := l.Stats()
	if stats.TotalSats != 1350 {
		t.Fatalf("expected total 1350 sats, got %d", stats.TotalSats)
	}
	if stats.DonorCount != 3 {
		t.Fatalf("expected 3 donors, got %d", stats.DonorCount)
	}
}

func TestLedgerRecentReturnsNewestFirst(t *testing.T) {
	l := NewDonationLedger()
	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		l.Append(donation(fmt.Sprintf("hash-%d", i), int64(100*(i+1)), now.Add(time.Duration(i)*time.Second)))
	}

	recent := l.Recent(3)
	if len(recent) != 3 {
		t.Fatalf("expected 3 donations, got %d", len(recent))
	}
	for i, wantHash := range []string{"hash-4", "hash-3", "hash-2"} {
		if recent[i].PaymentHash != wantHash {
			t.Fatalf("position %d: expected %s, got %s", i, wantHash, recent[i].PaymentHash)
		}
	}

	// Asking for more than exists returns everything.
	all := l.Recent(100)
	if len(all) != 5 {
		t.Fatalf("expected 5 donations, got %d", len(all))
	}
}

func TestLedgerFind(t *testing.T) {
	l := NewDonationLedger()
	now := time.Now().UTC()
	l.Append(donation("hash-1", 5000, now))

	got, err := l.Find("hash-1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.AmountSats != 5000 {
		t.Fatalf("expected 5000 sats, got %d", got.AmountSats)
	}

	if _, err := l.Find("unknown"); !errors.Is(err, ErrDonationNotFound) {
		t.Fatalf("expected ErrDonationNotFound, got %v", err)
	}
}

func TestLedgerConcurrentAppendsForSameHash(t *testing.T) {
	l := NewDonationLedger()
	now := time.Now().UTC()

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			l.Append(donation("contested", 5000, now))
		}()
	}
	wg.Wait()

	stats := l.Stats()
	if stats.DonorCount != 1 {
		t.Fatalf("concurrent appends double-counted: count=%d", stats.DonorCount)
	}
	if stats.TotalSats != 5000 {
		t.Fatalf("concurrent appends double-counted: total=%d", stats.TotalSats)
	}
}
