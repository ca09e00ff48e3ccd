package store

import (
	"errors"
	"testing"
	"time"

	"github.com/satsforgood/donation-service/internal/domain"
)

func pendingInvoice(hash string, amount int64, createdAt time.Time, ttl time.Duration) domain.Invoice {
	return domain.Invoice{
		PaymentHash: hash,
		AmountSats:  amount,
		CreatedAt:   createdAt,
		ExpiresAt:   createdAt.Add(ttl),
		State:       domain.StatePending,
	}
}

func TestInvoiceStoreValidateAmount(t *testing.T) {
	s := NewInvoiceStore(100, 1000000)

	tests := []struct {
		name    string
		amount  int64
		wantErr bool
	}{
		{name: "below minimum", amount: 50, wantErr: true},
		{name: "at minimum", amount: 100, wantErr: false},
		{name: "typical", amount: 5000, wantErr: false},
		{name: "at maximum", amount: 1000000, wantErr: false},
		{name: "above maximum", amount: 1000001, wantErr: true},
		{name: "zero", amount: 0, wantErr: true},
		{name: "negative", amount: -100, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ValidateAmount(tt.amount)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestInvoiceStoreCreateRejectsInvalidAmount(t *testing.T) {
	s := NewInvoiceStore(100, 1000000)

	now := time.Now().UTC()
	err := s.Create(pendingInvoice("hash-1", 50, now, time.Hour), now)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no entries after rejected create, got %d", s.Len())
	}
}

func TestInvoiceStoreCreateRejectsNonForwardExpiry(t *testing.T) {
	s := NewInvoiceStore(100, 1000000)
	now := time.Now().UTC()

	inv := pendingInvoice("hash-1", 5000, now, 0)
	if err := s.Create(inv, now); !errors.Is(err, ErrInvalidExpiry) {
		t.Fatalf("expected ErrInvalidExpiry, got %v", err)
	}
}

func TestInvoiceStoreCreateRejectsDuplicateHash(t *testing.T) {
	s := NewInvoiceStore(100, 1000000)
	now := time.Now().UTC()

	if err := s.Create(pendingInvoice("hash-1", 5000, now, time.Hour), now); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if err := s.Create(pendingInvoice("hash-1", 7000, now, time.Hour), now); !errors.Is(err, ErrDuplicateInvoice) {
		t.Fatalf("expected ErrDuplicateInvoice, got %v", err)
	}
}

func TestInvoiceStoreCreateEvictsExpiredEntries(t *testing.T) {
	s := NewInvoiceStore(100, 1000000)
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	if err := s.Create(pendingInvoice("stale", 5000, base, time.Hour), base); err != nil {
		t.Fatalf("create stale failed: %v", err)
	}

	// Eviction follows the caller-supplied clock, so only the second create's
	// later now makes the first entry stale.
	later := base.Add(2 * time.Hour)
	if err := s.Create(pendingInvoice("fresh", 5000, later, time.Hour), later); err != nil {
		t.Fatalf("create fresh failed: %v", err)
	}

	if _, err := s.Get("stale"); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("expected stale entry to be evicted, got err=%v", err)
	}
	if _, err := s.Get("fresh"); err != nil {
		t.Fatalf("expected fresh entry to survive, got %v", err)
	}
}

func TestInvoiceStoreGetReturnsSnapshot(t *testing.T) {
	s := NewInvoiceStore(100, 1000000)
	now := time.Now().UTC()
	if err := s.Create(pendingInvoice("hash-1", 5000, now, time.Hour), now); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	inv, err := s.Get("hash-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	inv.State = domain.StatePaid

	again, err := s.Get("hash-1")
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if again.State != domain.StatePending {
		t.Fatalf("mutation of a snapshot leaked into the store: state=%s", again.State)
	}
}

func TestInvoiceStoreSweepSkipsPaid(t *testing.T) {
	s := NewInvoiceStore(100, 1000000)
	longGone := time.Now().UTC().Add(-2 * time.Hour)

	expired := pendingInvoice("expired", 5000, longGone, time.Hour)
	if err := s.Create(expired, longGone); err != nil {
		t.Fatalf("create expired failed: %v", err)
	}

	paidAt := longGone.Add(30 * time.Minute)
	paid := pendingInvoice("paid", 5000, longGone, time.Hour)
	paid.State = domain.StatePaid
	paid.PaidAt = &paidAt
	s.Upsert(paid)

	removed := s.Sweep(time.Now().UTC())
	if removed != 1 {
		t.Fatalf("expected 1 entry swept, got %d", removed)
	}
	if _, err := s.Get("paid"); err != nil {
		t.Fatalf("paid entry must never be swept before promotion: %v", err)
	}
	if _, err := s.Get("expired"); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("expected expired entry removed, got err=%v", err)
	}
}

func TestInvoiceStoreRemoveIsIdempotent(t *testing.T) {
	s := NewInvoiceStore(100, 1000000)
	now := time.Now().UTC()
	if err := s.Create(pendingInvoice("hash-1", 5000, now, time.Hour), now); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	s.Remove("hash-1")
	s.Remove("hash-1")
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d entries", s.Len())
	}
}

func TestNewPaymentHashIsUniqueHex(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		hash, err := NewPaymentHash()
		if err != nil {
			t.Fatalf("NewPaymentHash returned error: %v", err)
		}
		if len(hash) != PaymentHashSize*2 {
			t.Fatalf("expected %d hex chars, got %d", PaymentHashSize*2, len(hash))
		}
		if _, dup := seen[hash]; dup {
			t.Fatalf("duplicate payment hash generated: %s", hash)
		}
		seen[hash] = struct{}{}
	}
}
