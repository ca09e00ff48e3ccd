/**
 * @description
 * This file contains the core business logic for the donation-service. The
 * `Service` struct is the lifecycle coordinator: it orchestrates the invoice
 * store, the donation ledger and the payment verifier to create invoices,
 * answer status polls, and promote settled payments into the ledger.
 *
 * Key invariants enforced here:
 * - A payment hash is promoted into the ledger at most once.
 * - State transitions only move forward: Pending -> Paid, Pending -> Expired.
 * - The full transition-and-promote sequence for one payment hash runs as a
 *   single critical section (per-hash lock), and the verifier is invoked with
 *   no store lock held.
 *
 * @dependencies
 * - context, errors, fmt, log, time: Standard Go libraries.
 * - github.com/google/uuid: donation record identifiers.
 * - internal/domain, internal/store: domain models and the in-memory stores.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/satsforgood/donation-service/internal/domain"
	"github.com/satsforgood/donation-service/internal/store"
)

// InvoiceEncoder builds the signed wire-format invoice string. Implemented by
// pkg/bolt11; the signing key is fixed at construction.
type InvoiceEncoder interface {
	Encode(amountSats int64, description, paymentHash string, expiry time.Duration) (string, error)
}

// VisualEncoder renders a wire invoice string as an image data URI.
type VisualEncoder interface {
	DataURI(wire string) (string, error)
}

// Service provides the invoice lifecycle and reconciliation logic.
type Service struct {
	invoices  *store.InvoiceStore
	ledger    *store.DonationLedger
	verifier  PaymentVerifier
	encoder   InvoiceEncoder
	renderer  VisualEncoder
	ttl       time.Duration
	anonName  string
	network   string
	hashLocks *keyedMutex
	now       func() time.Time
}

// NewService creates a new donation service instance.
func NewService(
	invoices *store.InvoiceStore,
	ledger *store.DonationLedger,
	verifier PaymentVerifier,
	encoder InvoiceEncoder,
	renderer VisualEncoder,
	ttl time.Duration,
	anonymousDonor string,
	network string,
) *Service {
	return &Service{
		invoices:  invoices,
		ledger:    ledger,
		verifier:  verifier,
		encoder:   encoder,
		renderer:  renderer,
		ttl:       ttl,
		anonName:  anonymousDonor,
		network:   network,
		hashLocks: newKeyedMutex(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateInvoice validates the request, generates a payment hash, encodes the
// wire invoice and QR code, and records a Pending entry in the store.
func (s *Service) CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (*domain.CreateInvoiceResponse, error) {
	if err := s.invoices.ValidateAmount(req.AmountSats); err != nil {
		return nil, err
	}

	paymentHash, err := store.NewPaymentHash()
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Donation of %d sats to SatsForGood", req.AmountSats)
	if req.Recipient != nil && *req.Recipient != "" {
		description = fmt.Sprintf("Donation of %d sats to %s", req.AmountSats, *req.Recipient)
	}

	wire, err := s.encoder.Encode(req.AmountSats, description, paymentHash, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to encode invoice: %w", err)
	}
	qr, err := s.renderer.DataURI(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice QR: %w", err)
	}

	now := s.now()
	inv := domain.Invoice{
		Bolt11:      wire,
		PaymentHash: paymentHash,
		AmountSats:  req.AmountSats,
		DonorName:   req.DonorName,
		Recipient:   req.Recipient,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
		State:       domain.StatePending,
	}
	if err := s.invoices.Create(inv, now); err != nil {
		return nil, err
	}

	log.Printf("level=info component=app event=invoice_created amount_sats=%d payment_hash=%s expires_at=%s",
		req.AmountSats, paymentHash, inv.ExpiresAt.Format(time.RFC3339))

	return &domain.CreateInvoiceResponse{
		Invoice:     wire,
		PaymentHash: paymentHash,
		QRCode:      qr,
		ExpiresIn:   int64(s.ttl / time.Second),
	}, nil
}

// CheckPayment resolves the current lifecycle status of a payment hash,
// consulting the ledger first, then the store (expiry), then the verifier.
// A settled result promotes the invoice into the ledger.
func (s *Service) CheckPayment(ctx context.Context, paymentHash string) domain.PaymentStatus {
	unlock := s.hashLocks.lock(paymentHash)
	defer unlock()

	// Already promoted payments stay reported as paid forever, even though
	// the store entry is long gone.
	if d, err := s.ledger.Find(paymentHash); err == nil {
		paidAt := d.PaidAt
		return domain.PaymentStatus{Status: string(domain.StatePaid), PaidAt: &paidAt}
	}

	inv, err := s.invoices.Get(paymentHash)
	if err != nil {
		// Unknown hashes are reported, never synthesized into Paid or Expired.
		return domain.PaymentStatus{Status: domain.StatusNotFound}
	}

	now := s.now()
	if !inv.ExpiresAt.After(now) && inv.State != domain.StatePaid {
		s.invoices.Remove(paymentHash)
		log.Printf("level=info component=app event=invoice_expired payment_hash=%s", paymentHash)
		return domain.PaymentStatus{Status: string(domain.StateExpired)}
	}

	if inv.State == domain.StatePaid {
		// A prior confirmation won the race but had not promoted yet.
		return s.promote(inv)
	}

	// The verifier may block on network I/O; only the per-hash lock is held
	// here, never the store mutex.
	settled, err := s.verifier.IsSettled(ctx, paymentHash, inv)
	if err != nil {
		// An unreachable verifier means "not settled for this poll", never
		// settlement and never a caller-facing failure.
		log.Printf("level=warn component=app event=verifier_unreachable payment_hash=%s err=%v", paymentHash, err)
		return domain.PaymentStatus{Status: string(domain.StatePending)}
	}
	if !settled {
		return domain.PaymentStatus{Status: string(domain.StatePending)}
	}

	// The verifier ran with no store lock held, so the sweep may have expired
	// and removed this entry in the meantime. Re-validate against the store
	// before the final transition; a stale Pending snapshot must never be
	// written back as Paid.
	inv, err = s.invoices.Get(paymentHash)
	if err != nil {
		// Promotion is excluded by the per-hash lock, so a missing entry here
		// means the sweep expired it while the verifier was in flight.
		log.Printf("level=info component=app event=invoice_expired payment_hash=%s reason=swept_during_verify", paymentHash)
		return domain.PaymentStatus{Status: string(domain.StateExpired)}
	}
	now = s.now()
	if !inv.ExpiresAt.After(now) && inv.State != domain.StatePaid {
		s.invoices.Remove(paymentHash)
		log.Printf("level=info component=app event=invoice_expired payment_hash=%s", paymentHash)
		return domain.PaymentStatus{Status: string(domain.StateExpired)}
	}
	if inv.State == domain.StatePaid {
		return s.promote(inv)
	}

	return s.settle(inv, now)
}

// ConfirmPayment is the manual/administrative settlement path. It bypasses the
// verifier but follows the same transition and promotion rules as CheckPayment.
func (s *Service) ConfirmPayment(ctx context.Context, paymentHash string) domain.PaymentStatus {
	unlock := s.hashLocks.lock(paymentHash)
	defer unlock()

	if d, err := s.ledger.Find(paymentHash); err == nil {
		paidAt := d.PaidAt
		return domain.PaymentStatus{Status: string(domain.StatePaid), PaidAt: &paidAt}
	}

	inv, err := s.invoices.Get(paymentHash)
	if err != nil {
		return domain.PaymentStatus{Status: domain.StatusNotFound}
	}

	now := s.now()
	if !inv.ExpiresAt.After(now) && inv.State != domain.StatePaid {
		s.invoices.Remove(paymentHash)
		return domain.PaymentStatus{Status: string(domain.StateExpired)}
	}
	if inv.State == domain.StatePaid {
		return s.promote(inv)
	}

	log.Printf("level=info component=app event=manual_confirmation payment_hash=%s", paymentHash)
	return s.settle(inv, now)
}

// settle moves a pending invoice to Paid, persists the transition, and
// promotes it. Callers must hold the per-hash lock.
func (s *Service) settle(inv domain.Invoice, now time.Time) domain.PaymentStatus {
	inv.State = domain.StatePaid
	inv.PaidAt = &now
	s.invoices.Upsert(inv)
	log.Printf("level=info component=app event=payment_confirmed amount_sats=%d payment_hash=%s", inv.AmountSats, inv.PaymentHash)
	return s.promote(inv)
}

// promote appends the paid invoice to the ledger (deduplicated by payment
// hash) and deletes the store entry. Callers must hold the per-hash lock.
func (s *Service) promote(inv domain.Invoice) domain.PaymentStatus {
	if inv.PaidAt == nil {
		// A Paid record without a paid timestamp means the store is corrupt.
		// Fabricating a status would hide that, so fail loudly instead.
		log.Panicf("level=fatal component=app event=promotion_rejected reason=missing_paid_at payment_hash=%s", inv.PaymentHash)
	}

	donor := s.anonName
	if inv.DonorName != nil && *inv.DonorName != "" {
		donor = *inv.DonorName
	}
	appended := s.ledger.Append(domain.Donation{
		ID:          uuid.New(),
		DonorName:   donor,
		Recipient:   inv.Recipient,
		AmountSats:  inv.AmountSats,
		PaymentHash: inv.PaymentHash,
		PaidAt:      *inv.PaidAt,
	})
	s.invoices.Remove(inv.PaymentHash)

	if appended {
		log.Printf("level=info component=app event=donation_recorded amount_sats=%d donor=%q payment_hash=%s",
			inv.AmountSats, donor, inv.PaymentHash)
	}

	// Report the ledger's timestamp so repeated polls agree on paid_at.
	if d, err := s.ledger.Find(inv.PaymentHash); err == nil {
		paidAt := d.PaidAt
		return domain.PaymentStatus{Status: string(domain.StatePaid), PaidAt: &paidAt}
	}
	return domain.PaymentStatus{Status: string(domain.StatePaid), PaidAt: inv.PaidAt}
}

// Stats returns the aggregate donation statistics.
func (s *Service) Stats() domain.DonationStats {
	return s.ledger.Stats()
}

// RecentDonations returns up to limit donations, newest first.
func (s *Service) RecentDonations(limit int) []domain.Donation {
	return s.ledger.Recent(limit)
}

// Receipt builds the receipt for a settled payment hash.
func (s *Service) Receipt(paymentHash string) (*domain.DonationReceipt, error) {
	d, err := s.ledger.Find(paymentHash)
	if err != nil {
		return nil, err
	}
	return &domain.DonationReceipt{
		ID:            d.ID,
		DonorName:     d.DonorName,
		Recipient:     d.Recipient,
		AmountSats:    d.AmountSats,
		PaymentHash:   d.PaymentHash,
		PaidAt:        d.PaidAt,
		TransactionID: d.ID.String(),
		Network:       s.network,
	}, nil
}

// IsNotFound reports whether err is one of the store's not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrInvoiceNotFound) || errors.Is(err, store.ErrDonationNotFound)
}
