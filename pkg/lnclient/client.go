/**
 * @description
 * This package provides a simulated Lightning node client used as the payment
 * verifier in development and tests. It satisfies the app.PaymentVerifier
 * contract without talking to a real node.
 *
 * In production this client must be replaced with a real settlement query:
 * - LND:         lnrpc.LookupInvoice(payment_hash)
 * - Core Lightning: listinvoices(payment_hash)
 * - Eclair:      getReceivedInfo(payment_hash)
 *
 * The simulation settles a payment hash when an operator (or test) registers
 * it via Settle, or, when configured, after a fixed elapsed time since invoice
 * creation. It never mutates invoice or ledger state.
 */

package lnclient

import (
	"context"
	"sync"
	"time"

	"github.com/satsforgood/donation-service/internal/domain"
)

// SimulatedClient is an in-process stand-in for a Lightning node connection.
type SimulatedClient struct {
	mu              sync.RWMutex
	settled         map[string]struct{}
	autoSettleAfter time.Duration // 0 disables elapsed-time settlement
}

// NewSimulatedClient creates a simulated client. When autoSettleAfter is
// positive, any pending invoice older than that duration reports as settled,
// which is useful for demos.
func NewSimulatedClient(autoSettleAfter time.Duration) *SimulatedClient {
	return &SimulatedClient{
		settled:         make(map[string]struct{}),
		autoSettleAfter: autoSettleAfter,
	}
}

// Settle registers a payment hash as settled on the simulated network.
func (c *SimulatedClient) Settle(paymentHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settled[paymentHash] = struct{}{}
}

// IsSettled reports whether the payment hash has settled. It is a pure
// predicate; all state transitions happen in the caller.
func (c *SimulatedClient) IsSettled(ctx context.Context, paymentHash string, snapshot domain.Invoice) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.RLock()
	_, ok := c.settled[paymentHash]
	c.mu.RUnlock()
	if ok {
		return true, nil
	}
	if c.autoSettleAfter > 0 && time.Since(snapshot.CreatedAt) >= c.autoSettleAfter {
		return true, nil
	}
	return false, nil
}
