/**
 * @description
 * This file defines the PaymentVerifier contract consumed by the lifecycle
 * service. The verifier is a pure predicate: it reports whether a payment
 * hash has settled on the Lightning Network and never mutates invoice or
 * ledger state. Keeping verification behind this interface means a real node
 * client (LND, CLN, Eclair) can replace the simulated one without touching
 * any state-machine guarantee.
 */

package app

import (
	"context"

	"github.com/satsforgood/donation-service/internal/domain"
)

// PaymentVerifier reports whether a payment has settled. Implementations may
// block on network I/O; the service never holds store locks across this call.
type PaymentVerifier interface {
	IsSettled(ctx context.Context, paymentHash string, snapshot domain.Invoice) (bool, error)
}
