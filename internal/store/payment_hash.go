/**
 * @description
 * Payment hash generation. Payment hashes are the opaque identifiers that key
 * pending invoices and correlate them with eventual Lightning settlements, so
 * they must be cryptographically random and collision resistant.
 */

package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// PaymentHashSize is the size of a raw payment hash in bytes, matching the
// SHA-256 payment hashes used by Lightning invoices.
const PaymentHashSize = 32

// NewPaymentHash returns a new random payment hash in lowercase hex.
func NewPaymentHash() (string, error) {
	buf := make([]byte, PaymentHashSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate payment hash: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
