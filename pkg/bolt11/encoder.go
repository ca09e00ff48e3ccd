/**
 * @description
 * Reference encoder for BOLT11-style Lightning payment requests. It produces a
 * bech32 string carrying the donation amount, description, payment hash and
 * expiry, signed with the node's secp256k1 key, in the shape mobile wallets
 * expect: ln<network><amount> || timestamp || tagged fields || signature.
 *
 * The encoder is a stateless collaborator of the donation lifecycle: the core
 * hands it validated fields and stores only the resulting string. It carries
 * no lifecycle knowledge of its own.
 *
 * @dependencies
 * - github.com/btcsuite/btcd/btcutil/bech32: bech32 encoding and 5-bit packing.
 * - github.com/decred/dcrd/dcrec/secp256k1/v4: invoice signing.
 */

package bolt11

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// ErrEncode is wrapped by every encoding failure.
var ErrEncode = errors.New("invoice encoding failed")

// Tagged field types from the BOLT11 specification.
const (
	tagPaymentHash     = 1  // 'p'
	tagDescription     = 13 // 'd'
	tagExpiry          = 6  // 'x'
	tagMinFinalCLTV    = 24 // 'c'
	minFinalCLTVExpiry = 144

	// maxDescriptionBytes is the largest description a 'd' field can carry
	// (1023 five-bit groups).
	maxDescriptionBytes = 639
)

// Encoder signs and encodes payment requests with a fixed node key.
type Encoder struct {
	key     *secp256k1.PrivateKey
	network string // bech32 network prefix, e.g. "bc" for mainnet
	now     func() time.Time
}

// NewEncoder creates an encoder signing with the given node key for the given
// network prefix.
func NewEncoder(key *secp256k1.PrivateKey, network string) *Encoder {
	return &Encoder{key: key, network: network, now: time.Now}
}

// Encode builds the signed payment request string.
func (e *Encoder) Encode(amountSats int64, description, paymentHash string, expiry time.Duration) (string, error) {
	if amountSats <= 0 {
		return "", fmt.Errorf("%w: amount must be positive, got %d", ErrEncode, amountSats)
	}
	if len(description) > maxDescriptionBytes {
		return "", fmt.Errorf("%w: description exceeds %d bytes", ErrEncode, maxDescriptionBytes)
	}
	hashBytes, err := hex.DecodeString(paymentHash)
	if err != nil || len(hashBytes) != sha256.Size {
		return "", fmt.Errorf("%w: payment hash must be %d hex-encoded bytes", ErrEncode, sha256.Size)
	}
	expirySeconds := int64(expiry / time.Second)
	if expirySeconds <= 0 {
		return "", fmt.Errorf("%w: expiry must be at least one second", ErrEncode)
	}

	// Amount in the human-readable part is denominated in nano-bitcoin;
	// one satoshi is ten nano-bitcoin.
	hrp := "ln" + e.network + strconv.FormatInt(amountSats*10, 10) + "n"

	data := encodeTimestamp(e.now().Unix())

	hashGroups, err := bech32.ConvertBits(hashBytes, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	data = appendTaggedField(data, tagPaymentHash, hashGroups)

	descGroups, err := bech32.ConvertBits([]byte(description), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	data = appendTaggedField(data, tagDescription, descGroups)

	data = appendTaggedField(data, tagExpiry, encodeUint(uint64(expirySeconds)))
	data = appendTaggedField(data, tagMinFinalCLTV, encodeUint(minFinalCLTVExpiry))

	sigGroups, err := e.sign(hrp, data)
	if err != nil {
		return "", err
	}
	data = append(data, sigGroups...)

	encoded, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return encoded, nil
}

// PublicKey returns the compressed payee public key, hex encoded.
func (e *Encoder) PublicKey() string {
	return hex.EncodeToString(e.key.PubKey().SerializeCompressed())
}

// sign produces the 104-group recoverable signature over hrp plus the data
// part packed back into bytes, per BOLT11.
func (e *Encoder) sign(hrp string, data []byte) ([]byte, error) {
	dataBytes, err := bech32.ConvertBits(data, 5, 8, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	msg := append([]byte(hrp), dataBytes...)
	digest := sha256.Sum256(msg)

	// SignCompact yields [header, r, s]; BOLT11 wants r || s || recovery id.
	compact := secpecdsa.SignCompact(e.key, digest[:], true)
	recoveryID := (compact[0] - 27) & 3
	recoverable := make([]byte, 0, 65)
	recoverable = append(recoverable, compact[1:]...)
	recoverable = append(recoverable, recoveryID)

	sigGroups, err := bech32.ConvertBits(recoverable, 8, 5, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return sigGroups, nil
}

// encodeTimestamp packs a unix timestamp into the fixed 35-bit (seven group)
// big-endian field that leads the data part.
func encodeTimestamp(unix int64) []byte {
	groups := make([]byte, 7)
	v := uint64(unix)
	for i := 6; i >= 0; i-- {
		groups[i] = byte(v & 0x1f)
		v >>= 5
	}
	return groups
}

// encodeUint encodes an integer as minimal big-endian 5-bit groups.
func encodeUint(v uint64) []byte {
	if v == 0 {
		return []byte{0}
	}
	var groups []byte
	for v > 0 {
		groups = append([]byte{byte(v & 0x1f)}, groups...)
		v >>= 5
	}
	return groups
}

// appendTaggedField appends type, a 10-bit length, and the payload groups.
func appendTaggedField(data []byte, tag byte, groups []byte) []byte {
	data = append(data, tag)
	data = append(data, byte(len(groups)>>5), byte(len(groups)&0x1f))
	return append(data, groups...)
}
