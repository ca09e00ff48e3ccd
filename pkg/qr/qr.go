/**
 * @description
 * QR rendering for wire invoice strings. Purely a presentation transform: the
 * invoice string goes in, a PNG data URI optimized for mobile wallet scanning
 * comes out.
 *
 * @dependencies
 * - github.com/skip2/go-qrcode: QR code generation.
 */

package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the rendered image size in pixels.
const DefaultSize = 256

// Renderer renders strings as PNG QR codes.
type Renderer struct {
	Size int // pixels; DefaultSize when zero
}

// NewRenderer creates a renderer with the given image size.
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{Size: size}
}

// DataURI renders the wire string as a base64 PNG data URI. Medium error
// correction keeps the code scannable on damaged or small displays.
func (r *Renderer) DataURI(wire string) (string, error) {
	size := r.Size
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(wire, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
