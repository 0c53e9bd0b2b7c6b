// Package qr renders gatepass payloads as QR code images.
package qr

import (
	"errors"

	qrcode "github.com/skip2/go-qrcode"
)

// PNG renders payloads as PNG-encoded QR codes. Deterministic for a fixed
// payload, size, and recovery level.
type PNG struct {
	// Size is the image edge length in pixels.
	Size int
	// Level is the error-correction level.
	Level qrcode.RecoveryLevel
}

// Default returns a renderer with the settings the mobile scanner expects.
func Default() *PNG {
	return &PNG{Size: 256, Level: qrcode.Medium}
}

// Render encodes payload into PNG bytes.
func (p *PNG) Render(payload string) ([]byte, error) {
	if payload == "" {
		return nil, errors.New("qr: empty payload")
	}
	return qrcode.Encode(payload, p.Level, p.Size)
}
