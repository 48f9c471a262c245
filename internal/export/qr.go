package export

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRSize is the edge length of written QR images in pixels.
const QRSize = 512

// WriteQR encodes text as a PNG QR code at path.
func WriteQR(text, path string) error {
	if err := qrcode.WriteFile(text, qrcode.Medium, QRSize, path); err != nil {
		return fmt.Errorf("write qr code: %w", err)
	}
	return nil
}
