package service

import (
	"github.com/skip2/go-qrcode"
)

// DefaultQRGenerator renders the customer-copy QR code as a 256px PNG.
type DefaultQRGenerator struct{}

func (g DefaultQRGenerator) Generate(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, 256)
}
