package qrcode

import (
	"fmt"

	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// Generator renders PNG QR codes for reservation tokens
type Generator struct {
	size int
}

var _ interfaces.QRGenerator = (*Generator)(nil)

func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{size: size}
}

func (g *Generator) Generate(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
