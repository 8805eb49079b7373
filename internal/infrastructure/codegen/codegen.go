package codegen

import (
	"strings"

	"github.com/google/uuid"
)

// PurchaseCodeGenerator issues the short human-readable codes printed on
// purchase confirmations, e.g. "REN-3F9A01BC".
type PurchaseCodeGenerator struct{}

func NewPurchaseCodeGenerator() *PurchaseCodeGenerator {
	return &PurchaseCodeGenerator{}
}

func (g *PurchaseCodeGenerator) NextPurchaseCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "REN-" + strings.ToUpper(raw[:8])
}
