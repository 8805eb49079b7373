package entity

import (
	"strings"
	"time"

	"renaix/pkg/errors"
)

// Tag is a normalized label attached to products (max 5 per product).
type Tag struct {
	ID        string    `json:"id" firestore:"id"`
	Name      string    `json:"name" firestore:"name"`
	Active    bool      `json:"active" firestore:"active"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// NormalizeTagName lowercases, trims and collapses inner whitespace so the
// same label always resolves to the same tag.
func NormalizeTagName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(normalized), " ")
}

func ValidateTagName(name string) error {
	if len(name) < 2 {
		return errors.BadRequest("Tag name must be at least 2 characters", nil)
	}
	if len(name) > 30 {
		return errors.BadRequest("Tag name cannot exceed 30 characters", nil)
	}
	return nil
}
