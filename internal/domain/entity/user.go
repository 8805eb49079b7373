package entity

import (
	"time"
)

type User struct {
	ID          string     `json:"id" firestore:"id"`
	Email       string     `json:"email" firestore:"email"`
	DisplayName string     `json:"display_name" firestore:"displayName"`
	Phone       string     `json:"phone,omitempty" firestore:"phone,omitempty"`
	Location    string     `json:"location,omitempty" firestore:"location,omitempty"`
	Bio         string     `json:"bio,omitempty" firestore:"bio,omitempty"`
	Role        string     `json:"role" firestore:"role"` // "user", "moderator"
	Active      bool       `json:"active" firestore:"active"`
	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
	LastSeenAt  *time.Time `json:"last_seen_at,omitempty" firestore:"lastSeenAt,omitempty"`
}

// UserStats is a derived read model. It is recomputed from products, purchases
// and ratings on demand, never stored as independently writable fields.
type UserStats struct {
	UserID        string  `json:"user_id"`
	Selling       int     `json:"selling"`
	Sold          int     `json:"sold"`
	Bought        int     `json:"bought"`
	RatingCount   int     `json:"rating_count"`
	AverageRating float64 `json:"average_rating"`
}
