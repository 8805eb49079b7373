package entity

import "time"

// Comment is a public note left on a product listing.
type Comment struct {
	ID        string     `json:"id" firestore:"id"`
	ProductID string     `json:"product_id" firestore:"productId"`
	AuthorID  string     `json:"author_id" firestore:"authorId"`
	Body      string     `json:"body" firestore:"body"`
	Active    bool       `json:"active" firestore:"active"`
	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
}
