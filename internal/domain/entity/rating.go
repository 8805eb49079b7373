package entity

import "time"

type RatingDirection string

const (
	RatingBuyerToSeller RatingDirection = "buyer_to_seller"
	RatingSellerToBuyer RatingDirection = "seller_to_buyer"
)

// Rating is one party's score for the counterparty of a completed purchase.
// At most one rating exists per (purchase, direction).
type Rating struct {
	ID         string          `json:"id" firestore:"id"`
	PurchaseID string          `json:"purchase_id" firestore:"purchaseId"`
	Direction  RatingDirection `json:"direction" firestore:"direction"`
	RaterID    string          `json:"rater_id" firestore:"raterId"`
	RateeID    string          `json:"ratee_id" firestore:"rateeId"`
	Score      int             `json:"score" firestore:"score"` // 1-5
	Comment    string          `json:"comment,omitempty" firestore:"comment,omitempty"`
	CreatedAt  time.Time       `json:"created_at" firestore:"createdAt"`
}

// RatingStatus is the derived completion tracker for a purchase. Both flags
// are pure functions of rating existence.
type RatingStatus struct {
	PurchaseID  string `json:"purchase_id"`
	BuyerRated  bool   `json:"buyer_rated"`
	SellerRated bool   `json:"seller_rated"`
}
