package entity

import (
	"time"
)

type PurchaseState string

const (
	PurchaseStatePending   PurchaseState = "pending"
	PurchaseStateConfirmed PurchaseState = "confirmed"
	PurchaseStateCompleted PurchaseState = "completed"
	PurchaseStateCancelled PurchaseState = "cancelled"
)

// Active reports whether the purchase still holds the product.
func (s PurchaseState) Active() bool {
	return s == PurchaseStatePending || s == PurchaseStateConfirmed
}

type Purchase struct {
	ID        string `json:"id" firestore:"id"`
	Code      string `json:"code" firestore:"code"`
	ProductID string `json:"product_id" firestore:"productId"`
	BuyerID   string `json:"buyer_id" firestore:"buyerId"`
	// SellerID is snapshotted from the product owner when the purchase opens.
	SellerID string        `json:"seller_id" firestore:"sellerId"`
	Price    float64       `json:"price" firestore:"price"`
	State    PurchaseState `json:"state" firestore:"state"`
	Notes    string        `json:"notes,omitempty" firestore:"notes,omitempty"`

	CancellationReason string `json:"cancellation_reason,omitempty" firestore:"cancellationReason,omitempty"`

	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" firestore:"confirmedAt,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" firestore:"cancelledAt,omitempty"`
}

type PurchaseLog struct {
	ID         string        `json:"id" firestore:"id"`
	PurchaseID string        `json:"purchase_id" firestore:"purchaseId"`
	State      PurchaseState `json:"state" firestore:"state"`
	Notes      string        `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedBy  string        `json:"created_by" firestore:"createdBy"`
	CreatedAt  time.Time     `json:"created_at" firestore:"createdAt"`
}
