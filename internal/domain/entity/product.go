package entity

import (
	"time"
)

// SaleState is the availability lifecycle of a product. Transitions are owned
// exclusively by the product ledger; nothing else writes this field.
type SaleState string

const (
	SaleStateDraft     SaleState = "draft"
	SaleStateAvailable SaleState = "available"
	SaleStateReserved  SaleState = "reserved"
	SaleStateSold      SaleState = "sold"
	SaleStateRemoved   SaleState = "removed"
)

// Condition is the physical condition tag of a secondhand product.
type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionLikeNew     Condition = "like_new"
	ConditionGood        Condition = "good"
	ConditionFair        Condition = "fair"
	ConditionNeedsRepair Condition = "needs_repair"
)

type ProductImage struct {
	ID           string `json:"id" firestore:"id"`
	URL          string `json:"url" firestore:"url"`
	Primary      bool   `json:"primary" firestore:"primary"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

type Product struct {
	ID          string         `json:"id" firestore:"id"`
	SellerID    string         `json:"seller_id" firestore:"sellerId"`
	Title       string         `json:"title" firestore:"title"`
	Description string         `json:"description,omitempty" firestore:"description,omitempty"`
	Price       float64        `json:"price" firestore:"price"`
	Condition   Condition      `json:"condition" firestore:"condition"`
	AgeNote     string         `json:"age_note,omitempty" firestore:"ageNote,omitempty"` // e.g. "6 months", "2 years"
	Location    string         `json:"location,omitempty" firestore:"location,omitempty"`
	SaleState   SaleState      `json:"sale_state" firestore:"saleState"`
	CategoryID  string         `json:"category_id" firestore:"categoryId"`
	TagIDs      []string       `json:"tag_ids,omitempty" firestore:"tagIds,omitempty"`
	Images      []ProductImage `json:"images" firestore:"images"`
	PurchaseID  string         `json:"purchase_id,omitempty" firestore:"purchaseId,omitempty"` // set when sold

	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
	PublishedAt *time.Time `json:"published_at,omitempty" firestore:"publishedAt,omitempty"`
	RemovedAt   *time.Time `json:"removed_at,omitempty" firestore:"removedAt,omitempty"`
}

const (
	MaxProductTags   = 5
	MaxProductImages = 10
)

// Purchasable reports whether a purchase may be opened against the product.
func (p *Product) Purchasable() bool {
	return p.SaleState == SaleStateAvailable || p.SaleState == SaleStateReserved
}
