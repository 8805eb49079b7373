package entity

import "time"

type MessageKind string

const (
	MessageKindText          MessageKind = "text"
	MessageKindOffer         MessageKind = "offer"
	MessageKindOfferAccepted MessageKind = "offer_accepted"
	MessageKindOfferRejected MessageKind = "offer_rejected"
	MessageKindCounterOffer  MessageKind = "counter_offer"
)

// IsOffer reports whether a message of this kind can be answered by an offer
// response. Counter offers are offers for protocol purposes.
func (k MessageKind) IsOffer() bool {
	return k == MessageKindOffer || k == MessageKindCounterOffer
}

// IsOfferResponse reports whether the kind must carry a reply reference.
func (k MessageKind) IsOfferResponse() bool {
	return k == MessageKindOfferAccepted || k == MessageKindOfferRejected || k == MessageKindCounterOffer
}

type Message struct {
	ID          string      `json:"id" firestore:"id"`
	ThreadKey   string      `json:"thread_key" firestore:"threadKey"`
	SenderID    string      `json:"sender_id" firestore:"senderId"`
	RecipientID string      `json:"recipient_id" firestore:"recipientId"`
	ProductID   string      `json:"product_id,omitempty" firestore:"productId,omitempty"`
	Body        string      `json:"body,omitempty" firestore:"body,omitempty"`
	Kind        MessageKind `json:"kind" firestore:"kind"`

	// Offer payload, set for offer and counter_offer kinds. OriginalPrice is
	// the product price snapshotted at the moment the offer was made.
	OfferedPrice  float64 `json:"offered_price,omitempty" firestore:"offeredPrice,omitempty"`
	OriginalPrice float64 `json:"original_price,omitempty" firestore:"originalPrice,omitempty"`

	// ReplyToID references the offer this message answers. It must point to a
	// message in the same thread.
	ReplyToID string `json:"reply_to_id,omitempty" firestore:"replyToId,omitempty"`

	Read      bool       `json:"read" firestore:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty" firestore:"readAt,omitempty"`
	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
}

// Thread is a read model over the messages between an unordered pair of
// users, optionally scoped to one product.
type Thread struct {
	Key           string    `json:"key"`
	Participants  []string  `json:"participants"`
	ProductID     string    `json:"product_id,omitempty"`
	LastMessage   string    `json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at"`
	Unread        int       `json:"unread"`
}
