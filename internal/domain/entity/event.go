package entity

import "time"

type EventType string

const (
	EventPurchaseOpened    EventType = "purchase_opened"
	EventPurchaseConfirmed EventType = "purchase_confirmed"
	EventPurchaseCompleted EventType = "purchase_completed"
	EventPurchaseCancelled EventType = "purchase_cancelled"
	EventRatingRequested   EventType = "rating_requested"
	EventRatingReceived    EventType = "rating_received"
	EventMessageReceived   EventType = "message_received"
	EventOfferReceived     EventType = "offer_received"
	EventOfferAnswered     EventType = "offer_answered"
	EventReportFiled       EventType = "report_filed"
	EventReportResolved    EventType = "report_resolved"
)

// Event is a domain event produced by a mutating operation. The core returns
// events alongside results and never blocks on their delivery; the caller
// decides how to dispatch them.
type Event struct {
	Type        EventType              `json:"type"`
	RecipientID string                 `json:"recipient_id"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

func NewEvent(eventType EventType, recipientID string, payload map[string]interface{}) Event {
	return Event{
		Type:        eventType,
		RecipientID: recipientID,
		Payload:     payload,
		OccurredAt:  time.Now(),
	}
}
