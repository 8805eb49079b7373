package websocket

import (
	"encoding/json"

	"renaix/internal/domain/entity"
	"renaix/pkg/logger"
)

// Publish pushes domain events to the connected recipients. Events without a
// recipient go to the moderator channel. Delivery never blocks the caller and
// failures are only logged; the operation that produced the event has already
// committed.
func (m *Manager) Publish(events ...entity.Event) {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			logger.Error("Failed to marshal event %s: %v", event.Type, err)
			continue
		}

		if event.RecipientID == "" {
			m.SendToModerators(payload)
			continue
		}
		m.SendToUser(event.RecipientID, payload)
	}
}
