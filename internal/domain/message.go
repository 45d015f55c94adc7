package domain

import "time"

type MessageKind string

const (
	MessageKindChat   MessageKind = "chat"
	MessageKindSystem MessageKind = "system"
)

type Message struct {
	ID           int32             `json:"id"`
	SenderID     *int32            `json:"sender_id,omitempty"` // nil for system notifications
	ReceiverID   int32             `json:"receiver_id"`
	Participants []int32           `json:"participants"`
	SenderRole   string            `json:"sender_role,omitempty"`
	ReceiverRole string            `json:"receiver_role,omitempty"`
	Text         string            `json:"text"`
	Kind         MessageKind       `json:"kind"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Involves reports whether userID is one of the message participants.
func (m *Message) Involves(userID int32) bool {
	for _, p := range m.Participants {
		if p == userID {
			return true
		}
	}
	return m.ReceiverID == userID
}
