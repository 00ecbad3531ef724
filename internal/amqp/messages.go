package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrEmptyTransactionID = errors.New("message transaction id cannot be empty")

// CategoryAppliedMessage announces that a category was applied to a
// transaction. The worker consumes these to build the audit trail.
type CategoryAppliedMessage struct {
	TransactionID string    `json:"transaction_id"`
	Category      string    `json:"category"`
	Confidence    float64   `json:"confidence"`
	Auto          bool      `json:"auto"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewCategoryAppliedMessage creates a message stamped with the current time
func NewCategoryAppliedMessage(txID, category string, confidence float64, auto bool) *CategoryAppliedMessage {
	return &CategoryAppliedMessage{
		TransactionID: txID,
		Category:      category,
		Confidence:    confidence,
		Auto:          auto,
		Timestamp:     time.Now(),
	}
}

// Validate checks the message carries the required identifiers
func (m *CategoryAppliedMessage) Validate() error {
	if m.TransactionID == "" {
		return ErrEmptyTransactionID
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *CategoryAppliedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CategoryAppliedMessageFromJSON creates a message from JSON bytes
func CategoryAppliedMessageFromJSON(data []byte) (*CategoryAppliedMessage, error) {
	var msg CategoryAppliedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
