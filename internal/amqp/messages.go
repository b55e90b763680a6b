package amqp

import (
	"encoding/json"
	"time"

	"tracker/internal/core"
)

// EventKind names the store mutation an event describes.
type EventKind string

const (
	EventPrepended EventKind = "prepended"
	EventReplaced  EventKind = "replaced"
	EventClosed    EventKind = "closed"
)

// TransactionEvent describes one mutation of a session store. Prepended
// events carry the new record, replaced events carry the whole collection.
type TransactionEvent struct {
	Kind         EventKind          `json:"kind"`
	SessionID    string             `json:"session_id"`
	Version      uint64             `json:"version"`
	Transaction  *core.Transaction  `json:"transaction,omitempty"`
	Transactions []core.Transaction `json:"transactions,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}

// NewPrependedEvent creates an event for a single prepended record.
func NewPrependedEvent(sessionID string, version uint64, tx core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Kind:        EventPrepended,
		SessionID:   sessionID,
		Version:     version,
		Transaction: &tx,
		Timestamp:   time.Now(),
	}
}

// NewReplacedEvent creates an event carrying the full replacement list.
func NewReplacedEvent(sessionID string, version uint64, txs []core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Kind:         EventReplaced,
		SessionID:    sessionID,
		Version:      version,
		Transactions: append([]core.Transaction{}, txs...),
		Timestamp:    time.Now(),
	}
}

// NewClosedEvent signals that a session and its store are gone.
func NewClosedEvent(sessionID string) *TransactionEvent {
	return &TransactionEvent{
		Kind:      EventClosed,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON creates an event from JSON bytes
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
