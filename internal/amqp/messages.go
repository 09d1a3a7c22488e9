package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEntrySyncMessage asks the export worker to push one ledger entry
// to the spreadsheet. It carries only the id; the worker fetches the full
// transaction from the domain store.
type LedgerEntrySyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEntrySyncMessage creates a sync message for the given entry id.
func NewLedgerEntrySyncMessage(id int64) *LedgerEntrySyncMessage {
	return &LedgerEntrySyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEntrySyncMessageFromJSON creates a message from JSON bytes
func LedgerEntrySyncMessageFromJSON(data []byte) (*LedgerEntrySyncMessage, error) {
	var msg LedgerEntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
