package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
)

// RecordPayload is the wire form of a stored ledger row.
type RecordPayload struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// TransactionAppendedMessage announces that one record was appended to the
// primary ledger store. EventID is unique per publish so consumers can spot
// redeliveries in their logs.
type TransactionAppendedMessage struct {
	EventID   string        `json:"event_id"`
	Record    RecordPayload `json:"record"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewTransactionAppendedMessage creates a message for r with a fresh event id.
func NewTransactionAppendedMessage(r core.Record) *TransactionAppendedMessage {
	return &TransactionAppendedMessage{
		EventID: uuid.NewString(),
		Record: RecordPayload{
			Date:        r.Date,
			Amount:      r.Amount,
			Category:    r.Category,
			Description: r.Description,
		},
		Timestamp: time.Now(),
	}
}

// CoreRecord returns the carried record.
func (m *TransactionAppendedMessage) CoreRecord() core.Record {
	return core.Record{
		Date:        m.Record.Date,
		Amount:      m.Record.Amount,
		Category:    m.Record.Category,
		Description: m.Record.Description,
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionAppendedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionAppendedMessageFromJSON decodes a message. A body without an
// event id is rejected.
func TransactionAppendedMessageFromJSON(data []byte) (*TransactionAppendedMessage, error) {
	var msg TransactionAppendedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.EventID == "" {
		return nil, errMissingEventID
	}
	return &msg, nil
}
