package amqp

import (
	"encoding/json"
	"time"
)

// ReportRefreshMessage tells report servers that imported data changed and
// cached reports must be rebuilt. It carries only batch metadata; consumers
// refetch rows from their own source.
type ReportRefreshMessage struct {
	BatchID   string    `json:"batch_id"`
	Table     string    `json:"table"`
	Rows      int       `json:"rows"`
	MinDate   string    `json:"min_date,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportRefreshMessage creates a refresh message for one imported table.
func NewReportRefreshMessage(batchID, table string, rows int, minDate string) *ReportRefreshMessage {
	return &ReportRefreshMessage{
		BatchID:   batchID,
		Table:     table,
		Rows:      rows,
		MinDate:   minDate,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRefreshMessageFromJSON creates a message from JSON bytes
func ReportRefreshMessageFromJSON(data []byte) (*ReportRefreshMessage, error) {
	var msg ReportRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
