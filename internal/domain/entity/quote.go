package entity

import "time"

// QuoteStatus is the lifecycle status of a quote
type QuoteStatus string

// A client walking away from a quote closes it; there is no separate
// rejected status.
const (
	QuotePending     QuoteStatus = "pending"
	QuoteNegotiating QuoteStatus = "negotiating"
	QuoteRevised     QuoteStatus = "revised"
	QuoteAccepted    QuoteStatus = "accepted"
	QuoteClosed      QuoteStatus = "closed"
)

var validQuoteStatuses = map[QuoteStatus]bool{
	QuotePending:     true,
	QuoteNegotiating: true,
	QuoteRevised:     true,
	QuoteAccepted:    true,
	QuoteClosed:      true,
}

// IsValid returns true if the status is a known quote status
func (s QuoteStatus) IsValid() bool {
	return validQuoteStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed from this status
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteAccepted || s == QuoteClosed
}

// String returns the string representation of the status
func (s QuoteStatus) String() string {
	return string(s)
}

// Quote is the business's priced, time-windowed offer for one Request.
// The id is allocator-assigned from a short numeric space so it stays
// readable on paper invoices.
type Quote struct {
	ID           int64       `json:"id"`
	RequestID    int64       `json:"request_id"`
	CounterPrice float64     `json:"counter_price"`
	WorkStart    time.Time   `json:"work_start"`
	WorkEnd      time.Time   `json:"work_end"`
	Status       QuoteStatus `json:"status"`
	Note         string      `json:"note,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
