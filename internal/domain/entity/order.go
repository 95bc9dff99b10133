package entity

import "time"

// OrderStatus is the lifecycle status of a work order
type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderBilled  OrderStatus = "billed"
)

var validOrderStatuses = map[OrderStatus]bool{
	OrderPending: true,
	OrderBilled:  true,
}

// IsValid returns true if the status is a known order status
func (s OrderStatus) IsValid() bool {
	return validOrderStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed from this status
func (s OrderStatus) IsTerminal() bool {
	return s == OrderBilled
}

// String returns the string representation of the status
func (s OrderStatus) String() string {
	return string(s)
}

// Order is confirmed, scheduled work created when a Quote is accepted.
// Exactly one Order exists per accepted Quote.
type Order struct {
	ID         int64       `json:"id"`
	QuoteID    int64       `json:"quote_id"`
	WorkStart  time.Time   `json:"work_start"`
	WorkEnd    time.Time   `json:"work_end"`
	FinalPrice float64     `json:"final_price"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}
