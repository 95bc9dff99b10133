package entity

import "time"

// BillStatus is the lifecycle status of a bill
type BillStatus string

const (
	BillPending  BillStatus = "pending"
	BillDisputed BillStatus = "disputed"
	BillPaid     BillStatus = "paid"
)

var validBillStatuses = map[BillStatus]bool{
	BillPending:  true,
	BillDisputed: true,
	BillPaid:     true,
}

// IsValid returns true if the status is a known bill status
func (s BillStatus) IsValid() bool {
	return validBillStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed from this status
func (s BillStatus) IsTerminal() bool {
	return s == BillPaid
}

// String returns the string representation of the status
func (s BillStatus) String() string {
	return string(s)
}

// Bill is an invoice for a billed Order. The id is allocator-assigned from
// the same short numeric space as Quote ids. Note carries the latest dispute
// reason or dispute response.
type Bill struct {
	ID        int64      `json:"id"`
	OrderID   int64      `json:"order_id"`
	AmountDue float64    `json:"amount_due"`
	Status    BillStatus `json:"status"`
	Note      string     `json:"note,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
