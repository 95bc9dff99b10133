package entity

import "time"

// RequestStatus is the lifecycle status of a work request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

var validRequestStatuses = map[RequestStatus]bool{
	RequestPending:  true,
	RequestAccepted: true,
	RequestRejected: true,
}

// IsValid returns true if the status is a known request status
func (s RequestStatus) IsValid() bool {
	return validRequestStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed from this status
func (s RequestStatus) IsTerminal() bool {
	return s == RequestAccepted || s == RequestRejected
}

// String returns the string representation of the status
func (s RequestStatus) String() string {
	return string(s)
}

// Request is a client's proposal for driveway work
type Request struct {
	ID              int64         `json:"id"`
	ClientID        string        `json:"client_id"`
	PropertyAddress string        `json:"property_address"`
	SquareFeet      float64       `json:"square_feet"`
	ProposedPrice   float64       `json:"proposed_price"`
	Note            string        `json:"note,omitempty"`
	Status          RequestStatus `json:"status"`
	PhotoRefs       []string      `json:"photo_refs,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
