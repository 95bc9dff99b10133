// Package port defines the interfaces between the workflow engine and its
// collaborators: the transactional entity store, the identifier allocator
// and the read-only reporting queries.
package port

import (
	"context"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
)

// TransactionManager scopes a function to one database transaction.
// Every multi-row transition in the engine runs through it; nested calls
// join the enclosing transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IDKind selects the identifier space to allocate from
type IDKind string

const (
	IDKindQuote IDKind = "quote"
	IDKindBill  IDKind = "bill"
)

// IDAllocator hands out collision-free identifiers. Allocate must be called
// inside the transaction that performs the subsequent insert so the
// existence check and the insert share one lock scope.
type IDAllocator interface {
	// Allocate returns a free id from the short numeric space for the kind
	Allocate(ctx context.Context, kind IDKind) (int64, error)

	// AllocateClientID returns a free 5-character alphanumeric client id
	AllocateClientID(ctx context.Context) (string, error)
}

// RequestRepository defines persistence operations for Request
type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	GetByID(ctx context.Context, id int64) (*entity.Request, error)

	// FindRecentDuplicate returns a request by the same client with identical
	// address, square footage and proposed price created at or after since,
	// or nil if none exists
	FindRecentDuplicate(ctx context.Context, clientID, address string, squareFeet, proposedPrice float64, since time.Time) (*entity.Request, error)

	// UpdateStatusFrom transitions the request's status only if it currently
	// equals from, and stores the note. Returns false if no row matched.
	UpdateStatusFrom(ctx context.Context, id int64, from, to entity.RequestStatus, note string) (bool, error)

	List(ctx context.Context, status entity.RequestStatus, limit, offset int) ([]*entity.Request, error)
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Request, error)
}

// QuoteRepository defines persistence operations for Quote
type QuoteRepository interface {
	// Create inserts a quote whose id was preassigned by the allocator.
	// A duplicate id surfaces as ErrConflictRetry.
	Create(ctx context.Context, quote *entity.Quote) error

	GetByID(ctx context.Context, id int64) (*entity.Quote, error)
	Exists(ctx context.Context, id int64) (bool, error)

	// CountActiveByRequest counts this request's quotes that are not closed
	CountActiveByRequest(ctx context.Context, requestID int64) (int, error)

	// UpdateStatusFrom transitions the quote's status only if the current
	// status is one of from. Returns false if no row matched.
	UpdateStatusFrom(ctx context.Context, id int64, from []entity.QuoteStatus, to entity.QuoteStatus, note string) (bool, error)

	// UpdateProposal overwrites price, work window and note together with the
	// status, guarded the same way as UpdateStatusFrom
	UpdateProposal(ctx context.Context, id int64, from []entity.QuoteStatus, to entity.QuoteStatus, price float64, start, end time.Time, note string) (bool, error)

	List(ctx context.Context, status entity.QuoteStatus, limit, offset int) ([]*entity.Quote, error)
}

// OrderRepository defines persistence operations for Order
type OrderRepository interface {
	// Create inserts an order. A second order for the same quote surfaces as
	// ErrConflictRetry (unique constraint on quote_id).
	Create(ctx context.Context, order *entity.Order) error

	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	GetByQuoteID(ctx context.Context, quoteID int64) (*entity.Order, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to entity.OrderStatus) (bool, error)
	List(ctx context.Context, status entity.OrderStatus, limit, offset int) ([]*entity.Order, error)
}

// BillRepository defines persistence operations for Bill
type BillRepository interface {
	// Create inserts a bill whose id was preassigned by the allocator
	Create(ctx context.Context, bill *entity.Bill) error

	GetByID(ctx context.Context, id int64) (*entity.Bill, error)
	Exists(ctx context.Context, id int64) (bool, error)
	GetByOrderID(ctx context.Context, orderID int64) (*entity.Bill, error)

	UpdateStatusFrom(ctx context.Context, id int64, from, to entity.BillStatus, note string) (bool, error)

	// ReviseAmountFrom updates amount_due and note while returning the bill
	// to the target status, guarded on the current status
	ReviseAmountFrom(ctx context.Context, id int64, from, to entity.BillStatus, amount float64, note string) (bool, error)

	// MarkPaid transitions a pending bill to paid and records the payment time
	MarkPaid(ctx context.Context, id int64, paidAt time.Time) (bool, error)

	List(ctx context.Context, status entity.BillStatus, limit, offset int) ([]*entity.Bill, error)
}

// ClientRepository defines persistence operations for Client
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Exists(ctx context.Context, id string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*entity.Client, error)
}

// RevenueReport aggregates paid bills over a date range
type RevenueReport struct {
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	BillCount int             `json:"bill_count"`
	Total     float64         `json:"total"`
	ByClient  []ClientRevenue `json:"by_client"`
}

// ClientRevenue is one client's share of a revenue report
type ClientRevenue struct {
	ClientID  string  `json:"client_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	BillCount int     `json:"bill_count"`
	Total     float64 `json:"total"`
}

// ClientVolume ranks a client by completed orders
type ClientVolume struct {
	ClientID   string  `json:"client_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	OrderCount int     `json:"order_count"`
	TotalPaid  float64 `json:"total_paid"`
}

// ReportRepository defines the read-only aggregation queries behind the
// reporting facade. These run outside any transaction and take no locks.
type ReportRepository interface {
	Revenue(ctx context.Context, start, end time.Time) (*RevenueReport, error)
	OverdueBills(ctx context.Context, createdBefore time.Time) ([]*entity.Bill, error)
	TopClients(ctx context.Context, limit int) ([]ClientVolume, error)
}
