package service

import (
	"context"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
)

// Mock repositories

type mockRequestRepo struct {
	createFunc              func(ctx context.Context, request *entity.Request) error
	getByIDFunc             func(ctx context.Context, id int64) (*entity.Request, error)
	findRecentDuplicateFunc func(ctx context.Context, clientID, address string, squareFeet, proposedPrice float64, since time.Time) (*entity.Request, error)
	updateStatusFromFunc    func(ctx context.Context, id int64, from, to entity.RequestStatus, note string) (bool, error)
	listFunc                func(ctx context.Context, status entity.RequestStatus, limit, offset int) ([]*entity.Request, error)
	listByClientFunc        func(ctx context.Context, clientID string, limit, offset int) ([]*entity.Request, error)
}

func (m *mockRequestRepo) Create(ctx context.Context, request *entity.Request) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, request)
	}
	request.ID = 1
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id int64) (*entity.Request, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Request{ID: id, ClientID: "AB12c", Status: entity.RequestPending}, nil
}

func (m *mockRequestRepo) FindRecentDuplicate(ctx context.Context, clientID, address string, squareFeet, proposedPrice float64, since time.Time) (*entity.Request, error) {
	if m.findRecentDuplicateFunc != nil {
		return m.findRecentDuplicateFunc(ctx, clientID, address, squareFeet, proposedPrice, since)
	}
	return nil, nil
}

func (m *mockRequestRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to entity.RequestStatus, note string) (bool, error) {
	if m.updateStatusFromFunc != nil {
		return m.updateStatusFromFunc(ctx, id, from, to, note)
	}
	return true, nil
}

func (m *mockRequestRepo) List(ctx context.Context, status entity.RequestStatus, limit, offset int) ([]*entity.Request, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, status, limit, offset)
	}
	return []*entity.Request{}, nil
}

func (m *mockRequestRepo) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*entity.Request, error) {
	if m.listByClientFunc != nil {
		return m.listByClientFunc(ctx, clientID, limit, offset)
	}
	return []*entity.Request{}, nil
}

type mockQuoteRepo struct {
	createFunc               func(ctx context.Context, quote *entity.Quote) error
	getByIDFunc              func(ctx context.Context, id int64) (*entity.Quote, error)
	existsFunc               func(ctx context.Context, id int64) (bool, error)
	countActiveByRequestFunc func(ctx context.Context, requestID int64) (int, error)
	updateStatusFromFunc     func(ctx context.Context, id int64, from []entity.QuoteStatus, to entity.QuoteStatus, note string) (bool, error)
	updateProposalFunc       func(ctx context.Context, id int64, from []entity.QuoteStatus, to entity.QuoteStatus, price float64, start, end time.Time, note string) (bool, error)
	listFunc                 func(ctx context.Context, status entity.QuoteStatus, limit, offset int) ([]*entity.Quote, error)
}

func (m *mockQuoteRepo) Create(ctx context.Context, quote *entity.Quote) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, quote)
	}
	return nil
}

func (m *mockQuoteRepo) GetByID(ctx context.Context, id int64) (*entity.Quote, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Quote{ID: id, RequestID: 1, Status: entity.QuotePending}, nil
}

func (m *mockQuoteRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, id)
	}
	return false, nil
}

func (m *mockQuoteRepo) CountActiveByRequest(ctx context.Context, requestID int64) (int, error) {
	if m.countActiveByRequestFunc != nil {
		return m.countActiveByRequestFunc(ctx, requestID)
	}
	return 0, nil
}

func (m *mockQuoteRepo) UpdateStatusFrom(ctx context.Context, id int64, from []entity.QuoteStatus, to entity.QuoteStatus, note string) (bool, error) {
	if m.updateStatusFromFunc != nil {
		return m.updateStatusFromFunc(ctx, id, from, to, note)
	}
	return true, nil
}

func (m *mockQuoteRepo) UpdateProposal(ctx context.Context, id int64, from []entity.QuoteStatus, to entity.QuoteStatus, price float64, start, end time.Time, note string) (bool, error) {
	if m.updateProposalFunc != nil {
		return m.updateProposalFunc(ctx, id, from, to, price, start, end, note)
	}
	return true, nil
}

func (m *mockQuoteRepo) List(ctx context.Context, status entity.QuoteStatus, limit, offset int) ([]*entity.Quote, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, status, limit, offset)
	}
	return []*entity.Quote{}, nil
}

type mockOrderRepo struct {
	createFunc           func(ctx context.Context, order *entity.Order) error
	getByIDFunc          func(ctx context.Context, id int64) (*entity.Order, error)
	getByQuoteIDFunc     func(ctx context.Context, quoteID int64) (*entity.Order, error)
	updateStatusFromFunc func(ctx context.Context, id int64, from, to entity.OrderStatus) (bool, error)
	listFunc             func(ctx context.Context, status entity.OrderStatus, limit, offset int) ([]*entity.Order, error)
}

func (m *mockOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, order)
	}
	order.ID = 1
	return nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Order{ID: id, QuoteID: 101, Status: entity.OrderPending}, nil
}

func (m *mockOrderRepo) GetByQuoteID(ctx context.Context, quoteID int64) (*entity.Order, error) {
	if m.getByQuoteIDFunc != nil {
		return m.getByQuoteIDFunc(ctx, quoteID)
	}
	return nil, nil
}

func (m *mockOrderRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to entity.OrderStatus) (bool, error) {
	if m.updateStatusFromFunc != nil {
		return m.updateStatusFromFunc(ctx, id, from, to)
	}
	return true, nil
}

func (m *mockOrderRepo) List(ctx context.Context, status entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, status, limit, offset)
	}
	return []*entity.Order{}, nil
}

type mockBillRepo struct {
	createFunc           func(ctx context.Context, bill *entity.Bill) error
	getByIDFunc          func(ctx context.Context, id int64) (*entity.Bill, error)
	existsFunc           func(ctx context.Context, id int64) (bool, error)
	getByOrderIDFunc     func(ctx context.Context, orderID int64) (*entity.Bill, error)
	updateStatusFromFunc func(ctx context.Context, id int64, from, to entity.BillStatus, note string) (bool, error)
	reviseAmountFromFunc func(ctx context.Context, id int64, from, to entity.BillStatus, amount float64, note string) (bool, error)
	markPaidFunc         func(ctx context.Context, id int64, paidAt time.Time) (bool, error)
	listFunc             func(ctx context.Context, status entity.BillStatus, limit, offset int) ([]*entity.Bill, error)
}

func (m *mockBillRepo) Create(ctx context.Context, bill *entity.Bill) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, bill)
	}
	return nil
}

func (m *mockBillRepo) GetByID(ctx context.Context, id int64) (*entity.Bill, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Bill{ID: id, OrderID: 1, AmountDue: 500, Status: entity.BillPending}, nil
}

func (m *mockBillRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, id)
	}
	return false, nil
}

func (m *mockBillRepo) GetByOrderID(ctx context.Context, orderID int64) (*entity.Bill, error) {
	if m.getByOrderIDFunc != nil {
		return m.getByOrderIDFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *mockBillRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to entity.BillStatus, note string) (bool, error) {
	if m.updateStatusFromFunc != nil {
		return m.updateStatusFromFunc(ctx, id, from, to, note)
	}
	return true, nil
}

func (m *mockBillRepo) ReviseAmountFrom(ctx context.Context, id int64, from, to entity.BillStatus, amount float64, note string) (bool, error) {
	if m.reviseAmountFromFunc != nil {
		return m.reviseAmountFromFunc(ctx, id, from, to, amount, note)
	}
	return true, nil
}

func (m *mockBillRepo) MarkPaid(ctx context.Context, id int64, paidAt time.Time) (bool, error) {
	if m.markPaidFunc != nil {
		return m.markPaidFunc(ctx, id, paidAt)
	}
	return true, nil
}

func (m *mockBillRepo) List(ctx context.Context, status entity.BillStatus, limit, offset int) ([]*entity.Bill, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, status, limit, offset)
	}
	return []*entity.Bill{}, nil
}

type mockClientRepo struct {
	createFunc     func(ctx context.Context, client *entity.Client) error
	getByIDFunc    func(ctx context.Context, id string) (*entity.Client, error)
	existsFunc     func(ctx context.Context, id string) (bool, error)
	getByEmailFunc func(ctx context.Context, email string) (*entity.Client, error)
}

func (m *mockClientRepo) Create(ctx context.Context, client *entity.Client) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, client)
	}
	return nil
}

func (m *mockClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Client{ID: id, FirstName: "Dana", LastName: "Smith"}, nil
}

func (m *mockClientRepo) Exists(ctx context.Context, id string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, id)
	}
	return true, nil
}

func (m *mockClientRepo) GetByEmail(ctx context.Context, email string) (*entity.Client, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

type mockAllocator struct {
	allocateFunc         func(ctx context.Context, kind port.IDKind) (int64, error)
	allocateClientIDFunc func(ctx context.Context) (string, error)
}

func (m *mockAllocator) Allocate(ctx context.Context, kind port.IDKind) (int64, error) {
	if m.allocateFunc != nil {
		return m.allocateFunc(ctx, kind)
	}
	return 123, nil
}

func (m *mockAllocator) AllocateClientID(ctx context.Context) (string, error) {
	if m.allocateClientIDFunc != nil {
		return m.allocateClientIDFunc(ctx)
	}
	return "Xy9Qa", nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
