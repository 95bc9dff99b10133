package service

import (
	"context"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
	"github.com/dsmith-sealing/driveway-mgmt/pkg/utils"
)

// BillingService manages the Order and Bill lifecycles
type BillingService interface {
	// CreateBill bills an order: the bill insert and the order's move to
	// billed commit together
	CreateBill(ctx context.Context, orderID int64, amountDue float64) (*entity.Bill, error)

	// DisputeBill flags a pending bill as disputed with the client's reason
	DisputeBill(ctx context.Context, billID int64, note string) (*entity.Bill, error)

	// RespondToDispute revises the amount and reopens the bill for payment
	RespondToDispute(ctx context.Context, billID int64, newAmount float64, note string) (*entity.Bill, error)

	// PayBill settles a pending bill; paid is terminal
	PayBill(ctx context.Context, billID int64) (*entity.Bill, error)

	GetOrder(ctx context.Context, id int64) (*entity.Order, error)
	ListOrders(ctx context.Context, status entity.OrderStatus, limit, offset int) ([]*entity.Order, error)
	GetBill(ctx context.Context, id int64) (*entity.Bill, error)
	ListBills(ctx context.Context, status entity.BillStatus, limit, offset int) ([]*entity.Bill, error)
}

type billingServiceImpl struct {
	orderRepo port.OrderRepository
	billRepo  port.BillRepository
	allocator port.IDAllocator
	txManager port.TransactionManager
	logger    Logger
}

// NewBillingService creates a new BillingService
func NewBillingService(
	orderRepo port.OrderRepository,
	billRepo port.BillRepository,
	allocator port.IDAllocator,
	txManager port.TransactionManager,
	logger Logger,
) BillingService {
	return &billingServiceImpl{
		orderRepo: orderRepo,
		billRepo:  billRepo,
		allocator: allocator,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateBill allocates a bill id, inserts the bill and moves the order to
// billed, all in one transaction. An order is never observable as billed
// without its bill, or the reverse.
func (s *billingServiceImpl) CreateBill(ctx context.Context, orderID int64, amountDue float64) (*entity.Bill, error) {
	if err := utils.ValidatePositiveAmount("amount due", amountDue); err != nil {
		return nil, workflow.InvalidInputf("%v", err)
	}

	var bill *entity.Bill
	err := withConflictRetry(ctx, func() error {
		return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			order, err := s.orderRepo.GetByID(txCtx, orderID)
			if err != nil {
				return err
			}
			if order == nil {
				return workflow.NotFoundf("order", orderID)
			}

			if _, err := workflow.NextOrderStatus(order.Status, workflow.OpCreateBill); err != nil {
				return err
			}

			updated, err := s.orderRepo.UpdateStatusFrom(txCtx, order.ID,
				entity.OrderPending, entity.OrderBilled)
			if err != nil {
				return err
			}
			if !updated {
				return workflow.InvalidTransitionf("order", order.Status, workflow.OpCreateBill)
			}

			id, err := s.allocator.Allocate(txCtx, port.IDKindBill)
			if err != nil {
				return err
			}

			bill = &entity.Bill{
				ID:        id,
				OrderID:   order.ID,
				AmountDue: amountDue,
				Status:    entity.BillPending,
			}
			return s.billRepo.Create(txCtx, bill)
		})
	})
	if err != nil {
		s.logger.Error("Failed to create bill", "error", err, "order_id", orderID)
		return nil, err
	}

	s.logger.Info("Bill created", "bill_id", bill.ID, "order_id", orderID)
	return bill, nil
}

// DisputeBill flags a pending bill as disputed
func (s *billingServiceImpl) DisputeBill(ctx context.Context, billID int64, note string) (*entity.Bill, error) {
	return s.transition(ctx, billID, workflow.OpDisputeBill, func(txCtx context.Context, bill *entity.Bill) (bool, error) {
		updated, err := s.billRepo.UpdateStatusFrom(txCtx, bill.ID,
			entity.BillPending, entity.BillDisputed, note)
		if updated {
			bill.Status = entity.BillDisputed
			bill.Note = note
		}
		return updated, err
	})
}

// RespondToDispute revises amount_due and reopens the bill for payment,
// the billing analogue of a quote revision
func (s *billingServiceImpl) RespondToDispute(ctx context.Context, billID int64, newAmount float64, note string) (*entity.Bill, error) {
	if err := utils.ValidatePositiveAmount("amount due", newAmount); err != nil {
		return nil, workflow.InvalidInputf("%v", err)
	}

	return s.transition(ctx, billID, workflow.OpRespondToDispute, func(txCtx context.Context, bill *entity.Bill) (bool, error) {
		updated, err := s.billRepo.ReviseAmountFrom(txCtx, bill.ID,
			entity.BillDisputed, entity.BillPending, newAmount, note)
		if updated {
			bill.Status = entity.BillPending
			bill.AmountDue = newAmount
			bill.Note = note
		}
		return updated, err
	})
}

// PayBill settles a pending bill
func (s *billingServiceImpl) PayBill(ctx context.Context, billID int64) (*entity.Bill, error) {
	paidAt := time.Now()
	return s.transition(ctx, billID, workflow.OpPayBill, func(txCtx context.Context, bill *entity.Bill) (bool, error) {
		updated, err := s.billRepo.MarkPaid(txCtx, bill.ID, paidAt)
		if updated {
			bill.Status = entity.BillPaid
			bill.PaidAt = &paidAt
		}
		return updated, err
	})
}

// transition runs one guarded bill transition inside a transaction: read,
// check the table, apply the guarded update, and fold a missed guard into
// InvalidTransition naming the current status.
func (s *billingServiceImpl) transition(
	ctx context.Context,
	billID int64,
	op workflow.Operation,
	apply func(ctx context.Context, bill *entity.Bill) (bool, error),
) (*entity.Bill, error) {
	var bill *entity.Bill
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.billRepo.GetByID(txCtx, billID)
		if err != nil {
			return err
		}
		if current == nil {
			return workflow.NotFoundf("bill", billID)
		}

		if _, err := workflow.NextBillStatus(current.Status, op); err != nil {
			return err
		}

		updated, err := apply(txCtx, current)
		if err != nil {
			return err
		}
		if !updated {
			// A concurrent caller advanced the bill after our read;
			// re-read so the error names the status it actually holds.
			if latest, lerr := s.billRepo.GetByID(txCtx, billID); lerr == nil && latest != nil {
				current = latest
			}
			return workflow.InvalidTransitionf("bill", current.Status, op)
		}
		bill = current
		return nil
	})
	if err != nil {
		s.logger.Error("Bill transition failed", "error", err,
			"bill_id", billID, "operation", op.String())
		return nil, err
	}

	s.logger.Info("Bill transition applied",
		"bill_id", billID, "operation", op.String(), "status", bill.Status.String())
	return bill, nil
}

// GetOrder retrieves an order by id
func (s *billingServiceImpl) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, workflow.NotFoundf("order", id)
	}
	return order, nil
}

// ListOrders retrieves orders filtered by status
func (s *billingServiceImpl) ListOrders(ctx context.Context, status entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	return s.orderRepo.List(ctx, status, limit, offset)
}

// GetBill retrieves a bill by id
func (s *billingServiceImpl) GetBill(ctx context.Context, id int64) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, workflow.NotFoundf("bill", id)
	}
	return bill, nil
}

// ListBills retrieves bills filtered by status
func (s *billingServiceImpl) ListBills(ctx context.Context, status entity.BillStatus, limit, offset int) ([]*entity.Bill, error) {
	return s.billRepo.List(ctx, status, limit, offset)
}
