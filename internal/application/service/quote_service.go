package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
	"github.com/dsmith-sealing/driveway-mgmt/pkg/utils"
)

// CounterProposalInput carries a new price and work window from either party
type CounterProposalInput struct {
	QuoteID int64
	Price   float64
	Start   time.Time
	End     time.Time
	Note    string
}

// AcceptQuoteInput finalizes a quote. Price and window default to the
// quote's current proposal when not supplied.
type AcceptQuoteInput struct {
	QuoteID    int64
	FinalPrice *float64
	WorkStart  *time.Time
	WorkEnd    *time.Time
}

// RequoteInput creates a fresh quote for an accepted request whose previous
// quotes were all closed
type RequoteInput struct {
	RequestID int64
	Price     float64
	Start     time.Time
	End       time.Time
	Note      string
}

// QuoteService manages the Quote lifecycle
type QuoteService interface {
	// Negotiate is the client's counter-proposal (pending or revised -> negotiating)
	Negotiate(ctx context.Context, input CounterProposalInput) (*entity.Quote, error)

	// Revise is the business's counter-proposal (negotiating -> revised)
	Revise(ctx context.Context, input CounterProposalInput) (*entity.Quote, error)

	// AcceptQuote finalizes the quote and creates its order atomically
	AcceptQuote(ctx context.Context, input AcceptQuoteInput) (*entity.Order, error)

	// CloseQuote terminates the quote from any non-terminal status
	CloseQuote(ctx context.Context, quoteID int64, note string) (*entity.Quote, error)

	// Requote issues a new quote for an accepted request with no active quote
	Requote(ctx context.Context, input RequoteInput) (*entity.Quote, error)

	GetQuote(ctx context.Context, id int64) (*entity.Quote, error)
	ListQuotes(ctx context.Context, status entity.QuoteStatus, limit, offset int) ([]*entity.Quote, error)
}

type quoteServiceImpl struct {
	quoteRepo   port.QuoteRepository
	orderRepo   port.OrderRepository
	requestRepo port.RequestRepository
	allocator   port.IDAllocator
	txManager   port.TransactionManager
	logger      Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo port.QuoteRepository,
	orderRepo port.OrderRepository,
	requestRepo port.RequestRepository,
	allocator port.IDAllocator,
	txManager port.TransactionManager,
	logger Logger,
) QuoteService {
	return &quoteServiceImpl{
		quoteRepo:   quoteRepo,
		orderRepo:   orderRepo,
		requestRepo: requestRepo,
		allocator:   allocator,
		txManager:   txManager,
		logger:      logger,
	}
}

// Negotiate applies the client's counter-proposal
func (s *quoteServiceImpl) Negotiate(ctx context.Context, input CounterProposalInput) (*entity.Quote, error) {
	return s.counterPropose(ctx, workflow.RoleClient, input)
}

// Revise applies the business's counter-proposal
func (s *quoteServiceImpl) Revise(ctx context.Context, input CounterProposalInput) (*entity.Quote, error) {
	return s.counterPropose(ctx, workflow.RoleBusiness, input)
}

// counterPropose is the shared primitive behind negotiate and revise: the
// same overwrite of price and window, with the target status resolved from
// the (role, current status) table.
func (s *quoteServiceImpl) counterPropose(ctx context.Context, role workflow.Role, input CounterProposalInput) (*entity.Quote, error) {
	if err := utils.ValidatePositiveAmount("price", input.Price); err != nil {
		return nil, workflow.InvalidInputf("%v", err)
	}
	if err := utils.ValidateWorkWindow(input.Start, input.End); err != nil {
		return nil, workflow.InvalidInputf("%v", err)
	}

	var quote *entity.Quote
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.quoteRepo.GetByID(txCtx, input.QuoteID)
		if err != nil {
			return err
		}
		if current == nil {
			return workflow.NotFoundf("quote", input.QuoteID)
		}

		next, err := workflow.CounterProposeStatus(role, current.Status)
		if err != nil {
			return err
		}

		updated, err := s.quoteRepo.UpdateProposal(txCtx, current.ID,
			workflow.CounterProposeSources(role), next,
			input.Price, input.Start, input.End, input.Note)
		if err != nil {
			return err
		}
		if !updated {
			op := workflow.OpNegotiate
			if role == workflow.RoleBusiness {
				op = workflow.OpRevise
			}
			// A concurrent caller advanced the quote after our read;
			// re-read so the error names the status it actually holds.
			if latest, lerr := s.quoteRepo.GetByID(txCtx, current.ID); lerr == nil && latest != nil {
				current = latest
			}
			return workflow.InvalidTransitionf("quote", current.Status, op)
		}

		current.Status = next
		current.CounterPrice = input.Price
		current.WorkStart = input.Start
		current.WorkEnd = input.End
		current.Note = input.Note
		quote = current
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to counter-propose", "error", err,
			"quote_id", input.QuoteID, "role", string(role))
		return nil, err
	}

	s.logger.Info("Counter-proposal recorded",
		"quote_id", quote.ID, "role", string(role), "status", quote.Status.String())
	return quote, nil
}

// AcceptQuote transitions the quote to accepted and inserts its order in the
// same transaction. A quote is never observable as accepted without its
// order: any failure past the status update rolls both writes back.
func (s *quoteServiceImpl) AcceptQuote(ctx context.Context, input AcceptQuoteInput) (*entity.Order, error) {
	if input.FinalPrice != nil {
		if err := utils.ValidatePositiveAmount("final price", *input.FinalPrice); err != nil {
			return nil, workflow.InvalidInputf("%v", err)
		}
	}
	if input.WorkStart != nil || input.WorkEnd != nil {
		if input.WorkStart == nil || input.WorkEnd == nil {
			return nil, workflow.InvalidInputf("work start and work end must be supplied together")
		}
		if err := utils.ValidateWorkWindow(*input.WorkStart, *input.WorkEnd); err != nil {
			return nil, workflow.InvalidInputf("%v", err)
		}
	}

	var order *entity.Order
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		quote, err := s.quoteRepo.GetByID(txCtx, input.QuoteID)
		if err != nil {
			return err
		}
		if quote == nil {
			return workflow.NotFoundf("quote", input.QuoteID)
		}

		if _, err := workflow.NextQuoteStatus(quote.Status, workflow.OpAcceptQuote); err != nil {
			return err
		}

		updated, err := s.quoteRepo.UpdateStatusFrom(txCtx, quote.ID,
			workflow.QuoteStatusesPermitting(workflow.OpAcceptQuote),
			entity.QuoteAccepted, quote.Note)
		if err != nil {
			return err
		}
		if !updated {
			// A concurrent caller advanced the quote after our read;
			// re-read so the error names the status it actually holds.
			if latest, lerr := s.quoteRepo.GetByID(txCtx, quote.ID); lerr == nil && latest != nil {
				quote = latest
			}
			return workflow.InvalidTransitionf("quote", quote.Status, workflow.OpAcceptQuote)
		}

		finalPrice := quote.CounterPrice
		if input.FinalPrice != nil {
			finalPrice = *input.FinalPrice
		}
		start, end := quote.WorkStart, quote.WorkEnd
		if input.WorkStart != nil {
			start, end = *input.WorkStart, *input.WorkEnd
		}

		order = &entity.Order{
			QuoteID:    quote.ID,
			WorkStart:  start,
			WorkEnd:    end,
			FinalPrice: finalPrice,
			Status:     entity.OrderPending,
		}
		return s.orderRepo.Create(txCtx, order)
	})
	if err != nil {
		s.logger.Error("Failed to accept quote", "error", err, "quote_id", input.QuoteID)
		return nil, err
	}

	s.logger.Info("Quote accepted", "quote_id", input.QuoteID, "order_id", order.ID)
	return order, nil
}

// CloseQuote terminates the quote. Legal from any non-terminal status;
// closed and accepted quotes stay as they are.
func (s *quoteServiceImpl) CloseQuote(ctx context.Context, quoteID int64, note string) (*entity.Quote, error) {
	var quote *entity.Quote
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.quoteRepo.GetByID(txCtx, quoteID)
		if err != nil {
			return err
		}
		if current == nil {
			return workflow.NotFoundf("quote", quoteID)
		}

		if _, err := workflow.NextQuoteStatus(current.Status, workflow.OpCloseQuote); err != nil {
			return err
		}

		updated, err := s.quoteRepo.UpdateStatusFrom(txCtx, current.ID,
			workflow.QuoteStatusesPermitting(workflow.OpCloseQuote),
			entity.QuoteClosed, note)
		if err != nil {
			return err
		}
		if !updated {
			if latest, lerr := s.quoteRepo.GetByID(txCtx, current.ID); lerr == nil && latest != nil {
				current = latest
			}
			return workflow.InvalidTransitionf("quote", current.Status, workflow.OpCloseQuote)
		}

		current.Status = entity.QuoteClosed
		current.Note = note
		quote = current
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to close quote", "error", err, "quote_id", quoteID)
		return nil, err
	}

	s.logger.Info("Quote closed", "quote_id", quoteID)
	return quote, nil
}

// Requote issues a fresh pending quote for an accepted request after all of
// its previous quotes were closed
func (s *quoteServiceImpl) Requote(ctx context.Context, input RequoteInput) (*entity.Quote, error) {
	if err := utils.ValidatePositiveAmount("price", input.Price); err != nil {
		return nil, workflow.InvalidInputf("%v", err)
	}
	if err := utils.ValidateWorkWindow(input.Start, input.End); err != nil {
		return nil, workflow.InvalidInputf("%v", err)
	}

	var quote *entity.Quote
	err := withConflictRetry(ctx, func() error {
		return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			request, err := s.requestRepo.GetByID(txCtx, input.RequestID)
			if err != nil {
				return err
			}
			if request == nil {
				return workflow.NotFoundf("request", input.RequestID)
			}
			if request.Status != entity.RequestAccepted {
				return fmt.Errorf("%w: cannot requote request in status %s",
					workflow.ErrInvalidTransition, request.Status)
			}

			active, err := s.quoteRepo.CountActiveByRequest(txCtx, request.ID)
			if err != nil {
				return err
			}
			if active > 0 {
				return fmt.Errorf("%w: request %d already has an active quote",
					workflow.ErrInvalidTransition, request.ID)
			}

			id, err := s.allocator.Allocate(txCtx, port.IDKindQuote)
			if err != nil {
				return err
			}

			quote = &entity.Quote{
				ID:           id,
				RequestID:    request.ID,
				CounterPrice: input.Price,
				WorkStart:    input.Start,
				WorkEnd:      input.End,
				Status:       entity.QuotePending,
				Note:         input.Note,
			}
			return s.quoteRepo.Create(txCtx, quote)
		})
	})
	if err != nil {
		s.logger.Error("Failed to requote", "error", err, "request_id", input.RequestID)
		return nil, err
	}

	s.logger.Info("Request requoted", "request_id", input.RequestID, "quote_id", quote.ID)
	return quote, nil
}

// GetQuote retrieves a quote by id
func (s *quoteServiceImpl) GetQuote(ctx context.Context, id int64) (*entity.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, workflow.NotFoundf("quote", id)
	}
	return quote, nil
}

// ListQuotes retrieves quotes filtered by status
func (s *quoteServiceImpl) ListQuotes(ctx context.Context, status entity.QuoteStatus, limit, offset int) ([]*entity.Quote, error) {
	return s.quoteRepo.List(ctx, status, limit, offset)
}
