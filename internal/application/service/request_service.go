package service

import (
	"context"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
	"github.com/dsmith-sealing/driveway-mgmt/pkg/utils"
)

// duplicateWindow absorbs duplicate submissions from retried network calls
const duplicateWindow = 60 * time.Second

// SubmitRequestInput carries a client's proposal for work
type SubmitRequestInput struct {
	ClientID        string
	PropertyAddress string
	SquareFeet      float64
	ProposedPrice   float64
	Note            string
	PhotoRefs       []string
}

// RespondToRequestInput carries the business's decision on a pending request
type RespondToRequestInput struct {
	RequestID    int64
	Decision     entity.RequestStatus // accepted or rejected
	Note         string
	CounterPrice *float64   // defaults to the request's proposed price
	WorkStart    *time.Time // defaults to a window a week out
	WorkEnd      *time.Time
}

// RequestDecision is the outcome of responding to a request. Quote is set
// only when the request was accepted.
type RequestDecision struct {
	Request *entity.Request
	Quote   *entity.Quote
}

// RequestService manages the Request lifecycle
type RequestService interface {
	SubmitRequest(ctx context.Context, input SubmitRequestInput) (*entity.Request, error)
	RespondToRequest(ctx context.Context, input RespondToRequestInput) (*RequestDecision, error)
	GetRequest(ctx context.Context, id int64) (*entity.Request, error)
	ListRequests(ctx context.Context, status entity.RequestStatus, limit, offset int) ([]*entity.Request, error)
	ListClientRequests(ctx context.Context, clientID string, limit, offset int) ([]*entity.Request, error)
}

type requestServiceImpl struct {
	requestRepo port.RequestRepository
	quoteRepo   port.QuoteRepository
	clientRepo  port.ClientRepository
	allocator   port.IDAllocator
	txManager   port.TransactionManager
	logger      Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo port.RequestRepository,
	quoteRepo port.QuoteRepository,
	clientRepo port.ClientRepository,
	allocator port.IDAllocator,
	txManager port.TransactionManager,
	logger Logger,
) RequestService {
	return &requestServiceImpl{
		requestRepo: requestRepo,
		quoteRepo:   quoteRepo,
		clientRepo:  clientRepo,
		allocator:   allocator,
		txManager:   txManager,
		logger:      logger,
	}
}

// SubmitRequest validates and records a client's proposal. An identical
// submission from the same client within the last minute returns the
// existing request instead of creating a second one.
func (s *requestServiceImpl) SubmitRequest(ctx context.Context, input SubmitRequestInput) (*entity.Request, error) {
	if input.ClientID == "" {
		return nil, workflow.InvalidInputf("client id is required")
	}
	if err := utils.ValidateAddress(input.PropertyAddress); err != nil {
		return nil, workflow.InvalidInputf("%v", err)
	}
	if err := utils.ValidateSquareFeet(input.SquareFeet); err != nil {
		return nil, workflow.InvalidInputf("%v", err)
	}
	if err := utils.ValidatePositiveAmount("proposed price", input.ProposedPrice); err != nil {
		return nil, workflow.InvalidInputf("%v", err)
	}

	var request *entity.Request
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exists, err := s.clientRepo.Exists(txCtx, input.ClientID)
		if err != nil {
			return err
		}
		if !exists {
			return workflow.NotFoundf("client", input.ClientID)
		}

		// The duplicate check runs inside the transaction so two concurrent
		// retries of the same submission cannot both pass it.
		since := time.Now().Add(-duplicateWindow)
		existing, err := s.requestRepo.FindRecentDuplicate(txCtx,
			input.ClientID, input.PropertyAddress, input.SquareFeet, input.ProposedPrice, since)
		if err != nil {
			return err
		}
		if existing != nil {
			s.logger.Info("Absorbed duplicate request submission",
				"client_id", input.ClientID, "request_id", existing.ID)
			request = existing
			return nil
		}

		request = &entity.Request{
			ClientID:        input.ClientID,
			PropertyAddress: input.PropertyAddress,
			SquareFeet:      input.SquareFeet,
			ProposedPrice:   input.ProposedPrice,
			Note:            input.Note,
			Status:          entity.RequestPending,
			PhotoRefs:       input.PhotoRefs,
		}
		return s.requestRepo.Create(txCtx, request)
	})
	if err != nil {
		s.logger.Error("Failed to submit request", "error", err, "client_id", input.ClientID)
		return nil, err
	}

	s.logger.Info("Request submitted", "request_id", request.ID, "client_id", request.ClientID)
	return request, nil
}

// RespondToRequest applies the business's decision. Accepting transitions
// the request and creates its pending quote in the same transaction; the two
// writes commit together or not at all.
func (s *requestServiceImpl) RespondToRequest(ctx context.Context, input RespondToRequestInput) (*RequestDecision, error) {
	var op workflow.Operation
	switch input.Decision {
	case entity.RequestAccepted:
		op = workflow.OpAcceptRequest
	case entity.RequestRejected:
		op = workflow.OpRejectRequest
	default:
		return nil, workflow.InvalidInputf("decision must be accepted or rejected, got %q", input.Decision)
	}

	if input.CounterPrice != nil {
		if err := utils.ValidatePositiveAmount("counter price", *input.CounterPrice); err != nil {
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

	decision := &RequestDecision{}
	err := withConflictRetry(ctx, func() error {
		decision = &RequestDecision{}
		return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			request, err := s.requestRepo.GetByID(txCtx, input.RequestID)
			if err != nil {
				return err
			}
			if request == nil {
				return workflow.NotFoundf("request", input.RequestID)
			}

			next, err := workflow.NextRequestStatus(request.Status, op)
			if err != nil {
				return err
			}

			updated, err := s.requestRepo.UpdateStatusFrom(txCtx,
				request.ID, entity.RequestPending, next, input.Note)
			if err != nil {
				return err
			}
			if !updated {
				if latest, lerr := s.requestRepo.GetByID(txCtx, request.ID); lerr == nil && latest != nil {
					request = latest
				}
				return workflow.InvalidTransitionf("request", request.Status, op)
			}
			request.Status = next
			request.Note = input.Note
			decision.Request = request

			if next != entity.RequestAccepted {
				return nil
			}

			quote, err := s.createQuoteForRequest(txCtx, request, input)
			if err != nil {
				return err
			}
			decision.Quote = quote
			return nil
		})
	})
	if err != nil {
		s.logger.Error("Failed to respond to request", "error", err, "request_id", input.RequestID)
		return nil, err
	}

	s.logger.Info("Responded to request",
		"request_id", input.RequestID, "decision", string(input.Decision))
	return decision, nil
}

// createQuoteForRequest allocates a quote id and inserts the pending quote.
// Price defaults to the client's proposal; the work window defaults to a
// one-day job a week out.
func (s *requestServiceImpl) createQuoteForRequest(ctx context.Context, request *entity.Request, input RespondToRequestInput) (*entity.Quote, error) {
	price := request.ProposedPrice
	if input.CounterPrice != nil {
		price = *input.CounterPrice
	}

	var start, end time.Time
	if input.WorkStart != nil {
		start, end = *input.WorkStart, *input.WorkEnd
	} else {
		start = time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
		end = start.AddDate(0, 0, 1)
	}

	id, err := s.allocator.Allocate(ctx, port.IDKindQuote)
	if err != nil {
		return nil, err
	}

	quote := &entity.Quote{
		ID:           id,
		RequestID:    request.ID,
		CounterPrice: price,
		WorkStart:    start,
		WorkEnd:      end,
		Status:       entity.QuotePending,
		Note:         input.Note,
	}
	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// GetRequest retrieves a request by id
func (s *requestServiceImpl) GetRequest(ctx context.Context, id int64) (*entity.Request, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, workflow.NotFoundf("request", id)
	}
	return request, nil
}

// ListRequests retrieves requests filtered by status
func (s *requestServiceImpl) ListRequests(ctx context.Context, status entity.RequestStatus, limit, offset int) ([]*entity.Request, error) {
	return s.requestRepo.List(ctx, status, limit, offset)
}

// ListClientRequests retrieves one client's requests
func (s *requestServiceImpl) ListClientRequests(ctx context.Context, clientID string, limit, offset int) ([]*entity.Request, error) {
	return s.requestRepo.ListByClient(ctx, clientID, limit, offset)
}
