package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
)

func newRequestService(requestRepo *mockRequestRepo, quoteRepo *mockQuoteRepo, clientRepo *mockClientRepo, allocator *mockAllocator) RequestService {
	return NewRequestService(requestRepo, quoteRepo, clientRepo, allocator, &mockTxManager{}, &mockLogger{})
}

func validSubmitInput() SubmitRequestInput {
	return SubmitRequestInput{
		ClientID:        "AB12c",
		PropertyAddress: "12 Oak Lane",
		SquareFeet:      600,
		ProposedPrice:   450,
	}
}

func TestSubmitRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *SubmitRequestInput)
		wantErr error
	}{
		{
			name: "valid request",
		},
		{
			name:    "missing client id",
			mutate:  func(in *SubmitRequestInput) { in.ClientID = "" },
			wantErr: workflow.ErrInvalidInput,
		},
		{
			name:    "empty address",
			mutate:  func(in *SubmitRequestInput) { in.PropertyAddress = "  " },
			wantErr: workflow.ErrInvalidInput,
		},
		{
			name:    "zero square feet",
			mutate:  func(in *SubmitRequestInput) { in.SquareFeet = 0 },
			wantErr: workflow.ErrInvalidInput,
		},
		{
			name:    "negative price",
			mutate:  func(in *SubmitRequestInput) { in.ProposedPrice = -10 },
			wantErr: workflow.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newRequestService(&mockRequestRepo{}, &mockQuoteRepo{}, &mockClientRepo{}, &mockAllocator{})

			input := validSubmitInput()
			if tt.mutate != nil {
				tt.mutate(&input)
			}

			request, err := svc.SubmitRequest(context.Background(), input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if request.Status != entity.RequestPending {
				t.Errorf("new request should be pending, got %s", request.Status)
			}
		})
	}
}

func TestSubmitRequest_UnknownClient(t *testing.T) {
	clientRepo := &mockClientRepo{
		existsFunc: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc := newRequestService(&mockRequestRepo{}, &mockQuoteRepo{}, clientRepo, &mockAllocator{})

	_, err := svc.SubmitRequest(context.Background(), validSubmitInput())
	if !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitRequest_DuplicateAbsorbed(t *testing.T) {
	existing := &entity.Request{ID: 42, ClientID: "AB12c", Status: entity.RequestPending}
	created := false

	requestRepo := &mockRequestRepo{
		findRecentDuplicateFunc: func(ctx context.Context, clientID, address string, squareFeet, proposedPrice float64, since time.Time) (*entity.Request, error) {
			return existing, nil
		},
		createFunc: func(ctx context.Context, request *entity.Request) error {
			created = true
			return nil
		},
	}
	svc := newRequestService(requestRepo, &mockQuoteRepo{}, &mockClientRepo{}, &mockAllocator{})

	request, err := svc.SubmitRequest(context.Background(), validSubmitInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.ID != existing.ID {
		t.Errorf("expected existing request %d, got %d", existing.ID, request.ID)
	}
	if created {
		t.Error("duplicate submission must not create a second request")
	}
}

func TestRespondToRequest_AcceptCreatesQuote(t *testing.T) {
	var createdQuote *entity.Quote
	quoteRepo := &mockQuoteRepo{
		createFunc: func(ctx context.Context, quote *entity.Quote) error {
			createdQuote = quote
			return nil
		},
	}
	requestRepo := &mockRequestRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Request, error) {
			return &entity.Request{ID: id, ClientID: "AB12c", ProposedPrice: 450, Status: entity.RequestPending}, nil
		},
	}
	svc := newRequestService(requestRepo, quoteRepo, &mockClientRepo{}, &mockAllocator{})

	decision, err := svc.RespondToRequest(context.Background(), RespondToRequestInput{
		RequestID: 7,
		Decision:  entity.RequestAccepted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Request.Status != entity.RequestAccepted {
		t.Errorf("request should be accepted, got %s", decision.Request.Status)
	}
	if decision.Quote == nil || createdQuote == nil {
		t.Fatal("accepting a request must create a quote")
	}
	if decision.Quote.Status != entity.QuotePending {
		t.Errorf("new quote should be pending, got %s", decision.Quote.Status)
	}
	if decision.Quote.CounterPrice != 450 {
		t.Errorf("quote price should default to proposed price, got %.2f", decision.Quote.CounterPrice)
	}
	if decision.Quote.ID != 123 {
		t.Errorf("quote id should come from the allocator, got %d", decision.Quote.ID)
	}
}

func TestRespondToRequest_RejectCreatesNoQuote(t *testing.T) {
	created := false
	quoteRepo := &mockQuoteRepo{
		createFunc: func(ctx context.Context, quote *entity.Quote) error {
			created = true
			return nil
		},
	}
	svc := newRequestService(&mockRequestRepo{}, quoteRepo, &mockClientRepo{}, &mockAllocator{})

	decision, err := svc.RespondToRequest(context.Background(), RespondToRequestInput{
		RequestID: 7,
		Decision:  entity.RequestRejected,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Quote != nil || created {
		t.Error("rejecting a request must not create a quote")
	}
}

func TestRespondToRequest_InvalidDecision(t *testing.T) {
	svc := newRequestService(&mockRequestRepo{}, &mockQuoteRepo{}, &mockClientRepo{}, &mockAllocator{})

	_, err := svc.RespondToRequest(context.Background(), RespondToRequestInput{
		RequestID: 7,
		Decision:  entity.RequestPending,
	})
	if !errors.Is(err, workflow.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRespondToRequest_AlreadyDecided(t *testing.T) {
	requestRepo := &mockRequestRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Request, error) {
			return &entity.Request{ID: id, Status: entity.RequestRejected}, nil
		},
	}
	svc := newRequestService(requestRepo, &mockQuoteRepo{}, &mockClientRepo{}, &mockAllocator{})

	_, err := svc.RespondToRequest(context.Background(), RespondToRequestInput{
		RequestID: 7,
		Decision:  entity.RequestAccepted,
	})
	if !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestRespondToRequest_QuoteFailureRollsBack(t *testing.T) {
	// A failing quote insert must surface the error so the transaction
	// wrapper rolls back the request transition with it.
	boom := errors.New("disk full")
	quoteRepo := &mockQuoteRepo{
		createFunc: func(ctx context.Context, quote *entity.Quote) error {
			return boom
		},
	}
	rolledBack := false
	tx := &mockTxManager{
		withTransactionFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			if err := fn(ctx); err != nil {
				rolledBack = true
				return err
			}
			return nil
		},
	}
	svc := NewRequestService(&mockRequestRepo{}, quoteRepo, &mockClientRepo{}, &mockAllocator{}, tx, &mockLogger{})

	_, err := svc.RespondToRequest(context.Background(), RespondToRequestInput{
		RequestID: 7,
		Decision:  entity.RequestAccepted,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected quote failure to surface, got %v", err)
	}
	if !rolledBack {
		t.Error("transaction must roll back when the quote insert fails")
	}
}

func TestRespondToRequest_RetriesOnConflict(t *testing.T) {
	calls := 0
	quoteRepo := &mockQuoteRepo{
		createFunc: func(ctx context.Context, quote *entity.Quote) error {
			calls++
			if calls < 2 {
				return workflow.ErrConflictRetry
			}
			return nil
		},
	}
	svc := newRequestService(&mockRequestRepo{}, quoteRepo, &mockClientRepo{}, &mockAllocator{})

	_, err := svc.RespondToRequest(context.Background(), RespondToRequestInput{
		RequestID: 7,
		Decision:  entity.RequestAccepted,
	})
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}
