package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
)

func newClientService(clientRepo *mockClientRepo, allocator *mockAllocator) ClientService {
	return NewClientService(clientRepo, allocator, &mockTxManager{}, &mockLogger{})
}

func TestRegister(t *testing.T) {
	var created *entity.Client
	clientRepo := &mockClientRepo{
		createFunc: func(ctx context.Context, client *entity.Client) error {
			created = client
			return nil
		},
	}
	svc := newClientService(clientRepo, &mockAllocator{})

	client, err := svc.Register(context.Background(), RegisterClientInput{
		FirstName: "Dana",
		LastName:  "Smith",
		Email:     "dana@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("registration must insert the client")
	}
	if client.ID != "Xy9Qa" {
		t.Errorf("client id should come from the allocator, got %q", client.ID)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc := newClientService(&mockClientRepo{}, &mockAllocator{})

	tests := []struct {
		name  string
		input RegisterClientInput
	}{
		{name: "missing name", input: RegisterClientInput{Email: "dana@example.com"}},
		{name: "missing email", input: RegisterClientInput{FirstName: "Dana", LastName: "Smith"}},
		{name: "malformed email", input: RegisterClientInput{FirstName: "Dana", LastName: "Smith", Email: "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.input); !errors.Is(err, workflow.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegister_ExistingEmailReused(t *testing.T) {
	existing := &entity.Client{ID: "AB12c", Email: "dana@example.com"}
	created := false
	clientRepo := &mockClientRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*entity.Client, error) {
			return existing, nil
		},
		createFunc: func(ctx context.Context, client *entity.Client) error {
			created = true
			return nil
		},
	}
	svc := newClientService(clientRepo, &mockAllocator{})

	client, err := svc.Register(context.Background(), RegisterClientInput{
		FirstName: "Dana",
		LastName:  "Smith",
		Email:     "dana@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.ID != existing.ID {
		t.Errorf("expected existing client %q, got %q", existing.ID, client.ID)
	}
	if created {
		t.Error("re-registration must not create a second client")
	}
}

func TestGetClient_NotFound(t *testing.T) {
	clientRepo := &mockClientRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.Client, error) {
			return nil, nil
		},
	}
	svc := newClientService(clientRepo, &mockAllocator{})

	if _, err := svc.GetClient(context.Background(), "zzzzz"); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
