package service

import (
	"context"

	"github.com/dsmith-sealing/driveway-mgmt/internal/application/port"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/entity"
	"github.com/dsmith-sealing/driveway-mgmt/internal/domain/workflow"
	"github.com/dsmith-sealing/driveway-mgmt/pkg/utils"
)

// RegisterClientInput carries a new client's contact details. Credentials
// are handled outside the core.
type RegisterClientInput struct {
	FirstName string
	LastName  string
	Address   string
	Phone     string
	Email     string
}

// ClientService manages the client registry
type ClientService interface {
	Register(ctx context.Context, input RegisterClientInput) (*entity.Client, error)
	GetClient(ctx context.Context, id string) (*entity.Client, error)
}

type clientServiceImpl struct {
	clientRepo port.ClientRepository
	allocator  port.IDAllocator
	txManager  port.TransactionManager
	logger     Logger
}

// NewClientService creates a new ClientService
func NewClientService(
	clientRepo port.ClientRepository,
	allocator port.IDAllocator,
	txManager port.TransactionManager,
	logger Logger,
) ClientService {
	return &clientServiceImpl{
		clientRepo: clientRepo,
		allocator:  allocator,
		txManager:  txManager,
		logger:     logger,
	}
}

// Register allocates a client id and creates the client. The allocation and
// the insert share one transaction so a concurrent registration drawing the
// same id surfaces as a retried conflict, not a duplicate row.
func (s *clientServiceImpl) Register(ctx context.Context, input RegisterClientInput) (*entity.Client, error) {
	if input.FirstName == "" || input.LastName == "" {
		return nil, workflow.InvalidInputf("first and last name are required")
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		return nil, workflow.InvalidInputf("%v", err)
	}

	var client *entity.Client
	err := withConflictRetry(ctx, func() error {
		return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			existing, err := s.clientRepo.GetByEmail(txCtx, input.Email)
			if err != nil {
				return err
			}
			if existing != nil {
				s.logger.Info("Registration reused existing client",
					"client_id", existing.ID, "email", input.Email)
				client = existing
				return nil
			}

			id, err := s.allocator.AllocateClientID(txCtx)
			if err != nil {
				return err
			}

			client = &entity.Client{
				ID:        id,
				FirstName: input.FirstName,
				LastName:  input.LastName,
				Address:   input.Address,
				Phone:     input.Phone,
				Email:     input.Email,
			}
			return s.clientRepo.Create(txCtx, client)
		})
	})
	if err != nil {
		s.logger.Error("Failed to register client", "error", err, "email", input.Email)
		return nil, err
	}

	s.logger.Info("Client registered", "client_id", client.ID)
	return client, nil
}

// GetClient retrieves a client by id
func (s *clientServiceImpl) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, workflow.NotFoundf("client", id)
	}
	return client, nil
}
