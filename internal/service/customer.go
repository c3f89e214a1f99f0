package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
	"github.com/pagocadm-web/redimi-loyalty/internal/repository"
)

type CustomerService struct {
	store repository.Store
}

func NewCustomerService(store repository.Store) *CustomerService {
	return &CustomerService{store: store}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, vendorID uuid.UUID, name, whatsapp string, birthday *string) (*model.Customer, error) {
	if name == "" || whatsapp == "" {
		return nil, fmt.Errorf("%w: name and whatsapp are required", ErrInvalidArgument)
	}
	return s.store.CreateCustomer(ctx, vendorID, name, whatsapp, birthday)
}

func (s *CustomerService) GetCustomer(ctx context.Context, id, vendorID uuid.UUID) (*model.Customer, error) {
	return s.store.GetCustomer(ctx, id, vendorID)
}

func (s *CustomerService) GetCustomers(ctx context.Context, vendorID uuid.UUID) ([]model.Customer, error) {
	return s.store.GetCustomers(ctx, vendorID)
}
