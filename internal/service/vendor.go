package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
	"github.com/pagocadm-web/redimi-loyalty/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

const bcryptCost = 10

// VendorService is the authentication collaborator: vendor accounts,
// credential checks and password changes. The ledger core never touches it.
type VendorService struct {
	store repository.Store
}

func NewVendorService(store repository.Store) *VendorService {
	return &VendorService{store: store}
}

func (s *VendorService) CreateVendor(ctx context.Context, username, email, password string) (*model.Vendor, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	return s.store.CreateVendor(ctx, username, string(hash), email)
}

func (s *VendorService) Authenticate(ctx context.Context, username, password string) (*model.Vendor, error) {
	vendor, err := s.store.GetVendorByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(vendor.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return vendor, nil
}

func (s *VendorService) GetVendor(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	return s.store.GetVendor(ctx, id)
}

func (s *VendorService) ChangePassword(ctx context.Context, id uuid.UUID, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	return s.store.UpdateVendorPassword(ctx, id, string(hash))
}
