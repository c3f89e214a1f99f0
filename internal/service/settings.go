package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
	"github.com/pagocadm-web/redimi-loyalty/internal/repository"
)

// DefaultAccrualRate is the points-per-currency-unit applied to vendors that
// never configured a rate (0.05 = 5 points per 100).
const DefaultAccrualRate = 0.05

// DefaultBranchName is created for a vendor with zero branches on first
// settings access.
const DefaultBranchName = "Main Store"

var ErrBranchNotFound = errors.New("branch not found")

// SettingsService resolves per-vendor configuration: accrual rate, active
// branch and the branch list.
type SettingsService struct {
	store repository.Store
}

func NewSettingsService(store repository.Store) *SettingsService {
	return &SettingsService{store: store}
}

// VendorSettings is the resolved configuration view handed to callers.
type VendorSettings struct {
	Rate           float64    `json:"rate"`
	Franchise      string     `json:"franchise"` // active branch name
	Branches       []string   `json:"branches"`
	ActiveBranchID *uuid.UUID `json:"active_branch_id,omitempty"`
}

// SettingsUpdate is a partial update; nil fields are left unchanged.
type SettingsUpdate struct {
	Rate       *float64
	BranchName *string
}

// Resolve returns the vendor's settings row, lazily creating it with the
// default rate and branch on first access.
func (s *SettingsService) Resolve(ctx context.Context, vendorID uuid.UUID) (*model.Settings, error) {
	return s.store.EnsureSettings(ctx, vendorID, DefaultAccrualRate, DefaultBranchName)
}

func (s *SettingsService) GetSettings(ctx context.Context, vendorID uuid.UUID) (*VendorSettings, error) {
	settings, err := s.Resolve(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, settings)
}

// UpdateSettings applies a partial configuration change. Negative rates are
// rejected, and an unknown branch name fails with ErrBranchNotFound rather
// than being silently ignored.
func (s *SettingsService) UpdateSettings(ctx context.Context, vendorID uuid.UUID, upd SettingsUpdate) (*VendorSettings, error) {
	if _, err := s.Resolve(ctx, vendorID); err != nil {
		return nil, err
	}

	stored := repository.SettingsUpdate{}

	if upd.Rate != nil {
		if *upd.Rate < 0 {
			return nil, fmt.Errorf("%w: rate must not be negative", ErrInvalidArgument)
		}
		stored.Rate = upd.Rate
	}

	if upd.BranchName != nil {
		branches, err := s.store.GetBranches(ctx, vendorID)
		if err != nil {
			return nil, err
		}
		var match *uuid.UUID
		for i := range branches {
			if branches[i].Name == *upd.BranchName {
				match = &branches[i].ID
				break
			}
		}
		if match == nil {
			return nil, fmt.Errorf("%w: %q", ErrBranchNotFound, *upd.BranchName)
		}
		stored.ActiveBranchID = match
	}

	settings, err := s.store.UpdateSettings(ctx, vendorID, stored)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, settings)
}

// AddBranch appends a branch to the vendor's list. The active branch is not
// changed.
func (s *SettingsService) AddBranch(ctx context.Context, vendorID uuid.UUID, name string) (*model.Branch, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: branch name is required", ErrInvalidArgument)
	}
	return s.store.CreateBranch(ctx, vendorID, name)
}

func (s *SettingsService) BranchNames(ctx context.Context, vendorID uuid.UUID) ([]string, error) {
	branches, err := s.store.GetBranches(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
	}
	return names, nil
}

func (s *SettingsService) view(ctx context.Context, settings *model.Settings) (*VendorSettings, error) {
	branches, err := s.store.GetBranches(ctx, settings.VendorID)
	if err != nil {
		return nil, err
	}

	view := &VendorSettings{
		Rate:           settings.Rate,
		Franchise:      DefaultBranchName,
		Branches:       make([]string, 0, len(branches)),
		ActiveBranchID: settings.ActiveBranchID,
	}
	for _, b := range branches {
		view.Branches = append(view.Branches, b.Name)
		if settings.ActiveBranchID != nil && b.ID == *settings.ActiveBranchID {
			view.Franchise = b.Name
		}
	}
	return view, nil
}
