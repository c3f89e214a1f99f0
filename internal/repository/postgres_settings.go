package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
)

func (p *Postgres) GetSettings(ctx context.Context, vendorID uuid.UUID) (*model.Settings, error) {
	var settings model.Settings
	err := p.db.GetContext(ctx, &settings,
		"SELECT * FROM settings WHERE vendor_id = $1", vendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// EnsureSettings returns the vendor's settings row, creating it (and a
// default branch when the vendor has none) on first access. The vendor row
// is locked first so concurrent first access serializes; the UNIQUE
// constraint on settings.vendor_id backs this up, and a lost race resolves
// by re-reading the winner's row.
func (p *Postgres) EnsureSettings(ctx context.Context, vendorID uuid.UUID, defaultRate float64, defaultBranch string) (*model.Settings, error) {
	var settings model.Settings
	err := p.db.GetContext(ctx, &settings,
		"SELECT * FROM settings WHERE vendor_id = $1", vendorID)
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists uuid.UUID
	err = tx.GetContext(ctx, &exists,
		"SELECT id FROM vendors WHERE id = $1 FOR UPDATE", vendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}

	var branch model.Branch
	err = tx.GetContext(ctx, &branch, `
		SELECT * FROM branches
		WHERE vendor_id = $1
		ORDER BY created_at
		LIMIT 1`,
		vendorID)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.GetContext(ctx, &branch, `
			INSERT INTO branches (vendor_id, name)
			VALUES ($1, $2)
			RETURNING *`,
			vendorID, defaultBranch)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default branch: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO settings (vendor_id, rate, active_branch_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (vendor_id) DO NOTHING`,
		vendorID, defaultRate, branch.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}

	err = tx.GetContext(ctx, &settings,
		"SELECT * FROM settings WHERE vendor_id = $1", vendorID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (p *Postgres) UpdateSettings(ctx context.Context, vendorID uuid.UUID, upd SettingsUpdate) (*model.Settings, error) {
	var settings model.Settings
	err := p.db.GetContext(ctx, &settings, `
		UPDATE settings SET
			rate = COALESCE($2::double precision, rate),
			active_branch_id = COALESCE($3::uuid, active_branch_id),
			updated_at = NOW()
		WHERE vendor_id = $1
		RETURNING *`,
		vendorID, upd.Rate, upd.ActiveBranchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (p *Postgres) GetBranches(ctx context.Context, vendorID uuid.UUID) ([]model.Branch, error) {
	branches := []model.Branch{}
	err := p.db.SelectContext(ctx, &branches, `
		SELECT * FROM branches
		WHERE vendor_id = $1
		ORDER BY created_at`,
		vendorID)
	return branches, err
}

func (p *Postgres) CreateBranch(ctx context.Context, vendorID uuid.UUID, name string) (*model.Branch, error) {
	var branch model.Branch
	err := p.db.GetContext(ctx, &branch, `
		INSERT INTO branches (vendor_id, name)
		VALUES ($1, $2)
		RETURNING *`,
		vendorID, name)
	if err != nil {
		return nil, err
	}
	return &branch, nil
}
