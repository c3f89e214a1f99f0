package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
)

func (p *Postgres) GetVendor(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	var vendor model.Vendor
	err := p.db.GetContext(ctx, &vendor, "SELECT * FROM vendors WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (p *Postgres) GetVendorByUsername(ctx context.Context, username string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := p.db.GetContext(ctx, &vendor, "SELECT * FROM vendors WHERE username = $1", username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (p *Postgres) CreateVendor(ctx context.Context, username, passwordHash, email string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := p.db.GetContext(ctx, &vendor, `
		INSERT INTO vendors (username, password, email)
		VALUES ($1, $2, $3)
		RETURNING *`,
		username, passwordHash, email)
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (p *Postgres) UpdateVendorPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := p.db.ExecContext(ctx,
		"UPDATE vendors SET password = $1, updated_at = NOW() WHERE id = $2",
		passwordHash, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrVendorNotFound
	}
	return nil
}
