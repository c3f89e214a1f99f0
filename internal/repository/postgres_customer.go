package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
)

func (p *Postgres) GetCustomers(ctx context.Context, vendorID uuid.UUID) ([]model.Customer, error) {
	customers := []model.Customer{}
	err := p.db.SelectContext(ctx, &customers, `
		SELECT * FROM customers
		WHERE vendor_id = $1
		ORDER BY created_at DESC`,
		vendorID)
	return customers, err
}

func (p *Postgres) GetCustomer(ctx context.Context, id, vendorID uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := p.db.GetContext(ctx, &customer,
		"SELECT * FROM customers WHERE id = $1 AND vendor_id = $2",
		id, vendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (p *Postgres) CreateCustomer(ctx context.Context, vendorID uuid.UUID, name, whatsapp string, birthday *string) (*model.Customer, error) {
	var customer model.Customer
	err := p.db.GetContext(ctx, &customer, `
		INSERT INTO customers (vendor_id, name, whatsapp, birthday)
		VALUES ($1, $2, $3, $4)
		RETURNING *`,
		vendorID, name, whatsapp, birthday)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
