package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pagocadm-web/redimi-loyalty/internal/model"
)

func (p *Postgres) CreateEventLog(ctx context.Context, vendorID uuid.UUID, eventType model.EventType, message string) (*model.EventLog, error) {
	var event model.EventLog
	err := p.db.GetContext(ctx, &event, `
		INSERT INTO event_logs (vendor_id, type, message)
		VALUES ($1, $2, $3)
		RETURNING *`,
		vendorID, eventType, message)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (p *Postgres) GetEventLogs(ctx context.Context, vendorID uuid.UUID, limit int) ([]model.EventLog, error) {
	events := []model.EventLog{}
	err := p.db.SelectContext(ctx, &events, `
		SELECT * FROM event_logs
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		vendorID, limit)
	return events, err
}
