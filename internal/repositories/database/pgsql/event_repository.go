package pgsql

import (
	"context"
	"fmt"

	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	"github.com/nimbusfin/coreledger/internal/models"
	"github.com/nimbusfin/coreledger/internal/utils/mapping"
)

type PgxEventRepository struct {
	BaseRepository
}

// NewEventRepository creates a repository for the domain event outbox.
func NewEventRepository(db Querier) portsrepo.EventRepository {
	return &PgxEventRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.EventRepository = (*PgxEventRepository)(nil)

func (r *PgxEventRepository) Append(ctx context.Context, event domain.DomainEvent) error {
	m, err := mapping.ToModelDomainEvent(event)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO events (event_id, command_id, event_type, entity, action, occurred_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = r.DB.Exec(ctx, query,
		m.EventID,
		m.CommandID,
		m.EventType,
		m.Entity,
		m.Action,
		m.OccurredAt,
		m.Payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event %s: %w", m.EventID, err)
	}
	return nil
}

func (r *PgxEventRepository) ListByCommandID(ctx context.Context, commandID string) ([]domain.DomainEvent, error) {
	query := `
		SELECT event_id, command_id, event_type, entity, action, occurred_at, payload
		FROM events
		WHERE command_id = $1
		ORDER BY occurred_at ASC, event_id ASC;
	`
	rows, err := r.DB.Query(ctx, query, commandID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for command %s: %w", commandID, err)
	}
	defer rows.Close()

	var events []domain.DomainEvent
	for rows.Next() {
		var m models.DomainEvent
		err := rows.Scan(
			&m.EventID,
			&m.CommandID,
			&m.EventType,
			&m.Entity,
			&m.Action,
			&m.OccurredAt,
			&m.Payload,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		ev, err := mapping.ToDomainDomainEvent(m)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating event rows: %w", err)
	}
	return events, nil
}
