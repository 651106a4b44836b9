package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	"github.com/nimbusfin/coreledger/internal/models"
	"github.com/nimbusfin/coreledger/internal/utils/mapping"
	"github.com/nimbusfin/coreledger/internal/utils/pagination"
)

type PgxAuditRepository struct {
	BaseRepository
}

// NewAuditRepository creates a repository for the durable command audit log.
func NewAuditRepository(db Querier) portsrepo.AuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

const commandRecordColumns = `command_id, entity, action, originator_id, payload, submitted_at, status, approver_id, resolved_at, result, failure_reason`

func scanCommandRecord(row pgx.Row) (models.CommandRecord, error) {
	var m models.CommandRecord
	err := row.Scan(
		&m.CommandID,
		&m.Entity,
		&m.Action,
		&m.OriginatorID,
		&m.Payload,
		&m.SubmittedAt,
		&m.Status,
		&m.ApproverID,
		&m.ResolvedAt,
		&m.Result,
		&m.FailureReason,
	)
	return m, err
}

func (r *PgxAuditRepository) Append(ctx context.Context, record domain.CommandRecord) error {
	m, err := mapping.ToModelCommandRecord(record)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO command_records (` + commandRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = r.DB.Exec(ctx, query,
		m.CommandID,
		m.Entity,
		m.Action,
		m.OriginatorID,
		m.Payload,
		m.SubmittedAt,
		m.Status,
		m.ApproverID,
		m.ResolvedAt,
		m.Result,
		m.FailureReason,
	)
	if err != nil {
		return fmt.Errorf("failed to insert command record %s: %w", m.CommandID, err)
	}
	return nil
}

func (r *PgxAuditRepository) FindByCommandID(ctx context.Context, commandID string) (*domain.CommandRecord, error) {
	query := `SELECT ` + commandRecordColumns + ` FROM command_records WHERE command_id = $1;`
	m, err := scanCommandRecord(r.DB.QueryRow(ctx, query, commandID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find command record %s: %w", commandID, err)
	}
	rec, err := mapping.ToDomainCommandRecord(m)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Resolve attempts the single PENDING -> terminal transition for a command
// record. The UPDATE is guarded on the current status, so only one writer ever
// wins; losers get the already recorded state back with applied=false.
func (r *PgxAuditRepository) Resolve(ctx context.Context, commandID string, status domain.CommandStatus, result domain.Result, reason string, approverID *string, resolvedAt time.Time) (*domain.CommandRecord, bool, error) {
	var resultJSON []byte
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			return nil, false, fmt.Errorf("failed to marshal command result: %w", err)
		}
		resultJSON = b
	}
	var failureReason *string
	if reason != "" {
		failureReason = &reason
	}

	query := `
		UPDATE command_records
		SET status = $2, result = $3, failure_reason = $4, approver_id = $5, resolved_at = $6
		WHERE command_id = $1 AND status = $7;
	`
	ct, err := r.DB.Exec(ctx, query, commandID, string(status), resultJSON, failureReason, approverID, resolvedAt, string(domain.CommandPending))
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve command record %s: %w", commandID, err)
	}
	if ct.RowsAffected() == 1 {
		return nil, true, nil
	}

	prior, err := r.FindByCommandID(ctx, commandID)
	if err != nil {
		return nil, false, err
	}
	return prior, false, nil
}

func (r *PgxAuditRepository) ListCommandRecords(ctx context.Context, filter portsrepo.CommandFilter, limit int, nextToken *string) ([]domain.CommandRecord, *string, error) {
	query := `SELECT ` + commandRecordColumns + ` FROM command_records WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.OriginatorID != nil {
		query += fmt.Sprintf(` AND originator_id = $%d`, idx)
		args = append(args, *filter.OriginatorID)
		idx++
	}
	if filter.Entity != nil {
		query += fmt.Sprintf(` AND entity = $%d`, idx)
		args = append(args, *filter.Entity)
		idx++
	}
	if filter.After != nil {
		query += fmt.Sprintf(` AND submitted_at >= $%d`, idx)
		args = append(args, *filter.After)
		idx++
	}
	if nextToken != nil && *nextToken != "" {
		ts, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += fmt.Sprintf(` AND (submitted_at, command_id) < ($%d, $%d)`, idx, idx+1)
		args = append(args, ts, id)
		idx += 2
	}
	query += fmt.Sprintf(` ORDER BY submitted_at DESC, command_id DESC LIMIT $%d;`, idx)
	args = append(args, limit+1)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list command records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.CommandRecord, 0, limit)
	for rows.Next() {
		m, err := scanCommandRecord(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan command record row: %w", err)
		}
		rec, err := mapping.ToDomainCommandRecord(m)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed iterating command record rows: %w", err)
	}

	var token *string
	if len(records) > limit {
		records = records[:limit]
		last := records[limit-1]
		t := pagination.EncodeToken(last.SubmittedAt, last.CommandID)
		token = &t
	}
	return records, token, nil
}
