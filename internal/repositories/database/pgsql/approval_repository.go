package pgsql

import (
	"context"
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

type PgxApprovalRepository struct {
	BaseRepository
}

// NewApprovalRepository creates a repository for maker-checker approval
// requests.
func NewApprovalRepository(db Querier) portsrepo.ApprovalRepository {
	return &PgxApprovalRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.ApprovalRepository = (*PgxApprovalRepository)(nil)

const approvalColumns = `command_id, status, requested_at, approver_id, decided_at`

func scanApproval(row pgx.Row) (models.ApprovalRequest, error) {
	var m models.ApprovalRequest
	err := row.Scan(
		&m.CommandID,
		&m.Status,
		&m.RequestedAt,
		&m.ApproverID,
		&m.DecidedAt,
	)
	return m, err
}

func (r *PgxApprovalRepository) Create(ctx context.Context, request domain.ApprovalRequest) error {
	query := `
		INSERT INTO approval_requests (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.DB.Exec(ctx, query,
		request.CommandID,
		string(request.Status),
		request.RequestedAt,
		request.ApproverID,
		request.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert approval request %s: %w", request.CommandID, err)
	}
	return nil
}

func (r *PgxApprovalRepository) FindByCommandID(ctx context.Context, commandID string) (*domain.ApprovalRequest, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE command_id = $1;`
	m, err := scanApproval(r.DB.QueryRow(ctx, query, commandID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find approval request %s: %w", commandID, err)
	}
	req := mapping.ToDomainApprovalRequest(m)
	return &req, nil
}

// Resolve flips a PENDING request to its terminal state. Guarded on the
// current status so a second decision is a no-op rather than an overwrite.
func (r *PgxApprovalRepository) Resolve(ctx context.Context, commandID string, status domain.ApprovalStatus, approverID string, decidedAt time.Time) (bool, error) {
	query := `
		UPDATE approval_requests
		SET status = $2, approver_id = $3, decided_at = $4
		WHERE command_id = $1 AND status = $5;
	`
	ct, err := r.DB.Exec(ctx, query, commandID, string(status), approverID, decidedAt, string(domain.ApprovalPending))
	if err != nil {
		return false, fmt.Errorf("failed to resolve approval request %s: %w", commandID, err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *PgxApprovalRepository) ListPending(ctx context.Context, limit int, nextToken *string) ([]domain.ApprovalRequest, *string, error) {
	args := []any{string(domain.ApprovalPending)}
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE status = $1`
	if nextToken != nil && *nextToken != "" {
		ts, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (requested_at, command_id) > ($2, $3)`
		args = append(args, ts, id)
	}
	query += fmt.Sprintf(` ORDER BY requested_at ASC, command_id ASC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.ApprovalRequest, 0, limit)
	for rows.Next() {
		m, err := scanApproval(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan approval request row: %w", err)
		}
		requests = append(requests, mapping.ToDomainApprovalRequest(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed iterating approval request rows: %w", err)
	}

	var token *string
	if len(requests) > limit {
		requests = requests[:limit]
		last := requests[limit-1]
		t := pagination.EncodeToken(last.RequestedAt, last.CommandID)
		token = &t
	}
	return requests, token, nil
}
