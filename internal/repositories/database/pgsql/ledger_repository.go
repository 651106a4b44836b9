package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	"github.com/nimbusfin/coreledger/internal/models"
	"github.com/nimbusfin/coreledger/internal/utils/accounting"
	"github.com/nimbusfin/coreledger/internal/utils/mapping"
	"github.com/nimbusfin/coreledger/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// NewLedgerRepository creates a repository for accounts, entry sets and
// entries. Pass a pool for standalone reads or a pgx.Tx to participate in a
// unit of work.
func NewLedgerRepository(db Querier) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

const accountColumns = `account_id, name, account_type, currency_code, description, is_active, balance, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.AccountType,
		&m.CurrencyCode,
		&m.Description,
		&m.IsActive,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxLedgerRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.DB.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.AccountType,
		m.CurrencyCode,
		m.Description,
		m.IsActive,
		m.Balance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *PgxLedgerRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.DB.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (r *PgxLedgerRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.DB.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *PgxLedgerRepository) ListAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.Account, *string, error) {
	args := []any{}
	query := `SELECT ` + accountColumns + ` FROM accounts`
	if nextToken != nil && *nextToken != "" {
		ts, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` WHERE (created_at, account_id) < ($1, $2)`
		args = append(args, ts, id)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, account_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, limit)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed iterating account rows: %w", err)
	}

	var token *string
	if len(accounts) > limit {
		accounts = accounts[:limit]
		last := accounts[limit-1]
		t := pagination.EncodeToken(last.CreatedAt, last.AccountID)
		token = &t
	}
	return accounts, token, nil
}

func (r *PgxLedgerRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`
	ct, err := r.DB.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveEntrySet inserts the entry set header, locks and adjusts the referenced
// account balances, and inserts every entry with its running balance. It must
// run on a transaction-bound repository; callers go through the unit of work.
func (r *PgxLedgerRepository) SaveEntrySet(ctx context.Context, set domain.EntrySet, balanceChanges map[string]decimal.Decimal) error {
	if err := accounting.ValidateEntrySetBalance(set.Entries); err != nil {
		return err
	}

	m := mapping.ToModelEntrySet(set)
	headerQuery := `
		INSERT INTO entry_sets (
			entry_set_id, command_id, description, status,
			original_entry_set_id, reversing_entry_set_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.DB.Exec(ctx, headerQuery,
		m.EntrySetID,
		m.CommandID,
		m.Description,
		m.Status,
		m.OriginalEntrySetID,
		m.ReversingEntrySetID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry set %s: %w", m.EntrySetID, err)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	// Lock in a stable order so concurrent entry sets touching the same
	// accounts cannot deadlock.
	sort.Strings(accountIDs)

	lockedAccounts, err := r.lockAccountsForUpdate(ctx, accountIDs)
	if err != nil {
		return err
	}

	if err := r.applyBalanceChanges(ctx, balanceChanges, set.CreatedBy, set.CreatedAt); err != nil {
		return err
	}

	// Running balances start from the balance each account held before this
	// entry set, then accumulate per entry in EntryID order.
	runningBalances := make(map[string]decimal.Decimal, len(lockedAccounts))
	for accID, acc := range lockedAccounts {
		runningBalances[accID] = acc.Balance
	}

	entries := make([]domain.Entry, len(set.Entries))
	copy(entries, set.Entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].EntryID < entries[j].EntryID
	})

	entryQuery := `
		INSERT INTO entries (
			entry_id, entry_set_id, account_id, amount, direction, currency_code,
			command_id, running_balance, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		locked, ok := lockedAccounts[entry.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s not locked for entry %s", apperrors.ErrNotFound, entry.AccountID, entry.EntryID)
		}
		signed, err := accounting.SignedAmount(entry, locked.AccountType)
		if err != nil {
			return fmt.Errorf("failed to compute signed amount for entry %s: %w", entry.EntryID, err)
		}
		runningBalances[entry.AccountID] = runningBalances[entry.AccountID].Add(signed)

		me := mapping.ToModelEntry(entry)
		me.RunningBalance = runningBalances[entry.AccountID]
		me.CreatedAt = set.CreatedAt
		me.CreatedBy = set.CreatedBy
		me.LastUpdatedAt = set.CreatedAt
		me.LastUpdatedBy = set.CreatedBy

		batch.Queue(entryQuery,
			me.EntryID,
			me.EntrySetID,
			me.AccountID,
			me.Amount,
			me.Direction,
			me.CurrencyCode,
			me.CommandID,
			me.RunningBalance,
			me.CreatedAt,
			me.CreatedBy,
			me.LastUpdatedAt,
			me.LastUpdatedBy,
		)
	}

	br := r.DB.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert entries for entry set %s: %w", m.EntrySetID, err)
	}
	return nil
}

func (r *PgxLedgerRepository) lockAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) FOR UPDATE;`
	rows, err := r.DB.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts for update: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating locked account rows: %w", err)
	}
	if len(accounts) != len(accountIDs) {
		for _, id := range accountIDs {
			if _, ok := accounts[id]; !ok {
				return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
			}
		}
	}
	return accounts, nil
}

func (r *PgxLedgerRepository) applyBalanceChanges(ctx context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID, delta := range balanceChanges {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, accountID, delta, now, userID)
		accountIDs = append(accountIDs, accountID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := r.DB.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			return fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %s during balance update", apperrors.ErrNotFound, accountIDs[i])
		}
	}
	return nil
}

const entrySetColumns = `entry_set_id, command_id, description, status, original_entry_set_id, reversing_entry_set_id, created_at, created_by, last_updated_at, last_updated_by`

func scanEntrySet(row pgx.Row) (models.EntrySet, error) {
	var m models.EntrySet
	err := row.Scan(
		&m.EntrySetID,
		&m.CommandID,
		&m.Description,
		&m.Status,
		&m.OriginalEntrySetID,
		&m.ReversingEntrySetID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxLedgerRepository) FindEntrySetByID(ctx context.Context, entrySetID string) (*domain.EntrySet, error) {
	query := `SELECT ` + entrySetColumns + ` FROM entry_sets WHERE entry_set_id = $1;`
	m, err := scanEntrySet(r.DB.QueryRow(ctx, query, entrySetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry set %s: %w", entrySetID, err)
	}
	set := mapping.ToDomainEntrySet(m)
	return &set, nil
}

const entryColumns = `entry_id, entry_set_id, account_id, amount, direction, currency_code, command_id, running_balance, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (models.Entry, error) {
	var m models.Entry
	err := row.Scan(
		&m.EntryID,
		&m.EntrySetID,
		&m.AccountID,
		&m.Amount,
		&m.Direction,
		&m.CurrencyCode,
		&m.CommandID,
		&m.RunningBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxLedgerRepository) FindEntriesByEntrySetID(ctx context.Context, entrySetID string) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE entry_set_id = $1 ORDER BY entry_id;`
	rows, err := r.DB.Query(ctx, query, entrySetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for entry set %s: %w", entrySetID, err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating entry rows: %w", err)
	}
	return entries, nil
}

func (r *PgxLedgerRepository) ListEntriesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	args := []any{accountID}
	query := `SELECT ` + entryColumns + ` FROM entries WHERE account_id = $1`
	if nextToken != nil && *nextToken != "" {
		ts, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, ts, id)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, entry_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0, limit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed iterating entry rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		t := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		token = &t
	}
	return entries, token, nil
}

func (r *PgxLedgerRepository) MarkEntrySetReversed(ctx context.Context, entrySetID string, reversingEntrySetID string, userID string, now time.Time) error {
	query := `
		UPDATE entry_sets
		SET status = $2, reversing_entry_set_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_set_id = $1 AND status = $6;
	`
	ct, err := r.DB.Exec(ctx, query, entrySetID, string(domain.Reversed), reversingEntrySetID, now, userID, string(domain.Posted))
	if err != nil {
		return fmt.Errorf("failed to mark entry set %s reversed: %w", entrySetID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry set %s is not in POSTED status", apperrors.ErrConflict, entrySetID)
	}
	return nil
}

func (r *PgxLedgerRepository) TrialBalanceRows(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.name, a.account_type, a.currency_code,
		       COALESCE(SUM(e.amount) FILTER (WHERE e.direction = 'DEBIT'), 0) AS debit_total,
		       COALESCE(SUM(e.amount) FILTER (WHERE e.direction = 'CREDIT'), 0) AS credit_total
		FROM accounts a
		LEFT JOIN entries e ON e.account_id = a.account_id AND e.created_at <= $1
		GROUP BY a.account_id, a.name, a.account_type, a.currency_code
		ORDER BY a.name, a.account_id;
	`
	rows, err := r.DB.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance: %w", err)
	}
	defer rows.Close()

	var report []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string
		err := rows.Scan(
			&row.AccountID,
			&row.AccountName,
			&accountType,
			&row.CurrencyCode,
			&row.DebitTotal,
			&row.CreditTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		switch row.AccountType {
		case domain.Asset, domain.Expense:
			row.Balance = row.DebitTotal.Sub(row.CreditTotal)
		default:
			row.Balance = row.CreditTotal.Sub(row.DebitTotal)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating trial balance rows: %w", err)
	}
	return report, nil
}
