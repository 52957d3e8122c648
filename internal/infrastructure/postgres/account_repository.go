package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finch/internal/domain/account"
)

type AccountRepository struct {
	db *DB
}

var _ account.Repository = (*AccountRepository)(nil)

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, params account.CreateAccountParams) (*account.Account, error) {
	query := `
		INSERT INTO accounts (id, item_id, provider_account_id, name, mask, balance)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, item_id, provider_account_id, name, mask, balance, created_at, updated_at
	`

	var balance decimal.NullDecimal
	if params.Balance != nil {
		balance = decimal.NullDecimal{Decimal: *params.Balance, Valid: true}
	}

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), params.ItemID, params.ProviderAccountID,
		params.Name, params.Mask, balance,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return acc, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT id, item_id, provider_account_id, name, mask, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

func (r *AccountRepository) ListByItemID(ctx context.Context, itemID string) ([]*account.Account, error) {
	query := `
		SELECT id, item_id, provider_account_id, name, mask, balance, created_at, updated_at
		FROM accounts
		WHERE item_id = $1
		ORDER BY name
	`

	return r.list(ctx, query, itemID)
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID string) ([]*account.Account, error) {
	query := `
		SELECT a.id, a.item_id, a.provider_account_id, a.name, a.mask, a.balance, a.created_at, a.updated_at
		FROM accounts a
		JOIN items i ON i.id = a.item_id
		WHERE i.user_id = $1
		ORDER BY a.name
	`

	return r.list(ctx, query, userID)
}

func (r *AccountRepository) UpdateName(ctx context.Context, id string, name string) (*account.Account, error) {
	query := `
		UPDATE accounts
		SET name = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING id, item_id, provider_account_id, name, mask, balance, created_at, updated_at
	`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, name, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return acc, nil
}

// Delete removes the account and, inside the same database transaction,
// removes the parent item when no accounts remain under it.
func (r *AccountRepository) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID string
	err = tx.QueryRowContext(ctx, `DELETE FROM accounts WHERE id = $1 RETURNING item_id`, id).Scan(&itemID)
	if err == sql.ErrNoRows {
		return false, sql.ErrNoRows
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}

	var remaining int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE item_id = $1`, itemID).Scan(&remaining)
	if err != nil {
		return false, fmt.Errorf("failed to count remaining accounts: %w", err)
	}

	itemRemoved := false
	if remaining == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, itemID); err != nil {
			return false, fmt.Errorf("failed to delete orphaned item: %w", err)
		}
		itemRemoved = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit account deletion: %w", err)
	}

	return itemRemoved, nil
}

func (r *AccountRepository) list(ctx context.Context, query string, args ...any) ([]*account.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

func scanAccount(row rowScanner) (*account.Account, error) {
	var acc account.Account
	var mask sql.NullString
	var balance decimal.NullDecimal

	err := row.Scan(
		&acc.ID, &acc.ItemID, &acc.ProviderAccountID, &acc.Name,
		&mask, &balance, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if mask.Valid {
		acc.Mask = &mask.String
	}
	if balance.Valid {
		acc.Balance = &balance.Decimal
	}

	return &acc, nil
}
