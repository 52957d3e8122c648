package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"finch/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

var _ transaction.Repository = (*TransactionRepository)(nil)

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, account_id, provider_transaction_id, amount, name, merchant_name,
		       category, date, authorized_date, pending, iso_currency_code, created_at, updated_at`

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1
	`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.list(ctx, query, accountID, limit, offset)
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*transaction.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.provider_transaction_id, t.amount, t.name, t.merchant_name,
		       t.category, t.date, t.authorized_date, t.pending, t.iso_currency_code, t.created_at, t.updated_at
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN items i ON i.id = a.item_id
		WHERE i.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.list(ctx, query, userID, limit, offset)
}

// UpsertByProviderID inserts a transaction keyed by its provider id, or
// updates the mutable fields when the row already exists. Category is
// deliberately left untouched on update so local categorization survives
// provider re-delivery.
func (r *TransactionRepository) UpsertByProviderID(ctx context.Context, params transaction.UpsertTransactionParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, account_id, provider_transaction_id, amount, name, merchant_name,
		                          category, date, authorized_date, pending, iso_currency_code)
		VALUES ($1, $2, $3, $4, $5, $6, '{}', $7, $8, $9, $10)
		ON CONFLICT (provider_transaction_id) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			amount = EXCLUDED.amount,
			name = EXCLUDED.name,
			merchant_name = EXCLUDED.merchant_name,
			date = EXCLUDED.date,
			authorized_date = EXCLUDED.authorized_date,
			pending = EXCLUDED.pending,
			iso_currency_code = EXCLUDED.iso_currency_code,
			updated_at = CURRENT_TIMESTAMP
		RETURNING ` + transactionColumns

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), params.AccountID, params.ProviderTransactionID,
		params.Amount, params.Name, params.MerchantName,
		params.Date, params.AuthorizedDate, params.Pending, params.ISOCurrencyCode,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert transaction: %w", err)
	}

	return txn, nil
}

func (r *TransactionRepository) DeleteByProviderID(ctx context.Context, providerTransactionID string) error {
	query := `DELETE FROM transactions WHERE provider_transaction_id = $1`

	// Zero rows affected is fine: removing an absent transaction is a no-op.
	if _, err := r.db.ExecContext(ctx, query, providerTransactionID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	return nil
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var txn transaction.Transaction
	var merchantName, currencyCode sql.NullString
	var authorizedDate sql.NullTime

	err := row.Scan(
		&txn.ID, &txn.AccountID, &txn.ProviderTransactionID, &txn.Amount,
		&txn.Name, &merchantName, pq.Array(&txn.Category), &txn.Date,
		&authorizedDate, &txn.Pending, &currencyCode,
		&txn.CreatedAt, &txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if merchantName.Valid {
		txn.MerchantName = &merchantName.String
	}
	if authorizedDate.Valid {
		txn.AuthorizedDate = &authorizedDate.Time
	}
	if currencyCode.Valid {
		txn.ISOCurrencyCode = &currencyCode.String
	}
	if txn.Category == nil {
		txn.Category = []string{}
	}

	return &txn, nil
}
