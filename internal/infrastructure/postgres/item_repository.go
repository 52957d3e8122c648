package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"finch/internal/domain/item"
	"finch/internal/infrastructure/crypto"
)

// ItemRepository persists items. Access tokens are encrypted before they
// touch the database and decrypted on the way out; rows never hold the
// plaintext credential.
type ItemRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

var _ item.Repository = (*ItemRepository)(nil)

func NewItemRepository(db *DB, encryptor *crypto.Encryptor) *ItemRepository {
	return &ItemRepository{db: db, encryptor: encryptor}
}

func (r *ItemRepository) Create(ctx context.Context, params item.CreateItemParams) (*item.Item, error) {
	encryptedToken, err := r.encryptor.Encrypt(params.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	query := `
		INSERT INTO items (id, user_id, access_token, provider_item_id, institution_id, institution_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, access_token, provider_item_id, institution_id, institution_name, cursor, created_at, updated_at
	`

	it, err := r.scanItem(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), params.UserID, encryptedToken,
		params.ProviderItemID, params.InstitutionID, params.InstitutionName,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return it, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*item.Item, error) {
	query := `
		SELECT id, user_id, access_token, provider_item_id, institution_id, institution_name, cursor, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	it, err := r.scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return it, nil
}

func (r *ItemRepository) ListByUserID(ctx context.Context, userID string) ([]*item.Item, error) {
	query := `
		SELECT id, user_id, access_token, provider_item_id, institution_id, institution_name, cursor, created_at, updated_at
		FROM items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*item.Item
	for rows.Next() {
		it, err := r.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) ListAll(ctx context.Context) ([]*item.Item, error) {
	query := `
		SELECT id, user_id, access_token, provider_item_id, institution_id, institution_name, cursor, created_at, updated_at
		FROM items
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*item.Item
	for rows.Next() {
		it, err := r.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) GetCursor(ctx context.Context, id string) (*string, error) {
	query := `SELECT cursor FROM items WHERE id = $1`

	var cursor sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&cursor)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cursor: %w", err)
	}

	if !cursor.Valid {
		return nil, nil // Never synced
	}
	return &cursor.String, nil
}

func (r *ItemRepository) SetCursor(ctx context.Context, id string, cursor string) error {
	query := `
		UPDATE items
		SET cursor = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, cursor, id)
	if err != nil {
		return fmt.Errorf("failed to set cursor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("item %s not found", id)
	}

	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ItemRepository) scanItem(row rowScanner) (*item.Item, error) {
	var it item.Item
	var cursor sql.NullString

	err := row.Scan(
		&it.ID, &it.UserID, &it.AccessToken, &it.ProviderItemID,
		&it.InstitutionID, &it.InstitutionName, &cursor,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cursor.Valid {
		it.Cursor = &cursor.String
	}

	decrypted, err := r.encryptor.Decrypt(it.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	it.AccessToken = decrypted

	return &it, nil
}
