package item

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresRepository is the Postgres-backed item store.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const itemColumns = "id, owner_id, name, description, available, version, created_at, updated_at"

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	i := &Item{}
	err := r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1
	`, id).Scan(&i.ID, &i.OwnerID, &i.Name, &i.Description, &i.Available, &i.Version, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return i, nil
}

func (r *PostgresRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]Item, error) {
	return r.list(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID)
}

func (r *PostgresRepository) Save(ctx context.Context, i *Item) (*Item, error) {
	saved := *i
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO items (id, owner_id, name, description, available, version)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, i.ID, i.OwnerID, i.Name, i.Description, i.Available, i.Version).Scan(&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return &saved, nil
}

func (r *PostgresRepository) Update(ctx context.Context, i *Item) (*Item, error) {
	saved := *i
	err := r.db.QueryRowContext(ctx, `
		UPDATE items
		SET name = $1, description = $2, available = $3, version = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING created_at, updated_at
	`, i.Name, i.Description, i.Available, i.Version, i.ID).Scan(&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return &saved, nil
}

func (r *PostgresRepository) Search(ctx context.Context, text string) ([]Item, error) {
	return r.list(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE available = TRUE
		AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY created_at ASC
	`, text)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.OwnerID, &i.Name, &i.Description, &i.Available, &i.Version, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}
