package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresRepository is the Postgres-backed booking store. Reads join the
// items and users tables so each booking carries fresh snapshots.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const bookingSelect = `
	SELECT b.id, b.start_at, b.end_at, b.status, b.version, b.created_at,
	       i.id, i.owner_id, i.name, i.description, i.available, i.version, i.created_at, i.updated_at,
	       u.id, u.name, u.email, u.version, u.created_at, u.updated_at
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id
`

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = $1`, id)

	b, err := scanBooking(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query booking: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Save(ctx context.Context, b *Booking) (*Booking, error) {
	saved := *b
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bookings (id, item_id, booker_id, start_at, end_at, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, b.ID, b.Item.ID, b.Booker.ID, b.Start, b.End, b.Status, b.Version).Scan(&saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return &saved, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, version int) (*Booking, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = $1, version = $2, updated_at = NOW()
		WHERE id = $3
	`, status, version, id)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *PostgresRepository) ByBooker(ctx context.Context, bookerID uuid.UUID, state State, now time.Time) ([]Booking, error) {
	return r.list(ctx, `b.booker_id = $1`, bookerID, state, now)
}

func (r *PostgresRepository) ByItemOwner(ctx context.Context, ownerID uuid.UUID, state State, now time.Time) ([]Booking, error) {
	return r.list(ctx, `i.owner_id = $1`, ownerID, state, now)
}

func (r *PostgresRepository) list(ctx context.Context, scope string, id uuid.UUID, state State, now time.Time) ([]Booking, error) {
	query := bookingSelect + ` WHERE ` + scope
	args := []any{id}

	switch state {
	case StateAll:
		// no extra predicate
	case StatePast:
		query += ` AND b.end_at < $2`
		args = append(args, now)
	case StateCurrent:
		query += ` AND b.start_at <= $2 AND b.end_at >= $2`
		args = append(args, now)
	case StateFuture:
		query += ` AND b.start_at > $2`
		args = append(args, now)
	case StateWaiting:
		query += ` AND b.status = $2`
		args = append(args, StatusWaiting)
	case StateRejected:
		query += ` AND b.status = $2`
		args = append(args, StatusRejected)
	default:
		return nil, fmt.Errorf("unknown state %q", state)
	}

	query += ` ORDER BY b.start_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*Booking, error) {
	b := &Booking{}
	err := row.Scan(
		&b.ID, &b.Start, &b.End, &b.Status, &b.Version, &b.CreatedAt,
		&b.Item.ID, &b.Item.OwnerID, &b.Item.Name, &b.Item.Description, &b.Item.Available,
		&b.Item.Version, &b.Item.CreatedAt, &b.Item.UpdatedAt,
		&b.Booker.ID, &b.Booker.Name, &b.Booker.Email,
		&b.Booker.Version, &b.Booker.CreatedAt, &b.Booker.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}
