package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/restaurant-api/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository using
// SQLite. All availability-checked writes run inside a transaction so the
// decision and the mutation are atomic with respect to concurrent bookings.
type ReservationRepository struct {
	pool   *ConnectionPool
	loc    *time.Location
	logger *slog.Logger
}

// NewReservationRepository creates a reservation repository. The location
// determines how reservation instants group into calendar date keys.
func NewReservationRepository(pool *ConnectionPool, loc *time.Location, logger *slog.Logger) *ReservationRepository {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReservationRepository{pool: pool, loc: loc, logger: logger}
}

const reservationColumns = `id, date, people, reason, type, slot, name, email, phone, created_at, updated_at`

// CreateIfAvailable inserts the reservation after the decision function
// accepts it against the same-date records, all within one transaction.
func (r *ReservationRepository) CreateIfAvailable(ctx context.Context, reservation persistence.Reservation, decide persistence.AvailabilityFunc) error {
	if reservation.ID == "" {
		return persistence.ErrConstraintViolation
	}

	dateKey := reservation.Date.In(r.loc).Format("2006-01-02")

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if decide != nil {
			existing, err := r.listByDateKeyTx(ctx, tx, dateKey, "")
			if err != nil {
				return err
			}
			if err := decide(existing); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO reservations (id, date, date_key, people, reason, type, slot, name, email, phone, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query,
			reservation.ID,
			reservation.Date.Format(time.RFC3339),
			dateKey,
			reservation.People,
			reservation.Reason,
			reservation.Type,
			nullString(reservation.Slot),
			reservation.Name,
			reservation.Email,
			reservation.Phone,
			reservation.CreatedAt.Format(time.RFC3339),
			reservation.UpdatedAt.Format(time.RFC3339),
		)
		return mapError(err)
	})
}

// UpdateIfAvailable rewrites an existing reservation after the decision
// function accepts it against the other records on the target date.
func (r *ReservationRepository) UpdateIfAvailable(ctx context.Context, reservation persistence.Reservation, decide persistence.AvailabilityFunc) error {
	if reservation.ID == "" {
		return persistence.ErrConstraintViolation
	}

	dateKey := reservation.Date.In(r.loc).Format("2006-01-02")

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if decide != nil {
			// The record being edited must not count against itself.
			existing, err := r.listByDateKeyTx(ctx, tx, dateKey, reservation.ID)
			if err != nil {
				return err
			}
			if err := decide(existing); err != nil {
				return err
			}
		}

		query := `
			UPDATE reservations
			SET date = ?, date_key = ?, people = ?, reason = ?, type = ?, slot = ?, name = ?, email = ?, phone = ?, updated_at = ?
			WHERE id = ?
		`
		result, err := tx.ExecContext(ctx, query,
			reservation.Date.Format(time.RFC3339),
			dateKey,
			reservation.People,
			reservation.Reason,
			reservation.Type,
			nullString(reservation.Slot),
			reservation.Name,
			reservation.Email,
			reservation.Phone,
			reservation.UpdatedAt.Format(time.RFC3339),
			reservation.ID,
		)
		if err != nil {
			return mapError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

// GetReservation retrieves a reservation by ID.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	row := r.pool.DB().QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id,
	)

	reservation, err := r.scanReservation(row.Scan)
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}
	return reservation, nil
}

// ListReservations returns reservations matching the filter, ordered by date
// then creation time.
func (r *ReservationRepository) ListReservations(ctx context.Context, filter persistence.ReservationFilter) ([]persistence.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations`
	args := make([]any, 0, 3)
	where := ""

	appendClause := func(clause string, arg any) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
		args = append(args, arg)
	}

	if filter.DateKey != "" {
		appendClause("date_key = ?", filter.DateKey)
	}
	if filter.From != nil {
		appendClause("date >= ?", filter.From.Format(time.RFC3339))
	}
	if filter.Until != nil {
		appendClause("date < ?", filter.Until.Format(time.RFC3339))
	}

	rows, err := r.pool.DB().QueryContext(ctx, query+where+` ORDER BY date, created_at, id`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return r.collectReservations(ctx, rows)
}

// DeleteReservation removes a reservation by ID.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *ReservationRepository) listByDateKeyTx(ctx context.Context, tx *sql.Tx, dateKey, excludeID string) ([]persistence.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE date_key = ?`
	args := []any{dateKey}
	if excludeID != "" {
		query += ` AND id != ?`
		args = append(args, excludeID)
	}

	rows, err := tx.QueryContext(ctx, query+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return r.collectReservations(ctx, rows)
}

// collectReservations scans rows, skipping records whose stored timestamps no
// longer parse. Such rows are logged and dropped rather than failing the read.
func (r *ReservationRepository) collectReservations(ctx context.Context, rows *sql.Rows) ([]persistence.Reservation, error) {
	reservations := make([]persistence.Reservation, 0)
	for rows.Next() {
		reservation, err := r.scanReservation(rows.Scan)
		if err != nil {
			r.logger.WarnContext(ctx, "skipping unreadable reservation row", "error", err)
			continue
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return reservations, nil
}

func (r *ReservationRepository) scanReservation(scan func(dest ...any) error) (persistence.Reservation, error) {
	var (
		reservation persistence.Reservation
		date        string
		slot        sql.NullString
		createdAt   string
		updatedAt   string
	)

	if err := scan(
		&reservation.ID,
		&date,
		&reservation.People,
		&reservation.Reason,
		&reservation.Type,
		&slot,
		&reservation.Name,
		&reservation.Email,
		&reservation.Phone,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Reservation{}, err
	}

	parsedDate, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return persistence.Reservation{}, fmt.Errorf("unparseable reservation date %q: %w", date, err)
	}
	reservation.Date = parsedDate.In(r.loc)

	if reservation.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Reservation{}, fmt.Errorf("unparseable created_at %q: %w", createdAt, err)
	}
	if reservation.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Reservation{}, fmt.Errorf("unparseable updated_at %q: %w", updatedAt, err)
	}

	if slot.Valid {
		value := slot.String
		reservation.Slot = &value
	}
	return reservation, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
