package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/ds124wfegd/bookit/internal/entity"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `
	id, user_id, equipment_id, start_time, end_time, elapsed_hours,
	status, notes, disassemble, maintenance, expired, service_id,
	created_at, updated_at
`

func scanEvent(row interface{ Scan(...interface{}) error }) (*entity.Event, error) {
	var event entity.Event
	err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.EquipmentID,
		&event.StartTime,
		&event.EndTime,
		&event.ElapsedHours,
		&event.Status,
		&event.Notes,
		&event.Disassemble,
		&event.Maintenance,
		&event.Expired,
		&event.ServiceID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetByID retrieves an event by its ID
func (r *eventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %v", err)
	}
	return event, nil
}

// GetByEquipment retrieves all events of an equipment, oldest first.
// Используется для публичной ленты календаря.
func (r *eventRepository) GetByEquipment(ctx context.Context, equipmentID int64) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE equipment_id = $1 ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %v", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// GetByEquipmentMonth retrieves events of an equipment that start inside the
// given month.
func (r *eventRepository) GetByEquipmentMonth(ctx context.Context, equipmentID int64, year int, month time.Month) ([]*entity.Event, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE equipment_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, equipmentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get month events: %v", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// SaveWithConflictCheck validates and persists an event in one transaction.
// The equipment row is locked first, so two simultaneous bookings of the same
// equipment cannot both pass the overlap check. Maintenance overlaps are
// force-canceled; regular overlaps abort with entity.ConflictError.
func (r *eventRepository) SaveWithConflictCheck(ctx context.Context, event *entity.Event, prior *entity.Event, privileged bool) ([]*entity.Event, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	// Блокируем строку оборудования — сериализует конкурирующие брони
	var equipmentStatus bool
	query := `SELECT status FROM equipment WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, event.EquipmentID).Scan(&equipmentStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to lock equipment: %v", err)
	}

	// Candidate conflicts: live bookings touching the proposed interval.
	// Closed-interval overlap, so end_time >= start and start_time <= end.
	query = `SELECT ` + eventColumns + `
		FROM events
		WHERE equipment_id = $1
		  AND expired = FALSE
		  AND status IN ('active', 'hold')
		  AND end_time >= $2 AND start_time <= $3`

	rows, err := tx.QueryContext(ctx, query, event.EquipmentID, event.StartTime, event.EndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to get overlapping events: %v", err)
	}
	existing, err := collectEvents(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	equipment := &entity.Equipment{ID: event.EquipmentID, Status: equipmentStatus}
	conflicts, err := entity.ValidateEvent(event, prior, equipment, existing, time.Now(), privileged)
	if err != nil {
		return nil, err
	}

	if len(conflicts) > 0 {
		ids := make([]int64, 0, len(conflicts))
		for _, c := range conflicts {
			ids = append(ids, c.ID)
		}
		query = `UPDATE events SET status = 'canceled', updated_at = $1 WHERE id = ANY($2)`
		if _, err := tx.ExecContext(ctx, query, time.Now(), pq.Array(ids)); err != nil {
			return nil, fmt.Errorf("failed to cancel conflicting events: %v", err)
		}
	}

	now := time.Now()
	if event.ID == 0 {
		query = `
			INSERT INTO events (
				user_id, equipment_id, start_time, end_time, elapsed_hours,
				status, notes, disassemble, maintenance, expired, service_id,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id
		`
		err = tx.QueryRowContext(ctx, query,
			event.UserID,
			event.EquipmentID,
			event.StartTime,
			event.EndTime,
			event.ElapsedHours,
			event.Status,
			event.Notes,
			event.Disassemble,
			event.Maintenance,
			event.Expired,
			event.ServiceID,
			now,
			now,
		).Scan(&event.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create event: %v", err)
		}
		event.CreatedAt = now
	} else {
		query = `
			UPDATE events SET
				start_time = $1, end_time = $2, elapsed_hours = $3,
				status = $4, notes = $5, disassemble = $6,
				maintenance = $7, service_id = $8, updated_at = $9
			WHERE id = $10
		`
		if _, err := tx.ExecContext(ctx, query,
			event.StartTime,
			event.EndTime,
			event.ElapsedHours,
			event.Status,
			event.Notes,
			event.Disassemble,
			event.Maintenance,
			event.ServiceID,
			now,
			event.ID,
		); err != nil {
			return nil, fmt.Errorf("failed to update event: %v", err)
		}
	}
	event.UpdatedAt = now

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return conflicts, nil
}

// Delete removes an event permanently
func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM events WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEventNotFound
	}
	return nil
}

// MarkExpired flags events whose end time passed. Status is preserved so the
// calendar can still distinguish canceled entries.
func (r *eventRepository) MarkExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `UPDATE events SET expired = TRUE, updated_at = $1 WHERE expired = FALSE AND end_time < $2`

	result, err := r.db.ExecContext(ctx, query, time.Now(), before)
	if err != nil {
		return 0, fmt.Errorf("failed to mark expired events: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %v", err)
	}
	return rowsAffected, nil
}

// GetStartingBetween retrieves live bookings of online equipment that start
// inside the window. Используется воркером утренних напоминаний.
func (r *eventRepository) GetStartingBetween(ctx context.Context, from, to time.Time) ([]*entity.Event, error) {
	query := `SELECT
			e.id, e.user_id, e.equipment_id, e.start_time, e.end_time, e.elapsed_hours,
			e.status, e.notes, e.disassemble, e.maintenance, e.expired, e.service_id,
			e.created_at, e.updated_at
		FROM events e
		JOIN equipment eq ON eq.id = e.equipment_id
		WHERE e.start_time >= $1 AND e.start_time < $2
		  AND e.status IN ('active', 'hold')
		  AND e.expired = FALSE
		  AND eq.status = TRUE
		ORDER BY e.start_time`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming events: %v", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// GetNextBooking returns the nearest live booking of an equipment after the
// given moment, or nil when the calendar is free.
func (r *eventRepository) GetNextBooking(ctx context.Context, equipmentID int64, after time.Time) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE equipment_id = $1
		  AND start_time > $2
		  AND status IN ('active', 'hold')
		  AND expired = FALSE
		ORDER BY start_time
		LIMIT 1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, equipmentID, after))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next booking: %v", err)
	}
	return event, nil
}

func collectEvents(rows *sql.Rows) ([]*entity.Event, error) {
	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %v", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %v", err)
	}
	return events, nil
}
