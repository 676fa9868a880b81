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

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

const equipmentColumns = `id, name, description, brand, model, admin_id, status, modified`

func scanEquipment(row interface{ Scan(...interface{}) error }) (*entity.Equipment, error) {
	var eq entity.Equipment
	err := row.Scan(
		&eq.ID,
		&eq.Name,
		&eq.Description,
		&eq.Brand,
		&eq.Model,
		&eq.AdminID,
		&eq.Status,
		&eq.Modified,
	)
	if err != nil {
		return nil, err
	}
	return &eq, nil
}

// GetByID retrieves an equipment with its authorized user list
func (r *equipmentRepository) GetByID(ctx context.Context, id int64) (*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`

	eq, err := scanEquipment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to get equipment: %v", err)
	}

	if err := r.loadUsers(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}

func (r *equipmentRepository) GetByName(ctx context.Context, name string) (*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE name = $1`

	eq, err := scanEquipment(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to get equipment: %v", err)
	}

	if err := r.loadUsers(ctx, eq); err != nil {
		return nil, err
	}
	return eq, nil
}

func (r *equipmentRepository) GetAll(ctx context.Context) ([]*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment list: %v", err)
	}
	defer rows.Close()

	var list []*entity.Equipment
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %v", err)
		}
		list = append(list, eq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate equipment: %v", err)
	}

	for _, eq := range list {
		if err := r.loadUsers(ctx, eq); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// SetStatus flips the online flag. Takedown cascades (cancel live bookings)
// are the service layer's job.
func (r *equipmentRepository) SetStatus(ctx context.Context, id int64, status bool) error {
	query := `UPDATE equipment SET status = $1, modified = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update equipment status: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return entity.ErrEquipmentNotFound
	}
	return nil
}

// AddUser grants a user booking access to the equipment
func (r *equipmentRepository) AddUser(ctx context.Context, equipmentID, userID int64) error {
	query := `INSERT INTO equipment_users (equipment_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, equipmentID, userID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return entity.ErrUserNotFound
		}
		return fmt.Errorf("failed to grant equipment access: %v", err)
	}
	return nil
}

func (r *equipmentRepository) loadUsers(ctx context.Context, eq *entity.Equipment) error {
	query := `SELECT user_id FROM equipment_users WHERE equipment_id = $1 ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query, eq.ID)
	if err != nil {
		return fmt.Errorf("failed to get equipment users: %v", err)
	}
	defer rows.Close()

	eq.UserIDs = eq.UserIDs[:0]
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan equipment user: %v", err)
		}
		eq.UserIDs = append(eq.UserIDs, id)
	}
	return rows.Err()
}
