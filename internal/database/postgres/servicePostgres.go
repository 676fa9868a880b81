package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ds124wfegd/bookit/internal/entity"
)

type serviceRepository struct {
	db *sql.DB
}

func NewServiceRepository(db *sql.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

const serviceColumns = `id, user_id, equipment_id, job, completed, success, notes, date`

func (r *serviceRepository) Create(ctx context.Context, record *entity.ServiceRecord) error {
	query := `
		INSERT INTO services (user_id, equipment_id, job, completed, success, notes, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	if record.Date.IsZero() {
		record.Date = time.Now()
	}
	err := r.db.QueryRowContext(ctx, query,
		record.UserID,
		record.EquipmentID,
		record.Job,
		record.Completed,
		record.Success,
		record.Notes,
		record.Date,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to create service record: %v", err)
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id int64) (*entity.ServiceRecord, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	var s entity.ServiceRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.EquipmentID, &s.Job, &s.Completed, &s.Success, &s.Notes, &s.Date,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service record: %v", err)
	}
	return &s, nil
}

func (r *serviceRepository) GetByEquipment(ctx context.Context, equipmentID int64) ([]*entity.ServiceRecord, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE equipment_id = $1 ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service records: %v", err)
	}
	defer rows.Close()

	var records []*entity.ServiceRecord
	for rows.Next() {
		var s entity.ServiceRecord
		if err := rows.Scan(&s.ID, &s.UserID, &s.EquipmentID, &s.Job, &s.Completed, &s.Success, &s.Notes, &s.Date); err != nil {
			return nil, fmt.Errorf("failed to scan service record: %v", err)
		}
		records = append(records, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate service records: %v", err)
	}
	return records, nil
}

func (r *serviceRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	return r.setFlag(ctx, id, "completed", completed)
}

func (r *serviceRepository) SetSuccess(ctx context.Context, id int64, success bool) error {
	return r.setFlag(ctx, id, "success", success)
}

func (r *serviceRepository) setFlag(ctx context.Context, id int64, column string, value bool) error {
	query := fmt.Sprintf(`UPDATE services SET %s = $1 WHERE id = $2`, column)

	result, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("failed to update service record: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return entity.ErrServiceNotFound
	}
	return nil
}
