package entity

import (
	"fmt"
	"time"
)

// ServiceRecord documents a maintenance job on equipment. A maintenance
// event links to exactly one service record.
type ServiceRecord struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	EquipmentID int64     `json:"equipment_id" db:"equipment_id"`
	Job         string    `json:"job" db:"job"`
	Completed   bool      `json:"completed" db:"completed"`
	Success     bool      `json:"success" db:"success"`
	Notes       string    `json:"notes,omitempty" db:"notes"`
	Date        time.Time `json:"date" db:"date"`
}

// ShortJob returns a shortened job title for list display.
func (s *ServiceRecord) ShortJob() string {
	if len(s.Job) <= 40 {
		return s.Job
	}
	return s.Job[:40]
}

func (s *ServiceRecord) AdminURL() string {
	return fmt.Sprintf("/admin/services/%d", s.ID)
}
