package entity

import (
	"fmt"
	"time"
)

// Equipment is a bookable instrument. Status is the operational flag: a
// booking may only be created while the equipment is running.
type Equipment struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Brand       string    `json:"brand,omitempty" db:"brand"`
	Model       string    `json:"model,omitempty" db:"model"`
	AdminID     int64     `json:"admin_id" db:"admin_id"`
	Status      bool      `json:"status" db:"status"`
	Modified    time.Time `json:"modified" db:"modified"`

	// UserIDs хранит список допущенных пользователей (equipment_users)
	UserIDs []int64 `json:"user_ids,omitempty" db:"-"`
}

// IsAuthorized reports whether the user is on the equipment's access list.
// The equipment admin and superusers are checked separately by the caller.
func (e *Equipment) IsAuthorized(userID int64) bool {
	for _, id := range e.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (e *Equipment) AdminURL() string {
	return fmt.Sprintf("/admin/equipment/%d", e.ID)
}
