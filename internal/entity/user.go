package entity

import "time"

type User struct {
	ID         int64     `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	Email      string    `json:"email" db:"email"`
	TelegramID string    `json:"telegram_id,omitempty" db:"telegram_id"`
	Superuser  bool      `json:"superuser" db:"superuser"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// IsPrivileged is the single capability check consumed by the validator and
// the authorization layer. Role logic lives here and nowhere else.
func (u *User) IsPrivileged() bool {
	if u == nil {
		return false
	}
	return u.Superuser
}
