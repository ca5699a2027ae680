package models

import "time"

// Account is a directory entry as stored in the accounts table.
type Account struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Active reports whether the account may mark itself present.
func (a Account) Active() bool {
	return a.IsActive && a.DeletedAt == nil
}
