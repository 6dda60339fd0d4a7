package models

import "time"

// AdminUser spiegelt einen Identity-Datensatz für das Admin-Login und die
// Benutzerliste im Dashboard.
type AdminUser struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	UID          string `json:"uid" gorm:"uniqueIndex;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	DisplayName  string `json:"display_name,omitempty"`
	PasswordHash string `json:"-" gorm:"not null"`
}

// TableName gibt explizit den Tabellennamen an.
func (AdminUser) TableName() string {
	return "users"
}
