package dbmodels

import "time"

// User учетная запись соискателя
type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"type:varchar(128)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
