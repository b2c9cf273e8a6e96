package dbmysql

import "time"

type User struct {
	UserID       uint64    `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Name         string    `gorm:"not null;size:100" json:"name"`
	Email        string    `gorm:"not null;uniqueIndex;size:255" json:"email"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	Role         string    `gorm:"default:'member';size:50" json:"role"`
	Status       string    `gorm:"default:'active';size:20" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
