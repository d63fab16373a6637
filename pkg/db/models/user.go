package models

import (
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/google/uuid"
)

// User is a console operator account.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	Name         string         `gorm:"column:name;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;type:user_role;not null;default:'operator'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
