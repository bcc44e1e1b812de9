package models

import "time"

const (
	RoleOwner   = "owner"
	RolePartner = "partner"
)

type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Email              string    `gorm:"not null" json:"email"`
	PasswordHash       string    `gorm:"not null" json:"-"`
	Role               string    `gorm:"not null;default:owner" json:"role"`
	MustChangePassword bool      `gorm:"not null;default:false" json:"must_change_password"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
}
