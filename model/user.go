package model

import (
	"fmt"

	"gorm.io/gorm"
)

// User represents an account of any role
// @Description Account information
type User struct {
	gorm.Model
	Username       string `json:"username" gorm:"column:username;type:varchar(150);uniqueIndex;not null" example:"alice"`
	Password       string `json:"-" gorm:"column:password;type:varchar(255);not null"`
	PasswordSalt   string `json:"-" gorm:"column:password_salt;type:varchar(64)"`
	Role           Role   `json:"role" gorm:"column:role;type:varchar(50);not null" example:"patient"`
	FailedAttempts int    `json:"-" gorm:"column:failed_attempts;default:0"`
	LockedUntil    *int64 `json:"-" gorm:"column:locked_until"`
}

// DefaultAdminUsername and DefaultAdminPassword are the credentials of the
// account seeded on first boot. The password is expected to be rotated
// after the first login.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// HashFunc hashes a plain password and returns the encoded hash and the salt.
type HashFunc func(plain string) (hashed string, salt string, err error)

// SeedAdmin ensures exactly one admin account exists. It is idempotent: if
// any admin-role user is already present it does nothing, otherwise it
// creates the default admin account with the provided hash function.
func SeedAdmin(db *gorm.DB, hash HashFunc) error {
	var existing User
	err := db.Where("role = ?", RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, salt, err := hash(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := User{
		Username:     DefaultAdminUsername,
		Password:     hashed,
		PasswordSalt: salt,
		Role:         RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	return nil
}
