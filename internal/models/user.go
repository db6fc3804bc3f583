package models

import (
	"time"
)

type UserRole string

const (
	RoleMahasiswa UserRole = "Mahasiswa"
	RoleDosen     UserRole = "Dosen"
	RoleTamu      UserRole = "Tamu"
)

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Name     string   `json:"name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:150"`
	Password string   `json:"-" gorm:"not null"`
	Role     UserRole `json:"role" gorm:"not null;size:20"`

	// Academic info, only set for Mahasiswa
	Prodi *string `json:"prodi" gorm:"size:255"`
	NIM   *string `json:"nim" gorm:"uniqueIndex;size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsMahasiswa reports whether the user may own academic profile fields.
func (u *User) IsMahasiswa() bool {
	return u.Role == RoleMahasiswa
}
