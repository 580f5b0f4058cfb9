package models

import "time"

// User is the database row shape of a user.
type User struct {
	UserID        string
	Email         string
	Name          string
	PasswordHash  string
	Role          string
	DepartmentID  *string
	IsActive      bool
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
	DeletedAt     *time.Time
}
