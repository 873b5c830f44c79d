package models

// UserRole is the staff role assigned to a registry operator.
type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleWorker UserRole = "WORKER"
)

// User represents a staff operator of the registry.
type User struct {
	Base
	Username string   `gorm:"uniqueIndex;not null" json:"username"`
	Email    string   `json:"email,omitempty"`
	Password string   `gorm:"not null" json:"-"`
	Role     UserRole `gorm:"not null;default:WORKER" json:"role"`
	FullName string   `json:"fullName,omitempty"`
	IsActive bool     `gorm:"default:true" json:"isActive"`

	Businesses []Business `gorm:"foreignKey:CreatedByID" json:"businesses,omitempty"`
}
