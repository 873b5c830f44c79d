package models

import "time"

// Base contains common columns for all tables. Deletion semantics differ per
// model (businesses are hard-deleted, categories are archived via IsActive),
// so there is no shared soft-delete column here.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
