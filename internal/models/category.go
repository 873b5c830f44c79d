package models

// Category is a business classification. Categories referenced by at least
// one business are archived (IsActive cleared) instead of deleted so that
// historical records keep a valid reference.
type Category struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	NameEnglish string `json:"nameEnglish,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	Businesses []Business `gorm:"foreignKey:CategoryID" json:"businesses,omitempty"`
}
