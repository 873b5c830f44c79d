package models

// BusinessDocument is a file attached to a business. Rows are removed by the
// database cascade when the owning business is deleted.
type BusinessDocument struct {
	Base
	BusinessID   uint   `gorm:"not null;index" json:"businessId"`
	Filename     string `gorm:"not null" json:"filename"`
	OriginalName string `gorm:"not null" json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}
