package model

import (
	"time"

	"gorm.io/gorm"
)

// Module represents a folder-like grouping of notes within a subject.
// Modules nest through ParentID, but SubjectID is stored on every module
// regardless of depth so access checks never need to walk the parent chain.
// This denormalization is intentional; do not derive the subject from ancestors.
type Module struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	SubjectID   uint           `gorm:"not null;index" json:"subject_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	ParentID    *uint          `gorm:"index" json:"parent_id,omitempty"` // Nested folders; nil means root level
	Order       int            `gorm:"default:0" json:"order"`
	CreatedByID uint           `gorm:"not null;index" json:"created_by"`

	// Relationships
	Subject   Subject  `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"subject,omitempty"`
	Parent    *Module  `gorm:"foreignKey:ParentID" json:"-"`
	Children  []Module `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	CreatedBy User     `gorm:"foreignKey:CreatedByID" json:"created_by_user,omitempty"`
	Notes     []Note   `gorm:"foreignKey:ModuleID" json:"notes,omitempty"`
}

// IsRoot reports whether the module is a top-level folder
func (m *Module) IsRoot() bool {
	return m.ParentID == nil
}
