package model

import (
	"time"

	"gorm.io/gorm"
)

// Note represents a single uploaded PDF document within a module.
// StorageKey is the rewritten on-disk (or object-store) reference; it is an
// implementation detail and must never be serialized to clients.
type Note struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"uploaded_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	TeacherID   uint           `gorm:"not null;index" json:"teacher_id"`
	ModuleID    uint           `gorm:"not null;index" json:"module_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	StorageKey  string         `gorm:"not null" json:"-"`
	FileSize    int64          `gorm:"default:0" json:"file_size"` // in bytes
	PageCount   int            `gorm:"default:0" json:"page_count"`
	Order       int            `gorm:"default:0" json:"order"`

	// Relationships
	Teacher User   `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Module  Module `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"module,omitempty"`
}

// Progress is the per-student, per-note view/completion marker.
// At most one row exists per (student, note); views and completion toggles
// upsert against the composite unique index.
type Progress struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	StudentID   uint           `gorm:"not null;uniqueIndex:idx_progress_student_note" json:"student_id"`
	NoteID      uint           `gorm:"not null;uniqueIndex:idx_progress_student_note" json:"note_id"`
	Completed   bool           `gorm:"default:false" json:"completed"`
	ViewedAt    time.Time      `json:"viewed_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`

	// Relationships
	Student User `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Note    Note `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"note,omitempty"`
}
