package model

import (
	"time"

	"gorm.io/gorm"
)

// Branch represents an academic program track (e.g., Computer Science)
type Branch struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null;uniqueIndex:idx_branches_name,where:deleted_at IS NULL" json:"name"`
	Code      string         `gorm:"not null;type:varchar(20);uniqueIndex:idx_branches_code,where:deleted_at IS NULL" json:"code"` // CSE, ISE, ECE, etc. Always uppercase.
}

// Semester represents one of eight sequential academic terms
type Semester struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Number    int            `gorm:"not null;uniqueIndex:idx_semesters_number,where:deleted_at IS NULL" json:"number"` // 1..8
}

// Section represents a named student sub-group within a branch+semester
type Section struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Name       string         `gorm:"not null;uniqueIndex:idx_sections_name_branch_semester,where:deleted_at IS NULL" json:"name"` // A, B, C, etc.
	BranchID   uint           `gorm:"not null;uniqueIndex:idx_sections_name_branch_semester" json:"branch_id"`
	SemesterID uint           `gorm:"not null;uniqueIndex:idx_sections_name_branch_semester" json:"semester_id"`

	// Relationships
	Branch   Branch   `gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE" json:"branch,omitempty"`
	Semester Semester `gorm:"foreignKey:SemesterID;constraint:OnDelete:CASCADE" json:"semester,omitempty"`
}
