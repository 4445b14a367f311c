package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);not null" json:"role"` // admin, teacher, student
	TokenVersion int            `gorm:"default:0" json:"-"`                    // Increment to invalidate all user tokens

	// Academic placement. Only teachers and students carry these; admins never do.
	BranchID   *uint `gorm:"index" json:"branch_id,omitempty"`
	SemesterID *uint `gorm:"index" json:"semester_id,omitempty"`
	SectionID  *uint `gorm:"index" json:"section_id,omitempty"`

	// Relationships
	Branch   *Branch   `gorm:"foreignKey:BranchID;constraint:OnDelete:SET NULL" json:"branch,omitempty"`
	Semester *Semester `gorm:"foreignKey:SemesterID;constraint:OnDelete:SET NULL" json:"semester,omitempty"`
	Section  *Section  `gorm:"foreignKey:SectionID;constraint:OnDelete:SET NULL" json:"section,omitempty"`
}

// IsPlaced reports whether the user has a complete branch/semester placement.
// Students without a placement see no content; this is not an error condition.
func (u *User) IsPlaced() bool {
	return u.BranchID != nil && u.SemesterID != nil
}

// IsValidRole checks a role string against the known roles
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleTeacher || role == RoleStudent
}
