package model

import (
	"time"

	"gorm.io/gorm"
)

// Subject represents a course scoped to exactly one branch+semester pair.
// The (BranchID, SemesterID) pair is the scoping key used by access control:
// every module and note beneath a subject inherits it transitively.
type Subject struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Code        string         `gorm:"not null;uniqueIndex:idx_subjects_code_branch_semester,where:deleted_at IS NULL;type:varchar(50)" json:"code"` // CS201, etc.
	BranchID    uint           `gorm:"not null;uniqueIndex:idx_subjects_code_branch_semester" json:"branch_id"`
	SemesterID  uint           `gorm:"not null;uniqueIndex:idx_subjects_code_branch_semester" json:"semester_id"`
	Description string         `gorm:"type:text" json:"description"`

	// Relationships
	Branch   Branch   `gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE" json:"branch,omitempty"`
	Semester Semester `gorm:"foreignKey:SemesterID;constraint:OnDelete:CASCADE" json:"semester,omitempty"`
	Modules  []Module `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

// SubjectAssignment grants a teacher administration rights over one subject.
// The unique index covers live rows only, so a revoked pairing can be granted
// again without tripping it.
type SubjectAssignment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	TeacherID uint           `gorm:"not null;uniqueIndex:idx_subject_assignments_teacher_subject,where:deleted_at IS NULL" json:"teacher_id"`
	SubjectID uint           `gorm:"not null;uniqueIndex:idx_subject_assignments_teacher_subject,where:deleted_at IS NULL" json:"subject_id"`

	// Relationships
	Teacher User    `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"teacher,omitempty"`
	Subject Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"subject,omitempty"`
}

// TeacherAssignment pairs a student with a mentoring teacher. Used only for
// grouping views; it plays no part in content scoping.
type TeacherAssignment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	StudentID uint           `gorm:"not null;uniqueIndex:idx_teacher_assignments_student_teacher,where:deleted_at IS NULL" json:"student_id"`
	TeacherID uint           `gorm:"not null;uniqueIndex:idx_teacher_assignments_student_teacher,where:deleted_at IS NULL" json:"teacher_id"`

	// Relationships
	Student User `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Teacher User `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"teacher,omitempty"`
}
