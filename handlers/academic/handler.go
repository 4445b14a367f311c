package academic

import (
	"github.com/sahilchouksey/secure-notes-api/utils/validation"
	"gorm.io/gorm"
)

// AcademicHandler manages the branch/semester/section/subject hierarchy.
// All mutations are admin-only; listing is open to any authenticated user
// so registration forms can present the available placements.
type AcademicHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewAcademicHandler creates a new academic handler
func NewAcademicHandler(db *gorm.DB) *AcademicHandler {
	return &AcademicHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}
