package admin

import (
	"github.com/sahilchouksey/secure-notes-api/utils/auth"
	"github.com/sahilchouksey/secure-notes-api/utils/validation"
	"gorm.io/gorm"
)

// AdminHandler handles admin-only endpoints: user management, subject
// assignments, platform statistics, and the audit trail
type AdminHandler struct {
	db               *gorm.DB
	blacklistService *auth.BlacklistService
	validator        *validation.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		db:               db,
		blacklistService: auth.NewBlacklistService(db),
		validator:        validation.NewValidator(),
	}
}
