package teacher

import (
	"github.com/sahilchouksey/secure-notes-api/services"
	"github.com/sahilchouksey/secure-notes-api/utils/validation"
	"gorm.io/gorm"
)

// TeacherHandler handles teacher endpoints: assigned subjects, student
// rosters, module management, and note uploads
type TeacherHandler struct {
	db            *gorm.DB
	accessService *services.AccessService
	moduleService *services.ModuleService
	noteService   *services.NoteService
	validator     *validation.Validator
	maxUploadMB   int
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(db *gorm.DB, access *services.AccessService, modules *services.ModuleService, notes *services.NoteService, maxUploadMB int) *TeacherHandler {
	return &TeacherHandler{
		db:            db,
		accessService: access,
		moduleService: modules,
		noteService:   notes,
		validator:     validation.NewValidator(),
		maxUploadMB:   maxUploadMB,
	}
}
