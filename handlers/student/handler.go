package student

import (
	"github.com/sahilchouksey/secure-notes-api/services"
	"github.com/sahilchouksey/secure-notes-api/utils/validation"
	"gorm.io/gorm"
)

// StudentHandler handles student endpoints: scoped subject browsing, the
// secure document viewer, and progress tracking
type StudentHandler struct {
	db              *gorm.DB
	accessService   *services.AccessService
	moduleService   *services.ModuleService
	noteService     *services.NoteService
	deliveryService *services.DeliveryService
	progressService *services.ProgressService
	validator       *validation.Validator
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(
	db *gorm.DB,
	access *services.AccessService,
	modules *services.ModuleService,
	notes *services.NoteService,
	delivery *services.DeliveryService,
	progress *services.ProgressService,
) *StudentHandler {
	return &StudentHandler{
		db:              db,
		accessService:   access,
		moduleService:   modules,
		noteService:     notes,
		deliveryService: delivery,
		progressService: progress,
		validator:       validation.NewValidator(),
	}
}
