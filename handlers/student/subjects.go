package student

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/services"
	"github.com/sahilchouksey/secure-notes-api/utils/middleware"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
	"github.com/sahilchouksey/secure-notes-api/utils/validation"
)

// ListSubjects returns the subjects in the student's branch+semester scope.
// An unplaced student gets an empty list, not an error.
func (h *StudentHandler) ListSubjects(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	subjects, err := h.accessService.ScopedSubjects(user)
	if err != nil {
		return response.InternalServerError(c, "Failed to load subjects")
	}
	return response.Success(c, subjects)
}

// noteWithProgress decorates a note with the student's progress state
type noteWithProgress struct {
	model.Note
	Viewed    bool `json:"viewed"`
	Completed bool `json:"completed"`
}

// GetSubject returns one in-scope subject with its module tree
func (h *StudentHandler) GetSubject(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	subject, err := h.accessService.AuthorizeSubject(user, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrAccessDenied) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to load subject")
	}

	modules, err := h.moduleService.TreeForSubject(subject.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load modules")
	}

	return response.Success(c, fiber.Map{
		"subject": subject,
		"modules": modules,
	})
}

// ListModuleNotes returns a module's notes decorated with the student's
// progress state
func (h *StudentHandler) ListModuleNotes(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid module ID")
	}

	mod, err := h.accessService.AuthorizeModule(user, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrAccessDenied) {
			return response.NotFound(c, "Module not found")
		}
		return response.InternalServerError(c, "Failed to load module")
	}

	notes, err := h.noteService.ForModule(mod.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load notes")
	}

	noteIDs := make([]uint, 0, len(notes))
	for _, note := range notes {
		noteIDs = append(noteIDs, note.ID)
	}
	progressByNote, err := h.progressService.ForNotes(user.ID, noteIDs)
	if err != nil {
		return response.InternalServerError(c, "Failed to load progress")
	}

	decorated := make([]noteWithProgress, 0, len(notes))
	for _, note := range notes {
		entry := noteWithProgress{Note: note}
		if progress, ok := progressByNote[note.ID]; ok {
			entry.Viewed = true
			entry.Completed = progress.Completed
		}
		decorated = append(decorated, entry)
	}

	return response.Success(c, decorated)
}

// SearchNotes searches note titles within the student's scope
func (h *StudentHandler) SearchNotes(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	query := validation.SanitizeString(c.Query("q"))
	if query == "" {
		return response.BadRequest(c, "Search query is required")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	notes, err := h.noteService.Search(user, query, limit)
	if err != nil {
		return response.InternalServerError(c, "Search failed")
	}
	return response.Success(c, notes)
}
