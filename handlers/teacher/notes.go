package teacher

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/services"
	"github.com/sahilchouksey/secure-notes-api/utils/middleware"
	"github.com/sahilchouksey/secure-notes-api/utils/pdfvalidation"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
	"github.com/sahilchouksey/secure-notes-api/utils/validation"
)

// UploadNote handles a multipart PDF upload into a module. The file is
// validated as a real PDF (header, page count, size) before anything is
// written to storage.
func (h *TeacherHandler) UploadNote(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	moduleID, err := strconv.ParseUint(c.FormValue("module_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "module_id is required")
	}

	title := validation.SanitizeString(c.FormValue("title"))
	if len(title) < 2 {
		return response.BadRequest(c, "Title must be at least 2 characters")
	}
	description := validation.SanitizeString(c.FormValue("description"))

	order := 0
	if parsed, err := strconv.Atoi(c.FormValue("order")); err == nil && parsed >= 0 {
		order = parsed
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "A PDF file is required")
	}

	limits := pdfvalidation.NotesLimits
	limits.MaxFileSizeMB = h.maxUploadMB
	result, err := pdfvalidation.ValidatePDFFile(fileHeader, limits)
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	if !result.Valid {
		return response.BadRequest(c, result.Error)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}

	note, err := h.noteService.Upload(c.Context(), user, services.UploadInput{
		ModuleID:    uint(moduleID),
		Title:       title,
		Description: description,
		Order:       order,
		Filename:    fileHeader.Filename,
		Content:     content,
		PageCount:   result.PageCount,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Module not found")
		case errors.Is(err, services.ErrNotAssigned):
			return response.Forbidden(c, "You are not assigned to this subject")
		default:
			return response.InternalServerError(c, "Failed to store note")
		}
	}

	return response.Created(c, note)
}

// UpdateNoteRequest represents a note metadata update
type UpdateNoteRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

// UpdateNote updates a note's metadata
func (h *TeacherHandler) UpdateNote(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid note ID")
	}

	var req UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Title != nil {
		title := validation.SanitizeString(*req.Title)
		if len(title) < 2 {
			return response.BadRequest(c, "Title must be at least 2 characters")
		}
		req.Title = &title
	}

	note, err := h.noteService.UpdateMetadata(user, uint(id), req.Title, req.Description, req.Order)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Note not found")
		case errors.Is(err, services.ErrNotAssigned):
			return response.Forbidden(c, "You are not assigned to this subject")
		default:
			return response.InternalServerError(c, "Failed to update note")
		}
	}
	return response.Success(c, note)
}

// DeleteNote removes a note and its stored document
func (h *TeacherHandler) DeleteNote(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid note ID")
	}

	if err := h.noteService.Delete(c.Context(), user, uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return response.NotFound(c, "Note not found")
		case errors.Is(err, services.ErrNotAssigned):
			return response.Forbidden(c, "You are not assigned to this subject")
		default:
			return response.InternalServerError(c, "Failed to delete note")
		}
	}
	return response.SuccessWithMessage(c, "Note deleted", nil)
}

// ListModuleNotes returns the notes in a module the teacher can access
func (h *TeacherHandler) ListModuleNotes(c *fiber.Ctx) error {
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
	return response.Success(c, notes)
}

// SearchNotes searches note titles within the teacher's assigned subjects
func (h *TeacherHandler) SearchNotes(c *fiber.Ctx) error {
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
