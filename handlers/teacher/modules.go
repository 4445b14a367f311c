package teacher

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/services"
	"github.com/sahilchouksey/secure-notes-api/utils/middleware"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
	"github.com/sahilchouksey/secure-notes-api/utils/validation"
)

// CreateModuleRequest represents a module create request
type CreateModuleRequest struct {
	SubjectID   uint   `json:"subject_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=2,max=150"`
	Description string `json:"description" validate:"max=2000"`
	ParentID    *uint  `json:"parent_id"`
	Order       int    `json:"order" validate:"gte=0"`
}

// UpdateModuleRequest represents a module update request
type UpdateModuleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ParentID    *uint   `json:"parent_id"`
	ClearParent bool    `json:"clear_parent"`
	Order       *int    `json:"order"`
}

// CreateModule creates a module under an assigned subject
func (h *TeacherHandler) CreateModule(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Title = validation.SanitizeString(req.Title)
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	mod, err := h.moduleService.Create(user, req.SubjectID, req.Title, req.Description, req.ParentID, req.Order)
	if err != nil {
		return h.mapModuleError(c, err)
	}
	return response.Created(c, mod)
}

// UpdateModule updates a module the teacher administers
func (h *TeacherHandler) UpdateModule(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid module ID")
	}

	var req UpdateModuleRequest
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

	mod, err := h.moduleService.Update(user, uint(id), req.Title, req.Description, req.ParentID, req.ClearParent, req.Order)
	if err != nil {
		return h.mapModuleError(c, err)
	}
	return response.Success(c, mod)
}

// DeleteModule deletes an empty module the teacher administers
func (h *TeacherHandler) DeleteModule(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid module ID")
	}

	if err := h.moduleService.Delete(user, uint(id)); err != nil {
		return h.mapModuleError(c, err)
	}
	return response.SuccessWithMessage(c, "Module deleted", nil)
}

// mapModuleError translates module service errors to HTTP responses
func (h *TeacherHandler) mapModuleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, "Module not found")
	case errors.Is(err, services.ErrNotAssigned):
		return response.Forbidden(c, "You are not assigned to this subject")
	case errors.Is(err, services.ErrInvalidParent):
		return response.BadRequest(c, "Parent must be a top-level module of the same subject")
	case errors.Is(err, services.ErrHasChildren):
		return response.Conflict(c, "Module still has child modules")
	case errors.Is(err, services.ErrHasNotes):
		return response.Conflict(c, "Module still has notes")
	default:
		return response.InternalServerError(c, "Module operation failed")
	}
}
