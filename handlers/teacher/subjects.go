package teacher

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/services"
	"github.com/sahilchouksey/secure-notes-api/utils/middleware"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
)

// ListSubjects returns the subjects assigned to the current teacher
func (h *TeacherHandler) ListSubjects(c *fiber.Ctx) error {
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

// GetSubject returns one assigned subject with its module tree
func (h *TeacherHandler) GetSubject(c *fiber.Ctx) error {
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

// ListStudents returns the students placed in one of the teacher's assigned
// subjects' branch+semester scope, grouped by section
func (h *TeacherHandler) ListStudents(c *fiber.Ctx) error {
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

	var students []model.User
	err = h.db.Preload("Section").
		Where("role = ? AND branch_id = ? AND semester_id = ?", model.RoleStudent, subject.BranchID, subject.SemesterID).
		Order("name ASC").
		Find(&students).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load students")
	}

	return response.Success(c, students)
}
