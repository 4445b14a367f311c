package academic

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/database"
	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
	"gorm.io/gorm"
)

// SemesterRequest represents a semester create request
type SemesterRequest struct {
	Number int `json:"number" validate:"required,gte=1,lte=8"`
}

// ListSemesters returns all semesters ordered by number
func (h *AcademicHandler) ListSemesters(c *fiber.Ctx) error {
	var semesters []model.Semester
	if err := h.db.Order("number ASC").Find(&semesters).Error; err != nil {
		return response.InternalServerError(c, "Failed to load semesters")
	}
	return response.Success(c, semesters)
}

// CreateSemester creates a semester with a number between 1 and 8
func (h *AcademicHandler) CreateSemester(c *fiber.Ctx) error {
	var req SemesterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	semester := model.Semester{Number: req.Number}
	if err := h.db.Create(&semester).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return response.Conflict(c, "This semester already exists")
		}
		return response.InternalServerError(c, "Failed to create semester")
	}
	return response.Created(c, semester)
}

// DeleteSemester deletes a semester that no subject or section references
func (h *AcademicHandler) DeleteSemester(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid semester ID")
	}

	var semester model.Semester
	if err := h.db.First(&semester, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Semester not found")
		}
		return response.InternalServerError(c, "Failed to load semester")
	}

	var subjectCount int64
	if err := h.db.Model(&model.Subject{}).Where("semester_id = ?", semester.ID).Count(&subjectCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check semester usage")
	}
	if subjectCount > 0 {
		return response.Conflict(c, "Semester still has subjects")
	}

	var sectionCount int64
	if err := h.db.Model(&model.Section{}).Where("semester_id = ?", semester.ID).Count(&sectionCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check semester usage")
	}
	if sectionCount > 0 {
		return response.Conflict(c, "Semester still has sections")
	}

	if err := h.db.Delete(&semester).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete semester")
	}
	return response.SuccessWithMessage(c, "Semester deleted", nil)
}
