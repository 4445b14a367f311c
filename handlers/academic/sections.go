package academic

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/database"
	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
	"github.com/sahilchouksey/secure-notes-api/utils/validation"
	"gorm.io/gorm"
)

// SectionRequest represents a section create request
type SectionRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=20"`
	BranchID   uint   `json:"branch_id" validate:"required"`
	SemesterID uint   `json:"semester_id" validate:"required"`
}

// ListSections returns sections, optionally filtered by branch and semester
func (h *AcademicHandler) ListSections(c *fiber.Ctx) error {
	query := h.db.Preload("Branch").Preload("Semester").Order("name ASC")

	if branchID, err := strconv.ParseUint(c.Query("branch_id"), 10, 32); err == nil {
		query = query.Where("branch_id = ?", branchID)
	}
	if semesterID, err := strconv.ParseUint(c.Query("semester_id"), 10, 32); err == nil {
		query = query.Where("semester_id = ?", semesterID)
	}

	var sections []model.Section
	if err := query.Find(&sections).Error; err != nil {
		return response.InternalServerError(c, "Failed to load sections")
	}
	return response.Success(c, sections)
}

// CreateSection creates a section within a branch+semester
func (h *AcademicHandler) CreateSection(c *fiber.Ctx) error {
	var req SectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Name = strings.ToUpper(validation.SanitizeString(req.Name))
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	var branch model.Branch
	if err := h.db.First(&branch, req.BranchID).Error; err != nil {
		return response.BadRequest(c, "Branch does not exist")
	}
	var semester model.Semester
	if err := h.db.First(&semester, req.SemesterID).Error; err != nil {
		return response.BadRequest(c, "Semester does not exist")
	}

	section := model.Section{
		Name:       req.Name,
		BranchID:   req.BranchID,
		SemesterID: req.SemesterID,
	}
	if err := h.db.Create(&section).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return response.Conflict(c, "This section already exists for the branch and semester")
		}
		return response.InternalServerError(c, "Failed to create section")
	}
	return response.Created(c, section)
}

// DeleteSection deletes a section with no placed students
func (h *AcademicHandler) DeleteSection(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid section ID")
	}

	var section model.Section
	if err := h.db.First(&section, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Section not found")
		}
		return response.InternalServerError(c, "Failed to load section")
	}

	var studentCount int64
	if err := h.db.Model(&model.User{}).Where("section_id = ?", section.ID).Count(&studentCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check section usage")
	}
	if studentCount > 0 {
		return response.Conflict(c, "Section still has placed students")
	}

	if err := h.db.Delete(&section).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete section")
	}
	return response.SuccessWithMessage(c, "Section deleted", nil)
}
