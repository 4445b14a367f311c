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

// SubjectRequest represents a subject create/update request
type SubjectRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=150"`
	Code        string `json:"code" validate:"required,min=2,max=50"`
	BranchID    uint   `json:"branch_id" validate:"required"`
	SemesterID  uint   `json:"semester_id" validate:"required"`
	Description string `json:"description" validate:"max=2000"`
}

// ListSubjects returns subjects with pagination, optionally filtered by
// branch and semester. This is the admin view; teachers and students get
// scoped listings from their own endpoints.
func (h *AcademicHandler) ListSubjects(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&model.Subject{})
	if branchID, err := strconv.ParseUint(c.Query("branch_id"), 10, 32); err == nil {
		query = query.Where("branch_id = ?", branchID)
	}
	if semesterID, err := strconv.ParseUint(c.Query("semester_id"), 10, 32); err == nil {
		query = query.Where("semester_id = ?", semesterID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count subjects")
	}

	var subjects []model.Subject
	err := query.Preload("Branch").Preload("Semester").
		Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&subjects).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load subjects")
	}

	return response.Paginated(c, subjects, response.CalculatePagination(page, limit, total))
}

// GetSubject returns one subject with its relationships
func (h *AcademicHandler) GetSubject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var subject model.Subject
	err = h.db.Preload("Branch").Preload("Semester").First(&subject, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to load subject")
	}
	return response.Success(c, subject)
}

// CreateSubject creates a subject scoped to one branch+semester
func (h *AcademicHandler) CreateSubject(c *fiber.Ctx) error {
	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Name = validation.SanitizeString(req.Name)
	req.Code = strings.ToUpper(validation.SanitizeString(req.Code))
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

	subject := model.Subject{
		Name:        req.Name,
		Code:        req.Code,
		BranchID:    req.BranchID,
		SemesterID:  req.SemesterID,
		Description: req.Description,
	}
	if err := h.db.Create(&subject).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return response.Conflict(c, "A subject with this code already exists for the branch and semester")
		}
		return response.InternalServerError(c, "Failed to create subject")
	}
	return response.Created(c, subject)
}

// UpdateSubject updates a subject. The branch and semester scope is fixed
// at creation; moving a subject would silently re-scope all of its content.
func (h *AcademicHandler) UpdateSubject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var subject model.Subject
	if err := h.db.First(&subject, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to load subject")
	}

	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Name = validation.SanitizeString(req.Name)
	req.Code = strings.ToUpper(validation.SanitizeString(req.Code))
	req.BranchID = subject.BranchID
	req.SemesterID = subject.SemesterID
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	subject.Name = req.Name
	subject.Code = req.Code
	subject.Description = req.Description
	if err := h.db.Save(&subject).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return response.Conflict(c, "A subject with this code already exists for the branch and semester")
		}
		return response.InternalServerError(c, "Failed to update subject")
	}
	return response.Success(c, subject)
}

// DeleteSubject deletes a subject with no modules
func (h *AcademicHandler) DeleteSubject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var subject model.Subject
	if err := h.db.First(&subject, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to load subject")
	}

	var moduleCount int64
	if err := h.db.Model(&model.Module{}).Where("subject_id = ?", subject.ID).Count(&moduleCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check subject usage")
	}
	if moduleCount > 0 {
		return response.Conflict(c, "Subject still has modules")
	}

	if err := h.db.Delete(&subject).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete subject")
	}
	return response.SuccessWithMessage(c, "Subject deleted", nil)
}
