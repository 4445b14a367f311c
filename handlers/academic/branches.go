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

// BranchRequest represents a branch create/update request
type BranchRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Code string `json:"code" validate:"required,min=2,max=20"`
}

// ListBranches returns all branches ordered by name
func (h *AcademicHandler) ListBranches(c *fiber.Ctx) error {
	var branches []model.Branch
	if err := h.db.Order("name ASC").Find(&branches).Error; err != nil {
		return response.InternalServerError(c, "Failed to load branches")
	}
	return response.Success(c, branches)
}

// CreateBranch creates a new branch. Codes are stored uppercase.
func (h *AcademicHandler) CreateBranch(c *fiber.Ctx) error {
	var req BranchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Name = validation.SanitizeString(req.Name)
	req.Code = strings.ToUpper(validation.SanitizeString(req.Code))
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	branch := model.Branch{Name: req.Name, Code: req.Code}
	if err := h.db.Create(&branch).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return response.Conflict(c, "A branch with this name or code already exists")
		}
		return response.InternalServerError(c, "Failed to create branch")
	}
	return response.Created(c, branch)
}

// UpdateBranch updates a branch's name and code
func (h *AcademicHandler) UpdateBranch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid branch ID")
	}

	var req BranchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Name = validation.SanitizeString(req.Name)
	req.Code = strings.ToUpper(validation.SanitizeString(req.Code))
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	var branch model.Branch
	if err := h.db.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to load branch")
	}

	branch.Name = req.Name
	branch.Code = req.Code
	if err := h.db.Save(&branch).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return response.Conflict(c, "A branch with this name or code already exists")
		}
		return response.InternalServerError(c, "Failed to update branch")
	}
	return response.Success(c, branch)
}

// DeleteBranch deletes a branch. Branches that still carry subjects or
// sections are protected.
func (h *AcademicHandler) DeleteBranch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid branch ID")
	}

	var branch model.Branch
	if err := h.db.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to load branch")
	}

	var subjectCount int64
	if err := h.db.Model(&model.Subject{}).Where("branch_id = ?", branch.ID).Count(&subjectCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check branch usage")
	}
	if subjectCount > 0 {
		return response.Conflict(c, "Branch still has subjects")
	}

	var sectionCount int64
	if err := h.db.Model(&model.Section{}).Where("branch_id = ?", branch.ID).Count(&sectionCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check branch usage")
	}
	if sectionCount > 0 {
		return response.Conflict(c, "Branch still has sections")
	}

	if err := h.db.Delete(&branch).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete branch")
	}
	return response.SuccessWithMessage(c, "Branch deleted", nil)
}
