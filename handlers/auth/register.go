package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/database"
	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/utils/auth"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
	"github.com/sahilchouksey/secure-notes-api/utils/validation"
)

// RegisterRequest represents a user registration request. Self-registration
// only covers students and teachers; admin accounts come from bootstrap or
// from an existing admin.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Role       string `json:"role" validate:"required,oneof=student teacher"`
	BranchID   *uint  `json:"branch_id"`
	SemesterID *uint  `json:"semester_id"`
	SectionID  *uint  `json:"section_id"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Email = strings.ToLower(validation.SanitizeString(req.Email))
	req.Name = validation.SanitizeString(req.Name)

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if ok, errs := validation.ValidatePassword(req.Password); !ok {
		return response.BadRequest(c, strings.Join(errs, "; "))
	}

	// Referenced placement rows must exist
	if req.BranchID != nil {
		var branch model.Branch
		if err := h.db.First(&branch, *req.BranchID).Error; err != nil {
			return response.BadRequest(c, "Branch does not exist")
		}
	}
	if req.SemesterID != nil {
		var semester model.Semester
		if err := h.db.First(&semester, *req.SemesterID).Error; err != nil {
			return response.BadRequest(c, "Semester does not exist")
		}
	}
	if req.SectionID != nil {
		var section model.Section
		if err := h.db.First(&section, *req.SectionID).Error; err != nil {
			return response.BadRequest(c, "Section does not exist")
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	user := model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		BranchID:     req.BranchID,
		SemesterID:   req.SemesterID,
		SectionID:    req.SectionID,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return response.Conflict(c, "An account with this email already exists")
		}
		return response.InternalServerError(c, "Failed to create account")
	}

	return response.Created(c, NewUserResponse(&user))
}
