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

// BootstrapAdminRequest creates the first admin account
type BootstrapAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

// BootstrapAdmin creates the initial admin account. It only works while no
// admin exists; once one does, the endpoint is permanently closed and new
// admins come from existing admins.
func (h *AuthHandler) BootstrapAdmin(c *fiber.Ctx) error {
	var count int64
	if err := h.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to check admin accounts")
	}
	if count > 0 {
		return response.Forbidden(c, "An admin account already exists")
	}

	var req BootstrapAdminRequest
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

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	admin := model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         model.RoleAdmin,
	}
	if err := h.db.Create(&admin).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return response.Conflict(c, "An account with this email already exists")
		}
		return response.InternalServerError(c, "Failed to create admin account")
	}

	return response.Created(c, NewUserResponse(&admin))
}
