package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/database"
	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/utils/auth"
	"github.com/sahilchouksey/secure-notes-api/utils/middleware"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
	"github.com/sahilchouksey/secure-notes-api/utils/validation"
	"gorm.io/gorm"
)

// CreateUserRequest represents an admin-created user
type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Role       string `json:"role" validate:"required,oneof=admin teacher student"`
	BranchID   *uint  `json:"branch_id"`
	SemesterID *uint  `json:"semester_id"`
	SectionID  *uint  `json:"section_id"`
}

// UpdateUserRequest represents an admin user update. All fields are
// optional; placement fields can be cleared with explicit nulls via the
// Clear* flags.
type UpdateUserRequest struct {
	Name           *string `json:"name"`
	Role           *string `json:"role"`
	BranchID       *uint   `json:"branch_id"`
	SemesterID     *uint   `json:"semester_id"`
	SectionID      *uint   `json:"section_id"`
	ClearPlacement bool    `json:"clear_placement"`
}

// ListUsers returns users with pagination, optionally filtered by role or
// an email/name search term
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&model.User{})
	if role := c.Query("role"); role != "" {
		if !model.IsValidRole(role) {
			return response.BadRequest(c, "Invalid role filter")
		}
		query = query.Where("role = ?", role)
	}
	if search := validation.SanitizeString(c.Query("search")); search != "" {
		term := "%" + search + "%"
		query = query.Where("email ILIKE ? OR name ILIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}

	var users []model.User
	err := query.Preload("Branch").Preload("Semester").Preload("Section").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load users")
	}

	return response.Paginated(c, users, response.CalculatePagination(page, limit, total))
}

// GetUser returns one user with placement preloaded
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var user model.User
	err = h.db.Preload("Branch").Preload("Semester").Preload("Section").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}
	return response.Success(c, user)
}

// CreateUser creates a user with any role, including admin
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Email = strings.ToLower(validation.SanitizeString(req.Email))
	req.Name = validation.SanitizeString(req.Name)
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.validatePlacement(req.BranchID, req.SemesterID, req.SectionID); err != nil {
		return response.BadRequest(c, err.Error())
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
		return response.InternalServerError(c, "Failed to create user")
	}
	return response.Created(c, user)
}

// UpdateUser updates a user's name, role, or placement. Role and placement
// changes invalidate the user's outstanding tokens so stale scope claims
// cannot be replayed.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	scopeChanged := false

	if req.Name != nil {
		name := validation.SanitizeString(*req.Name)
		if len(name) < 2 {
			return response.BadRequest(c, "Name must be at least 2 characters")
		}
		user.Name = name
	}

	if req.Role != nil {
		if !model.IsValidRole(*req.Role) {
			return response.BadRequest(c, "Invalid role")
		}
		if user.Role != *req.Role {
			user.Role = *req.Role
			scopeChanged = true
		}
	}

	if req.ClearPlacement {
		user.BranchID = nil
		user.SemesterID = nil
		user.SectionID = nil
		scopeChanged = true
	} else if req.BranchID != nil || req.SemesterID != nil || req.SectionID != nil {
		branchID := user.BranchID
		semesterID := user.SemesterID
		sectionID := user.SectionID
		if req.BranchID != nil {
			branchID = req.BranchID
		}
		if req.SemesterID != nil {
			semesterID = req.SemesterID
		}
		if req.SectionID != nil {
			sectionID = req.SectionID
		}
		if err := h.validatePlacement(branchID, semesterID, sectionID); err != nil {
			return response.BadRequest(c, err.Error())
		}
		user.BranchID = branchID
		user.SemesterID = semesterID
		user.SectionID = sectionID
		scopeChanged = true
	}

	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update user")
	}

	if scopeChanged {
		if err := h.blacklistService.RevokeAllUserTokens(c.Context(), user.ID); err != nil {
			return response.InternalServerError(c, "Failed to revoke user sessions")
		}
	}

	return response.Success(c, user)
}

// DeleteUser deletes a user account. Admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	adminID, _ := middleware.GetUserID(c)
	if adminID == uint(id) {
		return response.BadRequest(c, "You cannot delete your own account")
	}

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	if err := h.blacklistService.RevokeAllUserTokens(c.Context(), user.ID); err != nil {
		return response.InternalServerError(c, "Failed to revoke user sessions")
	}

	if err := h.db.Delete(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete user")
	}
	return response.SuccessWithMessage(c, "User deleted", nil)
}

// validatePlacement checks that referenced placement rows exist and that the
// section (if set) belongs to the same branch+semester
func (h *AdminHandler) validatePlacement(branchID, semesterID, sectionID *uint) error {
	if branchID != nil {
		var branch model.Branch
		if err := h.db.First(&branch, *branchID).Error; err != nil {
			return errors.New("branch does not exist")
		}
	}
	if semesterID != nil {
		var semester model.Semester
		if err := h.db.First(&semester, *semesterID).Error; err != nil {
			return errors.New("semester does not exist")
		}
	}
	if sectionID != nil {
		var section model.Section
		if err := h.db.First(&section, *sectionID).Error; err != nil {
			return errors.New("section does not exist")
		}
		if branchID == nil || semesterID == nil {
			return errors.New("section requires branch and semester")
		}
		if section.BranchID != *branchID || section.SemesterID != *semesterID {
			return errors.New("section does not belong to the given branch and semester")
		}
	}
	return nil
}
