package admin

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
)

// ListAuditLogs returns the admin audit trail, newest first, optionally
// filtered by admin, action, or resource
func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	query := h.db.Model(&model.AdminAuditLog{})
	if adminID, err := strconv.ParseUint(c.Query("admin_id"), 10, 32); err == nil {
		query = query.Where("admin_id = ?", adminID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count audit logs")
	}

	var logs []model.AdminAuditLog
	err := query.Preload("Admin").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load audit logs")
	}

	return response.Paginated(c, logs, response.CalculatePagination(page, limit, total))
}
