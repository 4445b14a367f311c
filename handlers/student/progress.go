package student

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/utils/middleware"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
)

// ProgressSummary returns per-subject progress counts across the student's
// scoped subjects
func (h *StudentHandler) ProgressSummary(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	subjects, err := h.accessService.ScopedSubjects(user)
	if err != nil {
		return response.InternalServerError(c, "Failed to load subjects")
	}

	summaries, err := h.progressService.SummaryForSubjects(user.ID, subjects)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute progress")
	}
	return response.Success(c, summaries)
}

// RecentNotes returns the student's most recently viewed notes
func (h *StudentHandler) RecentNotes(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	recent, err := h.progressService.RecentlyViewed(user.ID, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to load recent notes")
	}
	return response.Success(c, recent)
}
