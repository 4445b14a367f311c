package student

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/services"
	"github.com/sahilchouksey/secure-notes-api/utils/middleware"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
)

// ViewNote streams a note's PDF inline to an authorized student and records
// the view. The response carries a fixed content type and a generic
// filename; neither the storage key nor the original upload name ever
// reaches the client.
func (h *StudentHandler) ViewNote(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid note ID")
	}

	result, err := h.deliveryService.Open(c.Context(), user, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrAccessDenied):
			return response.NotFound(c, "Note not found")
		case errors.Is(err, services.ErrStorageMissing):
			return response.NotFound(c, "Document is no longer available")
		default:
			return response.InternalServerError(c, "Failed to open document")
		}
	}

	if err := h.progressService.RecordView(user.ID, result.Note.ID); err != nil {
		result.Content.Close()
		return response.InternalServerError(c, "Failed to record view")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="note.pdf"`)
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Set("Pragma", "no-cache")
	c.Set("Expires", "0")
	c.Set("X-Content-Type-Options", "nosniff")
	c.Set("Cross-Origin-Resource-Policy", "cross-origin")

	// SendStream closes the reader when the response finishes
	return c.SendStream(result.Content, int(result.Size))
}

// CompleteRequest toggles a note's completion state
type CompleteRequest struct {
	Completed bool `json:"completed"`
}

// CompleteNote marks an authorized note as completed or not completed
func (h *StudentHandler) CompleteNote(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid note ID")
	}

	req := CompleteRequest{Completed: true}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	note, err := h.accessService.AuthorizeNote(user, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrAccessDenied) {
			return response.NotFound(c, "Note not found")
		}
		return response.InternalServerError(c, "Failed to load note")
	}

	progress, err := h.progressService.SetCompleted(user.ID, note.ID, req.Completed)
	if err != nil {
		return response.InternalServerError(c, "Failed to update progress")
	}
	return response.Success(c, progress)
}
