package middleware

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Credential fields that must never land in the audit trail
var redactedFields = []string{"password", "new_password", "current_password", "refresh_token"}

// redactDetails strips credential fields from a request body snapshot.
// Bodies that are not JSON objects are dropped rather than stored raw.
func redactDetails(body []byte) datatypes.JSON {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	for _, field := range redactedFields {
		if _, ok := payload[field]; ok {
			payload[field] = "[REDACTED]"
		}
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return datatypes.JSON(out)
}

// AdminAuditLog records admin mutations to the audit trail. It runs the
// handler first and only logs when the handler succeeded with a 2xx status.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Snapshot the request body before the handler consumes it
		var details datatypes.JSON
		if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut {
			if body := c.Body(); len(body) > 0 {
				details = redactDetails(body)
			}
		}

		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() >= 300 {
			return nil
		}

		adminID, ok := GetUserID(c)
		if !ok {
			return nil
		}

		entry := model.AdminAuditLog{
			AdminID:    adminID,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			Details:    details,
			IPAddress:  c.IP(),
			UserAgent:  c.Get("User-Agent"),
		}
		if err := db.Create(&entry).Error; err != nil {
			// Audit failures never fail the request
			log.Println("Failed to write admin audit log:", err)
		}

		return nil
	}
}
