package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
)

// PlatformStats aggregates platform-wide counts for the admin dashboard
type PlatformStats struct {
	Users struct {
		Total    int64 `json:"total"`
		Admins   int64 `json:"admins"`
		Teachers int64 `json:"teachers"`
		Students int64 `json:"students"`
	} `json:"users"`
	Branches  int64 `json:"branches"`
	Semesters int64 `json:"semesters"`
	Sections  int64 `json:"sections"`
	Subjects  int64 `json:"subjects"`
	Modules   int64 `json:"modules"`
	Notes     int64 `json:"notes"`
	Storage   struct {
		TotalBytes int64 `json:"total_bytes"`
		TotalPages int64 `json:"total_pages"`
	} `json:"storage"`
}

// Stats returns platform-wide counts
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	var stats PlatformStats

	counts := []struct {
		model interface{}
		where []interface{}
		dest  *int64
	}{
		{&model.User{}, nil, &stats.Users.Total},
		{&model.User{}, []interface{}{"role = ?", model.RoleAdmin}, &stats.Users.Admins},
		{&model.User{}, []interface{}{"role = ?", model.RoleTeacher}, &stats.Users.Teachers},
		{&model.User{}, []interface{}{"role = ?", model.RoleStudent}, &stats.Users.Students},
		{&model.Branch{}, nil, &stats.Branches},
		{&model.Semester{}, nil, &stats.Semesters},
		{&model.Section{}, nil, &stats.Sections},
		{&model.Subject{}, nil, &stats.Subjects},
		{&model.Module{}, nil, &stats.Modules},
		{&model.Note{}, nil, &stats.Notes},
	}

	for _, count := range counts {
		query := h.db.Model(count.model)
		if len(count.where) > 0 {
			query = query.Where(count.where[0], count.where[1:]...)
		}
		if err := query.Count(count.dest).Error; err != nil {
			return response.InternalServerError(c, "Failed to compute statistics")
		}
	}

	row := h.db.Model(&model.Note{}).
		Select("COALESCE(SUM(file_size), 0) AS total_bytes, COALESCE(SUM(page_count), 0) AS total_pages").
		Row()
	if err := row.Scan(&stats.Storage.TotalBytes, &stats.Storage.TotalPages); err != nil {
		return response.InternalServerError(c, "Failed to compute storage statistics")
	}

	return response.Success(c, stats)
}
