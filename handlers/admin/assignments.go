package admin

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/secure-notes-api/database"
	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/utils/response"
	"gorm.io/gorm"
)

// SubjectAssignmentRequest grants a teacher a subject
type SubjectAssignmentRequest struct {
	TeacherID uint `json:"teacher_id" validate:"required"`
	SubjectID uint `json:"subject_id" validate:"required"`
}

// TeacherAssignmentRequest pairs a student with a mentoring teacher
type TeacherAssignmentRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	TeacherID uint `json:"teacher_id" validate:"required"`
}

// ListSubjectAssignments returns subject assignments, optionally filtered
// by teacher or subject
func (h *AdminHandler) ListSubjectAssignments(c *fiber.Ctx) error {
	query := h.db.Preload("Teacher").Preload("Subject").Order("created_at DESC")

	if teacherID, err := strconv.ParseUint(c.Query("teacher_id"), 10, 32); err == nil {
		query = query.Where("teacher_id = ?", teacherID)
	}
	if subjectID, err := strconv.ParseUint(c.Query("subject_id"), 10, 32); err == nil {
		query = query.Where("subject_id = ?", subjectID)
	}

	var assignments []model.SubjectAssignment
	if err := query.Find(&assignments).Error; err != nil {
		return response.InternalServerError(c, "Failed to load assignments")
	}
	return response.Success(c, assignments)
}

// CreateSubjectAssignment assigns a teacher to a subject
func (h *AdminHandler) CreateSubjectAssignment(c *fiber.Ctx) error {
	var req SubjectAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	var teacher model.User
	if err := h.db.First(&teacher, req.TeacherID).Error; err != nil {
		return response.BadRequest(c, "Teacher does not exist")
	}
	if teacher.Role != model.RoleTeacher {
		return response.BadRequest(c, "User is not a teacher")
	}

	var subject model.Subject
	if err := h.db.First(&subject, req.SubjectID).Error; err != nil {
		return response.BadRequest(c, "Subject does not exist")
	}

	assignment := model.SubjectAssignment{
		TeacherID: req.TeacherID,
		SubjectID: req.SubjectID,
	}
	if err := h.db.Create(&assignment).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return response.Conflict(c, "Teacher is already assigned to this subject")
		}
		return response.InternalServerError(c, "Failed to create assignment")
	}
	return response.Created(c, assignment)
}

// DeleteSubjectAssignment removes a teacher's subject assignment. The
// teacher's existing uploads stay; they just lose the right to add more.
func (h *AdminHandler) DeleteSubjectAssignment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid assignment ID")
	}

	var assignment model.SubjectAssignment
	if err := h.db.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Assignment not found")
		}
		return response.InternalServerError(c, "Failed to load assignment")
	}

	if err := h.db.Delete(&assignment).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete assignment")
	}
	return response.SuccessWithMessage(c, "Assignment deleted", nil)
}

// ListTeacherAssignments returns student-teacher pairings
func (h *AdminHandler) ListTeacherAssignments(c *fiber.Ctx) error {
	query := h.db.Preload("Student").Preload("Teacher").Order("created_at DESC")

	if teacherID, err := strconv.ParseUint(c.Query("teacher_id"), 10, 32); err == nil {
		query = query.Where("teacher_id = ?", teacherID)
	}
	if studentID, err := strconv.ParseUint(c.Query("student_id"), 10, 32); err == nil {
		query = query.Where("student_id = ?", studentID)
	}

	var assignments []model.TeacherAssignment
	if err := query.Find(&assignments).Error; err != nil {
		return response.InternalServerError(c, "Failed to load assignments")
	}
	return response.Success(c, assignments)
}

// CreateTeacherAssignment pairs a student with a mentoring teacher
func (h *AdminHandler) CreateTeacherAssignment(c *fiber.Ctx) error {
	var req TeacherAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	var student model.User
	if err := h.db.First(&student, req.StudentID).Error; err != nil {
		return response.BadRequest(c, "Student does not exist")
	}
	if student.Role != model.RoleStudent {
		return response.BadRequest(c, "User is not a student")
	}

	var teacher model.User
	if err := h.db.First(&teacher, req.TeacherID).Error; err != nil {
		return response.BadRequest(c, "Teacher does not exist")
	}
	if teacher.Role != model.RoleTeacher {
		return response.BadRequest(c, "User is not a teacher")
	}

	assignment := model.TeacherAssignment{
		StudentID: req.StudentID,
		TeacherID: req.TeacherID,
	}
	if err := h.db.Create(&assignment).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return response.Conflict(c, "Student is already paired with this teacher")
		}
		return response.InternalServerError(c, "Failed to create assignment")
	}
	return response.Created(c, assignment)
}

// DeleteTeacherAssignment removes a student-teacher pairing
func (h *AdminHandler) DeleteTeacherAssignment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid assignment ID")
	}

	var assignment model.TeacherAssignment
	if err := h.db.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Assignment not found")
		}
		return response.InternalServerError(c, "Failed to load assignment")
	}

	if err := h.db.Delete(&assignment).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete assignment")
	}
	return response.SuccessWithMessage(c, "Assignment deleted", nil)
}
