package services

import (
	"errors"

	"github.com/sahilchouksey/secure-notes-api/model"
	"gorm.io/gorm"
)

// Sentinel errors for authorization decisions. Handlers map ErrNotFound and
// ErrAccessDenied to the same 404 response so out-of-scope requests never
// confirm that a resource exists.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrAccessDenied = errors.New("access denied")
	ErrNotAssigned  = errors.New("teacher is not assigned to this subject")
)

// AccessService resolves whether a user may read content under a subject.
// Every content read in the system funnels through one of its Authorize
// methods.
type AccessService struct {
	db *gorm.DB
}

// NewAccessService creates a new access service
func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// DecideSubjectAccess is the pure scoping rule, separated from data access:
//   - admins see everything
//   - teachers see subjects they are assigned to
//   - students see subjects matching their own branch and semester; a
//     student without a placement sees nothing
func DecideSubjectAccess(user *model.User, subject *model.Subject, teacherAssigned bool) bool {
	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleTeacher:
		return teacherAssigned
	case model.RoleStudent:
		if !user.IsPlaced() {
			return false
		}
		return *user.BranchID == subject.BranchID && *user.SemesterID == subject.SemesterID
	default:
		return false
	}
}

// AuthorizeSubject loads the subject and checks the user's scope over it.
// Returns ErrNotFound if the subject does not exist, ErrAccessDenied if it
// exists but is out of the user's scope.
func (s *AccessService) AuthorizeSubject(user *model.User, subjectID uint) (*model.Subject, error) {
	var subject model.Subject
	if err := s.db.First(&subject, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	assigned := false
	if user.Role == model.RoleTeacher {
		var err error
		assigned, err = s.IsTeacherAssigned(user.ID, subject.ID)
		if err != nil {
			return nil, err
		}
	}

	if !DecideSubjectAccess(user, &subject, assigned) {
		return nil, ErrAccessDenied
	}
	return &subject, nil
}

// AuthorizeModule loads the module and checks the user's scope via its
// denormalized subject. The parent chain is never walked; the module's own
// subject_id is authoritative.
func (s *AccessService) AuthorizeModule(user *model.User, moduleID uint) (*model.Module, error) {
	var mod model.Module
	if err := s.db.First(&mod, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := s.AuthorizeSubject(user, mod.SubjectID); err != nil {
		return nil, err
	}
	return &mod, nil
}

// AuthorizeNote loads the note and checks the user's scope via its module's
// subject
func (s *AccessService) AuthorizeNote(user *model.User, noteID uint) (*model.Note, error) {
	var note model.Note
	if err := s.db.Preload("Module").First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := s.AuthorizeSubject(user, note.Module.SubjectID); err != nil {
		return nil, err
	}
	return &note, nil
}

// IsTeacherAssigned reports whether a subject assignment exists for the
// teacher
func (s *AccessService) IsTeacherAssigned(teacherID, subjectID uint) (bool, error) {
	var count int64
	err := s.db.Model(&model.SubjectAssignment{}).
		Where("teacher_id = ? AND subject_id = ?", teacherID, subjectID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RequireTeacherAssignment returns ErrNotAssigned unless the teacher holds
// an assignment for the subject. Admins pass unconditionally.
func (s *AccessService) RequireTeacherAssignment(user *model.User, subjectID uint) error {
	if user.Role == model.RoleAdmin {
		return nil
	}
	assigned, err := s.IsTeacherAssigned(user.ID, subjectID)
	if err != nil {
		return err
	}
	if !assigned {
		return ErrNotAssigned
	}
	return nil
}

// ScopedSubjects returns the subjects visible to the user, ordered by name
func (s *AccessService) ScopedSubjects(user *model.User) ([]model.Subject, error) {
	var subjects []model.Subject
	query := s.db.Preload("Branch").Preload("Semester").Order("name ASC")

	switch user.Role {
	case model.RoleAdmin:
		// No scope filter
	case model.RoleTeacher:
		query = query.Joins("JOIN subject_assignments ON subject_assignments.subject_id = subjects.id AND subject_assignments.deleted_at IS NULL").
			Where("subject_assignments.teacher_id = ?", user.ID)
	case model.RoleStudent:
		if !user.IsPlaced() {
			return []model.Subject{}, nil
		}
		query = query.Where("subjects.branch_id = ? AND subjects.semester_id = ?", *user.BranchID, *user.SemesterID)
	default:
		return []model.Subject{}, nil
	}

	if err := query.Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}
