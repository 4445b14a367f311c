package services

import (
	"errors"

	"github.com/sahilchouksey/secure-notes-api/model"
	"gorm.io/gorm"
)

// Sentinel errors for module tree operations
var (
	ErrInvalidParent = errors.New("parent must be a top-level module of the same subject")
	ErrHasChildren   = errors.New("module has child modules")
	ErrHasNotes      = errors.New("module has notes")
)

// ModuleService manages the two-level module tree under each subject
type ModuleService struct {
	db     *gorm.DB
	access *AccessService
}

// NewModuleService creates a new module service
func NewModuleService(db *gorm.DB, access *AccessService) *ModuleService {
	return &ModuleService{db: db, access: access}
}

// validateParent enforces the tree shape: a parent must exist, belong to the
// same subject, and itself be a root module. Nesting stops at one level, so
// cycles are impossible by construction.
func (s *ModuleService) validateParent(subjectID uint, parentID uint) error {
	var parent model.Module
	if err := s.db.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidParent
		}
		return err
	}
	if parent.SubjectID != subjectID || !parent.IsRoot() {
		return ErrInvalidParent
	}
	return nil
}

// Create adds a module under a subject. The caller must already be
// authorized for the subject; Create re-checks the teacher assignment gate.
func (s *ModuleService) Create(user *model.User, subjectID uint, title, description string, parentID *uint, order int) (*model.Module, error) {
	if err := s.access.RequireTeacherAssignment(user, subjectID); err != nil {
		return nil, err
	}

	if parentID != nil {
		if err := s.validateParent(subjectID, *parentID); err != nil {
			return nil, err
		}
	}

	mod := model.Module{
		Title:       title,
		Description: description,
		SubjectID:   subjectID,
		ParentID:    parentID,
		Order:       order,
		CreatedByID: user.ID,
	}
	if err := s.db.Create(&mod).Error; err != nil {
		return nil, err
	}
	return &mod, nil
}

// Update modifies a module's name, description, order, or parent. Moving a
// module across subjects is not supported; the subject is fixed at creation.
func (s *ModuleService) Update(user *model.User, moduleID uint, title, description *string, parentID *uint, clearParent bool, order *int) (*model.Module, error) {
	var mod model.Module
	if err := s.db.First(&mod, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.access.RequireTeacherAssignment(user, mod.SubjectID); err != nil {
		return nil, err
	}

	if title != nil {
		mod.Title = *title
	}
	if description != nil {
		mod.Description = *description
	}
	if order != nil {
		mod.Order = *order
	}

	if clearParent {
		mod.ParentID = nil
	} else if parentID != nil {
		// A module that already has children cannot become a child itself
		var childCount int64
		if err := s.db.Model(&model.Module{}).Where("parent_id = ?", mod.ID).Count(&childCount).Error; err != nil {
			return nil, err
		}
		if childCount > 0 {
			return nil, ErrInvalidParent
		}
		if *parentID == mod.ID {
			return nil, ErrInvalidParent
		}
		if err := s.validateParent(mod.SubjectID, *parentID); err != nil {
			return nil, err
		}
		mod.ParentID = parentID
	}

	if err := s.db.Save(&mod).Error; err != nil {
		return nil, err
	}
	return &mod, nil
}

// Delete removes an empty module. Modules that still hold children or notes
// are protected; callers map ErrHasChildren and ErrHasNotes to a conflict.
func (s *ModuleService) Delete(user *model.User, moduleID uint) error {
	var mod model.Module
	if err := s.db.First(&mod, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.access.RequireTeacherAssignment(user, mod.SubjectID); err != nil {
		return err
	}

	var childCount int64
	if err := s.db.Model(&model.Module{}).Where("parent_id = ?", mod.ID).Count(&childCount).Error; err != nil {
		return err
	}
	if childCount > 0 {
		return ErrHasChildren
	}

	var noteCount int64
	if err := s.db.Model(&model.Note{}).Where("module_id = ?", mod.ID).Count(&noteCount).Error; err != nil {
		return err
	}
	if noteCount > 0 {
		return ErrHasNotes
	}

	return s.db.Delete(&mod).Error
}

// TreeForSubject returns the subject's modules as root modules with their
// children preloaded, ordered by the explicit order column then title
func (s *ModuleService) TreeForSubject(subjectID uint) ([]model.Module, error) {
	var roots []model.Module
	err := s.db.Where("subject_id = ? AND parent_id IS NULL", subjectID).
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"order\" ASC, title ASC")
		}).
		Order("\"order\" ASC, title ASC").
		Find(&roots).Error
	if err != nil {
		return nil, err
	}
	return roots, nil
}
