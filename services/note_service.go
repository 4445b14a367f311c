package services

import (
	"bytes"
	"context"
	"errors"
	"log"

	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/services/storage"
	"gorm.io/gorm"
)

// NoteService manages note upload, metadata, and removal. Upload is the
// only path that writes to storage; the storage key is generated server-side
// and never derived from the client filename beyond its extension.
type NoteService struct {
	db      *gorm.DB
	access  *AccessService
	backend storage.Backend
}

// NewNoteService creates a new note service
func NewNoteService(db *gorm.DB, access *AccessService, backend storage.Backend) *NoteService {
	return &NoteService{db: db, access: access, backend: backend}
}

// UploadInput carries a validated upload into the note service
type UploadInput struct {
	ModuleID    uint
	Title       string
	Description string
	Order       int
	Filename    string
	Content     []byte
	PageCount   int
}

// Upload stores the document and creates its note record. The storage write
// happens first; if the database insert fails the stored object is removed
// so no orphan survives a failed upload.
func (n *NoteService) Upload(ctx context.Context, user *model.User, input UploadInput) (*model.Note, error) {
	var mod model.Module
	if err := n.db.First(&mod, input.ModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := n.access.RequireTeacherAssignment(user, mod.SubjectID); err != nil {
		return nil, err
	}

	key := storage.GenerateKey("notes", input.Filename)
	size, err := n.backend.Save(ctx, key, bytes.NewReader(input.Content))
	if err != nil {
		return nil, err
	}

	note := model.Note{
		TeacherID:   user.ID,
		ModuleID:    mod.ID,
		Title:       input.Title,
		Description: input.Description,
		StorageKey:  key,
		FileSize:    size,
		PageCount:   input.PageCount,
		Order:       input.Order,
	}
	if err := n.db.Create(&note).Error; err != nil {
		if delErr := n.backend.Delete(ctx, key); delErr != nil {
			log.Println("Failed to clean up stored object after insert failure:", delErr)
		}
		return nil, err
	}
	return &note, nil
}

// UpdateMetadata changes a note's title, description, or order. The stored
// document itself is immutable; replacing content means a new upload.
func (n *NoteService) UpdateMetadata(user *model.User, noteID uint, title, description *string, order *int) (*model.Note, error) {
	note, err := n.loadForTeacher(user, noteID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		note.Title = *title
	}
	if description != nil {
		note.Description = *description
	}
	if order != nil {
		note.Order = *order
	}

	if err := n.db.Save(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes the note record and its stored document. The record goes
// first; a storage delete failure is logged and left for the integrity scan.
func (n *NoteService) Delete(ctx context.Context, user *model.User, noteID uint) error {
	note, err := n.loadForTeacher(user, noteID)
	if err != nil {
		return err
	}

	if err := n.db.Delete(note).Error; err != nil {
		return err
	}

	if err := n.backend.Delete(ctx, note.StorageKey); err != nil {
		log.Println("Failed to delete stored object for note:", err)
	}
	return nil
}

// ForModule lists a module's notes ordered by the explicit order column
func (n *NoteService) ForModule(moduleID uint) ([]model.Note, error) {
	var notes []model.Note
	err := n.db.Where("module_id = ?", moduleID).
		Order("\"order\" ASC, title ASC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// Search finds notes by title within the user's scoped subjects. The scope
// filter is applied in SQL, so results can never leak out-of-scope content.
func (n *NoteService) Search(user *model.User, query string, limit int) ([]model.Note, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	q := n.db.Model(&model.Note{}).
		Joins("JOIN modules ON modules.id = notes.module_id AND modules.deleted_at IS NULL").
		Where("notes.title ILIKE ?", "%"+query+"%").
		Preload("Module")

	switch user.Role {
	case model.RoleAdmin:
		// No scope filter
	case model.RoleTeacher:
		q = q.Joins("JOIN subject_assignments ON subject_assignments.subject_id = modules.subject_id AND subject_assignments.deleted_at IS NULL").
			Where("subject_assignments.teacher_id = ?", user.ID)
	case model.RoleStudent:
		if !user.IsPlaced() {
			return []model.Note{}, nil
		}
		q = q.Joins("JOIN subjects ON subjects.id = modules.subject_id AND subjects.deleted_at IS NULL").
			Where("subjects.branch_id = ? AND subjects.semester_id = ?", *user.BranchID, *user.SemesterID)
	default:
		return []model.Note{}, nil
	}

	var notes []model.Note
	if err := q.Order("notes.title ASC").Limit(limit).Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// loadForTeacher resolves a note for mutation. Besides the assignment gate,
// only the uploading teacher may change or remove a note; admins bypass both.
func (n *NoteService) loadForTeacher(user *model.User, noteID uint) (*model.Note, error) {
	var note model.Note
	if err := n.db.Preload("Module").First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := n.access.RequireTeacherAssignment(user, note.Module.SubjectID); err != nil {
		return nil, err
	}
	if user.Role != model.RoleAdmin && note.TeacherID != user.ID {
		return nil, ErrNotAssigned
	}
	return &note, nil
}
