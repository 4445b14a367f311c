package services

import (
	"time"

	"github.com/sahilchouksey/secure-notes-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressService tracks per-student view and completion state for notes.
// All writes upsert against the (student_id, note_id) unique index so
// repeated views or toggles never create duplicate rows.
type ProgressService struct {
	db *gorm.DB
}

// NewProgressService creates a new progress service
func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// RecordView upserts the viewed timestamp for a note. Completion state is
// left untouched for existing rows.
func (p *ProgressService) RecordView(studentID, noteID uint) error {
	now := time.Now()
	progress := model.Progress{
		StudentID: studentID,
		NoteID:    noteID,
		ViewedAt:  now,
	}
	return p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "note_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"viewed_at": now, "updated_at": now}),
	}).Create(&progress).Error
}

// SetCompleted upserts the completion flag for a note. Marking complete
// stamps completed_at; unmarking clears it. The viewed timestamp is set on
// first insert but otherwise preserved.
func (p *ProgressService) SetCompleted(studentID, noteID uint, completed bool) (*model.Progress, error) {
	now := time.Now()
	var completedAt *time.Time
	if completed {
		completedAt = &now
	}

	progress := model.Progress{
		StudentID:   studentID,
		NoteID:      noteID,
		Completed:   completed,
		ViewedAt:    now,
		CompletedAt: completedAt,
	}
	err := p.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "note_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":    completed,
			"completed_at": completedAt,
			"updated_at":   now,
		}),
	}).Create(&progress).Error
	if err != nil {
		return nil, err
	}

	var saved model.Progress
	if err := p.db.Where("student_id = ? AND note_id = ?", studentID, noteID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// ForNotes returns the student's progress rows for the given notes, keyed by
// note ID
func (p *ProgressService) ForNotes(studentID uint, noteIDs []uint) (map[uint]model.Progress, error) {
	result := make(map[uint]model.Progress, len(noteIDs))
	if len(noteIDs) == 0 {
		return result, nil
	}

	var rows []model.Progress
	if err := p.db.Where("student_id = ? AND note_id IN ?", studentID, noteIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.NoteID] = row
	}
	return result, nil
}

// SubjectSummary aggregates a student's progress within one subject
type SubjectSummary struct {
	SubjectID      uint    `json:"subject_id"`
	SubjectName    string  `json:"subject_name"`
	TotalNotes     int64   `json:"total_notes"`
	ViewedNotes    int64   `json:"viewed_notes"`
	CompletedNotes int64   `json:"completed_notes"`
	Percent        float64 `json:"percent"`
}

// SummaryForSubjects computes per-subject progress counts for a student
// over the given subjects
func (p *ProgressService) SummaryForSubjects(studentID uint, subjects []model.Subject) ([]SubjectSummary, error) {
	summaries := make([]SubjectSummary, 0, len(subjects))

	for _, subject := range subjects {
		var total int64
		err := p.db.Model(&model.Note{}).
			Joins("JOIN modules ON modules.id = notes.module_id").
			Where("modules.subject_id = ? AND modules.deleted_at IS NULL", subject.ID).
			Count(&total).Error
		if err != nil {
			return nil, err
		}

		var viewed, completed int64
		err = p.db.Model(&model.Progress{}).
			Joins("JOIN notes ON notes.id = progresses.note_id AND notes.deleted_at IS NULL").
			Joins("JOIN modules ON modules.id = notes.module_id AND modules.deleted_at IS NULL").
			Where("progresses.student_id = ? AND modules.subject_id = ?", studentID, subject.ID).
			Count(&viewed).Error
		if err != nil {
			return nil, err
		}

		err = p.db.Model(&model.Progress{}).
			Joins("JOIN notes ON notes.id = progresses.note_id AND notes.deleted_at IS NULL").
			Joins("JOIN modules ON modules.id = notes.module_id AND modules.deleted_at IS NULL").
			Where("progresses.student_id = ? AND modules.subject_id = ? AND progresses.completed = ?", studentID, subject.ID, true).
			Count(&completed).Error
		if err != nil {
			return nil, err
		}

		summary := SubjectSummary{
			SubjectID:      subject.ID,
			SubjectName:    subject.Name,
			TotalNotes:     total,
			ViewedNotes:    viewed,
			CompletedNotes: completed,
		}
		if total > 0 {
			summary.Percent = float64(completed) / float64(total) * 100
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// RecentlyViewed returns the student's most recently viewed notes, newest
// first, capped at limit
func (p *ProgressService) RecentlyViewed(studentID uint, limit int) ([]model.Progress, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var rows []model.Progress
	err := p.db.Preload("Note").Preload("Note.Module").
		Joins("JOIN notes ON notes.id = progresses.note_id AND notes.deleted_at IS NULL").
		Where("progresses.student_id = ?", studentID).
		Order("progresses.viewed_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
