package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/services/storage"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to the database named by TEST_DATABASE_URL and
// migrates a throwaway schema. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping integration test. Set TEST_DATABASE_URL to run")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	schema := fmt.Sprintf("svc_test_%d", time.Now().UnixNano())
	if err := db.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}
	if err := db.Exec("SET search_path TO " + schema).Error; err != nil {
		t.Fatalf("failed to set search_path: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DROP SCHEMA " + schema + " CASCADE")
	})

	err = db.AutoMigrate(
		&model.User{},
		&model.Branch{},
		&model.Semester{},
		&model.Section{},
		&model.Subject{},
		&model.SubjectAssignment{},
		&model.TeacherAssignment{},
		&model.Module{},
		&model.Note{},
		&model.Progress{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

type fixture struct {
	db       *gorm.DB
	branch   model.Branch
	semester model.Semester
	subject  model.Subject
	admin    model.User
	teacher  model.User
	student  model.User
	outsider model.User
}

// seedFixture creates one subject in CSE semester 3, an assigned teacher, a
// matching student, and a student from another branch
func seedFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{db: db}

	f.branch = model.Branch{Name: "Computer Science", Code: "CSE"}
	if err := db.Create(&f.branch).Error; err != nil {
		t.Fatal(err)
	}
	other := model.Branch{Name: "Electronics", Code: "ECE"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatal(err)
	}
	f.semester = model.Semester{Number: 3}
	if err := db.Create(&f.semester).Error; err != nil {
		t.Fatal(err)
	}

	f.subject = model.Subject{
		Name:       "Data Structures",
		Code:       "CS201",
		BranchID:   f.branch.ID,
		SemesterID: f.semester.ID,
	}
	if err := db.Create(&f.subject).Error; err != nil {
		t.Fatal(err)
	}

	f.admin = model.User{Email: "admin@test.local", PasswordHash: "x", Name: "Admin", Role: model.RoleAdmin}
	f.teacher = model.User{Email: "teacher@test.local", PasswordHash: "x", Name: "Teacher", Role: model.RoleTeacher}
	f.student = model.User{
		Email: "student@test.local", PasswordHash: "x", Name: "Student", Role: model.RoleStudent,
		BranchID: &f.branch.ID, SemesterID: &f.semester.ID,
	}
	f.outsider = model.User{
		Email: "outsider@test.local", PasswordHash: "x", Name: "Outsider", Role: model.RoleStudent,
		BranchID: &other.ID, SemesterID: &f.semester.ID,
	}
	for _, user := range []*model.User{&f.admin, &f.teacher, &f.student, &f.outsider} {
		if err := db.Create(user).Error; err != nil {
			t.Fatal(err)
		}
	}

	assignment := model.SubjectAssignment{TeacherID: f.teacher.ID, SubjectID: f.subject.ID}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatal(err)
	}

	return f
}

func TestAuthorizeNoteScoping(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db)

	access := NewAccessService(db)
	modules := NewModuleService(db, access)

	mod, err := modules.Create(&f.teacher, f.subject.ID, "Unit 1", "", nil, 0)
	if err != nil {
		t.Fatalf("Create module: %v", err)
	}

	note := model.Note{
		TeacherID: f.teacher.ID, ModuleID: mod.ID,
		Title: "Intro", StorageKey: "notes/test.pdf",
	}
	if err := db.Create(&note).Error; err != nil {
		t.Fatal(err)
	}

	// In-scope student, assigned teacher, and admin all pass
	for _, user := range []*model.User{&f.student, &f.teacher, &f.admin} {
		if _, err := access.AuthorizeNote(user, note.ID); err != nil {
			t.Errorf("AuthorizeNote for %s: %v", user.Role, err)
		}
	}

	// Out-of-branch student is denied, not not-found
	if _, err := access.AuthorizeNote(&f.outsider, note.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("AuthorizeNote for outsider returned %v, want ErrAccessDenied", err)
	}

	// Missing note is not-found
	if _, err := access.AuthorizeNote(&f.student, note.ID+999); !errors.Is(err, ErrNotFound) {
		t.Errorf("AuthorizeNote for missing note returned %v, want ErrNotFound", err)
	}
}

func TestModuleTreeRules(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db)

	access := NewAccessService(db)
	modules := NewModuleService(db, access)

	root, err := modules.Create(&f.teacher, f.subject.ID, "Unit 1", "", nil, 0)
	if err != nil {
		t.Fatalf("Create root: %v", err)
	}
	child, err := modules.Create(&f.teacher, f.subject.ID, "Arrays", "", &root.ID, 0)
	if err != nil {
		t.Fatalf("Create child: %v", err)
	}

	// A child cannot parent another module
	if _, err := modules.Create(&f.teacher, f.subject.ID, "Deep", "", &child.ID, 0); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("nesting under a child returned %v, want ErrInvalidParent", err)
	}

	// A module cannot become its own parent
	if _, err := modules.Update(&f.teacher, root.ID, nil, nil, &root.ID, false, nil); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("self-parenting returned %v, want ErrInvalidParent", err)
	}

	// A root with children cannot become a child
	other, err := modules.Create(&f.teacher, f.subject.ID, "Unit 2", "", nil, 1)
	if err != nil {
		t.Fatalf("Create second root: %v", err)
	}
	if _, err := modules.Update(&f.teacher, root.ID, nil, nil, &other.ID, false, nil); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("re-parenting a root with children returned %v, want ErrInvalidParent", err)
	}

	// Deleting a module with children is blocked
	if err := modules.Delete(&f.teacher, root.ID); !errors.Is(err, ErrHasChildren) {
		t.Errorf("deleting module with children returned %v, want ErrHasChildren", err)
	}

	// Deleting a module with notes is blocked
	note := model.Note{TeacherID: f.teacher.ID, ModuleID: child.ID, Title: "N", StorageKey: "notes/n.pdf"}
	if err := db.Create(&note).Error; err != nil {
		t.Fatal(err)
	}
	if err := modules.Delete(&f.teacher, child.ID); !errors.Is(err, ErrHasNotes) {
		t.Errorf("deleting module with notes returned %v, want ErrHasNotes", err)
	}

	// An unassigned teacher cannot touch the subject's modules
	stranger := model.User{Email: "stranger@test.local", PasswordHash: "x", Name: "S", Role: model.RoleTeacher}
	if err := db.Create(&stranger).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := modules.Create(&stranger, f.subject.ID, "Nope", "", nil, 0); !errors.Is(err, ErrNotAssigned) {
		t.Errorf("unassigned teacher create returned %v, want ErrNotAssigned", err)
	}
}

func TestProgressUpserts(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db)

	access := NewAccessService(db)
	modules := NewModuleService(db, access)
	progress := NewProgressService(db)

	mod, err := modules.Create(&f.teacher, f.subject.ID, "Unit 1", "", nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	note := model.Note{TeacherID: f.teacher.ID, ModuleID: mod.ID, Title: "N", StorageKey: "notes/n.pdf"}
	if err := db.Create(&note).Error; err != nil {
		t.Fatal(err)
	}

	// Repeated views keep a single row
	for i := 0; i < 3; i++ {
		if err := progress.RecordView(f.student.ID, note.ID); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}
	var count int64
	db.Model(&model.Progress{}).Where("student_id = ? AND note_id = ?", f.student.ID, note.ID).Count(&count)
	if count != 1 {
		t.Errorf("progress rows = %d, want 1", count)
	}

	// Completing stamps completed_at
	row, err := progress.SetCompleted(f.student.ID, note.ID, true)
	if err != nil {
		t.Fatalf("SetCompleted: %v", err)
	}
	if !row.Completed || row.CompletedAt == nil {
		t.Error("expected completed row with a timestamp")
	}

	// A later view does not clear completion
	if err := progress.RecordView(f.student.ID, note.ID); err != nil {
		t.Fatalf("RecordView after complete: %v", err)
	}
	var after model.Progress
	db.Where("student_id = ? AND note_id = ?", f.student.ID, note.ID).First(&after)
	if !after.Completed {
		t.Error("view cleared the completion flag")
	}

	// Unmarking clears the timestamp
	row, err = progress.SetCompleted(f.student.ID, note.ID, false)
	if err != nil {
		t.Fatalf("SetCompleted(false): %v", err)
	}
	if row.Completed || row.CompletedAt != nil {
		t.Error("expected uncompleted row without a timestamp")
	}
}

func TestAssignmentRevokeAndRegrant(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db)

	access := NewAccessService(db)

	var assignment model.SubjectAssignment
	if err := db.Where("teacher_id = ? AND subject_id = ?", f.teacher.ID, f.subject.ID).First(&assignment).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Delete(&assignment).Error; err != nil {
		t.Fatal(err)
	}

	assigned, err := access.IsTeacherAssigned(f.teacher.ID, f.subject.ID)
	if err != nil {
		t.Fatal(err)
	}
	if assigned {
		t.Error("revoked assignment still reported as assigned")
	}

	// Re-granting the same pairing must not trip the unique index
	regrant := model.SubjectAssignment{TeacherID: f.teacher.ID, SubjectID: f.subject.ID}
	if err := db.Create(&regrant).Error; err != nil {
		t.Fatalf("re-create after revoke: %v", err)
	}
	assigned, err = access.IsTeacherAssigned(f.teacher.ID, f.subject.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !assigned {
		t.Error("re-granted assignment not reported as assigned")
	}
}

func TestRecreateAfterDeleteKeepsNaturalKeys(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db)

	// Deleting a branch frees its code for a later create
	if err := db.Delete(&f.branch).Error; err != nil {
		t.Fatal(err)
	}
	recreated := model.Branch{Name: "Computer Science", Code: "CSE"}
	if err := db.Create(&recreated).Error; err != nil {
		t.Fatalf("re-create branch after delete: %v", err)
	}

	// Same for a subject's code within its branch+semester
	if err := db.Delete(&f.subject).Error; err != nil {
		t.Fatal(err)
	}
	resubject := model.Subject{
		Name:       "Data Structures",
		Code:       "CS201",
		BranchID:   f.branch.ID,
		SemesterID: f.semester.ID,
	}
	if err := db.Create(&resubject).Error; err != nil {
		t.Fatalf("re-create subject after delete: %v", err)
	}
}

func TestRecentlyViewedSkipsDeletedNotes(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db)

	access := NewAccessService(db)
	modules := NewModuleService(db, access)
	progress := NewProgressService(db)

	mod, err := modules.Create(&f.teacher, f.subject.ID, "Unit 1", "", nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	kept := model.Note{TeacherID: f.teacher.ID, ModuleID: mod.ID, Title: "Kept", StorageKey: "notes/kept.pdf"}
	removed := model.Note{TeacherID: f.teacher.ID, ModuleID: mod.ID, Title: "Removed", StorageKey: "notes/removed.pdf"}
	for _, note := range []*model.Note{&kept, &removed} {
		if err := db.Create(note).Error; err != nil {
			t.Fatal(err)
		}
		if err := progress.RecordView(f.student.ID, note.ID); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}

	if err := db.Delete(&removed).Error; err != nil {
		t.Fatal(err)
	}

	rows, err := progress.RecentlyViewed(f.student.ID, 10)
	if err != nil {
		t.Fatalf("RecentlyViewed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("RecentlyViewed returned %d rows, want 1", len(rows))
	}
	if rows[0].NoteID != kept.ID || rows[0].Note.Title != "Kept" {
		t.Errorf("RecentlyViewed returned note %d, want %d", rows[0].NoteID, kept.ID)
	}
}

func TestDeliveryPipeline(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db)

	access := NewAccessService(db)
	modules := NewModuleService(db, access)
	backend, err := storage.NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	notes := NewNoteService(db, access, backend)
	delivery := NewDeliveryService(db, access, backend)
	ctx := context.Background()

	mod, err := modules.Create(&f.teacher, f.subject.ID, "Unit 1", "", nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	content := []byte("%PDF-1.4\nfake body\n%%EOF\n")
	note, err := notes.Upload(ctx, &f.teacher, UploadInput{
		ModuleID:  mod.ID,
		Title:     "Intro to Arrays",
		Filename:  "arrays.pdf",
		Content:   content,
		PageCount: 3,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if note.FileSize != int64(len(content)) {
		t.Errorf("FileSize = %d, want %d", note.FileSize, len(content))
	}

	// In-scope student can open and read the stored bytes back
	result, err := delivery.Open(ctx, &f.student, note.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := io.ReadAll(result.Content)
	result.Content.Close()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("delivered content does not match upload")
	}

	// Out-of-scope student is denied before storage is touched
	if _, err := delivery.Open(ctx, &f.outsider, note.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Open for outsider returned %v, want ErrAccessDenied", err)
	}

	// A vanished stored object surfaces as ErrStorageMissing
	if err := backend.Delete(ctx, note.StorageKey); err != nil {
		t.Fatal(err)
	}
	if _, err := delivery.Open(ctx, &f.student, note.ID); !errors.Is(err, ErrStorageMissing) {
		t.Errorf("Open with missing object returned %v, want ErrStorageMissing", err)
	}
}
