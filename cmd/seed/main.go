package main

import (
	"fmt"
	"log"

	"github.com/sahilchouksey/secure-notes-api/config"
	"github.com/sahilchouksey/secure-notes-api/database"
	"github.com/sahilchouksey/secure-notes-api/model"
	"github.com/sahilchouksey/secure-notes-api/utils/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeds the development database with the academic hierarchy and a demo
// account per role. Idempotent; safe to run repeatedly.
func main() {
	if err := config.LoadENV(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	if err := seed(db); err != nil {
		log.Fatal("Seeding failed:", err)
	}
	log.Println("Seeding completed")
}

func seed(db *gorm.DB) error {
	branches := []model.Branch{
		{Name: "Computer Science and Engineering", Code: "CSE"},
		{Name: "Information Science and Engineering", Code: "ISE"},
		{Name: "Electronics and Communication Engineering", Code: "ECE"},
	}
	for i := range branches {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&branches[i]).Error
		if err != nil {
			return fmt.Errorf("failed to seed branch %s: %w", branches[i].Code, err)
		}
	}

	for number := 1; number <= 8; number++ {
		semester := model.Semester{Number: number}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&semester).Error
		if err != nil {
			return fmt.Errorf("failed to seed semester %d: %w", number, err)
		}
	}

	// Reload for stable IDs regardless of conflict skips
	var cse model.Branch
	if err := db.Where("code = ?", "CSE").First(&cse).Error; err != nil {
		return err
	}
	var sem3 model.Semester
	if err := db.Where("number = ?", 3).First(&sem3).Error; err != nil {
		return err
	}

	for _, name := range []string{"A", "B"} {
		section := model.Section{Name: name, BranchID: cse.ID, SemesterID: sem3.ID}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&section).Error
		if err != nil {
			return fmt.Errorf("failed to seed section %s: %w", name, err)
		}
	}

	subjects := []model.Subject{
		{Name: "Data Structures", Code: "CS201", BranchID: cse.ID, SemesterID: sem3.ID},
		{Name: "Operating Systems", Code: "CS202", BranchID: cse.ID, SemesterID: sem3.ID},
	}
	for i := range subjects {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&subjects[i]).Error
		if err != nil {
			return fmt.Errorf("failed to seed subject %s: %w", subjects[i].Code, err)
		}
	}

	var sectionA model.Section
	if err := db.Where("name = ? AND branch_id = ? AND semester_id = ?", "A", cse.ID, sem3.ID).First(&sectionA).Error; err != nil {
		return err
	}

	users := []struct {
		email string
		name  string
		role  string
		place bool
	}{
		{"admin@example.com", "Demo Admin", model.RoleAdmin, false},
		{"teacher@example.com", "Demo Teacher", model.RoleTeacher, false},
		{"student@example.com", "Demo Student", model.RoleStudent, true},
	}
	for _, u := range users {
		var count int64
		if err := db.Model(&model.User{}).Where("email = ?", u.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hash, err := auth.HashPassword("changeme123")
		if err != nil {
			return err
		}
		user := model.User{
			Email:        u.email,
			PasswordHash: hash,
			Name:         u.name,
			Role:         u.role,
		}
		if u.place {
			user.BranchID = &cse.ID
			user.SemesterID = &sem3.ID
			user.SectionID = &sectionA.ID
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
		log.Printf("Created %s account: %s (password: changeme123)", u.role, u.email)
	}

	// Assign the demo teacher to the seeded subjects
	var teacher model.User
	if err := db.Where("email = ?", "teacher@example.com").First(&teacher).Error; err != nil {
		return err
	}
	var seeded []model.Subject
	if err := db.Where("branch_id = ? AND semester_id = ?", cse.ID, sem3.ID).Find(&seeded).Error; err != nil {
		return err
	}
	for _, subject := range seeded {
		assignment := model.SubjectAssignment{TeacherID: teacher.ID, SubjectID: subject.ID}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignment).Error
		if err != nil {
			return fmt.Errorf("failed to assign subject %s: %w", subject.Code, err)
		}
	}

	return nil
}
