package services

import (
	"testing"

	"github.com/sahilchouksey/secure-notes-api/model"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestDecideSubjectAccess(t *testing.T) {
	subject := &model.Subject{
		ID:         1,
		Name:       "Data Structures",
		Code:       "CS201",
		BranchID:   10,
		SemesterID: 3,
	}

	tests := []struct {
		name     string
		user     *model.User
		assigned bool
		want     bool
	}{
		{
			name: "admin sees everything",
			user: &model.User{Role: model.RoleAdmin},
			want: true,
		},
		{
			name:     "assigned teacher allowed",
			user:     &model.User{Role: model.RoleTeacher},
			assigned: true,
			want:     true,
		},
		{
			name: "unassigned teacher denied",
			user: &model.User{Role: model.RoleTeacher},
			want: false,
		},
		{
			name: "student in matching branch and semester allowed",
			user: &model.User{
				Role:       model.RoleStudent,
				BranchID:   uintPtr(10),
				SemesterID: uintPtr(3),
			},
			want: true,
		},
		{
			name: "student in wrong branch denied",
			user: &model.User{
				Role:       model.RoleStudent,
				BranchID:   uintPtr(11),
				SemesterID: uintPtr(3),
			},
			want: false,
		},
		{
			name: "student in wrong semester denied",
			user: &model.User{
				Role:       model.RoleStudent,
				BranchID:   uintPtr(10),
				SemesterID: uintPtr(4),
			},
			want: false,
		},
		{
			name: "unplaced student denied",
			user: &model.User{Role: model.RoleStudent},
			want: false,
		},
		{
			name: "student with partial placement denied",
			user: &model.User{
				Role:     model.RoleStudent,
				BranchID: uintPtr(10),
			},
			want: false,
		},
		{
			name: "unknown role denied",
			user: &model.User{Role: "guest"},
			want: false,
		},
		{
			name: "student assignment flag is ignored for students",
			user: &model.User{
				Role:       model.RoleStudent,
				BranchID:   uintPtr(99),
				SemesterID: uintPtr(99),
			},
			assigned: true,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideSubjectAccess(tt.user, subject, tt.assigned)
			if got != tt.want {
				t.Errorf("DecideSubjectAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPlaced(t *testing.T) {
	placed := &model.User{BranchID: uintPtr(1), SemesterID: uintPtr(2)}
	if !placed.IsPlaced() {
		t.Error("expected user with branch and semester to be placed")
	}

	unplaced := []*model.User{
		{},
		{BranchID: uintPtr(1)},
		{SemesterID: uintPtr(2)},
	}
	for i, user := range unplaced {
		if user.IsPlaced() {
			t.Errorf("case %d: expected user to be unplaced", i)
		}
	}
}
