package service

import (
	"errors"
	"math"
	"testing"

	"studydesk/internal/validation"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGPADefaults(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "gpa@example.com")

	overview, err := env.gpaSvc.Overview(user.ID)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if overview.Scale != "4.0" {
		t.Errorf("Expected default scale 4.0, got %q", overview.Scale)
	}
	if len(overview.Courses) != 1 {
		t.Fatalf("Expected one starter course, got %d", len(overview.Courses))
	}
	if overview.Courses[0].Name != "" || overview.Courses[0].Grade != "" {
		t.Errorf("Starter course should be blank: %+v", overview.Courses[0])
	}
	if overview.TotalCreditsRequired != 120 {
		t.Errorf("Expected 120 required credits, got %v", overview.TotalCreditsRequired)
	}
	if overview.CurrentGPA != 0 || overview.CompletedCredits != 0 {
		t.Errorf("Blank sheet should compute to zero: gpa=%v credits=%v", overview.CurrentGPA, overview.CompletedCredits)
	}
	if overview.Target != nil {
		t.Errorf("No target set, expected nil analysis, got %+v", overview.Target)
	}
}

func TestCourseLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "courses@example.com")

	overview, err := env.gpaSvc.Overview(user.ID)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	starter := overview.Courses[0]

	// Grades are normalized to upper case on the way in
	updated, err := env.gpaSvc.UpdateCourse(user.ID, starter.ID, "Calculus", " a ", 3)
	if err != nil {
		t.Fatalf("UpdateCourse failed: %v", err)
	}
	if updated.Grade != "A" {
		t.Errorf("Expected normalized grade A, got %q", updated.Grade)
	}

	second, err := env.gpaSvc.AddCourse(user.ID)
	if err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}
	if _, err := env.gpaSvc.UpdateCourse(user.ID, second.ID, "Physics", "b+", 4); err != nil {
		t.Fatalf("UpdateCourse failed: %v", err)
	}

	// A at 3 credits plus B+ at 4 credits: (12 + 13.2) / 7
	overview, err = env.gpaSvc.Overview(user.ID)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if !almostEqual(overview.CurrentGPA, 25.2/7) {
		t.Errorf("Expected GPA %.4f, got %.4f", 25.2/7, overview.CurrentGPA)
	}
	if !almostEqual(overview.CompletedCredits, 7) {
		t.Errorf("Expected 7 completed credits, got %v", overview.CompletedCredits)
	}

	if err := env.gpaSvc.DeleteCourse(user.ID, second.ID); err != nil {
		t.Fatalf("DeleteCourse failed: %v", err)
	}
	overview, _ = env.gpaSvc.Overview(user.ID)
	if len(overview.Courses) != 1 {
		t.Errorf("Expected 1 course after delete, got %d", len(overview.Courses))
	}

	if err := env.gpaSvc.DeleteCourse(user.ID, "missing"); err != ErrCourseNotFound {
		t.Errorf("Expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "validate@example.com")

	overview, err := env.gpaSvc.Overview(user.ID)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	courseID := overview.Courses[0].ID

	tests := []struct {
		name    string
		grade   string
		credits float64
		field   string
	}{
		{"negative credits", "A", -1, "credits"},
		{"unknown letter", "Z+", 3, "grade"},
		{"numeric grade", "3.5", 3, "grade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.gpaSvc.UpdateCourse(user.ID, courseID, "Course", tt.grade, tt.credits)
			var verr validation.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected validation error, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}

	// An empty grade is "not graded yet", never an error
	if _, err := env.gpaSvc.UpdateCourse(user.ID, courseID, "Seminar", "", 2); err != nil {
		t.Errorf("Empty grade should be accepted, got %v", err)
	}

	if _, err := env.gpaSvc.UpdateCourse(user.ID, "missing", "Course", "A", 3); err != ErrCourseNotFound {
		t.Errorf("Expected ErrCourseNotFound, got %v", err)
	}
}

func TestDeleteLastCourse(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "lastcourse@example.com")

	overview, err := env.gpaSvc.Overview(user.ID)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if err := env.gpaSvc.DeleteCourse(user.ID, overview.Courses[0].ID); err != ErrLastCourse {
		t.Errorf("Expected ErrLastCourse, got %v", err)
	}
}

func TestUpdateGPASettings(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "settings@example.com")

	overview, err := env.gpaSvc.UpdateSettings(user.ID, "4.3", "3.5", 90)
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if overview.Scale != "4.3" || overview.TargetGPA != "3.5" || overview.TotalCreditsRequired != 90 {
		t.Errorf("Settings not applied: %+v", overview)
	}
	if overview.Target == nil {
		t.Error("Expected a target analysis for a numeric target")
	}

	if _, err := env.gpaSvc.UpdateSettings(user.ID, "5.0", "", 120); err == nil {
		t.Error("Expected error for unsupported scale")
	}
	var verr validation.ValidationError
	_, err = env.gpaSvc.UpdateSettings(user.ID, "4.0", "", -10)
	if !errors.As(err, &verr) || verr.Field != "totalCreditsRequired" {
		t.Errorf("Expected credits validation error, got %v", err)
	}

	// A non-numeric target is stored as typed but yields no analysis
	overview, err = env.gpaSvc.UpdateSettings(user.ID, "4.0", "abc", 120)
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if overview.TargetGPA != "abc" {
		t.Errorf("Target should be stored as typed, got %q", overview.TargetGPA)
	}
	if overview.Target != nil {
		t.Errorf("Non-numeric target should have nil analysis, got %+v", overview.Target)
	}
}

func TestTargetAnalysis(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := newTestEnv(t)
	user := env.register(t, "target@example.com")

	overview, err := env.gpaSvc.Overview(user.ID)
	if err != nil {
		t.Fatalf("Overview failed: %v", err)
	}
	if _, err := env.gpaSvc.UpdateCourse(user.ID, overview.Courses[0].ID, "Intro", "B", 30); err != nil {
		t.Fatalf("UpdateCourse failed: %v", err)
	}

	// 30 credits of B against a 3.5 target over 120 credits: reachable,
	// with a required average on the remaining 90
	overview, err = env.gpaSvc.UpdateSettings(user.ID, "4.0", "3.5", 120)
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if overview.Target == nil || !overview.Target.Possible {
		t.Fatalf("Expected reachable target, got %+v", overview.Target)
	}
	if overview.Target.RequiredGPA == nil {
		t.Fatal("Expected a required-GPA figure")
	}
	// (3.5*120 - 3.0*30) / 90
	want := (3.5*120 - 90.0) / 90
	if !almostEqual(*overview.Target.RequiredGPA, want) {
		t.Errorf("Expected required GPA %.4f, got %.4f", want, *overview.Target.RequiredGPA)
	}

	// A target above the scale ceiling is flagged impossible outright
	overview, err = env.gpaSvc.UpdateSettings(user.ID, "4.0", "4.2", 120)
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if overview.Target == nil || overview.Target.Possible {
		t.Errorf("Target above ceiling should be impossible: %+v", overview.Target)
	}
}
