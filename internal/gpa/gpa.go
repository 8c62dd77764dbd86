// Package gpa computes cumulative GPA and target-grade analysis over a list
// of courses. A course counts only when it has a grade the scale knows and a
// positive credit weight; everything else is ignored rather than rejected.
package gpa

import (
	"fmt"
	"strconv"
	"strings"

	"studydesk/internal/models"
)

// TargetResult is the outcome of a target-GPA analysis. RequiredGPA is nil
// when no required-grade figure applies (ceiling failures and the case where
// all required credits are already accounted for).
type TargetResult struct {
	Possible    bool     `json:"possible"`
	Message     string   `json:"message"`
	RequiredGPA *float64 `json:"requiredGPA,omitempty"`
}

// ComputeCurrentGPA returns the credit-weighted average grade over the
// contributing courses, or exactly 0 when none contribute.
func ComputeCurrentGPA(courses []models.Course, scale Scale) float64 {
	points, credits := tally(courses, scale)
	if credits == 0 {
		return 0
	}
	return points / credits
}

// CompletedCredits sums the credit weights of the contributing courses
func CompletedCredits(courses []models.Course, scale Scale) float64 {
	_, credits := tally(courses, scale)
	return credits
}

// AnalyzeTarget determines whether targetGPA is reachable given the graded
// courses so far and the total credits the program requires. It returns nil
// when targetGPA is absent or not numeric: that is "no analysis available",
// not an error.
func AnalyzeTarget(courses []models.Course, scale Scale, targetGPA string, totalCreditsRequired float64) *TargetResult {
	target, err := strconv.ParseFloat(strings.TrimSpace(targetGPA), 64)
	if err != nil {
		return nil
	}

	// Hard ceiling, independent of any credit math
	max := scale.Max()
	if target > max {
		return &TargetResult{
			Possible: false,
			Message:  fmt.Sprintf("A target of %.2f exceeds the maximum %.1f on this scale", target, max),
		}
	}

	currentPoints, currentCredits := tally(courses, scale)
	remaining := totalCreditsRequired - currentCredits

	// All required credits already graded: the target is either met or it
	// isn't, and there is no remaining-credit figure to report.
	if remaining <= 0 {
		current := ComputeCurrentGPA(courses, scale)
		if current >= target {
			return &TargetResult{
				Possible: true,
				Message:  fmt.Sprintf("Target reached: your GPA is %.2f with all required credits completed", current),
			}
		}
		return &TargetResult{
			Possible: false,
			Message:  fmt.Sprintf("All required credits are completed and your GPA is %.2f, below the target", current),
		}
	}

	required := (target*totalCreditsRequired - currentPoints) / remaining

	switch {
	case required > max:
		return &TargetResult{
			Possible:    false,
			Message:     fmt.Sprintf("Not achievable: you would need a %.2f average in your remaining %s credits", required, formatCredits(remaining)),
			RequiredGPA: &required,
		}
	case required < 0:
		zero := 0.0
		return &TargetResult{
			Possible:    true,
			Message:     "Your current grades already exceed this target",
			RequiredGPA: &zero,
		}
	default:
		return &TargetResult{
			Possible:    true,
			Message:     fmt.Sprintf("You need a %.2f average in your remaining %s credits", required, formatCredits(remaining)),
			RequiredGPA: &required,
		}
	}
}

// tally sums grade points and credits over the contributing courses
func tally(courses []models.Course, scale Scale) (points, credits float64) {
	for _, course := range courses {
		if !course.Contributes() {
			continue
		}
		value, ok := scale.Points(course.Grade)
		if !ok {
			continue
		}
		points += value * course.Credits
		credits += course.Credits
	}
	return points, credits
}

// formatCredits renders a credit count without a trailing .0 for whole values
func formatCredits(credits float64) string {
	return strconv.FormatFloat(credits, 'f', -1, 64)
}
