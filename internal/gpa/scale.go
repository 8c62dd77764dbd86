package gpa

// Scale identifies a grade-to-point mapping. Two fixed scales are supported;
// they differ only in the value of the top grade.
type Scale string

const (
	Scale40 Scale = "4.0"
	Scale43 Scale = "4.3"
)

// basePoints holds the letter values shared by both scales. A+ is overridden
// per scale in Points.
var basePoints = map[string]float64{
	"A+": 4.0,
	"A":  4.0,
	"A-": 3.7,
	"B+": 3.3,
	"B":  3.0,
	"B-": 2.7,
	"C+": 2.3,
	"C":  2.0,
	"C-": 1.7,
	"D+": 1.3,
	"D":  1.0,
	"D-": 0.7,
	"F":  0.0,
}

// letterOrder lists the grades from best to worst, for validation and display
var letterOrder = []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "D-", "F"}

// IsValid reports whether s is one of the supported scales
func (s Scale) IsValid() bool {
	return s == Scale40 || s == Scale43
}

// Max returns the highest point value awarded on this scale
func (s Scale) Max() float64 {
	if s == Scale43 {
		return 4.3
	}
	return 4.0
}

// Points returns the point value for a letter grade on this scale.
// The second result is false for letters outside the scale.
func (s Scale) Points(grade string) (float64, bool) {
	points, ok := basePoints[grade]
	if !ok {
		return 0, false
	}
	if grade == "A+" && s == Scale43 {
		return 4.3, true
	}
	return points, true
}

// Letters returns the valid letter grades, best first
func (s Scale) Letters() []string {
	letters := make([]string, len(letterOrder))
	copy(letters, letterOrder)
	return letters
}
