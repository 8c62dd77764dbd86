package models

// Course is one transcript entry. Grade is a letter from the selected scale
// or empty while the course is still in progress.
type Course struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Grade   string  `json:"grade"`
	Credits float64 `json:"credits"`
}

// Contributes reports whether the course counts toward the GPA:
// it needs a grade and a positive credit weight.
func (c *Course) Contributes() bool {
	return c.Grade != "" && c.Credits > 0
}

// GPAData is the persisted GPA document for one user. TargetGPA holds the
// raw string the user typed; analysis is skipped when it does not parse.
type GPAData struct {
	Scale                string   `json:"scale"`
	Courses              []Course `json:"courses"`
	TotalCreditsRequired float64  `json:"totalCreditsRequired"`
	TargetGPA            string   `json:"targetGPA"`
}
