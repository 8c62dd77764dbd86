package models

// Task is a single to-do entry on the planner calendar. CategoryID is an
// optional reference; empty means uncategorized.
type Task struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Completed  bool   `json:"completed"`
	CategoryID string `json:"categoryId"`
}

// Category is a named color label for tasks
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PlannerData is the persisted planner document for one user
type PlannerData struct {
	Tasks      []Task     `json:"tasks"`
	Categories []Category `json:"categories"`
}

// CategoryByID returns the category with the given ID, or nil
func (p *PlannerData) CategoryByID(id string) *Category {
	for i := range p.Categories {
		if p.Categories[i].ID == id {
			return &p.Categories[i]
		}
	}
	return nil
}
