package models

import (
	"fmt"
	"time"
)

// Category classifies a task. The model is instructed to pick one of these;
// anything else is rejected during validation.
type Category string

const (
	CategoryHealth    Category = "Health"
	CategoryStudy     Category = "Study"
	CategoryWork      Category = "Work"
	CategoryPersonal  Category = "Personal"
	CategoryEmotional Category = "Emotional"
)

// Categories lists every valid task category, in prompt order.
var Categories = []Category{
	CategoryHealth,
	CategoryStudy,
	CategoryWork,
	CategoryPersonal,
	CategoryEmotional,
}

// ValidCategory reports whether c is a member of the category enumeration.
func ValidCategory(c Category) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Task is a single entry in a daily plan.
type Task struct {
	Description string   `json:"description"`
	Category    Category `json:"category"`
	IsCompleted bool     `json:"is_completed"`
	Deadline    *string  `json:"deadline"` // "YYYY-MM-DD", nil when open-ended
}

// Plan is the structured daily schedule produced by the model or saved
// directly by the client. One plan per user, replaced wholesale.
type Plan struct {
	DailySchedule []Task `json:"daily_schedule"`
	Summary       string `json:"summary"`
	Date          string `json:"date"`
}

// DateFormat is the wire format for plan and deadline dates.
const DateFormat = "2006-01-02"

// Validate checks the plan against the schema every downstream consumer
// relies on: each task must carry a description and a known category. An
// empty plan date is defaulted to today rather than rejected.
func (p *Plan) Validate() error {
	for i, task := range p.DailySchedule {
		if task.Description == "" {
			return fmt.Errorf("task %d: missing description", i)
		}
		if !ValidCategory(task.Category) {
			return fmt.Errorf("task %d: invalid category %q", i, task.Category)
		}
	}
	if p.Date == "" {
		p.Date = time.Now().Format(DateFormat)
	}
	return nil
}
