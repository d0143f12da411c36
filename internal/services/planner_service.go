package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sandy853/TaskForge-AI/internal/models"
	"github.com/Sandy853/TaskForge-AI/internal/storage"
	"github.com/rs/zerolog/log"
)

var (
	// ErrPlanCorrupt means a stored plan exists but no longer parses or
	// validates. Surfaced as a hard error, never as "no plan yet".
	ErrPlanCorrupt = errors.New("could not load existing plan")
	// ErrPlanSaveFailed wraps persistence failures.
	ErrPlanSaveFailed = errors.New("could not save plan")
	// ErrBadModelOutput means the model reply was not valid JSON or did not
	// match the plan schema.
	ErrBadModelOutput = errors.New("model response format invalid")
)

// Generator is the one-method view of the text-generation service. The
// production implementation is the ollama client; tests substitute canned
// text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PlannerServiceProvider defines the interface for plan services.
type PlannerServiceProvider interface {
	LoadPlan(username string) (*models.Plan, error)
	SavePlan(username string, plan *models.Plan) error
	CreatePlan(ctx context.Context, username, rawTasks string) (*models.Plan, error)
	TodaysTasks(username string) ([]models.Task, error)
	Analytics(username string) (map[models.Category]int, error)
}

// PlannerService owns plan persistence and the generation pipeline.
type PlannerService struct {
	store     storage.BlobStore
	generator Generator
}

// NewPlannerService creates a new PlannerService.
func NewPlannerService(store storage.BlobStore, generator Generator) *PlannerService {
	return &PlannerService{store: store, generator: generator}
}

// LoadPlan returns the user's stored plan, or (nil, nil) when none exists.
func (s *PlannerService) LoadPlan(username string) (*models.Plan, error) {
	data, err := s.store.Get(username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var plan models.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Stored plan is not valid JSON")
		return nil, ErrPlanCorrupt
	}
	if err := plan.Validate(); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Stored plan fails schema validation")
		return nil, ErrPlanCorrupt
	}
	return &plan, nil
}

// SavePlan validates and persists the plan, replacing any previous one.
func (s *PlannerService) SavePlan(username string, plan *models.Plan) error {
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlanSaveFailed, err)
	}
	if err := s.store.Put(username, data); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to persist plan")
		return fmt.Errorf("%w: %v", ErrPlanSaveFailed, err)
	}
	return nil
}

// buildPrompt assembles the generation request: instruction, output schema
// and the combined description string of prior plus new tasks.
func buildPrompt(fullTasks string) string {
	return fmt.Sprintf(`Your task is to take a list of tasks and generate a daily plan.
Your entire response must be a single, valid JSON object. Do not include any extra text, explanations, or markdown formatting outside of the JSON.
The JSON object must be formatted as follows:
{
  "daily_schedule": [
    {
      "description": "string",
      "category": "string",
      "is_completed": false,
      "deadline": "YYYY-MM-DD or null"
    }
  ],
  "summary": "A brief, encouraging summary of the day's plan.",
  "date": "YYYY-MM-DD"
}
The "category" field must be one of: "Health", "Study", "Work", "Personal", or "Emotional".
Fill in the template with the provided tasks.
User's tasks:
%s`, fullTasks)
}

// CreatePlan prompts the model with all accumulated task descriptions plus
// the newly submitted text, validates the reply against the plan schema and
// persists the result. On any failure the previously stored plan is left
// untouched.
func (s *PlannerService) CreatePlan(ctx context.Context, username, rawTasks string) (*models.Plan, error) {
	existing, err := s.LoadPlan(username)
	if err != nil {
		return nil, err
	}

	var descriptions []string
	if existing != nil {
		for _, task := range existing.DailySchedule {
			descriptions = append(descriptions, task.Description)
		}
	}
	descriptions = append(descriptions, rawTasks)
	fullTasks := strings.Join(descriptions, ", ")

	raw, err := s.generator.Generate(ctx, buildPrompt(fullTasks))
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	var plan models.Plan
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &plan); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Model response was not valid JSON")
		return nil, ErrBadModelOutput
	}
	if err := plan.Validate(); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Model response did not match the plan schema")
		return nil, ErrBadModelOutput
	}

	if err := s.SavePlan(username, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// TodaysTasks returns the tasks whose deadline is today's date.
func (s *PlannerService) TodaysTasks(username string) ([]models.Task, error) {
	plan, err := s.LoadPlan(username)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format(models.DateFormat)
	tasks := []models.Task{}
	if plan == nil {
		return tasks, nil
	}
	for _, task := range plan.DailySchedule {
		if task.Deadline != nil && *task.Deadline == today {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// Analytics counts completed tasks per category. Categories with no
// completed tasks are omitted.
func (s *PlannerService) Analytics(username string) (map[models.Category]int, error) {
	plan, err := s.LoadPlan(username)
	if err != nil {
		return nil, err
	}

	counts := map[models.Category]int{}
	if plan == nil {
		return counts, nil
	}
	for _, task := range plan.DailySchedule {
		if task.IsCompleted {
			counts[task.Category]++
		}
	}
	return counts, nil
}
