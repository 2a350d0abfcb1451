// ABOUTME: Workout template service.
// ABOUTME: Templates are reusable exercise lists used to start workouts.
package storage

import (
	"context"
	"strings"

	"github.com/harperreed/fitlog/internal/kvstore"
	"github.com/harperreed/fitlog/internal/models"
)

// TemplateService manages workout templates.
type TemplateService struct {
	col *Collection[models.WorkoutTemplate]
}

// NewTemplateService creates a template service over store.
func NewTemplateService(store kvstore.Store) *TemplateService {
	return &TemplateService{col: NewCollection[models.WorkoutTemplate](store, kvstore.KeyTemplates)}
}

func validateTemplate(t models.WorkoutTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return invalid("name", "template name is required")
	}
	if len(t.Exercises) == 0 {
		return invalid("exercises", "a template needs at least one exercise")
	}
	return nil
}

// List returns all templates in the order they were created.
func (s *TemplateService) List(ctx context.Context) []models.WorkoutTemplate {
	return s.col.All(ctx)
}

// Get finds a template by id or id prefix.
func (s *TemplateService) Get(ctx context.Context, idOrPrefix string) (*models.WorkoutTemplate, error) {
	t, err := s.col.Find(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create validates and stores a new template.
func (s *TemplateService) Create(ctx context.Context, name string, exercises []models.Exercise, description string) (*models.WorkoutTemplate, error) {
	t := models.NewWorkoutTemplate(strings.TrimSpace(name), exercises)
	if description != "" {
		t.WithDescription(description)
	}
	if err := validateTemplate(*t); err != nil {
		return nil, err
	}
	if err := s.col.Append(ctx, *t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces a stored template. Returns ErrNotFound when the id is unknown.
func (s *TemplateService) Update(ctx context.Context, t models.WorkoutTemplate) error {
	if err := validateTemplate(t); err != nil {
		return err
	}
	return s.col.Replace(ctx, t)
}

// Delete removes a template; an unknown id is a no-op.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	_, err := s.col.Remove(ctx, id)
	return err
}
