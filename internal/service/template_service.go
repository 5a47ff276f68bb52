package service

import (
	"context"
	"fmt"

	"daily-routine/internal/model"
	"daily-routine/internal/template"
)

// TemplateService adds catalog activities to a profile's routine.
type TemplateService struct {
	catalog *template.Catalog
	tasks   *TaskService
}

func NewTemplateService(catalog *template.Catalog, tasks *TaskService) *TemplateService {
	return &TemplateService{catalog: catalog, tasks: tasks}
}

func (s *TemplateService) Catalog() *template.Catalog {
	return s.catalog
}

// ApplyTemplate appends every resolvable activity of template id.
func (s *TemplateService) ApplyTemplate(ctx context.Context, owner, id string) ([]model.Task, error) {
	inputs, ok := s.catalog.ExpandTemplate(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return s.tasks.AddAll(ctx, owner, inputs)
}

// ApplyActivities appends the named activities. Unknown names are skipped;
// when none resolve nothing is added.
func (s *TemplateService) ApplyActivities(ctx context.Context, owner string, names []string) ([]model.Task, error) {
	inputs := s.catalog.Expand(names)
	if len(inputs) == 0 {
		return []model.Task{}, nil
	}
	return s.tasks.AddAll(ctx, owner, inputs)
}
