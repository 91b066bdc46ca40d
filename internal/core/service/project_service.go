package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/brainydx/task-tracker/internal/core/domain"
	"github.com/brainydx/task-tracker/internal/core/ports"
)

// ProjectService implements project use cases.
type ProjectService struct {
	repo  ports.ProjectRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewProjectService(repo ports.ProjectRepository, users ports.UserRepository, log zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, users: users, log: log}
}

// Create persists a new project. The manager is input.ManagerID, which the
// handler takes from the authenticated identity.
func (s *ProjectService) Create(ctx context.Context, input ports.CreateProjectInput) (*ports.ProjectView, error) {
	if input.Title == "" {
		return nil, domain.ErrTitleRequired
	}

	project := &domain.Project{
		Title:       input.Title,
		Description: input.Description,
		ManagerID:   input.ManagerID,
		EmployeeIDs: input.EmployeeIDs,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create project")
		return nil, err
	}

	s.log.Info().Str("project_id", created.ID).Str("manager_id", created.ManagerID).Msg("project created")
	return s.expand(ctx, []*domain.Project{created})[0], nil
}

// List returns all projects with manager and employee references expanded to
// display names. No ownership filtering is applied.
func (s *ProjectService) List(ctx context.Context) ([]ports.ProjectView, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ports.ProjectView, 0, len(projects))
	for _, v := range s.expand(ctx, projects) {
		views = append(views, *v)
	}
	return views, nil
}

// expand resolves user references to display names in a single lookup. A name
// that cannot be resolved is left empty rather than failing the read.
func (s *ProjectService) expand(ctx context.Context, projects []*domain.Project) []*ports.ProjectView {
	idSet := make(map[string]struct{})
	for _, p := range projects {
		idSet[p.ManagerID] = struct{}{}
		for _, id := range p.EmployeeIDs {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	names, err := s.users.NamesByIDs(ctx, ids)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to resolve user names")
		names = map[string]string{}
	}

	views := make([]*ports.ProjectView, 0, len(projects))
	for _, p := range projects {
		view := &ports.ProjectView{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Manager:     ports.MemberView{ID: p.ManagerID, Name: names[p.ManagerID]},
			Employees:   make([]ports.MemberView, 0, len(p.EmployeeIDs)),
			CreatedAt:   p.CreatedAt,
		}
		for _, id := range p.EmployeeIDs {
			view.Employees = append(view.Employees, ports.MemberView{ID: id, Name: names[id]})
		}
		views = append(views, view)
	}
	return views
}
