package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/brainydx/task-tracker/internal/api/metrics"
	"github.com/brainydx/task-tracker/internal/core/domain"
	"github.com/brainydx/task-tracker/internal/core/ports"
)

// TaskService implements task use cases. Mutations publish a broadcast event
// in addition to returning the updated record; the publish is fire-and-forget
// and never fails the request.
type TaskService struct {
	repo     ports.TaskRepository
	projects ports.ProjectRepository
	users    ports.UserRepository
	bus      ports.Broadcaster
	log      zerolog.Logger
}

func NewTaskService(
	repo ports.TaskRepository,
	projects ports.ProjectRepository,
	users ports.UserRepository,
	bus ports.Broadcaster,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{repo: repo, projects: projects, users: users, bus: bus, log: log}
}

// Create persists a new task after resolving both references. A reference
// that does not resolve rejects the write; nothing is repaired after the fact.
func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*ports.TaskView, error) {
	if input.Title == "" {
		return nil, domain.ErrTitleRequired
	}

	if _, err := s.projects.FindByID(ctx, input.ProjectID); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, domain.ErrUnknownProject
		}
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, input.AssigneeID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnknownAssignee
		}
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.ErrInvalidPriority
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
		Status:      domain.StatusPending,
		Priority:    priority,
		Deadline:    input.Deadline,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(created.Priority)).Inc()
	s.log.Info().Str("task_id", created.ID).Str("project_id", created.ProjectID).Msg("task created")

	view := s.expandOne(ctx, created)
	s.bus.Publish(ports.Event{Name: ports.EventTaskCreated, Payload: view})
	return view, nil
}

// Update applies a whitelisted partial patch. Employees may only touch tasks
// assigned to them; managers may touch any task. The updated record is both
// returned and broadcast.
func (s *TaskService) Update(ctx context.Context, id string, patch ports.TaskPatch, actor ports.Identity) (*ports.TaskView, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleEmployee && task.AssigneeID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, domain.ErrInvalidPriority
	}

	updated := task
	if !patch.IsEmpty() {
		updated, err = s.repo.Update(ctx, id, patch)
		if err != nil {
			return nil, err
		}
	}

	metrics.TasksUpdatedTotal.WithLabelValues(string(updated.Status)).Inc()
	s.log.Info().
		Str("task_id", updated.ID).
		Str("status", string(updated.Status)).
		Str("actor_id", actor.UserID).
		Msg("task updated")

	view := s.expandOne(ctx, updated)
	s.bus.Publish(ports.Event{Name: ports.EventTaskUpdated, Payload: view})
	return view, nil
}

// List returns tasks matching the filter, references expanded.
func (s *TaskService) List(ctx context.Context, filter ports.TaskFilter) ([]ports.TaskView, error) {
	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]ports.TaskView, 0, len(tasks))
	for _, v := range s.expand(ctx, tasks) {
		views = append(views, *v)
	}
	return views, nil
}

func (s *TaskService) expandOne(ctx context.Context, task *domain.Task) *ports.TaskView {
	return s.expand(ctx, []*domain.Task{task})[0]
}

// expand resolves project titles and assignee names in one lookup per
// collection. Unresolvable references render with empty display fields rather
// than failing the read.
func (s *TaskService) expand(ctx context.Context, tasks []*domain.Task) []*ports.TaskView {
	projectIDs := make(map[string]struct{})
	userIDs := make(map[string]struct{})
	for _, t := range tasks {
		projectIDs[t.ProjectID] = struct{}{}
		userIDs[t.AssigneeID] = struct{}{}
	}

	titles, err := s.projects.TitlesByIDs(ctx, keys(projectIDs))
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to resolve project titles")
		titles = map[string]string{}
	}
	names, err := s.users.NamesByIDs(ctx, keys(userIDs))
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to resolve user names")
		names = map[string]string{}
	}

	views := make([]*ports.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, &ports.TaskView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Project:     ports.ProjectRef{ID: t.ProjectID, Title: titles[t.ProjectID]},
			AssignedTo:  ports.MemberView{ID: t.AssigneeID, Name: names[t.AssigneeID]},
			Status:      t.Status,
			Priority:    t.Priority,
			Deadline:    t.Deadline,
			CreatedAt:   t.CreatedAt,
		})
	}
	return views
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
