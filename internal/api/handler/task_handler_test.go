package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/brainydx/task-tracker/internal/api/middleware"
	"github.com/brainydx/task-tracker/internal/core/domain"
	"github.com/brainydx/task-tracker/internal/core/ports"
)

type stubTaskService struct {
	createErr error
	updateErr error
	view      *ports.TaskView
	list      []ports.TaskView

	gotInput  ports.CreateTaskInput
	gotID     string
	gotPatch  ports.TaskPatch
	gotActor  ports.Identity
	gotFilter ports.TaskFilter
}

func (s *stubTaskService) Create(_ context.Context, input ports.CreateTaskInput) (*ports.TaskView, error) {
	s.gotInput = input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.view, nil
}

func (s *stubTaskService) Update(_ context.Context, id string, patch ports.TaskPatch, actor ports.Identity) (*ports.TaskView, error) {
	s.gotID, s.gotPatch, s.gotActor = id, patch, actor
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.view, nil
}

func (s *stubTaskService) List(_ context.Context, filter ports.TaskFilter) ([]ports.TaskView, error) {
	s.gotFilter = filter
	return s.list, nil
}

func sampleView() *ports.TaskView {
	return &ports.TaskView{
		ID:         "t1",
		Title:      "Ship release",
		Project:    ports.ProjectRef{ID: "p1", Title: "Platform"},
		AssignedTo: ports.MemberView{ID: "u1", Name: "Ana"},
		Status:     domain.StatusPending,
		Priority:   domain.PriorityHigh,
	}
}

func authenticate(c echo.Context, userID string, role domain.Role) {
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRole, role)
}

func TestTaskHandler_Create(t *testing.T) {
	svc := &stubTaskService{view: sampleView()}
	h := NewTaskHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/api/tasks",
		`{"title":"Ship release","projectId":"p1","employeeId":"u1","priority":"high"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if svc.gotInput.AssigneeID != "u1" {
		t.Errorf("employeeId not mapped to assignee: %+v", svc.gotInput)
	}
	if svc.gotInput.Priority != domain.PriorityHigh {
		t.Errorf("priority = %s, want high", svc.gotInput.Priority)
	}

	var body ports.TaskView
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID != "t1" || body.AssignedTo.Name != "Ana" {
		t.Errorf("unexpected response: %+v", body)
	}
}

func TestTaskHandler_Create_Validation(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	cases := map[string]string{
		"missing title":    `{"projectId":"p1","employeeId":"u1"}`,
		"missing project":  `{"title":"T","employeeId":"u1"}`,
		"missing assignee": `{"title":"T","projectId":"p1"}`,
		"bad priority":     `{"title":"T","projectId":"p1","employeeId":"u1","priority":"urgent"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newJSONContext(http.MethodPost, "/api/tasks", body)
			err := h.Create(c)
			if got := httpStatus(t, err); got != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", got)
			}
		})
	}
}

func TestTaskHandler_Update(t *testing.T) {
	svc := &stubTaskService{view: sampleView()}
	h := NewTaskHandler(svc)

	c, rec := newJSONContext(http.MethodPut, "/api/tasks/t1", `{"status":"completed"}`)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	authenticate(c, "u9", domain.RoleManager)

	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.gotID != "t1" {
		t.Errorf("id = %q, want t1", svc.gotID)
	}
	if svc.gotActor.UserID != "u9" || svc.gotActor.Role != domain.RoleManager {
		t.Errorf("actor = %+v", svc.gotActor)
	}
	if svc.gotPatch.Status == nil || *svc.gotPatch.Status != domain.StatusCompleted {
		t.Errorf("patch = %+v, want status completed", svc.gotPatch)
	}
	if svc.gotPatch.Priority != nil || svc.gotPatch.Description != nil {
		t.Errorf("untouched fields must stay nil: %+v", svc.gotPatch)
	}
}

func TestTaskHandler_Update_IgnoresUnknownFields(t *testing.T) {
	svc := &stubTaskService{view: sampleView()}
	h := NewTaskHandler(svc)

	c, _ := newJSONContext(http.MethodPut, "/api/tasks/t1",
		`{"status":"completed","title":"hijacked","assignedTo":"someone-else"}`)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	authenticate(c, "u9", domain.RoleAdmin)

	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if svc.gotPatch.IsEmpty() {
		t.Fatalf("whitelisted field should survive")
	}
	if svc.gotPatch.Status == nil || *svc.gotPatch.Status != domain.StatusCompleted {
		t.Errorf("patch = %+v", svc.gotPatch)
	}
}

func TestTaskHandler_Update_BadStatus(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	c, _ := newJSONContext(http.MethodPut, "/api/tasks/t1", `{"status":"done"}`)
	c.SetParamNames("id")
	c.SetParamValues("t1")
	authenticate(c, "u9", domain.RoleManager)

	err := h.Update(c)
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", got)
	}
}

func TestTaskHandler_Update_MissingIdentity(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{})

	c, _ := newJSONContext(http.MethodPut, "/api/tasks/t1", `{"status":"completed"}`)
	c.SetParamNames("id")
	c.SetParamValues("t1")

	err := h.Update(c)
	if got := httpStatus(t, err); got != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", got)
	}
}

func TestTaskHandler_List(t *testing.T) {
	svc := &stubTaskService{list: []ports.TaskView{*sampleView()}}
	h := NewTaskHandler(svc)

	c, rec := newJSONContext(http.MethodGet,
		"/api/tasks?search=release&status=pending&priority=high&employee=u1", "")
	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	want := ports.TaskFilter{Search: "release", Status: "pending", Priority: "high", AssigneeID: "u1"}
	if svc.gotFilter != want {
		t.Errorf("filter = %+v, want %+v", svc.gotFilter, want)
	}

	var body []ports.TaskView
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != 1 || body[0].ID != "t1" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestTaskHandler_List_NoFilters(t *testing.T) {
	svc := &stubTaskService{}
	h := NewTaskHandler(svc)

	c, rec := newJSONContext(http.MethodGet, "/api/tasks", "")
	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if svc.gotFilter != (ports.TaskFilter{}) {
		t.Errorf("filter should be empty, got %+v", svc.gotFilter)
	}
}
