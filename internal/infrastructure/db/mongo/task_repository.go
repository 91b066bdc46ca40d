package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brainydx/task-tracker/internal/core/domain"
	"github.com/brainydx/task-tracker/internal/core/ports"
)

const tasksCollection = "tasks"

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Project     primitive.ObjectID `bson:"project"`
	AssignedTo  primitive.ObjectID `bson:"assignedTo"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	Deadline    *time.Time         `bson:"deadline,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d taskDoc) toDomain() *domain.Task {
	return &domain.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		ProjectID:   d.Project.Hex(),
		AssigneeID:  d.AssignedTo.Hex(),
		Status:      domain.TaskStatus(d.Status),
		Priority:    domain.TaskPriority(d.Priority),
		Deadline:    d.Deadline,
		CreatedAt:   d.CreatedAt,
	}
}

// EnsureIndexes creates the indexes backing the list filters.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project", Value: 1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	project, err := primitive.ObjectIDFromHex(t.ProjectID)
	if err != nil {
		return nil, domain.ErrUnknownProject
	}
	assignee, err := primitive.ObjectIDFromHex(t.AssigneeID)
	if err != nil {
		return nil, domain.ErrUnknownAssignee
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := taskDoc{
		Title:       t.Title,
		Description: t.Description,
		Project:     project,
		AssignedTo:  assignee,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Deadline:    t.Deadline,
		CreatedAt:   t.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created := *t
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taskDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return doc.toDomain(), nil
}

// Update applies the patch as a single $set and returns the post-update
// document. Only the whitelisted patch fields can ever reach the $set.
func (r *TaskRepository) Update(ctx context.Context, id string, patch ports.TaskPatch) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	set := bson.M{}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.Priority != nil {
		set["priority"] = string(*patch.Priority)
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Deadline != nil {
		set["deadline"] = *patch.Deadline
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taskDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) List(ctx context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, BuildTaskFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)

	var tasks []*domain.Task
	for cur.Next(ctx) {
		var doc taskDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, doc.toDomain())
	}
	return tasks, cur.Err()
}

// BuildTaskFilter translates a TaskFilter into a mongo query. Absent filter
// fields are not applied; search is a case-insensitive substring match on the
// title. Exported so the query shape is unit-testable without a live mongo.
func BuildTaskFilter(f ports.TaskFilter) bson.M {
	query := bson.M{}
	if f.Search != "" {
		// QuoteMeta so user input is always a literal substring match
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.Priority != "" {
		query["priority"] = f.Priority
	}
	if f.AssigneeID != "" {
		if oid, err := primitive.ObjectIDFromHex(f.AssigneeID); err == nil {
			query["assignedTo"] = oid
		} else {
			// malformed id cannot match any document
			query["assignedTo"] = primitive.NilObjectID
		}
	}
	return query
}
