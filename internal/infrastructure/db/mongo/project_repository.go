package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brainydx/task-tracker/internal/core/domain"
)

const projectsCollection = "projects"

type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection(projectsCollection)}
}

type projectDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description,omitempty"`
	Manager     primitive.ObjectID   `bson:"manager"`
	Employees   []primitive.ObjectID `bson:"employees"`
	CreatedAt   time.Time            `bson:"createdAt"`
}

func (d projectDoc) toDomain() *domain.Project {
	employees := make([]string, 0, len(d.Employees))
	for _, id := range d.Employees {
		employees = append(employees, id.Hex())
	}
	return &domain.Project{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		ManagerID:   d.Manager.Hex(),
		EmployeeIDs: employees,
		CreatedAt:   d.CreatedAt,
	}
}

// EnsureIndexes creates the manager lookup index.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "manager", Value: 1}},
	})
	return err
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	manager, err := primitive.ObjectIDFromHex(p.ManagerID)
	if err != nil {
		return nil, fmt.Errorf("invalid manager id: %w", err)
	}
	employees := make([]primitive.ObjectID, 0, len(p.EmployeeIDs))
	for _, id := range p.EmployeeIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, domain.ErrUnknownAssignee
		}
		employees = append(employees, oid)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := projectDoc{
		Title:       p.Title,
		Description: p.Description,
		Manager:     manager,
		Employees:   employees,
		CreatedAt:   p.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	created := *p
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc projectDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cur.Close(ctx)

	var projects []*domain.Project
	for cur.Next(ctx) {
		var doc projectDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode project: %w", err)
		}
		projects = append(projects, doc.toDomain())
	}
	return projects, cur.Err()
}

// TitlesByIDs resolves ids to titles in a single query.
func (r *ProjectRepository) TitlesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	titles := make(map[string]string, len(oids))
	if len(oids) == 0 {
		return titles, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}},
		options.Find().SetProjection(bson.M{"title": 1}))
	if err != nil {
		return nil, fmt.Errorf("find projects by ids: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc projectDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode project: %w", err)
		}
		titles[doc.ID.Hex()] = doc.Title
	}
	return titles, cur.Err()
}
