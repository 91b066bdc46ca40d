package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the indexes for all collections. Called once at
// startup; the unique email index is what backs the duplicate-registration
// contract, so failure here is fatal.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := NewProjectRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return NewTaskRepository(db).EnsureIndexes(ctx)
}
