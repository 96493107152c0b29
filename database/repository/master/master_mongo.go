package masterRepo

import (
	"context"
	"fmt"
	"time"

	"mastera/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoMasterRepo implements MasterRepository using MongoDB.
type MongoMasterRepo struct {
	coll *mongo.Collection
}

// NewMongoMasterRepo creates a new instance of MasterRepository using MongoDB.
func NewMongoMasterRepo() MasterRepository {
	coll := database.DB().Collection("masters")
	repo := &MongoMasterRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
