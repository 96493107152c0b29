package sequenceRepo

import (
	"context"
	"fmt"
	"time"

	"mastera/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sequence mints monotonically increasing display identifiers.
type Sequence interface {
	// Next advances the named counter and returns its new value.
	Next(name string) (int64, error)
}

// MongoSequence implements Sequence on a counters collection.
type MongoSequence struct {
	coll *mongo.Collection
}

// NewMongoSequence creates a new Sequence backed by MongoDB.
func NewMongoSequence() Sequence {
	coll := database.DB().Collection("counters")
	return &MongoSequence{coll: coll}
}

func (s *MongoSequence) Next(name string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Value int64 `bson:"value"`
	}
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}
	return doc.Value, nil
}
