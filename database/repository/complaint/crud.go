package complaintRepo

import (
	"context"
	"fmt"
	"time"

	"mastera/database"
	"mastera/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoComplaintRepo implements ComplaintRepository using MongoDB.
type MongoComplaintRepo struct {
	coll *mongo.Collection
}

// NewMongoComplaintRepo creates a new instance of ComplaintRepository using MongoDB.
func NewMongoComplaintRepo() ComplaintRepository {
	coll := database.DB().Collection("complaints")
	return &MongoComplaintRepo{coll: coll}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new complaint document.
func (r *MongoComplaintRepo) Create(complaint *models.Complaint) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	complaint.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, complaint)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

// Latest lists the most recent complaints.
func (r *MongoComplaintRepo) Latest(limit int64) ([]models.Complaint, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch complaints: %w", err)
	}
	defer cursor.Close(ctx)

	var complaints []models.Complaint
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, fmt.Errorf("failed to decode complaints: %w", err)
	}
	return complaints, nil
}
