package offerRepo

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

// MongoOfferRepo implements OfferRepository using MongoDB.
type MongoOfferRepo struct {
	coll *mongo.Collection
}

// NewMongoOfferRepo creates a new instance of OfferRepository using MongoDB.
func NewMongoOfferRepo() OfferRepository {
	coll := database.DB().Collection("offers")
	repo := &MongoOfferRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoOfferRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "request_id", Value: 1}, {Key: "master_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "master_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new offer document.
func (r *MongoOfferRepo) Create(offer *models.Offer) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	offer.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, offer)
	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// GetByRequestAndMaster retrieves the offer addressed to one master for one request.
func (r *MongoOfferRepo) GetByRequestAndMaster(requestID, masterID int64) (*models.Offer, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"request_id": requestID, "master_id": masterID}

	var offer models.Offer
	if err := r.coll.FindOne(ctx, filter).Decode(&offer); err != nil {
		return nil, fmt.Errorf("failed to fetch offer for request %d and master %d: %w", requestID, masterID, err)
	}
	return &offer, nil
}

// MarkSkipped resolves a still-sent offer as skipped.
func (r *MongoOfferRepo) MarkSkipped(requestID, masterID int64) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"request_id": requestID,
		"master_id":  masterID,
		"status":     models.OfferStatusSent,
	}
	update := bson.M{"$set": bson.M{"status": models.OfferStatusSkipped}}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to skip offer for request %d and master %d: %w", requestID, masterID, err)
	}
	return nil
}

// StatsByMaster aggregates a master's offers by status.
func (r *MongoOfferRepo) StatsByMaster(masterID int64) (Stats, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"master_id": masterID}},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate offers for master %d: %w", masterID, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return Stats{}, fmt.Errorf("failed to decode offer stats for master %d: %w", masterID, err)
	}

	var stats Stats
	for _, row := range rows {
		switch row.Status {
		case models.OfferStatusSent:
			stats.Sent = row.Count
		case models.OfferStatusSkipped:
			stats.Skipped = row.Count
		case models.OfferStatusTaken:
			stats.Taken = row.Count
		}
	}
	return stats, nil
}

// CountByStatus groups global offer counts by status.
func (r *MongoOfferRepo) CountByStatus() (map[string]int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate offer counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode offer counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
