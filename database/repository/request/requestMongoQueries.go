// File: database/repository/request/requestMongoQueries.go
package requestRepo

import (
	"fmt"
	"time"

	"mastera/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID retrieves a request by its display ID.
func (r *MongoRequestRepo) GetByID(id int64) (*models.Request, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var request models.Request
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&request); err != nil {
		return nil, fmt.Errorf("failed to fetch request with id %d: %w", id, err)
	}
	return &request, nil
}

// PendingOlderThan lists pending_confirmation requests created before the cutoff.
func (r *MongoRequestRepo) PendingOlderThan(cutoff time.Time) ([]models.Request, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":     models.RequestStatusPending,
		"created_at": bson.M{"$lt": cutoff},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stale pending requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.Request
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode stale pending requests: %w", err)
	}
	return requests, nil
}

// ActiveByMaster lists a master's assigned and pending requests.
func (r *MongoRequestRepo) ActiveByMaster(masterID int64) ([]models.Request, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"master_id": masterID,
		"status":    bson.M{"$in": []string{models.RequestStatusAssigned, models.RequestStatusPending}},
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active requests for master %d: %w", masterID, err)
	}
	defer cursor.Close(ctx)

	var requests []models.Request
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode active requests for master %d: %w", masterID, err)
	}
	return requests, nil
}

// CountByStatus groups request counts by status.
func (r *MongoRequestRepo) CountByStatus() (map[string]int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate request counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode request counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
