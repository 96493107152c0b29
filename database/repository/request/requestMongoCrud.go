// File: database/repository/request/requestMongoCrud.go
package requestRepo

import (
	"fmt"
	"time"

	"mastera/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new request document.
func (r *MongoRequestRepo) Create(request *models.Request) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	request.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// TransitionStatus performs a compare-and-set status move. MatchedCount of
// zero means someone else moved the request first.
func (r *MongoRequestRepo) TransitionStatus(id int64, from, to string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to transition request %d from %s to %s: %w", id, from, to, err)
	}
	if result.MatchedCount == 0 {
		return ErrStatusConflict
	}
	return nil
}

// CompleteIfPending moves pending_confirmation to completed and stamps
// completed_at in the same write.
func (r *MongoRequestRepo) CompleteIfPending(id int64, completedAt time.Time) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.RequestStatusPending}
	update := bson.M{"$set": bson.M{
		"status":       models.RequestStatusCompleted,
		"completed_at": completedAt,
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to complete request %d: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrStatusConflict
	}
	return nil
}

// ClaimReviewPrompt flips the one-shot review_requested gate.
func (r *MongoRequestRepo) ClaimReviewPrompt(id int64) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "review_requested": false}
	update := bson.M{"$set": bson.M{"review_requested": true}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to claim review prompt for request %d: %w", id, err)
	}
	return result.MatchedCount > 0, nil
}
