// File: database/repository/master/masterMongoCrud.go
package masterRepo

import (
	"fmt"
	"time"

	"mastera/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new master document.
func (r *MongoMasterRepo) Create(master *models.Master) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	master.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, master)
	if err != nil {
		return fmt.Errorf("failed to create master: %w", err)
	}
	return nil
}

// Update replaces an existing master document.
func (r *MongoMasterRepo) Update(master *models.Master) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": master.ID}
	update := bson.M{"$set": master}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update master with id %d: %w", master.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("master with id %d not found", master.ID)
	}
	return nil
}

// UpdateSetDocument applies a partial $set update by display ID.
func (r *MongoMasterRepo) UpdateSetDocument(id int64, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": updateDoc}

	filter := bson.M{"id": id}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update master with id %d: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("master with id %d not found", id)
	}
	return nil
}

// SetActive flips the is_active flag.
func (r *MongoMasterRepo) SetActive(id int64, active bool) error {
	return r.UpdateSetDocument(id, bson.M{"is_active": active})
}

// IncrementOrdersCompleted bumps the completed counter and returns the
// post-increment document so the caller can rederive the skill tier.
func (r *MongoMasterRepo) IncrementOrdersCompleted(id int64) (*models.Master, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var master models.Master
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"id": id},
		bson.M{"$inc": bson.M{"orders_completed": 1}},
		opts,
	).Decode(&master)
	if err != nil {
		return nil, fmt.Errorf("failed to increment completed orders for master %d: %w", id, err)
	}
	return &master, nil
}

// ClearDocuments removes all sensitive document references.
func (r *MongoMasterRepo) ClearDocuments(id int64) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$unset": bson.M{
		"passport_scan_file_id": "",
		"face_photo_file_id":    "",
		"tax_doc_file_id":       "",
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to clear documents for master %d: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("master with id %d not found", id)
	}
	return nil
}
