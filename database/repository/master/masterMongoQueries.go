// File: database/repository/master/masterMongoQueries.go
package masterRepo

import (
	"fmt"
	"time"

	"mastera/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID retrieves a master by its display ID.
func (r *MongoMasterRepo) GetByID(id int64) (*models.Master, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var master models.Master
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&master); err != nil {
		return nil, fmt.Errorf("failed to fetch master with id %d: %w", id, err)
	}
	return &master, nil
}

// GetByTelegramID retrieves a master by the owning Telegram user.
func (r *MongoMasterRepo) GetByTelegramID(telegramID int64) (*models.Master, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var master models.Master
	if err := r.coll.FindOne(ctx, bson.M{"telegram_id": telegramID}).Decode(&master); err != nil {
		return nil, fmt.Errorf("failed to fetch master for telegram user %d: %w", telegramID, err)
	}
	return &master, nil
}

// GetActive retrieves all masters currently receiving offers.
func (r *MongoMasterRepo) GetActive() ([]models.Master, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"is_active": true}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active masters: %w", err)
	}
	defer cursor.Close(ctx)

	var masters []models.Master
	if err := cursor.All(ctx, &masters); err != nil {
		return nil, fmt.Errorf("failed to decode active masters: %w", err)
	}
	return masters, nil
}

// DocumentHolders lists masters created before the cutoff that still carry
// any sensitive document reference.
func (r *MongoMasterRepo) DocumentHolders(createdBefore time.Time) ([]models.Master, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"created_at": bson.M{"$lt": createdBefore},
		"$or": []bson.M{
			{"passport_scan_file_id": bson.M{"$exists": true, "$ne": ""}},
			{"face_photo_file_id": bson.M{"$exists": true, "$ne": ""}},
			{"tax_doc_file_id": bson.M{"$exists": true, "$ne": ""}},
		},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document holders: %w", err)
	}
	defer cursor.Close(ctx)

	var masters []models.Master
	if err := cursor.All(ctx, &masters); err != nil {
		return nil, fmt.Errorf("failed to decode document holders: %w", err)
	}
	return masters, nil
}

// TopByRating lists active masters ordered by rating for the catalog.
func (r *MongoMasterRepo) TopByRating(limit int64) ([]models.Master, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{
			{Key: "avg_rating", Value: -1},
			{Key: "orders_completed", Value: -1},
		}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top masters: %w", err)
	}
	defer cursor.Close(ctx)

	var masters []models.Master
	if err := cursor.All(ctx, &masters); err != nil {
		return nil, fmt.Errorf("failed to decode top masters: %w", err)
	}
	return masters, nil
}

// Counts returns (total, active) master counts.
func (r *MongoMasterRepo) Counts() (int64, int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count masters: %w", err)
	}
	active, err := r.coll.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count active masters: %w", err)
	}
	return total, active, nil
}
