package orderRepo

import (
	"context"
	"errors"
	"fmt"

	"mastera/database"
	"mastera/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoOrderRepo implements OrderRepository using MongoDB sessions.
type MongoOrderRepo struct {
	requestColl *mongo.Collection
	masterColl  *mongo.Collection
	offerColl   *mongo.Collection
}

// NewMongoOrderRepo creates a new instance of OrderRepository using MongoDB.
func NewMongoOrderRepo() OrderRepository {
	db := database.DB()
	return &MongoOrderRepo{
		requestColl: db.Collection("requests"),
		masterColl:  db.Collection("masters"),
		offerColl:   db.Collection("offers"),
	}
}

func (repo *MongoOrderRepo) Claim(ctx context.Context, requestID, masterID int64, debitFreeOrder bool) error {
	client := repo.requestColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		// Compare-and-set on status guarantees a single winner.
		res, err := repo.requestColl.UpdateOne(sc,
			bson.M{"id": requestID, "status": models.RequestStatusNew},
			bson.M{"$set": bson.M{
				"status":    models.RequestStatusAssigned,
				"master_id": masterID,
			}})
		if err != nil {
			return fmt.Errorf("assign request failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrAlreadyTaken
		}

		if debitFreeOrder {
			res, err = repo.masterColl.UpdateOne(sc,
				bson.M{"id": masterID, "free_orders_left": bson.M{"$gt": 0}},
				bson.M{"$inc": bson.M{"free_orders_left": -1}})
			if err != nil {
				return fmt.Errorf("debit free order failed: %w", err)
			}
			if res.MatchedCount == 0 {
				return ErrNoFreeOrders
			}
		}

		if _, err := repo.offerColl.UpdateOne(sc,
			bson.M{"request_id": requestID, "master_id": masterID},
			bson.M{"$set": bson.M{"status": models.OfferStatusTaken}}); err != nil {
			return fmt.Errorf("resolve offer failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrAlreadyTaken) || errors.Is(err, ErrNoFreeOrders) {
			return err
		}
		return fmt.Errorf("claim transaction failed: %w", err)
	}

	return nil
}
