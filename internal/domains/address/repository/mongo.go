package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/model"
)

// UsersCollection là collection chứa user document (mỗi user một document)
const UsersCollection = "users"

type userDocument struct {
	Key       interface{}     `bson:"_id,omitempty"`
	ID        string          `bson:"id"`
	Addresses []model.Address `bson:"addresses,omitempty"`
	Revision  int64           `bson:"addressRevision,omitempty"`
}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) a.Repository {
	return &mongoRepository{
		coll: db.Collection(UsersCollection),
	}
}

func (r *mongoRepository) FindByUserID(ctx context.Context, userID string) (*model.AddressBook, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.M{"id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, a.NewUserNotFound(userID)
		}
		return nil, a.NewReadFailed(err)
	}

	return &model.AddressBook{
		Key:       documentKey(doc.Key),
		UserID:    doc.ID,
		Addresses: nonNil(doc.Addresses),
		Revision:  doc.Revision,
	}, nil
}

// SaveAddresses dùng $set + $inc trong một UpdateOne, filter theo revision đã đọc
func (r *mongoRepository) SaveAddresses(ctx context.Context, book *model.AddressBook, addresses []model.Address) error {
	update := bson.M{
		"$set": bson.M{"addresses": nonNil(addresses)},
		"$inc": bson.M{"addressRevision": 1},
	}

	res, err := r.coll.UpdateOne(ctx, revisionFilter(book.UserID, book.Revision), update)
	if err != nil {
		return a.NewWriteFailed(err)
	}
	if res.MatchedCount == 0 {
		return a.NewConflict(book.UserID, book.Revision)
	}

	book.Addresses = addresses
	book.Revision++
	return nil
}

func (r *mongoRepository) ListUserIDs(ctx context.Context, after string, limit int) ([]string, error) {
	filter := bson.M{
		"id":          bson.M{"$gt": after},
		"addresses.0": bson.M{"$exists": true},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"id": 1})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, a.NewReadFailed(err)
	}
	defer cursor.Close(ctx)

	ids := make([]string, 0, limit)
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, a.NewReadFailed(err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, a.NewReadFailed(err)
	}

	return ids, nil
}

func (r *mongoRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

// revisionFilter: document cũ chưa có field addressRevision được coi là revision 0
func revisionFilter(userID string, revision int64) bson.M {
	if revision == 0 {
		return bson.M{
			"id": userID,
			"$or": bson.A{
				bson.M{"addressRevision": 0},
				bson.M{"addressRevision": bson.M{"$exists": false}},
			},
		}
	}
	return bson.M{"id": userID, "addressRevision": revision}
}

func documentKey(key interface{}) string {
	switch k := key.(type) {
	case primitive.ObjectID:
		return k.Hex()
	case string:
		return k
	case nil:
		return ""
	default:
		return fmt.Sprint(k)
	}
}
