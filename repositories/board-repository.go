package repositories

import (
	"context"
	"errors"

	"github.com/ArfiyaHashmi/Task-Management-System/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BoardRepository interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.BoardDocument, error)
	Save(ctx context.Context, doc *models.BoardDocument) error
}

type BoardRepo struct {
	collection *mongo.Collection
}

func NewBoardRepo(collection *mongo.Collection) *BoardRepo {
	return &BoardRepo{collection: collection}
}

func (r *BoardRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.BoardDocument, error) {
	var doc models.BoardDocument
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBoardsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save upserts the whole per-user document. There is no concurrency token:
// the last writer's full document wins.
func (r *BoardRepo) Save(ctx context.Context, doc *models.BoardDocument) error {
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"user": doc.UserID}, doc, opts)
	return err
}
