package repositories

import (
	"context"
	"errors"

	"github.com/ArfiyaHashmi/Task-Management-System/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ChatRepository interface {
	FindByTaskID(ctx context.Context, taskID primitive.ObjectID) (*models.Chat, error)
	FindByTaskIDs(ctx context.Context, taskIDs []primitive.ObjectID) ([]models.Chat, error)
	Insert(ctx context.Context, chat models.Chat) (models.Chat, error)
	Save(ctx context.Context, chat *models.Chat) error
}

type ChatRepo struct {
	collection *mongo.Collection
}

func NewChatRepo(collection *mongo.Collection) *ChatRepo {
	return &ChatRepo{collection: collection}
}

func (r *ChatRepo) FindByTaskID(ctx context.Context, taskID primitive.ObjectID) (*models.Chat, error) {
	var chat models.Chat
	err := r.collection.FindOne(ctx, bson.M{"taskId": taskID}).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepo) FindByTaskIDs(ctx context.Context, taskIDs []primitive.ObjectID) ([]models.Chat, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"taskId": bson.M{"$in": taskIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *ChatRepo) Insert(ctx context.Context, chat models.Chat) (models.Chat, error) {
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, chat); err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// Save replaces the stored chat document with the given one.
func (r *ChatRepo) Save(ctx context.Context, chat *models.Chat) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": chat.ID}, chat)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}
