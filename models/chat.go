package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is append-only: once stored it is never edited or deleted.
type Message struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Content   string             `bson:"content" json:"content"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Chat is keyed one-to-one by task. Participants grow monotonically: a
// user is appended the first time they post and never removed.
type Chat struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	TaskID       primitive.ObjectID   `bson:"taskId" json:"taskId"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	Messages     []Message            `bson:"messages" json:"messages"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (c *Chat) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// MessageView is a message with its sender resolved to the display-safe
// user projection.
type MessageView struct {
	ID        primitive.ObjectID `json:"id"`
	Sender    UserRef            `json:"sender"`
	Content   string             `json:"content"`
	Timestamp time.Time          `json:"timestamp"`
}

// ChatView is the populated form of a chat returned to clients.
type ChatView struct {
	ID           primitive.ObjectID `json:"id"`
	TaskID       primitive.ObjectID `json:"taskId"`
	Participants []UserRef          `json:"participants"`
	Messages     []MessageView      `json:"messages"`
}

type ChatSummary struct {
	ChatID       primitive.ObjectID `json:"chatId"`
	MessageCount int                `json:"messageCount"`
}

// TaskWithChat joins a task with its chat summary; Chat is null when the
// task has no chat yet.
type TaskWithChat struct {
	Task
	Chat *ChatSummary `json:"chat"`
}
