package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subtask is a checklist entry on a card.
type Subtask struct {
	ID        string `bson:"id" json:"id"`
	Text      string `bson:"text" json:"text"`
	Completed bool   `bson:"completed" json:"completed"`
}

// Card identifiers are chosen by the board editor; the service rejects a
// duplicate within the owning user's document.
type Card struct {
	ID     string    `bson:"id" json:"id"`
	Title  string    `bson:"title" json:"title"`
	Labels []string  `bson:"labels" json:"labels"`
	Date   string    `bson:"date" json:"date"`
	Tasks  []Subtask `bson:"tasks" json:"tasks"`
}

type Board struct {
	ID    string `bson:"id" json:"id"`
	Title string `bson:"title" json:"title"`
	Cards []Card `bson:"cards" json:"cards"`
}

// BoardDocument is the whole per-user board collection. Every mutation
// re-persists the full document, so concurrent sessions for the same user
// are last-write-wins at document granularity.
type BoardDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user" json:"user"`
	Boards []Board            `bson:"boards" json:"boards"`
}
