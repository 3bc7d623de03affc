package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
	RoleClient   = "client"
)

func IsValidRole(role string) bool {
	return role == RoleManager || role == RoleEmployee || role == RoleClient
}

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"password,omitempty"`
	Role     string             `bson:"role" json:"role"`
}

// UserRef is the display-safe projection of a user attached to chat
// messages and participant lists. It never carries credentials.
type UserRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
	Role string             `bson:"role" json:"role"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Role: u.Role}
}
