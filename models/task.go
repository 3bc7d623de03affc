package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

func IsValidTaskStatus(status TaskStatus) bool {
	return status == StatusPending || status == StatusInProgress || status == StatusCompleted
}

type Task struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	EmployeeName string             `bson:"employeeName" json:"employeeName"`
	EmployeeID   primitive.ObjectID `bson:"employeeId" json:"employeeId"`
	ClientName   string             `bson:"clientName" json:"clientName"`
	ClientID     primitive.ObjectID `bson:"clientId" json:"clientId"`
	Deadline     time.Time          `bson:"deadline" json:"deadline"`
	Description  string             `bson:"description" json:"description"`
	Status       TaskStatus         `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// TaskUpdate carries the partial-update fields for a task. Nil fields are
// left untouched. Status transitions are unconstrained.
type TaskUpdate struct {
	Name         *string             `json:"name,omitempty"`
	EmployeeName *string             `json:"employeeName,omitempty"`
	EmployeeID   *primitive.ObjectID `json:"employeeId,omitempty"`
	ClientName   *string             `json:"clientName,omitempty"`
	ClientID     *primitive.ObjectID `json:"clientId,omitempty"`
	Deadline     *time.Time          `json:"deadline,omitempty"`
	Description  *string             `json:"description,omitempty"`
	Status       *TaskStatus         `json:"status,omitempty"`
}
