package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ArfiyaHashmi/Task-Management-System/models"
	"github.com/ArfiyaHashmi/Task-Management-System/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskService struct {
	Tasks repositories.TaskRepository
}

func NewTaskService(tasks repositories.TaskRepository) *TaskService {
	return &TaskService{Tasks: tasks}
}

func (s *TaskService) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if err := validateTask(task); err != nil {
		return models.Task{}, err
	}

	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if !models.IsValidTaskStatus(task.Status) {
		return models.Task{}, fmt.Errorf("%w: unknown status %q", ErrValidation, task.Status)
	}
	task.CreatedAt = time.Now()

	created, err := s.Tasks.Insert(ctx, task)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// GetAllTasks returns every task, newest first.
func (s *TaskService) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.Tasks.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	return tasks, nil
}

// GetClientTasks returns only the tasks owned by the given client.
func (s *TaskService) GetClientTasks(ctx context.Context, clientID primitive.ObjectID) ([]models.Task, error) {
	tasks, err := s.Tasks.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve client tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id primitive.ObjectID, update models.TaskUpdate) (*models.Task, error) {
	if update.Status != nil && !models.IsValidTaskStatus(*update.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *update.Status)
	}
	return s.Tasks.Update(ctx, id, update)
}

// DeleteTask removes the task only. Its chat, if any, is deliberately left
// behind: chats are not reaped when tasks are removed.
func (s *TaskService) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	return s.Tasks.Delete(ctx, id)
}

func validateTask(task models.Task) error {
	if strings.TrimSpace(task.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(task.EmployeeName) == "" || task.EmployeeID.IsZero() {
		return fmt.Errorf("%w: employee is required", ErrValidation)
	}
	if strings.TrimSpace(task.ClientName) == "" || task.ClientID.IsZero() {
		return fmt.Errorf("%w: client is required", ErrValidation)
	}
	if task.Deadline.IsZero() {
		return fmt.Errorf("%w: deadline is required", ErrValidation)
	}
	if strings.TrimSpace(task.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	return nil
}
