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

type ChatService struct {
	Chats repositories.ChatRepository
	Tasks repositories.TaskRepository
	Users repositories.UserRepository
}

func NewChatService(chats repositories.ChatRepository, tasks repositories.TaskRepository, users repositories.UserRepository) *ChatService {
	return &ChatService{Chats: chats, Tasks: tasks, Users: users}
}

// GetOrCreateChat returns the chat for a task, creating an empty one on
// first access. The task reference is validated once, at creation.
func (s *ChatService) GetOrCreateChat(ctx context.Context, taskID primitive.ObjectID) (*models.ChatView, error) {
	chat, err := s.loadOrCreate(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, chat)
}

// AppendMessage loads or lazily creates the chat, adds the sender to the
// participant set on first post and appends the message with a
// server-assigned timestamp. The returned view resolves the sender to the
// display-safe projection.
func (s *ChatService) AppendMessage(ctx context.Context, taskID, senderID primitive.ObjectID, content string) (*models.MessageView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrValidation)
	}

	sender, err := s.Users.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	chat, err := s.loadOrCreate(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(senderID) {
		chat.Participants = append(chat.Participants, senderID)
	}

	message := models.Message{
		ID:        primitive.NewObjectID(),
		Sender:    senderID,
		Content:   content,
		Timestamp: time.Now(),
	}
	chat.Messages = append(chat.Messages, message)
	chat.UpdatedAt = message.Timestamp

	if err := s.Chats.Save(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to save chat: %w", err)
	}

	return &models.MessageView{
		ID:        message.ID,
		Sender:    sender.Ref(),
		Content:   message.Content,
		Timestamp: message.Timestamp,
	}, nil
}

// ListTasksWithChatSummary returns the requester's visible tasks joined
// with a chat summary, newest task first. Managers and employees see every
// task; clients only their own.
func (s *ChatService) ListTasksWithChatSummary(ctx context.Context, requesterID primitive.ObjectID, requesterRole string) ([]models.TaskWithChat, error) {
	var tasks []models.Task
	var err error
	if requesterRole == models.RoleClient {
		tasks, err = s.Tasks.FindByClientID(ctx, requesterID)
	} else {
		tasks, err = s.Tasks.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}

	taskIDs := make([]primitive.ObjectID, len(tasks))
	for i, task := range tasks {
		taskIDs[i] = task.ID
	}
	chats, err := s.Chats.FindByTaskIDs(ctx, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chats: %w", err)
	}

	return joinTasksWithChats(tasks, chats), nil
}

func joinTasksWithChats(tasks []models.Task, chats []models.Chat) []models.TaskWithChat {
	summaries := make(map[primitive.ObjectID]*models.ChatSummary, len(chats))
	for _, chat := range chats {
		summaries[chat.TaskID] = &models.ChatSummary{
			ChatID:       chat.ID,
			MessageCount: len(chat.Messages),
		}
	}

	result := make([]models.TaskWithChat, len(tasks))
	for i, task := range tasks {
		result[i] = models.TaskWithChat{Task: task, Chat: summaries[task.ID]}
	}
	return result
}

// loadOrCreate verifies the task exists before creating a chat, so a
// missing task never leaves an orphan chat behind.
func (s *ChatService) loadOrCreate(ctx context.Context, taskID primitive.ObjectID) (*models.Chat, error) {
	chat, err := s.Chats.FindByTaskID(ctx, taskID)
	if err == nil {
		return chat, nil
	}
	if err != repositories.ErrChatNotFound {
		return nil, fmt.Errorf("failed to look up chat: %w", err)
	}

	if _, err := s.Tasks.FindByID(ctx, taskID); err != nil {
		return nil, err
	}

	now := time.Now()
	created, err := s.Chats.Insert(ctx, models.Chat{
		TaskID:       taskID,
		Participants: []primitive.ObjectID{},
		Messages:     []models.Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return &created, nil
}

// populate resolves participant and sender references to the display-safe
// projection in one pass over the users involved.
func (s *ChatService) populate(ctx context.Context, chat *models.Chat) (*models.ChatView, error) {
	refs := make(map[primitive.ObjectID]models.UserRef)
	resolve := func(id primitive.ObjectID) (models.UserRef, error) {
		if ref, ok := refs[id]; ok {
			return ref, nil
		}
		user, err := s.Users.FindByID(ctx, id)
		if err != nil {
			// A deleted sender still has messages on record; keep the
			// reference with an empty name rather than failing the fetch.
			if err == repositories.ErrUserNotFound {
				ref := models.UserRef{ID: id}
				refs[id] = ref
				return ref, nil
			}
			return models.UserRef{}, err
		}
		refs[id] = user.Ref()
		return refs[id], nil
	}

	view := &models.ChatView{
		ID:           chat.ID,
		TaskID:       chat.TaskID,
		Participants: make([]models.UserRef, 0, len(chat.Participants)),
		Messages:     make([]models.MessageView, 0, len(chat.Messages)),
	}
	for _, id := range chat.Participants {
		ref, err := resolve(id)
		if err != nil {
			return nil, err
		}
		view.Participants = append(view.Participants, ref)
	}
	for _, message := range chat.Messages {
		ref, err := resolve(message.Sender)
		if err != nil {
			return nil, err
		}
		view.Messages = append(view.Messages, models.MessageView{
			ID:        message.ID,
			Sender:    ref,
			Content:   message.Content,
			Timestamp: message.Timestamp,
		})
	}
	return view, nil
}
