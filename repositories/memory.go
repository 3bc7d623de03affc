package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/ArfiyaHashmi/Task-Management-System/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing the test suites. They implement the same
// interfaces as the Mongo repositories and keep the same ordering rules.

type InMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewInMemoryUserRepo() *InMemoryUserRepo {
	return &InMemoryUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (r *InMemoryUserRepo) Insert(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *InMemoryUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *InMemoryUserRepo) FindByEmailAndRole(_ context.Context, email, role string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email && user.Role == role {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *InMemoryUserRepo) ExistsByEmailAndRole(ctx context.Context, email, role string) (bool, error) {
	_, err := r.FindByEmailAndRole(ctx, email, role)
	if err == ErrUserNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *InMemoryUserRepo) FindByRole(_ context.Context, role string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []models.User
	for _, user := range r.users {
		if user.Role == role {
			users = append(users, user)
		}
	}
	return users, nil
}

type taskEntry struct {
	task models.Task
	seq  int
}

type InMemoryTaskRepo struct {
	mu    sync.RWMutex
	tasks map[primitive.ObjectID]taskEntry
	seq   int
}

func NewInMemoryTaskRepo() *InMemoryTaskRepo {
	return &InMemoryTaskRepo{tasks: make(map[primitive.ObjectID]taskEntry)}
}

func (r *InMemoryTaskRepo) Insert(_ context.Context, task models.Task) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	r.seq++
	r.tasks[task.ID] = taskEntry{task: task, seq: r.seq}
	return task, nil
}

func (r *InMemoryTaskRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	task := entry.task
	return &task, nil
}

func (r *InMemoryTaskRepo) FindAll(_ context.Context) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(models.Task) bool { return true }), nil
}

func (r *InMemoryTaskRepo) FindByClientID(_ context.Context, clientID primitive.ObjectID) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(t models.Task) bool { return t.ClientID == clientID }), nil
}

// collect returns matching tasks newest first, matching the Mongo sort on
// createdAt descending.
func (r *InMemoryTaskRepo) collect(match func(models.Task) bool) []models.Task {
	var entries []taskEntry
	for _, entry := range r.tasks {
		if match(entry.task) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].task.CreatedAt.Equal(entries[j].task.CreatedAt) {
			return entries[i].seq > entries[j].seq
		}
		return entries[i].task.CreatedAt.After(entries[j].task.CreatedAt)
	})
	tasks := make([]models.Task, 0, len(entries))
	for _, entry := range entries {
		tasks = append(tasks, entry.task)
	}
	return tasks
}

func (r *InMemoryTaskRepo) Update(_ context.Context, id primitive.ObjectID, update models.TaskUpdate) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	task := entry.task
	if update.Name != nil {
		task.Name = *update.Name
	}
	if update.EmployeeName != nil {
		task.EmployeeName = *update.EmployeeName
	}
	if update.EmployeeID != nil {
		task.EmployeeID = *update.EmployeeID
	}
	if update.ClientName != nil {
		task.ClientName = *update.ClientName
	}
	if update.ClientID != nil {
		task.ClientID = *update.ClientID
	}
	if update.Deadline != nil {
		task.Deadline = *update.Deadline
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	entry.task = task
	r.tasks[id] = entry
	return &task, nil
}

func (r *InMemoryTaskRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type InMemoryChatRepo struct {
	mu    sync.RWMutex
	chats map[primitive.ObjectID]models.Chat
}

func NewInMemoryChatRepo() *InMemoryChatRepo {
	return &InMemoryChatRepo{chats: make(map[primitive.ObjectID]models.Chat)}
}

func (r *InMemoryChatRepo) FindByTaskID(_ context.Context, taskID primitive.ObjectID) (*models.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, chat := range r.chats {
		if chat.TaskID == taskID {
			c := cloneChat(chat)
			return &c, nil
		}
	}
	return nil, ErrChatNotFound
}

func (r *InMemoryChatRepo) FindByTaskIDs(_ context.Context, taskIDs []primitive.ObjectID) ([]models.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := make(map[primitive.ObjectID]bool, len(taskIDs))
	for _, id := range taskIDs {
		wanted[id] = true
	}
	var chats []models.Chat
	for _, chat := range r.chats {
		if wanted[chat.TaskID] {
			chats = append(chats, cloneChat(chat))
		}
	}
	return chats, nil
}

func (r *InMemoryChatRepo) Insert(_ context.Context, chat models.Chat) (models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	r.chats[chat.ID] = cloneChat(chat)
	return chat, nil
}

func (r *InMemoryChatRepo) Save(_ context.Context, chat *models.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[chat.ID]; !ok {
		return ErrChatNotFound
	}
	r.chats[chat.ID] = cloneChat(*chat)
	return nil
}

func cloneChat(chat models.Chat) models.Chat {
	c := chat
	c.Participants = append([]primitive.ObjectID(nil), chat.Participants...)
	c.Messages = append([]models.Message(nil), chat.Messages...)
	return c
}

type InMemoryBoardRepo struct {
	mu   sync.RWMutex
	docs map[primitive.ObjectID]models.BoardDocument
}

func NewInMemoryBoardRepo() *InMemoryBoardRepo {
	return &InMemoryBoardRepo{docs: make(map[primitive.ObjectID]models.BoardDocument)}
}

func (r *InMemoryBoardRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.BoardDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[userID]
	if !ok {
		return nil, ErrBoardsNotFound
	}
	d := cloneBoardDocument(doc)
	return &d, nil
}

func (r *InMemoryBoardRepo) Save(_ context.Context, doc *models.BoardDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	r.docs[doc.UserID] = cloneBoardDocument(*doc)
	return nil
}

func cloneBoardDocument(doc models.BoardDocument) models.BoardDocument {
	d := doc
	d.Boards = make([]models.Board, len(doc.Boards))
	for i, board := range doc.Boards {
		b := board
		b.Cards = make([]models.Card, len(board.Cards))
		for j, card := range board.Cards {
			c := card
			c.Labels = append([]string(nil), card.Labels...)
			c.Tasks = append([]models.Subtask(nil), card.Tasks...)
			b.Cards[j] = c
		}
		d.Boards[i] = b
	}
	return d
}
