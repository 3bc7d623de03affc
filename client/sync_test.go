package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArfiyaHashmi/Task-Management-System/handlers"
	"github.com/ArfiyaHashmi/Task-Management-System/middleware"
	"github.com/ArfiyaHashmi/Task-Management-System/models"
	"github.com/ArfiyaHashmi/Task-Management-System/realtime"
	"github.com/ArfiyaHashmi/Task-Management-System/repositories"
	"github.com/ArfiyaHashmi/Task-Management-System/services"
	"github.com/ArfiyaHashmi/Task-Management-System/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testEnv runs the full server stack against in-memory repositories.
type testEnv struct {
	srv    *httptest.Server
	hub    *realtime.Hub
	boards *services.BoardService

	manager  models.User
	employee models.User
	task     models.Task
	task2    models.Task
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	userRepo := repositories.NewInMemoryUserRepo()
	taskRepo := repositories.NewInMemoryTaskRepo()
	chatRepo := repositories.NewInMemoryChatRepo()
	boardRepo := repositories.NewInMemoryBoardRepo()

	chatService := services.NewChatService(chatRepo, taskRepo, userRepo)
	boardService := services.NewBoardService(boardRepo)
	chatHandler := handlers.NewChatHandler(chatService)
	boardHandler := handlers.NewBoardHandler(boardService)

	hub := realtime.NewHub()
	auth := middleware.JWTAuthMiddleware

	r := mux.NewRouter()
	r.Handle("/api/chats/tasks-with-chats", auth(http.HandlerFunc(chatHandler.GetTasksWithChats))).Methods(http.MethodGet)
	r.Handle("/api/chats/{taskId}", auth(http.HandlerFunc(chatHandler.GetChat))).Methods(http.MethodGet)
	r.Handle("/api/chats/{taskId}/messages", auth(http.HandlerFunc(chatHandler.AddMessage))).Methods(http.MethodPost)
	r.Handle("/api/boards/drag", auth(http.HandlerFunc(boardHandler.DragCard))).Methods(http.MethodPut)
	r.Handle("/api/boards", auth(http.HandlerFunc(boardHandler.GetBoards))).Methods(http.MethodGet)
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, w, r)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	manager, err := userRepo.Insert(ctx, models.User{Name: "Mira", Role: models.RoleManager})
	require.NoError(t, err)
	employee, err := userRepo.Insert(ctx, models.User{Name: "Eva", Role: models.RoleEmployee})
	require.NoError(t, err)

	task, err := taskRepo.Insert(ctx, models.Task{Name: "Launch", CreatedAt: time.Now()})
	require.NoError(t, err)
	task2, err := taskRepo.Insert(ctx, models.Task{Name: "Audit", CreatedAt: time.Now()})
	require.NoError(t, err)

	return &testEnv{
		srv:      srv,
		hub:      hub,
		boards:   boardService,
		manager:  manager,
		employee: employee,
		task:     task,
		task2:    task2,
	}
}

func (e *testEnv) newSync(t *testing.T, user models.User) *Sync {
	t.Helper()
	token, err := utils.GenerateToken(user.ID.Hex(), user.Role)
	require.NoError(t, err)

	s := NewSync(NewAPI(e.srv.URL, token))
	require.NoError(t, s.Connect(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func waitForRoom(t *testing.T, env *testEnv, taskID string, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return env.hub.RoomSize(taskID) == want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTwoClientsConvergeOnMessageList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	taskID := env.task.ID.Hex()

	sender := env.newSync(t, env.manager)
	viewer := env.newSync(t, env.employee)

	require.NoError(t, sender.OpenTask(ctx, taskID))
	require.NoError(t, viewer.OpenTask(ctx, taskID))
	waitForRoom(t, env, taskID, 2)

	sent, err := sender.SendMessage(ctx, "hello")
	require.NoError(t, err)
	require.NotEqual(t, primitive.NilObjectID, sent.ID)

	// The sender's optimistic entry was merged with the authoritative
	// response; the viewer converges through the announce round-trip.
	require.Eventually(t, func() bool {
		got := viewer.Messages()
		return len(got) == 1 && got[0].ID == sent.ID
	}, 2*time.Second, 10*time.Millisecond)

	reply, err := viewer.SendMessage(ctx, "hi back")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		a, b := sender.Messages(), viewer.Messages()
		return len(a) == 2 && len(b) == 2 && a[0].ID == b[0].ID && a[1].ID == b[1].ID
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, reply.ID, sender.Messages()[1].ID)
	assert.Equal(t, StateReady, sender.State())
	assert.Equal(t, StateReady, viewer.State())
}

func TestSendMessage_MergesAuthoritativeResponse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s := env.newSync(t, env.manager)
	require.NoError(t, s.OpenTask(ctx, env.task.ID.Hex()))

	sent, err := s.SendMessage(ctx, "hello")
	require.NoError(t, err)

	got := s.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, sent.ID, got[0].ID)
	assert.Equal(t, "Mira", got[0].Sender.Name)
}

func TestOpenTask_SwitchLeavesRoomAndClearsState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.task.ID.Hex()
	second := env.task2.ID.Hex()

	sender := env.newSync(t, env.manager)
	switcher := env.newSync(t, env.employee)

	require.NoError(t, sender.OpenTask(ctx, first))
	require.NoError(t, switcher.OpenTask(ctx, first))
	waitForRoom(t, env, first, 2)

	_, err := sender.SendMessage(ctx, "in the first room")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return len(switcher.Messages()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, switcher.OpenTask(ctx, second))
	waitForRoom(t, env, first, 1)

	assert.Empty(t, switcher.Messages())
	assert.Equal(t, StateReady, switcher.State())

	// Messages for the old task no longer reach the switched client.
	_, err = sender.SendMessage(ctx, "still here?")
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, switcher.Messages())
}

func TestMoveCard_OptimisticStateSurvivesFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.boards.ReplaceAllBoards(ctx, env.manager.ID, []models.Board{
		{ID: "todo", Title: "To Do", Cards: []models.Card{{ID: "c1"}, {ID: "c2"}}},
		{ID: "done", Title: "Done", Cards: []models.Card{}},
	})
	require.NoError(t, err)

	s := env.newSync(t, env.manager)
	require.NoError(t, s.LoadBoards(ctx))

	// The card disappears server-side behind this client's back.
	_, err = env.boards.RemoveCard(ctx, env.manager.ID, "todo", "c1")
	require.NoError(t, err)

	// The optimistic splice succeeds locally, persistence fails, and
	// nothing is rolled back.
	err = s.MoveCard(ctx, "todo", "done", "c1", 0)
	require.Error(t, err)
	assert.Equal(t, StateError, s.State())

	boards := s.Boards()
	require.Len(t, boards, 2)
	assert.Equal(t, "c1", boards[1].Cards[0].ID)

	// Refresh is the recovery path: local state snaps back to the store.
	require.NoError(t, s.Refresh(ctx))
	boards = s.Boards()
	assert.Empty(t, boards[1].Cards)
	assert.Len(t, boards[0].Cards, 1)
}

func TestMoveCard_SuccessAdoptsServerCollection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.boards.ReplaceAllBoards(ctx, env.manager.ID, []models.Board{
		{ID: "todo", Title: "To Do", Cards: []models.Card{{ID: "c1"}, {ID: "c2"}}},
		{ID: "done", Title: "Done", Cards: []models.Card{}},
	})
	require.NoError(t, err)

	s := env.newSync(t, env.manager)
	require.NoError(t, s.LoadBoards(ctx))

	require.NoError(t, s.MoveCard(ctx, "todo", "done", "c2", 0))

	boards := s.Boards()
	require.Len(t, boards[0].Cards, 1)
	require.Len(t, boards[1].Cards, 1)
	assert.Equal(t, "c2", boards[1].Cards[0].ID)

	// Local and server state agree.
	server, err := env.boards.ListBoards(ctx, env.manager.ID)
	require.NoError(t, err)
	assert.Equal(t, server, boards)
}
