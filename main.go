package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ArfiyaHashmi/Task-Management-System/handlers"
	"github.com/ArfiyaHashmi/Task-Management-System/logging"
	"github.com/ArfiyaHashmi/Task-Management-System/middleware"
	"github.com/ArfiyaHashmi/Task-Management-System/realtime"
	"github.com/ArfiyaHashmi/Task-Management-System/repositories"
	"github.com/ArfiyaHashmi/Task-Management-System/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Task Management Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: MONGO_URI is not set in the environment variables.")
	}
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "task_manager"
	}
	if os.Getenv("JWT_SECRET") == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: JWT_SECRET is not set in the environment variables.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	userRepo := repositories.NewUserRepo(db.Collection("users"))
	taskRepo := repositories.NewTaskRepo(db.Collection("tasks"))
	chatRepo := repositories.NewChatRepo(db.Collection("chats"))
	boardRepo := repositories.NewBoardRepo(db.Collection("boards"))

	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	chatService := services.NewChatService(chatRepo, taskRepo, userRepo)
	boardService := services.NewBoardService(boardRepo)

	authHandler := handlers.NewAuthHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	chatHandler := handlers.NewChatHandler(chatService)
	boardHandler := handlers.NewBoardHandler(boardService)

	hub := realtime.NewHub()

	auth := middleware.JWTAuthMiddleware

	r := mux.NewRouter()

	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.Handle("/api/auth/user", auth(http.HandlerFunc(authHandler.GetUser))).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/clients", authHandler.GetClients).Methods(http.MethodGet)
	r.Handle("/api/auth/employees", auth(http.HandlerFunc(authHandler.GetEmployees))).Methods(http.MethodGet)

	// client-tasks before {id} so mux does not swallow it as a task id.
	r.Handle("/api/tasks/client-tasks", auth(http.HandlerFunc(taskHandler.GetClientTasks))).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks", taskHandler.GetTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)

	r.Handle("/api/chats/tasks-with-chats", auth(http.HandlerFunc(chatHandler.GetTasksWithChats))).Methods(http.MethodGet)
	r.Handle("/api/chats/{taskId}", auth(http.HandlerFunc(chatHandler.GetChat))).Methods(http.MethodGet)
	r.Handle("/api/chats/{taskId}/messages", auth(http.HandlerFunc(chatHandler.AddMessage))).Methods(http.MethodPost)

	// drag before {id} for the same reason as client-tasks.
	r.Handle("/api/boards/drag", auth(http.HandlerFunc(boardHandler.DragCard))).Methods(http.MethodPut)
	r.Handle("/api/boards", auth(http.HandlerFunc(boardHandler.GetBoards))).Methods(http.MethodGet)
	r.Handle("/api/boards", auth(http.HandlerFunc(boardHandler.UpdateBoards))).Methods(http.MethodPut)
	r.Handle("/api/boards", auth(http.HandlerFunc(boardHandler.AddBoard))).Methods(http.MethodPost)
	r.Handle("/api/boards/{id}", auth(http.HandlerFunc(boardHandler.DeleteBoard))).Methods(http.MethodDelete)
	r.Handle("/api/boards/{id}/cards", auth(http.HandlerFunc(boardHandler.AddCard))).Methods(http.MethodPost)
	r.Handle("/api/boards/{bid}/cards/{cid}", auth(http.HandlerFunc(boardHandler.UpdateCard))).Methods(http.MethodPut)
	r.Handle("/api/boards/{bid}/cards/{cid}", auth(http.HandlerFunc(boardHandler.DeleteCard))).Methods(http.MethodDelete)

	// The realtime channel carries no authority and is deliberately not
	// behind the auth middleware; persistence always goes through the
	// authenticated HTTP routes above.
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, w, r)
	})

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "5000"
	}
	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
