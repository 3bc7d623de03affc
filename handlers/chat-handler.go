package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ArfiyaHashmi/Task-Management-System/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatHandler struct {
	Service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{Service: service}
}

// GetChat fetches the chat for a task, creating it on first access.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	taskID, ok := chatTaskIDFromPath(w, r)
	if !ok {
		return
	}

	chat, err := h.Service.GetOrCreateChat(r.Context(), taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// AddMessage appends a message as the authenticated caller and returns the
// stored message with the sender resolved. Persistence confirmation for
// the sender comes from this response, never from the broadcast channel.
func (h *ChatHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	taskID, ok := chatTaskIDFromPath(w, r)
	if !ok {
		return
	}

	senderID, _, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	message, err := h.Service.AppendMessage(r.Context(), taskID, senderID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (h *ChatHandler) GetTasksWithChats(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	tasks, err := h.Service.ListTasksWithChatSummary(r.Context(), userID, role)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func chatTaskIDFromPath(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return primitive.NilObjectID, false
	}
	return taskID, true
}
