package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ArfiyaHashmi/Task-Management-System/models"
	"github.com/ArfiyaHashmi/Task-Management-System/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BoardHandler serves the board editor. Every route is scoped to the
// authenticated user's own board document.
type BoardHandler struct {
	Service *services.BoardService
}

func NewBoardHandler(service *services.BoardService) *BoardHandler {
	return &BoardHandler{Service: service}
}

func (h *BoardHandler) GetBoards(w http.ResponseWriter, r *http.Request) {
	userID, ok := boardUser(w, r)
	if !ok {
		return
	}

	boards, err := h.Service.ListBoards(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (h *BoardHandler) UpdateBoards(w http.ResponseWriter, r *http.Request) {
	userID, ok := boardUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Boards []models.Board `json:"boards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	boards, err := h.Service.ReplaceAllBoards(r.Context(), userID, req.Boards)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (h *BoardHandler) AddBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := boardUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Board models.Board `json:"board"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	boards, err := h.Service.AddBoard(r.Context(), userID, req.Board)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := boardUser(w, r)
	if !ok {
		return
	}

	boards, err := h.Service.RemoveBoard(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Board removed successfully",
		"boards":  boards,
	})
}

func (h *BoardHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := boardUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Card models.Card `json:"card"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	boards, err := h.Service.AddCard(r.Context(), userID, mux.Vars(r)["id"], req.Card)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (h *BoardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := boardUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	boards, err := h.Service.RemoveCard(r.Context(), userID, vars["bid"], vars["cid"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (h *BoardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := boardUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Card models.Card `json:"card"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	vars := mux.Vars(r)
	boards, err := h.Service.UpdateCard(r.Context(), userID, vars["bid"], vars["cid"], req.Card)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// DragCard is the move endpoint behind the board editor's drag and drop.
func (h *BoardHandler) DragCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := boardUser(w, r)
	if !ok {
		return
	}

	var req struct {
		SourceBoard string `json:"sourceBoard"`
		TargetBoard string `json:"targetBoard"`
		CardID      string `json:"cardId"`
		NewPosition int    `json:"newPosition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	boards, err := h.Service.MoveCard(r.Context(), userID, req.SourceBoard, req.TargetBoard, req.CardID, req.NewPosition)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func boardUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	userID, _, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return primitive.NilObjectID, false
	}
	return userID, true
}
