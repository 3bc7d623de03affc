package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ArfiyaHashmi/Task-Management-System/logging"
	"github.com/ArfiyaHashmi/Task-Management-System/middleware"
	"github.com/ArfiyaHashmi/Task-Management-System/repositories"
	"github.com/ArfiyaHashmi/Task-Management-System/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognized is a store failure and stays opaque.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid Credentials")
	case errors.Is(err, services.ErrUserExists):
		writeError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, services.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrBoardNotFound),
		errors.Is(err, services.ErrCardNotFound),
		errors.Is(err, repositories.ErrTaskNotFound),
		errors.Is(err, repositories.ErrChatNotFound),
		errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrBoardsNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logging.Logger.Errorf("Event ID: SERVICE_ERROR, Description: Unhandled service error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server Error")
	}
}

// requireUser pulls the authenticated identity out of the request context.
// The role inside the token is trusted without a store lookup.
func requireUser(r *http.Request) (primitive.ObjectID, string, error) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return primitive.NilObjectID, "", fmt.Errorf("no authenticated user on request")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, "", fmt.Errorf("malformed user id in token")
	}
	return id, claims.Role, nil
}
