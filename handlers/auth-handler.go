package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ArfiyaHashmi/Task-Management-System/logging"
	"github.com/ArfiyaHashmi/Task-Management-System/models"
	"github.com/ArfiyaHashmi/Task-Management-System/services"
)

type AuthHandler struct {
	UserService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{UserService: userService}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	_, token, err := h.UserService.RegisterUser(r.Context(), models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: Registered new %s account", req.Role)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	_, token, err := h.UserService.LoginUser(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// GetUser returns the caller's own profile, password excluded.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requireUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.UserService.ListByRole(r.Context(), models.RoleClient)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	type clientView struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	views := make([]clientView, 0, len(clients))
	for _, c := range clients {
		views = append(views, clientView{ID: c.ID.Hex(), Name: c.Name, Email: c.Email})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *AuthHandler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.UserService.ListByRole(r.Context(), models.RoleEmployee)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}
