package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ArfiyaHashmi/Task-Management-System/models"

	"github.com/sony/gobreaker"
)

// API is the synchronous persistence path. Calls run through a circuit
// breaker so a dead server fails fast instead of stacking up requests.
type API struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewAPI(baseURL, token string) *API {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TaskManagerAPI",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})
	return &API{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    breaker,
	}
}

func (a *API) GetChat(ctx context.Context, taskID string) (*models.ChatView, error) {
	var chat models.ChatView
	if err := a.do(ctx, http.MethodGet, "/api/chats/"+taskID, nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (a *API) AppendMessage(ctx context.Context, taskID, content string) (*models.MessageView, error) {
	body := map[string]string{"content": content}
	var message models.MessageView
	if err := a.do(ctx, http.MethodPost, "/api/chats/"+taskID+"/messages", body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (a *API) GetTasksWithChats(ctx context.Context) ([]models.TaskWithChat, error) {
	var tasks []models.TaskWithChat
	if err := a.do(ctx, http.MethodGet, "/api/chats/tasks-with-chats", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (a *API) GetBoards(ctx context.Context) ([]models.Board, error) {
	var boards []models.Board
	if err := a.do(ctx, http.MethodGet, "/api/boards", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

func (a *API) DragCard(ctx context.Context, sourceBoard, targetBoard, cardID string, newPosition int) ([]models.Board, error) {
	body := map[string]interface{}{
		"sourceBoard": sourceBoard,
		"targetBoard": targetBoard,
		"cardId":      cardID,
		"newPosition": newPosition,
	}
	var boards []models.Board
	if err := a.do(ctx, http.MethodPut, "/api/boards/drag", body, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

func (a *API) do(ctx context.Context, method, path string, body, out interface{}) error {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		var reader *bytes.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			reader = bytes.NewReader(payload)
		} else {
			reader = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if a.token != "" {
			req.Header.Set("Authorization", "Bearer "+a.token)
		}

		resp, err := a.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
		}
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("%s %s: decode response: %w", method, path, err)
			}
		}
		return nil, nil
	})
	return err
}
