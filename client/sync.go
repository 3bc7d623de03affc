package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ArfiyaHashmi/Task-Management-System/models"
	"github.com/ArfiyaHashmi/Task-Management-System/realtime"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

// Sync reconciles three inputs into one view per task: optimistic local
// mutations, authoritative responses from the persistence path, and
// best-effort announcements from the realtime channel. The persistence
// response is authoritative for the sender; announcements are
// authoritative only for other recipients and are never treated as
// confirmation of persistence.
type Sync struct {
	api *API

	mu         sync.Mutex
	state      State
	lastErr    error
	activeTask string
	messages   []models.MessageView
	boards     []models.Board

	ws     *websocket.Conn
	wsMu   sync.Mutex
	closed chan struct{}
}

func NewSync(api *API) *Sync {
	return &Sync{api: api, state: StateIdle, closed: make(chan struct{})}
}

// Connect dials the realtime channel and starts consuming announcements.
func (s *Sync) Connect(ctx context.Context) error {
	wsURL := strings.Replace(s.api.baseURL, "http", "ws", 1) + "/ws"
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial realtime channel: %w", err)
	}
	s.ws = ws
	go s.listen()
	return nil
}

func (s *Sync) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	if s.ws != nil {
		return s.ws.Close()
	}
	return nil
}

// OpenTask switches the active task: leave the previous room, clear local
// chat state, join the new room and fetch that task's chat.
func (s *Sync) OpenTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	previous := s.activeTask
	s.activeTask = taskID
	s.messages = nil
	s.state = StateLoading
	s.lastErr = nil
	s.mu.Unlock()

	if previous != "" {
		s.emit(realtime.Event{Event: realtime.EventLeaveChat, TaskID: previous})
	}
	s.emit(realtime.Event{Event: realtime.EventJoinChat, TaskID: taskID})

	chat, err := s.api.GetChat(ctx, taskID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeTask != taskID {
		// The view moved on while the fetch was in flight.
		return nil
	}
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return err
	}
	s.messages = append([]models.MessageView(nil), chat.Messages...)
	s.state = StateReady
	return nil
}

// SendMessage applies the message optimistically, persists it, merges the
// authoritative response over the optimistic entry and announces it to the
// rest of the room. On failure the optimistic entry stays; callers surface
// the error and may Refresh to re-sync.
func (s *Sync) SendMessage(ctx context.Context, content string) (*models.MessageView, error) {
	s.mu.Lock()
	taskID := s.activeTask
	if taskID == "" {
		s.mu.Unlock()
		return nil, fmt.Errorf("no task open")
	}
	optimistic := models.MessageView{Content: content, Timestamp: time.Now()}
	index := len(s.messages)
	s.messages = append(s.messages, optimistic)
	s.mu.Unlock()

	message, err := s.api.AppendMessage(ctx, taskID, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return nil, err
	}
	if s.activeTask == taskID && index < len(s.messages) {
		s.messages[index] = *message
	}

	payload, merr := json.Marshal(message)
	if merr == nil {
		// Fire-and-forget: the broadcast path is best-effort and a failed
		// announce never undoes the persisted write.
		s.emit(realtime.Event{Event: realtime.EventSendMessage, TaskID: taskID, Message: payload})
	}
	return message, nil
}

func (s *Sync) LoadBoards(ctx context.Context) error {
	boards, err := s.api.GetBoards(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return err
	}
	s.boards = boards
	return nil
}

// MoveCard splices the card locally first, then persists the move. A
// successful response replaces local boards wholesale (the server returns
// the full collection); a failure keeps the optimistic state.
func (s *Sync) MoveCard(ctx context.Context, sourceBoard, targetBoard, cardID string, newPosition int) error {
	s.mu.Lock()
	if err := applyLocalMove(s.boards, sourceBoard, targetBoard, cardID, newPosition); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	boards, err := s.api.DragCard(ctx, sourceBoard, targetBoard, cardID, newPosition)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return err
	}
	s.boards = boards
	return nil
}

// Refresh discards local state for the open task and the board collection
// and re-fetches both from the store. This is the recovery path after a
// failed optimistic mutation.
func (s *Sync) Refresh(ctx context.Context) error {
	s.mu.Lock()
	taskID := s.activeTask
	s.mu.Unlock()

	if taskID != "" {
		chat, err := s.api.GetChat(ctx, taskID)
		if err != nil {
			return err
		}
		s.mu.Lock()
		if s.activeTask == taskID {
			s.messages = append([]models.MessageView(nil), chat.Messages...)
			s.state = StateReady
			s.lastErr = nil
		}
		s.mu.Unlock()
	}

	boards, err := s.api.GetBoards(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.boards = boards
	s.mu.Unlock()
	return nil
}

func (s *Sync) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sync) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Sync) Messages() []models.MessageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MessageView(nil), s.messages...)
}

func (s *Sync) Boards() []models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	boards := make([]models.Board, len(s.boards))
	for i, board := range s.boards {
		b := board
		b.Cards = append([]models.Card(nil), board.Cards...)
		boards[i] = b
	}
	return boards
}

func (s *Sync) listen() {
	for {
		var event realtime.Event
		if err := s.ws.ReadJSON(&event); err != nil {
			select {
			case <-s.closed:
			default:
				s.mu.Lock()
				s.lastErr = err
				s.mu.Unlock()
			}
			return
		}
		if event.Event != realtime.EventReceiveMessage {
			continue
		}

		var message models.MessageView
		if err := json.Unmarshal(event.Message, &message); err != nil {
			continue
		}
		s.receiveAnnouncement(event.TaskID, message)
	}
}

// receiveAnnouncement merges a broadcast message into local state. Only
// the currently open task is affected, and a message whose ID is already
// present is dropped, so a duplicate or self-echoed announcement cannot
// double up the list.
func (s *Sync) receiveAnnouncement(taskID string, message models.MessageView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if taskID != s.activeTask {
		return
	}
	if message.ID != primitive.NilObjectID {
		for _, existing := range s.messages {
			if existing.ID == message.ID {
				return
			}
		}
	}
	s.messages = append(s.messages, message)
}

func (s *Sync) emit(event realtime.Event) {
	if s.ws == nil {
		return
	}
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	// Best effort: a failed emit leaves other clients stale until their
	// next fetch, while the store stays authoritative.
	_ = s.ws.WriteJSON(event)
}

// applyLocalMove mirrors the server's splice semantics, including the
// clamp of newPosition to [0, len].
func applyLocalMove(boards []models.Board, sourceBoard, targetBoard, cardID string, newPosition int) error {
	src, dst := -1, -1
	for i := range boards {
		if boards[i].ID == sourceBoard {
			src = i
		}
		if boards[i].ID == targetBoard {
			dst = i
		}
	}
	if src == -1 || dst == -1 {
		return fmt.Errorf("unknown board in move")
	}

	cardIndex := -1
	for i, card := range boards[src].Cards {
		if card.ID == cardID {
			cardIndex = i
			break
		}
	}
	if cardIndex == -1 {
		return fmt.Errorf("unknown card %q", cardID)
	}

	card := boards[src].Cards[cardIndex]
	boards[src].Cards = append(boards[src].Cards[:cardIndex], boards[src].Cards[cardIndex+1:]...)

	if newPosition < 0 {
		newPosition = 0
	}
	if newPosition > len(boards[dst].Cards) {
		newPosition = len(boards[dst].Cards)
	}
	cards := boards[dst].Cards
	cards = append(cards, models.Card{})
	copy(cards[newPosition+1:], cards[newPosition:])
	cards[newPosition] = card
	boards[dst].Cards = cards
	return nil
}
