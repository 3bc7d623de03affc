package services

import (
	"context"
	"fmt"

	"github.com/ArfiyaHashmi/Task-Management-System/models"
	"github.com/ArfiyaHashmi/Task-Management-System/repositories"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BoardService owns the per-user board collection. Every mutation loads
// the whole document, edits it in memory and re-persists it, so two
// sessions of the same user are last-write-wins at document granularity.
type BoardService struct {
	Boards repositories.BoardRepository
}

func NewBoardService(boards repositories.BoardRepository) *BoardService {
	return &BoardService{Boards: boards}
}

// ListBoards returns an empty slice, not an error, for a user who has
// never written a board.
func (s *BoardService) ListBoards(ctx context.Context, userID primitive.ObjectID) ([]models.Board, error) {
	doc, err := s.Boards.FindByUserID(ctx, userID)
	if err == repositories.ErrBoardsNotFound {
		return []models.Board{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load boards: %w", err)
	}
	return doc.Boards, nil
}

func (s *BoardService) ReplaceAllBoards(ctx context.Context, userID primitive.ObjectID, boards []models.Board) ([]models.Board, error) {
	doc, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if boards == nil {
		boards = []models.Board{}
	}
	doc.Boards = boards
	return s.save(ctx, doc)
}

func (s *BoardService) AddBoard(ctx context.Context, userID primitive.ObjectID, board models.Board) ([]models.Board, error) {
	doc, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if board.ID == "" {
		board.ID = uuid.NewString()
	} else if findBoard(doc.Boards, board.ID) != -1 {
		return nil, fmt.Errorf("%w: board %q", ErrAlreadyExists, board.ID)
	}
	if board.Cards == nil {
		board.Cards = []models.Card{}
	}

	doc.Boards = append(doc.Boards, board)
	return s.save(ctx, doc)
}

func (s *BoardService) RemoveBoard(ctx context.Context, userID primitive.ObjectID, boardID string) ([]models.Board, error) {
	doc, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := findBoard(doc.Boards, boardID)
	if i == -1 {
		return nil, ErrBoardNotFound
	}
	doc.Boards = append(doc.Boards[:i], doc.Boards[i+1:]...)
	return s.save(ctx, doc)
}

func (s *BoardService) AddCard(ctx context.Context, userID primitive.ObjectID, boardID string, card models.Card) ([]models.Board, error) {
	doc, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := findBoard(doc.Boards, boardID)
	if i == -1 {
		return nil, ErrBoardNotFound
	}

	if card.ID == "" {
		card.ID = uuid.NewString()
	} else if _, _, ok := findCard(doc.Boards, card.ID); ok {
		// Card identifiers are unique across the whole document, not just
		// the target board.
		return nil, fmt.Errorf("%w: card %q", ErrAlreadyExists, card.ID)
	}

	doc.Boards[i].Cards = append(doc.Boards[i].Cards, card)
	return s.save(ctx, doc)
}

func (s *BoardService) RemoveCard(ctx context.Context, userID primitive.ObjectID, boardID, cardID string) ([]models.Board, error) {
	doc, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := findBoard(doc.Boards, boardID)
	if i == -1 {
		return nil, ErrBoardNotFound
	}
	j := findCardInBoard(doc.Boards[i], cardID)
	if j == -1 {
		return nil, ErrCardNotFound
	}

	doc.Boards[i].Cards = append(doc.Boards[i].Cards[:j], doc.Boards[i].Cards[j+1:]...)
	return s.save(ctx, doc)
}

// UpdateCard replaces the card in place; the identifier cannot change.
func (s *BoardService) UpdateCard(ctx context.Context, userID primitive.ObjectID, boardID, cardID string, card models.Card) ([]models.Board, error) {
	doc, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := findBoard(doc.Boards, boardID)
	if i == -1 {
		return nil, ErrBoardNotFound
	}
	j := findCardInBoard(doc.Boards[i], cardID)
	if j == -1 {
		return nil, ErrCardNotFound
	}

	card.ID = cardID
	doc.Boards[i].Cards[j] = card
	return s.save(ctx, doc)
}

// MoveCard removes the card from the source board and splices it into the
// target board at newPosition, clamped to [0, len]. Source and target may
// be the same board (pure reorder). Total card count across the two boards
// is preserved.
func (s *BoardService) MoveCard(ctx context.Context, userID primitive.ObjectID, sourceBoardID, targetBoardID, cardID string, newPosition int) ([]models.Board, error) {
	doc, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := moveCard(doc.Boards, sourceBoardID, targetBoardID, cardID, newPosition); err != nil {
		return nil, err
	}
	return s.save(ctx, doc)
}

// moveCard mutates boards in place. Split out of the service so the splice
// semantics are testable without a store.
func moveCard(boards []models.Board, sourceBoardID, targetBoardID, cardID string, newPosition int) error {
	src := findBoard(boards, sourceBoardID)
	if src == -1 {
		return fmt.Errorf("%w: source %q", ErrBoardNotFound, sourceBoardID)
	}
	dst := findBoard(boards, targetBoardID)
	if dst == -1 {
		return fmt.Errorf("%w: target %q", ErrBoardNotFound, targetBoardID)
	}
	i := findCardInBoard(boards[src], cardID)
	if i == -1 {
		return ErrCardNotFound
	}

	card := boards[src].Cards[i]
	boards[src].Cards = append(boards[src].Cards[:i], boards[src].Cards[i+1:]...)

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

func findBoard(boards []models.Board, boardID string) int {
	for i, board := range boards {
		if board.ID == boardID {
			return i
		}
	}
	return -1
}

func findCardInBoard(board models.Board, cardID string) int {
	for i, card := range board.Cards {
		if card.ID == cardID {
			return i
		}
	}
	return -1
}

func findCard(boards []models.Board, cardID string) (int, int, bool) {
	for i, board := range boards {
		if j := findCardInBoard(board, cardID); j != -1 {
			return i, j, true
		}
	}
	return 0, 0, false
}

// load maps a missing document to ErrBoardNotFound for mutations that need
// an existing board to operate on.
func (s *BoardService) load(ctx context.Context, userID primitive.ObjectID) (*models.BoardDocument, error) {
	doc, err := s.Boards.FindByUserID(ctx, userID)
	if err == repositories.ErrBoardsNotFound {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load boards: %w", err)
	}
	return doc, nil
}

func (s *BoardService) loadOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.BoardDocument, error) {
	doc, err := s.Boards.FindByUserID(ctx, userID)
	if err == repositories.ErrBoardsNotFound {
		return &models.BoardDocument{UserID: userID, Boards: []models.Board{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load boards: %w", err)
	}
	return doc, nil
}

func (s *BoardService) save(ctx context.Context, doc *models.BoardDocument) ([]models.Board, error) {
	if err := s.Boards.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save boards: %w", err)
	}
	return doc.Boards, nil
}
