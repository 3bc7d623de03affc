package repositories

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrTaskNotFound   = errors.New("task not found")
	ErrChatNotFound   = errors.New("chat not found")
	ErrBoardsNotFound = errors.New("boards not found")
)
