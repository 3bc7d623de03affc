package services

import "errors"

// Caller-correctable errors. Handlers map these onto HTTP status codes;
// anything else is a store failure and surfaces as a 500.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrBoardNotFound      = errors.New("board not found")
	ErrCardNotFound       = errors.New("card not found")
	ErrAlreadyExists      = errors.New("identifier already exists")
)
