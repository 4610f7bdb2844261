package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrSeatOccupied      = errors.New("seat occupied")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid stage transition")
)
