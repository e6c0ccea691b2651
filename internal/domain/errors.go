package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmptyDescription   = errors.New("empty description")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrDraftFailure       = errors.New("draft generation failed")
	ErrUnknownPack        = errors.New("unknown point pack")
)
