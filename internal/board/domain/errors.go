package domain

import "errors"

var (
	ErrBoardNotFound     = errors.New("board not found")
	ErrBoardAlreadyExists = errors.New("board already exists")
	ErrInvalidJoin       = errors.New("invalid join data")
	ErrUnknownShapeType  = errors.New("unknown shape type")
)
