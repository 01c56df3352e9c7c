package model

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")

	ErrTodoNotFound   = errors.New("todo not found")
	ErrNoUpdateFields = errors.New("no fields to update")
)
