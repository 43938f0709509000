package util

import "errors"

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrPathNotFound  = errors.New("learning path not found")
	ErrInvalidAction = errors.New("invalid navigator action")
)
