package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrPolicyNotFound  = errors.New("policy not found")
	ErrInvalidRequest  = errors.New("invalid request")
)
