package services

import (
	"errors"
)

// Ошибки паролей.
var (
	ErrHashingFailed   = errors.New("failed to hash password")
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
)

// MinPasswordLength минимальная длина пароля.
const MinPasswordLength = 6
