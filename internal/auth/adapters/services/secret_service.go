package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	svc "walkydoggy/internal/auth/ports/services"
)

const secretBytes = 32

// ServiceSecret одноразовые коды: 32 случайных байта в hex, хранится SHA-256.
type ServiceSecret struct{}

// NewSecret создает генератор одноразовых кодов.
func NewSecret() svc.SecretService {
	return ServiceSecret{}
}

// Generate возвращает новый код.
func (ServiceSecret) Generate() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Hash возвращает hex SHA-256 кода.
func (ServiceSecret) Hash(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
