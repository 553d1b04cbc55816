package app

import (
	"regexp"
	"strings"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return entities.ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < services.MinPasswordLength {
		return services.ErrInvalidPassword
	}
	return nil
}

func validateRegistration(input *services.RegisterInput) error {
	input.Email = entities.NormalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if input.Role == "" {
		input.Role = entities.RolePetOwner
	}

	if err := validateEmail(input.Email); err != nil {
		return err
	}
	if err := validatePassword(input.Password); err != nil {
		return err
	}
	if input.FirstName == "" || input.LastName == "" {
		return entities.ErrEmptyName
	}
	if !input.Role.SelfAssignable() {
		return entities.ErrInvalidRole
	}
	return nil
}
