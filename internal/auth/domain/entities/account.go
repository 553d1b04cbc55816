// Package entities содержит сущности домена учетных записей.
package entities

import (
	"errors"
	"strings"
	"time"
)

// Ошибки домена учетных записей.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidRole     = errors.New("invalid account role")
	ErrEmptyName       = errors.New("first and last name are required")
	ErrInvalidLocation = errors.New("coordinates out of range")
)

// Role роль учетной записи.
type Role string

// Роли.
const (
	RolePetOwner Role = "pet_owner"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

// Valid сообщает, известна ли роль.
func (r Role) Valid() bool {
	switch r {
	case RolePetOwner, RoleBusiness, RoleAdmin:
		return true
	}
	return false
}

// SelfAssignable сообщает, можно ли выбрать роль при регистрации.
func (r Role) SelfAssignable() bool {
	return r == RolePetOwner || r == RoleBusiness
}

// Status жизненный цикл учетной записи.
type Status string

// Статусы.
const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

// Coordinates точка на карте в порядке GeoJSON.
type Coordinates struct {
	Longitude float64
	Latitude  float64
}

// Validate проверяет диапазоны широты и долготы.
func (c Coordinates) Validate() error {
	if c.Longitude < -180 || c.Longitude > 180 || c.Latitude < -90 || c.Latitude > 90 {
		return ErrInvalidLocation
	}
	return nil
}

// Address почтовый адрес с необязательной геопозицией.
type Address struct {
	Street      string
	City        string
	State       string
	ZipCode     string
	Country     string
	Coordinates *Coordinates
}

// Profile персональные данные.
type Profile struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Avatar      string
	Address     *Address
}

// Account учетная запись вместе с учетными данными.
// Хэш пароля и токены никогда не покидают сервер, клиенту отдается PublicProfile.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Profile      Profile
	BusinessID   string

	IsEmailVerified bool
	IsPhoneVerified bool

	RefreshToken string

	VerificationTokenHash string
	VerificationExpiresAt *time.Time
	ResetTokenHash        string
	ResetExpiresAt        *time.Time

	Status      Status
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive сообщает, может ли учетная запись аутентифицироваться.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// FullName возвращает имя для писем.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.Profile.FirstName + " " + a.Profile.LastName)
}

// PublicProfile представление учетной записи для клиента.
type PublicProfile struct {
	ID              string
	Email           string
	Role            Role
	Profile         Profile
	BusinessID      string
	IsEmailVerified bool
	IsPhoneVerified bool
	LastLoginAt     *time.Time
	CreatedAt       time.Time
}

// Public возвращает публичное представление.
func (a *Account) Public() PublicProfile {
	return PublicProfile{
		ID:              a.ID,
		Email:           a.Email,
		Role:            a.Role,
		Profile:         a.Profile,
		BusinessID:      a.BusinessID,
		IsEmailVerified: a.IsEmailVerified,
		IsPhoneVerified: a.IsPhoneVerified,
		LastLoginAt:     a.LastLoginAt,
		CreatedAt:       a.CreatedAt,
	}
}

// NormalizeEmail приводит email к форме хранения.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
