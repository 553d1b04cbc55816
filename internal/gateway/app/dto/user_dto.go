package dto

import (
	"time"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/ports/api"
)

// AddressJSON адрес с координатами [долгота, широта].
type AddressJSON struct {
	Street      string    `json:"street,omitempty" validate:"max=200"`
	City        string    `json:"city,omitempty" validate:"max=100"`
	State       string    `json:"state,omitempty" validate:"max=100"`
	ZipCode     string    `json:"zipCode,omitempty" validate:"max=20"`
	Country     string    `json:"country,omitempty" validate:"max=100"`
	Coordinates []float64 `json:"coordinates,omitempty" validate:"omitempty,len=2"`
}

// UserResponse публичный профиль пользователя.
type UserResponse struct {
	ID              string       `json:"id"`
	Email           string       `json:"email"`
	UserType        string       `json:"userType"`
	FirstName       string       `json:"firstName"`
	LastName        string       `json:"lastName"`
	PhoneNumber     string       `json:"phoneNumber,omitempty"`
	Avatar          string       `json:"avatar,omitempty"`
	Address         *AddressJSON `json:"address,omitempty"`
	BusinessID      string       `json:"businessId,omitempty"`
	IsEmailVerified bool         `json:"isEmailVerified"`
	IsPhoneVerified bool         `json:"isPhoneVerified"`
	LastLoginAt     *time.Time   `json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// NewUserResponse переводит профиль в ответ.
func NewUserResponse(p *entities.PublicProfile) *UserResponse {
	if p == nil {
		return nil
	}
	resp := &UserResponse{
		ID:              p.ID,
		Email:           p.Email,
		UserType:        string(p.Role),
		FirstName:       p.Profile.FirstName,
		LastName:        p.Profile.LastName,
		PhoneNumber:     p.Profile.PhoneNumber,
		Avatar:          p.Profile.Avatar,
		BusinessID:      p.BusinessID,
		IsEmailVerified: p.IsEmailVerified,
		IsPhoneVerified: p.IsPhoneVerified,
		LastLoginAt:     p.LastLoginAt,
		CreatedAt:       p.CreatedAt,
	}
	if a := p.Profile.Address; a != nil {
		resp.Address = &AddressJSON{
			Street:  a.Street,
			City:    a.City,
			State:   a.State,
			ZipCode: a.ZipCode,
			Country: a.Country,
		}
		if a.Coordinates != nil {
			resp.Address.Coordinates = []float64{a.Coordinates.Longitude, a.Coordinates.Latitude}
		}
	}
	return resp
}

// UpdateProfileRequest изменение имени и аватара.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"omitempty,max=100"`
	LastName  string `json:"lastName" validate:"omitempty,max=100"`
	Avatar    string `json:"avatar" validate:"omitempty,url"`
}

// Update переводит запрос в изменение профиля.
func (r UpdateProfileRequest) Update() api.ProfileUpdate {
	return api.ProfileUpdate{FirstName: r.FirstName, LastName: r.LastName, Avatar: r.Avatar}
}

// UpdateAvatarRequest новая ссылка на аватар.
type UpdateAvatarRequest struct {
	Avatar string `json:"avatar" validate:"required,url"`
}

// UpdatePhoneRequest новый номер телефона.
type UpdatePhoneRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,min=5,max=30"`
}

// UpdateAddressRequest новый адрес.
type UpdateAddressRequest struct {
	Address AddressJSON `json:"address" validate:"required"`
}

// Entity переводит адрес в сущность.
func (a AddressJSON) Entity() entities.Address {
	addr := entities.Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
	if len(a.Coordinates) == 2 {
		addr.Coordinates = &entities.Coordinates{Longitude: a.Coordinates[0], Latitude: a.Coordinates[1]}
	}
	return addr
}

// DeleteAccountRequest подтверждение удаления паролем.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}
