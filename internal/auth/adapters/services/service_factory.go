// Package services содержит реализации криптографических сервисов учетных записей.
package services

import (
	"walkydoggy/internal/auth/domain/services"
	svc "walkydoggy/internal/auth/ports/services"
)

// ServiceFactory создает сервисы паролей, токенов и одноразовых кодов.
type ServiceFactory struct {
	passwordService svc.PasswordService
	tokenService    svc.TokenService
	secretService   svc.SecretService
}

// NewServiceFactory создает фабрику сервисов.
func NewServiceFactory(jwtCfg services.JWTConfig, bcryptCost int) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost),
		tokenService:    NewJWT(jwtCfg),
		secretService:   NewSecret(),
	}
}

// PasswordService возвращает сервис паролей.
func (f *ServiceFactory) PasswordService() svc.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис токенов.
func (f *ServiceFactory) TokenService() svc.TokenService {
	return f.tokenService
}

// SecretService возвращает сервис одноразовых кодов.
func (f *ServiceFactory) SecretService() svc.SecretService {
	return f.secretService
}
