package services

// SecretService одноразовые коды подтверждения email и сброса пароля.
type SecretService interface {
	// Generate возвращает случайный код для отправки пользователю.
	Generate() (string, error)

	// Hash возвращает необратимый хэш кода для хранения.
	Hash(secret string) string
}
