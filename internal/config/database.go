package config

import (
	"fmt"
	"time"
)

// PostgresConfig содержит настройки подключения к хранилищу учетных записей.
type PostgresConfig struct {
	Host          string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port          int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User          string `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
	Password      string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"postgres"`
	Database      string `yaml:"database" env:"POSTGRES_DB" env-default:"walkydoggy"`
	SSLMode       string `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE" env-default:"disable"`
	MinConn       int    `yaml:"min_conn" env:"POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn       int    `yaml:"max_conn" env:"POSTGRES_MAX_CONN" env-default:"10"`
	MigrationsDir string `yaml:"migrations_dir" env:"POSTGRES_MIGRATIONS_DIR" env-default:"migrations/accounts"`
}

// GetDSN возвращает строку подключения к PostgreSQL.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// GetConnectionURL возвращает URL подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MongoConfig настройки хранилища документов маркетплейса.
type MongoConfig struct {
	URI            string        `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database       string        `yaml:"database" env:"MONGO_DB" env-default:"walkydoggy"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
	MaxPoolSize    uint64        `yaml:"max_pool_size" env:"MONGO_MAX_POOL_SIZE" env-default:"20"`
}
