package config

import (
	"fmt"
	"time"
)

// GRPCConfig конфигурация gRPC сервера здоровья.
type GRPCConfig struct {
	Host          string        `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port          int           `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
	ProbeInterval time.Duration `yaml:"probe_interval" env:"GRPC_HEALTH_PROBE_INTERVAL" env-default:"15s"`
}

// GetAddress возвращает адрес для gRPC сервера.
func (g *GRPCConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}
