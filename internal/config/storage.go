package config

import "time"

// StorageConfig настройки S3-совместимого хранилища фотографий.
type StorageConfig struct {
	Enabled       bool          `yaml:"enabled" env:"S3_ENABLED" env-default:"false"`
	Endpoint      string        `yaml:"endpoint" env:"S3_ENDPOINT" env-default:""`
	Region        string        `yaml:"region" env:"S3_REGION" env-default:"eu-central-1"`
	Bucket        string        `yaml:"bucket" env:"S3_BUCKET" env-default:"walkydoggy-photos"`
	AccessKey     string        `yaml:"access_key" env:"S3_ACCESS_KEY" env-default:""`
	SecretKey     string        `yaml:"secret_key" env:"S3_SECRET_KEY" env-default:""`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL" env-default:""`
	PresignTTL    time.Duration `yaml:"presign_ttl" env:"S3_PRESIGN_TTL" env-default:"15m"`
}
