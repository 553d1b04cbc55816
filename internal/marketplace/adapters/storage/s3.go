// Package storage содержит хранилище фотографий на S3-совместимом сервисе.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"walkydoggy/internal/config"
	"walkydoggy/internal/marketplace/ports/services"
	"walkydoggy/pkg/logger"
	"walkydoggy/pkg/resilience"
)

const (
	methodPresignUpload = "S3Storage.PresignUpload"
	methodDeletePhoto   = "S3Storage.Delete"

	msgPresigned      = "upload presigned"
	msgForeignURL     = "photo url is outside of the bucket, skipping"
	msgDeleted        = "photo deleted"
	msgErrPresign     = "failed to presign upload"
	msgErrDeletePhoto = "failed to delete photo"
)

// Presigner выдает подписанные ссылки на загрузку.
type Presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// ObjectDeleter удаляет объекты бакета.
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage реализует services.PhotoStorage.
type S3Storage struct {
	bucket     string
	publicBase string
	ttl        time.Duration
	presigner  Presigner
	deleter    ObjectDeleter
	resilience *resilience.ServiceResilience
	now        func() time.Time
}

// NewS3Storage подключается к хранилищу. Выключенное хранилище отвечает services.ErrStorageDisabled.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (services.PhotoStorage, error) {
	if !cfg.Enabled {
		logger.Log(ctx).Warn(ctx, "photo storage is disabled")
		return disabledStorage{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StorageWithClients(cfg, s3.NewPresignClient(client), client), nil
}

// NewS3StorageWithClients собирает хранилище из готовых клиентов.
func NewS3StorageWithClients(cfg config.StorageConfig, presigner Presigner, deleter ObjectDeleter) *S3Storage {
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &S3Storage{
		bucket:     cfg.Bucket,
		publicBase: publicBase(cfg),
		ttl:        ttl,
		presigner:  presigner,
		deleter:    deleter,
		resilience: resilience.NewServiceResilience("s3"),
		now:        time.Now,
	}
}

func publicBase(cfg config.StorageConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// PublicURL публичная ссылка на объект.
func (s *S3Storage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// PresignUpload выдает подписанную PUT ссылку.
func (s *S3Storage) PresignUpload(ctx context.Context, key, contentType string) (*services.PresignedUpload, error) {
	log := logger.Log(ctx).With(zap.String("method", methodPresignUpload), zap.String("key", key))

	req, err := resilience.ExecuteWithResult(ctx, s.resilience, "PresignPutObject", func(ctx context.Context) (*v4.PresignedHTTPRequest, error) {
		return s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			ContentType: aws.String(contentType),
		}, s3.WithPresignExpires(s.ttl))
	})
	if err != nil {
		log.Error(ctx, msgErrPresign, zap.Error(err))
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	log.Debug(ctx, msgPresigned)
	return &services.PresignedUpload{
		Key:       key,
		UploadURL: req.URL,
		PublicURL: s.PublicURL(key),
		ExpiresAt: s.now().Add(s.ttl),
	}, nil
}

// Delete удаляет объект. Ссылки вне бакета пропускаются.
func (s *S3Storage) Delete(ctx context.Context, publicURL string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeletePhoto))

	key, ok := strings.CutPrefix(publicURL, s.publicBase+"/")
	if !ok || key == "" {
		log.Debug(ctx, msgForeignURL, zap.String("url", publicURL))
		return nil
	}

	err := s.resilience.Execute(ctx, "DeleteObject", func(ctx context.Context) error {
		_, err := s.deleter.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	})
	if err != nil {
		log.Error(ctx, msgErrDeletePhoto, zap.String("key", key), zap.Error(err))
		return fmt.Errorf("error deleting photo: %w", err)
	}

	log.Info(ctx, msgDeleted, zap.String("key", key))
	return nil
}

type disabledStorage struct{}

func (disabledStorage) PresignUpload(context.Context, string, string) (*services.PresignedUpload, error) {
	return nil, services.ErrStorageDisabled
}

func (disabledStorage) Delete(context.Context, string) error {
	return nil
}
