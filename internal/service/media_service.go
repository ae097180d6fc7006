package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"crewassist/pkg/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MediaService issues time-limited signed download URLs for manual media held
// in a private bucket. If the client fails to initialize at startup the
// service stays up and every lookup reports "unavailable" instead of erroring:
// a missing image must never fail a textual answer.
type MediaService struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	logger *zap.Logger
}

func NewMediaService(cfg *config.StorageConfig, logger *zap.Logger) *MediaService {
	svc := &MediaService{
		bucket: cfg.Bucket,
		expiry: cfg.URLExpiry,
		logger: logger,
	}
	if svc.expiry <= 0 {
		svc.expiry = time.Hour
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		logger.Error("Object store client init failed, media attachments disabled", zap.Error(err))
		return svc
	}

	svc.client = client
	return svc
}

// ResolveMedia returns a signed URL for fileName, or "" when the file cannot
// be resolved. The requesterID is recorded for media-access auditing only.
func (s *MediaService) ResolveMedia(ctx context.Context, fileName, requesterID string) (string, error) {
	if s.client == nil {
		return "", nil
	}

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, fileName, s.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to sign url for %s: %w", fileName, err)
	}

	s.logger.Debug("Signed media url issued",
		zap.String("file", fileName),
		zap.String("requester", requesterID),
	)

	return signed.String(), nil
}
