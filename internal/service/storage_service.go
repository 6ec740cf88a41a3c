// Package service contains the business logic layer above the
// repositories: API key management and object storage.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/meeplekeep/meeplekeep-api/internal/config"
)

// maxImageBytes caps how large a mirrored cover image may be.
const maxImageBytes = 10 << 20

// StorageService mirrors external cover images into S3-compatible
// object storage so the catalog does not hotlink a third-party CDN.
type StorageService struct {
	client     *s3.Client
	httpClient *http.Client
	bucket     string
	publicURL  string
	enabled    bool
	logger     *slog.Logger
}

// NewStorageService creates a storage service. When no bucket is
// configured the service stays disabled and every operation is a
// silent no-op.
func NewStorageService(cfg *appconfig.Config, logger *slog.Logger) (*StorageService, error) {
	if !cfg.StorageEnabled {
		logger.Info("storage service disabled - no bucket configured")
		return &StorageService{enabled: false, logger: logger}, nil
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.StorageRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Custom endpoint and path style for S3-compatibles (Tigris, MinIO).
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
		o.UsePathStyle = true
	})

	logger.Info("storage service initialized",
		"bucket", cfg.StorageBucket,
		"endpoint", cfg.StorageEndpoint,
	)

	return &StorageService{
		client:     client,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		bucket:     cfg.StorageBucket,
		publicURL:  strings.TrimRight(cfg.StoragePublicURL, "/"),
		enabled:    true,
		logger:     logger,
	}, nil
}

// IsEnabled returns whether storage is configured and available.
func (s *StorageService) IsEnabled() bool {
	return s.enabled
}

// MirrorImage downloads imageURL and stores it under the game's id,
// returning the public URL of the stored copy. When storage is
// disabled or the mirror fails, the original URL is returned so the
// catalog still has an image.
func (s *StorageService) MirrorImage(ctx context.Context, imageURL, gameID string) string {
	if !s.enabled || imageURL == "" {
		return imageURL
	}

	body, contentType, err := s.download(ctx, imageURL)
	if err != nil {
		s.logger.Warn("image mirror failed, keeping original URL",
			"url", imageURL, "error", err)
		return imageURL
	}

	key := "covers/" + gameID + extensionFor(imageURL, contentType)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Warn("image upload failed, keeping original URL",
			"url", imageURL, "error", err)
		return imageURL
	}

	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return imageURL
}

func (s *StorageService) download(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(body) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return body, contentType, nil
}

func extensionFor(imageURL, contentType string) string {
	if ext := path.Ext(strings.SplitN(imageURL, "?", 2)[0]); ext != "" && len(ext) <= 5 {
		return ext
	}
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
