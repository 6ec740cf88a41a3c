package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/auth"
	"github.com/meeplekeep/meeplekeep-api/internal/models"
	"github.com/meeplekeep/meeplekeep-api/internal/repository"
)

// APIKeyService manages admin API keys. The plaintext key is shown
// exactly once, at creation; only the peppered hash is stored.
type APIKeyService struct {
	repos  *repository.Repositories
	pepper []byte
	logger *slog.Logger
}

// NewAPIKeyService creates a new API key service.
func NewAPIKeyService(repos *repository.Repositories, pepper []byte, logger *slog.Logger) *APIKeyService {
	return &APIKeyService{repos: repos, pepper: pepper, logger: logger}
}

// CreateKeyOutput is the one-time response carrying the plaintext key.
type CreateKeyOutput struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	KeyPrefix string    `json:"key_prefix"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateKey generates, hashes and stores a new API key.
func (s *APIKeyService) CreateKey(ctx context.Context, name string) (*CreateKeyOutput, error) {
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	key := auth.APIKeyPrefix + base64.RawURLEncoding.EncodeToString(keyBytes)
	keyPrefix := key[:11] + "..."

	apiKey := &models.APIKey{
		ID:        ulid.Make().String(),
		Name:      name,
		KeyHash:   auth.HashKey(key, s.pepper),
		KeyPrefix: keyPrefix,
	}
	if err := s.repos.APIKey.Create(ctx, apiKey); err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}

	s.logger.Info("api key created", slog.String("id", apiKey.ID), slog.String("name", name))
	return &CreateKeyOutput{
		ID:        apiKey.ID,
		Name:      name,
		Key:       key,
		KeyPrefix: keyPrefix,
		CreatedAt: apiKey.CreatedAt,
	}, nil
}

// ListKeys lists keys without their hashes.
func (s *APIKeyService) ListKeys(ctx context.Context) ([]*models.APIKey, error) {
	return s.repos.APIKey.List(ctx)
}

// RevokeKey revokes a key by id.
func (s *APIKeyService) RevokeKey(ctx context.Context, id string) error {
	return s.repos.APIKey.Revoke(ctx, id)
}
