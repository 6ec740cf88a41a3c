// Package handlers contains HTTP handlers for the API.
package handlers

import (
	"context"

	"github.com/meeplekeep/meeplekeep-api/internal/importer"
	"github.com/meeplekeep/meeplekeep-api/internal/repository"
	"github.com/meeplekeep/meeplekeep-api/internal/service"
	"github.com/meeplekeep/meeplekeep-api/internal/version"
)

// Handlers bundles every handler group for route registration.
type Handlers struct {
	Game     *GameHandler
	Import   *ImportHandler
	Wishlist *WishlistHandler
	Message  *MessageHandler
	APIKey   *APIKeyHandler
}

// New creates the full handler set.
func New(repos *repository.Repositories, importSvc *importer.Service, apiKeySvc *service.APIKeyService) *Handlers {
	return &Handlers{
		Game:     NewGameHandler(repos),
		Import:   NewImportHandler(importSvc),
		Wishlist: NewWishlistHandler(repos),
		Message:  NewMessageHandler(repos),
		APIKey:   NewAPIKeyHandler(apiKeySvc),
	}
}

// HealthCheckOutput represents health check response.
type HealthCheckOutput struct {
	Body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
}

// HealthCheck returns the health status of the API.
func (h *Handlers) HealthCheck(ctx context.Context, input *struct{}) (*HealthCheckOutput, error) {
	out := &HealthCheckOutput{}
	out.Body.Status = "healthy"
	out.Body.Version = version.Get().Short()
	return out, nil
}

// Livez is the liveness probe.
func (h *Handlers) Livez(ctx context.Context, input *struct{}) (*struct{}, error) {
	return &struct{}{}, nil
}

// Readyz is the readiness probe.
func (h *Handlers) Readyz(ctx context.Context, input *struct{}) (*struct{}, error) {
	return &struct{}{}, nil
}
