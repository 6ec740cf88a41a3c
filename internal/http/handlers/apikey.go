package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/service"
)

// APIKeyHandler handles API key endpoints.
type APIKeyHandler struct {
	apiKeySvc *service.APIKeyService
}

// NewAPIKeyHandler creates a new API key handler.
func NewAPIKeyHandler(apiKeySvc *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeySvc: apiKeySvc}
}

// APIKeyResponse represents an API key in responses.
type APIKeyResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	KeyPrefix  string `json:"key_prefix"`
	LastUsedAt string `json:"last_used_at,omitempty"`
	CreatedAt  string `json:"created_at"`
	RevokedAt  string `json:"revoked_at,omitempty"`
}

// ListKeysOutput represents API key list response.
type ListKeysOutput struct {
	Body struct {
		Keys []APIKeyResponse `json:"keys"`
	}
}

// ListKeys handles listing API keys.
func (h *APIKeyHandler) ListKeys(ctx context.Context, input *struct{}) (*ListKeysOutput, error) {
	keys, err := h.apiKeySvc.ListKeys(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list API keys")
	}

	responses := []APIKeyResponse{}
	for _, key := range keys {
		resp := APIKeyResponse{
			ID:        key.ID,
			Name:      key.Name,
			KeyPrefix: key.KeyPrefix,
			CreatedAt: key.CreatedAt.Format(time.RFC3339),
		}
		if key.LastUsedAt != nil {
			resp.LastUsedAt = key.LastUsedAt.Format(time.RFC3339)
		}
		if key.RevokedAt != nil {
			resp.RevokedAt = key.RevokedAt.Format(time.RFC3339)
		}
		responses = append(responses, resp)
	}

	out := &ListKeysOutput{}
	out.Body.Keys = responses
	return out, nil
}

// CreateKeyInput represents API key creation request.
type CreateKeyInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"200" doc:"Descriptive name for the key"`
	}
}

// CreateKeyOutput represents API key creation response.
type CreateKeyOutput struct {
	Body struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Key       string `json:"key" doc:"Full API key - only shown once!"`
		KeyPrefix string `json:"key_prefix"`
		CreatedAt string `json:"created_at"`
	}
}

// CreateKey handles API key creation.
func (h *APIKeyHandler) CreateKey(ctx context.Context, input *CreateKeyInput) (*CreateKeyOutput, error) {
	result, err := h.apiKeySvc.CreateKey(ctx, input.Body.Name)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to create API key")
	}

	out := &CreateKeyOutput{}
	out.Body.ID = result.ID
	out.Body.Name = result.Name
	out.Body.Key = result.Key
	out.Body.KeyPrefix = result.KeyPrefix
	out.Body.CreatedAt = result.CreatedAt.Format(time.RFC3339)
	return out, nil
}

// RevokeKeyInput represents API key revocation request.
type RevokeKeyInput struct {
	ID string `path:"id" doc:"API key ID to revoke"`
}

// RevokeKeyOutput represents API key revocation response.
type RevokeKeyOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

// RevokeKey handles API key revocation.
func (h *APIKeyHandler) RevokeKey(ctx context.Context, input *RevokeKeyInput) (*RevokeKeyOutput, error) {
	if err := h.apiKeySvc.RevokeKey(ctx, input.ID); err != nil {
		return nil, huma.Error500InternalServerError("failed to revoke API key")
	}

	out := &RevokeKeyOutput{}
	out.Body.Success = true
	return out, nil
}
