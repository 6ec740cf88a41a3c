package handlers

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/models"
	"github.com/meeplekeep/meeplekeep-api/internal/repository"
)

// WishlistHandler manages the owner's wishlist.
type WishlistHandler struct {
	repos *repository.Repositories
}

// NewWishlistHandler creates a wishlist handler.
func NewWishlistHandler(repos *repository.Repositories) *WishlistHandler {
	return &WishlistHandler{repos: repos}
}

// ListWishlistOutput represents the wishlist listing response.
type ListWishlistOutput struct {
	Body struct {
		Items []*models.WishlistItem `json:"items"`
	}
}

// ListWishlist returns every wishlist item, highest priority first.
func (h *WishlistHandler) ListWishlist(ctx context.Context, input *struct{}) (*ListWishlistOutput, error) {
	items, err := h.repos.Wishlist.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list wishlist")
	}
	if items == nil {
		items = []*models.WishlistItem{}
	}
	out := &ListWishlistOutput{}
	out.Body.Items = items
	return out, nil
}

// CreateWishlistItemInput represents a wishlist creation request.
type CreateWishlistItemInput struct {
	Body struct {
		Title    string `json:"title" minLength:"1" maxLength:"500" doc:"Game title"`
		Notes    string `json:"notes,omitempty" maxLength:"2000" doc:"Optional notes"`
		BGGURL   string `json:"bgg_url,omitempty" maxLength:"500" doc:"Optional BoardGameGeek link"`
		Priority int    `json:"priority,omitempty" minimum:"0" maximum:"10" doc:"Higher is wanted more"`
	}
}

// CreateWishlistItemOutput represents the created wishlist item.
type CreateWishlistItemOutput struct {
	Body models.WishlistItem
}

// CreateWishlistItem adds an item to the wishlist.
func (h *WishlistHandler) CreateWishlistItem(ctx context.Context, input *CreateWishlistItemInput) (*CreateWishlistItemOutput, error) {
	title := strings.TrimSpace(input.Body.Title)
	if title == "" {
		return nil, huma.Error422UnprocessableEntity("title is required")
	}

	item := &models.WishlistItem{
		Title:    title,
		Notes:    strings.TrimSpace(input.Body.Notes),
		BGGURL:   strings.TrimSpace(input.Body.BGGURL),
		Priority: input.Body.Priority,
	}
	if err := h.repos.Wishlist.Create(ctx, item); err != nil {
		return nil, huma.Error500InternalServerError("failed to create wishlist item")
	}

	return &CreateWishlistItemOutput{Body: *item}, nil
}

// DeleteWishlistItemInput identifies a wishlist item to remove.
type DeleteWishlistItemInput struct {
	ID string `path:"id" doc:"Wishlist item ID"`
}

// DeleteWishlistItemOutput represents the deletion response.
type DeleteWishlistItemOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

// DeleteWishlistItem removes an item from the wishlist.
func (h *WishlistHandler) DeleteWishlistItem(ctx context.Context, input *DeleteWishlistItemInput) (*DeleteWishlistItemOutput, error) {
	if err := h.repos.Wishlist.Delete(ctx, input.ID); err != nil {
		return nil, huma.Error500InternalServerError("failed to delete wishlist item")
	}
	out := &DeleteWishlistItemOutput{}
	out.Body.Success = true
	return out, nil
}
