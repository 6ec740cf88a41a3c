// Package routes provides shared route registration for the MeepleKeep API.
package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/meeplekeep/meeplekeep-api/internal/http/handlers"
	"github.com/meeplekeep/meeplekeep-api/internal/http/mw"
)

// Register registers all API routes with the given Huma API instance.
func Register(api huma.API, h *handlers.Handlers) {
	// =========================================================================
	// Public Routes (no auth required)
	// =========================================================================

	// Health check
	mw.PublicGet(api, "/api/v1/health", h.HealthCheck,
		mw.WithTags("Health"),
		mw.WithSummary("Health check"),
		mw.WithOperationID("healthCheck"))

	// Kubernetes probes (hidden from docs - internal use only)
	mw.HiddenGet(api, "/healthz", h.Livez)
	mw.HiddenGet(api, "/readyz", h.Readyz)

	// --- Catalog ---
	mw.PublicGet(api, "/api/v1/games", h.Game.ListGames,
		mw.WithTags("Games"),
		mw.WithSummary("List games"),
		mw.WithOperationID("listGames"))
	mw.PublicGet(api, "/api/v1/games/{slug}", h.Game.GetGame,
		mw.WithTags("Games"),
		mw.WithSummary("Get game by slug"),
		mw.WithOperationID("getGame"))

	// --- Wishlist (read is public, writes are admin) ---
	mw.PublicGet(api, "/api/v1/wishlist", h.Wishlist.ListWishlist,
		mw.WithTags("Wishlist"),
		mw.WithSummary("List wishlist"),
		mw.WithOperationID("listWishlist"))

	// --- Messages ---
	mw.PublicPost(api, "/api/v1/messages", h.Message.CreateMessage,
		mw.WithTags("Messages"),
		mw.WithSummary("Send a message to the owner"),
		mw.WithDescription("Contact or sale enquiry from a visitor. If game_id is set it must reference a catalogued game."),
		mw.WithOperationID("createMessage"))

	// =========================================================================
	// Admin Routes (require bearer auth with the admin role)
	// =========================================================================

	// --- Import ---
	mw.ProtectedPost(api, "/api/v1/admin/import", h.Import.Import,
		mw.WithAdmin(),
		mw.WithTags("Import"),
		mw.WithSummary("Import games"),
		mw.WithDescription("Bulk import from CSV, a BGG collection, BGG links, or a single URL, with optional AI enhancement."),
		mw.WithOperationID("importGames"))

	// --- Wishlist management ---
	mw.ProtectedPost(api, "/api/v1/admin/wishlist", h.Wishlist.CreateWishlistItem,
		mw.WithAdmin(),
		mw.WithTags("Wishlist"),
		mw.WithSummary("Add wishlist item"),
		mw.WithOperationID("createWishlistItem"))
	mw.ProtectedDelete(api, "/api/v1/admin/wishlist/{id}", h.Wishlist.DeleteWishlistItem,
		mw.WithAdmin(),
		mw.WithTags("Wishlist"),
		mw.WithSummary("Remove wishlist item"),
		mw.WithOperationID("deleteWishlistItem"))

	// --- Messages (inbox) ---
	mw.ProtectedGet(api, "/api/v1/admin/messages", h.Message.ListMessages,
		mw.WithAdmin(),
		mw.WithTags("Messages"),
		mw.WithSummary("List received messages"),
		mw.WithOperationID("listMessages"))

	// --- API Keys ---
	mw.ProtectedGet(api, "/api/v1/admin/keys", h.APIKey.ListKeys,
		mw.WithAdmin(),
		mw.WithTags("API Keys"),
		mw.WithSummary("List API keys"),
		mw.WithOperationID("listApiKeys"))
	mw.ProtectedPost(api, "/api/v1/admin/keys", h.APIKey.CreateKey,
		mw.WithAdmin(),
		mw.WithTags("API Keys"),
		mw.WithSummary("Create API key"),
		mw.WithOperationID("createApiKey"))
	mw.ProtectedDelete(api, "/api/v1/admin/keys/{id}", h.APIKey.RevokeKey,
		mw.WithAdmin(),
		mw.WithTags("API Keys"),
		mw.WithSummary("Revoke API key"),
		mw.WithOperationID("revokeApiKey"))
}
