package http

import (
	"context"

	"github.com/example/restaurant-api/internal/application"
)

type contextKey string

const (
	principalContextKey     contextKey = "principal"
	draftIDContextKey       contextKey = "draft_id"
	reservationIDContextKey contextKey = "reservation_id"
	ingredientIDContextKey  contextKey = "ingredient_id"
	menuItemIDContextKey    contextKey = "menu_item_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithDraftID injects the booking draft identifier resolved from the request path.
func ContextWithDraftID(ctx context.Context, draftID string) context.Context {
	return context.WithValue(ctx, draftIDContextKey, draftID)
}

// DraftIDFromContext extracts a booking draft identifier previously associated with the context.
func DraftIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(draftIDContextKey).(string)
	return id, ok
}

// ContextWithReservationID injects the reservation identifier resolved from the request path.
func ContextWithReservationID(ctx context.Context, reservationID string) context.Context {
	return context.WithValue(ctx, reservationIDContextKey, reservationID)
}

// ReservationIDFromContext extracts a reservation identifier previously associated with the context.
func ReservationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(reservationIDContextKey).(string)
	return id, ok
}

// ContextWithIngredientID injects the ingredient identifier resolved from the request path.
func ContextWithIngredientID(ctx context.Context, ingredientID string) context.Context {
	return context.WithValue(ctx, ingredientIDContextKey, ingredientID)
}

// IngredientIDFromContext extracts an ingredient identifier previously associated with the context.
func IngredientIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ingredientIDContextKey).(string)
	return id, ok
}

// ContextWithMenuItemID injects the menu item identifier resolved from the request path.
func ContextWithMenuItemID(ctx context.Context, menuItemID string) context.Context {
	return context.WithValue(ctx, menuItemIDContextKey, menuItemID)
}

// MenuItemIDFromContext extracts a menu item identifier previously associated with the context.
func MenuItemIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(menuItemIDContextKey).(string)
	return id, ok
}
