package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/restaurant-api/internal/application"
)

type menuService interface {
	ListMenu(ctx context.Context, includeUnavailable bool) ([]application.MenuItem, error)
	ListIngredients(ctx context.Context, includeUnavailable bool) ([]application.Ingredient, error)
	CreateIngredient(ctx context.Context, principal application.Principal, input application.IngredientInput) (application.Ingredient, error)
	UpdateIngredient(ctx context.Context, principal application.Principal, id string, input application.IngredientInput) (application.Ingredient, error)
	DeleteIngredient(ctx context.Context, principal application.Principal, id string) error
	CreateMenuItem(ctx context.Context, principal application.Principal, input application.MenuItemInput) (application.MenuItem, error)
	UpdateMenuItem(ctx context.Context, principal application.Principal, id string, input application.MenuItemInput) (application.MenuItem, error)
	DeleteMenuItem(ctx context.Context, principal application.Principal, id string) error
}

// MenuHandler serves the public menu listings and the back-office catalog
// management endpoints.
type MenuHandler struct {
	service   menuService
	responder responder
	logger    *slog.Logger
}

func NewMenuHandler(service menuService, logger *slog.Logger) *MenuHandler {
	base := defaultLogger(logger)
	return &MenuHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *MenuHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "MenuHandler", operation, attrs...)
}

// ListMenu serves the published menu. Authenticated staff also see entries
// currently marked unavailable.
func (h *MenuHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, authenticated := PrincipalFromContext(r.Context())
	items, err := h.service.ListMenu(r.Context(), authenticated)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]menuItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toMenuItemDTO(item))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, menuListResponse{Items: dtos})
}

// ListIngredients serves the build-your-own-lunch ingredient catalog.
func (h *MenuHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, authenticated := PrincipalFromContext(r.Context())
	ingredients, err := h.service.ListIngredients(r.Context(), authenticated)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]ingredientDTO, 0, len(ingredients))
	for _, ingredient := range ingredients {
		dtos = append(dtos, toIngredientDTO(ingredient))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, ingredientListResponse{Ingredients: dtos})
}

func (h *MenuHandler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req ingredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateIngredient", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode ingredient request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	ingredient, err := h.service.CreateIngredient(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "CreateIngredient").InfoContext(r.Context(), "ingredient created", "ingredient_id", ingredient.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toIngredientDTO(ingredient))
}

func (h *MenuHandler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := IngredientIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	var req ingredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	ingredient, err := h.service.UpdateIngredient(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toIngredientDTO(ingredient))
}

func (h *MenuHandler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := IngredientIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteIngredient(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *MenuHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateMenuItem", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode menu item request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	item, err := h.service.CreateMenuItem(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "CreateMenuItem").InfoContext(r.Context(), "menu item created", "menu_item_id", item.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toMenuItemDTO(item))
}

func (h *MenuHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := MenuItemIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	item, err := h.service.UpdateMenuItem(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toMenuItemDTO(item))
}

func (h *MenuHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := MenuItemIDFromContext(r.Context())
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteMenuItem(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type ingredientRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int    `json:"price_cents"`
	Available  bool   `json:"available"`
}

func (r ingredientRequest) toInput() application.IngredientInput {
	return application.IngredientInput{
		Name:       r.Name,
		Category:   r.Category,
		PriceCents: r.PriceCents,
		Available:  r.Available,
	}
}

type ingredientDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int    `json:"price_cents"`
	Available  bool   `json:"available"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

type ingredientListResponse struct {
	Ingredients []ingredientDTO `json:"ingredients"`
}

type menuItemRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	PriceCents    int      `json:"price_cents"`
	IngredientIDs []string `json:"ingredient_ids"`
	Available     bool     `json:"available"`
}

func (r menuItemRequest) toInput() application.MenuItemInput {
	return application.MenuItemInput{
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		PriceCents:    r.PriceCents,
		IngredientIDs: r.IngredientIDs,
		Available:     r.Available,
	}
}

type menuItemDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category"`
	PriceCents    int      `json:"price_cents"`
	IngredientIDs []string `json:"ingredient_ids,omitempty"`
	Available     bool     `json:"available"`
	CreatedAt     string   `json:"created_at,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

type menuListResponse struct {
	Items []menuItemDTO `json:"items"`
}

func toIngredientDTO(ingredient application.Ingredient) ingredientDTO {
	dto := ingredientDTO{
		ID:         ingredient.ID,
		Name:       ingredient.Name,
		Category:   ingredient.Category,
		PriceCents: ingredient.PriceCents,
		Available:  ingredient.Available,
	}
	if !ingredient.CreatedAt.IsZero() {
		dto.CreatedAt = ingredient.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !ingredient.UpdatedAt.IsZero() {
		dto.UpdatedAt = ingredient.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toMenuItemDTO(item application.MenuItem) menuItemDTO {
	dto := menuItemDTO{
		ID:            item.ID,
		Name:          item.Name,
		Description:   item.Description,
		Category:      item.Category,
		PriceCents:    item.PriceCents,
		IngredientIDs: item.IngredientIDs,
		Available:     item.Available,
	}
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !item.UpdatedAt.IsZero() {
		dto.UpdatedAt = item.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
