package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// IngredientRepository captures the persistence interactions for the
// ingredient catalog.
type IngredientRepository interface {
	CreateIngredient(ctx context.Context, ingredient Ingredient) error
	UpdateIngredient(ctx context.Context, ingredient Ingredient) error
	GetIngredient(ctx context.Context, id string) (Ingredient, error)
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	DeleteIngredient(ctx context.Context, id string) error
}

// MenuItemRepository captures the persistence interactions for composed menu
// entries.
type MenuItemRepository interface {
	CreateMenuItem(ctx context.Context, item MenuItem) error
	UpdateMenuItem(ctx context.Context, item MenuItem) error
	GetMenuItem(ctx context.Context, id string) (MenuItem, error)
	ListMenuItems(ctx context.Context) ([]MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
}

// IngredientCategories enumerates the sections of the build-your-own-lunch
// picker.
var IngredientCategories = []string{"protein", "vegetable", "grain", "sauce", "extra"}

// MenuCategories enumerates the sections of the published menu.
var MenuCategories = []string{"starter", "main", "dessert", "drink"}

// MenuService manages the public menu and the ingredient catalog behind the
// build-your-own-lunch flow. Listings are public; mutations require an admin
// principal.
type MenuService struct {
	ingredients IngredientRepository
	items       MenuItemRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewMenuService wires dependencies for menu management.
func NewMenuService(ingredients IngredientRepository, items MenuItemRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *MenuService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MenuService{
		ingredients: ingredients,
		items:       items,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// ListMenu returns the published menu. Staff see every entry; the public
// view is limited to available items.
func (s *MenuService) ListMenu(ctx context.Context, includeUnavailable bool) ([]MenuItem, error) {
	if s == nil || s.items == nil {
		return nil, fmt.Errorf("menu repository not configured")
	}

	items, err := s.items.ListMenuItems(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if includeUnavailable {
		return items, nil
	}

	visible := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.Available {
			visible = append(visible, item)
		}
	}
	return visible, nil
}

// ListIngredients returns the ingredient catalog, filtered to available
// entries unless includeUnavailable is set.
func (s *MenuService) ListIngredients(ctx context.Context, includeUnavailable bool) ([]Ingredient, error) {
	if s == nil || s.ingredients == nil {
		return nil, fmt.Errorf("ingredient repository not configured")
	}

	ingredients, err := s.ingredients.ListIngredients(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if includeUnavailable {
		return ingredients, nil
	}

	visible := make([]Ingredient, 0, len(ingredients))
	for _, ingredient := range ingredients {
		if ingredient.Available {
			visible = append(visible, ingredient)
		}
	}
	return visible, nil
}

// CreateIngredient adds a catalog entry.
func (s *MenuService) CreateIngredient(ctx context.Context, principal Principal, input IngredientInput) (Ingredient, error) {
	if s == nil || s.ingredients == nil {
		return Ingredient{}, fmt.Errorf("ingredient repository not configured")
	}
	if !principal.IsAdmin {
		return Ingredient{}, ErrUnauthorized
	}
	if err := validateIngredient(input); err != nil {
		return Ingredient{}, err
	}

	now := s.now()
	ingredient := Ingredient{
		ID:         s.idGenerator(),
		Name:       strings.TrimSpace(input.Name),
		Category:   input.Category,
		PriceCents: input.PriceCents,
		Available:  input.Available,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.ingredients.CreateIngredient(ctx, ingredient); err != nil {
		return Ingredient{}, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "MenuService", "CreateIngredient").
		InfoContext(ctx, "ingredient created", "ingredient_id", ingredient.ID)
	return ingredient, nil
}

// UpdateIngredient rewrites a catalog entry by ID.
func (s *MenuService) UpdateIngredient(ctx context.Context, principal Principal, id string, input IngredientInput) (Ingredient, error) {
	if s == nil || s.ingredients == nil {
		return Ingredient{}, fmt.Errorf("ingredient repository not configured")
	}
	if !principal.IsAdmin {
		return Ingredient{}, ErrUnauthorized
	}
	if err := validateIngredient(input); err != nil {
		return Ingredient{}, err
	}

	existing, err := s.ingredients.GetIngredient(ctx, id)
	if err != nil {
		return Ingredient{}, mapRepoError(err)
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Category = input.Category
	existing.PriceCents = input.PriceCents
	existing.Available = input.Available
	existing.UpdatedAt = s.now()

	if err := s.ingredients.UpdateIngredient(ctx, existing); err != nil {
		return Ingredient{}, mapRepoError(err)
	}
	return existing, nil
}

// DeleteIngredient removes a catalog entry by ID.
func (s *MenuService) DeleteIngredient(ctx context.Context, principal Principal, id string) error {
	if s == nil || s.ingredients == nil {
		return fmt.Errorf("ingredient repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.ingredients.DeleteIngredient(ctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// CreateMenuItem adds a composed dish to the menu.
func (s *MenuService) CreateMenuItem(ctx context.Context, principal Principal, input MenuItemInput) (MenuItem, error) {
	if s == nil || s.items == nil {
		return MenuItem{}, fmt.Errorf("menu repository not configured")
	}
	if !principal.IsAdmin {
		return MenuItem{}, ErrUnauthorized
	}
	if err := validateMenuItem(input); err != nil {
		return MenuItem{}, err
	}

	now := s.now()
	item := MenuItem{
		ID:            s.idGenerator(),
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		Category:      input.Category,
		PriceCents:    input.PriceCents,
		IngredientIDs: uniqueStrings(input.IngredientIDs),
		Available:     input.Available,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.items.CreateMenuItem(ctx, item); err != nil {
		return MenuItem{}, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "MenuService", "CreateMenuItem").
		InfoContext(ctx, "menu item created", "menu_item_id", item.ID)
	return item, nil
}

// UpdateMenuItem rewrites a menu entry by ID.
func (s *MenuService) UpdateMenuItem(ctx context.Context, principal Principal, id string, input MenuItemInput) (MenuItem, error) {
	if s == nil || s.items == nil {
		return MenuItem{}, fmt.Errorf("menu repository not configured")
	}
	if !principal.IsAdmin {
		return MenuItem{}, ErrUnauthorized
	}
	if err := validateMenuItem(input); err != nil {
		return MenuItem{}, err
	}

	existing, err := s.items.GetMenuItem(ctx, id)
	if err != nil {
		return MenuItem{}, mapRepoError(err)
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Description = strings.TrimSpace(input.Description)
	existing.Category = input.Category
	existing.PriceCents = input.PriceCents
	existing.IngredientIDs = uniqueStrings(input.IngredientIDs)
	existing.Available = input.Available
	existing.UpdatedAt = s.now()

	if err := s.items.UpdateMenuItem(ctx, existing); err != nil {
		return MenuItem{}, mapRepoError(err)
	}
	return existing, nil
}

// DeleteMenuItem removes a menu entry by ID.
func (s *MenuService) DeleteMenuItem(ctx context.Context, principal Principal, id string) error {
	if s == nil || s.items == nil {
		return fmt.Errorf("menu repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.items.DeleteMenuItem(ctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func validateIngredient(input IngredientInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fieldError("name", "name is required")
	}
	if !containsString(IngredientCategories, input.Category) {
		return fieldError("category", "unknown ingredient category")
	}
	if input.PriceCents < 0 {
		return fieldError("price", "price must not be negative")
	}
	return nil
}

func validateMenuItem(input MenuItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fieldError("name", "name is required")
	}
	if !containsString(MenuCategories, input.Category) {
		return fieldError("category", "unknown menu category")
	}
	if input.PriceCents < 0 {
		return fieldError("price", "price must not be negative")
	}
	return nil
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
