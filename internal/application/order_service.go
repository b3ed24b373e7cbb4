package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/restaurant-api/internal/whatsapp"
)

// OrderService turns build-your-own-lunch and delivery submissions into
// prefilled WhatsApp messages for the restaurant's business number. Orders
// are relayed, never persisted or charged.
type OrderService struct {
	ingredients IngredientRepository
	items       MenuItemRepository
	phone       string
	logger      *slog.Logger
}

// NewOrderService wires dependencies for the ordering flows. phone is the
// WhatsApp business number order links open a chat with.
func NewOrderService(ingredients IngredientRepository, items MenuItemRepository, phone string, logger *slog.Logger) *OrderService {
	return &OrderService{
		ingredients: ingredients,
		items:       items,
		phone:       phone,
		logger:      defaultLogger(logger),
	}
}

// BuildLunchOrder validates a build-your-own-lunch selection and renders the
// relay link. Every selected ingredient must exist and be available.
func (s *OrderService) BuildLunchOrder(ctx context.Context, input LunchOrderInput) (OrderRelay, error) {
	if s == nil || s.ingredients == nil {
		return OrderRelay{}, fmt.Errorf("ingredient repository not configured")
	}

	if strings.TrimSpace(input.Name) == "" {
		return OrderRelay{}, fieldError("name", "name is required")
	}
	if len(input.IngredientIDs) == 0 {
		return OrderRelay{}, fieldError("ingredients", "select at least one ingredient")
	}

	catalog, err := s.ingredients.ListIngredients(ctx)
	if err != nil {
		return OrderRelay{}, mapRepoError(err)
	}
	byID := make(map[string]Ingredient, len(catalog))
	for _, ingredient := range catalog {
		byID[ingredient.ID] = ingredient
	}

	lines := make([]whatsapp.OrderLine, 0, len(input.IngredientIDs))
	total := 0
	counted := countByID(input.IngredientIDs)
	for _, id := range orderedKeys(input.IngredientIDs) {
		ingredient, ok := byID[id]
		if !ok || !ingredient.Available {
			return OrderRelay{}, fieldError("ingredients", "one or more selected ingredients are unavailable")
		}
		quantity := counted[id]
		lineTotal := ingredient.PriceCents * quantity
		lines = append(lines, whatsapp.OrderLine{
			Quantity:   quantity,
			Name:       ingredient.Name,
			PriceCents: lineTotal,
		})
		total += lineTotal
	}

	message := whatsapp.LunchMessage(strings.TrimSpace(input.Name), lines, total)
	relay := OrderRelay{
		Message:    message,
		Link:       whatsapp.Link(s.phone, message),
		TotalCents: total,
	}

	serviceLogger(ctx, s.logger, "OrderService", "BuildLunchOrder").
		InfoContext(ctx, "lunch order relayed", "lines", len(lines), "total_cents", total)
	return relay, nil
}

// BuildDeliveryOrder validates a delivery submission and renders the relay
// link. Every ordered menu item must exist and be available.
func (s *OrderService) BuildDeliveryOrder(ctx context.Context, input DeliveryOrderInput) (OrderRelay, error) {
	if s == nil || s.items == nil {
		return OrderRelay{}, fmt.Errorf("menu repository not configured")
	}

	if strings.TrimSpace(input.Name) == "" {
		return OrderRelay{}, fieldError("name", "name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return OrderRelay{}, fieldError("phone", "phone is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return OrderRelay{}, fieldError("address", "delivery address is required")
	}
	if len(input.Lines) == 0 {
		return OrderRelay{}, fieldError("items", "order at least one item")
	}

	menu, err := s.items.ListMenuItems(ctx)
	if err != nil {
		return OrderRelay{}, mapRepoError(err)
	}
	byID := make(map[string]MenuItem, len(menu))
	for _, item := range menu {
		byID[item.ID] = item
	}

	lines := make([]whatsapp.OrderLine, 0, len(input.Lines))
	total := 0
	for _, line := range input.Lines {
		item, ok := byID[line.MenuItemID]
		if !ok || !item.Available {
			return OrderRelay{}, fieldError("items", "one or more ordered items are unavailable")
		}
		if line.Quantity < 1 {
			return OrderRelay{}, fieldError("items", "quantities must be positive")
		}
		lineTotal := item.PriceCents * line.Quantity
		lines = append(lines, whatsapp.OrderLine{
			Quantity:   line.Quantity,
			Name:       item.Name,
			PriceCents: lineTotal,
		})
		total += lineTotal
	}

	message := whatsapp.DeliveryMessage(
		strings.TrimSpace(input.Name),
		strings.TrimSpace(input.Phone),
		strings.TrimSpace(input.Address),
		lines,
		total,
	)
	relay := OrderRelay{
		Message:    message,
		Link:       whatsapp.Link(s.phone, message),
		TotalCents: total,
	}

	serviceLogger(ctx, s.logger, "OrderService", "BuildDeliveryOrder").
		InfoContext(ctx, "delivery order relayed", "lines", len(lines), "total_cents", total)
	return relay, nil
}

func countByID(ids []string) map[string]int {
	counts := make(map[string]int, len(ids))
	for _, id := range ids {
		counts[id]++
	}
	return counts
}

// orderedKeys preserves first-seen order while dropping repeats.
func orderedKeys(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	ordered := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	return ordered
}
