package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/restaurant-api/internal/application"
)

type orderService interface {
	BuildLunchOrder(ctx context.Context, input application.LunchOrderInput) (application.OrderRelay, error)
	BuildDeliveryOrder(ctx context.Context, input application.DeliveryOrderInput) (application.OrderRelay, error)
}

// OrderHandler serves the public ordering flows. Both endpoints respond with
// a prefilled WhatsApp link the customer opens to send the order themselves.
type OrderHandler struct {
	service   orderService
	responder responder
	logger    *slog.Logger
}

func NewOrderHandler(service orderService, logger *slog.Logger) *OrderHandler {
	base := defaultLogger(logger)
	return &OrderHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *OrderHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "OrderHandler", operation, attrs...)
}

// CreateLunchOrder relays a build-your-own-lunch selection.
func (h *OrderHandler) CreateLunchOrder(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req lunchOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateLunchOrder", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode lunch order request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	relay, err := h.service.BuildLunchOrder(r.Context(), application.LunchOrderInput{
		Name:          req.Name,
		IngredientIDs: req.IngredientIDs,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "CreateLunchOrder").InfoContext(r.Context(), "lunch order relayed", "total_cents", relay.TotalCents)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOrderRelayDTO(relay))
}

// CreateDeliveryOrder relays a delivery order composed from menu items.
func (h *OrderHandler) CreateDeliveryOrder(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req deliveryOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateDeliveryOrder", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode delivery order request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	lines := make([]application.DeliveryOrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, application.DeliveryOrderLine{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
		})
	}

	relay, err := h.service.BuildDeliveryOrder(r.Context(), application.DeliveryOrderInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Lines:   lines,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "CreateDeliveryOrder").InfoContext(r.Context(), "delivery order relayed", "total_cents", relay.TotalCents)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOrderRelayDTO(relay))
}

type lunchOrderRequest struct {
	Name          string   `json:"name"`
	IngredientIDs []string `json:"ingredient_ids"`
}

type deliveryOrderLineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type deliveryOrderRequest struct {
	Name    string                     `json:"name"`
	Phone   string                     `json:"phone"`
	Address string                     `json:"address"`
	Lines   []deliveryOrderLineRequest `json:"lines"`
}

type orderRelayDTO struct {
	Message      string `json:"message"`
	WhatsAppLink string `json:"whatsapp_link"`
	TotalCents   int    `json:"total_cents"`
}

func toOrderRelayDTO(relay application.OrderRelay) orderRelayDTO {
	return orderRelayDTO{
		Message:      relay.Message,
		WhatsAppLink: relay.Link,
		TotalCents:   relay.TotalCents,
	}
}
