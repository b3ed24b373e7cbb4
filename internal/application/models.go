package application

import (
	"time"

	"github.com/example/restaurant-api/internal/booking"
)

// Principal represents the authenticated staff member invoking a service
// method. Public booking and ordering flows run without one.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// Reservation represents a confirmed booking exposed by the application
// services. Slot is empty for full-venue reservations.
type Reservation struct {
	ID        string
	Date      time.Time
	People    int
	Reason    string
	Type      booking.ReservationType
	Slot      string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DetailsInput captures the first booking step: the event itself.
type DetailsInput struct {
	Date   time.Time
	People int
	Reason string
	Type   booking.ReservationType
	Slot   string
}

// ContactInput captures the second booking step: who is booking.
type ContactInput struct {
	Name  string
	Email string
	Phone string
}

// Draft is a validated first-step submission awaiting contact details. It
// expires if the second step never completes.
type Draft struct {
	ID        string
	Details   DetailsInput
	Slots     []booking.Interval
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ReservationInput captures the full record shape used by the back-office
// edit flow.
type ReservationInput struct {
	Date   time.Time
	People int
	Reason string
	Type   booking.ReservationType
	Slot   string
	Name   string
	Email  string
	Phone  string
}

// ListReservationsParams narrows back-office reservation listings.
type ListReservationsParams struct {
	Principal Principal
	// DateKey restricts results to one calendar date (YYYY-MM-DD).
	DateKey string
	From    *time.Time
	Until   *time.Time
}

// Ingredient is one selectable component of a build-your-own-lunch order.
type Ingredient struct {
	ID         string
	Name       string
	Category   string
	PriceCents int
	Available  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IngredientInput captures caller provided ingredient fields.
type IngredientInput struct {
	Name       string
	Category   string
	PriceCents int
	Available  bool
}

// MenuItem is a composed dish offered on the menu.
type MenuItem struct {
	ID            string
	Name          string
	Description   string
	Category      string
	PriceCents    int
	IngredientIDs []string
	Available     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MenuItemInput captures caller provided menu item fields.
type MenuItemInput struct {
	Name          string
	Description   string
	Category      string
	PriceCents    int
	IngredientIDs []string
	Available     bool
}

// User represents a back-office account exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session represents an authenticated session issued to a staff member.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful login.
type AuthenticateResult struct {
	User    User
	Session Session
}

// LunchOrderInput is a build-your-own-lunch submission.
type LunchOrderInput struct {
	Name          string
	IngredientIDs []string
}

// DeliveryOrderLine selects a quantity of one menu item.
type DeliveryOrderLine struct {
	MenuItemID string
	Quantity   int
}

// DeliveryOrderInput is a delivery order submission.
type DeliveryOrderInput struct {
	Name    string
	Phone   string
	Address string
	Lines   []DeliveryOrderLine
}

// OrderRelay is the prepared WhatsApp hand-off for an order.
type OrderRelay struct {
	Message    string
	Link       string
	TotalCents int
}
