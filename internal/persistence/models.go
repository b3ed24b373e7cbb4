package persistence

import "time"

// Reservation is a confirmed booking stored by the service. Slot is set only
// for specific-time reservations.
type Reservation struct {
	ID        string
	Date      time.Time
	People    int
	Reason    string
	Type      string
	Slot      *string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
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

// MenuItem is a composed dish offered on the menu and for delivery orders.
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

// User is a back-office account.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
