package persistence

import (
	"context"
	"time"
)

// ReservationFilter narrows reservation queries.
type ReservationFilter struct {
	// DateKey restricts results to a single calendar date (YYYY-MM-DD in the
	// venue timezone).
	DateKey string
	From    *time.Time
	Until   *time.Time
}

// AvailabilityFunc decides whether a candidate reservation may join the
// provided same-date records. Implementations return nil to accept; any
// error aborts the surrounding write.
type AvailabilityFunc func(existing []Reservation) error

// ReservationRepository stores confirmed bookings.
//
// CreateIfAvailable and UpdateIfAvailable evaluate the decision function over
// the candidate's same-date records inside the write transaction, so the
// capacity check and the insert/update are atomic with respect to concurrent
// bookings.
type ReservationRepository interface {
	CreateIfAvailable(ctx context.Context, reservation Reservation, decide AvailabilityFunc) error
	UpdateIfAvailable(ctx context.Context, reservation Reservation, decide AvailabilityFunc) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

// IngredientRepository stores the build-your-own-lunch ingredient catalog.
type IngredientRepository interface {
	CreateIngredient(ctx context.Context, ingredient Ingredient) error
	UpdateIngredient(ctx context.Context, ingredient Ingredient) error
	GetIngredient(ctx context.Context, id string) (Ingredient, error)
	ListIngredients(ctx context.Context) ([]Ingredient, error)
	DeleteIngredient(ctx context.Context, id string) error
}

// MenuItemRepository stores composed menu entries.
type MenuItemRepository interface {
	CreateMenuItem(ctx context.Context, item MenuItem) error
	UpdateMenuItem(ctx context.Context, item MenuItem) error
	GetMenuItem(ctx context.Context, id string) (MenuItem, error)
	ListMenuItems(ctx context.Context) ([]MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
}

// UserRepository stores back-office accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	RevokeSessionsForUser(ctx context.Context, userID string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
