package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/restaurant-api/internal/application"
	"github.com/example/restaurant-api/internal/booking"
	"github.com/example/restaurant-api/internal/persistence"
)

var (
	reservationCounter uint64
	ingredientCounter  uint64
	menuItemCounter    uint64
	userCounter        uint64
	sessionCounter     uint64
)

var referenceTime = time.Date(2025, time.May, 20, 10, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// -------------------------- Reservation fixtures --------------------------

// ReservationFixture represents a deterministic reservation record that can
// be materialised for application or persistence tests.
type ReservationFixture struct {
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

// ReservationOption configures the generated reservation fixture.
type ReservationOption func(*ReservationFixture)

// NewReservationFixture returns a deterministic specific-time reservation on
// the day after the reference time, with optional overrides.
func NewReservationFixture(opts ...ReservationOption) ReservationFixture {
	idx := atomic.AddUint64(&reservationCounter, 1)
	id := fmt.Sprintf("res-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ReservationFixture{
		ID:        id,
		Date:      referenceTime.AddDate(0, 0, 1).Truncate(24 * time.Hour),
		People:    4,
		Reason:    fmt.Sprintf("dinner %03d", idx),
		Type:      booking.TypeSpecificTime,
		Slot:      "12:00-13:00",
		Name:      fmt.Sprintf("Guest %03d", idx),
		Email:     fmt.Sprintf("%s@example.com", id),
		Phone:     fmt.Sprintf("+1 555 01%02d", idx%100),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithReservationID overrides the generated reservation ID.
func WithReservationID(id string) ReservationOption {
	return func(f *ReservationFixture) {
		f.ID = id
	}
}

// WithReservationDate sets the reservation date.
func WithReservationDate(date time.Time) ReservationOption {
	return func(f *ReservationFixture) {
		f.Date = date
	}
}

// WithReservationPeople sets the party size.
func WithReservationPeople(people int) ReservationOption {
	return func(f *ReservationFixture) {
		f.People = people
	}
}

// WithReservationSlot sets the booked time window.
func WithReservationSlot(slot string) ReservationOption {
	return func(f *ReservationFixture) {
		f.Slot = slot
	}
}

// FullVenue marks the fixture as a whole-venue buyout, which carries no slot.
func FullVenue() ReservationOption {
	return func(f *ReservationFixture) {
		f.Type = booking.TypeFullVenue
		f.Slot = ""
	}
}

// WithReservationContact overrides the guest contact fields.
func WithReservationContact(name, email, phone string) ReservationOption {
	return func(f *ReservationFixture) {
		f.Name = name
		f.Email = email
		f.Phone = phone
	}
}

// WithReservationTimestamps sets both created and updated timestamps.
func WithReservationTimestamps(created, updated time.Time) ReservationOption {
	return func(f *ReservationFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.Reservation value.
func (f ReservationFixture) Application() application.Reservation {
	return application.Reservation{
		ID:        f.ID,
		Date:      f.Date,
		People:    f.People,
		Reason:    f.Reason,
		Type:      f.Type,
		Slot:      f.Slot,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Reservation value.
func (f ReservationFixture) Persistence() persistence.Reservation {
	var slot *string
	if f.Slot != "" {
		value := f.Slot
		slot = &value
	}
	return persistence.Reservation{
		ID:        f.ID,
		Date:      f.Date,
		People:    f.People,
		Reason:    f.Reason,
		Type:      string(f.Type),
		Slot:      slot,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// -------------------------- Ingredient fixtures ---------------------------

// IngredientFixture represents a deterministic lunch ingredient record.
type IngredientFixture struct {
	ID         string
	Name       string
	Category   string
	PriceCents int
	Available  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IngredientOption configures the generated ingredient fixture.
type IngredientOption func(*IngredientFixture)

// NewIngredientFixture returns a deterministic ingredient fixture with
// optional overrides.
func NewIngredientFixture(opts ...IngredientOption) IngredientFixture {
	idx := atomic.AddUint64(&ingredientCounter, 1)
	id := fmt.Sprintf("ing-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := IngredientFixture{
		ID:         id,
		Name:       fmt.Sprintf("Ingredient %03d", idx),
		Category:   "protein",
		PriceCents: 450,
		Available:  true,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithIngredientID overrides the generated ingredient ID.
func WithIngredientID(id string) IngredientOption {
	return func(f *IngredientFixture) {
		f.ID = id
	}
}

// WithIngredientName overrides the generated name.
func WithIngredientName(name string) IngredientOption {
	return func(f *IngredientFixture) {
		f.Name = name
	}
}

// WithIngredientCategory sets the ingredient category.
func WithIngredientCategory(category string) IngredientOption {
	return func(f *IngredientFixture) {
		f.Category = category
	}
}

// WithIngredientPrice sets the price in cents.
func WithIngredientPrice(cents int) IngredientOption {
	return func(f *IngredientFixture) {
		f.PriceCents = cents
	}
}

// WithIngredientAvailable sets the availability flag.
func WithIngredientAvailable(available bool) IngredientOption {
	return func(f *IngredientFixture) {
		f.Available = available
	}
}

// Application returns the fixture as an application.Ingredient value.
func (f IngredientFixture) Application() application.Ingredient {
	return application.Ingredient(f)
}

// Persistence returns the fixture as a persistence.Ingredient value.
func (f IngredientFixture) Persistence() persistence.Ingredient {
	return persistence.Ingredient(f)
}

// Input returns the fixture as an application.IngredientInput.
func (f IngredientFixture) Input() application.IngredientInput {
	return application.IngredientInput{
		Name:       f.Name,
		Category:   f.Category,
		PriceCents: f.PriceCents,
		Available:  f.Available,
	}
}

// --------------------------- Menu item fixtures ---------------------------

// MenuItemFixture represents a deterministic composed dish record.
type MenuItemFixture struct {
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

// MenuItemOption configures the generated menu item fixture.
type MenuItemOption func(*MenuItemFixture)

// NewMenuItemFixture returns a deterministic menu item fixture with optional
// overrides.
func NewMenuItemFixture(opts ...MenuItemOption) MenuItemFixture {
	idx := atomic.AddUint64(&menuItemCounter, 1)
	id := fmt.Sprintf("item-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := MenuItemFixture{
		ID:          id,
		Name:        fmt.Sprintf("Dish %03d", idx),
		Description: fmt.Sprintf("House dish number %03d", idx),
		Category:    "mains",
		PriceCents:  1200,
		Available:   true,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithMenuItemID overrides the generated menu item ID.
func WithMenuItemID(id string) MenuItemOption {
	return func(f *MenuItemFixture) {
		f.ID = id
	}
}

// WithMenuItemName overrides the generated name.
func WithMenuItemName(name string) MenuItemOption {
	return func(f *MenuItemFixture) {
		f.Name = name
	}
}

// WithMenuItemPrice sets the price in cents.
func WithMenuItemPrice(cents int) MenuItemOption {
	return func(f *MenuItemFixture) {
		f.PriceCents = cents
	}
}

// WithMenuItemIngredients sets the associated ingredient IDs.
func WithMenuItemIngredients(ids ...string) MenuItemOption {
	return func(f *MenuItemFixture) {
		f.IngredientIDs = ids
	}
}

// WithMenuItemAvailable sets the availability flag.
func WithMenuItemAvailable(available bool) MenuItemOption {
	return func(f *MenuItemFixture) {
		f.Available = available
	}
}

// Application returns the fixture as an application.MenuItem value.
func (f MenuItemFixture) Application() application.MenuItem {
	return application.MenuItem(f)
}

// Persistence returns the fixture as a persistence.MenuItem value.
func (f MenuItemFixture) Persistence() persistence.MenuItem {
	return persistence.MenuItem(f)
}

// Input returns the fixture as an application.MenuItemInput.
func (f MenuItemFixture) Input() application.MenuItemInput {
	return application.MenuItemInput{
		Name:          f.Name,
		Description:   f.Description,
		Category:      f.Category,
		PriceCents:    f.PriceCents,
		IngredientIDs: f.IngredientIDs,
		Available:     f.Available,
	}
}

// ----------------------------- User fixtures ------------------------------

// UserFixture represents a deterministic back-office account record.
type UserFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("Staff %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		IsAdmin:      false,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) {
		f.PasswordHash = hash
	}
}

// WithUserAdmin sets the admin flag on the generated fixture.
func WithUserAdmin(isAdmin bool) UserOption {
	return func(f *UserFixture) {
		f.IsAdmin = isAdmin
	}
}

// WithUserDisabled sets the disabled flag on the generated fixture.
func WithUserDisabled(disabled bool) UserOption {
	return func(f *UserFixture) {
		f.Disabled = disabled
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: f.DisplayName,
		IsAdmin:     f.IsAdmin,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Credentials returns the fixture as application.UserCredentials.
func (f UserFixture) Credentials() application.UserCredentials {
	return application.UserCredentials{
		User:         f.Application(),
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{UserID: f.ID, IsAdmin: f.IsAdmin}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		PasswordHash: f.PasswordHash,
		IsAdmin:      f.IsAdmin,
		Disabled:     f.Disabled,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// ---------------------------- Session fixtures ----------------------------

// SessionFixture represents a deterministic authentication session record.
type SessionFixture struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional
// overrides. Sessions expire 24 hours after creation unless overridden.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := SessionFixture{
		ID:        fmt.Sprintf("sess-%03d", idx),
		UserID:    fmt.Sprintf("user-%03d", idx),
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: created.Add(24 * time.Hour),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.ID = id
	}
}

// WithSessionUser binds the session to the provided user ID.
func WithSessionUser(userID string) SessionOption {
	return func(f *SessionFixture) {
		f.UserID = userID
	}
}

// WithSessionToken overrides the generated token.
func WithSessionToken(token string) SessionOption {
	return func(f *SessionFixture) {
		f.Token = token
	}
}

// WithSessionExpiresAt sets the expiry instant.
func WithSessionExpiresAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.ExpiresAt = t
	}
}

// WithSessionRevokedAt marks the session revoked at the provided instant.
func WithSessionRevokedAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.RevokedAt = &t
	}
}

// Application returns the fixture as an application.Session value.
func (f SessionFixture) Application() application.Session {
	return application.Session(f)
}

// Persistence returns the fixture as a persistence.Session value.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session(f)
}
