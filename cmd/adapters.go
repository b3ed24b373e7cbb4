package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/example/restaurant-api/internal/application"
	"github.com/example/restaurant-api/internal/booking"
	"github.com/example/restaurant-api/internal/persistence"
)

// The application services speak in application types while the repositories
// persist storage models. These adapters convert between the two at the
// composition boundary.

type reservationRepositoryAdapter struct {
	repo persistence.ReservationRepository
}

func newReservationRepositoryAdapter(repo persistence.ReservationRepository) *reservationRepositoryAdapter {
	return &reservationRepositoryAdapter{repo: repo}
}

func (a *reservationRepositoryAdapter) CreateIfAvailable(ctx context.Context, reservation application.Reservation, decide func(existing []application.Reservation) error) error {
	return a.repo.CreateIfAvailable(ctx, toPersistenceReservation(reservation), wrapDecision(decide))
}

func (a *reservationRepositoryAdapter) UpdateIfAvailable(ctx context.Context, reservation application.Reservation, decide func(existing []application.Reservation) error) error {
	return a.repo.UpdateIfAvailable(ctx, toPersistenceReservation(reservation), wrapDecision(decide))
}

func (a *reservationRepositoryAdapter) GetReservation(ctx context.Context, id string) (application.Reservation, error) {
	stored, err := a.repo.GetReservation(ctx, id)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(stored), nil
}

func (a *reservationRepositoryAdapter) ListReservations(ctx context.Context, filter application.ReservationRepositoryFilter) ([]application.Reservation, error) {
	stored, err := a.repo.ListReservations(ctx, persistence.ReservationFilter{
		DateKey: filter.DateKey,
		From:    filter.From,
		Until:   filter.Until,
	})
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, nil
	}
	reservations := make([]application.Reservation, 0, len(stored))
	for _, model := range stored {
		reservations = append(reservations, toApplicationReservation(model))
	}
	return reservations, nil
}

func (a *reservationRepositoryAdapter) DeleteReservation(ctx context.Context, id string) error {
	return a.repo.DeleteReservation(ctx, id)
}

func wrapDecision(decide func(existing []application.Reservation) error) persistence.AvailabilityFunc {
	if decide == nil {
		return nil
	}
	return func(existing []persistence.Reservation) error {
		converted := make([]application.Reservation, 0, len(existing))
		for _, model := range existing {
			converted = append(converted, toApplicationReservation(model))
		}
		return decide(converted)
	}
}

type ingredientRepositoryAdapter struct {
	repo persistence.IngredientRepository
}

func newIngredientRepositoryAdapter(repo persistence.IngredientRepository) *ingredientRepositoryAdapter {
	return &ingredientRepositoryAdapter{repo: repo}
}

func (a *ingredientRepositoryAdapter) CreateIngredient(ctx context.Context, ingredient application.Ingredient) error {
	return a.repo.CreateIngredient(ctx, persistence.Ingredient(ingredient))
}

func (a *ingredientRepositoryAdapter) UpdateIngredient(ctx context.Context, ingredient application.Ingredient) error {
	return a.repo.UpdateIngredient(ctx, persistence.Ingredient(ingredient))
}

func (a *ingredientRepositoryAdapter) GetIngredient(ctx context.Context, id string) (application.Ingredient, error) {
	stored, err := a.repo.GetIngredient(ctx, id)
	if err != nil {
		return application.Ingredient{}, err
	}
	return application.Ingredient(stored), nil
}

func (a *ingredientRepositoryAdapter) ListIngredients(ctx context.Context) ([]application.Ingredient, error) {
	stored, err := a.repo.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, nil
	}
	ingredients := make([]application.Ingredient, 0, len(stored))
	for _, model := range stored {
		ingredients = append(ingredients, application.Ingredient(model))
	}
	return ingredients, nil
}

func (a *ingredientRepositoryAdapter) DeleteIngredient(ctx context.Context, id string) error {
	return a.repo.DeleteIngredient(ctx, id)
}

type menuItemRepositoryAdapter struct {
	repo persistence.MenuItemRepository
}

func newMenuItemRepositoryAdapter(repo persistence.MenuItemRepository) *menuItemRepositoryAdapter {
	return &menuItemRepositoryAdapter{repo: repo}
}

func (a *menuItemRepositoryAdapter) CreateMenuItem(ctx context.Context, item application.MenuItem) error {
	return a.repo.CreateMenuItem(ctx, persistence.MenuItem(item))
}

func (a *menuItemRepositoryAdapter) UpdateMenuItem(ctx context.Context, item application.MenuItem) error {
	return a.repo.UpdateMenuItem(ctx, persistence.MenuItem(item))
}

func (a *menuItemRepositoryAdapter) GetMenuItem(ctx context.Context, id string) (application.MenuItem, error) {
	stored, err := a.repo.GetMenuItem(ctx, id)
	if err != nil {
		return application.MenuItem{}, err
	}
	return application.MenuItem(stored), nil
}

func (a *menuItemRepositoryAdapter) ListMenuItems(ctx context.Context) ([]application.MenuItem, error) {
	stored, err := a.repo.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, nil
	}
	items := make([]application.MenuItem, 0, len(stored))
	for _, model := range stored {
		items = append(items, application.MenuItem(model))
	}
	return items, nil
}

func (a *menuItemRepositoryAdapter) DeleteMenuItem(ctx context.Context, id string) error {
	return a.repo.DeleteMenuItem(ctx, id)
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, mapLookupError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
		Disabled:     stored.Disabled,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapLookupError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *credentialStoreAdapter) UpdatePasswordHash(ctx context.Context, userID, hash string, updatedAt time.Time) error {
	stored, err := a.repo.GetUser(ctx, userID)
	if err != nil {
		return mapLookupError(err)
	}
	stored.PasswordHash = hash
	stored.UpdatedAt = updatedAt
	if err := a.repo.UpdateUser(ctx, stored); err != nil {
		return mapLookupError(err)
	}
	return nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, persistence.Session(session))
	if err != nil {
		return application.Session{}, mapLookupError(err)
	}
	return application.Session(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapLookupError(err)
	}
	return application.Session(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, mapLookupError(err)
	}
	return application.Session(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSessionsForUser(ctx context.Context, userID string, revokedAt time.Time) error {
	return a.repo.RevokeSessionsForUser(ctx, userID, revokedAt)
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

func mapLookupError(err error) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return application.ErrNotFound
	}
	return err
}

func toApplicationReservation(model persistence.Reservation) application.Reservation {
	slot := ""
	if model.Slot != nil {
		slot = *model.Slot
	}
	return application.Reservation{
		ID:        model.ID,
		Date:      model.Date,
		People:    model.People,
		Reason:    model.Reason,
		Type:      booking.ReservationType(model.Type),
		Slot:      slot,
		Name:      model.Name,
		Email:     model.Email,
		Phone:     model.Phone,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceReservation(reservation application.Reservation) persistence.Reservation {
	var slot *string
	if reservation.Slot != "" {
		value := reservation.Slot
		slot = &value
	}
	return persistence.Reservation{
		ID:        reservation.ID,
		Date:      reservation.Date,
		People:    reservation.People,
		Reason:    reservation.Reason,
		Type:      string(reservation.Type),
		Slot:      slot,
		Name:      reservation.Name,
		Email:     reservation.Email,
		Phone:     reservation.Phone,
		CreatedAt: reservation.CreatedAt,
		UpdatedAt: reservation.UpdatedAt,
	}
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:          model.ID,
		Email:       model.Email,
		DisplayName: model.DisplayName,
		IsAdmin:     model.IsAdmin,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
