package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/restaurant-api/internal/application"
	"github.com/example/restaurant-api/internal/booking"
)

type stubBookingService struct {
	draft       application.Draft
	reservation application.Reservation
	startErr    error
	completeErr error

	details     application.DetailsInput
	abandonedID string
}

func (s *stubBookingService) Slots() []booking.Interval {
	return booking.DefaultIntervals()
}

func (s *stubBookingService) StartBooking(_ context.Context, input application.DetailsInput) (application.Draft, error) {
	s.details = input
	if s.startErr != nil {
		return application.Draft{}, s.startErr
	}
	return s.draft, nil
}

func (s *stubBookingService) CompleteBooking(_ context.Context, draftID string, _ application.ContactInput) (application.Reservation, error) {
	if s.completeErr != nil {
		return application.Reservation{}, s.completeErr
	}
	reservation := s.reservation
	reservation.ID = "res-" + draftID
	return reservation, nil
}

func (s *stubBookingService) AbandonBooking(_ context.Context, draftID string) {
	s.abandonedID = draftID
}

type stubReservationService struct {
	reservations []application.Reservation
	lastParams   application.ListReservationsParams
	updateInput  application.ReservationInput
	err          error
}

func (s *stubReservationService) ListReservations(_ context.Context, params application.ListReservationsParams) ([]application.Reservation, error) {
	s.lastParams = params
	return s.reservations, s.err
}

func (s *stubReservationService) GetReservation(_ context.Context, _ application.Principal, id string) (application.Reservation, error) {
	if s.err != nil {
		return application.Reservation{}, s.err
	}
	for _, reservation := range s.reservations {
		if reservation.ID == id {
			return reservation, nil
		}
	}
	return application.Reservation{}, application.ErrNotFound
}

func (s *stubReservationService) UpdateReservation(_ context.Context, _ application.Principal, id string, input application.ReservationInput) (application.Reservation, error) {
	if s.err != nil {
		return application.Reservation{}, s.err
	}
	s.updateInput = input
	return application.Reservation{ID: id, Date: input.Date, People: input.People, Type: input.Type}, nil
}

func (s *stubReservationService) DeleteReservation(_ context.Context, _ application.Principal, _ string) error {
	return s.err
}

type stubMenuService struct {
	items              []application.MenuItem
	ingredients        []application.Ingredient
	includeUnavailable bool
	err                error
}

func (s *stubMenuService) ListMenu(_ context.Context, includeUnavailable bool) ([]application.MenuItem, error) {
	s.includeUnavailable = includeUnavailable
	return s.items, s.err
}

func (s *stubMenuService) ListIngredients(_ context.Context, includeUnavailable bool) ([]application.Ingredient, error) {
	s.includeUnavailable = includeUnavailable
	return s.ingredients, s.err
}

func (s *stubMenuService) CreateIngredient(_ context.Context, _ application.Principal, input application.IngredientInput) (application.Ingredient, error) {
	if s.err != nil {
		return application.Ingredient{}, s.err
	}
	return application.Ingredient{ID: "i-new", Name: input.Name, Category: input.Category, PriceCents: input.PriceCents, Available: input.Available}, nil
}

func (s *stubMenuService) UpdateIngredient(_ context.Context, _ application.Principal, id string, input application.IngredientInput) (application.Ingredient, error) {
	if s.err != nil {
		return application.Ingredient{}, s.err
	}
	return application.Ingredient{ID: id, Name: input.Name, Category: input.Category}, nil
}

func (s *stubMenuService) DeleteIngredient(_ context.Context, _ application.Principal, _ string) error {
	return s.err
}

func (s *stubMenuService) CreateMenuItem(_ context.Context, _ application.Principal, input application.MenuItemInput) (application.MenuItem, error) {
	if s.err != nil {
		return application.MenuItem{}, s.err
	}
	return application.MenuItem{ID: "m-new", Name: input.Name, Category: input.Category}, nil
}

func (s *stubMenuService) UpdateMenuItem(_ context.Context, _ application.Principal, id string, input application.MenuItemInput) (application.MenuItem, error) {
	if s.err != nil {
		return application.MenuItem{}, s.err
	}
	return application.MenuItem{ID: id, Name: input.Name, Category: input.Category}, nil
}

func (s *stubMenuService) DeleteMenuItem(_ context.Context, _ application.Principal, _ string) error {
	return s.err
}

type stubOrderService struct {
	relay application.OrderRelay
	err   error
}

func (s *stubOrderService) BuildLunchOrder(_ context.Context, _ application.LunchOrderInput) (application.OrderRelay, error) {
	return s.relay, s.err
}

func (s *stubOrderService) BuildDeliveryOrder(_ context.Context, _ application.DeliveryOrderInput) (application.OrderRelay, error) {
	return s.relay, s.err
}

type stubAuthService struct {
	result       application.AuthenticateResult
	authErr      error
	revokeErr    error
	resetToken   string
	resetErr     error
	confirmErr   error
	revokedToken string
}

func (s *stubAuthService) Authenticate(_ context.Context, _ application.AuthenticateParams) (application.AuthenticateResult, error) {
	return s.result, s.authErr
}

func (s *stubAuthService) RevokeSession(_ context.Context, token string) error {
	s.revokedToken = token
	return s.revokeErr
}

func (s *stubAuthService) RequestPasswordReset(_ context.Context, _ string) (string, error) {
	return s.resetToken, s.resetErr
}

func (s *stubAuthService) ResetPassword(_ context.Context, _, _ string) error {
	return s.confirmErr
}

type stubSessionValidator struct {
	principal application.Principal
	err       error
}

func (s *stubSessionValidator) ValidateSession(_ context.Context, token string) (application.Principal, error) {
	if s.err != nil {
		return application.Principal{}, s.err
	}
	if token != "valid-token" {
		return application.Principal{}, application.ErrUnauthorized
	}
	return s.principal, nil
}

func testCookies() *SessionCookies {
	return NewSessionCookies([]byte("0123456789abcdef0123456789abcdef"), nil)
}

type routerStubs struct {
	booking      *stubBookingService
	reservations *stubReservationService
	menu         *stubMenuService
	orders       *stubOrderService
	auth         *stubAuthService
	validator    *stubSessionValidator
}

func newTestRouter(t *testing.T) (http.Handler, *routerStubs) {
	t.Helper()

	stubs := &routerStubs{
		booking: &stubBookingService{
			draft: application.Draft{
				ID:        "draft-1",
				ExpiresAt: time.Date(2025, 5, 20, 10, 30, 0, 0, time.UTC),
				Slots:     booking.DefaultIntervals(),
			},
			reservation: application.Reservation{
				Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				People: 4,
				Type:   booking.TypeSpecificTime,
				Slot:   "12:00-13:00",
			},
		},
		reservations: &stubReservationService{},
		menu:         &stubMenuService{},
		orders:       &stubOrderService{},
		auth:         &stubAuthService{},
		validator:    &stubSessionValidator{principal: application.Principal{UserID: "admin-1", IsAdmin: true}},
	}

	cookies := testCookies()
	router := NewRouter(RouterConfig{
		Auth:         NewAuthHandler(stubs.auth, cookies, nil),
		Booking:      NewBookingHandler(stubs.booking, time.UTC, nil),
		Reservations: NewReservationHandler(stubs.reservations, time.UTC, nil),
		Menu:         NewMenuHandler(stubs.menu, nil),
		Orders:       NewOrderHandler(stubs.orders, nil),
		AdminMiddleware: []func(http.Handler) http.Handler{
			RequireSession(stubs.validator, cookies, nil),
		},
	})
	return router, stubs
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestBookingEndpoints(t *testing.T) {
	t.Run("slots listing", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := doJSON(t, router, http.MethodGet, "/booking/slots", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp slotListResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Slots) != 27 {
			t.Fatalf("expected 27 slots, got %d", len(resp.Slots))
		}
		if resp.Slots[0].Value != "07:00-08:00" || resp.Slots[0].Label != "7:00 AM - 8:00 AM" {
			t.Fatalf("unexpected first slot: %+v", resp.Slots[0])
		}
	})

	t.Run("details step opens a draft", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body := `{"date":"2025-06-01","people":4,"reason":"birthday","type":"specific-time","time_slot":"12:00-13:00"}`
		rec := doJSON(t, router, http.MethodPost, "/booking/details", body, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp draftDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.DraftID != "draft-1" {
			t.Fatalf("unexpected draft id %q", resp.DraftID)
		}
	})

	t.Run("malformed date answers 400", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPost, "/booking/details", `{"date":"June 1st"}`, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("validation failure answers 422 with field errors", func(t *testing.T) {
		router, stubs := newTestRouter(t)
		stubs.booking.startErr = &application.ValidationError{FieldErrors: map[string]string{"people": "party size must be between 1 and 35"}}

		rec := doJSON(t, router, http.MethodPost, "/booking/details", `{"date":"2025-06-01"}`, nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}

		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Errors["people"] == "" {
			t.Fatalf("expected people field error, got %+v", resp)
		}
	})

	t.Run("contact step confirms the reservation", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body := `{"name":"Dana","email":"dana@example.com","phone":"+15550100"}`
		rec := doJSON(t, router, http.MethodPost, "/booking/draft-1/contact", body, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp reservationDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ID != "res-draft-1" || resp.Date != "2025-06-01" {
			t.Fatalf("unexpected reservation: %+v", resp)
		}
	})

	t.Run("capacity rejection answers 409 with the standard message", func(t *testing.T) {
		router, stubs := newTestRouter(t)
		stubs.booking.completeErr = application.ErrNoCapacity

		rec := doJSON(t, router, http.MethodPost, "/booking/draft-1/contact", `{"name":"Dana"}`, nil)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}

		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Message != booking.RejectionReason {
			t.Fatalf("unexpected rejection message: %q", resp.Message)
		}
	})

	t.Run("abandoning a draft answers 204", func(t *testing.T) {
		router, stubs := newTestRouter(t)

		rec := doJSON(t, router, http.MethodDelete, "/booking/draft-1", "", nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if stubs.booking.abandonedID != "draft-1" {
			t.Fatalf("expected draft-1 abandoned, got %q", stubs.booking.abandonedID)
		}
	})

	t.Run("wrong method answers 405", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPut, "/booking/details", "{}", nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestStartBookingParsesDateInVenueLocation(t *testing.T) {
	denver := time.FixedZone("UTC-7", -7*60*60)
	stub := &stubBookingService{draft: application.Draft{ID: "draft-9"}}
	handler := NewBookingHandler(stub, denver, nil)

	body := `{"date":"2025-06-01","people":2,"reason":"dinner","type":"specific-time","time_slot":"12:00-13:00"}`
	req := httptest.NewRequest(http.MethodPost, "/booking/details", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.StartBooking(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, denver)
	if !stub.details.Date.Equal(want) {
		t.Fatalf("expected date %v in the venue location, got %v", want, stub.details.Date)
	}
	// A west-of-UTC venue must still see the submitted calendar day.
	if key := booking.DateKey(stub.details.Date, denver); key != "2025-06-01" {
		t.Fatalf("unexpected date key %q", key)
	}
}

func TestMenuEndpoints(t *testing.T) {
	t.Run("public menu listing", func(t *testing.T) {
		router, stubs := newTestRouter(t)
		stubs.menu.items = []application.MenuItem{{ID: "m1", Name: "Grilled Salmon", Category: "main", Available: true}}

		rec := doJSON(t, router, http.MethodGet, "/menu", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stubs.menu.includeUnavailable {
			t.Fatal("expected public listing to exclude unavailable items")
		}
	})

	t.Run("admin listing includes unavailable items", func(t *testing.T) {
		router, stubs := newTestRouter(t)

		rec := doJSON(t, router, http.MethodGet, "/admin/menu", "", map[string]string{"Authorization": "Bearer valid-token"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !stubs.menu.includeUnavailable {
			t.Fatal("expected staff listing to include unavailable items")
		}
	})

	t.Run("admin routes reject missing tokens", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := doJSON(t, router, http.MethodGet, "/admin/menu", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("ingredient creation", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body := `{"name":"Chicken","category":"protein","price_cents":450,"available":true}`
		rec := doJSON(t, router, http.MethodPost, "/admin/ingredients", body, map[string]string{"Authorization": "Bearer valid-token"})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp ingredientDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ID != "i-new" || resp.Name != "Chicken" {
			t.Fatalf("unexpected ingredient: %+v", resp)
		}
	})

	t.Run("forbidden service error maps to 403", func(t *testing.T) {
		router, stubs := newTestRouter(t)
		stubs.menu.err = application.ErrUnauthorized

		rec := doJSON(t, router, http.MethodPost, "/admin/menu", `{"name":"Dish","category":"main"}`, map[string]string{"Authorization": "Bearer valid-token"})
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestReservationEndpoints(t *testing.T) {
	adminHeaders := map[string]string{"Authorization": "Bearer valid-token"}

	t.Run("listing forwards the date filter", func(t *testing.T) {
		router, stubs := newTestRouter(t)
		stubs.reservations.reservations = []application.Reservation{{
			ID:     "r1",
			Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			People: 4,
			Type:   booking.TypeSpecificTime,
			Slot:   "12:00-13:00",
		}}

		rec := doJSON(t, router, http.MethodGet, "/admin/reservations?date=2025-06-01", "", adminHeaders)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stubs.reservations.lastParams.DateKey != "2025-06-01" {
			t.Fatalf("expected date filter forwarded, got %+v", stubs.reservations.lastParams)
		}
		if !stubs.reservations.lastParams.Principal.IsAdmin {
			t.Fatal("expected the session principal forwarded to the service")
		}
	})

	t.Run("malformed date filter answers 400", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := doJSON(t, router, http.MethodGet, "/admin/reservations?date=tomorrow", "", adminHeaders)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("update decodes the payload", func(t *testing.T) {
		router, stubs := newTestRouter(t)

		body := `{"date":"2025-06-02","people":6,"reason":"moved","type":"specific-time","time_slot":"18:00-19:00","name":"Dana","email":"dana@example.com","phone":"+15550100"}`
		rec := doJSON(t, router, http.MethodPut, "/admin/reservations/r1", body, adminHeaders)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stubs.reservations.updateInput.People != 6 || stubs.reservations.updateInput.Slot != "18:00-19:00" {
			t.Fatalf("unexpected update input: %+v", stubs.reservations.updateInput)
		}
	})

	t.Run("missing reservation answers 404", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := doJSON(t, router, http.MethodGet, "/admin/reservations/missing", "", adminHeaders)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("delete answers 204", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := doJSON(t, router, http.MethodDelete, "/admin/reservations/r1", "", adminHeaders)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}

func TestOrderEndpoints(t *testing.T) {
	t.Run("lunch order returns the relay link", func(t *testing.T) {
		router, stubs := newTestRouter(t)
		stubs.orders.relay = application.OrderRelay{
			Message:    "New lunch order from Sam:",
			Link:       "https://wa.me/15550100?text=order",
			TotalCents: 1100,
		}

		rec := doJSON(t, router, http.MethodPost, "/orders/lunch", `{"name":"Sam","ingredient_ids":["i1"]}`, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp orderRelayDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.WhatsAppLink != "https://wa.me/15550100?text=order" || resp.TotalCents != 1100 {
			t.Fatalf("unexpected relay: %+v", resp)
		}
	})

	t.Run("delivery order validation failure answers 422", func(t *testing.T) {
		router, stubs := newTestRouter(t)
		stubs.orders.err = &application.ValidationError{FieldErrors: map[string]string{"address": "delivery address is required"}}

		rec := doJSON(t, router, http.MethodPost, "/orders/delivery", `{"name":"Sam"}`, nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("login surfaces token in body header and cookie", func(t *testing.T) {
		router, stubs := newTestRouter(t)
		stubs.auth.result = application.AuthenticateResult{
			User: application.User{ID: "admin-1", IsAdmin: true},
			Session: application.Session{
				Token:     "session-token",
				ExpiresAt: time.Date(2025, 5, 21, 10, 0, 0, 0, time.UTC),
			},
		}

		rec := doJSON(t, router, http.MethodPost, "/login", `{"email":"owner@example.com","password":"secret"}`, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		if rec.Header().Get("X-Session-Token") != "session-token" {
			t.Fatal("expected token in X-Session-Token header")
		}

		var resp loginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Token != "session-token" || !resp.Principal.IsAdmin {
			t.Fatalf("unexpected login response: %+v", resp)
		}

		var sessionCookie *http.Cookie
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == sessionCookieName {
				sessionCookie = cookie
			}
		}
		if sessionCookie == nil {
			t.Fatal("expected a session cookie")
		}
		if sessionCookie.Value == "session-token" {
			t.Fatal("expected the cookie value to be encoded, not the raw token")
		}
	})

	t.Run("invalid credentials answer 401", func(t *testing.T) {
		router, stubs := newTestRouter(t)
		stubs.auth.authErr = application.ErrInvalidCredentials

		rec := doJSON(t, router, http.MethodPost, "/login", `{"email":"owner@example.com","password":"wrong"}`, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("logout revokes the bearer token", func(t *testing.T) {
		router, stubs := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPost, "/logout", "", map[string]string{"Authorization": "Bearer session-token"})
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if stubs.auth.revokedToken != "session-token" {
			t.Fatalf("expected session-token revoked, got %q", stubs.auth.revokedToken)
		}
	})

	t.Run("logout without a token answers 401", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPost, "/logout", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("password reset answers 202 for unknown accounts", func(t *testing.T) {
		router, stubs := newTestRouter(t)
		stubs.auth.resetErr = application.ErrNotFound

		rec := doJSON(t, router, http.MethodPost, "/password-reset", `{"email":"nobody@example.com"}`, nil)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}
	})

	t.Run("reset confirmation with a bad token answers 401", func(t *testing.T) {
		router, stubs := newTestRouter(t)
		stubs.auth.confirmErr = application.ErrInvalidCredentials

		rec := doJSON(t, router, http.MethodPost, "/password-reset/confirm", `{"token":"garbage","password":"fresh password"}`, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
