package http

import (
	"net/http"
	"strings"
)

// RouterConfig wires the handlers and middleware chains for the public site
// and the back-office panel. AdminMiddleware is applied to everything under
// /admin in addition to the outer Middleware chain.
type RouterConfig struct {
	Auth            *AuthHandler
	Booking         *BookingHandler
	Reservations    *ReservationHandler
	Menu            *MenuHandler
	Orders          *OrderHandler
	AdminMiddleware []func(http.Handler) http.Handler
	Middleware      []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Menu != nil {
		mux.HandleFunc("/menu", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Menu.ListMenu(w, r)
		})
		mux.HandleFunc("/ingredients", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Menu.ListIngredients(w, r)
		})
	}

	if cfg.Booking != nil {
		mux.HandleFunc("/booking/slots", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Booking.Slots(w, r)
		})
		mux.HandleFunc("/booking/details", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Booking.StartBooking(w, r)
		})
		mux.HandleFunc("/booking/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/booking/")
			draftID, tail, hasTail := strings.Cut(rest, "/")
			if draftID == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithDraftID(r.Context(), draftID)
			r = r.WithContext(ctx)
			switch {
			case hasTail && tail == "contact":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Booking.CompleteBooking(w, r)
			case !hasTail:
				if r.Method != http.MethodDelete {
					methodNotAllowed(w, http.MethodDelete)
					return
				}
				cfg.Booking.AbandonBooking(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Orders != nil {
		mux.HandleFunc("/orders/lunch", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Orders.CreateLunchOrder(w, r)
		})
		mux.HandleFunc("/orders/delivery", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Orders.CreateDeliveryOrder(w, r)
		})
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Logout(w, r)
		})
		mux.HandleFunc("/password-reset", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.RequestPasswordReset(w, r)
		})
		mux.HandleFunc("/password-reset/confirm", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.ConfirmPasswordReset(w, r)
		})
	}

	if admin := newAdminMux(cfg); admin != nil {
		var handler http.Handler = admin
		for i := len(cfg.AdminMiddleware) - 1; i >= 0; i-- {
			if cfg.AdminMiddleware[i] != nil {
				handler = cfg.AdminMiddleware[i](handler)
			}
		}
		mux.Handle("/admin/", handler)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func newAdminMux(cfg RouterConfig) *http.ServeMux {
	if cfg.Reservations == nil && cfg.Menu == nil {
		return nil
	}

	admin := http.NewServeMux()

	if cfg.Reservations != nil {
		admin.HandleFunc("/admin/reservations", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Reservations.List(w, r)
		})
		admin.HandleFunc("/admin/reservations/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/admin/reservations/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithReservationID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodGet:
				cfg.Reservations.Get(w, r)
			case http.MethodPut:
				cfg.Reservations.Update(w, r)
			case http.MethodDelete:
				cfg.Reservations.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Menu != nil {
		admin.HandleFunc("/admin/ingredients", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Menu.ListIngredients(w, r)
			case http.MethodPost:
				cfg.Menu.CreateIngredient(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		admin.HandleFunc("/admin/ingredients/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/admin/ingredients/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithIngredientID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Menu.UpdateIngredient(w, r)
			case http.MethodDelete:
				cfg.Menu.DeleteIngredient(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
		admin.HandleFunc("/admin/menu", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Menu.ListMenu(w, r)
			case http.MethodPost:
				cfg.Menu.CreateMenuItem(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		admin.HandleFunc("/admin/menu/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/admin/menu/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithMenuItemID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Menu.UpdateMenuItem(w, r)
			case http.MethodDelete:
				cfg.Menu.DeleteMenuItem(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	return admin
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
