// Package http provides the HTTP handlers and middleware for the restaurant
// API.
//
// Public endpoints:
//   - GET /menu: published menu, limited to available items.
//   - GET /ingredients: build-your-own-lunch ingredient catalog, limited to
//     available entries.
//   - GET /booking/slots: the bookable time intervals.
//   - POST /booking/details: first booking step. Validates the event details
//     and opens a draft; responds with {"draft_id","expires_at","slots"}.
//   - POST /booking/{draft_id}/contact: second booking step. Validates the
//     contact details and confirms the reservation if capacity remains. A
//     capacity rejection answers 409 and keeps the draft alive.
//   - DELETE /booking/{draft_id}: abandons a pending draft.
//   - POST /orders/lunch, POST /orders/delivery: relay an order as a
//     prefilled WhatsApp link; nothing is persisted.
//   - POST /login: issues a session token, surfaced in the body, the
//     X-Session-Token header, and a signed cookie.
//   - POST /logout: revokes the current session token.
//   - POST /password-reset, POST /password-reset/confirm: the staff
//     password reset flow. Token delivery runs out of band.
//
// Back-office endpoints live under /admin and are mounted behind the session
// middleware:
//   - GET /admin/reservations, GET/PUT/DELETE /admin/reservations/{id}
//   - GET/POST /admin/ingredients, PUT/DELETE /admin/ingredients/{id}
//   - GET/POST /admin/menu, PUT/DELETE /admin/menu/{id}
//
// Request and response DTOs live alongside their handlers so tests and
// documentation share the same ground truth.
package http
