package testfixtures

import (
	"testing"
	"time"

	"github.com/example/restaurant-api/internal/booking"
)

func TestReservationFixtureConversions(t *testing.T) {
	fixture := NewReservationFixture(
		WithReservationID("res-a"),
		WithReservationPeople(6),
		WithReservationSlot("18:00-19:00"),
	)

	app := fixture.Application()
	if app.ID != "res-a" || app.People != 6 || app.Slot != "18:00-19:00" {
		t.Fatalf("unexpected application record %+v", app)
	}

	record := fixture.Persistence()
	if record.Slot == nil || *record.Slot != "18:00-19:00" {
		t.Fatalf("expected slot pointer, got %+v", record.Slot)
	}
	if record.Type != string(booking.TypeSpecificTime) {
		t.Fatalf("unexpected type %q", record.Type)
	}
}

func TestFullVenueFixtureOmitsSlot(t *testing.T) {
	fixture := NewReservationFixture(FullVenue())

	if fixture.Type != booking.TypeFullVenue || fixture.Slot != "" {
		t.Fatalf("unexpected fixture %+v", fixture)
	}
	if record := fixture.Persistence(); record.Slot != nil {
		t.Fatalf("full-venue record must not carry a slot, got %q", *record.Slot)
	}
}

func TestUserFixtureCredentials(t *testing.T) {
	fixture := NewUserFixture(
		WithUserEmail("owner@example.com"),
		WithUserAdmin(true),
		WithUserDisabled(true),
	)

	creds := fixture.Credentials()
	if creds.User.Email != "owner@example.com" || !creds.User.IsAdmin {
		t.Fatalf("unexpected credentials %+v", creds)
	}
	if !creds.Disabled {
		t.Fatal("disabled flag should carry through")
	}
	if principal := fixture.Principal(); principal.UserID != fixture.ID || !principal.IsAdmin {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestSessionFixtureDefaults(t *testing.T) {
	fixture := NewSessionFixture(WithSessionUser("user-a"))

	if fixture.UserID != "user-a" {
		t.Fatalf("unexpected user binding %q", fixture.UserID)
	}
	if got := fixture.ExpiresAt.Sub(fixture.CreatedAt); got != 24*time.Hour {
		t.Fatalf("expected 24h lifetime, got %v", got)
	}
	if fixture.RevokedAt != nil {
		t.Fatal("fresh session should not be revoked")
	}
}

func TestFixtureIdentifiersAreUnique(t *testing.T) {
	first := NewIngredientFixture()
	second := NewIngredientFixture()
	if first.ID == second.ID {
		t.Fatalf("expected distinct IDs, got %q twice", first.ID)
	}

	item := NewMenuItemFixture(WithMenuItemIngredients(first.ID, second.ID))
	if len(item.Persistence().IngredientIDs) != 2 {
		t.Fatalf("unexpected associations %+v", item.IngredientIDs)
	}
}
