package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/restaurant-api/internal/persistence"
	"github.com/example/restaurant-api/internal/testfixtures"
)

func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	pool, err := NewConnectionPool(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := Migrate(context.Background(), pool); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return pool
}

func testReservation(id string, people int, slot string) persistence.Reservation {
	opts := []testfixtures.ReservationOption{
		testfixtures.WithReservationID(id),
		testfixtures.WithReservationDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		testfixtures.WithReservationPeople(people),
		testfixtures.WithReservationSlot(slot),
	}
	if slot == "" {
		opts = append(opts, testfixtures.FullVenue())
	}
	return testfixtures.NewReservationFixture(opts...).Persistence()
}

func TestMigrate_Idempotent(t *testing.T) {
	pool := newTestPool(t)

	if err := Migrate(context.Background(), pool); err != nil {
		t.Fatalf("second migrate run should be a no-op: %v", err)
	}
}

func TestReservationRepository_RoundTrip(t *testing.T) {
	pool := newTestPool(t)
	repo := NewReservationRepository(pool, time.UTC, nil)
	ctx := context.Background()

	reservation := testReservation("res-1", 4, "12:00-13:00")
	if err := repo.CreateIfAvailable(ctx, reservation, nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.GetReservation(ctx, "res-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.People != 4 || got.Slot == nil || *got.Slot != "12:00-13:00" {
		t.Fatalf("unexpected record %+v", got)
	}

	listed, err := repo.ListReservations(ctx, persistence.ReservationFilter{DateKey: "2025-06-01"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "res-1" {
		t.Fatalf("unexpected listing %+v", listed)
	}
}

func TestReservationRepository_AppendThenLoadGrowsByOne(t *testing.T) {
	pool := newTestPool(t)
	repo := NewReservationRepository(pool, time.UTC, nil)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		before, err := repo.ListReservations(ctx, persistence.ReservationFilter{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}

		id := fmt.Sprintf("res-%d", i)
		if err := repo.CreateIfAvailable(ctx, testReservation(id, i, "12:00-13:00"), nil); err != nil {
			t.Fatalf("create %s failed: %v", id, err)
		}

		after, err := repo.ListReservations(ctx, persistence.ReservationFilter{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(after) != len(before)+1 {
			t.Fatalf("expected %d records after append, got %d", len(before)+1, len(after))
		}
		if after[len(after)-1].ID != id {
			t.Fatalf("expected %s as last record, got %s", id, after[len(after)-1].ID)
		}
	}
}

func TestReservationRepository_CreateIfAvailable_DecisionSeesSameDateOnly(t *testing.T) {
	pool := newTestPool(t)
	repo := NewReservationRepository(pool, time.UTC, nil)
	ctx := context.Background()

	if err := repo.CreateIfAvailable(ctx, testReservation("res-1", 20, "12:00-13:00"), nil); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	otherDay := testReservation("res-2", 20, "12:00-13:00")
	otherDay.Date = otherDay.Date.AddDate(0, 0, 1)
	if err := repo.CreateIfAvailable(ctx, otherDay, nil); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	var seen []string
	err := repo.CreateIfAvailable(ctx, testReservation("res-3", 2, "12:00-13:00"), func(existing []persistence.Reservation) error {
		for _, r := range existing {
			seen = append(seen, r.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("checked create failed: %v", err)
	}
	if len(seen) != 1 || seen[0] != "res-1" {
		t.Fatalf("decision should only see same-date records, saw %v", seen)
	}
}

func TestReservationRepository_CreateIfAvailable_RejectionAbortsInsert(t *testing.T) {
	pool := newTestPool(t)
	repo := NewReservationRepository(pool, time.UTC, nil)
	ctx := context.Background()

	rejection := errors.New("no capacity")
	err := repo.CreateIfAvailable(ctx, testReservation("res-1", 10, "12:00-13:00"), func([]persistence.Reservation) error {
		return rejection
	})
	if !errors.Is(err, rejection) {
		t.Fatalf("expected the decision error, got %v", err)
	}

	if _, err := repo.GetReservation(ctx, "res-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("rejected reservation must not be persisted, got %v", err)
	}
}

func TestReservationRepository_UpdateIfAvailable_ExcludesSelf(t *testing.T) {
	pool := newTestPool(t)
	repo := NewReservationRepository(pool, time.UTC, nil)
	ctx := context.Background()

	if err := repo.CreateIfAvailable(ctx, testReservation("res-1", 20, "12:00-13:00"), nil); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	updated := testReservation("res-1", 25, "12:00-13:00")
	err := repo.UpdateIfAvailable(ctx, updated, func(existing []persistence.Reservation) error {
		if len(existing) != 0 {
			return fmt.Errorf("edited record leaked into its own snapshot: %v", existing)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := repo.GetReservation(ctx, "res-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.People != 25 {
		t.Fatalf("expected updated party size 25, got %d", got.People)
	}
}

func TestReservationRepository_ConstraintViolations(t *testing.T) {
	pool := newTestPool(t)
	repo := NewReservationRepository(pool, time.UTC, nil)
	ctx := context.Background()

	invalid := testReservation("res-1", 0, "12:00-13:00")
	if err := repo.CreateIfAvailable(ctx, invalid, nil); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation for zero party size, got %v", err)
	}

	if err := repo.DeleteReservation(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected not found for missing delete, got %v", err)
	}
}

func TestIngredientRepository_CRUD(t *testing.T) {
	pool := newTestPool(t)
	repo := NewIngredientRepository(pool)
	ctx := context.Background()

	ingredient := testfixtures.NewIngredientFixture(
		testfixtures.WithIngredientID("ing-1"),
		testfixtures.WithIngredientName("Grilled chicken"),
		testfixtures.WithIngredientPrice(650),
	).Persistence()
	if err := repo.CreateIngredient(ctx, ingredient); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	duplicate := ingredient
	duplicate.ID = "ing-2"
	if err := repo.CreateIngredient(ctx, duplicate); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected duplicate for reused name, got %v", err)
	}

	ingredient.PriceCents = 700
	ingredient.Available = false
	if err := repo.UpdateIngredient(ctx, ingredient); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := repo.GetIngredient(ctx, "ing-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.PriceCents != 700 || got.Available {
		t.Fatalf("unexpected record %+v", got)
	}

	if err := repo.DeleteIngredient(ctx, "ing-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.GetIngredient(ctx, "ing-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestMenuItemRepository_IngredientAssociations(t *testing.T) {
	pool := newTestPool(t)
	ingredients := NewIngredientRepository(pool)
	items := NewMenuItemRepository(pool)
	ctx := context.Background()

	for i, name := range []string{"Tomato", "Mozzarella"} {
		fixture := testfixtures.NewIngredientFixture(
			testfixtures.WithIngredientID(fmt.Sprintf("ing-%d", i+1)),
			testfixtures.WithIngredientName(name),
			testfixtures.WithIngredientCategory("produce"),
			testfixtures.WithIngredientPrice(100),
		)
		if err := ingredients.CreateIngredient(ctx, fixture.Persistence()); err != nil {
			t.Fatalf("seed ingredient failed: %v", err)
		}
	}

	item := testfixtures.NewMenuItemFixture(
		testfixtures.WithMenuItemID("item-1"),
		testfixtures.WithMenuItemName("Margherita"),
		testfixtures.WithMenuItemIngredients("ing-1", "ing-2"),
	).Persistence()
	if err := items.CreateMenuItem(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := items.GetMenuItem(ctx, "item-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got.IngredientIDs) != 2 {
		t.Fatalf("expected 2 ingredient associations, got %v", got.IngredientIDs)
	}

	item.IngredientIDs = []string{"ing-2"}
	if err := items.UpdateMenuItem(ctx, item); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err = items.GetMenuItem(ctx, "item-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got.IngredientIDs) != 1 || got.IngredientIDs[0] != "ing-2" {
		t.Fatalf("expected replaced associations, got %v", got.IngredientIDs)
	}

	missing := item
	missing.ID = "item-2"
	missing.Name = "Quattro Formaggi"
	missing.IngredientIDs = []string{"ing-404"}
	if err := items.CreateMenuItem(ctx, missing); !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}
}

func TestUserAndSessionRepositories(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	sessions := NewSessionRepository(pool)
	ctx := context.Background()
	now := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

	user := testfixtures.NewUserFixture(
		testfixtures.WithUserID("user-1"),
		testfixtures.WithUserEmail("Admin@Example.com"),
		testfixtures.WithUserAdmin(true),
	).Persistence()
	if err := users.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	got, err := users.GetUserByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("email lookup should be case-insensitive: %v", err)
	}
	if got.ID != "user-1" {
		t.Fatalf("unexpected user %+v", got)
	}

	session := testfixtures.NewSessionFixture(
		testfixtures.WithSessionID("sess-1"),
		testfixtures.WithSessionUser("user-1"),
		testfixtures.WithSessionToken("token-1"),
		testfixtures.WithSessionExpiresAt(now.Add(time.Hour)),
	).Persistence()
	if _, err := sessions.CreateSession(ctx, session); err != nil {
		t.Fatalf("create session failed: %v", err)
	}

	revoked, err := sessions.RevokeSession(ctx, "token-1", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if revoked.RevokedAt == nil {
		t.Fatal("revoked session should carry a revocation timestamp")
	}

	if err := sessions.DeleteExpiredSessions(ctx, now.Add(2*time.Hour)); err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if _, err := sessions.GetSession(ctx, "token-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected pruned session to be gone, got %v", err)
	}

	if err := users.DeleteUser(ctx, "user-1"); err != nil {
		t.Fatalf("delete user failed: %v", err)
	}
}
