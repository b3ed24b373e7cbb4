package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/restaurant-api/internal/persistence"
)

// IngredientRepository implements persistence.IngredientRepository using SQLite.
type IngredientRepository struct {
	pool *ConnectionPool
}

// NewIngredientRepository creates a SQLite ingredient repository.
func NewIngredientRepository(pool *ConnectionPool) *IngredientRepository {
	return &IngredientRepository{pool: pool}
}

// CreateIngredient inserts a new catalog entry.
func (r *IngredientRepository) CreateIngredient(ctx context.Context, ingredient persistence.Ingredient) error {
	if ingredient.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.DB().ExecContext(ctx, `
		INSERT INTO ingredients (id, name, category, price_cents, available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ingredient.ID,
		ingredient.Name,
		ingredient.Category,
		ingredient.PriceCents,
		boolToInt(ingredient.Available),
		ingredient.CreatedAt.Format(time.RFC3339),
		ingredient.UpdatedAt.Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateIngredient rewrites an existing catalog entry.
func (r *IngredientRepository) UpdateIngredient(ctx context.Context, ingredient persistence.Ingredient) error {
	result, err := r.pool.DB().ExecContext(ctx, `
		UPDATE ingredients
		SET name = ?, category = ?, price_cents = ?, available = ?, updated_at = ?
		WHERE id = ?`,
		ingredient.Name,
		ingredient.Category,
		ingredient.PriceCents,
		boolToInt(ingredient.Available),
		ingredient.UpdatedAt.Format(time.RFC3339),
		ingredient.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result.RowsAffected())
}

// GetIngredient retrieves one catalog entry by ID.
func (r *IngredientRepository) GetIngredient(ctx context.Context, id string) (persistence.Ingredient, error) {
	row := r.pool.DB().QueryRowContext(ctx, `
		SELECT id, name, category, price_cents, available, created_at, updated_at
		FROM ingredients WHERE id = ?`, id)

	ingredient, err := scanIngredient(row.Scan)
	if err != nil {
		return persistence.Ingredient{}, mapError(err)
	}
	return ingredient, nil
}

// ListIngredients returns the catalog ordered by category then name.
func (r *IngredientRepository) ListIngredients(ctx context.Context) ([]persistence.Ingredient, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT id, name, category, price_cents, available, created_at, updated_at
		FROM ingredients ORDER BY category, name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	ingredients := make([]persistence.Ingredient, 0)
	for rows.Next() {
		ingredient, err := scanIngredient(rows.Scan)
		if err != nil {
			return nil, mapError(err)
		}
		ingredients = append(ingredients, ingredient)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return ingredients, nil
}

// DeleteIngredient removes a catalog entry by ID.
func (r *IngredientRepository) DeleteIngredient(ctx context.Context, id string) error {
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result.RowsAffected())
}

func scanIngredient(scan func(dest ...any) error) (persistence.Ingredient, error) {
	var (
		ingredient persistence.Ingredient
		available  int
		createdAt  string
		updatedAt  string
	)

	if err := scan(
		&ingredient.ID,
		&ingredient.Name,
		&ingredient.Category,
		&ingredient.PriceCents,
		&available,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Ingredient{}, err
	}

	ingredient.Available = available != 0

	var err error
	if ingredient.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Ingredient{}, fmt.Errorf("unparseable created_at %q: %w", createdAt, err)
	}
	if ingredient.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Ingredient{}, fmt.Errorf("unparseable updated_at %q: %w", updatedAt, err)
	}
	return ingredient, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireAffected(affected int64, err error) error {
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
