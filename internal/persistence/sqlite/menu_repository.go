package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/restaurant-api/internal/persistence"
)

// MenuItemRepository implements persistence.MenuItemRepository using SQLite.
// Ingredient associations live in a join table and are replaced wholesale on
// update, inside the same transaction as the item row.
type MenuItemRepository struct {
	pool *ConnectionPool
}

// NewMenuItemRepository creates a SQLite menu item repository.
func NewMenuItemRepository(pool *ConnectionPool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

// CreateMenuItem inserts a menu item with its ingredient associations.
func (r *MenuItemRepository) CreateMenuItem(ctx context.Context, item persistence.MenuItem) error {
	if item.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO menu_items (id, name, description, category, price_cents, available, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.Name,
			item.Description,
			item.Category,
			item.PriceCents,
			boolToInt(item.Available),
			item.CreatedAt.Format(time.RFC3339),
			item.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return mapError(err)
		}
		return r.insertIngredients(ctx, tx, item.ID, item.IngredientIDs)
	})
}

// UpdateMenuItem rewrites a menu item and replaces its ingredient set.
func (r *MenuItemRepository) UpdateMenuItem(ctx context.Context, item persistence.MenuItem) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE menu_items
			SET name = ?, description = ?, category = ?, price_cents = ?, available = ?, updated_at = ?
			WHERE id = ?`,
			item.Name,
			item.Description,
			item.Category,
			item.PriceCents,
			boolToInt(item.Available),
			item.UpdatedAt.Format(time.RFC3339),
			item.ID,
		)
		if err != nil {
			return mapError(err)
		}
		if err := requireAffected(result.RowsAffected()); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM menu_item_ingredients WHERE menu_item_id = ?`, item.ID); err != nil {
			return mapError(err)
		}
		return r.insertIngredients(ctx, tx, item.ID, item.IngredientIDs)
	})
}

// GetMenuItem retrieves a menu item by ID including its ingredient IDs.
func (r *MenuItemRepository) GetMenuItem(ctx context.Context, id string) (persistence.MenuItem, error) {
	row := r.pool.DB().QueryRowContext(ctx, `
		SELECT id, name, description, category, price_cents, available, created_at, updated_at
		FROM menu_items WHERE id = ?`, id)

	item, err := scanMenuItem(row.Scan)
	if err != nil {
		return persistence.MenuItem{}, mapError(err)
	}

	if item.IngredientIDs, err = r.ingredientIDs(ctx, id); err != nil {
		return persistence.MenuItem{}, err
	}
	return item, nil
}

// ListMenuItems returns menu items ordered by category then name.
func (r *MenuItemRepository) ListMenuItems(ctx context.Context) ([]persistence.MenuItem, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT id, name, description, category, price_cents, available, created_at, updated_at
		FROM menu_items ORDER BY category, name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	items := make([]persistence.MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows.Scan)
		if err != nil {
			return nil, mapError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range items {
		if items[i].IngredientIDs, err = r.ingredientIDs(ctx, items[i].ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// DeleteMenuItem removes a menu item; associations cascade.
func (r *MenuItemRepository) DeleteMenuItem(ctx context.Context, id string) error {
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result.RowsAffected())
}

func (r *MenuItemRepository) insertIngredients(ctx context.Context, tx *sql.Tx, itemID string, ingredientIDs []string) error {
	for _, ingredientID := range ingredientIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO menu_item_ingredients (menu_item_id, ingredient_id) VALUES (?, ?)`,
			itemID, ingredientID,
		); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *MenuItemRepository) ingredientIDs(ctx context.Context, itemID string) ([]string, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT ingredient_id FROM menu_item_ingredients WHERE menu_item_id = ? ORDER BY ingredient_id`, itemID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		ids = append(ids, id)
	}
	return ids, mapError(rows.Err())
}

func scanMenuItem(scan func(dest ...any) error) (persistence.MenuItem, error) {
	var (
		item      persistence.MenuItem
		available int
		createdAt string
		updatedAt string
	)

	if err := scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.PriceCents,
		&available,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.MenuItem{}, err
	}

	item.Available = available != 0

	var err error
	if item.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.MenuItem{}, fmt.Errorf("unparseable created_at %q: %w", createdAt, err)
	}
	if item.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.MenuItem{}, fmt.Errorf("unparseable updated_at %q: %w", updatedAt, err)
	}
	return item, nil
}
