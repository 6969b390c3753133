package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/task-calendar/internal/model"
)

// CreateCategory inserts a new category. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *model.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("category name must not be empty")
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	category.CreatedAt = time.Now().UTC()

	if category.SortOrder == 0 {
		var maxOrder int
		err := s.db.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM categories")
		if err != nil {
			return fmt.Errorf("getting max category sort_order: %w", err)
		}
		category.SortOrder = maxOrder + 1
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO categories (id, name, icon, color, sort_order, created_at)
		VALUES (:id, :name, :icon, :color, :sort_order, :created_at)`,
		category,
	)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}
	return nil
}

// UpdateCategory updates an existing category's fields by ID.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, category model.Category) error {
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("category name must not be empty")
	}

	result, err := s.db.NamedExecContext(ctx, `
		UPDATE categories SET
			name = :name, icon = :icon, color = :color, sort_order = :sort_order
		WHERE id = :id`,
		category,
	)
	if err != nil {
		return fmt.Errorf("updating category %s: %w", category.ID, err)
	}
	return checkAffected(result, "category", category.ID)
}

// DeleteCategory removes a category by ID. Its tasks become uncategorized.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting category %s: %w", id, err)
	}
	if err := checkAffected(result, "category", id); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE tasks SET category = '', updated_at = ? WHERE category = ?",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("clearing category %s from tasks: %w", id, err)
	}

	return tx.Commit()
}

// GetCategories returns all categories ordered by sort_order.
func (s *SQLiteStore) GetCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.SelectContext(ctx, &categories,
		"SELECT id, name, icon, color, sort_order, created_at FROM categories ORDER BY sort_order, name")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	return categories, nil
}

// ReorderCategories assigns sort_order 1..n to categoryIDs, in order.
func (s *SQLiteStore) ReorderCategories(ctx context.Context, categoryIDs []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, id := range categoryIDs {
		_, err := tx.ExecContext(ctx,
			"UPDATE categories SET sort_order = ? WHERE id = ?", i+1, id)
		if err != nil {
			return fmt.Errorf("reordering category %s: %w", id, err)
		}
	}

	return tx.Commit()
}
