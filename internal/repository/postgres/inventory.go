package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/repository"
)

type inventoryRepository struct {
	db *sqlx.DB
}

func NewInventoryRepository(db *sqlx.DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, name, category, quantity, min_stock, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Name,
		item.Category,
		item.Quantity,
		item.MinStock,
		item.Unit,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (r *inventoryRepository) Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	query := `SELECT * FROM inventory_items WHERE id = $1`
	var item model.InventoryItem
	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return &item, nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $1, category = $2, quantity = $3, min_stock = $4, unit = $5, updated_at = $6
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, query,
		item.Name,
		item.Category,
		item.Quantity,
		item.MinStock,
		item.Unit,
		time.Now(),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return nil
}

func (r *inventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM inventory_items WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *inventoryRepository) List(ctx context.Context, limit, offset int) ([]*model.InventoryItem, error) {
	query := `SELECT * FROM inventory_items ORDER BY name LIMIT $1 OFFSET $2`
	var items []*model.InventoryItem
	err := r.db.SelectContext(ctx, &items, query, limit, offset)
	return items, err
}

func (r *inventoryRepository) GetLowStock(ctx context.Context) ([]*model.InventoryItem, error) {
	query := `SELECT * FROM inventory_items WHERE quantity <= min_stock ORDER BY quantity`
	var items []*model.InventoryItem
	err := r.db.SelectContext(ctx, &items, query)
	return items, err
}
