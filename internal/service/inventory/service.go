package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/repository"
	"github.com/jwalitptl/clinic-assistant/pkg/errors"
)

type InventoryService interface {
	CreateItem(ctx context.Context, req *model.CreateInventoryItemRequest) (*model.InventoryItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req *model.UpdateInventoryItemRequest) (*model.InventoryItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, limit, offset int) ([]*model.InventoryItem, error)
	GetLowStock(ctx context.Context) ([]*model.InventoryItem, error)
}

type Service struct {
	repo repository.InventoryRepository
}

func NewService(repo repository.InventoryRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateItem(ctx context.Context, req *model.CreateInventoryItemRequest) (*model.InventoryItem, error) {
	if req.Name == "" {
		return nil, errors.Validation("item name is required")
	}
	if req.Quantity < 0 {
		return nil, errors.Validation("quantity cannot be negative")
	}

	item := &model.InventoryItem{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		MinStock: req.MinStock,
		Unit:     req.Unit,
	}
	if item.MinStock <= 0 {
		item.MinStock = model.DefaultMinStock
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return item, nil
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("inventory item", err)
	}
	return item, nil
}

// UpdateItem merges only the fields present in req; absent fields retain
// their prior values.
func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, req *model.UpdateInventoryItemRequest) (*model.InventoryItem, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("inventory item", err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, errors.Validation("quantity cannot be negative")
		}
		item.Quantity = *req.Quantity
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return nil, errors.Validation("minimum stock cannot be negative")
		}
		item.MinStock = *req.MinStock
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	item.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return errors.NotFound("inventory item", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return nil
}

func (s *Service) ListItems(ctx context.Context, limit, offset int) ([]*model.InventoryItem, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return items, nil
}

// GetLowStock delegates to the dedicated repository query rather than
// filtering the cache, since the database applies the threshold logic.
func (s *Service) GetLowStock(ctx context.Context) ([]*model.InventoryItem, error) {
	items, err := s.repo.GetLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get low stock items: %w", err)
	}
	return items, nil
}
