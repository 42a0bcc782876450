package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/pkg/errors"
)

type memRepo struct {
	items []*model.InventoryItem
}

func (r *memRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *memRepo) Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, fmt.Errorf("no rows in result set")
}

func (r *memRepo) Update(ctx context.Context, item *model.InventoryItem) error {
	for i, it := range r.items {
		if it.ID == item.ID {
			r.items[i] = item
			return nil
		}
	}
	return fmt.Errorf("no rows in result set")
}

func (r *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, it := range r.items {
		if it.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no rows in result set")
}

func (r *memRepo) List(ctx context.Context, limit, offset int) ([]*model.InventoryItem, error) {
	return r.items, nil
}

func (r *memRepo) GetLowStock(ctx context.Context) ([]*model.InventoryItem, error) {
	var out []*model.InventoryItem
	for _, item := range r.items {
		if item.Quantity <= item.MinStock {
			out = append(out, item)
		}
	}
	return out, nil
}

func TestCreateItemDefaultsMinStock(t *testing.T) {
	svc := NewService(&memRepo{})

	created, err := svc.CreateItem(context.Background(), &model.CreateInventoryItemRequest{
		Name:     "Syringes",
		Quantity: 100,
	})

	require.NoError(t, err)
	assert.Equal(t, model.DefaultMinStock, created.MinStock)
}

func TestCreateItemKeepsExplicitMinStock(t *testing.T) {
	svc := NewService(&memRepo{})

	created, err := svc.CreateItem(context.Background(), &model.CreateInventoryItemRequest{
		Name:     "Gloves",
		Quantity: 50,
		MinStock: 20,
	})

	require.NoError(t, err)
	assert.Equal(t, 20, created.MinStock)
}

func TestCreateItemValidation(t *testing.T) {
	svc := NewService(&memRepo{})

	_, err := svc.CreateItem(context.Background(), &model.CreateInventoryItemRequest{Quantity: 5})
	require.Error(t, err)

	_, err = svc.CreateItem(context.Background(), &model.CreateInventoryItemRequest{
		Name:     "Gloves",
		Quantity: -1,
	})
	require.Error(t, err)
}

func TestUpdateItemRejectsNegativeQuantity(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	created, err := svc.CreateItem(context.Background(), &model.CreateInventoryItemRequest{
		Name:     "Gloves",
		Quantity: 50,
		MinStock: 20,
	})
	require.NoError(t, err)

	negative := -5
	_, err = svc.UpdateItem(context.Background(), created.ID, &model.UpdateInventoryItemRequest{Quantity: &negative})

	require.Error(t, err)
	assert.Equal(t, 50, repo.items[0].Quantity)
}

func TestUpdateItemMergesSuppliedFields(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	created, err := svc.CreateItem(context.Background(), &model.CreateInventoryItemRequest{
		Name:     "Gloves",
		Category: "protective",
		Quantity: 50,
		MinStock: 20,
	})
	require.NoError(t, err)

	quantity := 15
	updated, err := svc.UpdateItem(context.Background(), created.ID, &model.UpdateInventoryItemRequest{Quantity: &quantity})

	require.NoError(t, err)
	assert.Equal(t, 15, updated.Quantity)
	assert.Equal(t, "Gloves", updated.Name)
	assert.Equal(t, "protective", updated.Category)
	assert.True(t, updated.IsLowStock())
}

func TestGetItemNotFound(t *testing.T) {
	svc := NewService(&memRepo{})

	_, err := svc.GetItem(context.Background(), uuid.New())

	assert.True(t, errors.IsNotFound(err))
}

func TestGetLowStockIncludesBoundary(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	for _, req := range []*model.CreateInventoryItemRequest{
		{Name: "Gloves", Quantity: 10, MinStock: 10},
		{Name: "Masks", Quantity: 11, MinStock: 10},
	} {
		_, err := svc.CreateItem(context.Background(), req)
		require.NoError(t, err)
	}

	low, err := svc.GetLowStock(context.Background())

	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Gloves", low[0].Name)
}
