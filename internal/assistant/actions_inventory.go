package assistant

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/store"
)

func (a *Actions) createInventoryItem(ctx context.Context, p Params) Outcome {
	name, found := p.String(itemNameKeys...)
	if !found {
		return fail("An item name is required.")
	}

	req := &model.CreateInventoryItemRequest{
		Name:     name,
		Category: p.StringOr("", "category"),
		Unit:     p.StringOr("", "unit"),
	}
	if quantity, found := p.Int("quantity", "stock", "amount", "count"); found {
		req.Quantity = quantity
	}
	if minStock, found := p.Int("min_stock", "minStock", "minimum_stock", "threshold"); found {
		req.MinStock = minStock
	}

	item, err := a.inventory.CreateItem(ctx, req)
	if err != nil {
		return outcomeFromErr(err, "Could not add the inventory item.")
	}

	a.recordChange(ctx, store.KindInventory, "inventory.created", item)
	return okData(item, "Added %s to inventory with %d %s in stock.", item.Name, item.Quantity, unitOr(item.Unit, "units"))
}

func (a *Actions) updateInventoryItem(ctx context.Context, p Params) Outcome {
	item, failure := a.resolveInventoryItem(ctx, p)
	if item == nil {
		return failure
	}

	req := &model.UpdateInventoryItemRequest{
		Name:     p.StringPtr("new_name", "newName"),
		Category: p.StringPtr("category"),
		Quantity: p.IntPtr("quantity", "stock", "amount", "count"),
		MinStock: p.IntPtr("min_stock", "minStock", "minimum_stock", "threshold"),
		Unit:     p.StringPtr("unit"),
	}

	updated, err := a.inventory.UpdateItem(ctx, item.ID, req)
	if err != nil {
		return outcomeFromErr(err, "Could not update the inventory item.")
	}

	a.recordChange(ctx, store.KindInventory, "inventory.updated", updated)
	msg := fmt.Sprintf("Updated %s: %d %s in stock", updated.Name, updated.Quantity, unitOr(updated.Unit, "units"))
	if updated.IsLowStock() {
		msg += " (low stock)"
	}
	return okData(updated, "%s.", msg)
}

func (a *Actions) deleteInventoryItem(ctx context.Context, p Params) Outcome {
	item, failure := a.resolveInventoryItem(ctx, p)
	if item == nil {
		return failure
	}

	if err := a.inventory.DeleteItem(ctx, item.ID); err != nil {
		return outcomeFromErr(err, "Could not remove the inventory item.")
	}

	a.recordChange(ctx, store.KindInventory, "inventory.deleted", item)
	return ok("Removed %s from inventory.", item.Name)
}

func inventoryLine(item *model.InventoryItem) string {
	line := fmt.Sprintf("%s: %d %s", item.Name, item.Quantity, unitOr(item.Unit, "units"))
	if item.IsLowStock() {
		line += " (low stock)"
	}
	return line
}

func (a *Actions) listInventory(ctx context.Context, p Params) Outcome {
	if err := a.store.Refresh(ctx, store.KindInventory); err != nil {
		a.logger.Error(err, "inventory list served from stale snapshot")
	}
	items := a.store.Inventory()
	if len(items) == 0 {
		return ok("The inventory is empty.")
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, inventoryLine(item))
	}
	header := fmt.Sprintf("You have %d inventory %s:", len(items), plural(len(items), "item", "items"))
	return okData(items, "%s", formatList(header, lines, maxListedInventory))
}

func (a *Actions) searchInventory(ctx context.Context, p Params) Outcome {
	query, found := p.String(append(queryKeys, itemNameKeys...)...)
	if !found {
		return fail("What should I search the inventory for?")
	}

	if err := a.store.Refresh(ctx, store.KindInventory); err != nil {
		a.logger.Error(err, "inventory search served from stale snapshot")
	}

	var matches []*model.InventoryItem
	for _, item := range a.store.Inventory() {
		if containsFold(item.Name, query) || containsFold(item.Category, query) {
			matches = append(matches, item)
		}
	}
	if len(matches) == 0 {
		return ok("No inventory items match %q.", query)
	}

	lines := make([]string, 0, len(matches))
	for _, item := range matches {
		lines = append(lines, inventoryLine(item))
	}
	header := fmt.Sprintf("%d inventory %s match %q:", len(matches), plural(len(matches), "item", "items"), query)
	return okData(matches, "%s", formatAll(header, lines))
}

func (a *Actions) getInventoryDetails(ctx context.Context, p Params) Outcome {
	item, failure := a.resolveInventoryItem(ctx, p)
	if item == nil {
		return failure
	}

	msg := fmt.Sprintf("%s has %d %s in stock, minimum %d", item.Name, item.Quantity, unitOr(item.Unit, "units"), item.MinStock)
	if item.Category != "" {
		msg += ", category " + item.Category
	}
	if item.IsLowStock() {
		msg += ". Stock is low"
	}
	return okData(item, "%s.", msg)
}

func (a *Actions) lowStock(ctx context.Context, p Params) Outcome {
	items, err := a.inventory.GetLowStock(ctx)
	if err != nil {
		return outcomeFromErr(err, "Could not check stock levels.")
	}
	if len(items) == 0 {
		return ok("All inventory items are sufficiently stocked.")
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s: %d %s (minimum %d)", item.Name, item.Quantity, unitOr(item.Unit, "units"), item.MinStock))
	}
	header := fmt.Sprintf("%d %s running low:", len(items), plural(len(items), "item is", "items are"))
	return okData(items, "%s", formatList(header, lines, maxListedInventory))
}

func unitOr(unit, def string) string {
	if unit != "" {
		return unit
	}
	return def
}
