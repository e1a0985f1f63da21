package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/domain"
	"github.com/jhoicas/Costos-api/internal/domain/cost"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

var (
	_ repository.CatalogRepository = (*Store)(nil)
	_ repository.OrderRepository   = (*Store)(nil)
	_ repository.OptionRepository  = (*Store)(nil)
)

// --- catálogo ---

func (s *Store) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return s.productEntity(row), nil
}

func (s *Store) ListVariations(_ context.Context, parentID string) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []*productRow
	for _, p := range s.products {
		if p.ParentID == parentID && p.Type == entity.ProductTypeVariation {
			rows = append(rows, p)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	out := make([]*entity.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.productEntity(r))
	}
	return out, nil
}

func (s *Store) ListVariableProductIDs(_ context.Context, limit, offset int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []*productRow
	for _, p := range s.products {
		if p.Type == entity.ProductTypeVariable {
			rows = append(rows, p)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return page(ids, offset, limit), nil
}

func (s *Store) UpdateProductMeta(_ context.Context, productID string, meta map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	s.setMeta(s.productMeta, productID, meta)
	return nil
}

func (s *Store) ListValuationProducts(_ context.Context, q repository.ValuationQuery) ([]*entity.Product, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []*productRow
	for _, p := range s.products {
		if p.Status != entity.ProductStatusPublish || !p.ManageStock || p.Type == entity.ProductTypeVariable {
			continue
		}
		if !titleMatches(p.Title, q.Search) {
			continue
		}
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Title != rows[j].Title {
			return rows[i].Title < rows[j].Title
		}
		return rows[i].ID < rows[j].ID
	})
	total := len(rows)
	rows = page(rows, q.Offset, q.Limit)
	out := make([]*entity.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.productEntity(r))
	}
	return out, total, nil
}

// --- pedidos ---

func (s *Store) GetOrder(_ context.Context, id string) (*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.orders[id]
	if !ok || row.Kind != kindOrder {
		return nil, nil
	}
	return &entity.Order{
		ID:        row.ID,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
		Items:     s.lineItems(row.ID),
		TotalCost: cost.Parse(s.orderMeta.get(row.ID, entity.MetaOrderTotalCost)),
	}, nil
}

func (s *Store) GetRefund(_ context.Context, id string) (*entity.Refund, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.orders[id]
	if !ok || row.Kind != kindRefund {
		return nil, nil
	}
	return s.refundEntity(row), nil
}

func (s *Store) refundEntity(row *orderRow) *entity.Refund {
	return &entity.Refund{
		ID:        row.ID,
		OrderID:   row.ParentID,
		CreatedAt: row.CreatedAt,
		Items:     s.lineItems(row.ID),
		TotalCost: cost.Parse(s.orderMeta.get(row.ID, entity.MetaOrderTotalCost)),
	}
}

func (s *Store) ListRefunds(_ context.Context, orderID string) ([]*entity.Refund, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []*orderRow
	for _, o := range s.orders {
		if o.Kind == kindRefund && o.ParentID == orderID {
			rows = append(rows, o)
		}
	}
	sortedOrders(rows)
	out := make([]*entity.Refund, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.refundEntity(r))
	}
	return out, nil
}

func (s *Store) ListOrderIDs(_ context.Context, q repository.OrderQuery) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []*orderRow
	for _, o := range s.orders {
		if o.Kind != kindOrder {
			continue
		}
		if q.MissingTotalCost && s.orderMeta.get(o.ID, entity.MetaOrderTotalCost) != "" {
			continue
		}
		rows = append(rows, o)
	}
	sortedOrders(rows)
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return page(ids, q.Offset, q.Limit), nil
}

func (s *Store) GetItemCost(_ context.Context, itemID string) (*entity.ItemCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.items[itemID]; !ok {
		return nil, nil
	}
	return &entity.ItemCost{
		UnitCost:      cost.Parse(s.itemMeta.get(itemID, entity.MetaItemCost)),
		LineTotalCost: cost.Parse(s.itemMeta.get(itemID, entity.MetaItemTotalCost)),
	}, nil
}

func (s *Store) UpdateItemMeta(_ context.Context, itemID string, meta map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[itemID]; !ok {
		return fmt.Errorf("línea %s: %w", itemID, domain.ErrNotFound)
	}
	s.setMeta(s.itemMeta, itemID, meta)
	return nil
}

func (s *Store) UpdateOrderMeta(_ context.Context, orderID string, meta map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[orderID]; !ok {
		return fmt.Errorf("pedido %s: %w", orderID, domain.ErrNotFound)
	}
	s.setMeta(s.orderMeta, orderID, meta)
	return nil
}

func (s *Store) SumRefundedItemCost(_ context.Context, itemID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := decimal.Zero
	for _, it := range s.items {
		if it.RefundedItemID != itemID {
			continue
		}
		if v := cost.Parse(s.itemMeta.get(it.ID, entity.MetaItemTotalCost)); v.Valid {
			sum = sum.Add(v.Decimal)
		}
	}
	return sum, nil
}

// --- opciones ---

func (s *Store) GetInt(_ context.Context, name string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.options[name]
	return v, ok, nil
}

func (s *Store) SetInt(_ context.Context, name string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[name] = value
	return nil
}

func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.options, name)
	return nil
}
