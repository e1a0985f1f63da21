// Package memory implementa los repositorios del motor de costos en memoria.
// Se usa en modo desarrollo (STORE_DRIVER=memory) y como colaborador en las pruebas.
// Los costos se guardan como metadatos de texto, igual que en Postgres.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/Costos-api/internal/domain/cost"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
)

const (
	kindOrder  = "order"
	kindRefund = "refund"
)

type productRow struct {
	ID            string
	ParentID      string
	Type          string
	Title         string
	Status        string
	ManageStock   bool
	StockQuantity decimal.Decimal
	Price         decimal.Decimal
	CreatedAt     time.Time
	seq           int64
}

type orderRow struct {
	ID        string
	Kind      string
	ParentID  string // reembolsos: pedido original
	Status    string
	CreatedAt time.Time
	seq       int64
}

type itemRow struct {
	ID             string
	OrderID        string
	ProductID      string
	VariationID    string
	Quantity       int
	LineTotal      decimal.Decimal
	RefundedItemID string
	seq            int64
}

type metaTable map[string]map[string]string

func (t metaTable) set(id string, meta map[string]string) {
	m, ok := t[id]
	if !ok {
		m = make(map[string]string, len(meta))
		t[id] = m
	}
	for k, v := range meta {
		m[k] = v
	}
}

func (t metaTable) get(id, key string) string {
	return t[id][key]
}

// metaUndo valor previo de una fila de metadatos modificada dentro de una transacción.
type metaUndo struct {
	table   metaTable
	id      string
	prev    map[string]string
	existed bool
}

// setMeta escribe metadatos y, con una transacción abierta, anota el valor previo
// de la fila. Requiere s.mu.
func (s *Store) setMeta(t metaTable, id string, meta map[string]string) {
	if s.journal != nil {
		prev, ok := t[id]
		cp := make(map[string]string, len(prev))
		for k, v := range prev {
			cp[k] = v
		}
		*s.journal = append(*s.journal, metaUndo{table: t, id: id, prev: cp, existed: ok})
	}
	t.set(id, meta)
}

// rollback restaura en orden inverso las filas anotadas. Requiere s.mu.
func (s *Store) rollback(journal []metaUndo) {
	for i := len(journal) - 1; i >= 0; i-- {
		u := journal[i]
		if u.existed {
			u.table[u.id] = u.prev
		} else {
			delete(u.table, u.id)
		}
	}
}

// Store almacén en memoria de catálogo, pedidos, metadatos y opciones.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	seq         int64
	products    map[string]*productRow
	orders      map[string]*orderRow
	items       map[string]*itemRow
	productMeta metaTable
	orderMeta   metaTable
	itemMeta    metaTable
	options     map[string]int

	// journal no nil mientras hay una transacción abierta
	journal *[]metaUndo
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:    make(map[string]*productRow),
		orders:      make(map[string]*orderRow),
		items:       make(map[string]*itemRow),
		productMeta: make(metaTable),
		orderMeta:   make(metaTable),
		itemMeta:    make(metaTable),
		options:     make(map[string]int),
	}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// AddProduct registra un producto. Los costos definidos en p se guardan como metadatos.
// Si p.ID está vacío se genera uno.
func (s *Store) AddProduct(p *entity.Product) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	s.products[p.ID] = &productRow{
		ID:            p.ID,
		ParentID:      p.ParentID,
		Type:          p.Type,
		Title:         p.Title,
		Status:        p.Status,
		ManageStock:   p.ManageStock,
		StockQuantity: p.StockQuantity,
		Price:         p.Price,
		CreatedAt:     created,
		seq:           s.nextSeq(),
	}
	meta := map[string]string{}
	putNull(meta, entity.MetaProductCost, p.Cost)
	putNull(meta, entity.MetaProductDefaultCost, p.DefaultCost)
	putNull(meta, entity.MetaProductMinVariantCost, p.MinVariantCost)
	putNull(meta, entity.MetaProductMaxVariantCost, p.MaxVariantCost)
	if p.IsVariation() && p.UsesDefaultCost {
		meta[entity.MetaProductUsesDefault] = entity.MetaYes
	}
	s.productMeta.set(p.ID, meta)
	return p.ID
}

// AddOrder registra un pedido con sus líneas. Genera los IDs que falten.
func (s *Store) AddOrder(o *entity.Order) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	s.addOrderRow(o.ID, kindOrder, "", o.Status, o.CreatedAt)
	s.addItems(o.ID, o.Items)
	if o.TotalCost.Valid {
		s.orderMeta.set(o.ID, map[string]string{entity.MetaOrderTotalCost: o.TotalCost.Decimal.String()})
	}
	return o.ID
}

// AddRefund registra un reembolso de r.OrderID con sus líneas (cantidades y totales negativos).
func (s *Store) AddRefund(r *entity.Refund) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	s.addOrderRow(r.ID, kindRefund, r.OrderID, "completed", r.CreatedAt)
	s.addItems(r.ID, r.Items)
	return r.ID
}

// addOrderRow sin fecha de creación el orden lo da la inserción.
func (s *Store) addOrderRow(id, kind, parentID, status string, created time.Time) {
	s.orders[id] = &orderRow{ID: id, Kind: kind, ParentID: parentID, Status: status, CreatedAt: created, seq: s.nextSeq()}
}

func (s *Store) addItems(orderID string, items []*entity.LineItem) {
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.OrderID = orderID
		s.items[it.ID] = &itemRow{
			ID:             it.ID,
			OrderID:        orderID,
			ProductID:      it.ProductID,
			VariationID:    it.VariationID,
			Quantity:       it.Quantity,
			LineTotal:      it.LineTotal,
			RefundedItemID: it.RefundedItemID,
			seq:            s.nextSeq(),
		}
		meta := map[string]string{}
		putNull(meta, entity.MetaItemCost, it.UnitCost)
		putNull(meta, entity.MetaItemTotalCost, it.LineTotalCost)
		if len(meta) > 0 {
			s.itemMeta.set(it.ID, meta)
		}
	}
}

// ProductMeta valor crudo de un metadato de producto ("" si no existe).
func (s *Store) ProductMeta(id, key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productMeta.get(id, key)
}

// OrderMeta valor crudo de un metadato de pedido o reembolso.
func (s *Store) OrderMeta(id, key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderMeta.get(id, key)
}

// ItemMeta valor crudo de un metadato de línea.
func (s *Store) ItemMeta(id, key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemMeta.get(id, key)
}

// Option valor de una opción entera.
func (s *Store) Option(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.options[name]
	return v, ok
}

func putNull(meta map[string]string, key string, v decimal.NullDecimal) {
	if v.Valid {
		meta[key] = v.Decimal.String()
	}
}

// productEntity arma la entidad a partir de la fila y sus metadatos. Requiere s.mu.
func (s *Store) productEntity(row *productRow) *entity.Product {
	meta := s.productMeta[row.ID]
	return &entity.Product{
		ID:              row.ID,
		ParentID:        row.ParentID,
		Type:            row.Type,
		Title:           row.Title,
		Status:          row.Status,
		ManageStock:     row.ManageStock,
		StockQuantity:   row.StockQuantity,
		Price:           row.Price,
		Cost:            cost.Parse(meta[entity.MetaProductCost]),
		DefaultCost:     cost.Parse(meta[entity.MetaProductDefaultCost]),
		MinVariantCost:  cost.Parse(meta[entity.MetaProductMinVariantCost]),
		MaxVariantCost:  cost.Parse(meta[entity.MetaProductMaxVariantCost]),
		UsesDefaultCost: meta[entity.MetaProductUsesDefault] == entity.MetaYes,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.CreatedAt,
	}
}

// lineItems líneas de un pedido en orden de inserción. Requiere s.mu.
func (s *Store) lineItems(orderID string) []*entity.LineItem {
	var rows []*itemRow
	for _, it := range s.items {
		if it.OrderID == orderID {
			rows = append(rows, it)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]*entity.LineItem, 0, len(rows))
	for _, r := range rows {
		meta := s.itemMeta[r.ID]
		out = append(out, &entity.LineItem{
			ID:             r.ID,
			OrderID:        r.OrderID,
			ProductID:      r.ProductID,
			VariationID:    r.VariationID,
			Quantity:       r.Quantity,
			LineTotal:      r.LineTotal,
			RefundedItemID: r.RefundedItemID,
			UnitCost:       cost.Parse(meta[entity.MetaItemCost]),
			LineTotalCost:  cost.Parse(meta[entity.MetaItemTotalCost]),
		})
	}
	return out
}

func sortedOrders(rows []*orderRow) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].seq < rows[j].seq
	})
}

func page[T any](list []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func titleMatches(title, search string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	// un Caser no se comparte entre goroutines
	fold := cases.Fold()
	return strings.Contains(fold.String(title), fold.String(search))
}
