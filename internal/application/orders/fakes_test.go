package orders_test

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/erp-saas-api/internal/application/orders"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// memStore simula las tablas de productos, órdenes y movimientos.
// memTx serializa las transacciones y restaura el estado completo si fn falla.
type memStore struct {
	products  map[string]*entity.Product
	orders    map[string]*entity.Order
	movements []*entity.StockMovement

	// failCreateItemAt hace fallar la N-ésima llamada a CreateItem (1-based); 0 = nunca.
	failCreateItemAt int
	createItemCalls  int
}

var errInjected = errors.New("fallo de persistencia simulado")

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		orders:   make(map[string]*entity.Order),
	}
}

func (s *memStore) addProduct(id, companyID, sku string, price int64, stock int) *entity.Product {
	p := &entity.Product{
		ID:        id,
		CompanyID: companyID,
		SKU:       sku,
		Name:      "Producto " + sku,
		Price:     decimal.NewFromInt(price),
		Stock:     stock,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.products[id] = p
	return p
}

func (s *memStore) stock(id string) int {
	return s.products[id].Stock
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return &c
}

type snapshot struct {
	products  map[string]entity.Product
	orders    map[string]*entity.Order
	movements []*entity.StockMovement
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		products:  make(map[string]entity.Product, len(s.products)),
		orders:    make(map[string]*entity.Order, len(s.orders)),
		movements: slices.Clone(s.movements),
	}
	for id, p := range s.products {
		snap.products[id] = *p
	}
	for id, o := range s.orders {
		snap.orders[id] = cloneOrder(o)
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.products = make(map[string]*entity.Product, len(snap.products))
	for id, p := range snap.products {
		s.products[id] = &p
	}
	s.orders = snap.orders
	s.movements = snap.movements
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

type memTx struct {
	mu    sync.Mutex
	store *memStore
}

var _ orders.TxRunner = (*memTx)(nil)

func (t *memTx) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.store.snapshot()
	if err := fn(&memProductRepo{s: t.store}, &memOrderRepo{s: t.store}, &memMovementRepo{s: t.store}); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// ── ProductRepository ────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) find(companyID, id string) *entity.Product {
	p, ok := r.s.products[id]
	if !ok || p.CompanyID != companyID {
		return nil
	}
	return p
}

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	for _, existing := range r.s.products {
		if existing.CompanyID == p.CompanyID && existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	p := r.find(companyID, id)
	if p == nil {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *memProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	if r.find(p.CompanyID, p.ID) == nil {
		return domain.ErrNotFound
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *memProductRepo) AdjustStock(_ context.Context, companyID, id string, delta int) (int, error) {
	p := r.find(companyID, id)
	if p == nil {
		return 0, domain.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.Stock += delta
	return p.Stock, nil
}

func (r *memProductRepo) List(_ context.Context, companyID string, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID && (p.IsActive || f.IncludeInactive) {
			c := *p
			out = append(out, &c)
		}
	}
	return out, len(out), nil
}

func (r *memProductRepo) ListLowStock(_ context.Context, companyID string, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.IsActive && p.IsLowStock() {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memProductRepo) Deactivate(_ context.Context, companyID, id string) error {
	p := r.find(companyID, id)
	if p == nil {
		return domain.ErrNotFound
	}
	p.IsActive = false
	return nil
}

// ── OrderRepository ──────────────────────────────────────────────────────────

type memOrderRepo struct{ s *memStore }

var _ repository.OrderRepository = (*memOrderRepo)(nil)

func (r *memOrderRepo) Create(_ context.Context, o *entity.Order) error {
	c := cloneOrder(o)
	c.Items = nil
	r.s.orders[o.ID] = c
	return nil
}

func (r *memOrderRepo) CreateItem(_ context.Context, item *entity.OrderItem) error {
	r.s.createItemCalls++
	if r.s.failCreateItemAt > 0 && r.s.createItemCalls == r.s.failCreateItemAt {
		return errInjected
	}
	o, ok := r.s.orders[item.OrderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Items = append(o.Items, *item)
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, companyID, id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok || o.CompanyID != companyID {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *memOrderRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Order, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, o *entity.Order) error {
	stored, ok := r.s.orders[o.ID]
	if !ok || stored.CompanyID != o.CompanyID {
		return domain.ErrNotFound
	}
	stored.Status = o.Status
	stored.CancellationStatus = o.CancellationStatus
	stored.CancellationReason = o.CancellationReason
	stored.UpdatedAt = o.UpdatedAt
	return nil
}

func (r *memOrderRepo) List(_ context.Context, companyID string, f repository.OrderFilter) ([]*entity.Order, int, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.CompanyID != companyID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.CancellationStatus != "" && o.CancellationStatus != f.CancellationStatus {
			continue
		}
		if f.PaymentMethod != "" && o.PaymentMethod != f.PaymentMethod {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		var less bool
		if f.SortBy == "total" {
			less = out[i].Total.LessThan(out[j].Total)
		} else {
			less = out[i].CreatedAt.Before(out[j].CreatedAt) ||
				(out[i].CreatedAt.Equal(out[j].CreatedAt) && strings.Compare(out[i].ID, out[j].ID) < 0)
		}
		if f.Desc {
			return !less
		}
		return less
	})
	total := len(out)
	if f.Offset >= total {
		return []*entity.Order{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return out[f.Offset:end], total, nil
}

// ── StockMovementRepository ──────────────────────────────────────────────────

type memMovementRepo struct{ s *memStore }

var _ repository.StockMovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *memMovementRepo) ListByProduct(_ context.Context, companyID, productID string, _, _ int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.CompanyID == companyID && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── Notifier ─────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu     sync.Mutex
	events []orders.Event
}

func (n *recordingNotifier) Notify(_ context.Context, evt orders.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}
