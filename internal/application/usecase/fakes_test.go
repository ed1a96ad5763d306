package usecase_test

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/erp-saas-api/internal/application/usecase"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

var errInjected = errors.New("fallo de persistencia simulado")

// memDB simula productos, categorías, movimientos, empresas y usuarios.
// memDB.mu serializa las transacciones; si fn falla se restaura el estado previo.
type memDB struct {
	mu         sync.Mutex
	products   map[string]entity.Product
	categories map[string]entity.Category
	movements  []entity.StockMovement
	companies  map[string]entity.Company
	users      map[string]entity.User

	failMovementCreate bool
}

func newMemDB() *memDB {
	return &memDB{
		products:   make(map[string]entity.Product),
		categories: make(map[string]entity.Category),
		companies:  make(map[string]entity.Company),
		users:      make(map[string]entity.User),
	}
}

type dbState struct {
	products   map[string]entity.Product
	categories map[string]entity.Category
	movements  []entity.StockMovement
	companies  map[string]entity.Company
	users      map[string]entity.User
}

func (db *memDB) save() dbState {
	return dbState{
		products:   maps.Clone(db.products),
		categories: maps.Clone(db.categories),
		movements:  slices.Clone(db.movements),
		companies:  maps.Clone(db.companies),
		users:      maps.Clone(db.users),
	}
}

func (db *memDB) load(s dbState) {
	db.products, db.categories, db.movements = s.products, s.categories, s.movements
	db.companies, db.users = s.companies, s.users
}

var (
	_ usecase.CatalogTxRunner = (*memDB)(nil)
	_ usecase.TenantTxRunner  = (*memDB)(nil)
)

func (db *memDB) RunCatalog(ctx context.Context, fn func(repository.ProductRepository, repository.StockMovementRepository) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	snap := db.save()
	if err := fn(memProducts{db}, memMovements{db}); err != nil {
		db.load(snap)
		return err
	}
	return nil
}

func (db *memDB) RunTenant(ctx context.Context, fn func(repository.CompanyRepository, repository.UserRepository) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	snap := db.save()
	if err := fn(memCompanies{db}, memUsers{db}); err != nil {
		db.load(snap)
		return err
	}
	return nil
}

// ── Productos ────────────────────────────────────────────────────────────────

type memProducts struct{ db *memDB }

var _ repository.ProductRepository = memProducts{}

func (r memProducts) Create(_ context.Context, p *entity.Product) error {
	for _, existing := range r.db.products {
		if existing.CompanyID == p.CompanyID && existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	c := *p
	c.Stock = 0
	r.db.products[p.ID] = c
	return nil
}

func (r memProducts) get(companyID, id string) (*entity.Product, error) {
	p, ok := r.db.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return &p, nil
}

func (r memProducts) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	return r.get(companyID, id)
}

func (r memProducts) GetForUpdate(_ context.Context, companyID, id string) (*entity.Product, error) {
	return r.get(companyID, id)
}

func (r memProducts) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range r.db.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r memProducts) Update(_ context.Context, p *entity.Product) error {
	cur, ok := r.db.products[p.ID]
	if !ok || cur.CompanyID != p.CompanyID {
		return domain.ErrNotFound
	}
	c := *p
	c.Stock = cur.Stock // el stock solo cambia por AdjustStock
	r.db.products[p.ID] = c
	return nil
}

func (r memProducts) AdjustStock(_ context.Context, companyID, id string, delta int) (int, error) {
	p, ok := r.db.products[id]
	if !ok || p.CompanyID != companyID {
		return 0, domain.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.Stock += delta
	r.db.products[id] = p
	return p.Stock, nil
}

func (r memProducts) List(_ context.Context, companyID string, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var all []*entity.Product
	for _, p := range r.db.products {
		if p.CompanyID != companyID || (!f.IncludeInactive && !p.IsActive) {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.SKU), strings.ToLower(f.Search)) {
			continue
		}
		c := p
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := min(f.Offset+f.Limit, total)
	return all[f.Offset:end], total, nil
}

func (r memProducts) ListLowStock(_ context.Context, companyID string, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.db.products {
		if p.CompanyID == companyID && p.IsActive && p.Stock <= p.MinStock {
			c := p
			out = append(out, &c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memProducts) Deactivate(_ context.Context, companyID, id string) error {
	p, ok := r.db.products[id]
	if !ok || p.CompanyID != companyID || !p.IsActive {
		return domain.ErrNotFound
	}
	p.IsActive = false
	r.db.products[id] = p
	return nil
}

// ── Movimientos ──────────────────────────────────────────────────────────────

type memMovements struct{ db *memDB }

func (r memMovements) Create(_ context.Context, m *entity.StockMovement) error {
	if r.db.failMovementCreate {
		return errInjected
	}
	r.db.movements = append(r.db.movements, *m)
	return nil
}

func (r memMovements) ListByProduct(_ context.Context, companyID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.db.movements) - 1; i >= 0; i-- {
		m := r.db.movements[i]
		if m.CompanyID == companyID && m.ProductID == productID {
			out = append(out, &m)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:min(offset+limit, len(out))], nil
}

// ── Categorías ───────────────────────────────────────────────────────────────

type memCategories struct{ db *memDB }

func (r memCategories) Create(_ context.Context, c *entity.Category) error {
	for _, existing := range r.db.categories {
		if existing.CompanyID == c.CompanyID && existing.IsActive && strings.EqualFold(existing.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	r.db.categories[c.ID] = *c
	return nil
}

func (r memCategories) GetByID(_ context.Context, companyID, id string) (*entity.Category, error) {
	c, ok := r.db.categories[id]
	if !ok || c.CompanyID != companyID || !c.IsActive {
		return nil, nil
	}
	return &c, nil
}

func (r memCategories) ListByCompany(_ context.Context, companyID string) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.db.categories {
		if c.CompanyID == companyID && c.IsActive {
			cp := c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memCategories) Deactivate(_ context.Context, companyID, id string) error {
	c, ok := r.db.categories[id]
	if !ok || c.CompanyID != companyID || !c.IsActive {
		return domain.ErrNotFound
	}
	c.IsActive = false
	r.db.categories[id] = c
	for pid, p := range r.db.products {
		if p.CompanyID == companyID && p.CategoryID == id {
			p.CategoryID, p.CategoryName = "", ""
			r.db.products[pid] = p
		}
	}
	return nil
}

// ── Empresas y usuarios ──────────────────────────────────────────────────────

type memCompanies struct{ db *memDB }

func (r memCompanies) Create(_ context.Context, c *entity.Company) error {
	for _, existing := range r.db.companies {
		if existing.LegalID == c.LegalID {
			return domain.ErrDuplicate
		}
	}
	r.db.companies[c.ID] = *c
	return nil
}

func (r memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	c, ok := r.db.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memCompanies) GetByLegalID(_ context.Context, legalID string) (*entity.Company, error) {
	for _, c := range r.db.companies {
		if c.LegalID == legalID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r memCompanies) List(_ context.Context, limit, offset int) ([]*entity.Company, int, error) {
	var all []*entity.Company
	for _, c := range r.db.companies {
		cp := c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return nil, len(all), nil
	}
	return all[offset:min(offset+limit, len(all))], len(all), nil
}

func (r memCompanies) SetActive(_ context.Context, id string, active bool) error {
	c, ok := r.db.companies[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.IsActive = active
	r.db.companies[id] = c
	return nil
}

func (r memCompanies) IsActive(_ context.Context, id string) (bool, error) {
	c, ok := r.db.companies[id]
	return ok && c.IsActive, nil
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.db.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	c := *u
	c.Roles = slices.Clone(u.Roles)
	r.db.users[u.ID] = c
	return nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) GetByID(_ context.Context, companyID, id string) (*entity.User, error) {
	u, ok := r.db.users[id]
	if !ok || u.CompanyID != companyID {
		return nil, nil
	}
	u.Roles = slices.Clone(u.Roles)
	return &u, nil
}

func (r memUsers) Update(_ context.Context, u *entity.User) error {
	cur, ok := r.db.users[u.ID]
	if !ok || cur.CompanyID != u.CompanyID {
		return domain.ErrNotFound
	}
	r.db.users[u.ID] = *u
	return nil
}

func (r memUsers) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.User, int, error) {
	var all []*entity.User
	for _, u := range r.db.users {
		if u.CompanyID == companyID {
			cp := u
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	if offset >= len(all) {
		return nil, len(all), nil
	}
	return all[offset:min(offset+limit, len(all))], len(all), nil
}

func (r memUsers) Deactivate(_ context.Context, companyID, id string) error {
	u, ok := r.db.users[id]
	if !ok || u.CompanyID != companyID || !u.IsActive {
		return domain.ErrNotFound
	}
	u.IsActive = false
	r.db.users[id] = u
	return nil
}

// ── Almacenamiento y caché ───────────────────────────────────────────────────

type memStorage struct {
	keys []string
	data map[string][]byte
}

func (s *memStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.keys = append(s.keys, key)
	s.data[key] = b
	return "https://cdn.test/" + key, nil
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]bool
	deletes int
}

func newMapCache() *mapCache { return &mapCache{entries: make(map[string]bool)} }

func (c *mapCache) Get(id string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[id]
	return v, ok
}

func (c *mapCache) Set(id string, active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = active
}

func (c *mapCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.deletes++
}
