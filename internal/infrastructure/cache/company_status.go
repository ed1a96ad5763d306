// Package cache implementa cachés en memoria del proceso con dgraph-io/ristretto.
package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/jhoicas/erp-saas-api/internal/application/usecase"
)

var _ usecase.CompanyStatusCache = (*CompanyStatusCache)(nil)

// CompanyStatusCache guarda el flag is_active por empresa durante ttl.
// Evita una consulta a companies en cada request autenticado.
type CompanyStatusCache struct {
	c   *ristretto.Cache[string, bool]
	ttl time.Duration
}

// NewCompanyStatusCache crea la caché. maxEntries acota la cantidad de empresas en memoria.
func NewCompanyStatusCache(maxEntries int64, ttl time.Duration) (*CompanyStatusCache, error) {
	if maxEntries <= 0 {
		maxEntries = 10_000
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, bool]{
		NumCounters: maxEntries * 10, // ~10x entradas esperadas
		MaxCost:     maxEntries,
		BufferItems: 64,
		// Costo = cantidad de empresas; sin esto ristretto suma su tamaño interno por ítem.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: ristretto: %w", err)
	}
	return &CompanyStatusCache{c: c, ttl: ttl}, nil
}

// Get devuelve el estado cacheado y si estaba presente.
func (c *CompanyStatusCache) Get(companyID string) (active bool, found bool) {
	return c.c.Get(companyID)
}

// Set cachea el estado con costo 1 por empresa.
func (c *CompanyStatusCache) Set(companyID string, active bool) {
	c.c.SetWithTTL(companyID, active, 1, c.ttl)
	c.c.Wait()
}

// Delete invalida la entrada (al activar o desactivar la empresa).
func (c *CompanyStatusCache) Delete(companyID string) {
	c.c.Del(companyID)
}

// Close libera los recursos de la caché.
func (c *CompanyStatusCache) Close() {
	c.c.Close()
}
