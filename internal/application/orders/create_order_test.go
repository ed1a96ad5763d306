package orders_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/application/orders"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
)

const (
	companyA = "00000000-0000-0000-0000-00000000000a"
	companyB = "00000000-0000-0000-0000-00000000000b"
	productP = "10000000-0000-0000-0000-000000000001"
	productQ = "10000000-0000-0000-0000-000000000002"
	productR = "10000000-0000-0000-0000-000000000003"
	productX = "10000000-0000-0000-0000-0000000000b1"
)

var (
	adminA    = domain.NewCaller("u-admin-a", companyA, []string{entity.RoleAdmin})
	employeeA = domain.NewCaller("u-emp-a", companyA, []string{entity.RoleEmployee})
	adminB    = domain.NewCaller("u-admin-b", companyB, []string{entity.RoleAdmin})
)

func newTestUseCase(t *testing.T) (*orders.OrderUseCase, *memStore, *recordingNotifier) {
	t.Helper()
	store := newMemStore()
	notifier := &recordingNotifier{}
	uc := orders.NewOrderUseCase(&memTx{store: store}, &memOrderRepo{s: store}, notifier)
	return uc, store, notifier
}

func orderOf(lines ...dto.OrderItemRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{Items: lines}
}

func line(productID string, qty int) dto.OrderItemRequest {
	return dto.OrderItemRequest{ProductID: productID, Quantity: qty}
}

// Escenario base: stock 10, precio 1000, se venden 3.
func TestCreateOrder_DescuentaStockYCongelaPrecio(t *testing.T) {
	uc, store, notifier := newTestUseCase(t)
	store.addProduct(productP, companyA, "P-001", 1000, 10)

	out, err := uc.CreateOrder(context.Background(), employeeA, orderOf(line(productP, 3)))
	require.NoError(t, err)

	assert.Equal(t, 7, store.stock(productP), "el stock debe bajar de 10 a 7")
	assert.True(t, decimal.NewFromInt(3000).Equal(out.Total), "total esperado 3000, obtenido %s", out.Total)
	require.Len(t, out.Items, 1)
	assert.True(t, decimal.NewFromInt(1000).Equal(out.Items[0].PriceAtPurchase))
	assert.Equal(t, entity.OrderStatusCompleted, out.Status)
	assert.Equal(t, entity.CancellationNone, out.CancellationStatus)
	assert.Equal(t, entity.PaymentCash, out.PaymentMethod, "sin método de pago se asume efectivo")
	assert.Equal(t, employeeA.UserID, out.UserID)

	stored := store.orders[out.ID]
	require.NotNil(t, stored)
	assert.Equal(t, companyA, stored.CompanyID, "la empresa sale del caller")

	require.Len(t, store.movements, 1)
	mov := store.movements[0]
	assert.Equal(t, entity.MovementTypeSale, mov.Type)
	assert.Equal(t, -3, mov.Quantity)
	assert.Equal(t, 7, mov.StockAfter)
	assert.Equal(t, out.ID, mov.OrderID)

	assert.Equal(t, []string{orders.EventOrderCreated}, notifier.types())
}

func TestCreateOrder_StockInsuficiente_NoPersisteNada(t *testing.T) {
	uc, store, notifier := newTestUseCase(t)
	store.addProduct(productP, companyA, "P-001", 1000, 3)

	_, err := uc.CreateOrder(context.Background(), employeeA, orderOf(line(productP, 5)))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 3, store.stock(productP))
	assert.Empty(t, store.orders, "no debe existir ninguna orden")
	assert.Empty(t, store.movements)
	assert.Empty(t, notifier.types(), "no se notifica una orden fallida")
}

// Si la línea 3 de 3 falla, ninguna de las anteriores deja rastro.
func TestCreateOrder_FallaEnTerceraLinea_RevierteTodo(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	store.addProduct(productP, companyA, "P-001", 1000, 10)
	store.addProduct(productQ, companyA, "Q-001", 500, 10)
	store.addProduct(productR, companyA, "R-001", 200, 1)

	_, err := uc.CreateOrder(context.Background(), employeeA,
		orderOf(line(productP, 2), line(productQ, 4), line(productR, 2)))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 10, store.stock(productP))
	assert.Equal(t, 10, store.stock(productQ))
	assert.Equal(t, 1, store.stock(productR))
	assert.Empty(t, store.orders)
	assert.Empty(t, store.movements)
}

func TestCreateOrder_ErrorDePersistencia_RevierteStock(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	store.addProduct(productP, companyA, "P-001", 1000, 10)
	store.addProduct(productQ, companyA, "Q-001", 500, 10)
	store.failCreateItemAt = 2

	_, err := uc.CreateOrder(context.Background(), employeeA, orderOf(line(productP, 2), line(productQ, 1)))
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, 10, store.stock(productP), "el descuento de la primera línea debe revertirse")
	assert.Equal(t, 10, store.stock(productQ))
	assert.Empty(t, store.orders)
	assert.Empty(t, store.movements)
}

func TestCreateOrder_ProductoDeOtraEmpresa_NoEncontrado(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	store.addProduct(productP, companyA, "P-001", 1000, 10)
	store.addProduct(productX, companyB, "X-001", 900, 10)

	_, err := uc.CreateOrder(context.Background(), employeeA, orderOf(line(productP, 1), line(productX, 1)))
	require.ErrorIs(t, err, domain.ErrNotFound, "un producto ajeno se comporta igual que uno inexistente")

	assert.Equal(t, 10, store.stock(productP))
	assert.Equal(t, 10, store.stock(productX))
	assert.Empty(t, store.orders)
}

func TestCreateOrder_ProductoInexistenteOInactivo(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	p := store.addProduct(productP, companyA, "P-001", 1000, 10)
	p.IsActive = false

	_, err := uc.CreateOrder(context.Background(), employeeA, orderOf(line(productP, 1)))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CreateOrder(context.Background(), employeeA, orderOf(line("no-existe", 1)))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, store.stock(productP))
}

func TestCreateOrder_ProductoRepetido_AcumulaCantidad(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	store.addProduct(productP, companyA, "P-001", 1000, 10)

	_, err := uc.CreateOrder(context.Background(), employeeA, orderOf(line(productP, 6), line(productP, 6)))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, store.stock(productP))

	out, err := uc.CreateOrder(context.Background(), employeeA, orderOf(line(productP, 6), line(productP, 4)))
	require.NoError(t, err)
	assert.Equal(t, 0, store.stock(productP))
	assert.True(t, decimal.NewFromInt(10000).Equal(out.Total))
	assert.Len(t, out.Items, 2)
}

func TestCreateOrder_Validacion(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	store.addProduct(productP, companyA, "P-001", 1000, 10)

	cases := map[string]dto.CreateOrderRequest{
		"sin ítems":       {},
		"cantidad cero":   orderOf(line(productP, 0)),
		"sin producto":    orderOf(line("", 1)),
		"método inválido": {Items: []dto.OrderItemRequest{line(productP, 1)}, PaymentMethod: "crypto"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.CreateOrder(context.Background(), employeeA, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 10, store.stock(productP))
}

// Cambiar el precio del producto después de vender no altera la orden.
func TestCreateOrder_PrecioCongeladoAnteCambioPosterior(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	store.addProduct(productP, companyA, "P-001", 1000, 10)

	created, err := uc.CreateOrder(context.Background(), employeeA, orderOf(line(productP, 2)))
	require.NoError(t, err)

	store.products[productP].Price = decimal.NewFromInt(5000)

	got, err := uc.GetOrder(context.Background(), employeeA, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(got.Items[0].PriceAtPurchase))
	assert.True(t, decimal.NewFromInt(2000).Equal(got.Total))
}

// Órdenes concurrentes sobre el mismo producto nunca dejan stock negativo.
func TestCreateOrder_Concurrente_NoSobrevende(t *testing.T) {
	uc, store, _ := newTestUseCase(t)
	store.addProduct(productP, companyA, "P-001", 100, 10)

	const buyers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := domain.NewCaller(fmt.Sprintf("u-%d", i), companyA, []string{entity.RoleEmployee})
			if _, err := uc.CreateOrder(context.Background(), caller, orderOf(line(productP, 1))); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, store.stock(productP))
	assert.Len(t, store.orders, 10)
}
