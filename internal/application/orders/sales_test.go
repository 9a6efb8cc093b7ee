package orders_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/orders"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

func TestVenta_CreateCalculaTotal(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-A", 100, decimal.NewFromInt(5))

	order, err := env.sales.Create(context.Background(), adminCaller(), orders.CreateSalesOrderInput{
		SONumber:     "SO-2025-0001",
		CustomerID:   "cli-1",
		CustomerName: "Constructora Andina",
		Lines:        []orders.LineInput{{ItemID: item.ID, Quantity: 4, UnitPrice: decimal.RequireFromString("9.99")}},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.SOStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("39.96")),
		"total derivado de las líneas, fue %s", order.TotalAmount)
	assert.Equal(t, int64(100), env.stockOf(t, item.ID), "crear la orden no reserva ni mueve stock")
}

func TestVenta_CreateNoVerificaSuficiencia(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-A", 2, decimal.NewFromInt(5))

	// Pedir más de lo disponible es válido al crear; la verificación es al despachar.
	_, err := env.sales.Create(context.Background(), adminCaller(), orders.CreateSalesOrderInput{
		SONumber:   "SO-2025-0001",
		CustomerID: "cli-1",
		Lines:      []orders.LineInput{{ItemID: item.ID, Quantity: 500, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.NoError(t, err)
}

func TestVenta_FulfillSacaStockYEstampa(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-A", 10, decimal.NewFromInt(5))
	ctx := context.Background()

	order, err := env.sales.Create(ctx, adminCaller(), orders.CreateSalesOrderInput{
		SONumber:   "SO-2025-0001",
		CustomerID: "cli-1",
		Lines:      []orders.LineInput{{ItemID: item.ID, Quantity: 6, UnitPrice: decimal.NewFromInt(12)}},
	})
	require.NoError(t, err)

	fulfilled, err := env.sales.Fulfill(ctx, adminCaller(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SOStatusFulfilled, fulfilled.Status)
	require.NotNil(t, fulfilled.FulfilledBy)
	assert.Equal(t, "u-admin", *fulfilled.FulfilledBy)
	assert.NotNil(t, fulfilled.FulfilledAt)

	assert.Equal(t, int64(4), env.stockOf(t, item.ID))

	movs, err := env.store.Movements().List(repository.MovementFilter{ItemID: item.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)
	assert.Equal(t, "SO-2025-0001", movs[0].Reference)
}

// Si cualquier línea no alcanza, el despacho completo aborta: la orden sigue
// pending, no hay movimientos y ningún stock cambió (ni el de las líneas que
// sí alcanzaban).
func TestVenta_FulfillInsuficienteNoDejaRastro(t *testing.T) {
	env := newEnv(t)
	abundante := env.seedItem(t, "SKU-A", 100, decimal.NewFromInt(5))
	escaso := env.seedItem(t, "SKU-B", 2, decimal.NewFromInt(5))
	ctx := context.Background()

	order, err := env.sales.Create(ctx, adminCaller(), orders.CreateSalesOrderInput{
		SONumber:   "SO-2025-0001",
		CustomerID: "cli-1",
		Lines: []orders.LineInput{
			{ItemID: abundante.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(1)},
			{ItemID: escaso.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	_, err = env.sales.Fulfill(ctx, adminCaller(), order.ID)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "SKU-B", insufficient.SKU, "el error nombra el item que no alcanza")
	assert.Equal(t, int64(5), insufficient.Requested)
	assert.Equal(t, int64(2), insufficient.Available)

	stored, err := env.sales.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SOStatusPending, stored.Status, "la orden sigue pending y es reintentable")

	movs, err := env.store.Movements().List(repository.MovementFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, movs, "despacho abortado: cero movimientos")
	assert.Equal(t, int64(100), env.stockOf(t, abundante.ID), "ni la línea suficiente se aplicó")
	assert.Equal(t, int64(2), env.stockOf(t, escaso.ID))
}

// La suficiencia se verifica por demanda acumulada: dos líneas del mismo item
// compiten por el mismo stock.
func TestVenta_DemandaAcumuladaPorItem(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-A", 5, decimal.NewFromInt(5))
	ctx := context.Background()

	order, err := env.sales.Create(ctx, adminCaller(), orders.CreateSalesOrderInput{
		SONumber:   "SO-2025-0001",
		CustomerID: "cli-1",
		Lines: []orders.LineInput{
			{ItemID: item.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(1)},
			{ItemID: item.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	_, err = env.sales.Fulfill(ctx, adminCaller(), order.ID)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient, "3+3 > 5 aunque cada línea quepa por separado")
	assert.Equal(t, int64(6), insufficient.Requested)
	assert.Equal(t, int64(5), env.stockOf(t, item.ID))
}

// Dos despachos concurrentes de la misma orden: exactamente uno gana; el stock
// sale una sola vez y nunca queda negativo.
func TestVenta_FulfillConcurrente(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-A", 10, decimal.NewFromInt(5))
	ctx := context.Background()

	order, err := env.sales.Create(ctx, adminCaller(), orders.CreateSalesOrderInput{
		SONumber:   "SO-2025-0001",
		CustomerID: "cli-1",
		Lines:      []orders.LineInput{{ItemID: item.ID, Quantity: 8, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.sales.Fulfill(ctx, adminCaller(), order.ID)
		}(i)
	}
	wg.Wait()

	var ok, invalid int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInvalidState):
			invalid++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactamente un despacho gana")
	assert.Equal(t, 1, invalid, "el perdedor recibe estado inválido")
	assert.Equal(t, int64(2), env.stockOf(t, item.ID), "el stock sale una sola vez")
}

// Dos órdenes distintas compiten por el stock del mismo item (6+6 contra 10):
// exactamente una se despacha, la perdedora falla por stock insuficiente y sigue
// pending, y el stock termina en 4 — nunca negativo.
func TestVenta_OrdenesDistintasCompitenPorStock(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-A", 10, decimal.NewFromInt(5))
	ctx := context.Background()

	ids := make([]string, 2)
	for i := range ids {
		order, err := env.sales.Create(ctx, adminCaller(), orders.CreateSalesOrderInput{
			SONumber:   fmt.Sprintf("SO-2025-000%d", i+1),
			CustomerID: "cli-1",
			Lines:      []orders.LineInput{{ItemID: item.ID, Quantity: 6, UnitPrice: decimal.NewFromInt(1)}},
		})
		require.NoError(t, err)
		ids[i] = order.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = env.sales.Fulfill(ctx, adminCaller(), id)
		}(i, id)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactamente una orden se despacha")
	assert.Equal(t, 1, insufficient, "la perdedora falla por stock insuficiente")
	assert.Equal(t, int64(4), env.stockOf(t, item.ID), "10 − 6, nunca negativo")

	// la perdedora sigue pending: reintentable cuando vuelva a entrar stock
	var pending int
	for _, id := range ids {
		stored, err := env.sales.GetByID(id)
		require.NoError(t, err)
		if stored.Status == entity.SOStatusPending {
			pending++
		}
	}
	assert.Equal(t, 1, pending)

	movs, err := env.store.Movements().List(repository.MovementFilter{ItemID: item.ID, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo la ganadora registró su OUT")
}

func TestVenta_CancelYFulfillPosterior(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-A", 10, decimal.NewFromInt(5))
	ctx := context.Background()

	order, err := env.sales.Create(ctx, adminCaller(), orders.CreateSalesOrderInput{
		SONumber:   "SO-2025-0001",
		CustomerID: "cli-1",
		Lines:      []orders.LineInput{{ItemID: item.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	cancelled, err := env.sales.Cancel(ctx, adminCaller(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SOStatusCancelled, cancelled.Status)

	_, err = env.sales.Fulfill(ctx, adminCaller(), order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(10), env.stockOf(t, item.ID))
}

func TestVenta_UpdateCabeceraSoloPending(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-A", 10, decimal.NewFromInt(5))
	ctx := context.Background()

	order, err := env.sales.Create(ctx, adminCaller(), orders.CreateSalesOrderInput{
		SONumber:     "SO-2025-0001",
		CustomerID:   "cli-1",
		CustomerName: "Cliente Viejo",
		Lines:        []orders.LineInput{{ItemID: item.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	newName := "Cliente Nuevo"
	updated, err := env.sales.Update(ctx, adminCaller(), order.ID, orders.UpdateSalesOrderInput{CustomerName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Cliente Nuevo", updated.CustomerName)

	_, err = env.sales.Fulfill(ctx, adminCaller(), order.ID)
	require.NoError(t, err)

	_, err = env.sales.Update(ctx, adminCaller(), order.ID, orders.UpdateSalesOrderInput{CustomerName: &newName})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestVenta_LatestNumber(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-A", 10, decimal.NewFromInt(5))

	_, err := env.sales.Create(context.Background(), adminCaller(), orders.CreateSalesOrderInput{
		SONumber:   "SO-2025-0104",
		CustomerID: "cli-1",
		Lines:      []orders.LineInput{{ItemID: item.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	number, suffix, err := env.sales.LatestNumber()
	require.NoError(t, err)
	assert.Equal(t, "SO-2025-0104", number)
	assert.Equal(t, 104, suffix)
}
