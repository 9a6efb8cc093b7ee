package items_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/dto"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/items"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/stock"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/infrastructure/memory"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/logger"
)

func newItemUseCase(t *testing.T) (*memory.Store, *items.UseCase) {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	recorder := audit.NewRecorder(store.AuditLogs(), log)
	txRunner := memory.NewTxRunner(store)
	journal := stock.NewJournal(txRunner, store.Movements(), store.Items(), recorder, log)
	return store, items.NewUseCase(txRunner, store.Items(), journal, recorder)
}

func itemCaller() audit.Caller {
	return audit.Caller{Actor: audit.Actor{ID: "u-1", Name: "Ana", Role: "admin"}}
}

func validCreateRequest() dto.CreateItemRequest {
	return dto.CreateItemRequest{
		SKU:          "SKU-001",
		Name:         "Tornillo M8",
		Unit:         "pcs",
		Cost:         decimal.NewFromInt(10),
		SellingPrice: decimal.NewFromInt(15),
		MinimumStock: 5,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func TestItemCreate_AltaBasica(t *testing.T) {
	_, uc := newItemUseCase(t)

	item, err := uc.Create(context.Background(), itemCaller(), validCreateRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, entity.ItemStatusActive, item.Status)
	assert.Equal(t, int64(0), item.CurrentStock, "sin stock de apertura el item nace en cero")
}

// El stock de apertura no se escribe directo: se siembra con un movimiento IN
// de referencia OPENING en la misma transacción del alta.
func TestItemCreate_StockDeAperturaSiembraMovimiento(t *testing.T) {
	store, uc := newItemUseCase(t)

	req := validCreateRequest()
	req.OpeningStock = 25
	item, err := uc.Create(context.Background(), itemCaller(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(25), item.CurrentStock)

	movs, err := store.Movements().List(repository.MovementFilter{ItemID: item.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.Equal(t, int64(25), movs[0].Quantity)
	assert.Equal(t, items.OpeningStockReference, movs[0].Reference)
	assert.Equal(t, "u-1", movs[0].CreatedBy)
}

// Las validaciones de alta se acumulan por campo en un solo error.
func TestItemCreate_ValidacionesAcumuladas(t *testing.T) {
	_, uc := newItemUseCase(t)

	_, err := uc.Create(context.Background(), itemCaller(), dto.CreateItemRequest{
		Cost:         decimal.NewFromInt(-1),
		OpeningStock: -5,
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "sku")
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "cost")
	assert.Contains(t, verr.Fields, "opening_stock")
}

func TestItemCreate_SKUDuplicado(t *testing.T) {
	_, uc := newItemUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, itemCaller(), validCreateRequest())
	require.NoError(t, err)

	_, err = uc.Create(ctx, itemCaller(), validCreateRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualización y baja
// ──────────────────────────────────────────────────────────────────────────────

func TestItemUpdate_SoloDatosMaestros(t *testing.T) {
	_, uc := newItemUseCase(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.OpeningStock = 10
	item, err := uc.Create(ctx, itemCaller(), req)
	require.NoError(t, err)

	newName := "Tornillo M8 inox"
	newMin := int64(8)
	updated, err := uc.Update(ctx, itemCaller(), item.ID, dto.UpdateItemRequest{
		Name:         &newName,
		MinimumStock: &newMin,
	})

	require.NoError(t, err)
	assert.Equal(t, "Tornillo M8 inox", updated.Name)
	assert.Equal(t, int64(8), updated.MinimumStock)
	assert.Equal(t, int64(10), updated.CurrentStock, "el stock nunca viaja por Update")
	assert.Equal(t, "pcs", updated.Unit, "los campos no enviados no cambian")
}

func TestItemUpdate_Validaciones(t *testing.T) {
	_, uc := newItemUseCase(t)
	ctx := context.Background()

	item, err := uc.Create(ctx, itemCaller(), validCreateRequest())
	require.NoError(t, err)

	empty := ""
	_, err = uc.Update(ctx, itemCaller(), item.ID, dto.UpdateItemRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	badStatus := "archived"
	_, err = uc.Update(ctx, itemCaller(), item.ID, dto.UpdateItemRequest{Status: &badStatus})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemDelete_BajaLogica(t *testing.T) {
	store, uc := newItemUseCase(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.OpeningStock = 5
	item, err := uc.Create(ctx, itemCaller(), req)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, itemCaller(), item.ID))

	_, err = uc.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.Delete(ctx, itemCaller(), item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "la baja no es idempotente: repetirla es not found")

	// el historial de movimientos sobrevive a la baja
	movs, err := store.Movements().List(repository.MovementFilter{ItemID: item.ID, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestItemGetStock_PosicionDeStock(t *testing.T) {
	_, uc := newItemUseCase(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.OpeningStock = 3 // bajo el mínimo de 5
	item, err := uc.Create(ctx, itemCaller(), req)
	require.NoError(t, err)

	pos, err := uc.GetStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-001", pos.SKU)
	assert.Equal(t, int64(3), pos.CurrentStock)
	assert.True(t, pos.BelowMinimum)
}

func TestItemGetByID_Inexistente(t *testing.T) {
	_, uc := newItemUseCase(t)
	_, err := uc.GetByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemLowStock_SugerenciaDeReposicion(t *testing.T) {
	_, uc := newItemUseCase(t)
	ctx := context.Background()

	// con cantidad de reorden configurada: se sugiere esa cantidad
	conReorden := validCreateRequest()
	conReorden.SKU = "SKU-A"
	conReorden.OpeningStock = 2
	conReorden.ReorderQuantity = 40
	_, err := uc.Create(ctx, itemCaller(), conReorden)
	require.NoError(t, err)

	// sin reorden pero con máximo: se sugiere llegar al máximo
	conMaximo := validCreateRequest()
	conMaximo.SKU = "SKU-B"
	conMaximo.OpeningStock = 1
	conMaximo.MaximumStock = 30
	_, err = uc.Create(ctx, itemCaller(), conMaximo)
	require.NoError(t, err)

	// con stock suficiente: no aparece
	sano := validCreateRequest()
	sano.SKU = "SKU-C"
	sano.OpeningStock = 100
	_, err = uc.Create(ctx, itemCaller(), sano)
	require.NoError(t, err)

	low, err := uc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)

	bySKU := map[string]int64{}
	for _, l := range low {
		bySKU[l.SKU] = l.SuggestedOrderQty
	}
	assert.Equal(t, int64(40), bySKU["SKU-A"])
	assert.Equal(t, int64(29), bySKU["SKU-B"], "máximo 30 − stock 1")
	assert.NotContains(t, bySKU, "SKU-C")
}

func TestItemList_PaginaPorDefecto(t *testing.T) {
	_, uc := newItemUseCase(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		req := validCreateRequest()
		req.SKU = req.SKU + string(rune('A'+i))
		_, err := uc.Create(ctx, itemCaller(), req)
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	page, err := uc.List(ctx, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
