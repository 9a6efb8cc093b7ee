package stock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/stock"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/infrastructure/memory"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/logger"
)

func newTestJournal(t *testing.T) (*memory.Store, *stock.Journal) {
	t.Helper()
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	recorder := audit.NewRecorder(store.AuditLogs(), log)
	journal := stock.NewJournal(memory.NewTxRunner(store), store.Movements(), store.Items(), recorder, log)
	return store, journal
}

func seedItem(t *testing.T, store *memory.Store, sku string, currentStock int64) *entity.Item {
	t.Helper()
	item := &entity.Item{
		ID:           uuid.New().String(),
		SKU:          sku,
		Name:         "Tornillo M8",
		Unit:         "pcs",
		Cost:         decimal.NewFromInt(10),
		CurrentStock: currentStock,
		MinimumStock: 5,
		Status:       entity.ItemStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, store.Items().Create(item))
	return item
}

func journalCaller() audit.Caller {
	return audit.Caller{Actor: audit.Actor{ID: "u-1", Name: "Ana", Role: "staff"}}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes manuales
// ──────────────────────────────────────────────────────────────────────────────

func TestStockIn_AumentaStockYRegistraMovimiento(t *testing.T) {
	store, journal := newTestJournal(t)
	item := seedItem(t, store, "SKU-001", 10)

	mov, err := journal.StockIn(context.Background(), journalCaller(), stock.AdjustmentInput{
		ItemID:    item.ID,
		Quantity:  7,
		Reference: "ajuste-inventario",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeIN, mov.Type)
	assert.Equal(t, int64(7), mov.Quantity)
	assert.Equal(t, "u-1", mov.CreatedBy)

	got, err := store.Items().GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(17), got.CurrentStock)
}

func TestStockOut_DisminuyeStock(t *testing.T) {
	store, journal := newTestJournal(t)
	item := seedItem(t, store, "SKU-001", 10)

	mov, err := journal.StockOut(context.Background(), journalCaller(), stock.AdjustmentInput{
		ItemID:   item.ID,
		Quantity: 4,
		Note:     "merma",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeOUT, mov.Type)
	assert.Equal(t, int64(-4), mov.SignedQuantity())

	got, err := store.Items().GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.CurrentStock)
}

// Una salida que excede el stock falla completa: ni movimiento ni cambio de stock.
func TestStockOut_InsuficienteNoDejaRastro(t *testing.T) {
	store, journal := newTestJournal(t)
	item := seedItem(t, store, "SKU-001", 5)

	_, err := journal.StockOut(context.Background(), journalCaller(), stock.AdjustmentInput{
		ItemID:   item.ID,
		Quantity: 1000,
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(1000), insufficient.Requested)
	assert.Equal(t, int64(5), insufficient.Available)
	assert.Equal(t, "SKU-001", insufficient.SKU)

	movs, err := store.Movements().List(repository.MovementFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, movs, "una salida rechazada no debe registrar movimiento")

	got, err := store.Items().GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.CurrentStock, "el stock no debe cambiar")
}

func TestStockOut_SalidaExactaDejaCero(t *testing.T) {
	store, journal := newTestJournal(t)
	item := seedItem(t, store, "SKU-001", 5)

	_, err := journal.StockOut(context.Background(), journalCaller(), stock.AdjustmentInput{
		ItemID:   item.ID,
		Quantity: 5,
	})

	require.NoError(t, err, "sacar exactamente el disponible es válido")
	got, err := store.Items().GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.CurrentStock)
}

func TestAjusteManual_CantidadInvalida(t *testing.T) {
	_, journal := newTestJournal(t)

	for _, qty := range []int64{0, -3} {
		_, err := journal.StockIn(context.Background(), journalCaller(), stock.AdjustmentInput{
			ItemID:   "i-1",
			Quantity: qty,
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, "cantidad %d debe rechazarse", qty)
		assert.Contains(t, verr.Fields, "quantity")
	}
}

func TestAjusteManual_ItemInexistente(t *testing.T) {
	_, journal := newTestJournal(t)

	_, err := journal.StockIn(context.Background(), journalCaller(), stock.AdjustmentInput{
		ItemID:   uuid.New().String(),
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAjusteManual_ItemEliminado(t *testing.T) {
	store, journal := newTestJournal(t)
	item := seedItem(t, store, "SKU-001", 10)
	require.NoError(t, store.Items().SoftDelete(item.ID, time.Now()))

	_, err := journal.StockOut(context.Background(), journalCaller(), stock.AdjustmentInput{
		ItemID:   item.ID,
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "un item dado de baja no admite ajustes")
}

func TestAjusteManual_ReferenciaPorDefecto(t *testing.T) {
	store, journal := newTestJournal(t)
	item := seedItem(t, store, "SKU-001", 10)

	mov, err := journal.StockIn(context.Background(), journalCaller(), stock.AdjustmentInput{
		ItemID:   item.ID,
		Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "manual", mov.Reference)
}

// Invariante del ledger: el stock actual es la suma con signo de los movimientos.
func TestLedger_StockIgualASumaDeMovimientos(t *testing.T) {
	store, journal := newTestJournal(t)
	item := seedItem(t, store, "SKU-001", 0)
	ctx := context.Background()
	caller := journalCaller()

	steps := []struct {
		in  bool
		qty int64
	}{
		{true, 20}, {false, 5}, {true, 3}, {false, 8}, {true, 1},
	}
	for _, s := range steps {
		var err error
		if s.in {
			_, err = journal.StockIn(ctx, caller, stock.AdjustmentInput{ItemID: item.ID, Quantity: s.qty})
		} else {
			_, err = journal.StockOut(ctx, caller, stock.AdjustmentInput{ItemID: item.ID, Quantity: s.qty})
		}
		require.NoError(t, err)
	}

	movs, err := store.Movements().List(repository.MovementFilter{ItemID: item.ID, Limit: 100})
	require.NoError(t, err)
	var sum int64
	for _, m := range movs {
		sum += m.SignedQuantity()
	}

	got, err := store.Items().GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, sum, got.CurrentStock, "el stock debe ser la suma con signo del journal")
	assert.Equal(t, int64(11), got.CurrentStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordInTx
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordInTx_TipoInvalido(t *testing.T) {
	store, journal := newTestJournal(t)
	item := seedItem(t, store, "SKU-001", 10)

	err := memory.NewTxRunner(store).Run(context.Background(), func(tx repository.Tx) error {
		_, err := journal.RecordInTx(tx, stock.MovementInput{
			ItemID:   item.ID,
			Type:     "TRANSFER",
			Quantity: 1,
		})
		return err
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "type")
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_FiltraPorTipo(t *testing.T) {
	store, journal := newTestJournal(t)
	item := seedItem(t, store, "SKU-001", 10)
	ctx := context.Background()
	caller := journalCaller()

	_, err := journal.StockIn(ctx, caller, stock.AdjustmentInput{ItemID: item.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = journal.StockOut(ctx, caller, stock.AdjustmentInput{ItemID: item.ID, Quantity: 2})
	require.NoError(t, err)

	outs := journal.ListMovements(repository.MovementFilter{Type: entity.MovementTypeOUT})
	require.Len(t, outs, 1)
	assert.Equal(t, int64(2), outs[0].Quantity)
	assert.Equal(t, "SKU-001", outs[0].ItemSKU, "el listado resuelve sku y nombre del item")
}

// failingMovements simula un store de movimientos caído en lecturas.
type failingMovements struct{}

func (failingMovements) Create(*entity.StockMovement) error { return errors.New("store caído") }
func (failingMovements) GetByID(string) (*repository.MovementWithItem, error) {
	return nil, errors.New("store caído")
}
func (failingMovements) List(repository.MovementFilter) ([]*repository.MovementWithItem, error) {
	return nil, errors.New("store caído")
}

// newDegradedJournal journal cuyo store de movimientos falla en toda lectura.
func newDegradedJournal() *stock.Journal {
	store := memory.NewStore()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	recorder := audit.NewRecorder(store.AuditLogs(), log)
	return stock.NewJournal(memory.NewTxRunner(store), failingMovements{}, store.Items(), recorder, log)
}

// Lectura degradada: si el store de movimientos falla, el listado devuelve vacío
// en lugar de propagar el error.
func TestListMovements_DegradadoAVacio(t *testing.T) {
	journal := newDegradedJournal()

	got := journal.ListMovements(repository.MovementFilter{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// La misma política aplica al detalle: un store caído degrada a "no encontrado",
// nunca a un error duro.
func TestGetMovement_DegradadoANoEncontrado(t *testing.T) {
	journal := newDegradedJournal()

	assert.Nil(t, journal.GetMovement("m-1"))
}

func TestGetMovement_NoExiste(t *testing.T) {
	_, journal := newTestJournal(t)
	assert.Nil(t, journal.GetMovement(uuid.New().String()))
}

func TestGetMovement_Existente(t *testing.T) {
	store, journal := newTestJournal(t)
	item := seedItem(t, store, "SKU-001", 10)

	mov, err := journal.StockIn(context.Background(), journalCaller(), stock.AdjustmentInput{
		ItemID:   item.ID,
		Quantity: 2,
	})
	require.NoError(t, err)

	got := journal.GetMovement(mov.ID)
	require.NotNil(t, got)
	assert.Equal(t, "SKU-001", got.ItemSKU)
}
