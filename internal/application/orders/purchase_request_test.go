package orders_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/orders"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

func TestSolicitudCompra_CreatePersisteCabeceraYLineas(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-001", 10, decimal.NewFromInt(5))

	pr, err := env.requests.Create(context.Background(), adminCaller(), orders.CreatePurchaseRequestInput{
		Number: "PR-2025-0001",
		Notes:  "reposición de tornillería",
		Lines:  []orders.LineInput{{ItemID: item.ID, Quantity: 50}},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.PRStatusPending, pr.Status)
	assert.Equal(t, "u-admin", pr.RequestedBy)
	require.Len(t, pr.Items, 1)
	assert.Equal(t, int64(50), pr.Items[0].Quantity)

	stored, err := env.requests.GetByID(pr.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 1)
}

func TestSolicitudCompra_CreateValidaciones(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-001", 10, decimal.NewFromInt(5))
	ctx := context.Background()

	t.Run("sin número", func(t *testing.T) {
		_, err := env.requests.Create(ctx, adminCaller(), orders.CreatePurchaseRequestInput{
			Lines: []orders.LineInput{{ItemID: item.ID, Quantity: 1}},
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "number")
	})

	t.Run("sin líneas", func(t *testing.T) {
		_, err := env.requests.Create(ctx, adminCaller(), orders.CreatePurchaseRequestInput{
			Number: "PR-2025-0001",
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "items")
	})

	t.Run("cantidad inválida", func(t *testing.T) {
		_, err := env.requests.Create(ctx, adminCaller(), orders.CreatePurchaseRequestInput{
			Number: "PR-2025-0001",
			Lines:  []orders.LineInput{{ItemID: item.ID, Quantity: 0}},
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "items.quantity")
	})

	t.Run("item inexistente", func(t *testing.T) {
		_, err := env.requests.Create(ctx, adminCaller(), orders.CreatePurchaseRequestInput{
			Number: "PR-2025-0001",
			Lines:  []orders.LineInput{{ItemID: uuid.New().String(), Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSolicitudCompra_NumeroDuplicado(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-001", 10, decimal.NewFromInt(5))
	ctx := context.Background()

	in := orders.CreatePurchaseRequestInput{
		Number: "PR-2025-0001",
		Lines:  []orders.LineInput{{ItemID: item.ID, Quantity: 1}},
	}
	_, err := env.requests.Create(ctx, adminCaller(), in)
	require.NoError(t, err)

	_, err = env.requests.Create(ctx, adminCaller(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Aprobar una solicitud solo cambia estado y estampa decisor: cero efecto de stock.
func TestSolicitudCompra_ApproveNoAfectaStock(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-001", 10, decimal.NewFromInt(5))
	ctx := context.Background()

	pr, err := env.requests.Create(ctx, adminCaller(), orders.CreatePurchaseRequestInput{
		Number: "PR-2025-0001",
		Lines:  []orders.LineInput{{ItemID: item.ID, Quantity: 500}},
	})
	require.NoError(t, err)

	decided, err := env.requests.Approve(ctx, adminCaller(), pr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PRStatusApproved, decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, "u-admin", *decided.ApprovedBy)
	assert.NotNil(t, decided.ApprovedAt)

	assert.Equal(t, int64(10), env.stockOf(t, item.ID), "aprobar una solicitud no mueve stock")
	movs, err := env.store.Movements().List(repository.MovementFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestSolicitudCompra_RejectDesdePending(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-001", 10, decimal.NewFromInt(5))
	ctx := context.Background()

	pr, err := env.requests.Create(ctx, adminCaller(), orders.CreatePurchaseRequestInput{
		Number: "PR-2025-0001",
		Lines:  []orders.LineInput{{ItemID: item.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	decided, err := env.requests.Reject(ctx, adminCaller(), pr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PRStatusRejected, decided.Status)
}

// Approved y Rejected son terminales: repetir una decisión es ErrInvalidState y
// no muta el registro.
func TestSolicitudCompra_DecisionRepetida(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-001", 10, decimal.NewFromInt(5))
	ctx := context.Background()

	pr, err := env.requests.Create(ctx, adminCaller(), orders.CreatePurchaseRequestInput{
		Number: "PR-2025-0001",
		Lines:  []orders.LineInput{{ItemID: item.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = env.requests.Approve(ctx, adminCaller(), pr.ID)
	require.NoError(t, err)

	_, err = env.requests.Reject(ctx, adminCaller(), pr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	stored, err := env.requests.GetByID(pr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PRStatusApproved, stored.Status, "la decisión original debe permanecer")
}

func TestSolicitudCompra_DecisionSobreInexistente(t *testing.T) {
	env := newEnv(t)
	_, err := env.requests.Approve(context.Background(), adminCaller(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSolicitudCompra_LatestNumber(t *testing.T) {
	env := newEnv(t)
	item := env.seedItem(t, "SKU-001", 10, decimal.NewFromInt(5))
	ctx := context.Background()

	number, suffix, err := env.requests.LatestNumber()
	require.NoError(t, err)
	assert.Empty(t, number, "sin solicitudes no hay número")
	assert.Zero(t, suffix)

	_, err = env.requests.Create(ctx, adminCaller(), orders.CreatePurchaseRequestInput{
		Number: "PR-2025-0007",
		Lines:  []orders.LineInput{{ItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	number, suffix, err = env.requests.LatestNumber()
	require.NoError(t, err)
	assert.Equal(t, "PR-2025-0007", number)
	assert.Equal(t, 7, suffix)
}
