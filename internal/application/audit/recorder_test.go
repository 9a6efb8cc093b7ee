package audit_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/infrastructure/memory"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func testCaller() audit.Caller {
	return audit.Caller{
		Actor: audit.Actor{ID: "u-1", Name: "Ana Torres", Role: "admin"},
		Meta:  audit.RequestMeta{IP: "10.0.0.5", UserAgent: "tests"},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Diff
// ──────────────────────────────────────────────────────────────────────────────

func TestDiff_DetectaCambios(t *testing.T) {
	old := map[string]any{"status": "pending", "notes": "x"}
	new := map[string]any{"status": "approved", "notes": "x"}

	changes := audit.Diff(old, new)

	require.Len(t, changes, 1, "solo status cambió")
	assert.Equal(t, "pending", changes["status"].Old)
	assert.Equal(t, "approved", changes["status"].New)
}

func TestDiff_ClaveNuevaApareceConOldNil(t *testing.T) {
	changes := audit.Diff(map[string]any{}, map[string]any{"approved_by": "u-1"})
	require.Len(t, changes, 1)
	assert.Nil(t, changes["approved_by"].Old)
	assert.Equal(t, "u-1", changes["approved_by"].New)
}

func TestDiff_SinSnapshotNoHayDiff(t *testing.T) {
	assert.Nil(t, audit.Diff(nil, map[string]any{"a": 1}), "sin old no hay diff")
	assert.Nil(t, audit.Diff(map[string]any{"a": 1}, nil), "sin new no hay diff")
}

// ──────────────────────────────────────────────────────────────────────────────
// Recorder
// ──────────────────────────────────────────────────────────────────────────────

func TestRecorder_PersisteEntradaCompleta(t *testing.T) {
	store := memory.NewStore()
	rec := audit.NewRecorder(store.AuditLogs(), testLogger())

	rec.Record(testCaller(), audit.Entry{
		Action:    entity.AuditActionUpdated,
		Entity:    entity.AuditEntityOrder,
		EntityID:  "o-1",
		OldValues: map[string]any{"status": "pending"},
		NewValues: map[string]any{"status": "approved"},
	})

	logs, err := store.AuditLogs().List(repository.AuditFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	l := logs[0]
	assert.Equal(t, "u-1", l.UserID)
	assert.Equal(t, "Ana Torres", l.UserName)
	assert.Equal(t, entity.AuditEntityOrder, l.EntityType)
	assert.Equal(t, "10.0.0.5", l.IPAddress)
	assert.Equal(t, entity.ModuleAIMS, l.Module, "las entidades de inventario van al módulo AIMS")
	assert.Equal(t, "order updated", l.Description, "la descripción se deriva de entidad+acción")

	var changes map[string]audit.FieldChange
	require.NoError(t, json.Unmarshal(l.Changes, &changes))
	assert.Equal(t, "approved", changes["status"].New)
}

// Un "updated" cuyo diff resulta vacío se suprime: el estado inicial de un
// registro recién creado se reporta solo como "created".
func TestRecorder_SuprimeUpdatedSinCambios(t *testing.T) {
	store := memory.NewStore()
	rec := audit.NewRecorder(store.AuditLogs(), testLogger())

	same := map[string]any{"status": "pending", "notes": "x"}
	rec.Record(testCaller(), audit.Entry{
		Action:    entity.AuditActionUpdated,
		Entity:    entity.AuditEntityOrder,
		EntityID:  "o-1",
		OldValues: same,
		NewValues: same,
	})

	logs, err := store.AuditLogs().List(repository.AuditFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, logs, "updated sin cambios no debe generar entrada")
}

func TestRecorder_CreatedSinOldValuesNoSeSuprime(t *testing.T) {
	store := memory.NewStore()
	rec := audit.NewRecorder(store.AuditLogs(), testLogger())

	rec.Record(testCaller(), audit.Entry{
		Action:    entity.AuditActionCreated,
		Entity:    entity.AuditEntityItem,
		EntityID:  "i-1",
		NewValues: map[string]any{"sku": "SKU-1"},
	})

	logs, err := store.AuditLogs().List(repository.AuditFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].OldValues, "una creación no tiene snapshot anterior")
}

func TestRecorder_ModuloHRMSParaUsuarios(t *testing.T) {
	store := memory.NewStore()
	rec := audit.NewRecorder(store.AuditLogs(), testLogger())

	rec.Record(testCaller(), audit.Entry{
		Action:   entity.AuditActionLogin,
		Entity:   entity.AuditEntityUser,
		EntityID: "u-1",
	})

	logs, err := store.AuditLogs().List(repository.AuditFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ModuleHRMS, logs[0].Module)
}

// failingAuditRepo simula un store de auditoría caído.
type failingAuditRepo struct{}

func (failingAuditRepo) Create(*entity.AuditLog) error { return errors.New("store caído") }
func (failingAuditRepo) List(repository.AuditFilter) ([]*entity.AuditLog, error) {
	return nil, errors.New("store caído")
}

// Política fire-and-forget: un fallo al persistir la auditoría no se propaga
// jamás a la operación de negocio.
func TestRecorder_FalloDePersistenciaNoSePropaga(t *testing.T) {
	rec := audit.NewRecorder(failingAuditRepo{}, testLogger())

	assert.NotPanics(t, func() {
		rec.Record(testCaller(), audit.Entry{
			Action:   entity.AuditActionCreated,
			Entity:   entity.AuditEntityItem,
			EntityID: "i-1",
		})
	})
}
