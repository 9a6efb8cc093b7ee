package audit

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/logger"
)

// Actor identidad del llamador ya autenticado (atribución de auditoría).
type Actor struct {
	ID   string
	Name string
	Role string
}

// RequestMeta contexto HTTP del llamador para la entrada de auditoría.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// Caller agrupa actor y contexto de request. Se pasa explícito por cada operación
// de workflow; no hay estado global de "request actual".
type Caller struct {
	Actor Actor
	Meta  RequestMeta
}

// Entry una operación auditable con sus snapshots antes/después.
type Entry struct {
	Action      string
	Entity      entity.AuditEntity
	EntityID    string
	Description string         // opcional; se deriva de acción+entidad si falta
	Module      string         // opcional; se deriva de la entidad si falta
	OldValues   map[string]any // nil en creaciones
	NewValues   map[string]any // nil en borrados
}

// Recorder persiste entradas de auditoría como observador de los workflows.
// Política fire-and-forget: un fallo al persistir la auditoría se loggea y se traga,
// nunca afecta ni revierte la operación de negocio que lo disparó. Por eso Record
// se invoca tras el commit, no devuelve error y no recibe contexto: la entrada se
// persiste aunque la request que la originó ya se haya cancelado.
type Recorder struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.AuditLogRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log.WithComponent("audit")}
}

// Record calcula el diff por campo y persiste la entrada. Un "updated" cuyo diff
// resulta vacío se suprime: el primer estado observable de un registro recién creado
// se reporta una sola vez como "created", no además como "updated".
func (r *Recorder) Record(caller Caller, e Entry) {
	changes := Diff(e.OldValues, e.NewValues)
	if e.Action == entity.AuditActionUpdated && len(changes) == 0 {
		return
	}

	module := e.Module
	if module == "" {
		module = entity.ModuleFor(e.Entity)
	}
	description := e.Description
	if description == "" {
		description = defaultDescription(e.Entity, e.Action)
	}

	log := &entity.AuditLog{
		ID:          uuid.New().String(),
		UserID:      caller.Actor.ID,
		UserName:    caller.Actor.Name,
		UserRole:    caller.Actor.Role,
		EntityType:  e.Entity,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: description,
		OldValues:   marshalSnapshot(e.OldValues),
		NewValues:   marshalSnapshot(e.NewValues),
		Changes:     marshalChanges(changes),
		IPAddress:   caller.Meta.IP,
		UserAgent:   caller.Meta.UserAgent,
		Module:      module,
		CreatedAt:   time.Now(),
	}

	if err := r.repo.Create(log); err != nil {
		r.log.Warn().Err(err).
			Str("action", e.Action).
			Str("entity", string(e.Entity)).
			Str("entity_id", e.EntityID).
			Msg("no se pudo persistir entrada de auditoría")
	}
}

// defaultDescription arma una descripción legible a partir de acción+entidad.
func defaultDescription(e entity.AuditEntity, action string) string {
	name := strings.ReplaceAll(string(e), "_", " ")
	return name + " " + action
}

func marshalSnapshot(values map[string]any) json.RawMessage {
	if values == nil {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return raw
}

func marshalChanges(changes map[string]FieldChange) json.RawMessage {
	if len(changes) == 0 {
		return nil
	}
	raw, err := json.Marshal(changes)
	if err != nil {
		return nil
	}
	return raw
}
