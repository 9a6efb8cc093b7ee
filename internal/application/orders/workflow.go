package orders

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/stock"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/inventory"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

// Los tres workflows (solicitud de compra, reposición, venta) comparten la misma
// máquina de estados: pending inicial y transición única hacia un estado terminal.
// Lo que varía es la política de efecto de stock, parametrizada aquí.

// StockEffect política de efecto de stock de una transición.
type StockEffect int

const (
	EffectNone StockEffect = iota // solicitud de compra: solo cambia estado
	EffectIn                      // aprobación de reposición: un IN por línea
	EffectOut                     // despacho de venta: OUT por línea, con verificación de suficiencia
)

// effectLine línea sobre la que se aplica el efecto.
type effectLine struct {
	ItemID   string
	Quantity int64
	UnitCost decimal.Decimal // solo EffectIn: recalcula costo promedio ponderado
}

// applyStockEffect aplica el efecto de stock de una transición dentro de la tx:
//  1. Bloquea cada item referenciado (SELECT FOR UPDATE) en orden ascendente por id,
//     para evitar inversiones de orden de lock entre transiciones concurrentes que
//     tocan conjuntos de items solapados.
//  2. Para OUT, verifica que la demanda acumulada por item quepa en el stock bloqueado;
//     aborta toda la transición nombrando el primer item que no alcanza.
//  3. Registra un movimiento por línea vía el journal (que ajusta el ledger).
//
// Si cualquier paso falla, el rollback de la tx garantiza que no se observe
// aplicación parcial.
func applyStockEffect(tx repository.Tx, journal *stock.Journal, effect StockEffect, lines []effectLine, reference, actorID string) error {
	if effect == EffectNone || len(lines) == 0 {
		return nil
	}

	need := make(map[string]int64, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, seen := need[l.ItemID]; !seen {
			ids = append(ids, l.ItemID)
		}
		need[l.ItemID] += l.Quantity
	}
	sort.Strings(ids)

	locked := make(map[string]*entity.Item, len(ids))
	for _, id := range ids {
		item, err := tx.Items.GetForUpdate(id)
		if err != nil {
			return err
		}
		if item == nil || item.Deleted() {
			return domain.ErrNotFound
		}
		locked[id] = item
	}

	if effect == EffectOut {
		for _, id := range ids {
			it := locked[id]
			if need[id] > it.CurrentStock {
				return &domain.InsufficientStockError{
					ItemID:    it.ID,
					SKU:       it.SKU,
					Name:      it.Name,
					Requested: need[id],
					Available: it.CurrentStock,
				}
			}
		}
	}

	movType := entity.MovementTypeIN
	if effect == EffectOut {
		movType = entity.MovementTypeOUT
	}

	for _, l := range lines {
		it := locked[l.ItemID]
		if effect == EffectIn {
			// Costo promedio ponderado con el stock previo a esta línea
			newCost := inventory.WeightedAverageCost(it.CurrentStock, it.Cost, l.Quantity, l.UnitCost)
			if err := tx.Items.UpdateCost(it.ID, newCost); err != nil {
				return err
			}
			it.Cost = newCost
		}
		if _, err := journal.RecordInTx(tx, stock.MovementInput{
			ItemID:    l.ItemID,
			Type:      movType,
			Quantity:  l.Quantity,
			Reference: reference,
			CreatedBy: actorID,
		}); err != nil {
			return err
		}
		if effect == EffectIn {
			it.CurrentStock += l.Quantity
		} else {
			it.CurrentStock -= l.Quantity
		}
	}
	return nil
}

// validateLines valida las reglas comunes de creación: al menos una línea,
// cantidades positivas y items existentes (no dados de baja).
func validateLines(items repository.ItemRepository, lines []LineInput) error {
	if len(lines) == 0 {
		return domain.NewValidationError("items", "se requiere al menos una línea")
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return domain.NewValidationError("items.quantity", "debe ser mayor a cero")
		}
		item, err := items.GetByID(l.ItemID)
		if err != nil {
			return err
		}
		if item == nil || item.Deleted() {
			return domain.ErrNotFound
		}
	}
	return nil
}

// LineInput línea de creación común a los tres tipos de orden.
type LineInput struct {
	ItemID    string
	Quantity  int64
	UnitCost  decimal.Decimal // reposición
	UnitPrice decimal.Decimal // venta
}

// NumericSuffix extrae el sufijo numérico final de un número de negocio
// ("PO-2025-0012" → 12). Devuelve 0 si no termina en dígitos. Es una sugerencia
// para que el cliente proponga el siguiente número, no una reserva: dos envíos
// concurrentes con el mismo número derivado chocan contra el constraint único
// al insertar y salen como ErrDuplicate.
func NumericSuffix(number string) int {
	trimmed := strings.TrimRightFunc(number, unicode.IsDigit)
	digits := number[len(trimmed):]
	if digits == "" {
		return 0
	}
	n := 0
	for _, r := range digits {
		n = n*10 + int(r-'0')
	}
	return n
}
