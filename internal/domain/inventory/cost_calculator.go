package inventory

import (
	"github.com/shopspring/decimal"
)

// WeightedAverageCost calcula el costo promedio ponderado tras una entrada:
// (stockActual*costoActual + cantidadEntrante*costoEntrante) / (stockActual + cantidadEntrante).
// Si el denominador es cero devuelve el costo entrante.
func WeightedAverageCost(currentQty int64, currentCost decimal.Decimal, incomingQty int64, incomingCost decimal.Decimal) decimal.Decimal {
	curQty := decimal.NewFromInt(currentQty)
	inQty := decimal.NewFromInt(incomingQty)
	total := curQty.Add(inQty)
	if total.IsZero() {
		return incomingCost
	}
	value := curQty.Mul(currentCost).Add(inQty.Mul(incomingCost))
	return value.Div(total).Round(4)
}
