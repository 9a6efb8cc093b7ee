package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/inventory"
)

// TestWeightedAverageCost_MezclaDeCostos verifica el promedio ponderado clásico:
// 10 unidades a 100 + 10 unidades a 200 = 20 unidades a 150.
func TestWeightedAverageCost_MezclaDeCostos(t *testing.T) {
	got := inventory.WeightedAverageCost(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(150)),
		"promedio de 10@100 y 10@200 debe ser 150, fue %s", got)
}

// TestWeightedAverageCost_SinStockPrevio con stock cero el costo resultante es
// el costo entrante, sin importar el costo anterior.
func TestWeightedAverageCost_SinStockPrevio(t *testing.T) {
	got := inventory.WeightedAverageCost(0, decimal.NewFromInt(999), 5, decimal.NewFromInt(40))
	assert.True(t, got.Equal(decimal.NewFromInt(40)),
		"sin stock previo el costo debe ser el entrante, fue %s", got)
}

// TestWeightedAverageCost_TotalCero denominador cero: devuelve el costo entrante.
func TestWeightedAverageCost_TotalCero(t *testing.T) {
	got := inventory.WeightedAverageCost(0, decimal.Zero, 0, decimal.NewFromInt(7))
	assert.True(t, got.Equal(decimal.NewFromInt(7)))
}

// TestWeightedAverageCost_Redondeo el resultado se redondea a 4 decimales.
func TestWeightedAverageCost_Redondeo(t *testing.T) {
	// (1*1 + 2*2) / 3 = 5/3 = 1.6667 redondeado
	got := inventory.WeightedAverageCost(1, decimal.NewFromInt(1), 2, decimal.NewFromInt(2))
	assert.True(t, got.Equal(decimal.RequireFromString("1.6667")),
		"5/3 debe redondear a 1.6667, fue %s", got)
}
