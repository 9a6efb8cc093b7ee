package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// StockMovement registro inmutable de un cambio de stock. Se crea exactamente una vez
// por línea de orden aprobada/despachada o por ajuste manual; nunca se actualiza ni borra.
// Crear un movimiento es la única vía legal para cambiar el stock de un item.
type StockMovement struct {
	ID        string
	ItemID    string
	Type      string // IN, OUT
	Quantity  int64  // siempre positivo; el signo lo da Type
	Reference string // número de orden (PO/SO) o razón manual
	Note      string
	CreatedAt time.Time
	CreatedBy string // UserID
}

// SignedQuantity devuelve la cantidad con signo según el tipo (+IN, -OUT).
func (m *StockMovement) SignedQuantity() int64 {
	if m.Type == MovementTypeOUT {
		return -m.Quantity
	}
	return m.Quantity
}
