package audit

import "reflect"

// FieldChange par antes/después de un campo que cambió.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Diff calcula el cambio por campo entre dos snapshots: una clave presente en new
// cuyo valor difiere del de old se registra como {old, new}. Claves que solo existen
// en old se ignoran. Si falta alguno de los dos snapshots no hay diff.
func Diff(old, new map[string]any) map[string]FieldChange {
	if old == nil || new == nil {
		return nil
	}
	changes := make(map[string]FieldChange)
	for key, newVal := range new {
		oldVal, ok := old[key]
		if !ok {
			changes[key] = FieldChange{Old: nil, New: newVal}
			continue
		}
		if !reflect.DeepEqual(oldVal, newVal) {
			changes[key] = FieldChange{Old: oldVal, New: newVal}
		}
	}
	return changes
}
