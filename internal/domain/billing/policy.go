package billing

import "fmt"

// TxPolicy alcance transaccional de una corrida de facturación.
type TxPolicy string

const (
	// TxWholeRun una transacción para toda la corrida; cada apartamento en un savepoint.
	TxWholeRun TxPolicy = "whole_run"
	// TxPerApartment preparación en una transacción y cada apartamento en la suya.
	TxPerApartment TxPolicy = "per_apartment"
)

// ParseTxPolicy convierte el valor de configuración; vacío equivale a TxWholeRun.
func ParseTxPolicy(s string) (TxPolicy, error) {
	switch TxPolicy(s) {
	case "", TxWholeRun:
		return TxWholeRun, nil
	case TxPerApartment:
		return TxPerApartment, nil
	default:
		return "", fmt.Errorf("política transaccional desconocida %q (use %s o %s)", s, TxWholeRun, TxPerApartment)
	}
}
