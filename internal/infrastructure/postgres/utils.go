package postgres

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// periodLockKey clave del advisory lock de un período; se pasa por hashtext() en SQL.
func periodLockKey(conjuntoID string, year, month int) string {
	return fmt.Sprintf("invoices:monthly:%s:%04d-%02d", conjuntoID, year, month)
}

// runLockKey clave del bloqueo de sesión de una corrida completa. Es distinta de
// periodLockKey: ambas se toman desde conexiones diferentes en la misma corrida.
func runLockKey(year, month int) string {
	return fmt.Sprintf("invoices:monthly-run:%04d-%02d", year, month)
}

// apartmentTypeIDs IDs de tipo de apartamento guardados en JSONB. Los datos existentes
// mezclan enteros ([1, 2]) y cadenas; todo se normaliza a string para compararlo con
// apartments.apartment_type_id::text.
type apartmentTypeIDs []string

func (ids *apartmentTypeIDs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("applicable_apartment_types: %w", err)
	}
	out := make(apartmentTypeIDs, 0, len(raw))
	for _, v := range raw {
		switch id := v.(type) {
		case string:
			out = append(out, id)
		case json.Number:
			out = append(out, id.String())
		default:
			return fmt.Errorf("applicable_apartment_types: ID de tipo inválido %v", v)
		}
	}
	*ids = out
	return nil
}
