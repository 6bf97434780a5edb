package billing

import "github.com/jhoicas/conjunto-api/internal/domain/entity"

// ResolveActiveConjunto elige la única configuración activa de la lista.
// Ninguna activa o más de una son errores de generación.
func ResolveActiveConjunto(configs []*entity.ConjuntoConfig) (*entity.ConjuntoConfig, error) {
	var active []*entity.ConjuntoConfig
	for _, c := range configs {
		if c != nil && c.IsActive {
			active = append(active, c)
		}
	}
	switch len(active) {
	case 0:
		return nil, NoActiveConjunto()
	case 1:
		return active[0], nil
	default:
		return nil, AmbiguousConjunto(len(active))
	}
}
