// Package crm implementa los casos de uso de las entidades del CRM. Todas
// las operaciones comparten las mismas reglas de acceso a datos:
//
//   - Toda lectura y escritura exige organización resuelta. Sin
//     organization_id la operación falla con ErrNoTenant sin tocar la base.
//   - Las lecturas de listado pasan por la caché por tenant; las mutaciones
//     van directo al repositorio, nunca se reintentan, y solo invalidan la
//     caché del tipo de entidad cuando la mutación fue exitosa.
//   - organization_id y created_by (user_id en time entries) se estampan en
//     el servidor con la identidad autenticada, nunca se aceptan del caller.
//   - Los campos derivados (total de factura, completed_at de tareas,
//     duración de time entries) se recalculan siempre en el servidor.
package crm

import (
	"github.com/tu-usuario/crm-pro/internal/domain"
)

// requireTenant corta en seco las operaciones sin organización resuelta.
func requireTenant(organizationID string) error {
	if organizationID == "" {
		return domain.ErrNoTenant
	}
	return nil
}
