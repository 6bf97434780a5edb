package billing

import (
	"context"

	"github.com/jhoicas/conjunto-api/internal/domain/repository"
)

// InvoicingRepos repositorios atados a una misma unidad de trabajo.
type InvoicingRepos struct {
	Conjuntos  repository.ConjuntoConfigRepository
	Apartments repository.ApartmentRepository
	Concepts   repository.PaymentConceptRepository
	Invoices   repository.InvoiceRepository
}

// InvoicingTxRunner ejecuta fn dentro de una transacción. Si ctx ya trae una transacción
// abierta por el mismo runner, fn corre en una unidad anidada (savepoint): un error en fn
// revierte solo lo hecho dentro de ella y la transacción externa sigue utilizable.
//
// RunPeriodExclusive ejecuta fn sosteniendo un bloqueo del período que dura toda la llamada,
// independiente de las transacciones que fn abra y confirme. Dos corridas del mismo período
// nunca se solapan, aunque cada apartamento confirme en su propia transacción.
type InvoicingTxRunner interface {
	RunInvoicing(ctx context.Context, fn func(ctx context.Context, repos InvoicingRepos) error) error
	RunPeriodExclusive(ctx context.Context, year, month int, fn func(ctx context.Context) error) error
}
