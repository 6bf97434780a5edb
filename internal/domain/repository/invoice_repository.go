package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/conjunto-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// LockPeriod serializa generaciones concurrentes del mismo (conjunto, año, mes).
	// Solo tiene efecto dentro de una transacción; el bloqueo se libera al terminarla.
	LockPeriod(ctx context.Context, conjuntoID string, year, month int) error
	CountMonthlyByPeriod(ctx context.Context, conjuntoID string, year, month int) (int, error)
	// DeleteMonthlyByPeriod elimina las facturas mensuales del período y sus líneas.
	DeleteMonthlyByPeriod(ctx context.Context, conjuntoID string, year, month int) (int64, error)
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	// RecalculateTotals suma Quantity × UnitPrice de las líneas existentes, lo persiste y lo devuelve.
	RecalculateTotals(ctx context.Context, invoiceID string) (decimal.Decimal, error)
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	ListMonthlyByPeriod(ctx context.Context, conjuntoID string, year, month int) ([]*entity.Invoice, error)
}
