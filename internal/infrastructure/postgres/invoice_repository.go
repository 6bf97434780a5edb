package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/conjunto-api/internal/domain"
	"github.com/jhoicas/conjunto-api/internal/domain/entity"
	"github.com/jhoicas/conjunto-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const monthlyPeriodFilter = `
	conjunto_config_id = $1 AND type = 'monthly'
	AND billing_period_year = $2 AND billing_period_month = $3`

// LockPeriod toma un advisory lock transaccional del período.
func (r *InvoiceRepo) LockPeriod(ctx context.Context, conjuntoID string, year, month int) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, periodLockKey(conjuntoID, year, month))
	if err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

// CountMonthlyByPeriod facturas mensuales existentes del período.
func (r *InvoiceRepo) CountMonthlyByPeriod(ctx context.Context, conjuntoID string, year, month int) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE`+monthlyPeriodFilter, conjuntoID, year, month).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// DeleteMonthlyByPeriod borra primero las líneas y luego las cabeceras del período.
func (r *InvoiceRepo) DeleteMonthlyByPeriod(ctx context.Context, conjuntoID string, year, month int) (int64, error) {
	_, err := r.q.Exec(ctx, `
		DELETE FROM invoice_items
		WHERE invoice_id IN (SELECT id FROM invoices WHERE`+monthlyPeriodFilter+`)`,
		conjuntoID, year, month)
	if err != nil {
		return 0, fmt.Errorf("delete invoice items: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE`+monthlyPeriodFilter, conjuntoID, year, month)
	if err != nil {
		return 0, fmt.Errorf("delete invoices: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, invoice_number, conjunto_config_id, apartment_id, type, status,
		                      billing_date, due_date, billing_period_year, billing_period_month,
		                      total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.Number, invoice.ConjuntoConfigID, invoice.ApartmentID, invoice.Type, invoice.Status,
		invoice.BillingDate, invoice.DueDate, invoice.BillingPeriodYear, invoice.BillingPeriodMonth,
		invoice.Total, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s already exists: %w", invoice.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de factura.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, payment_concept_id, description, quantity,
		                           unit_price, total_price, period_start, period_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.PaymentConceptID, item.Description, item.Quantity,
		item.UnitPrice, item.Total, item.PeriodStart, item.PeriodEnd,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// RecalculateTotals fija total_amount = Σ quantity × unit_price de las líneas ya insertadas.
func (r *InvoiceRepo) RecalculateTotals(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	query := `
		UPDATE invoices
		SET total_amount = (
		        SELECT COALESCE(ROUND(SUM(quantity * unit_price), 2), 0)
		        FROM invoice_items WHERE invoice_id = $1
		    ),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING total_amount`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, invoiceID).Scan(&total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("recalculate totals %s: %w", invoiceID, domain.ErrNotFound)
		}
		return decimal.Zero, fmt.Errorf("recalculate totals: %w", err)
	}
	return total, nil
}

const invoiceSelect = `
	SELECT id, invoice_number, conjunto_config_id, apartment_id, type, status,
	       billing_date, due_date, billing_period_year, billing_period_month,
	       total_amount, created_at, updated_at
	FROM invoices`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.ConjuntoConfigID, &inv.ApartmentID, &inv.Type, &inv.Status,
		&inv.BillingDate, &inv.DueDate, &inv.BillingPeriodYear, &inv.BillingPeriodMonth,
		&inv.Total, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByID obtiene una factura por ID; nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, invoiceSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItemsByInvoiceID líneas de la factura en orden de inserción.
func (r *InvoiceRepo) GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, payment_concept_id, description, quantity, unit_price,
		       total_price, period_start, period_end
		FROM invoice_items WHERE invoice_id = $1 ORDER BY description, id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.PaymentConceptID, &it.Description, &it.Quantity, &it.UnitPrice,
			&it.Total, &it.PeriodStart, &it.PeriodEnd,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListMonthlyByPeriod facturas mensuales del período ordenadas por número.
func (r *InvoiceRepo) ListMonthlyByPeriod(ctx context.Context, conjuntoID string, year, month int) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, invoiceSelect+` WHERE`+monthlyPeriodFilter+` ORDER BY invoice_number`, conjuntoID, year, month)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
