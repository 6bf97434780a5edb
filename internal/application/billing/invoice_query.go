package billing

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/conjunto-api/internal/application/dto"
	"github.com/jhoicas/conjunto-api/internal/domain"
	domainbilling "github.com/jhoicas/conjunto-api/internal/domain/billing"
	"github.com/jhoicas/conjunto-api/internal/domain/entity"
	"github.com/jhoicas/conjunto-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// InvoiceQueryUseCase consultas de facturas ya generadas.
type InvoiceQueryUseCase struct {
	conjuntos  repository.ConjuntoConfigRepository
	apartments repository.ApartmentRepository
	invoices   repository.InvoiceRepository
	policy     domainbilling.PeriodPolicy
}

// NewInvoiceQueryUseCase construye el caso de uso.
func NewInvoiceQueryUseCase(
	conjuntos repository.ConjuntoConfigRepository,
	apartments repository.ApartmentRepository,
	invoices repository.InvoiceRepository,
	policy domainbilling.PeriodPolicy,
) *InvoiceQueryUseCase {
	return &InvoiceQueryUseCase{conjuntos: conjuntos, apartments: apartments, invoices: invoices, policy: policy}
}

// GetInvoice factura con sus líneas y la dirección del apartamento.
func (uc *InvoiceQueryUseCase) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	var (
		items []*entity.InvoiceItem
		apt   *entity.Apartment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if items, err = uc.invoices.GetItemsByInvoiceID(gctx, inv.ID); err != nil {
			return fmt.Errorf("consultar líneas: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if apt, err = uc.apartments.GetByID(gctx, inv.ApartmentID); err != nil {
			return fmt.Errorf("consultar apartamento: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := toInvoiceResponse(inv, apt)
	out.Items = make([]dto.InvoiceItemResponse, 0, len(items))
	for _, it := range items {
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			ID:               it.ID,
			PaymentConceptID: it.PaymentConceptID,
			Description:      it.Description,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			Total:            it.Total,
			PeriodStart:      it.PeriodStart.Format(dateLayout),
			PeriodEnd:        it.PeriodEnd.Format(dateLayout),
		})
	}
	return out, nil
}

// ListMonthly facturas mensuales del conjunto activo para el período, sin líneas.
func (uc *InvoiceQueryUseCase) ListMonthly(ctx context.Context, year, month int) ([]*dto.InvoiceResponse, error) {
	if err := uc.policy.Validate(year, month); err != nil {
		return nil, err
	}
	configs, err := uc.conjuntos.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("consultar conjunto activo: %w", err)
	}
	conjunto, err := domainbilling.ResolveActiveConjunto(configs)
	if err != nil {
		return nil, err
	}

	var (
		invoices   []*entity.Invoice
		apartments []*entity.Apartment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if invoices, err = uc.invoices.ListMonthlyByPeriod(gctx, conjunto.ID, year, month); err != nil {
			return fmt.Errorf("listar facturas: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if apartments, err = uc.apartments.ListByConjuntoAndStatus(gctx, conjunto.ID, nil); err != nil {
			return fmt.Errorf("consultar apartamentos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Apartment, len(apartments))
	for _, a := range apartments {
		byID[a.ID] = a
	}

	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv, byID[inv.ApartmentID]))
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.Invoice, apt *entity.Apartment) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:                 inv.ID,
		Number:             inv.Number,
		ConjuntoConfigID:   inv.ConjuntoConfigID,
		ApartmentID:        inv.ApartmentID,
		Type:               inv.Type,
		Status:             inv.Status,
		BillingDate:        inv.BillingDate.Format(dateLayout),
		DueDate:            inv.DueDate.Format(dateLayout),
		BillingPeriodYear:  inv.BillingPeriodYear,
		BillingPeriodMonth: inv.BillingPeriodMonth,
		Total:              inv.Total,
	}
	if apt != nil {
		out.ApartmentNumber = apt.Number
		out.ApartmentAddress = apt.FullAddress()
	}
	return out
}
