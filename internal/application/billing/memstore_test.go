package billing_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/conjunto-api/internal/application/billing"
	"github.com/jhoicas/conjunto-api/internal/domain/entity"
)

// memStore almacenamiento en memoria con transacciones simuladas: cada RunInvoicing toma
// una copia del estado y la restaura si fn falla (anidado incluido).
type memStore struct {
	conjuntos  []*entity.ConjuntoConfig
	apartments []*entity.Apartment
	concepts   []*entity.PaymentConcept

	invoices map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceItem
	order    []string
	seq      int

	// inyección de fallos
	failCreateFor map[string]error // por ApartmentID
	failItemFor   map[string]error // por ApartmentID
	badTotalFor   map[string]bool  // RecalculateTotals devuelve un total incorrecto
	failCount     error
	failConjuntos error

	topLevelTx int
	nestedTx   int
	locks      []string
	listCalls  int

	// bloqueo de corrida: serializa corridas concurrentes sobre el mismo store
	runMu              sync.Mutex
	exclusiveHeld      bool
	exclusiveRuns      []string
	txOutsideExclusive int
}

func newMemStore() *memStore {
	return &memStore{
		invoices:      make(map[string]*entity.Invoice),
		items:         make(map[string][]*entity.InvoiceItem),
		failCreateFor: make(map[string]error),
		failItemFor:   make(map[string]error),
		badTotalFor:   make(map[string]bool),
	}
}

type memSnapshot struct {
	invoices map[string]entity.Invoice
	items    map[string][]entity.InvoiceItem
	order    []string
	seq      int
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		invoices: make(map[string]entity.Invoice, len(s.invoices)),
		items:    make(map[string][]entity.InvoiceItem, len(s.items)),
		order:    slices.Clone(s.order),
		seq:      s.seq,
	}
	for id, inv := range s.invoices {
		snap.invoices[id] = *inv
	}
	for id, its := range s.items {
		cp := make([]entity.InvoiceItem, 0, len(its))
		for _, it := range its {
			cp = append(cp, *it)
		}
		snap.items[id] = cp
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.invoices = make(map[string]*entity.Invoice, len(snap.invoices))
	for id, inv := range snap.invoices {
		inv := inv
		s.invoices[id] = &inv
	}
	s.items = make(map[string][]*entity.InvoiceItem, len(snap.items))
	for id, its := range snap.items {
		out := make([]*entity.InvoiceItem, 0, len(its))
		for i := range its {
			it := its[i]
			out = append(out, &it)
		}
		s.items[id] = out
	}
	s.order = snap.order
	s.seq = snap.seq
}

// invoicesOf facturas visibles en orden de creación.
func (s *memStore) invoicesOf(year, month int) []*entity.Invoice {
	var out []*entity.Invoice
	for _, id := range s.order {
		inv := s.invoices[id]
		if inv.BillingPeriodYear == year && inv.BillingPeriodMonth == month {
			out = append(out, inv)
		}
	}
	return out
}

func (s *memStore) invoiceForApartment(apartmentID string) *entity.Invoice {
	for _, id := range s.order {
		if s.invoices[id].ApartmentID == apartmentID {
			return s.invoices[id]
		}
	}
	return nil
}

// ── runner ────────────────────────────────────────────────────────────────────

type txKey struct{}

type memRunner struct{ store *memStore }

func (r *memRunner) RunPeriodExclusive(ctx context.Context, year, month int, fn func(ctx context.Context) error) error {
	r.store.runMu.Lock()
	defer r.store.runMu.Unlock()
	r.store.exclusiveHeld = true
	defer func() { r.store.exclusiveHeld = false }()
	r.store.exclusiveRuns = append(r.store.exclusiveRuns, fmt.Sprintf("%04d-%02d", year, month))
	return fn(ctx)
}

func (r *memRunner) RunInvoicing(ctx context.Context, fn func(ctx context.Context, repos billing.InvoicingRepos) error) error {
	if ctx.Value(txKey{}) != nil {
		r.store.nestedTx++
	} else {
		r.store.topLevelTx++
		if !r.store.exclusiveHeld {
			r.store.txOutsideExclusive++
		}
		ctx = context.WithValue(ctx, txKey{}, true)
	}
	snap := r.store.snapshot()
	repos := billing.InvoicingRepos{
		Conjuntos:  memConjuntos{r.store},
		Apartments: memApartments{r.store},
		Concepts:   memConcepts{r.store},
		Invoices:   memInvoices{r.store},
	}
	if err := fn(ctx, repos); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// ── repos ─────────────────────────────────────────────────────────────────────

type memConjuntos struct{ s *memStore }

func (m memConjuntos) ListActive(ctx context.Context) ([]*entity.ConjuntoConfig, error) {
	if m.s.failConjuntos != nil {
		return nil, m.s.failConjuntos
	}
	var out []*entity.ConjuntoConfig
	for _, c := range m.s.conjuntos {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m memConjuntos) GetByID(ctx context.Context, id string) (*entity.ConjuntoConfig, error) {
	for _, c := range m.s.conjuntos {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

type memApartments struct{ s *memStore }

func (m memApartments) ListByConjuntoAndStatus(ctx context.Context, conjuntoID string, statuses []string) ([]*entity.Apartment, error) {
	m.s.listCalls++
	var out []*entity.Apartment
	for _, a := range m.s.apartments {
		if a.ConjuntoConfigID != conjuntoID {
			continue
		}
		if len(statuses) > 0 && !slices.Contains(statuses, a.Status) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m memApartments) GetByID(ctx context.Context, id string) (*entity.Apartment, error) {
	for _, a := range m.s.apartments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

type memConcepts struct{ s *memStore }

func (m memConcepts) ListMonthlyCommonExpenses(ctx context.Context, conjuntoID string) ([]*entity.PaymentConcept, error) {
	var out []*entity.PaymentConcept
	for _, c := range m.s.concepts {
		if c.ConjuntoConfigID == conjuntoID && c.IsMonthlyCommonExpense() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m memConcepts) ListByConjunto(ctx context.Context, conjuntoID string) ([]*entity.PaymentConcept, error) {
	var out []*entity.PaymentConcept
	for _, c := range m.s.concepts {
		if c.ConjuntoConfigID == conjuntoID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memInvoices struct{ s *memStore }

func (m memInvoices) LockPeriod(ctx context.Context, conjuntoID string, year, month int) error {
	if ctx.Value(txKey{}) == nil {
		return errors.New("LockPeriod fuera de transacción")
	}
	m.s.locks = append(m.s.locks, fmt.Sprintf("%s:%04d-%02d", conjuntoID, year, month))
	return nil
}

func (m memInvoices) CountMonthlyByPeriod(ctx context.Context, conjuntoID string, year, month int) (int, error) {
	if m.s.failCount != nil {
		return 0, m.s.failCount
	}
	n := 0
	for _, inv := range m.s.invoices {
		if inv.ConjuntoConfigID == conjuntoID && inv.Type == entity.InvoiceTypeMonthly &&
			inv.BillingPeriodYear == year && inv.BillingPeriodMonth == month {
			n++
		}
	}
	return n, nil
}

func (m memInvoices) DeleteMonthlyByPeriod(ctx context.Context, conjuntoID string, year, month int) (int64, error) {
	var deleted int64
	kept := m.s.order[:0:0]
	for _, id := range m.s.order {
		inv := m.s.invoices[id]
		if inv.ConjuntoConfigID == conjuntoID && inv.Type == entity.InvoiceTypeMonthly &&
			inv.BillingPeriodYear == year && inv.BillingPeriodMonth == month {
			delete(m.s.items, id)
			delete(m.s.invoices, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	m.s.order = kept
	return deleted, nil
}

func (m memInvoices) Create(ctx context.Context, invoice *entity.Invoice) error {
	if err := m.s.failCreateFor[invoice.ApartmentID]; err != nil {
		return err
	}
	m.s.seq++
	invoice.ID = fmt.Sprintf("inv-%d", m.s.seq)
	cp := *invoice
	m.s.invoices[invoice.ID] = &cp
	m.s.order = append(m.s.order, invoice.ID)
	return nil
}

func (m memInvoices) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	inv, ok := m.s.invoices[item.InvoiceID]
	if !ok {
		return errors.New("factura inexistente")
	}
	if err := m.s.failItemFor[inv.ApartmentID]; err != nil {
		return err
	}
	m.s.seq++
	item.ID = fmt.Sprintf("item-%d", m.s.seq)
	cp := *item
	m.s.items[item.InvoiceID] = append(m.s.items[item.InvoiceID], &cp)
	return nil
}

func (m memInvoices) RecalculateTotals(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	inv, ok := m.s.invoices[invoiceID]
	if !ok {
		return decimal.Zero, errors.New("factura inexistente")
	}
	total := decimal.Zero
	for _, it := range m.s.items[invoiceID] {
		total = total.Add(it.Quantity.Mul(it.UnitPrice))
	}
	total = total.Round(2)
	if m.s.badTotalFor[inv.ApartmentID] {
		total = total.Add(decimal.NewFromInt(1))
	}
	inv.Total = total
	return total, nil
}

func (m memInvoices) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, ok := m.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return inv, nil
}

func (m memInvoices) GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	return m.s.items[invoiceID], nil
}

func (m memInvoices) ListMonthlyByPeriod(ctx context.Context, conjuntoID string, year, month int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range m.s.invoicesOf(year, month) {
		if inv.ConjuntoConfigID == conjuntoID && inv.Type == entity.InvoiceTypeMonthly {
			out = append(out, inv)
		}
	}
	return out, nil
}
