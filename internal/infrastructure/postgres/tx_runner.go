package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/conjunto-api/internal/application/billing"
)

var _ billing.InvoicingTxRunner = (*TxRunner)(nil)

type txCtxKey struct{}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInvoicing ejecuta fn con los repositorios de facturación atados a la transacción.
// Si ctx ya trae una transacción de este runner, fn corre en un SAVEPOINT de ella.
func (r *TxRunner) RunInvoicing(ctx context.Context, fn func(ctx context.Context, repos billing.InvoicingRepos) error) error {
	return r.withTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewInvoicingRepos(tx))
	})
}

// RunPeriodExclusive toma pg_advisory_lock (de sesión) sobre una conexión reservada del
// pool y lo libera al terminar fn. A diferencia de LockPeriod, el bloqueo sobrevive a los
// Commit que haga fn, así que también cubre la política por apartamento.
func (r *TxRunner) RunPeriodExclusive(ctx context.Context, year, month int, fn func(ctx context.Context) error) (err error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("reservar conexión para bloqueo: %w", err)
	}
	defer conn.Release()

	key := runLockKey(year, month)
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("bloquear corrida %s: %w", key, err)
	}
	defer func() {
		// ctx puede estar cancelado; el desbloqueo no debe depender de él.
		if _, uerr := conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock(hashtext($1))`, key); uerr != nil {
			// La conexión no vuelve al pool con el bloqueo tomado.
			_ = conn.Conn().Close(context.WithoutCancel(ctx))
			if err == nil {
				err = fmt.Errorf("liberar bloqueo %s: %w", key, uerr)
			}
		}
	}()

	return fn(ctx)
}

// withTx abre la transacción (READ COMMITTED) o el savepoint y hace Commit o Rollback.
// READ COMMITTED para que, tras tomar el advisory lock del período, el conteo vea lo que
// otra corrida ya confirmó.
func (r *TxRunner) withTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	var (
		tx  pgx.Tx
		err error
	)
	if outer, ok := ctx.Value(txCtxKey{}).(pgx.Tx); ok {
		tx, err = outer.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin savepoint: %w", err)
		}
	} else {
		tx, err = r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx), tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewInvoicingRepos repositorios de facturación sobre pool o tx.
func NewInvoicingRepos(q Querier) billing.InvoicingRepos {
	return billing.InvoicingRepos{
		Conjuntos:  NewConjuntoConfigRepository(q),
		Apartments: NewApartmentRepository(q),
		Concepts:   NewPaymentConceptRepository(q),
		Invoices:   NewInvoiceRepository(q),
	}
}
