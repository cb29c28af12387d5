// Package postgres implementa la persistencia opcional del dataset vigente.
// Con DATASET_STORE=postgres el dataset sobrevive reinicios del proceso; la
// semántica es la misma que en memoria: un único dataset vigente por vez.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cashflow-api/internal/domain"
	"github.com/jhoicas/cashflow-api/internal/domain/entity"
	"github.com/jhoicas/cashflow-api/internal/domain/repository"
)

var _ repository.DatasetRepository = (*DatasetRepo)(nil)

// DatasetRepo implementación del puerto DatasetRepository sobre PostgreSQL.
type DatasetRepo struct {
	pool *pgxpool.Pool
}

// NewDatasetRepository construye el adaptador de persistencia del dataset.
func NewDatasetRepository(pool *pgxpool.Pool) *DatasetRepo {
	return &DatasetRepo{pool: pool}
}

// EnsureSchema crea las tablas del dataset si no existen. Se llama una vez al
// arrancar; no hay migraciones versionadas para este esquema.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS datasets (
		id        TEXT PRIMARY KEY,
		loaded_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS dataset_transactions (
		dataset_id     TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
		transaction_id TEXT NOT NULL,
		day            DATE NOT NULL,
		product_id     TEXT NOT NULL,
		product_name   TEXT NOT NULL,
		quantity       BIGINT NOT NULL,
		gross_sales    NUMERIC NOT NULL,
		discount       NUMERIC NOT NULL,
		net_sales      NUMERIC NOT NULL,
		cogs           NUMERIC NOT NULL,
		gross_profit   NUMERIC NOT NULL,
		payment_type   TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS dataset_refunds (
		dataset_id     TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
		refund_id      TEXT NOT NULL,
		transaction_id TEXT NOT NULL,
		refund_amount  NUMERIC NOT NULL,
		refund_date    DATE NOT NULL
	);
	CREATE TABLE IF NOT EXISTS dataset_payouts (
		dataset_id     TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
		payout_date    DATE NOT NULL,
		processor_fees NUMERIC NOT NULL,
		net_payout     NUMERIC NOT NULL
	);
	CREATE TABLE IF NOT EXISTS dataset_products (
		dataset_id   TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
		product_id   TEXT NOT NULL,
		product_name TEXT NOT NULL,
		cogs         NUMERIC NOT NULL
	);`

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("crear esquema de datasets: %w", err)
	}
	return nil
}

// Save reemplaza el dataset vigente dentro de una transacción: borra el
// anterior (cascade) e inserta el nuevo con CopyFrom por colección.
func (r *DatasetRepo) Save(ctx context.Context, ds *entity.CashFlowDataset) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM datasets`); err != nil {
		return fmt.Errorf("borrar dataset anterior: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO datasets (id, loaded_at) VALUES ($1, $2)`,
		ds.ID, ds.LoadedAt,
	); err != nil {
		return fmt.Errorf("insertar dataset: %w", err)
	}

	if len(ds.Transactions) > 0 {
		rows := make([][]interface{}, 0, len(ds.Transactions))
		for _, t := range ds.Transactions {
			rows = append(rows, []interface{}{
				ds.ID, t.ID, t.Day, t.ProductID, t.ProductName, t.Quantity,
				t.GrossSales, t.Discount, t.NetSales, t.COGS, t.GrossProfit, t.PaymentType,
			})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"dataset_transactions"},
			[]string{"dataset_id", "transaction_id", "day", "product_id", "product_name", "quantity",
				"gross_sales", "discount", "net_sales", "cogs", "gross_profit", "payment_type"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("copiar transacciones: %w", err)
		}
	}

	if len(ds.Refunds) > 0 {
		rows := make([][]interface{}, 0, len(ds.Refunds))
		for _, rf := range ds.Refunds {
			rows = append(rows, []interface{}{ds.ID, rf.ID, rf.TransactionID, rf.RefundAmount, rf.RefundDate})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"dataset_refunds"},
			[]string{"dataset_id", "refund_id", "transaction_id", "refund_amount", "refund_date"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("copiar refunds: %w", err)
		}
	}

	if len(ds.Payouts) > 0 {
		rows := make([][]interface{}, 0, len(ds.Payouts))
		for _, p := range ds.Payouts {
			rows = append(rows, []interface{}{ds.ID, p.PayoutDate, p.ProcessorFees, p.NetPayout})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"dataset_payouts"},
			[]string{"dataset_id", "payout_date", "processor_fees", "net_payout"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("copiar payouts: %w", err)
		}
	}

	if len(ds.Products) > 0 {
		rows := make([][]interface{}, 0, len(ds.Products))
		for _, p := range ds.Products {
			rows = append(rows, []interface{}{ds.ID, p.ProductID, p.ProductName, p.COGS})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"dataset_products"},
			[]string{"dataset_id", "product_id", "product_name", "cogs"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("copiar productos: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Current carga el dataset vigente completo o devuelve domain.ErrNoDataset.
func (r *DatasetRepo) Current(ctx context.Context) (*entity.CashFlowDataset, error) {
	ds := &entity.CashFlowDataset{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, loaded_at FROM datasets ORDER BY loaded_at DESC LIMIT 1`,
	).Scan(&ds.ID, &ds.LoadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoDataset
		}
		return nil, fmt.Errorf("leer dataset: %w", err)
	}

	if ds.Transactions, err = r.loadTransactions(ctx, ds.ID); err != nil {
		return nil, err
	}
	if ds.Refunds, err = r.loadRefunds(ctx, ds.ID); err != nil {
		return nil, err
	}
	if ds.Payouts, err = r.loadPayouts(ctx, ds.ID); err != nil {
		return nil, err
	}
	if ds.Products, err = r.loadProducts(ctx, ds.ID); err != nil {
		return nil, err
	}
	return ds, nil
}

// Clear descarta el dataset vigente; es idempotente.
func (r *DatasetRepo) Clear(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM datasets`); err != nil {
		return fmt.Errorf("borrar dataset: %w", err)
	}
	return nil
}

func (r *DatasetRepo) loadTransactions(ctx context.Context, datasetID string) ([]entity.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT transaction_id, day, product_id, product_name, quantity,
		       gross_sales, discount, net_sales, cogs, gross_profit, payment_type
		FROM dataset_transactions WHERE dataset_id = $1`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("leer transacciones: %w", err)
	}
	defer rows.Close()

	var txs []entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.Day, &t.ProductID, &t.ProductName, &t.Quantity,
			&t.GrossSales, &t.Discount, &t.NetSales, &t.COGS, &t.GrossProfit, &t.PaymentType); err != nil {
			return nil, fmt.Errorf("scan transacción: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *DatasetRepo) loadRefunds(ctx context.Context, datasetID string) ([]entity.Refund, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT refund_id, transaction_id, refund_amount, refund_date
		FROM dataset_refunds WHERE dataset_id = $1`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("leer refunds: %w", err)
	}
	defer rows.Close()

	var refunds []entity.Refund
	for rows.Next() {
		var rf entity.Refund
		if err := rows.Scan(&rf.ID, &rf.TransactionID, &rf.RefundAmount, &rf.RefundDate); err != nil {
			return nil, fmt.Errorf("scan refund: %w", err)
		}
		refunds = append(refunds, rf)
	}
	return refunds, rows.Err()
}

func (r *DatasetRepo) loadPayouts(ctx context.Context, datasetID string) ([]entity.Payout, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT payout_date, processor_fees, net_payout
		FROM dataset_payouts WHERE dataset_id = $1`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("leer payouts: %w", err)
	}
	defer rows.Close()

	var payouts []entity.Payout
	for rows.Next() {
		var p entity.Payout
		if err := rows.Scan(&p.PayoutDate, &p.ProcessorFees, &p.NetPayout); err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

func (r *DatasetRepo) loadProducts(ctx context.Context, datasetID string) ([]entity.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, product_name, cogs
		FROM dataset_products WHERE dataset_id = $1`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("leer productos: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.COGS); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
