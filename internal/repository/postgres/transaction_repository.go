package postgres

import (
	"api_ledger/internal/repository"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateTx добавляет запись в журнал переводов. Журнал только растет,
// записи никогда не изменяются.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx pgx.Tx, fromWalletID, toWalletID uuid.UUID, amount int64) (uuid.UUID, error) {
	id := uuid.New()
	if _, err := tx.Exec(ctx, repository.CreateTransactionQuery, id, fromWalletID, toWalletID, amount); err != nil {
		return uuid.Nil, fmt.Errorf("ошибка записи перевода в журнал: %w", err)
	}
	return id, nil
}

func (r *TransactionRepository) ReceiverTotals(ctx context.Context, fromWalletID uuid.UUID, from, to time.Time) ([]repository.ReceiverTotal, error) {
	rows, err := r.db.Query(ctx, repository.ReceiverTotalsQuery, fromWalletID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка агрегации переводов: %w", err)
	}
	defer rows.Close()

	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.ReceiverTotal, error) {
		var t repository.ReceiverTotal
		err := row.Scan(&t.UserID, &t.Total)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения агрегатов переводов: %w", err)
	}
	return totals, nil
}
