package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReceiverTotal — суммарный объем переводов одному получателю за интервал.
type ReceiverTotal struct {
	UserID uuid.UUID
	Total  int64
}

type Transaction interface {
	CreateTx(ctx context.Context, tx pgx.Tx, fromWalletID, toWalletID uuid.UUID, amount int64) (uuid.UUID, error)
	ReceiverTotals(ctx context.Context, fromWalletID uuid.UUID, from, to time.Time) ([]ReceiverTotal, error)
}
