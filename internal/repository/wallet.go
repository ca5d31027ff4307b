package repository

import (
	"context"
	"time"

	"api_ledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Wallet interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	GetBalanceForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int64, error)
	AdjustBalanceTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) error
	SetBalanceByUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, balance int64) error
	SetBalanceForPaidSubscribers(ctx context.Context, balance int64, at time.Time) (int64, error)
}
