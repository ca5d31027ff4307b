package repository

import (
	"context"
	"time"

	"api_ledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Subscription работает с подписками и их биллинговыми периодами.
// Методы с суффиксом Tx выполняются внутри переданной транзакции:
// блокировки строк живут до ее коммита.
type Subscription interface {
	GetOrCreateForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Subscription, error)
	GetByUserForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Subscription, error)
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Subscription, error)

	GetPaidPeriodCoveringTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (*models.BillingPeriod, error)
	GetUnpaidPeriodCoveringTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (*models.BillingPeriod, error)
	CreatePeriodTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, startsAt, endsAt time.Time) (*models.BillingPeriod, error)
	MarkPeriodPaidTx(ctx context.Context, tx pgx.Tx, periodID uuid.UUID, paidAt time.Time, paymentToken string) error
	MarkPeriodCanceledTx(ctx context.Context, tx pgx.Tx, periodID uuid.UUID, canceledAt time.Time) error
	PeriodExistsCoveringTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (bool, error)

	MonthHasPeriods(ctx context.Context, at time.Time) (bool, error)
	LastPeriods(ctx context.Context) ([]models.BillingPeriod, error)
}
