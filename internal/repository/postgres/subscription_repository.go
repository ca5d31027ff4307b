package postgres

import (
	"api_ledger/internal/custom_err"
	"api_ledger/internal/models"
	"api_ledger/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetOrCreateForUpdateTx возвращает подписку пользователя, создавая ее при
// первом обращении. Строка подписки блокируется до конца транзакции: это
// сериализует activate/cancel/rollover по одной подписке.
func (r *SubscriptionRepository) GetOrCreateForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Subscription, error) {
	if _, err := tx.Exec(ctx, repository.CreateSubscriptionQuery, uuid.New(), userID); err != nil {
		return nil, fmt.Errorf("ошибка создания подписки: %w", err)
	}
	return r.GetByUserForUpdateTx(ctx, tx, userID)
}

func (r *SubscriptionRepository) GetByUserForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := tx.QueryRow(ctx, repository.GetSubscriptionByUserForUpdateQuery, userID).Scan(
		&sub.ID, &sub.UserID, &sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения подписки: %w", err)
	}
	return &sub, nil
}

func (r *SubscriptionRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := tx.QueryRow(ctx, repository.GetSubscriptionForUpdateQuery, id).Scan(
		&sub.ID, &sub.UserID, &sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения подписки: %w", err)
	}
	return &sub, nil
}

// GetPaidPeriodCoveringTx ищет оплаченный период, покрывающий момент at.
// Периоды одной подписки не должны пересекаться; если найдено больше одного,
// это нарушение инварианта и операция прерывается с ErrDuplicatePeriod.
func (r *SubscriptionRepository) GetPaidPeriodCoveringTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (*models.BillingPeriod, error) {
	rows, err := tx.Query(ctx, repository.GetPaidPeriodsCoveringQuery, subscriptionID, at)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска оплаченного периода: %w", err)
	}
	defer rows.Close()

	var periods []models.BillingPeriod
	for rows.Next() {
		var p models.BillingPeriod
		if err := rows.Scan(&p.ID, &p.SubscriptionID, &p.StartsAt, &p.EndsAt, &p.PaidAt, &p.PaymentToken, &p.CanceledAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения периода: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения периодов: %w", err)
	}

	switch len(periods) {
	case 0:
		return nil, custom_err.ErrNotFound
	case 1:
		return &periods[0], nil
	default:
		return nil, custom_err.ErrDuplicatePeriod
	}
}

func (r *SubscriptionRepository) GetUnpaidPeriodCoveringTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (*models.BillingPeriod, error) {
	var p models.BillingPeriod
	err := tx.QueryRow(ctx, repository.GetUnpaidPeriodCoveringQuery, subscriptionID, at).Scan(
		&p.ID, &p.SubscriptionID, &p.StartsAt, &p.EndsAt, &p.PaidAt, &p.PaymentToken, &p.CanceledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка поиска неоплаченного периода: %w", err)
	}
	return &p, nil
}

func (r *SubscriptionRepository) CreatePeriodTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, startsAt, endsAt time.Time) (*models.BillingPeriod, error) {
	period := models.BillingPeriod{
		ID:             uuid.New(),
		SubscriptionID: subscriptionID,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
	}
	if _, err := tx.Exec(ctx, repository.CreatePeriodQuery, period.ID, subscriptionID, startsAt, endsAt); err != nil {
		return nil, fmt.Errorf("ошибка создания биллингового периода: %w", err)
	}
	return &period, nil
}

// MarkPeriodPaidTx — односторонний переход: оплатить можно только
// неоплаченный период, WHERE paid_at IS NULL страхует от повтора.
func (r *SubscriptionRepository) MarkPeriodPaidTx(ctx context.Context, tx pgx.Tx, periodID uuid.UUID, paidAt time.Time, paymentToken string) error {
	cmdTag, err := tx.Exec(ctx, repository.MarkPeriodPaidQuery, paidAt, paymentToken, periodID)
	if err != nil {
		return fmt.Errorf("ошибка отметки оплаты периода: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return custom_err.ErrAlreadyPaid
	}
	return nil
}

func (r *SubscriptionRepository) MarkPeriodCanceledTx(ctx context.Context, tx pgx.Tx, periodID uuid.UUID, canceledAt time.Time) error {
	cmdTag, err := tx.Exec(ctx, repository.MarkPeriodCanceledQuery, canceledAt, periodID)
	if err != nil {
		return fmt.Errorf("ошибка отметки отмены периода: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return custom_err.ErrNotActive
	}
	return nil
}

func (r *SubscriptionRepository) PeriodExistsCoveringTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (bool, error) {
	var exists bool
	if err := tx.QueryRow(ctx, repository.PeriodExistsCoveringQuery, subscriptionID, at).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки периода подписки: %w", err)
	}
	return exists, nil
}

func (r *SubscriptionRepository) MonthHasPeriods(ctx context.Context, at time.Time) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, repository.MonthHasPeriodsQuery, at).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки периодов месяца: %w", err)
	}
	return exists, nil
}

// LastPeriods возвращает по одному последнему периоду на подписку.
// При равных ends_at побеждает больший id, чтобы порядок был детерминирован.
func (r *SubscriptionRepository) LastPeriods(ctx context.Context) ([]models.BillingPeriod, error) {
	rows, err := r.db.Query(ctx, repository.LastPeriodsQuery)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки последних периодов: %w", err)
	}
	defer rows.Close()

	var periods []models.BillingPeriod
	for rows.Next() {
		var p models.BillingPeriod
		if err := rows.Scan(&p.ID, &p.SubscriptionID, &p.StartsAt, &p.EndsAt, &p.PaidAt, &p.PaymentToken, &p.CanceledAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения периода: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка выборки последних периодов: %w", err)
	}
	return periods, nil
}
