package service

import (
	"api_ledger/internal/custom_err"
	"api_ledger/internal/repository"
	"api_ledger/internal/timeutil"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SubscriptionServicer описывает жизненный цикл подписки и ежемесячные
// задания. Все операции принимают момент времени явно: никакого скрытого
// "сейчас" внутри, чтобы их можно было тестировать независимо.
type SubscriptionServicer interface {
	Activate(ctx context.Context, userID uuid.UUID, paymentToken string, now time.Time) error
	Cancel(ctx context.Context, userID uuid.UUID, now time.Time) error
	Rollover(ctx context.Context, now time.Time) (int64, error)
	IssueTokensForMonth(ctx context.Context, now time.Time) (int64, error)
}

var _ SubscriptionServicer = (*SubscriptionService)(nil)

type TxManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type SubscriptionService struct {
	subs      repository.Subscription
	wallets   repository.Wallet
	txManager TxManager
}

func NewSubscriptionService(subs repository.Subscription, wallets repository.Wallet, txManager TxManager) *SubscriptionService {
	return &SubscriptionService{
		subs:      subs,
		wallets:   wallets,
		txManager: txManager,
	}
}

// Activate привязывает оплату к периоду текущего месяца и наполняет кошелек
// токенами. Все шаги выполняются в одной транзакции: состояние "оплачено, но
// кошелек пуст" невозможно.
func (s *SubscriptionService) Activate(ctx context.Context, userID uuid.UUID, paymentToken string, now time.Time) error {
	const op = "service.Activate"

	if paymentToken == "" {
		return custom_err.ErrInvalidPayment
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	// блокировка строки подписки сериализует повторные активации
	sub, err := s.subs.GetOrCreateForUpdateTx(ctx, tx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.subs.GetPaidPeriodCoveringTx(ctx, tx, sub.ID, now)
	if err == nil {
		return custom_err.ErrAlreadyPaid
	}
	if !errors.Is(err, custom_err.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	period, err := s.subs.GetUnpaidPeriodCoveringTx(ctx, tx, sub.ID, now)
	if errors.Is(err, custom_err.ErrNotFound) {
		period, err = s.subs.CreatePeriodTx(ctx, tx, sub.ID, timeutil.MonthStart(now), timeutil.MonthEnd(now))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.subs.MarkPeriodPaidTx(ctx, tx, period.ID, now, paymentToken); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.wallets.SetBalanceByUserTx(ctx, tx, userID, timeutil.SecondsInMonth(now)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Cancel отмечает оплаченный период текущего месяца отмененным.
func (s *SubscriptionService) Cancel(ctx context.Context, userID uuid.UUID, now time.Time) error {
	const op = "service.Cancel"

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	sub, err := s.subs.GetByUserForUpdateTx(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return custom_err.ErrNotActive
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	period, err := s.subs.GetPaidPeriodCoveringTx(ctx, tx, sub.ID, now)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return custom_err.ErrNotActive
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.subs.MarkPeriodCanceledTx(ctx, tx, period.ID, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Rollover создает период нового месяца для каждой подписки, чей последний
// период не был отменен. Операция не атомарна между подписками: частичный
// результат допустим, повторный запуск досоздает недостающие периоды,
// уже обработанные подписки пропускаются.
func (s *SubscriptionService) Rollover(ctx context.Context, now time.Time) (int64, error) {
	const op = "service.Rollover"

	// первый вызов за месяц: существующие периоды означают ошибку планировщика
	exists, err := s.subs.MonthHasPeriods(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return 0, custom_err.ErrAlreadyRolledOver
	}

	lastPeriods, err := s.subs.LastPeriods(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	startsAt, endsAt := timeutil.MonthStart(now), timeutil.MonthEnd(now)

	var created int64
	for _, last := range lastPeriods {
		if last.IsCanceled() {
			continue // подписка истекает, нового периода не будет
		}
		ok, err := s.rolloverOne(ctx, last.SubscriptionID, startsAt, endsAt, now)
		if err != nil {
			return created, fmt.Errorf("%s: подписка %s: %w", op, last.SubscriptionID, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// rolloverOne создает период для одной подписки в отдельной транзакции под
// блокировкой строки подписки: два конкурентных rollover не создадут
// дубликат, второй увидит уже существующий период и пропустит подписку.
func (s *SubscriptionService) rolloverOne(ctx context.Context, subscriptionID uuid.UUID, startsAt, endsAt, now time.Time) (bool, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := s.subs.GetForUpdateTx(ctx, tx, subscriptionID); err != nil {
		return false, err
	}

	exists, err := s.subs.PeriodExistsCoveringTx(ctx, tx, subscriptionID, now)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if _, err := s.subs.CreatePeriodTx(ctx, tx, subscriptionID, startsAt, endsAt); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// IssueTokensForMonth выставляет баланс каждого активного подписчика равным
// числу секунд в месяце. Установка абсолютная, поэтому повторный запуск
// идемпотентен. Конкурентный перевод в это же время может быть перетерт:
// начисление запускается в точке месяца, когда переводов еще нет.
func (s *SubscriptionService) IssueTokensForMonth(ctx context.Context, now time.Time) (int64, error) {
	const op = "service.IssueTokensForMonth"

	updated, err := s.wallets.SetBalanceForPaidSubscribers(ctx, timeutil.SecondsInMonth(now), now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// IsPaidAndActive сообщает, покрыт ли момент now оплаченным периодом
// подписки пользователя.
func (s *SubscriptionService) IsPaidAndActive(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	const op = "service.IsPaidAndActive"

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	sub, err := s.subs.GetByUserForUpdateTx(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.subs.GetPaidPeriodCoveringTx(ctx, tx, sub.ID, now)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, tx.Commit(ctx)
}
