package service

import (
	"context"
	"errors"
	"time"

	"api_ledger/internal/models"
	"api_ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Эти строки проверят во время компиляции, что моки подходят под интерфейсы.
var (
	_ repository.Wallet       = (*mockWalletRepo)(nil)
	_ repository.Subscription = (*mockSubscriptionRepo)(nil)
	_ repository.Transaction  = (*mockTransactionRepo)(nil)
	_ TxManager               = (*mockTxManager)(nil)
)

// pgxTx сокращает сигнатуры функций-заглушек в тестах.
type pgxTx = pgx.Tx

// stubTx подменяет pgx.Tx в юнит-тестах: сервисы вызывают только
// Commit/Rollback, остальные методы не нужны.
type stubTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *stubTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *stubTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type mockTxManager struct {
	tx *stubTx
}

func newMockTxManager() *mockTxManager {
	return &mockTxManager{tx: &stubTx{}}
}

func (m *mockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, nil
}

type mockWalletRepo struct {
	GetByIDFunc                      func(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	CreateForUserFunc                func(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	GetBalanceForUpdateTxFunc        func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int64, error)
	AdjustBalanceTxFunc              func(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) error
	SetBalanceByUserTxFunc           func(ctx context.Context, tx pgx.Tx, userID uuid.UUID, balance int64) error
	SetBalanceForPaidSubscribersFunc func(ctx context.Context, balance int64, at time.Time) (int64, error)
}

func (m *mockWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented")
}

func (m *mockWalletRepo) CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	if m.CreateForUserFunc != nil {
		return m.CreateForUserFunc(ctx, userID)
	}
	return nil, errors.New("CreateForUserFunc not implemented")
}

func (m *mockWalletRepo) GetBalanceForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int64, error) {
	if m.GetBalanceForUpdateTxFunc != nil {
		return m.GetBalanceForUpdateTxFunc(ctx, tx, id)
	}
	return 0, errors.New("GetBalanceForUpdateTxFunc not implemented")
}

func (m *mockWalletRepo) AdjustBalanceTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) error {
	if m.AdjustBalanceTxFunc != nil {
		return m.AdjustBalanceTxFunc(ctx, tx, id, delta)
	}
	return nil
}

func (m *mockWalletRepo) SetBalanceByUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, balance int64) error {
	if m.SetBalanceByUserTxFunc != nil {
		return m.SetBalanceByUserTxFunc(ctx, tx, userID, balance)
	}
	return nil
}

func (m *mockWalletRepo) SetBalanceForPaidSubscribers(ctx context.Context, balance int64, at time.Time) (int64, error) {
	if m.SetBalanceForPaidSubscribersFunc != nil {
		return m.SetBalanceForPaidSubscribersFunc(ctx, balance, at)
	}
	return 0, errors.New("SetBalanceForPaidSubscribersFunc not implemented")
}

type mockSubscriptionRepo struct {
	GetOrCreateForUpdateTxFunc    func(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Subscription, error)
	GetByUserForUpdateTxFunc      func(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Subscription, error)
	GetForUpdateTxFunc            func(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Subscription, error)
	GetPaidPeriodCoveringTxFunc   func(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (*models.BillingPeriod, error)
	GetUnpaidPeriodCoveringTxFunc func(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (*models.BillingPeriod, error)
	CreatePeriodTxFunc            func(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, startsAt, endsAt time.Time) (*models.BillingPeriod, error)
	MarkPeriodPaidTxFunc          func(ctx context.Context, tx pgx.Tx, periodID uuid.UUID, paidAt time.Time, paymentToken string) error
	MarkPeriodCanceledTxFunc      func(ctx context.Context, tx pgx.Tx, periodID uuid.UUID, canceledAt time.Time) error
	PeriodExistsCoveringTxFunc    func(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (bool, error)
	MonthHasPeriodsFunc           func(ctx context.Context, at time.Time) (bool, error)
	LastPeriodsFunc               func(ctx context.Context) ([]models.BillingPeriod, error)
}

func (m *mockSubscriptionRepo) GetOrCreateForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Subscription, error) {
	if m.GetOrCreateForUpdateTxFunc != nil {
		return m.GetOrCreateForUpdateTxFunc(ctx, tx, userID)
	}
	return nil, errors.New("GetOrCreateForUpdateTxFunc not implemented")
}

func (m *mockSubscriptionRepo) GetByUserForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.Subscription, error) {
	if m.GetByUserForUpdateTxFunc != nil {
		return m.GetByUserForUpdateTxFunc(ctx, tx, userID)
	}
	return nil, errors.New("GetByUserForUpdateTxFunc not implemented")
}

func (m *mockSubscriptionRepo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Subscription, error) {
	if m.GetForUpdateTxFunc != nil {
		return m.GetForUpdateTxFunc(ctx, tx, id)
	}
	return &models.Subscription{ID: id}, nil
}

func (m *mockSubscriptionRepo) GetPaidPeriodCoveringTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (*models.BillingPeriod, error) {
	if m.GetPaidPeriodCoveringTxFunc != nil {
		return m.GetPaidPeriodCoveringTxFunc(ctx, tx, subscriptionID, at)
	}
	return nil, errors.New("GetPaidPeriodCoveringTxFunc not implemented")
}

func (m *mockSubscriptionRepo) GetUnpaidPeriodCoveringTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (*models.BillingPeriod, error) {
	if m.GetUnpaidPeriodCoveringTxFunc != nil {
		return m.GetUnpaidPeriodCoveringTxFunc(ctx, tx, subscriptionID, at)
	}
	return nil, errors.New("GetUnpaidPeriodCoveringTxFunc not implemented")
}

func (m *mockSubscriptionRepo) CreatePeriodTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, startsAt, endsAt time.Time) (*models.BillingPeriod, error) {
	if m.CreatePeriodTxFunc != nil {
		return m.CreatePeriodTxFunc(ctx, tx, subscriptionID, startsAt, endsAt)
	}
	return nil, errors.New("CreatePeriodTxFunc not implemented")
}

func (m *mockSubscriptionRepo) MarkPeriodPaidTx(ctx context.Context, tx pgx.Tx, periodID uuid.UUID, paidAt time.Time, paymentToken string) error {
	if m.MarkPeriodPaidTxFunc != nil {
		return m.MarkPeriodPaidTxFunc(ctx, tx, periodID, paidAt, paymentToken)
	}
	return nil
}

func (m *mockSubscriptionRepo) MarkPeriodCanceledTx(ctx context.Context, tx pgx.Tx, periodID uuid.UUID, canceledAt time.Time) error {
	if m.MarkPeriodCanceledTxFunc != nil {
		return m.MarkPeriodCanceledTxFunc(ctx, tx, periodID, canceledAt)
	}
	return nil
}

func (m *mockSubscriptionRepo) PeriodExistsCoveringTx(ctx context.Context, tx pgx.Tx, subscriptionID uuid.UUID, at time.Time) (bool, error) {
	if m.PeriodExistsCoveringTxFunc != nil {
		return m.PeriodExistsCoveringTxFunc(ctx, tx, subscriptionID, at)
	}
	return false, nil
}

func (m *mockSubscriptionRepo) MonthHasPeriods(ctx context.Context, at time.Time) (bool, error) {
	if m.MonthHasPeriodsFunc != nil {
		return m.MonthHasPeriodsFunc(ctx, at)
	}
	return false, nil
}

func (m *mockSubscriptionRepo) LastPeriods(ctx context.Context) ([]models.BillingPeriod, error) {
	if m.LastPeriodsFunc != nil {
		return m.LastPeriodsFunc(ctx)
	}
	return nil, nil
}

type mockTransactionRepo struct {
	CreateTxFunc       func(ctx context.Context, tx pgx.Tx, fromWalletID, toWalletID uuid.UUID, amount int64) (uuid.UUID, error)
	ReceiverTotalsFunc func(ctx context.Context, fromWalletID uuid.UUID, from, to time.Time) ([]repository.ReceiverTotal, error)
}

func (m *mockTransactionRepo) CreateTx(ctx context.Context, tx pgx.Tx, fromWalletID, toWalletID uuid.UUID, amount int64) (uuid.UUID, error) {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, fromWalletID, toWalletID, amount)
	}
	return uuid.New(), nil
}

func (m *mockTransactionRepo) ReceiverTotals(ctx context.Context, fromWalletID uuid.UUID, from, to time.Time) ([]repository.ReceiverTotal, error) {
	if m.ReceiverTotalsFunc != nil {
		return m.ReceiverTotalsFunc(ctx, fromWalletID, from, to)
	}
	return nil, nil
}
