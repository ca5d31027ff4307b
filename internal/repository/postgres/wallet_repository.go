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

type WalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	const op = "repository.GetByID"
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, repository.GetWalletByIDQuery, id).Scan(
		&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &wallet, nil
}

// CreateForUser создает кошелек с нулевым балансом. Если кошелек у
// пользователя уже есть, возвращается существующий.
func (r *WalletRepository) CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	const op = "repository.CreateForUser"
	var wallet models.Wallet
	err := r.db.QueryRow(ctx, repository.CreateWalletQuery, uuid.New(), userID).Scan(
		&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &wallet, nil
}

// GetBalanceForUpdateTx читает баланс с блокировкой строки до конца
// транзакции. Проверка баланса и последующее списание должны видеть
// один и тот же снимок.
func (r *WalletRepository) GetBalanceForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int64, error) {
	var balance int64
	err := tx.QueryRow(ctx, repository.GetWalletBalanceForUpdateQuery, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, custom_err.ErrNotFound
		}
		return 0, fmt.Errorf("ошибка чтения баланса кошелька: %w", err)
	}
	return balance, nil
}

// AdjustBalanceTx применяет относительную дельту на стороне базы
// (balance = balance + delta), а не через чтение-модификацию в памяти.
func (r *WalletRepository) AdjustBalanceTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) error {
	cmdTag, err := tx.Exec(ctx, repository.AdjustWalletBalanceQuery, delta, id)
	if err != nil {
		return fmt.Errorf("ошибка изменения баланса кошелька: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return custom_err.ErrNotFound
	}
	return nil
}

// SetBalanceByUserTx выставляет баланс абсолютно. Используется начислением
// токенов: повторный вызов за тот же месяц дает тот же результат.
func (r *WalletRepository) SetBalanceByUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, balance int64) error {
	cmdTag, err := tx.Exec(ctx, repository.SetWalletBalanceByUserQuery, balance, userID)
	if err != nil {
		return fmt.Errorf("ошибка установки баланса кошелька: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return custom_err.ErrNotFound
	}
	return nil
}

// SetBalanceForPaidSubscribers одним UPDATE выставляет баланс всем
// пользователям, у которых момент at покрыт оплаченным периодом.
// Возвращает число обновленных кошельков.
func (r *WalletRepository) SetBalanceForPaidSubscribers(ctx context.Context, balance int64, at time.Time) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, repository.SetBalanceForPaidSubscribersQuery, balance, at)
	if err != nil {
		return 0, fmt.Errorf("ошибка массового начисления токенов: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
