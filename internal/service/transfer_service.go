package service

import (
	"api_ledger/internal/custom_err"
	"api_ledger/internal/models"
	"api_ledger/internal/repository"
	"api_ledger/internal/timeutil"
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransferServicer описывает операции над кошельками и журналом переводов.
type TransferServicer interface {
	GetWalletByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	CreateWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	Transfer(ctx context.Context, fromWalletID, toWalletID uuid.UUID, amount int64) (uuid.UUID, error)
	ReceiverShares(ctx context.Context, fromWalletID uuid.UUID, month time.Time) ([]models.ReceiverShare, error)
}

var _ TransferServicer = (*TransferService)(nil)

type TransferService struct {
	wallets      repository.Wallet
	transactions repository.Transaction
	txManager    TxManager
}

func NewTransferService(wallets repository.Wallet, transactions repository.Transaction, txManager TxManager) *TransferService {
	return &TransferService{
		wallets:      wallets,
		transactions: transactions,
		txManager:    txManager,
	}
}

func (s *TransferService) GetWalletByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	const op = "service.GetWalletByID"

	wallet, err := s.wallets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wallet, nil
}

func (s *TransferService) CreateWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	const op = "service.CreateWallet"

	wallet, err := s.wallets.CreateForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wallet, nil
}

// Transfer атомарно переносит токены между кошельками и пишет запись в
// журнал. Проверка баланса и списание выполняются под блокировкой строки
// кошелька: конкурентные переводы не могут увести баланс в минус.
func (s *TransferService) Transfer(ctx context.Context, fromWalletID, toWalletID uuid.UUID, amount int64) (uuid.UUID, error) {
	const op = "service.Transfer"

	if amount <= 0 {
		return uuid.Nil, custom_err.ErrInvalidAmount
	}
	if fromWalletID == toWalletID {
		return uuid.Nil, custom_err.ErrInvalidAmount
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	// кошельки блокируются в порядке возрастания id, иначе два встречных
	// перевода могут взаимно заблокироваться
	firstID, secondID := fromWalletID, toWalletID
	if bytes.Compare(toWalletID[:], fromWalletID[:]) < 0 {
		firstID, secondID = toWalletID, fromWalletID
	}

	balances := make(map[uuid.UUID]int64, 2)
	for _, id := range []uuid.UUID{firstID, secondID} {
		balance, err := s.wallets.GetBalanceForUpdateTx(ctx, tx, id)
		if err != nil {
			if errors.Is(err, custom_err.ErrNotFound) {
				return uuid.Nil, custom_err.ErrNotFound
			}
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
		balances[id] = balance
	}

	if balances[fromWalletID] < amount {
		return uuid.Nil, custom_err.ErrInsufficientFunds
	}

	// дельты применяются на стороне базы, а не как чтение-модификация в памяти
	if err := s.wallets.AdjustBalanceTx(ctx, tx, fromWalletID, -amount); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.wallets.AdjustBalanceTx(ctx, tx, toWalletID, amount); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	transactionID, err := s.transactions.CreateTx(ctx, tx, fromWalletID, toWalletID, amount)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return transactionID, nil
}

// ReceiverShares возвращает долю каждого получателя в исходящих переводах
// кошелька за календарный месяц month. Если переводов не было, результат
// пустой.
func (s *TransferService) ReceiverShares(ctx context.Context, fromWalletID uuid.UUID, month time.Time) ([]models.ReceiverShare, error) {
	const op = "service.ReceiverShares"

	totals, err := s.transactions.ReceiverTotals(ctx, fromWalletID, timeutil.MonthStart(month), timeutil.MonthEnd(month))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var total int64
	for _, t := range totals {
		total += t.Total
	}
	if total <= 0 {
		return []models.ReceiverShare{}, nil
	}

	shares := make([]models.ReceiverShare, 0, len(totals))
	for _, t := range totals {
		shares = append(shares, models.ReceiverShare{
			UserID:   t.UserID,
			Fraction: float64(t.Total) / float64(total),
		})
	}
	return shares, nil
}
