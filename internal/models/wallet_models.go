package models

import (
	"time"

	"github.com/google/uuid"
)

type Wallet struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Balance   int64     `json:"balance" db:"balance"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type TransferRequest struct {
	FromWalletID uuid.UUID `json:"fromWalletId"`
	ToWalletID   uuid.UUID `json:"toWalletId"`
	Amount       int64     `json:"amount"`
}

// ReceiverShare — доля одного получателя в исходящих переводах кошелька
// за месяц.
type ReceiverShare struct {
	UserID   uuid.UUID `json:"userId"`
	Fraction float64   `json:"fraction"`
}
