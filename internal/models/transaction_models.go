package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction — запись о завершенном переводе. Неизменяема после создания:
// балансы кошельков лишь материализованная сводка журнала переводов.
type Transaction struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FromWalletID uuid.UUID `json:"fromWalletId" db:"from_wallet_id"`
	ToWalletID   uuid.UUID `json:"toWalletId" db:"to_wallet_id"`
	Amount       int64     `json:"amount" db:"amount"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
