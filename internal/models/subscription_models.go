package models

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BillingPeriod — один календарный месяц подписки. PaidAt и CanceledAt
// выставляются один раз и никогда не сбрасываются.
type BillingPeriod struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	SubscriptionID uuid.UUID  `json:"subscriptionId" db:"subscription_id"`
	StartsAt       time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt         time.Time  `json:"ends_at" db:"ends_at"`
	PaidAt         *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	PaymentToken   *string    `json:"-" db:"payment_token"`
	CanceledAt     *time.Time `json:"canceled_at,omitempty" db:"canceled_at"`
}

func (p *BillingPeriod) IsPaid() bool {
	return p != nil && p.PaidAt != nil
}

func (p *BillingPeriod) IsCanceled() bool {
	return p != nil && p.CanceledAt != nil
}

type ActivateRequest struct {
	UserID       uuid.UUID `json:"userId"`
	PaymentToken string    `json:"paymentToken"`
}

type CancelRequest struct {
	UserID uuid.UUID `json:"userId"`
}
