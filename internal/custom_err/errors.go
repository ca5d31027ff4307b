package custom_err

import "errors"

var (
	ErrNotFound          = errors.New("запись не найдена")
	ErrInsufficientFunds = errors.New("недостаточно средств на счете")
	ErrInvalidAmount     = errors.New("некорректная сумма перевода")
	ErrInvalidPayment    = errors.New("пустой платежный токен")
	ErrAlreadyPaid       = errors.New("подписка уже оплачена за текущий период")
	ErrNotActive         = errors.New("нет активной оплаченной подписки")

	// Нарушения инвариантов: вызывающая сторона нарушила предусловие,
	// операция прерывается громко, а не чинится молча.
	ErrAlreadyRolledOver = errors.New("периоды за этот месяц уже созданы")
	ErrDuplicatePeriod   = errors.New("дублирующийся биллинговый период")
)
