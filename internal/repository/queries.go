package repository

const (
	GetWalletByIDQuery = `
        SELECT id, user_id, balance, created_at, updated_at
        FROM wallets
        WHERE id = $1
    `

	CreateWalletQuery = `
        INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
        VALUES ($1, $2, 0, NOW(), NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET updated_at = wallets.updated_at
        RETURNING id, user_id, balance, created_at, updated_at
    `

	GetWalletBalanceForUpdateQuery = `
    SELECT balance
    FROM wallets
    WHERE id = $1
    FOR UPDATE
	`

	AdjustWalletBalanceQuery = `
    UPDATE wallets
    SET
        balance = balance + $1,
        updated_at = NOW()
    WHERE id = $2
	`

	SetWalletBalanceByUserQuery = `
    UPDATE wallets
    SET
        balance = $1,
        updated_at = NOW()
    WHERE user_id = $2
	`

	SetBalanceForPaidSubscribersQuery = `
    UPDATE wallets w
    SET
        balance = $1,
        updated_at = NOW()
    FROM subscriptions s
    JOIN billing_periods p ON p.subscription_id = s.id
    WHERE w.user_id = s.user_id
      AND p.starts_at <= $2
      AND p.ends_at >= $2
      AND p.paid_at IS NOT NULL
	`

	CreateSubscriptionQuery = `
        INSERT INTO subscriptions (id, user_id, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id) DO NOTHING
    `

	GetSubscriptionByUserForUpdateQuery = `
    SELECT id, user_id, created_at
    FROM subscriptions
    WHERE user_id = $1
    FOR UPDATE
	`

	GetSubscriptionForUpdateQuery = `
    SELECT id, user_id, created_at
    FROM subscriptions
    WHERE id = $1
    FOR UPDATE
	`

	GetPaidPeriodsCoveringQuery = `
    SELECT id, subscription_id, starts_at, ends_at, paid_at, payment_token, canceled_at
    FROM billing_periods
    WHERE subscription_id = $1
      AND starts_at <= $2
      AND ends_at >= $2
      AND paid_at IS NOT NULL
    FOR UPDATE
	`

	GetUnpaidPeriodCoveringQuery = `
    SELECT id, subscription_id, starts_at, ends_at, paid_at, payment_token, canceled_at
    FROM billing_periods
    WHERE subscription_id = $1
      AND starts_at <= $2
      AND ends_at >= $2
      AND paid_at IS NULL
    ORDER BY starts_at, id
    LIMIT 1
    FOR UPDATE
	`

	CreatePeriodQuery = `
        INSERT INTO billing_periods (id, subscription_id, starts_at, ends_at)
        VALUES ($1, $2, $3, $4)
    `

	MarkPeriodPaidQuery = `
    UPDATE billing_periods
    SET
        paid_at = $1,
        payment_token = $2
    WHERE id = $3
      AND paid_at IS NULL
	`

	MarkPeriodCanceledQuery = `
    UPDATE billing_periods
    SET canceled_at = $1
    WHERE id = $2
      AND canceled_at IS NULL
	`

	PeriodExistsCoveringQuery = `
	SELECT
	EXISTS(SELECT 1 FROM billing_periods
	WHERE subscription_id = $1
	  AND starts_at <= $2
	  AND ends_at >= $2)
	`

	MonthHasPeriodsQuery = `
	SELECT
	EXISTS(SELECT 1 FROM billing_periods
	WHERE starts_at <= $1
	  AND ends_at >= $1)
	`

	LastPeriodsQuery = `
    SELECT DISTINCT ON (subscription_id)
        id, subscription_id, starts_at, ends_at, paid_at, payment_token, canceled_at
    FROM billing_periods
    ORDER BY subscription_id, ends_at DESC, id DESC
	`

	CreateTransactionQuery = `
        INSERT INTO transactions (id, from_wallet_id, to_wallet_id, amount, created_at)
        VALUES ($1, $2, $3, $4, NOW())
    `

	ReceiverTotalsQuery = `
    SELECT w.user_id, SUM(t.amount) AS total
    FROM transactions t
    JOIN wallets w ON w.id = t.to_wallet_id
    WHERE t.from_wallet_id = $1
      AND t.created_at >= $2
      AND t.created_at <= $3
    GROUP BY w.user_id
    ORDER BY w.user_id
	`
)
