package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func setupRepoTest(t *testing.T) (*pgxpool.Pool, func()) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		"127.0.0.1", "5432", "user", "password", "ledger")

	if envDsn := os.Getenv("TEST_DATABASE_URL"); envDsn != "" {
		dsn = envDsn
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err, "Failed to connect to database")

	_, err = pool.Exec(context.Background(), "TRUNCATE TABLE transactions, billing_periods, subscriptions, wallets RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
	}

	return pool, cleanup
}

func seedWallet(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, balance int64) uuid.UUID {
	walletID := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO wallets (id, user_id, balance) VALUES ($1, $2, $3)", walletID, userID, balance)
	require.NoError(t, err)
	return walletID
}

func seedSubscription(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) uuid.UUID {
	subID := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO subscriptions (id, user_id) VALUES ($1, $2)", subID, userID)
	require.NoError(t, err)
	return subID
}

func seedPeriod(t *testing.T, pool *pgxpool.Pool, subID uuid.UUID, startsAt, endsAt time.Time, paidAt, canceledAt *time.Time) uuid.UUID {
	periodID := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO billing_periods (id, subscription_id, starts_at, ends_at, paid_at, canceled_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		periodID, subID, startsAt, endsAt, paidAt, canceledAt)
	require.NoError(t, err)
	return periodID
}
