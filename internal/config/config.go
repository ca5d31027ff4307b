package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"127.0.0.1"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"user"`
	Password string `envconfig:"DB_PASSWORD" default:"password"`
	Name     string `envconfig:"DB_NAME" default:"ledger"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (d DBConfig) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	DB       DBConfig

	// SchedulerEnabled включает встроенный ежемесячный запуск rollover и
	// начисления токенов. По умолчанию задания дергает внешний планировщик
	// через /api/v1/jobs.
	SchedulerEnabled bool `envconfig:"SCHEDULER_ENABLED" default:"false"`
}

func NewConfig() (*Config, error) {
	// .env нужен только для локальной разработки, его отсутствие не ошибка
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}
	return &cfg, nil
}
