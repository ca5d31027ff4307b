package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"api_ledger/internal/custom_err"
	"api_ledger/internal/service"

	"github.com/robfig/cron/v3"
)

// Scheduler запускает ежемесячные задания внутри процесса: сначала rollover,
// затем начисление токенов. Включается флагом конфигурации; основной путь —
// внешний планировщик через /api/v1/jobs.
type Scheduler struct {
	cron    *cron.Cron
	subs    service.SubscriptionServicer
	log     *slog.Logger
	timeout time.Duration
}

func NewScheduler(subs service.SubscriptionServicer, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		subs:    subs,
		log:     log,
		timeout: 5 * time.Minute,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@monthly", s.runMonthly); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("встроенный планировщик запущен")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("встроенный планировщик остановлен")
}

func (s *Scheduler) runMonthly() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	now := time.Now()

	created, err := s.subs.Rollover(ctx, now)
	if err != nil {
		if errors.Is(err, custom_err.ErrAlreadyRolledOver) {
			// месяц уже обработан кем-то другим, начислять все равно можно
			s.log.Warn("rollover уже выполнен за этот месяц")
		} else {
			s.log.Error("rollover не выполнен", slog.String("error", err.Error()))
			return
		}
	} else {
		s.log.Info("rollover выполнен", slog.Int64("periods", created))
	}

	updated, err := s.subs.IssueTokensForMonth(ctx, now)
	if err != nil {
		s.log.Error("начисление токенов не выполнено", slog.String("error", err.Error()))
		return
	}
	s.log.Info("токены начислены", slog.Int64("users", updated))
}
