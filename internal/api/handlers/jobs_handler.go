package handlers

import (
	"api_ledger/internal/api/middlew"
	"api_ledger/internal/custom_err"
	"api_ledger/internal/service"
	"api_ledger/pkg/response"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// JobsHandler — точки входа для внешнего планировщика: ежемесячные
// rollover и начисление токенов.
type JobsHandler struct {
	service service.SubscriptionServicer
}

func NewJobsHandler(service service.SubscriptionServicer) *JobsHandler {
	return &JobsHandler{
		service: service,
	}
}

type issueTokensResponse struct {
	UsersUpdated int64 `json:"usersUpdated"`
}

func (h *JobsHandler) IssueTokens(w http.ResponseWriter, r *http.Request) {
	const op = "handler.IssueTokens"
	log := middlew.GetLogger(r.Context())

	updated, err := h.service.IssueTokensForMonth(r.Context(), time.Now())
	if err != nil {
		log.Error("ошибка начисления токенов", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to issue tokens")
		return
	}

	log.Info("токены начислены", slog.String("op", op), slog.Int64("users", updated))
	response.WriteJSONSuccess(w, log, http.StatusOK, issueTokensResponse{UsersUpdated: updated})
}

type rolloverResponse struct {
	PeriodsCreated int64 `json:"periodsCreated"`
}

func (h *JobsHandler) Rollover(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Rollover"
	log := middlew.GetLogger(r.Context())

	created, err := h.service.Rollover(r.Context(), time.Now())
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrAlreadyRolledOver):
			// нарушение предусловия планировщика, не бизнес-конфликт
			log.Error("повторный rollover за месяц", slog.String("op", op))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "already_rolled_over", "Billing periods for this month already exist")
		default:
			log.Error("ошибка rollover", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to roll over billing periods")
		}
		return
	}

	log.Info("rollover выполнен", slog.String("op", op), slog.Int64("periods", created))
	response.WriteJSONSuccess(w, log, http.StatusOK, rolloverResponse{PeriodsCreated: created})
}
