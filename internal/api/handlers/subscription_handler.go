package handlers

import (
	"api_ledger/internal/api/middlew"
	"api_ledger/internal/custom_err"
	"api_ledger/internal/models"
	"api_ledger/internal/service"
	"api_ledger/pkg/response"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

type SubscriptionHandler struct {
	service service.SubscriptionServicer
}

func NewSubscriptionHandler(service service.SubscriptionServicer) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
	}
}

func (h *SubscriptionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Activate"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("ошибка декодирования JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	err := h.service.Activate(r.Context(), req.UserID, req.PaymentToken, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrInvalidPayment):
			log.Warn("пустой платежный токен", slog.String("op", op), slog.String("userId", req.UserID.String()))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_payment", "Payment token must not be empty")
		case errors.Is(err, custom_err.ErrAlreadyPaid):
			log.Warn("подписка уже оплачена", slog.String("op", op), slog.String("userId", req.UserID.String()))
			response.WriteJSONError(w, log, http.StatusConflict, "already_paid", "Subscription is already paid for the current month")
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("кошелек пользователя не найден", slog.String("op", op), slog.String("userId", req.UserID.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "User wallet not found")
		default:
			log.Error("ошибка активации подписки", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to activate subscription")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Cancel"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("ошибка декодирования JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	err := h.service.Cancel(r.Context(), req.UserID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotActive):
			log.Warn("нет активной подписки", slog.String("op", op), slog.String("userId", req.UserID.String()))
			response.WriteJSONError(w, log, http.StatusConflict, "not_active", "No active paid subscription to cancel")
		default:
			log.Error("ошибка отмены подписки", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to cancel subscription")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
