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

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type WalletHandler struct {
	service service.TransferServicer
}

func NewWalletHandler(service service.TransferServicer) *WalletHandler {
	return &WalletHandler{
		service: service,
	}
}

func (h *WalletHandler) GetWalletByID(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetWalletByID"
	log := middlew.GetLogger(r.Context())

	idStr := chi.URLParam(r, "walletID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Warn("невалидный UUID", slog.String("op", op), slog.String("uuid", idStr))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid wallet ID format")
		return
	}

	wallet, err := h.service.GetWalletByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("кошелек не найден", slog.String("op", op), slog.String("id", id.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Wallet not found")
		default:
			log.Error("ошибка получения кошелька", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to retrieve wallet")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, wallet)
}

type createWalletRequest struct {
	UserID uuid.UUID `json:"userId"`
}

func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	const op = "handler.CreateWallet"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("ошибка декодирования JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}
	if req.UserID == uuid.Nil {
		log.Warn("пустой userId", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_field", "userId is required")
		return
	}

	wallet, err := h.service.CreateWallet(r.Context(), req.UserID)
	if err != nil {
		log.Error("ошибка создания кошелька", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to create wallet")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, wallet)
}

type transferResponse struct {
	TransactionID uuid.UUID `json:"transactionId"`
}

func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Transfer"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("ошибка декодирования JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	transactionID, err := h.service.Transfer(r.Context(), req.FromWalletID, req.ToWalletID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrInvalidAmount):
			log.Warn("некорректная сумма перевода", slog.String("op", op), slog.Any("req", req))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_amount", "Amount must be positive and wallets must differ")
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("кошелек не найден", slog.String("op", op), slog.Any("req", req))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Wallet not found")
		case errors.Is(err, custom_err.ErrInsufficientFunds):
			log.Warn("недостаточно средств", slog.String("op", op), slog.Any("req", req))
			response.WriteJSONError(w, log, http.StatusConflict, "insufficient_funds", "Insufficient funds in the wallet")
		default:
			log.Error("не удалось выполнить перевод", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, transferResponse{TransactionID: transactionID})
}

func (h *WalletHandler) ReceiverShares(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ReceiverShares"
	log := middlew.GetLogger(r.Context())

	idStr := chi.URLParam(r, "walletID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Warn("невалидный UUID", slog.String("op", op), slog.String("uuid", idStr))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid wallet ID format")
		return
	}

	// по умолчанию текущий месяц; явный параметр в формате 2006-01
	month := time.Now()
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err = time.Parse("2006-01", monthStr)
		if err != nil {
			log.Warn("невалидный месяц", slog.String("op", op), slog.String("month", monthStr))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid month format, expected YYYY-MM")
			return
		}
	}

	shares, err := h.service.ReceiverShares(r.Context(), id, month)
	if err != nil {
		log.Error("ошибка расчета долей получателей", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to compute receiver shares")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, shares)
}
