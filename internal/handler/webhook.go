package handler

import (
	"context"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zamzabot/internal/logger"
)

// UpdateProcessor обрабатывает один апдейт Telegram целиком.
type UpdateProcessor interface {
	HandleUpdate(ctx context.Context, upd tgbotapi.Update)
}

type WebhookHandler struct {
	processor UpdateProcessor
}

func NewWebhookHandler(processor UpdateProcessor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// Receive принимает POST от Telegram. Отвечаем 200 сразу, обработка
// идёт в фоне: иначе Telegram будет ретраить медленные апдейты.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var upd tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		logger.Errorf("webhook: decode update: %v", err)
		writeError(w, http.StatusBadRequest, "invalid update payload")
		return
	}

	go h.processor.HandleUpdate(context.Background(), upd)

	w.WriteHeader(http.StatusOK)
}
