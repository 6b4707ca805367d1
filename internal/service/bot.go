package service

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zamzabot/internal/logger"
	"github.com/zamzabot/internal/model"
	"github.com/zamzabot/internal/pipeline"
	"github.com/zamzabot/internal/storage"
	"github.com/zamzabot/internal/telegram"
	"github.com/zamzabot/internal/ws"
)

// Сообщения старше этого возраста пропускаем: бот мог долго лежать,
// и отвечать на вчерашний чат бессмысленно.
const maxMessageAge = 3 * time.Minute

// Потолок на обработку одного апдейта: хеширование вариантов картинки
// и поход в БД должны укладываться с запасом.
const defaultRunTimeout = 90 * time.Second

// Bot связывает транспорт Telegram с пайплайном обработки: приём апдейта,
// отсев повторов и устаревших сообщений, отправка ответа, событие в ленту.
type Bot struct {
	pipe       *pipeline.Pipeline
	tg         *telegram.Client
	dedupe     storage.UpdateDeduper
	hub        *ws.Hub
	runTimeout time.Duration
}

func NewBot(pipe *pipeline.Pipeline, tg *telegram.Client, dedupe storage.UpdateDeduper, hub *ws.Hub) *Bot {
	return &Bot{
		pipe:       pipe,
		tg:         tg,
		dedupe:     dedupe,
		hub:        hub,
		runTimeout: defaultRunTimeout,
	}
}

// HandleUpdate обрабатывает один апдейт целиком. Ошибки не возвращаются:
// Telegram уже получил 200, дальше только логируем.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer logger.DeferLogDuration("Bot.HandleUpdate", time.Now())()

	msg := telegram.FromUpdate(upd)
	if msg == nil {
		logger.Debugf("update %d: no message payload, skipping", upd.UpdateID)
		return
	}

	if age := time.Since(msg.Date); age > maxMessageAge {
		logger.Infof("update %d: message is %s old, skipping", upd.UpdateID, age.Round(time.Second))
		return
	}

	seen, err := b.dedupe.Seen(ctx, upd.UpdateID)
	if err != nil {
		// Дедупликация деградирует мягко: лучше редкий повторный ответ,
		// чем молчание при недоступном Redis.
		logger.Errorf("update %d: dedupe check: %v", upd.UpdateID, err)
	} else if seen {
		logger.Debugf("update %d: already handled, skipping", upd.UpdateID)
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, b.runTimeout)
	defer cancel()

	resp := b.pipe.Run(runCtx, msg)
	if resp == nil {
		b.publish(msg, nil)
		return
	}
	if resp.ChatID == 0 {
		resp.ChatID = msg.ChatID
	}
	if err := b.tg.Send(runCtx, resp); err != nil {
		logger.Errorf("update %d: send response to chat %d: %v", upd.UpdateID, resp.ChatID, err)
		return
	}
	b.publish(msg, resp)
}

// RunPolling вычитывает апдейты long poll'ом до отмены контекста.
// Используется при -poll, когда вебхук недоступен (локальная разработка).
func (b *Bot) RunPolling(ctx context.Context) {
	updates := b.tg.UpdatesChan()
	logger.Info("polling started")
	for {
		select {
		case <-ctx.Done():
			b.tg.StopPolling()
			logger.Info("polling stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) publish(msg *model.Message, resp *model.Response) {
	if b.hub == nil {
		return
	}
	ev := ws.Event{
		Time:      time.Now(),
		ChatID:    msg.ChatID,
		MessageID: msg.ID,
	}
	if resp != nil {
		ev.Responded = true
		ev.Summary = summarize(resp)
	}
	b.hub.Publish(ev)
}

func summarize(resp *model.Response) string {
	if resp.Photo != "" {
		return "photo:" + resp.Photo
	}
	text := []rune(resp.Text)
	if len(text) > 200 {
		return string(text[:200]) + "…"
	}
	return resp.Text
}
