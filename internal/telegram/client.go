// Package telegram — клиент Telegram Bot API: скачивание файлов, отправка
// ответов, приём апдейтов (webhook или long polling).
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zamzabot/internal/logger"
	"github.com/zamzabot/internal/model"
)

type Client struct {
	api        *tgbotapi.BotAPI
	httpClient *http.Client
}

// NewClient авторизуется по токену (getMe выполняется при создании).
func NewClient(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram.NewClient: %w", err)
	}
	logger.Infof("telegram: авторизован как @%s", api.Self.UserName)
	return &Client{
		api:        api,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Username — имя бота (для логов).
func (c *Client) Username() string { return c.api.Self.UserName }

// DownloadFile скачивает файл по file_id: getFile, затем загрузка по прямой ссылке.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	defer logger.DeferLogDuration("telegram.DownloadFile", time.Now())()
	f, err := c.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("telegram.DownloadFile getFile: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Link(c.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("telegram.DownloadFile request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram.DownloadFile fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram.DownloadFile fetch: статус %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("telegram.DownloadFile read: %w", err)
	}
	return data, nil
}

// Send отправляет ответ: sendPhoto при непустом Photo, иначе sendMessage.
// Все сообщения без уведомления (disable_notification).
func (c *Client) Send(ctx context.Context, resp *model.Response) error {
	if resp.Empty() {
		return nil
	}
	if resp.Photo != "" {
		var file tgbotapi.RequestFileData
		if model.IsURL(resp.Photo) {
			file = tgbotapi.FileURL(resp.Photo)
		} else {
			file = tgbotapi.FileID(resp.Photo)
		}
		photo := tgbotapi.NewPhoto(resp.ChatID, file)
		photo.ReplyToMessageID = resp.ReplyToMessageID
		photo.DisableNotification = true
		if _, err := c.api.Send(photo); err != nil {
			return fmt.Errorf("telegram.Send photo: %w", err)
		}
		return nil
	}
	msg := tgbotapi.NewMessage(resp.ChatID, resp.Text)
	msg.ReplyToMessageID = resp.ReplyToMessageID
	msg.ParseMode = resp.ParseMode
	msg.DisableNotification = true
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("telegram.Send message: %w", err)
	}
	return nil
}

// SetWebhook регистрирует URL вебхука у Telegram.
func (c *Client) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("telegram.SetWebhook: %w", err)
	}
	if _, err := c.api.Request(wh); err != nil {
		return fmt.Errorf("telegram.SetWebhook: %w", err)
	}
	return nil
}

// DeleteWebhook снимает вебхук (перед переходом на long polling).
func (c *Client) DeleteWebhook() error {
	if _, err := c.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("telegram.DeleteWebhook: %w", err)
	}
	return nil
}

// UpdatesChan — канал апдейтов через long polling (таймаут 30с).
func (c *Client) UpdatesChan() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return c.api.GetUpdatesChan(u)
}

// StopPolling останавливает long polling.
func (c *Client) StopPolling() {
	c.api.StopReceivingUpdates()
}
