package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zamzabot/internal/model"
)

// FromUpdate извлекает доменное сообщение из апдейта (message или channel_post).
// Апдейт без сообщения — nil.
func FromUpdate(upd tgbotapi.Update) *model.Message {
	m := upd.Message
	if m == nil {
		m = upd.ChannelPost
	}
	if m == nil {
		return nil
	}

	msg := &model.Message{
		ID:     m.MessageID,
		ChatID: m.Chat.ID,
		Text:   m.Text,
		Date:   m.Time(),
	}
	if m.From != nil {
		msg.From = model.User{
			ID:        m.From.ID,
			Username:  m.From.UserName,
			FirstName: m.From.FirstName,
			LastName:  m.From.LastName,
		}
	}
	for _, e := range m.Entities {
		if e.Type == "bot_command" {
			msg.Commands = append(msg.Commands, model.CommandMarker{Offset: e.Offset, Length: e.Length})
		}
	}
	for _, p := range m.Photo {
		msg.Photos = append(msg.Photos, model.PhotoVariant{FileID: p.FileID, FileSize: p.FileSize})
	}
	return msg
}
