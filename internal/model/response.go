package model

// Response — ответ бота на сообщение. Text и Photo взаимоисключающие: при
// непустом Photo отправляется sendPhoto, иначе sendMessage. Нулевой ChatID —
// ответ в чат исходного сообщения.
type Response struct {
	ChatID           int64  `json:"chat_id,omitempty"`
	Text             string `json:"text,omitempty"`
	Photo            string `json:"photo,omitempty"` // file_id или URL
	ReplyToMessageID int    `json:"reply_to_message_id,omitempty"`
	ParseMode        string `json:"parse_mode,omitempty"`
}

// Empty — ответ без содержимого не отправляется (частичный ответ, например
// только reply_to_message_id, сам по себе ничего не значит).
func (r *Response) Empty() bool {
	return r == nil || (r.Text == "" && r.Photo == "")
}

// Merge накладывает непустые поля other поверх r: поздняя стадия конвейера
// дополняет частичный ответ ранней.
func (r *Response) Merge(other *Response) {
	if other == nil {
		return
	}
	if other.ChatID != 0 {
		r.ChatID = other.ChatID
	}
	if other.Text != "" {
		r.Text = other.Text
	}
	if other.Photo != "" {
		r.Photo = other.Photo
	}
	if other.ReplyToMessageID != 0 {
		r.ReplyToMessageID = other.ReplyToMessageID
	}
	if other.ParseMode != "" {
		r.ParseMode = other.ParseMode
	}
}
