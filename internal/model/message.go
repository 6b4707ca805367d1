package model

import (
	"strings"
	"time"
)

// User — отправитель сообщения (данные из Telegram, не храним отдельно).
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName — username, иначе имя. Используется в обращениях вида "@{name}".
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

// Repr — username, иначе "Имя Фамилия". Используется в подписи сохранённой реакции.
func (u User) Repr() string {
	if u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CommandMarker — маркер bot_command в тексте сообщения (offset и length в символах).
type CommandMarker struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// PhotoVariant — один из вариантов фото в сообщении (Telegram присылает несколько размеров).
type PhotoVariant struct {
	FileID   string `json:"file_id"`
	FileSize int    `json:"file_size"`
}

// Message — входящее сообщение чата. Неизменяемо после приёма.
type Message struct {
	ID       int             `json:"message_id"`
	ChatID   int64           `json:"chat_id"`
	From     User            `json:"from"`
	Text     string          `json:"text,omitempty"`
	Commands []CommandMarker `json:"commands,omitempty"`
	Photos   []PhotoVariant  `json:"photos,omitempty"`
	Date     time.Time       `json:"date"`
}

// HasText сообщает, есть ли у сообщения текст.
func (m *Message) HasText() bool { return m.Text != "" }

// CommandName извлекает имя команды по маркеру: срез текста и удаление ведущего '/'.
// Выход за границы текста — пустое имя (битый маркер от транспорта).
func (m *Message) CommandName(marker CommandMarker) string {
	runes := []rune(m.Text)
	if marker.Offset < 0 || marker.Length <= 0 || marker.Offset+marker.Length > len(runes) {
		return ""
	}
	return strings.TrimPrefix(string(runes[marker.Offset:marker.Offset+marker.Length]), "/")
}

// LargestPhoto возвращает самый большой (по размеру файла) вариант фото.
func (m *Message) LargestPhoto() (PhotoVariant, bool) {
	if len(m.Photos) == 0 {
		return PhotoVariant{}, false
	}
	best := m.Photos[0]
	for _, p := range m.Photos[1:] {
		if p.FileSize > best.FileSize {
			best = p
		}
	}
	return best, true
}
