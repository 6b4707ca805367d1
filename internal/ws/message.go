package ws

import "time"

// Event описывает результат обработки одного апдейта,
// рассылаемый подписчикам живой ленты.
type Event struct {
	Time      time.Time `json:"time"`
	ChatID    int64     `json:"chat_id"`
	MessageID int       `json:"message_id"`
	Responded bool      `json:"responded"`
	// Краткое описание ответа: текст или "photo:<ref>".
	Summary string `json:"summary,omitempty"`
}
