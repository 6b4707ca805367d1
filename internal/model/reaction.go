package model

import (
	"regexp"
	"strings"
	"time"
)

// urlRegex распознаёт http/https/ftp/ftps URL (домен, localhost или IP, опциональный порт).
var urlRegex = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`(?:\S+(?::\S*)?@)?` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-_]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?)|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// IsURL сообщает, выглядит ли строка как URL (для классификации контента реакции).
func IsURL(s string) bool { return urlRegex.MatchString(s) }

type ReactionContentKind string

const (
	ReactionContentEmpty ReactionContentKind = "empty"
	ReactionContentText  ReactionContentKind = "text"
	ReactionContentImage ReactionContentKind = "image"
)

// ReactionContent — содержимое реакции: текст, либо ссылка на картинку (URL или
// telegram file_id), либо пусто. Поля Text и ImageRef взаимоисключающие; Kind
// определяет, какое из них осмысленно.
type ReactionContent struct {
	Kind     ReactionContentKind `json:"kind"`
	Text     string              `json:"text,omitempty"`
	ImageRef string              `json:"image_ref,omitempty"`
}

// TextContent создаёт текстовое содержимое реакции.
func TextContent(s string) ReactionContent {
	return ReactionContent{Kind: ReactionContentText, Text: s}
}

// ImageContent создаёт содержимое-картинку (URL или file_id).
func ImageContent(ref string) ReactionContent {
	return ReactionContent{Kind: ReactionContentImage, ImageRef: ref}
}

// EmptyContent — реакция без содержимого (аномалия, но хранимо).
func EmptyContent() ReactionContent {
	return ReactionContent{Kind: ReactionContentEmpty}
}

// Reaction — сохранённая реакция: набор паттернов-триггеров и ответ.
// Записи не изменяются после создания, кроме LastUsedAt (кулдаун).
type Reaction struct {
	ID         string          `json:"id"`
	Patterns   []string        `json:"patterns"`
	Content    ReactionContent `json:"content"`
	CreatedBy  User            `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	LastUsedAt *time.Time      `json:"last_used_at,omitempty"` // nil = ещё не использовалась
}

// OnHold сообщает, находится ли реакция в окне кулдауна: last_used >= now - cooldown.
func (r *Reaction) OnHold(now time.Time, cooldown time.Duration) bool {
	return r.LastUsedAt != nil && !r.LastUsedAt.Before(now.Add(-cooldown))
}

// NormalizePatterns приводит паттерны к хранимому виду: trim, lower-case, пустые отбрасываются.
func NormalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
