package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/zamzabot/internal/model"
)

// RegisterBuiltins регистрирует встроенные команды бота.
func RegisterBuiltins(d *Dispatcher) {
	d.Register("start", StartCommand)
	d.Register("add_reaction", AddReactionCommand)
}

var addReactionPrefix = regexp.MustCompile(`/add_reaction\s*`)

// StartCommand отвечает отправителю в личку.
func StartCommand(ctx context.Context, p *Pipeline, cmd string, msg *model.Message) (*model.Response, error) {
	return &model.Response{ChatID: msg.From.ID, Text: "Чо-чо попячса"}, nil
}

// AddReactionCommand разбирает "/add_reaction p1,p2; <контент>" и сохраняет
// реакцию. Контент: URL → картинка по ссылке; непустой текст → текст; иначе,
// если к сообщению приложено фото — его file_id; совсем ничего — пустая реакция.
// Создание отклоняется, если какой-то из паттернов уже занят существующей
// реакцией (проверка пересечением; между проверкой и вставкой возможна гонка —
// известное ограничение, уникального констрейнта нет намеренно).
func AddReactionCommand(ctx context.Context, p *Pipeline, cmd string, msg *model.Message) (*model.Response, error) {
	raw := addReactionPrefix.ReplaceAllString(msg.Text, "")

	parts := strings.SplitN(raw, ";", 2)
	contentRaw := ""
	if len(parts) == 2 {
		contentRaw = strings.TrimSpace(parts[1])
	}

	patterns := model.NormalizePatterns(strings.Split(parts[0], ","))
	if len(patterns) == 0 {
		return &model.Response{Text: "No patterns given, nothing to save"}, nil
	}

	var content model.ReactionContent
	switch {
	case contentRaw != "" && model.IsURL(contentRaw):
		content = model.ImageContent(contentRaw)
	case contentRaw != "":
		content = model.TextContent(contentRaw)
	default:
		// картинка может быть приложена файлом
		if photo, ok := msg.LargestPhoto(); ok {
			content = model.ImageContent(photo.FileID)
		} else {
			content = model.EmptyContent()
		}
	}

	existing, err := p.reactions.FindByPatterns(ctx, patterns)
	if err != nil {
		return nil, fmt.Errorf("add_reaction: поиск занятых паттернов: %w", err)
	}
	if len(existing) > 0 {
		requested := make(map[string]bool, len(patterns))
		for _, pat := range patterns {
			requested[pat] = true
		}
		var overlap []string
		seen := make(map[string]bool)
		for _, r := range existing {
			for _, pat := range r.Patterns {
				if requested[pat] && !seen[pat] {
					overlap = append(overlap, pat)
					seen[pat] = true
				}
			}
		}
		return &model.Response{
			Text: fmt.Sprintf("Reactions already exist: %s", strings.Join(overlap, ",")),
		}, nil
	}

	reaction := &model.Reaction{
		ID:        uuid.NewString(),
		Patterns:  patterns,
		Content:   content,
		CreatedBy: msg.From,
		CreatedAt: p.now(),
	}
	if err := p.reactions.Create(ctx, reaction); err != nil {
		return nil, fmt.Errorf("add_reaction: сохранение: %w", err)
	}

	return &model.Response{
		Text: fmt.Sprintf("Saved reaction for %s by %s", strings.Join(patterns, ","), msg.From.Repr()),
	}, nil
}
