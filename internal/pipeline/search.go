package pipeline

import (
	"context"
	"strings"

	"github.com/zamzabot/internal/logger"
	"github.com/zamzabot/internal/model"
)

// runSearch — поиск реакции по паттернам. Скан идёт по всей коллекции до конца,
// кандидатом остаётся последняя совпавшая реакция в порядке хранения (не первая
// и не "лучшая" — задокументированная особенность, не ранжирование). Кандидат в
// окне кулдауна подавляется без обновления last_used. Переход к проверке
// повтора — всегда, и с ответом, и без.
func (p *Pipeline) runSearch(ctx context.Context, msg *model.Message, resp *model.Response) Stage {
	if !msg.HasText() {
		return StageDupCheck
	}

	reactions, err := p.reactions.All(ctx)
	if err != nil {
		logger.Errorf("search: скан реакций: %v", err)
		return StageDupCheck
	}

	text := strings.ToLower(msg.Text)
	var candidate *model.Reaction
	for i := range reactions {
		for _, pat := range reactions[i].Patterns {
			if strings.Contains(text, pat) {
				candidate = &reactions[i]
				break
			}
		}
	}
	if candidate == nil {
		return StageDupCheck
	}

	now := p.now()
	if candidate.OnHold(now, p.cooldown) {
		logger.Debugf("search: реакция %s на кулдауне", candidate.ID)
		return StageDupCheck
	}

	switch candidate.Content.Kind {
	case model.ReactionContentImage:
		resp.Merge(&model.Response{Photo: candidate.Content.ImageRef})
	case model.ReactionContentText:
		resp.Merge(&model.Response{Text: candidate.Content.Text})
	default:
		// совпадение есть, а отвечать нечем: битая запись
		logger.Errorf("search: реакция %s без содержимого", candidate.ID)
		return StageDupCheck
	}

	// ответили — перезапускаем окно кулдауна
	if err := p.reactions.TouchLastUsed(ctx, candidate.ID, now); err != nil {
		logger.Errorf("search: обновление last_used реакции %s: %v", candidate.ID, err)
	}
	return StageDupCheck
}
