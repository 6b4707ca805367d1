package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/zamzabot/internal/classifier"
	"github.com/zamzabot/internal/fingerprint"
	"github.com/zamzabot/internal/logger"
	"github.com/zamzabot/internal/model"
)

const (
	seenBeforeText   = "Баян! Эта картинка здесь уже была."
	duplicateTextFmt = "Баян! Вероятность повтора %d%%."
)

// runDuplicateCheck — проверка картинки на повтор. Точное совпадение file_id в
// чате отвечает сразу, без хеширования. Иначе файл скачивается, считается
// отпечаток и каждый сохранённый отпечаток чата классифицируется; остаётся
// вердикт последнего сравнения в порядке хранения (без агрегации и выбора
// максимума — поведение сохранено намеренно, см. DESIGN.md). Не повтор —
// отпечаток сохраняется, ответа нет. Любой сбой стадии гасится в "нет ответа".
func (p *Pipeline) runDuplicateCheck(ctx context.Context, msg *model.Message, resp *model.Response) Stage {
	photo, ok := msg.LargestPhoto()
	if !ok {
		return StageDone
	}

	existing, err := p.fingerprints.FindByChatAndFile(ctx, msg.ChatID, photo.FileID)
	if err != nil {
		logger.Errorf("dupcheck: поиск по file_id: %v", err)
		return StageDone
	}
	if existing != nil {
		resp.Merge(&model.Response{Text: seenBeforeText, ReplyToMessageID: msg.ID})
		return StageDone
	}

	data, err := p.transport.DownloadFile(ctx, photo.FileID)
	if err != nil {
		logger.Errorf("dupcheck: скачивание %s: %v", photo.FileID, err)
		return StageDone
	}

	var (
		vec        fingerprint.Vector
		computeErr error
	)
	if err := p.pool.Do(ctx, func() { vec, computeErr = p.engine.Compute(data) }); err != nil {
		logger.Errorf("dupcheck: пул: %v", err)
		return StageDone
	}
	if computeErr != nil {
		logger.Errorf("dupcheck: отпечаток %s: %v", photo.FileID, computeErr)
		return StageDone
	}

	stored, err := p.fingerprints.ByChat(ctx, msg.ChatID)
	if err != nil {
		logger.Errorf("dupcheck: выборка отпечатков чата %d: %v", msg.ChatID, err)
		return StageDone
	}

	// Без модели проверка ограничена точным совпадением file_id выше,
	// отпечаток всё равно сохраняем.
	var (
		verdict  classifier.Verdict
		compared bool
	)
	if p.classifier != nil {
		if err := p.pool.Do(ctx, func() {
			for i := range stored {
				d, err := fingerprint.Diff(vec, stored[i].Hashes)
				if err != nil {
					// несовместимый отпечаток портит только это сравнение
					logger.Errorf("dupcheck: diff с отпечатком %s: %v", stored[i].ID, err)
					continue
				}
				v, err := p.classifier.Predict(d)
				if err != nil {
					logger.Errorf("dupcheck: классификация против %s: %v", stored[i].ID, err)
					continue
				}
				verdict = v
				compared = true
			}
		}); err != nil {
			logger.Errorf("dupcheck: пул: %v", err)
			return StageDone
		}
	}

	if compared && verdict.Duplicate {
		resp.Merge(&model.Response{
			Text:             fmt.Sprintf(duplicateTextFmt, int(verdict.Probability*100)),
			ReplyToMessageID: msg.ID,
		})
		return StageDone
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Errorf("dupcheck: сериализация сообщения %d: %v", msg.ID, err)
		payload = nil
	}
	fp := &model.ImageFingerprint{
		ID:        uuid.NewString(),
		ChatID:    msg.ChatID,
		FileID:    photo.FileID,
		Hashes:    vec,
		Message:   payload,
		CreatedAt: p.now(),
	}
	if err := p.fingerprints.Create(ctx, fp); err != nil {
		logger.Errorf("dupcheck: сохранение отпечатка: %v", err)
	}
	return StageDone
}
