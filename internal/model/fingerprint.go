package model

import (
	"encoding/json"
	"time"

	"github.com/zamzabot/internal/fingerprint"
)

// ImageFingerprint — отпечаток увиденной картинки: вектор хешей по вариантам,
// привязка к чату и файлу, исходное сообщение для аудита. Записи write-once:
// ни обновления, ни удаления не предусмотрены.
type ImageFingerprint struct {
	ID        string             `json:"id"`
	ChatID    int64              `json:"chat_id"`
	FileID    string             `json:"file_id"`
	Hashes    fingerprint.Vector `json:"hashes"`
	Message   json.RawMessage    `json:"message"` // исходный payload сообщения
	CreatedAt time.Time          `json:"created_at"`
}
