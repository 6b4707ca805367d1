package pipeline

import (
	"context"
	"time"

	"github.com/zamzabot/internal/classifier"
	"github.com/zamzabot/internal/fingerprint"
	"github.com/zamzabot/internal/model"
)

// ReactionStore — хранилище реакций. All и FindByPatterns возвращают записи в
// порядке создания: "побеждает последняя" значит последняя созданная.
type ReactionStore interface {
	Create(ctx context.Context, r *model.Reaction) error
	// FindByPatterns возвращает реакции, у которых набор паттернов пересекается
	// с запрошенным (проверка занятости при создании).
	FindByPatterns(ctx context.Context, patterns []string) ([]model.Reaction, error)
	All(ctx context.Context) ([]model.Reaction, error)
	// TouchLastUsed перезапускает окно кулдауна реакции.
	TouchLastUsed(ctx context.Context, id string, usedAt time.Time) error
}

// FingerprintStore — хранилище отпечатков картинок (write-once).
type FingerprintStore interface {
	Create(ctx context.Context, fp *model.ImageFingerprint) error
	// FindByChatAndFile ищет отпечаток того же файла в том же чате;
	// отсутствие — (nil, nil).
	FindByChatAndFile(ctx context.Context, chatID int64, fileID string) (*model.ImageFingerprint, error)
	// ByChat возвращает все отпечатки чата в порядке создания.
	ByChat(ctx context.Context, chatID int64) ([]model.ImageFingerprint, error)
}

// Transport — клиент чат-транспорта, нужный конвейеру (скачивание файлов).
type Transport interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// Fingerprinter считает вектор отпечатка по байтам изображения.
type Fingerprinter interface {
	Compute(data []byte) (fingerprint.Vector, error)
}

// Classifier выносит вердикт по diff-вектору.
type Classifier interface {
	Predict(d fingerprint.DiffVector) (classifier.Verdict, error)
}
