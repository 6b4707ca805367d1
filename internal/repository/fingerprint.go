package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zamzabot/internal/fingerprint"
	"github.com/zamzabot/internal/logger"
	"github.com/zamzabot/internal/model"
)

type FingerprintRepository struct {
	pool *pgxpool.Pool
}

func NewFingerprintRepository(pool *pgxpool.Pool) *FingerprintRepository {
	return &FingerprintRepository{pool: pool}
}

func (r *FingerprintRepository) Create(ctx context.Context, fp *model.ImageFingerprint) error {
	defer logger.DeferLogDuration("fingerprint.Create", time.Now())()
	hashes, err := json.Marshal(fp.Hashes)
	if err != nil {
		return fmt.Errorf("fingerprintRepo.Create marshal: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO image_fingerprints (id, chat_id, file_id, hashes, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		fp.ID, fp.ChatID, fp.FileID, hashes, []byte(fp.Message), fp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("fingerprintRepo.Create: %w", err)
	}
	return nil
}

// FindByChatAndFile ищет отпечаток того же файла в том же чате (короткое
// замыкание точного повтора). Отсутствие — (nil, nil).
func (r *FingerprintRepository) FindByChatAndFile(ctx context.Context, chatID int64, fileID string) (*model.ImageFingerprint, error) {
	defer logger.DeferLogDuration("fingerprint.FindByChatAndFile", time.Now())()
	fp, err := scanFingerprint(r.pool.QueryRow(ctx,
		`SELECT id, chat_id, file_id, hashes, message, created_at
		 FROM image_fingerprints
		 WHERE chat_id = $1 AND file_id = $2
		 ORDER BY created_at, id
		 LIMIT 1`, chatID, fileID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fingerprintRepo.FindByChatAndFile: %w", err)
	}
	return fp, nil
}

// ByChat возвращает все отпечатки чата в порядке создания (порядок скана
// проверки повтора).
func (r *FingerprintRepository) ByChat(ctx context.Context, chatID int64) ([]model.ImageFingerprint, error) {
	defer logger.DeferLogDuration("fingerprint.ByChat", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT id, chat_id, file_id, hashes, message, created_at
		 FROM image_fingerprints
		 WHERE chat_id = $1
		 ORDER BY created_at, id`, chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("fingerprintRepo.ByChat query: %w", err)
	}
	defer rows.Close()

	prints := make([]model.ImageFingerprint, 0, 32)
	for rows.Next() {
		fp, err := scanFingerprint(rows)
		if err != nil {
			return nil, fmt.Errorf("fingerprintRepo.ByChat scan: %w", err)
		}
		prints = append(prints, *fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fingerprintRepo.ByChat rows: %w", err)
	}
	return prints, nil
}

func scanFingerprint(row pgx.Row) (*model.ImageFingerprint, error) {
	var (
		fp      model.ImageFingerprint
		hashes  []byte
		message []byte
	)
	if err := row.Scan(&fp.ID, &fp.ChatID, &fp.FileID, &hashes, &message, &fp.CreatedAt); err != nil {
		return nil, err
	}
	var vec fingerprint.Vector
	if err := json.Unmarshal(hashes, &vec); err != nil {
		return nil, fmt.Errorf("hashes: %w", err)
	}
	fp.Hashes = vec
	fp.Message = json.RawMessage(message)
	return &fp, nil
}
