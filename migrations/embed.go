// Package migrations предоставляет встроенные SQL-миграции и их применение на старте.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Files содержит все .sql файлы из этой директории (порядок важен: 001, 002, ...).
//
//go:embed *.sql
var Files embed.FS

// Apply выполняет миграции по порядку имён. Скрипты идемпотентны (IF NOT EXISTS),
// отдельного журнала миграций нет.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	entries, err := Files.ReadDir(".")
	if err != nil {
		return fmt.Errorf("migrations.Apply readdir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := Files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrations.Apply read %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("migrations.Apply exec %s: %w", name, err)
		}
	}
	return nil
}
