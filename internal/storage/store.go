package storage

import "context"

// UpdateDeduper помнит обработанные update_id: Telegram повторно доставляет
// апдейты, не подтверждённые двухсотым ответом, а на один апдейт должен
// приходиться максимум один ответ.
// Реализации: redis.Client, memory.Client (для -dev без Redis).
type UpdateDeduper interface {
	// Seen атомарно помечает апдейт обработанным; true — уже был.
	Seen(ctx context.Context, updateID int) (bool, error)
	Close() error
}
