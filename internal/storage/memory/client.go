// Package memory — in-memory реализация UpdateDeduper для -dev запуска без Redis
// и для тестов. Просроченные записи вычищаются лениво при обращении.
package memory

import (
	"context"
	"sync"
	"time"
)

const seenTTL = 24 * time.Hour

type Client struct {
	mu   sync.Mutex
	seen map[int]time.Time
}

func New() *Client {
	return &Client{seen: make(map[int]time.Time)}
}

func (c *Client) Close() error { return nil }

// Seen помечает update_id обработанным; true — уже был и ещё не просрочен.
func (c *Client) Seen(ctx context.Context, updateID int) (bool, error) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if exp, ok := c.seen[updateID]; ok && now.Before(exp) {
		return true, nil
	}
	for id, exp := range c.seen {
		if now.After(exp) {
			delete(c.seen, id)
		}
	}
	c.seen[updateID] = now.Add(seenTTL)
	return false, nil
}
