package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Обработанный update_id храним сутки: Telegram перестаёт ретраить задолго до этого.
const seenTTL = 24 * time.Hour

type Client struct {
	cli *redis.Client
}

func New(ctx context.Context, url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		if closeErr := cli.Close(); closeErr != nil {
			return nil, fmt.Errorf("redis ping: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{cli: cli}, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}

// Seen помечает update_id обработанным через SETNX по ключу update:{id}.
// false от SETNX — ключ уже существовал, апдейт повторный.
func (c *Client) Seen(ctx context.Context, updateID int) (bool, error) {
	set, err := c.cli.SetNX(ctx, "update:"+strconv.Itoa(updateID), "1", seenTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis seen: %w", err)
	}
	return !set, nil
}
