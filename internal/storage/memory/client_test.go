package memory

import (
	"context"
	"testing"
	"time"
)

func TestSeen(t *testing.T) {
	c := New()
	ctx := context.Background()

	seen, err := c.Seen(ctx, 100)
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if seen {
		t.Error("первый раз апдейт не должен быть отмечен")
	}

	seen, err = c.Seen(ctx, 100)
	if err != nil {
		t.Fatalf("Seen повторно: %v", err)
	}
	if !seen {
		t.Error("повторный апдейт должен быть отмечен")
	}

	seen, _ = c.Seen(ctx, 101)
	if seen {
		t.Error("другой update_id не должен быть отмечен")
	}
}

func TestSeenExpiry(t *testing.T) {
	c := New()
	ctx := context.Background()

	if _, err := c.Seen(ctx, 1); err != nil {
		t.Fatalf("Seen: %v", err)
	}
	// просроченная запись ведёт себя как отсутствующая
	c.mu.Lock()
	c.seen[1] = time.Now().Add(-time.Minute)
	c.mu.Unlock()

	seen, err := c.Seen(ctx, 1)
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if seen {
		t.Error("просроченная отметка не считается")
	}
}

func TestClose(t *testing.T) {
	c := New()
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
