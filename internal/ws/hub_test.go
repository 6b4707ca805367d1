package ws

import (
	"context"
	"testing"
	"time"
)

func TestHubDeliversEvents(t *testing.T) {
	h := NewHub(4)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	defer cancel()

	c := NewClient(nil)
	if !h.Register(c) {
		t.Fatal("клиент должен зарегистрироваться")
	}

	ev := Event{ChatID: -100, MessageID: 10, Responded: true, Summary: "мяу"}
	h.Publish(ev)

	select {
	case got := <-c.send:
		if got.ChatID != -100 || got.Summary != "мяу" {
			t.Errorf("доставлено %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("событие не доставлено")
	}
}

func TestHubConnectionLimit(t *testing.T) {
	h := NewHub(1)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	defer cancel()

	if !h.Register(NewClient(nil)) {
		t.Fatal("первый клиент должен пройти")
	}
	// регистрация обрабатывается асинхронно
	deadline := time.Now().Add(time.Second)
	for h.Register(NewClient(nil)) {
		if time.Now().After(deadline) {
			t.Fatal("лимит подключений не сработал")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	h := NewHub(4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := NewClient(nil)
	if !h.Register(c) {
		t.Fatal("клиент должен зарегистрироваться")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("хаб не остановился")
	}
	select {
	case <-c.done:
	case <-time.After(time.Second):
		t.Fatal("клиент не закрыт при остановке хаба")
	}

	// после остановки публикация и регистрация не блокируют
	h.Publish(Event{})
	if h.Register(NewClient(nil)) {
		t.Error("регистрация после остановки должна отклоняться")
	}
}

func TestClientEnqueueDropsWhenFull(t *testing.T) {
	c := NewClient(nil)
	for i := 0; i < clientBacklog+10; i++ {
		c.Enqueue(Event{MessageID: i})
	}
	if len(c.send) != clientBacklog {
		t.Errorf("в очереди %d событий, ёмкость %d", len(c.send), clientBacklog)
	}
}
