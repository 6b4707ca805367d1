package ws

import (
	"context"
	"sync"

	"github.com/zamzabot/internal/logger"
)

const (
	defaultMaxConns = 64
	eventBacklog    = 256
)

// Hub раздаёт события обработки сообщений всем подключённым
// клиентам ленты. Лента best-effort: медленный клиент теряет
// события, а не тормозит пайплайн.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	events     chan Event

	mu       sync.RWMutex
	clients  map[*Client]struct{}
	maxConns int

	done chan struct{}
}

func NewHub(maxConns int) *Hub {
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, eventBacklog),
		clients:    make(map[*Client]struct{}),
		maxConns:   maxConns,
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию клиентов и раздачу событий до отмены
// контекста. Запускается один раз на время жизни сервиса.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case ev := <-h.events:
			h.broadcast(ev)
		}
	}
}

// Publish ставит событие в очередь рассылки. Никогда не блокирует:
// при переполненной очереди событие отбрасывается.
func (h *Hub) Publish(ev Event) {
	select {
	case h.events <- ev:
	case <-h.done:
	default:
		logger.Debug("ws: event backlog full, dropping event")
	}
}

// Register подключает клиента к ленте. Возвращает false, если хаб
// уже остановлен или достигнут лимит подключений.
func (h *Hub) Register(c *Client) bool {
	h.mu.RLock()
	full := len(h.clients) >= h.maxConns
	h.mu.RUnlock()
	if full {
		logger.Infof("ws: connection limit %d reached, rejecting client", h.maxConns)
		return false
	}
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister отключает клиента. Безопасно звать после остановки хаба.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	logger.Infof("ws: feed client connected, total %d", n)
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		c.Close()
		logger.Infof("ws: feed client disconnected, total %d", n)
	}
}

func (h *Hub) broadcast(ev Event) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.Enqueue(ev)
	}
}

// shutdown закрывает всех клиентов. Сетевые операции выполняются
// вне блокировки.
func (h *Hub) shutdown() {
	h.mu.Lock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for _, c := range targets {
		c.Close()
	}
	logger.Info("ws: hub stopped")
}
