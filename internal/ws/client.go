package ws

import (
	"bytes"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zamzabot/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	maxInboundSize = 512
	clientBacklog  = 32
)

var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// Client — одно подключение к ленте событий. Лента односторонняя:
// клиент только читает события, входящие сообщения игнорируются.
type Client struct {
	conn *websocket.Conn

	send chan Event

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan Event, clientBacklog),
		done: make(chan struct{}),
	}
}

// Start запускает насосы чтения и записи.
func (c *Client) Start() {
	c.wg.Add(2)
	go c.readPump()
	go c.writePump()
}

// Wait блокируется до завершения обоих насосов.
func (c *Client) Wait() {
	c.wg.Wait()
}

// Enqueue ставит событие в очередь отправки клиенту. При заполненной
// очереди событие отбрасывается.
func (c *Client) Enqueue(ev Event) {
	select {
	case c.send <- ev:
	case <-c.done:
	default:
	}
}

// Close завершает соединение. Повторные вызовы безопасны.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// readPump вычитывает входящий трафик только ради обработки
// pong-фреймов и обнаружения закрытия соединения.
func (c *Client) readPump() {
	defer c.wg.Done()
	defer c.Close()

	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debugf("ws: read error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.wg.Done()
	defer c.Close()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case ev := <-c.send:
			if err := c.writeEvent(ev); err != nil {
				logger.Debugf("ws: write error: %v", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeEvent(ev Event) error {
	buf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(buf)
	buf.Reset()

	if err := json.NewEncoder(buf).Encode(ev); err != nil {
		return err
	}
	payload := bytes.TrimRight(buf.Bytes(), "\n")

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}
