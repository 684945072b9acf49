package service

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"tutor_backend/pkg/logger"
	"tutor_backend/pkg/monitoring"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client 一个聊天室 websocket 连接，只接收广播
type Client struct {
	Hub    *ChatHub
	Conn   *websocket.Conn
	Send   chan []byte
	ID     uint64
	UserID string
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		// 客户端通过 HTTP 发送消息，这里只处理控制帧和断开
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("WebSocket unexpected close", zap.Error(err), zap.String("userId", c.UserID))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
			monitoring.ChatMessageCounter.WithLabelValues("out").Inc()
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[uint64]*Client
	mu      sync.RWMutex
}

// ChatHub 订阅 relay，把每条广播推送给本实例的所有连接各一次
type ChatHub struct {
	shards     [shardCount]*shard
	register   chan *Client
	unregister chan *Client
	relay      Relay
	nextID     atomic.Uint64
	done       chan struct{}
	stopOnce   sync.Once
}

func NewChatHub(relay Relay) *ChatHub {
	h := &ChatHub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		relay:      relay,
		done:       make(chan struct{}),
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			clients: make(map[uint64]*Client),
		}
	}
	return h
}

func (h *ChatHub) getShard(id uint64) *shard {
	return h.shards[id%shardCount]
}

// Run 阻塞直到 ctx 结束或 Stop 被调用
func (h *ChatHub) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := h.relay.Subscribe(ctx)
	if err != nil {
		// 订阅失败后不再接受新连接
		h.Stop()
		return err
	}

	for {
		select {
		case client := <-h.register:
			s := h.getShard(client.ID)
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			monitoring.ChatOnlineClients.Inc()

		case client := <-h.unregister:
			h.removeClient(client)

		case payload, ok := <-messages:
			if !ok {
				logger.Log.Warn("Chat relay subscription closed")
				messages = nil
				continue
			}
			h.broadcastLocal(payload)

		case <-ctx.Done():
			h.Stop()
			return nil

		case <-h.done:
			return nil
		}
	}
}

func (h *ChatHub) removeClient(client *Client) {
	s := h.getShard(client.ID)
	s.mu.Lock()
	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		close(client.Send)
		monitoring.ChatOnlineClients.Dec()
	}
	s.mu.Unlock()
}

func (h *ChatHub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *ChatHub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *ChatHub) broadcastLocal(payload []byte) {
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.RLock()
		for _, client := range s.clients {
			select {
			case client.Send <- payload:
			default:
				// 慢连接直接丢弃
			}
		}
		s.mu.RUnlock()
	}
}

func (h *ChatHub) ClientCount() int {
	n := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.RLock()
		n += len(s.clients)
		s.mu.RUnlock()
	}
	return n
}

// Stop 关闭所有连接
func (h *ChatHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		closed := 0
		for i := 0; i < shardCount; i++ {
			s := h.shards[i]
			s.mu.Lock()
			for id, client := range s.clients {
				close(client.Send)
				delete(s.clients, id)
				closed++
			}
			s.mu.Unlock()
		}

		monitoring.ChatOnlineClients.Set(0)
		logger.Log.Info("ChatHub stopped", zap.Int("closedConnections", closed))
	})
}

// Stopped 聊天室已停止（关闭或订阅失败）
func (h *ChatHub) Stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func ServeWs(hub *ChatHub, w http.ResponseWriter, r *http.Request, userID string) {
	if hub.Stopped() {
		http.Error(w, "chat is unavailable", http.StatusServiceUnavailable)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.String("userId", userID))
		return
	}
	client := &Client{
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		ID:     hub.nextID.Add(1),
		UserID: userID,
	}
	if !hub.registerClient(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
