// Package websocket 维护在线用户的 WebSocket 连接，用于实时推送通知
package websocket

import (
	"net/http"
	"sync"
	"time"

	"flatshare_server/pkg/constants"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 前后端分离部署，允许跨域
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client 一个用户的 WebSocket 连接
type Client struct {
	Conn     *websocket.Conn
	Uuid     string
	SendBack chan []byte // 给前端
	done     chan struct{}
	once     sync.Once
}

// Hub 在线连接表，每个用户只保留最新的一条连接
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Serve 升级 HTTP 连接并启动读写协程
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userId string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := &Client{
		Conn:     conn,
		Uuid:     userId,
		SendBack: make(chan []byte, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
	}
	h.register(client)
	go client.write()
	go client.read(h)
	zap.L().Info("ws连接成功", zap.String("userId", userId))
	return nil
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	old := h.clients[client.Uuid]
	h.clients[client.Uuid] = client
	h.mu.Unlock()
	if old != nil {
		old.close()
	}
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if h.clients[client.Uuid] == client {
		delete(h.clients, client.Uuid)
	}
	h.mu.Unlock()
	client.close()
}

// IsOnline 用户是否有在线连接
func (h *Hub) IsOnline(userId string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userId]
	return ok
}

// PushToUser 推送给在线用户，不在线或缓冲区满时返回 false
func (h *Hub) PushToUser(userId string, payload []byte) bool {
	h.mu.RLock()
	client := h.clients[userId]
	h.mu.RUnlock()
	if client == nil {
		return false
	}
	select {
	case <-client.done:
		return false
	case client.SendBack <- payload:
		return true
	default:
		zap.L().Warn("ws send buffer full, dropping message", zap.String("userId", userId))
		return false
	}
}

// Close 断开所有连接
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		if err := c.Conn.Close(); err != nil {
			zap.L().Debug("ws close", zap.Error(err))
		}
	})
}

// read 客户端不发送业务消息，只处理 pong 和断线
func (c *Client) read(h *Hub) {
	defer h.unregister(c)
	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("ws read", zap.String("userId", c.Uuid), zap.Error(err))
			}
			return
		}
	}
}

// write 从 SendBack 读取消息写给前端，并定时发送 ping
func (c *Client) write() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.SendBack:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zap.L().Error("ws write", zap.String("userId", c.Uuid), zap.Error(err))
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}
