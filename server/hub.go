package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"internal2vol/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	broadcastBuffer = 256
	sendBuffer      = 64
)

// Hub maintains the set of active clients and broadcasts messages to the clients.
type Hub struct {
	clients map[*client]bool
	count   atomic.Int32

	broadcast  chan model.Msg
	register   chan *client
	unregister chan *client

	done     chan struct{}
	stopOnce sync.Once
	// 所有 writePump 退出后才算关闭完成
	pumps sync.WaitGroup

	log log.FieldLogger
}

func NewHub(logger log.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan model.Msg, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        logger,
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.count.Add(1)
			h.log.WithField("remote", c.conn.RemoteAddr().String()).Debug("feed client connected")
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.deliver(msg)
		case <-h.done:
			// 先把已排队的消息发出去，再通知各连接关闭
			for {
				select {
				case msg := <-h.broadcast:
					h.deliver(msg)
					continue
				default:
				}
				break
			}
			for c := range h.clients {
				h.remove(c)
			}
			return
		}
	}
}

func (h *Hub) deliver(msg model.Msg) {
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// 跟不上的客户端直接断开
			h.log.WithField("remote", c.conn.RemoteAddr().String()).Warn("feed client too slow, dropped")
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.count.Add(-1)
	}
}

// Notify 广播一条消息，从不阻塞；缓冲区满或已关闭时丢弃
func (h *Hub) Notify(msg model.Msg) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.WithField("type", msg.Type).Debug("feed buffer full, message dropped")
	}
}

// Clients 当前连接数
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan model.Msg
}

// writePump 把消息写到连接上，send 被关闭时发送关闭帧并退出
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.hub.pumps.Done()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "finished"))
				return
			}
			if err := c.conn.WriteJSON(&msg); err != nil {
				c.hub.log.WithError(err).Debug("feed write failed")
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

// readPump 客户端只订阅，收到的内容丢弃；读出错即注销
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var msg model.Msg
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.WithError(err).Debug("feed client closed")
			}
			return
		}
		c.hub.log.WithField("type", msg.Type).Debug("ignoring message from feed client")
	}
}
