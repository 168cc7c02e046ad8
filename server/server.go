// Package server 通过 websocket 推送字段提升的进度，每个事件一条 JSON 消息
package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"internal2vol/model"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	hub      *Hub
	log      log.FieldLogger

	srv *http.Server
	ln  net.Listener
}

// NewServer 创建服务并启动 hub，Start 之前 Handler 已可用
func NewServer(addr string, upgrader websocket.Upgrader, logger log.FieldLogger) *Server {
	s := &Server{
		addr:     addr,
		upgrader: upgrader,
		hub:      NewHub(logger),
		log:      logger,
	}
	go s.hub.run()
	return s
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	c := &client{hub: s.hub, conn: conn, send: make(chan model.Msg, sendBuffer)}
	s.hub.pumps.Add(1)
	select {
	case s.hub.register <- c:
	case <-s.hub.done:
		s.hub.pumps.Done()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "finished"))
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

// Start 监听 addr 并在后台提供服务
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.Handler()}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("feed server stopped")
		}
	}()
	s.log.WithField("addr", s.Addr()).Info("progress feed listening on /ws")
	return nil
}

// Addr 实际监听地址，未启动时返回配置的地址
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

func (s *Server) Hub() *Hub {
	return s.hub
}

// Notify 实现 promoter.Observer
func (s *Server) Notify(msg model.Msg) {
	s.hub.Notify(msg)
}

// Shutdown 发出剩余消息，关闭所有连接后停止监听
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.stop()
	flushed := make(chan struct{})
	go func() {
		s.hub.pumps.Wait()
		close(flushed)
	}()
	select {
	case <-flushed:
	case <-ctx.Done():
		s.log.Warn("feed shutdown timed out before all clients were closed")
	}
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
