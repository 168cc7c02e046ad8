package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internal2vol/model"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastAndShutdown(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewServer("127.0.0.1:0", websocket.Upgrader{}, logger)
	require.NoError(t, s.Start())

	url := "ws://" + s.Addr() + "/ws"
	a := dial(t, url)
	b := dial(t, url)
	require.Eventually(t, func() bool { return s.Hub().Clients() == 2 }, time.Second, 5*time.Millisecond)

	sent := []model.Msg{
		{Type: model.MsgTime, Time: "0.1", Content: "0.1"},
		{Type: model.MsgPromoted, Time: "0.1", Content: "alpha_dummy"},
	}
	for _, msg := range sent {
		s.Notify(msg)
	}
	// Finished 在关闭前发出，仍应送达
	s.Notify(model.Msg{Type: model.MsgFinished, Content: "Finished!"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		for _, want := range append(sent, model.Msg{Type: model.MsgFinished, Content: "Finished!"}) {
			var got model.Msg
			require.NoError(t, conn.ReadJSON(&got))
			assert.Equal(t, want, got)
		}
		_, _, err := conn.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	}
	assert.Equal(t, 0, s.Hub().Clients())
}

func TestHandlerWithHTTPTest(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewServer("", websocket.Upgrader{}, logger)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dial(t, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws")
	require.Eventually(t, func() bool { return s.Hub().Clients() == 1 }, time.Second, 5*time.Millisecond)

	s.Notify(model.Msg{Type: model.MsgMissing, Time: "1", Content: "beta"})
	var got model.Msg
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, model.Msg{Type: model.MsgMissing, Time: "1", Content: "beta"}, got)

	// 客户端断开后被注销
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return s.Hub().Clients() == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Shutdown(context.Background()))
}

func TestNotifyNeverBlocks(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewServer("", websocket.Upgrader{}, logger)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10*broadcastBuffer; i++ {
			s.Notify(model.Msg{Type: model.MsgTime})
		}
		assert.NoError(t, s.Shutdown(context.Background()))
		s.Notify(model.Msg{Type: model.MsgFinished})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked")
	}
}

func TestStartInvalidAddress(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewServer("not-an-address", websocket.Upgrader{}, logger)
	defer s.Shutdown(context.Background())
	assert.Error(t, s.Start())
}
