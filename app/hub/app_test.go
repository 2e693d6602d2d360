package hub_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webpubsub/app/hub"
	"github.com/dmitrymomot/webpubsub/core/logger"
	"github.com/dmitrymomot/webpubsub/core/protocol"
	"github.com/dmitrymomot/webpubsub/core/pubsub"
	"github.com/dmitrymomot/webpubsub/core/server"
	"github.com/dmitrymomot/webpubsub/core/webview"
)

func testConfig() hub.Config {
	return hub.Config{
		Server: server.Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
		PubSub: pubsub.Config{SweepInterval: 20 * time.Millisecond, ShutdownTimeout: time.Second},
		WebView: webview.Config{
			WriteTimeout: time.Second,
			ReadLimit:    4096,
		},
		AppName: "pubsubd-test",
		WSPath:  "/ws",
	}
}

func startApp(t *testing.T, app *hub.App) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Error("hub did not stop")
		}
	})

	var addr string
	require.Eventually(t, func() bool {
		addr = app.Addr()
		return addr != ""
	}, 2*time.Second, 5*time.Millisecond)
	return addr
}

func TestApp(t *testing.T) {
	t.Parallel()

	app, err := hub.NewApp(hub.WithConfig(testConfig()), hub.WithLogger(logger.Discard()))
	require.NoError(t, err)
	addr := startApp(t, app)

	t.Run("probes", func(t *testing.T) {
		resp, err := http.Get("http://" + addr + "/livez")
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		require.Eventually(t, func() bool {
			resp, err := http.Get("http://" + addr + "/healthz")
			if err != nil {
				return false
			}
			_ = resp.Body.Close()
			return resp.StatusCode == http.StatusOK
		}, 2*time.Second, 10*time.Millisecond, "readiness waits for the sweeper")
	})

	t.Run("web views exchange messages", func(t *testing.T) {
		sub, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
		require.NoError(t, err)
		defer sub.Close()
		pub, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
		require.NoError(t, err)
		defer pub.Close()

		frame, err := protocol.Encode(protocol.Subscribe("news", "onNews"))
		require.NoError(t, err)
		require.NoError(t, sub.WriteMessage(websocket.TextMessage, frame))
		require.Eventually(t, func() bool { return app.Registry().Len() == 1 }, 2*time.Second, 5*time.Millisecond)

		frame, err = protocol.Encode(protocol.Publish("news", []byte(`{"headline":"hub works"}`)))
		require.NoError(t, err)
		require.NoError(t, pub.WriteMessage(websocket.TextMessage, frame))

		require.NoError(t, sub.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := sub.ReadMessage()
		require.NoError(t, err)

		cb, err := protocol.DecodeCallback(data)
		require.NoError(t, err)
		assert.Equal(t, "onNews", cb.Callback)
		assert.JSONEq(t, `{"headline":"hub works"}`, string(cb.Data))

		require.NoError(t, sub.Close())
		require.Eventually(t, func() bool { return app.Registry().Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	})
}

func TestNewAppOptions(t *testing.T) {
	t.Parallel()

	_, err := hub.NewApp(hub.WithConfig(testConfig()), hub.WithLogger(nil))
	assert.Error(t, err)

	_, err = hub.NewApp(hub.WithConfig(testConfig()), hub.WithRegistry(nil))
	assert.Error(t, err)

	_, err = hub.NewApp(hub.WithConfig(testConfig()), hub.WithServer(nil))
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Server.Addr = ""
	_, err = hub.NewApp(hub.WithConfig(cfg))
	assert.ErrorIs(t, err, server.ErrMissingAddress)

	reg := pubsub.NewRegistry[webview.Conn]()
	app, err := hub.NewApp(hub.WithConfig(testConfig()), hub.WithRegistry(reg))
	require.NoError(t, err)
	assert.Same(t, reg, app.Registry())
}

func TestAppShutdownClosesWebViews(t *testing.T) {
	t.Parallel()

	app, err := hub.NewApp(hub.WithConfig(testConfig()), hub.WithLogger(logger.Discard()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return app.Addr() != "" }, 2*time.Second, 5*time.Millisecond)

	ws, _, err := websocket.DefaultDialer.Dial("ws://"+app.Addr()+"/ws", nil)
	require.NoError(t, err)
	defer ws.Close()

	frame, err := protocol.Encode(protocol.Subscribe("news", "onNews"))
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, frame))
	require.Eventually(t, func() bool { return app.Registry().Len() == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = ws.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("hub did not stop")
	}
	require.Eventually(t, func() bool { return app.Registry().Len() == 0 }, 2*time.Second, 5*time.Millisecond)
}
