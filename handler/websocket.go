package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rehiy/web-zte/events"
)

const (
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

// WebSocketHandler WebSocket处理器
type WebSocketHandler struct {
	events   *events.EventListener
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建新的WebSocket处理器
func NewWebSocketHandler(el *events.EventListener) *WebSocketHandler {
	return &WebSocketHandler{
		events: el,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket 向客户端推送设备事件
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ch, cancel := h.events.Subscribe(16)
	defer cancel()

	logger.Info().Str("remote", r.RemoteAddr).Msg("WebSocket client connected")

	// 客户端不发送数据，读循环只用于发现断开
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			logger.Info().Str("remote", r.RemoteAddr).Msg("WebSocket client disconnected")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				logger.Info().Err(err).Str("remote", r.RemoteAddr).Msg("WebSocket write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logger.Info().Err(err).Str("remote", r.RemoteAddr).Msg("WebSocket ping failed")
				return
			}
		}
	}
}
