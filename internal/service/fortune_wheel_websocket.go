package service

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
)

const (
	liveWriteTimeout = 10 * time.Second
	livePingInterval = 30 * time.Second

	LiveSnapshotType = "SNAPSHOT"
)

// upgrader is used to upgrade HTTP connections to WebSocket connections.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// LiveSnapshot is the first message of every live connection.
type LiveSnapshot struct {
	Type  string         `json:"type"`
	State *SpinStateView `json:"state"`
}

// FortuneWheelWebsocketService streams spin events to connected clients.
type FortuneWheelWebsocketService struct {
	wheel  *FortuneWheelService
	events SpinEvents
}

func NewFortuneWheelWebsocketService(wheel *FortuneWheelService, events SpinEvents) *FortuneWheelWebsocketService {
	return &FortuneWheelWebsocketService{wheel: wheel, events: events}
}

// LiveSpinWebsocketHandler sends the current state, then every spin event
// until the client goes away.
func (f *FortuneWheelWebsocketService) LiveSpinWebsocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("%v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Subscribe before reading the snapshot so no transition is missed.
	events, unsubscribe, err := f.events.Subscribe(ctx)
	if err != nil {
		logger.Error("%v", err)
		return
	}
	defer unsubscribe()

	state, err := f.wheel.GetSpinState(ctx)
	if err != nil {
		logger.Error("%v", err)
		return
	}
	if err = f.write(conn, LiveSnapshot{Type: LiveSnapshotType, State: state}); err != nil {
		return
	}

	// Clients only listen; reading detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(livePingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := f.write(conn, event); err != nil {
				return
			}
		case <-ping.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteTimeout))
			if err != nil {
				return
			}
		}
	}
}

func (f *FortuneWheelWebsocketService) write(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	if err := conn.WriteJSON(v); err != nil {
		logger.Debug("Live spin client gone: %v", err)
		return err
	}
	return nil
}
