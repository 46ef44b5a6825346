package websocket

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// client is one upgraded connection and the sessions it started.
// It is only touched from the connection's read loop.
type client struct {
	conn     *websocket.Conn
	sessions map[string]struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:     conn,
		sessions: make(map[string]struct{}),
	}
}

func (that *client) owns(id string) bool {
	_, ok := that.sessions[id]
	return ok
}

func (that *client) own(id string) {
	that.sessions[id] = struct{}{}
}

func (that *client) release(id string) {
	delete(that.sessions, id)
}

// watchReads makes a read fail once the peer stops answering pings.
func (that *client) watchReads() error {
	if err := that.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err //nolint: wrapcheck // reported by the read loop
	}

	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return nil
}

// keepAlive pings the peer until ctx is done, then closes the connection so a blocked read returns.
func (that *client) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ctx.Done():
			closeMsg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = that.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait))
			_ = that.conn.Close()

			return
		}
	}
}
