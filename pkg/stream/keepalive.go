package stream

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// pinger is the part of *websocket.Conn needed to keep an idle session open.
type pinger interface {
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	WriteControl(messageType int, data []byte, deadline time.Time) error
}

// keepAlive pings conn until the returned stop func is called. A peer that
// misses its pong fails the next read. Pongs are only handled while someone
// reads from conn.
func keepAlive(conn Conn, period, wait time.Duration) (stop func()) {
	p, ok := conn.(pinger)
	if !ok {
		return func() {}
	}
	_ = p.SetReadDeadline(time.Now().Add(wait))
	p.SetPongHandler(func(string) error {
		return p.SetReadDeadline(time.Now().Add(wait))
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := p.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
