package stream

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Channel bytes of the v4.channel.k8s.io exec protocol. Every binary frame
// starts with one of them.
const (
	StdinChannel  byte = 0
	StdoutChannel byte = 1
	StderrChannel byte = 2
	ErrorChannel  byte = 3
	ResizeChannel byte = 4
)

const writeWait = 10 * time.Second

// Conn is the subset of *websocket.Conn the proxy needs. Both legs of a
// session satisfy it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// ErrorFrame renders a failure on the error channel as "HTTP <code>: <detail>".
func ErrorFrame(code int, detail string) []byte {
	return append([]byte{ErrorChannel}, fmt.Sprintf("HTTP %d: %s", code, detail)...)
}

// RejectSession reports a failure that happened before any upstream
// connection was opened, then closes with a policy violation.
func RejectSession(conn Conn, code int, detail string) {
	_ = conn.WriteMessage(websocket.BinaryMessage, ErrorFrame(code, detail))
	closeWith(conn, websocket.ClosePolicyViolation, "")
	_ = conn.Close()
}

func closeWith(conn Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	if wc, ok := conn.(interface {
		WriteControl(messageType int, data []byte, deadline time.Time) error
	}); ok {
		_ = wc.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage, msg)
}

// parseStatus decodes the metav1.Status the API server writes on the error
// channel when an exec finishes.
func parseStatus(payload []byte) *metav1.Status {
	var st metav1.Status
	if err := json.Unmarshal(payload, &st); err != nil || st.Status == "" {
		return nil
	}
	return &st
}
