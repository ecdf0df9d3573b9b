package stream

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/gorilla/websocket"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Result describes how a piped session ended.
type Result struct {
	// Status is the last status reported on the upstream error channel, or
	// nil if the upstream never sent one.
	Status *metav1.Status
}

// Succeeded reports whether the upstream command exited successfully.
func (r Result) Succeeded() bool {
	return r.Status != nil && r.Status.Status == metav1.StatusSuccess
}

// Pipe forwards frames between client and upstream until either side stops
// or ctx is cancelled. Only binary client frames are forwarded. The client is
// pinged while idle. Both connections are closed when Pipe returns.
func Pipe(ctx context.Context, client, upstream Conn) Result {
	stop := keepAlive(client, pingPeriod, pongWait)
	defer stop()

	var (
		once   sync.Once
		wg     sync.WaitGroup
		result Result
	)
	closeBoth := func() {
		once.Do(func() {
			_ = upstream.Close()
			_ = client.Close()
		})
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			closeBoth()
		case <-done:
		}
	}()

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer closeBoth()
		for {
			mt, data, err := client.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.BinaryMessage {
				continue
			}
			if err := upstream.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		defer closeBoth()
		for {
			mt, data, err := upstream.ReadMessage()
			if err != nil {
				closeWith(client, websocket.CloseNormalClosure, "")
				return
			}
			if len(data) > 1 && data[0] == ErrorChannel {
				if st := parseStatus(data[1:]); st != nil {
					result.Status = st
				}
			}
			if err := client.WriteMessage(mt, data); err != nil {
				return
			}
		}
	}()

	wg.Wait()
	close(done)
	return result
}

// Tail forwards logs line by line to client, each line prefixed with the
// stdout channel byte, until logs reaches EOF, the client goes away or ctx
// is cancelled. A client disconnect is not an error.
func Tail(ctx context.Context, client Conn, logs io.ReadCloser) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer logs.Close()
	stop := keepAlive(client, pingPeriod, pongWait)
	defer stop()

	go func() {
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()
	go func() {
		<-ctx.Done()
		_ = logs.Close()
	}()

	reader := bufio.NewReader(logs)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			frame := append([]byte{StdoutChannel}, line...)
			if werr := client.WriteMessage(websocket.BinaryMessage, frame); werr != nil {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				closeWith(client, websocket.CloseNormalClosure, "")
				_ = client.Close()
				return nil
			}
			return err
		}
	}
}
