package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SvenDH/chess-nonogram/config"
)

// stalledClient has a full send buffer and a write pump that has exited.
func stalledClient(t *testing.T) (*Client, *Server) {
	t.Helper()
	ws := NewWebsocketServer(NewMemoryBroker(), newTestRepository(t), config.Default())
	client := newClient(nil, ws, "ana")
	for range cap(client.send) {
		client.send <- []byte("queued")
	}
	close(client.stopped)
	return client, ws
}

func TestHandleMessageWithStoppedWriter(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `not json`},
		{"unknown type", `{"type":"dance"}`},
		{"bad submit", `{"type":"job.submit","data":{"image":["012"]}}`},
		{"cancel unknown job", `{"type":"job.cancel","data":"nope"}`},
		{"submit", `{"type":"job.submit","data":{"image":["010","111"],"generations":1,"population":4}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, ws := stalledClient(t)
			returned := make(chan struct{})
			go func() {
				client.handleNewMessage([]byte(tt.body))
				close(returned)
			}()
			select {
			case <-returned:
			case <-time.After(2 * time.Second):
				t.Fatal("handler blocked on a full send buffer")
			}
			assert.Empty(t, ws.jobs, "undelivered submits do not leave jobs behind")
			assert.Empty(t, client.subs)
		})
	}
}

func TestDeliver(t *testing.T) {
	client, _ := stalledClient(t)
	assert.False(t, client.deliver([]byte("late")))

	open := newClient(nil, nil, "bob")
	require.True(t, open.deliver([]byte("hello")))
	assert.Equal(t, "hello", string(<-open.send))
}
