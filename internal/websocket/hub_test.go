package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"exam-proctoring-be/internal/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func registerTestClient(t *testing.T, hub *Hub) *Client {
	t.Helper()
	client := &Client{Hub: hub, ProctorID: uuid.New(), Send: make(chan []byte, 4)}
	hub.register <- client

	for i := 0; i < 100; i++ {
		hub.mu.RLock()
		n := len(hub.clients)
		hub.mu.RUnlock()
		if n > 0 {
			return client
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("client never registered")
	return nil
}

func expectNotice(t *testing.T, client *Client) {
	t.Helper()
	select {
	case data := <-client.Send:
		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			t.Fatalf("unreadable broadcast payload: %v", err)
		}
		if envelope.Type != "cheating_event" {
			t.Errorf("broadcast type = %q, want cheating_event", envelope.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notice never reached the console")
	}
}

func TestBroadcastDeliversLocallyWithoutRedis(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	client := registerTestClient(t, hub)
	hub.Broadcast(dto.ProctorNotice{EventType: "tab_switch"})
	expectNotice(t, client)
}

func TestBroadcastFallsBackWhenRedisUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	hub := NewHub(rdb, nopLogger{})
	go hub.Run()

	client := registerTestClient(t, hub)
	hub.Broadcast(dto.ProctorNotice{EventType: "object_detected"})
	expectNotice(t, client)
}
