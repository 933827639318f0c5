package chat

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(chatID, id string) *Client {
	return &Client{
		ID:     id,
		ChatID: chatID,
		send:   make(chan WSMessage, 8),
	}
}

func TestHubRegisterBroadcast(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	a := newTestClient("room1", "a")
	b := newTestClient("room1", "b")
	other := newTestClient("room2", "c")
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)

	if got := hub.PresenceCount("room1"); got != 2 {
		t.Fatalf("presence = %d, want 2", got)
	}

	hub.Broadcast("room1", "message", map[string]string{"body": "hello"})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if msg.Event != "message" {
				t.Errorf("client %s got event %q", c.ID, msg.Event)
			}
			var payload map[string]string
			if err := json.Unmarshal(msg.Data, &payload); err != nil || payload["body"] != "hello" {
				t.Errorf("client %s payload = %s", c.ID, msg.Data)
			}
		default:
			t.Errorf("client %s received nothing", c.ID)
		}
	}
	select {
	case msg := <-other.send:
		t.Errorf("room2 client received %q", msg.Event)
	default:
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	a := newTestClient("room1", "a")
	hub.Register(a)
	hub.Unregister(a)

	if got := hub.PresenceCount("room1"); got != 0 {
		t.Fatalf("presence = %d, want 0", got)
	}
	hub.Broadcast("room1", "message", []byte(`{}`))
	select {
	case msg := <-a.send:
		t.Errorf("unregistered client received %q", msg.Event)
	default:
	}
}

func TestHubPublishFallsBackLocally(t *testing.T) {
	// Without a pub/sub bridge Publish must still reach local clients.
	hub := NewHub(zap.NewNop(), nil, nil)
	a := newTestClient("room1", "a")
	hub.Register(a)

	hub.Publish("room1", "typing", map[string]string{"user_id": "u1"})
	select {
	case msg := <-a.send:
		if msg.Event != "typing" {
			t.Errorf("event = %q, want typing", msg.Event)
		}
	default:
		t.Error("local client received nothing")
	}
}

// Exercises broadcast while clients join and leave the same room;
// run with -race to check the fan-out against membership churn.
func TestHubBroadcastDuringChurn(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			c := newTestClient("room1", fmt.Sprintf("churn-%d", i))
			hub.Register(c)
			hub.Unregister(c)
		}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			hub.Broadcast("room1", "message", []byte(`{}`))
		}
	}()
	wg.Wait()

	if got := hub.PresenceCount("room1"); got != 0 {
		t.Errorf("presence after churn = %d, want 0", got)
	}
}

func TestHubFullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	a := &Client{ID: "a", ChatID: "room1", send: make(chan WSMessage)}
	hub.Register(a)

	// No receiver on the unbuffered channel; Broadcast must skip the
	// client and return instead of blocking the hub.
	hub.Broadcast("room1", "message", []byte(`{}`))
}
