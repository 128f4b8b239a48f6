package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func testClient(h *Hub, buffer int) *Client {
	return &Client{
		Send:        make(chan []byte, buffer),
		ID:          "test-client",
		Hub:         h,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
		ctx:         context.Background(),
	}
}

func drainWelcomeMessage(t *testing.T, client *Client) {
	t.Helper()
	select {
	case data := <-client.Send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != MessageTypeConnection {
			t.Fatalf("expected connection message, got %s", data)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("welcome message not sent")
	}
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("every registered dashboard receives each broadcast", prop.ForAll(
		func(numClients int, entryID int64) bool {
			hub := NewHub()
			clients := make([]*Client, numClients)
			for i := range clients {
				clients[i] = testClient(hub, 4)
				hub.registerClient(clients[i])
				<-clients[i].Send
			}

			payload, _ := json.Marshal(Message{Type: MessageTypeEntryCreated, Data: map[string]int64{"id": entryID}})
			hub.broadcastMessage(payload)

			for _, c := range clients {
				select {
				case got := <-c.Send:
					if string(got) != string(payload) {
						return false
					}
				default:
					return false
				}
			}
			return hub.ConnectionCount() == numClients
		},
		gen.IntRange(1, 20),
		gen.Int64Range(1, 1_000_000),
	))

	properties.TestingRun(t)
}

func TestSlowClientIsDisconnected(t *testing.T) {
	hub := NewHub()
	slow := testClient(hub, 1)
	fast := testClient(hub, 4)

	hub.registerClient(slow) // fila cheia com a mensagem de boas-vindas
	hub.registerClient(fast)
	drainWelcomeMessage(t, fast)

	hub.broadcastMessage([]byte(`{"type":"entry_deleted"}`))

	if hub.ConnectionCount() != 1 {
		t.Fatalf("expected slow client to be dropped, %d connections left", hub.ConnectionCount())
	}
	<-slow.Send
	if _, ok := <-slow.Send; ok {
		t.Error("slow client channel should be closed")
	}
	if slow.trySend([]byte("x")) {
		t.Error("send on closed client must fail")
	}

	// Remover duas vezes não pode causar pânico
	hub.unregisterClient(slow)
	hub.unregisterClient(fast)
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected no connections, got %d", hub.ConnectionCount())
	}
}

func TestServeWSEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != MessageTypeConnection {
		t.Fatalf("expected connection message, got %+v (%v)", msg, err)
	}

	hub.Broadcast(MessageTypeEntryCreated, map[string]int{"id": 7})
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != MessageTypeEntryCreated {
		t.Fatalf("expected entry_created, got %+v (%v)", msg, err)
	}

	if err := conn.WriteJSON(Message{Type: "ping"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != MessageTypePong {
		t.Fatalf("expected pong, got %+v (%v)", msg, err)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not unregistered after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
