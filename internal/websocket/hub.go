package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cleberrangel/time-perception-api/internal/logger"
	"github.com/cleberrangel/time-perception-api/internal/metrics"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Tipos de mensagem enviados ao dashboard
const (
	MessageTypeConnection   = "connection"
	MessageTypeEntryCreated = "entry_created"
	MessageTypeEntryDeleted = "entry_deleted"
	MessageTypePong         = "pong"
)

// Hub mantém os dashboards conectados e distribui eventos de registros
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mutex  sync.RWMutex
	logger *zerolog.Logger
}

// Message represents a generic WebSocket message
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	sendBufferSize      = 64
	broadcastBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origem já é filtrada pelo middleware de CORS
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.Global(),
	}
}

// Run processa registros e broadcasts até o contexto ser cancelado
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		}
	}
}

// Broadcast envia a mensagem para todos os dashboards conectados.
// Não bloqueia: se a fila estiver cheia a mensagem é descartada.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	payload, err := json.Marshal(Message{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error().Err(err).Str("message_type", messageType).Msg("Falha ao serializar mensagem WebSocket")
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn().Str("message_type", messageType).Msg("Fila de broadcast cheia, mensagem descartada")
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mutex.Unlock()

	metrics.Get().IncrementWSConnection()
	logger.AuditWebSocket(client.ctx, logger.AuditActionWSConnect, client.ID, client.ClientIP)

	h.logger.Info().
		Str("client_id", client.ID).
		Int("connections", total).
		Msg("Dashboard conectado")

	client.SendMessage(Message{
		Type:      MessageTypeConnection,
		Data:      map[string]string{"status": "connected", "client_id": client.ID},
		Timestamp: time.Now().UTC(),
	})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		client.close()
	}
	total := len(h.clients)
	h.mutex.Unlock()

	if !ok {
		return
	}

	metrics.Get().DecrementWSConnection()
	logger.AuditWebSocket(client.ctx, logger.AuditActionWSDisconnect, client.ID, client.ClientIP)

	h.logger.Info().
		Str("client_id", client.ID).
		Int("connections", total).
		Msg("Dashboard desconectado")
}

// broadcastMessage entrega a todos; clientes lentos são desconectados
func (h *Hub) broadcastMessage(message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.trySend(message) {
			metrics.Get().IncrementWSMessageOut()
			continue
		}
		h.logger.Warn().
			Str("client_id", client.ID).
			Msg("Cliente lento, encerrando conexão")
		client.close()
		delete(h.clients, client)
		metrics.Get().DecrementWSConnection()
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		client.close()
		delete(h.clients, client)
		metrics.Get().DecrementWSConnection()
	}
}

// ConnectionCount returns the total number of active connections
func (h *Hub) ConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
