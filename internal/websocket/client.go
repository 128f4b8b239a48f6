package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	conn *websocket.Conn

	// Buffered channel of outbound messages
	Send chan []byte

	ID       string
	ClientIP string
	Hub      *Hub

	ConnectedAt time.Time
	LastPing    time.Time

	// contexto da requisição de upgrade, usado só para os IDs de log
	ctx context.Context

	mu     sync.Mutex
	closed bool
}

// ServeWS faz o upgrade da conexão e registra o dashboard no hub
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("client_ip", c.ClientIP()).
			Msg("Falha no upgrade da conexão WebSocket")
		return
	}

	client := newClient(h, conn, c.Request.Context(), c.ClientIP())
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func newClient(h *Hub, conn *websocket.Conn, ctx context.Context, clientIP string) *Client {
	now := time.Now()
	return &Client{
		conn:        conn,
		Send:        make(chan []byte, sendBufferSize),
		ID:          uuid.New().String(),
		ClientIP:    clientIP,
		Hub:         h,
		ConnectedAt: now,
		LastPing:    now,
		ctx:         ctx,
	}
}

// readPump lê mensagens do dashboard. Há no máximo um leitor por conexão.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.LastPing = time.Now()
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn().
					Err(err).
					Str("client_id", c.ID).
					Msg("Conexão WebSocket encerrada inesperadamente")
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump envia mensagens do hub. Há no máximo um escritor por conexão.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// O hub fechou o canal
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Uma mensagem JSON por frame
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage responde a pings de aplicação; o resto é ignorado
func (c *Client) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.Hub.logger.Debug().
			Err(err).
			Str("client_id", c.ID).
			Msg("Mensagem inválida recebida do dashboard")
		return
	}

	if msg.Type == "ping" {
		c.SendMessage(Message{Type: MessageTypePong, Timestamp: time.Now().UTC()})
	}
}

// SendMessage enfileira uma mensagem para este cliente, descartando se a fila estiver cheia
func (c *Client) SendMessage(message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		c.Hub.logger.Error().
			Err(err).
			Str("client_id", c.ID).
			Msg("Falha ao serializar mensagem para o cliente")
		return
	}

	if !c.trySend(data) {
		c.Hub.logger.Warn().
			Str("client_id", c.ID).
			Msg("Fila do cliente cheia, mensagem descartada")
	}
}

// trySend enfileira sem bloquear; falha se a fila estiver cheia ou fechada
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// close fecha a fila de saída uma única vez
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}
