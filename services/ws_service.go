package services

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
)

// WSMessage representa uma notificação enviada ao painel via WebSocket
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// UserNotifier entrega notificações do painel para um usuário
type UserNotifier interface {
	NotifyUser(userID uint, message WSMessage)
}

// Client representa um painel conectado
type Client struct {
	UserID   uint
	Conn     *websocket.Conn
	Send     chan WSMessage
	Hub      *Hub
	LastPing time.Time
}

// Hub gerencia as conexões do painel e distribui notificações
// (respostas do assistente, mensagens do WhatsApp, alertas de estoque)
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan WSMessage
	mutex      sync.RWMutex
}

// NewHub cria um novo hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan WSMessage),
	}
}

// Run inicia o loop do hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Painel do usuário %d conectado. Total: %d", client.UserID, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Painel do usuário %d desconectado. Total: %d", client.UserID, len(h.clients))

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// NotifyUser envia uma notificação para todas as conexões de um usuário
func (h *Hub) NotifyUser(userID uint, message WSMessage) {
	h.mutex.Lock()
	for client := range h.clients {
		if client.UserID == userID {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
	h.mutex.Unlock()
}

// HandleWebSocket autentica e registra uma conexão do painel
func (h *Hub) HandleWebSocket(c *websocket.Conn) {
	// O token JWT chega pelos query params
	tokenString := c.Query("token")
	if tokenString == "" {
		c.Close()
		return
	}

	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		secretKey = "foguete-secret-key-change-in-production"
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid {
		c.Close()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.Close()
		return
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		c.Close()
		return
	}

	client := &Client{
		UserID:   uint(userIDFloat),
		Conn:     c,
		Send:     make(chan WSMessage, 256),
		Hub:      h,
		LastPing: time.Now(),
	}

	h.register <- client

	go client.writePump()
	client.readPump()
}

// readPump consome o socket até a desconexão
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		// O painel não envia comandos; só mantemos a conexão viva
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump envia notificações e pings para o painel
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
