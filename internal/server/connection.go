package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardroom/holdem/internal/engine"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents one WebSocket client
type Connection struct {
	conn      *websocket.Conn
	room      *Room
	send      chan *Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	playerID  string
}

// NewConnection creates a connection wrapper around a WebSocket
func NewConnection(conn *websocket.Conn, room *Room, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		room:   room,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message to the client without blocking
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Send channel closed during shutdown
			c.logger.Debug("Send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// PlayerID returns the joined player's ID, empty before joining
func (c *Connection) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Connection) setPlayerID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = id
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage routes one client message into the room
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.PlayerID())

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join data")
			return
		}
		c.handleJoin(data)

	case MessageTypeLeave:
		c.withPlayer(func(id string) error {
			defer c.setPlayerID("")
			return c.room.Leave(id)
		})

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		action, ok := ParseAction(data.Action)
		if !ok {
			c.sendError("invalid_action", "Unknown action: "+data.Action)
			return
		}
		c.withPlayer(func(id string) error {
			return c.room.Act(id, action, data.Amount)
		})

	case MessageTypeStart:
		c.withPlayer(func(string) error {
			return c.room.StartHand()
		})

	case MessageTypeTip:
		var data TipData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse tip data")
			return
		}
		c.withPlayer(func(id string) error {
			return c.room.Tip(id, data.To, data.Amount)
		})

	case MessageTypeAddChips:
		var data AddChipsData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse add chips data")
			return
		}
		c.withPlayer(func(string) error {
			c.room.AddChips(data.Amount)
			return nil
		})

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleJoin(data JoinData) {
	if data.PlayerName == "" {
		c.sendError("invalid_join", "Player name required")
		return
	}
	if err := c.room.Join(data.PlayerName, data.PlayerName); err != nil {
		c.sendReject(err)
		return
	}
	c.setPlayerID(data.PlayerName)

	response, _ := NewMessage(MessageTypeWelcome, WelcomeData{
		PlayerID: data.PlayerName,
		Settings: c.room.Settings(),
	})
	_ = c.SendMessage(response)

	// The join broadcast went out before this connection was
	// identified, so push the first snapshot directly.
	state, _ := NewMessage(MessageTypeState, c.room.StateFor(data.PlayerName))
	_ = c.SendMessage(state)
}

// withPlayer runs fn for a joined connection and reports rejections
// back to the client.
func (c *Connection) withPlayer(fn func(id string) error) {
	id := c.PlayerID()
	if id == "" {
		c.sendError("not_joined", "Must join first")
		return
	}
	if err := fn(id); err != nil {
		c.sendReject(err)
	}
}

func (c *Connection) sendReject(err error) {
	code, ok := engine.IsRejection(err)
	if !ok {
		c.sendError("internal", err.Error())
		return
	}
	msg, merr := NewMessage(MessageTypeRejected, RejectedData{
		Code:   string(code),
		Detail: err.Error(),
	})
	if merr != nil {
		c.logger.Error("Failed to create reject message", "error", merr)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}
