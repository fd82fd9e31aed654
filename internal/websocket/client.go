package websocket

import (
	"context"
	"encoding/json"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// JoinAuthorizer decides whether a user may subscribe to a channel. Channel
// names are guessable, so membership is checked against ownership instead of
// trusting knowledge of the name.
type JoinAuthorizer func(ctx context.Context, userID int64, channel string) bool

// subscribeFrame is the only inbound frame clients send: follow or unfollow
// a channel.
type subscribeFrame struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// Client represents a single WebSocket connection bound to an authenticated
// user.
type Client struct {
	hub       *Hub
	conn      *ws.Conn
	send      chan []byte
	userID    int64
	authorize JoinAuthorizer
}

// NewClient creates a Client tied to the given hub and connection.
func NewClient(hub *Hub, conn *ws.Conn, userID int64, authorize JoinAuthorizer) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		userID:    userID,
		authorize: authorize,
	}
}

// Run registers the client, joins its personal channel, starts the write
// pump, and runs the read pump. It blocks until the connection is closed,
// then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	c.hub.Join(c, UserChannel(c.userID))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump handles inbound join/leave frames. It returns on error
// (connection close), which triggers cleanup. Malformed frames are ignored.
func (c *Client) readPump(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}

		var frame subscribeFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}

		switch frame.Action {
		case "join":
			if c.mayJoin(ctx, frame.Channel) {
				c.hub.Join(c, frame.Channel)
			}
		case "leave":
			c.hub.Leave(c, frame.Channel)
		}
	}
}

func (c *Client) mayJoin(ctx context.Context, channel string) bool {
	if channel == "" {
		return false
	}
	if channel == UserChannel(c.userID) {
		return true
	}
	return c.authorize != nil && c.authorize(ctx, c.userID, channel)
}

// writePump drains the send channel and writes messages to the WebSocket.
// It also sends periodic pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Hub closed the channel, connection is done
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
