package room

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"bluffroom-server/pkg/model"
)

// Client is a player connected to a room via websocket
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	// dealerMu guards dealer: the pit boss assigns it while the
	// connection's read loop may already be dispatching messages
	dealerMu sync.Mutex
	dealer   *Dealer

	player *model.Player
	room   *model.Room
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, player *model.Player, room *model.Room) *Client {
	return &Client{
		send:   make(chan interface{}, 256),
		Close:  make(chan string, 1),
		Conn:   conn,
		player: player,
		room:   room,
	}
}

// Send sends a message to the web client
// The send is non-blocking; false is returned if the client's buffer is full
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// CloseWithMessage asks the client's write loop to close the connection
func (c *Client) CloseWithMessage(msg string) {
	select {
	case c.Close <- msg:
	default:
	}
}

// Player returns the player behind the connection
func (c *Client) Player() *model.Player {
	return c.player
}

// Room returns the room the client is connected to
func (c *Client) Room() *model.Room {
	return c.room
}

// String returns a traceable identifier for the player and room
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.player.Email, c.room.Code)
}

func (c *Client) setDealer(dealer *Dealer) {
	c.dealerMu.Lock()
	c.dealer = dealer
	c.dealerMu.Unlock()
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	c.dealerMu.Lock()
	dealer := c.dealer
	c.dealerMu.Unlock()

	if dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	dealer.ReceivedMessage(c, msg)
}
