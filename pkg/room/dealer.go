package room

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"bluffroom-server/pkg/bluff"
	"bluffroom-server/pkg/deck"
	"bluffroom-server/pkg/model"
)

// Dealer runs a single room: it owns the game, serializes every mutation
// through its run loop, and fans events out to the connected clients
type Dealer struct {
	pitBoss *PitBoss
	room    *model.Room
	// clients is keyed by player ID; a new connection for a player
	// supersedes and closes the previous one
	clients map[int64]*Client
	lock    sync.RWMutex
	game    *bluff.Game

	execInRunLoop chan func()
	close         chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, room *model.Room) *Dealer {
	return &Dealer{
		pitBoss:       pitBoss,
		room:          room,
		clients:       make(map[int64]*Client),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
		game:          nil,
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for _, client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	log := logrus.WithField("room", d.room.Code)

	log.Debug("creating dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			// drain any work queued before the shift ended
			for {
				select {
				case fn := <-d.execInRunLoop:
					fn()
				default:
					log.Debug("terminating dealer run loop")
					return
				}
			}
		}
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	client.setDealer(d)

	d.lock.Lock()
	prev := d.clients[client.player.ID]
	d.clients[client.player.ID] = client
	d.lock.Unlock()

	if prev != nil {
		prev.CloseWithMessage("you connected from another location")
	}

	d.execInRunLoop <- func() {
		d.broadcast(newChatMessage(systemUser, fmt.Sprintf("%s joined the room", client.player.DisplayName)))
		d.broadcastRoomUpdate()

		if d.game == nil {
			return
		}

		// bring the newcomer up to speed on the running game
		client.Send(newGameStateMessage(d.game.GetPublicState()))
		if d.game.HasPlayer(client.player.ID) {
			client.Send(newYourHandMessage(d.game.GetPlayerHand(client.player.ID)))
		}
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	registered := d.clients[client.player.ID]
	if registered == client {
		delete(d.clients, client.player.ID)
	}
	nClients := len(d.clients)
	d.lock.Unlock()

	if registered != client {
		// a newer connection for this player already took over
		return false
	}

	d.execInRunLoop <- func() {
		d.clientLeft(client)
	}

	return nClients == 0
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// NOTE: must only be called from the run loop
func (d *Dealer) clientLeft(client *Client) {
	ctx := context.Background()
	if err := d.room.RemovePlayer(ctx, client.player.ID); err != nil {
		logrus.WithField("client", client.String()).WithError(err).Error("could not remove player from room")
	}

	d.broadcast(newChatMessage(systemUser, fmt.Sprintf("%s left the room", client.player.DisplayName)))

	if d.game != nil && !d.game.IsOver() && d.game.HasPlayer(client.player.ID) {
		// abandonment ends the game for everyone
		d.game = nil
		d.broadcast(newChatMessage(systemUser, fmt.Sprintf("the game ended because %s left", client.player.DisplayName)))
	}

	d.broadcastRoomUpdate()
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *PayloadIn) {
	switch msg.Type {
	case "chat":
		d.execInRunLoop <- func() {
			d.broadcast(newChatMessage(c.player.DisplayName, msg.Message))
		}
	case "offer", "answer", "candidate", "vc_request":
		// signaling messages are relayed without interpretation
		raw := msg.raw
		d.execInRunLoop <- func() {
			d.broadcast(raw)
		}
	case "start_game":
		d.execInRunLoop <- func() {
			if err := d.startGame(); err != nil {
				c.Send(newErrorMessage(err))
			}
		}
	case "play":
		cards, err := deck.ParseCards(msg.Cards)
		if err != nil {
			c.Send(newErrorMessage(err))
			return
		}

		d.gameAction(c, func(game *bluff.Game) (*bluff.Event, error) {
			return game.Play(c.player.ID, cards, msg.Claim)
		})
	case "pass":
		d.gameAction(c, func(game *bluff.Game) (*bluff.Event, error) {
			return game.Pass(c.player.ID)
		})
	case "doubt":
		d.gameAction(c, func(game *bluff.Game) (*bluff.Event, error) {
			return game.CallDoubt(c.player.ID)
		})
	default:
		c.Send(newErrorMessage(fmt.Errorf("unrecognized message type: %s", msg.Type)))
	}
}

// gameAction runs a game operation inside the run loop and fans out the result
func (d *Dealer) gameAction(c *Client, action func(game *bluff.Game) (*bluff.Event, error)) {
	d.execInRunLoop <- func() {
		if d.game == nil {
			c.Send(newErrorMessage(errors.New("no game in progress")))
			return
		}

		event, err := action(d.game)
		if err != nil {
			if bluff.IsValidationError(err) {
				c.Send(newErrorMessage(err))
				return
			}

			// the game state can no longer be trusted
			logrus.WithError(err).WithField("room", d.room.Code).Error("game entered an inconsistent state")
			d.game = nil
			d.broadcast(newChatMessage(systemUser, "the game was stopped because of an internal error"))
			d.broadcastRoomUpdate()
			return
		}

		d.broadcast(newGameEventMessage(event))
		d.broadcastGameState()
		d.broadcastRoomUpdate()
		d.sendHands()
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) startGame() error {
	if d.game != nil && !d.game.IsOver() {
		return errors.New("a game is already in progress")
	}

	players, err := d.room.GetPlayers(context.Background())
	if err != nil {
		logrus.WithField("room", d.room.Code).WithError(err).Error("could not get players")
		return errors.New("could not load the room roster")
	}

	if len(players) < 2 {
		return errors.New("need at least 2 players to start a game")
	}

	playerIDs := make([]int64, len(players))
	for i, player := range players {
		playerIDs[i] = player.PlayerID
	}

	game, err := bluff.NewGame(playerIDs, 0)
	if err != nil {
		return err
	}

	d.game = game
	d.broadcastGameState()
	d.broadcastRoomUpdate()
	d.sendHands()

	return nil
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcastGameState() {
	if d.game == nil {
		return
	}

	d.broadcast(newGameStateMessage(d.game.GetPublicState()))
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcastRoomUpdate() {
	players, err := d.room.GetPlayers(context.Background())
	if err != nil {
		logrus.WithField("room", d.room.Code).WithError(err).Error("could not get players")
		return
	}

	var gameState *bluff.PublicState
	if d.game != nil {
		gameState = d.game.GetPublicState()
	}

	msg := &roomUpdateMessage{
		Type:    "room_update",
		Players: make([]*roomUpdatePlayer, 0, len(players)),
	}

	for _, player := range players {
		rup := &roomUpdatePlayer{
			ID:   player.PlayerID,
			Name: player.Player.DisplayName,
		}

		if gameState != nil {
			if count, ok := gameState.Players[player.PlayerID]; ok {
				count := count
				rup.Cards = &count
			}
		}

		msg.Players = append(msg.Players, rup)
	}

	if gameState != nil {
		msg.CurrentTurn = gameState.CurrentTurn
		msg.GameStarted = !d.game.IsOver()
	}

	d.broadcast(msg)
}

// sendHands privately sends each connected player their current hand
// NOTE: must only be called from the run loop
func (d *Dealer) sendHands() {
	if d.game == nil {
		return
	}

	for _, client := range d.Clients() {
		if !d.game.HasPlayer(client.player.ID) {
			continue
		}

		client.Send(newYourHandMessage(d.game.GetPlayerHand(client.player.ID)))
	}
}

// broadcast sends a message to every connected client
// Delivery is best-effort; a slow or dead client never blocks the others
func (d *Dealer) broadcast(msg interface{}) {
	for _, client := range d.Clients() {
		if !client.Send(msg) {
			logrus.WithField("client", client.String()).Warn("dropping message for slow client")
		}
	}
}
