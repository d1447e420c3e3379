package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bluffroom-server/internal/util"
	"bluffroom-server/pkg/bluff"
	"bluffroom-server/pkg/deck"
	"bluffroom-server/pkg/model"
)

var cbg = context.Background()

func roomPlayer(t *testing.T) *model.Player {
	t.Helper()
	p, err := model.CreatePlayer(cbg, util.RandomEmail(), "player", "password", "127.0.0.1")
	assert.NoError(t, err)
	return p
}

// flushRunLoop blocks until the dealer has worked through everything
// queued ahead of it
func flushRunLoop(t *testing.T, d *Dealer) {
	t.Helper()

	done := make(chan struct{})
	d.execInRunLoop <- func() { close(done) }

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run loop did not drain")
	}
}

func drainMessages(c *Client) []interface{} {
	var msgs []interface{}
	for {
		select {
		case msg := <-c.SendChan():
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func testClient(playerID int64) *Client {
	player := &model.Player{ID: playerID, DisplayName: "player", Email: "player@example.com"}
	return NewClient(nil, player, &model.Room{Code: "ABC123"})
}

func TestDealer_AddClient(t *testing.T) {
	d := NewDealer(&PitBoss{}, &model.Room{Code: "ABC123"})
	c := testClient(1)
	c2 := testClient(2)

	d.AddClient(c)
	d.AddClient(c2)

	assert.False(t, d.RemoveClient(c))
	assert.True(t, d.RemoveClient(c2))
}

func TestDealer_AddClient_supersedes(t *testing.T) {
	a := assert.New(t)

	d := NewDealer(&PitBoss{}, &model.Room{Code: "ABC123"})
	c := testClient(1)
	c2 := testClient(1)

	d.AddClient(c)
	d.AddClient(c2)

	// the old connection is asked to close
	select {
	case msg := <-c.Close:
		a.Equal("you connected from another location", msg)
	default:
		a.FailNow("expected a close message on the superseded client")
	}

	// the stale disconnect must not clobber the new connection
	a.False(d.RemoveClient(c))
	a.Len(d.Clients(), 1)
	a.Equal(c2, d.Clients()[0])

	a.True(d.RemoveClient(c2))
	a.Len(d.Clients(), 0)
}

func TestDealer_ReceivedMessage_badCards(t *testing.T) {
	a := assert.New(t)

	d := NewDealer(&PitBoss{}, &model.Room{Code: "ABC123"})
	c := testClient(1)
	d.AddClient(c)

	d.ReceivedMessage(c, &PayloadIn{Type: "play", Cards: []string{"X♠"}})

	select {
	case msg := <-c.SendChan():
		em, ok := msg.(*errorMessage)
		a.True(ok)
		a.Equal("error", em.Type)
		a.NotEmpty(em.Message)
	default:
		a.FailNow("expected an error message")
	}
}

func TestDealer_ReceivedMessage_unknownType(t *testing.T) {
	a := assert.New(t)

	d := NewDealer(&PitBoss{}, &model.Room{Code: "ABC123"})
	c := testClient(1)
	d.AddClient(c)

	d.ReceivedMessage(c, &PayloadIn{Type: "bogus"})

	select {
	case msg := <-c.SendChan():
		em, ok := msg.(*errorMessage)
		a.True(ok)
		a.Equal("unrecognized message type: bogus", em.Message)
	default:
		a.FailNow("expected an error message")
	}
}

func TestDealer_playFanOut(t *testing.T) {
	a := assert.New(t)

	p1 := roomPlayer(t)
	p2 := roomPlayer(t)
	rm, err := p1.CreateRoom(cbg)
	a.NoError(err)
	a.NoError(rm.AddPlayer(cbg, p2.ID))

	d := NewDealer(&PitBoss{}, rm)
	d.StartShift()
	defer d.EndShift()

	c1 := NewClient(nil, p1, rm)
	c2 := NewClient(nil, p2, rm)
	d.AddClient(c1)
	d.AddClient(c2)
	flushRunLoop(t, d)
	drainMessages(c1)
	drainMessages(c2)

	d.ReceivedMessage(c1, &PayloadIn{Type: "start_game"})
	flushRunLoop(t, d)

	// starting broadcasts the public state and a fresh roster, then deals
	for _, c := range []*Client{c1, c2} {
		msgs := drainMessages(c)
		a.Len(msgs, 3)

		state, ok := msgs[0].(*gameStateMessage)
		a.True(ok)
		a.Equal(0, state.PileCount)

		ru, ok := msgs[1].(*roomUpdateMessage)
		a.True(ok)
		a.True(ru.GameStarted)
		a.Len(ru.Players, 2)

		hand, ok := msgs[2].(*yourHandMessage)
		a.True(ok)
		a.Equal(26, len(hand.Hand))
	}

	// the run loop is idle after the flush, so the game is safe to read
	actor, other := c1, c2
	if d.game.CurrentPlayer() == p2.ID {
		actor, other = c2, c1
	}

	card := d.game.GetPlayerHand(actor.player.ID)[0]
	d.ReceivedMessage(actor, &PayloadIn{
		Type:  "play",
		Cards: []string{card.String()},
		Claim: deck.RankToString(card.Rank),
	})
	flushRunLoop(t, d)

	for _, c := range []*Client{actor, other} {
		msgs := drainMessages(c)
		a.Len(msgs, 4)

		event, ok := msgs[0].(*gameEventMessage)
		a.True(ok)
		a.Equal(bluff.EventCardsPlayed, event.Event.Event)
		a.Equal(actor.player.ID, event.By)

		state, ok := msgs[1].(*gameStateMessage)
		a.True(ok)
		a.Equal(1, state.PileCount)
		a.Equal(other.player.ID, state.CurrentTurn)

		ru, ok := msgs[2].(*roomUpdateMessage)
		a.True(ok)
		a.Equal(other.player.ID, ru.CurrentTurn)

		// each player is sent their own hand, nobody else's
		hand, ok := msgs[3].(*yourHandMessage)
		a.True(ok)
		if c == actor {
			a.Equal(25, len(hand.Hand))
			a.NotContains(hand.Hand, card)
		} else {
			a.Equal(26, len(hand.Hand))
		}
	}

	// a player joining mid-game sees the public state but gets no hand
	p3 := roomPlayer(t)
	a.NoError(rm.AddPlayer(cbg, p3.ID))
	c3 := NewClient(nil, p3, rm)
	d.AddClient(c3)
	flushRunLoop(t, d)

	var sawHand bool
	for _, msg := range drainMessages(c3) {
		if _, ok := msg.(*yourHandMessage); ok {
			sawHand = true
		}
	}
	a.False(sawHand)
}

func TestDealer_startGame_rejections(t *testing.T) {
	a := assert.New(t)

	p1 := roomPlayer(t)
	rm, err := p1.CreateRoom(cbg)
	a.NoError(err)

	d := NewDealer(&PitBoss{}, rm)
	d.StartShift()
	defer d.EndShift()

	c1 := NewClient(nil, p1, rm)
	d.AddClient(c1)
	flushRunLoop(t, d)
	drainMessages(c1)

	d.ReceivedMessage(c1, &PayloadIn{Type: "pass"})
	flushRunLoop(t, d)

	msgs := drainMessages(c1)
	a.Len(msgs, 1)
	em, ok := msgs[0].(*errorMessage)
	a.True(ok)
	a.Equal("no game in progress", em.Message)

	d.ReceivedMessage(c1, &PayloadIn{Type: "start_game"})
	flushRunLoop(t, d)

	msgs = drainMessages(c1)
	a.Len(msgs, 1)
	em, ok = msgs[0].(*errorMessage)
	a.True(ok)
	a.Equal("need at least 2 players to start a game", em.Message)

	p2 := roomPlayer(t)
	a.NoError(rm.AddPlayer(cbg, p2.ID))

	d.ReceivedMessage(c1, &PayloadIn{Type: "start_game"})
	flushRunLoop(t, d)
	drainMessages(c1)

	// a second start while the game is live is rejected
	d.ReceivedMessage(c1, &PayloadIn{Type: "start_game"})
	flushRunLoop(t, d)

	msgs = drainMessages(c1)
	a.Len(msgs, 1)
	em, ok = msgs[0].(*errorMessage)
	a.True(ok)
	a.Equal("a game is already in progress", em.Message)
}
