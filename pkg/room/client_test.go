package room

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"bluffroom-server/pkg/model"
)

func TestClient_Send(t *testing.T) {
	a := assert.New(t)

	c := testClient(1)
	for i := 0; i < 256; i++ {
		a.True(c.Send(i))
	}

	// the buffer is full; the send must not block
	a.False(c.Send("overflow"))
}

func TestClient_CloseWithMessage(t *testing.T) {
	a := assert.New(t)

	c := testClient(1)
	c.CloseWithMessage("first")
	// a second close request must not block
	c.CloseWithMessage("second")

	a.Equal("first", <-c.Close)
}

func TestClient_ReceivedMessage_beforeRegistration(t *testing.T) {
	a := assert.New(t)

	c := testClient(1)

	// not registered with a dealer yet; the message is dropped
	c.ReceivedMessage(&PayloadIn{Type: "chat", Message: "hello"})
	a.Len(c.SendChan(), 0)

	// registration may race the connection's read loop
	d := NewDealer(&PitBoss{}, &model.Room{Code: "ABC123"})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.ReceivedMessage(&PayloadIn{Type: "bogus"})
	}()
	d.AddClient(c)
	wg.Wait()

	for len(c.SendChan()) > 0 {
		<-c.SendChan()
	}

	c.ReceivedMessage(&PayloadIn{Type: "bogus"})
	msg := <-c.SendChan()
	em, ok := msg.(*errorMessage)
	a.True(ok)
	a.Equal("unrecognized message type: bogus", em.Message)
}

func TestClient_String(t *testing.T) {
	player := &model.Player{ID: 1, Email: "alice@example.com"}
	c := NewClient(nil, player, &model.Room{Code: "ZZTOP1"})
	assert.Equal(t, "alice@example.com:ZZTOP1", c.String())
}
