package model

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sequenceRNG struct {
	values []int
	i      int
}

func (s *sequenceRNG) Intn(n int) int {
	val := s.values[s.i%len(s.values)] % n
	s.i++
	return val
}

func Test_newRoomCode(t *testing.T) {
	orig := codeRNG
	defer func() { codeRNG = orig }()

	codeRNG = &sequenceRNG{values: []int{0, 1, 2, 25, 26, 35}}
	assert.Equal(t, "ABCZ09", newRoomCode())

	codeRNG = orig
	code := newRoomCode()
	assert.Equal(t, roomCodeLength, len(code))
	for _, c := range code {
		assert.True(t, strings.ContainsRune(roomCodeAlphabet, c), string(c))
	}
}

func TestPlayer_CreateRoom(t *testing.T) {
	a := assert.New(t)

	p := player(t)
	room, err := p.CreateRoom(cbg)
	a.NoError(err)
	a.NotNil(room)
	a.Equal(roomCodeLength, len(room.Code))
	a.Equal(p.ID, room.PlayerID)

	// the creator is automatically a member
	players, err := room.GetPlayers(cbg)
	a.NoError(err)
	a.Equal(1, len(players))
	a.Equal(p.ID, players[0].PlayerID)
	a.Equal(p.DisplayName, players[0].Player.DisplayName)

	found, err := GetRoomByCode(cbg, room.Code)
	a.NoError(err)
	a.Equal(room.Code, found.Code)

	found, err = GetRoomByCode(cbg, "NOSUCH")
	a.Equal(sql.ErrNoRows, err)
	a.Nil(found)
}

func TestRoom_AddPlayer(t *testing.T) {
	a := assert.New(t)

	p := player(t)
	room, err := p.CreateRoom(cbg)
	a.NoError(err)

	p2 := player(t)
	a.NoError(room.AddPlayer(cbg, p2.ID))

	// joining twice is a no-op
	a.NoError(room.AddPlayer(cbg, p2.ID))

	players, err := room.GetPlayers(cbg)
	a.NoError(err)
	a.Equal(2, len(players))

	ok, err := room.HasPlayer(cbg, p2.ID)
	a.NoError(err)
	a.True(ok)

	stranger := player(t)
	ok, err = room.HasPlayer(cbg, stranger.ID)
	a.NoError(err)
	a.False(ok)

	// fill the room
	for i := 2; i < MaxRoomPlayers; i++ {
		a.NoError(room.AddPlayer(cbg, player(t).ID))
	}

	err = room.AddPlayer(cbg, stranger.ID)
	a.Equal(ErrRoomIsFull, err)
}

func TestRoom_RemovePlayer(t *testing.T) {
	a := assert.New(t)

	p := player(t)
	room, err := p.CreateRoom(cbg)
	a.NoError(err)

	p2 := player(t)
	a.NoError(room.AddPlayer(cbg, p2.ID))

	a.NoError(room.RemovePlayer(cbg, p2.ID))
	players, err := room.GetPlayers(cbg)
	a.NoError(err)
	a.Equal(1, len(players))

	// removing the last member deletes the room
	a.NoError(room.RemovePlayer(cbg, p.ID))
	_, err = GetRoomByCode(cbg, room.Code)
	a.Equal(sql.ErrNoRows, err)
}
