package model

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bluffroom-server/internal/util"
)

var cbg = context.Background()

func player(t *testing.T) *Player {
	t.Helper()
	p, err := CreatePlayer(cbg, util.RandomEmail(), "test-player", "password", "127.0.0.1")
	assert.NoError(t, err)
	return p
}

func TestCreatePlayer(t *testing.T) {
	remoteAddr := fmt.Sprintf("127.0.0.1:%d", time.Now().UnixNano())

	at, err := LastPlayerCreatedAt(cbg, remoteAddr)
	assert.NoError(t, err)
	assert.True(t, at.IsZero())

	before := time.Now()

	email := util.RandomEmail()
	player, err := CreatePlayer(cbg, email, "test-player", "password", remoteAddr)
	assert.NoError(t, err)
	assert.NotNil(t, player)
	assert.Greater(t, player.ID, int64(0))

	at, err = LastPlayerCreatedAt(cbg, remoteAddr)
	assert.NoError(t, err)
	assert.True(t, at.After(before))

	at, err = LastPlayerCreatedAt(cbg, "::1")
	assert.NoError(t, err)
	assert.True(t, at.IsZero())

	player2, err := CreatePlayer(cbg, email, "test-player", "password", remoteAddr)
	assert.Equal(t, err, ErrDuplicateKey)
	assert.Nil(t, player2)

	player2, err = GetPlayerByEmailAndPassword(cbg, email, "bad-password")
	assert.Equal(t, ErrInvalidEmailOrPassword, err)
	assert.Nil(t, player2)

	player2, err = GetPlayerByEmailAndPassword(cbg, email+"-not-found", "password")
	assert.Equal(t, ErrInvalidEmailOrPassword, err)
	assert.Nil(t, player2)

	player2, err = GetPlayerByEmailAndPassword(cbg, email, "password")
	assert.NoError(t, err)
	assert.NotNil(t, player2)

	// test case-insensitive email
	player2, err = GetPlayerByEmailAndPassword(cbg, strings.ToUpper(email), "password")
	assert.NoError(t, err)
	assert.NotNil(t, player2)

	// ensure you can't create a duplicate player with a case-insensitive email
	_, err = CreatePlayer(cbg, strings.ToUpper(email), "Display", "password", "[::1]")
	assert.Equal(t, ErrDuplicateKey, err)
}

func TestGetPlayerByID(t *testing.T) {
	p := player(t)
	found, err := GetPlayerByID(cbg, p.ID)
	assert.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	found, err = GetPlayerByID(cbg, 0)
	assert.Equal(t, sql.ErrNoRows, err)
	assert.Nil(t, found)
}

func TestPlayer_Save(t *testing.T) {
	p := player(t)
	p.DisplayName = "renamed"
	assert.NoError(t, p.Save(cbg))

	p1, err := GetPlayerByID(cbg, p.ID)
	assert.NoError(t, err)
	assert.Equal(t, "renamed", p1.DisplayName)
}

func TestPlayer_SetIsSiteAdmin(t *testing.T) {
	p := player(t)
	assert.False(t, p.IsSiteAdmin)
	assert.NoError(t, p.SetIsSiteAdmin(cbg, true))
	assert.True(t, p.IsSiteAdmin)

	p1, _ := GetPlayerByID(cbg, p.ID)
	assert.True(t, p1.IsSiteAdmin)
}
