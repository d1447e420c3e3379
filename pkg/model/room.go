package model

import (
	"context"
	"database/sql"
	"time"

	"bluffroom-server/internal/rng"
	"bluffroom-server/pkg/db"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// MaxRoomPlayers is the maximum number of players in a room
const MaxRoomPlayers = 4

const roomCodeLength = 6
const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrRoomIsFull happens when a player tries to join a room at capacity
var ErrRoomIsFull = UserError("room is full")

const roomColumns = `
rooms.code,
rooms.player_id,
rooms.created`

// codeRNG generates room codes; swapped out in tests
var codeRNG rng.Generator = rng.Crypto{}

// Room represents a joinable game room
// A room has up to four players and at most one running game
type Room struct {
	Code string `json:"code"`
	// PlayerID is who created the room
	PlayerID int64     `json:"playerId"`
	Created  time.Time `json:"created"`
}

// RoomPlayer represents a row in the rooms_players table
type RoomPlayer struct {
	Player   *Player   `json:"player"`
	PlayerID int64     `json:"playerId"`
	RoomCode string    `json:"roomCode"`
	Created  time.Time `json:"created"`
}

func newRoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		code[i] = roomCodeAlphabet[codeRNG.Intn(len(roomCodeAlphabet))]
	}

	return string(code)
}

// CreateRoom creates a new room with the player as its creator and first member
func (p *Player) CreateRoom(ctx context.Context) (*Room, error) {
	// a code collision is unlikely, but retry a couple of times anyway
	for attempt := 0; ; attempt++ {
		room, err := p.createRoomWithCode(ctx, newRoomCode())
		if err == ErrDuplicateKey && attempt < 2 {
			continue
		}

		return room, err
	}
}

func (p *Player) createRoomWithCode(ctx context.Context, code string) (*Room, error) {
	tx, err := db.Instance().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	const query = `
INSERT INTO rooms (code, player_id)
VALUES ($1, $2)
RETURNING created`

	var created time.Time
	if err := tx.QueryRowContext(ctx, query, code, p.ID).Scan(&created); err != nil {
		rollback(tx)
		if err, ok := err.(*pq.Error); ok && err.Code == pqDuplicateKeyErrorCode {
			return nil, ErrDuplicateKey
		}

		return nil, err
	}

	const query2 = `
INSERT INTO rooms_players (room_code, player_id)
VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, query2, code, p.ID); err != nil {
		rollback(tx)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Room{
		Code:     code,
		PlayerID: p.ID,
		Created:  created,
	}, nil
}

func getRoomByRow(row db.Scanner) (*Room, error) {
	var r Room
	if err := row.Scan(&r.Code, &r.PlayerID, &r.Created); err != nil {
		return nil, err
	}

	return &r, nil
}

// GetRoomByCode returns a room by its code
func GetRoomByCode(ctx context.Context, code string) (*Room, error) {
	const query = `
SELECT ` + roomColumns + `
FROM rooms
WHERE code = $1`

	row := db.Instance().QueryRowContext(ctx, query, code)
	return getRoomByRow(row)
}

// GetPlayers returns the room's roster in join order
func (r *Room) GetPlayers(ctx context.Context) ([]*RoomPlayer, error) {
	const query = `
SELECT ` + playerColumns + `, rooms_players.player_id, rooms_players.room_code, rooms_players.created
FROM rooms_players
INNER JOIN players ON rooms_players.player_id = players.id
WHERE rooms_players.room_code = $1
ORDER BY rooms_players.created, rooms_players.player_id`

	rows, err := db.Instance().QueryContext(ctx, query, r.Code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*RoomPlayer, 0)
	for rows.Next() {
		var p Player
		var rp RoomPlayer
		if err := rows.Scan(&p.ID, &p.Email, &p.DisplayName, &p.IsSiteAdmin, &p.passwordHash, &p.Created, &p.Updated,
			&rp.PlayerID, &rp.RoomCode, &rp.Created); err != nil {
			return nil, err
		}

		rp.Player = &p
		records = append(records, &rp)
	}

	return records, nil
}

// HasPlayer returns true if the player is a member of the room
func (r *Room) HasPlayer(ctx context.Context, playerID int64) (bool, error) {
	const query = `
SELECT COUNT(*)
FROM rooms_players
WHERE room_code = $1 AND player_id = $2`

	var count int
	if err := db.Instance().QueryRowContext(ctx, query, r.Code, playerID).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

// AddPlayer adds the player to the room's roster.
// Joining a room you already belong to is a no-op.
func (r *Room) AddPlayer(ctx context.Context, playerID int64) error {
	tx, err := db.Instance().BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// lock the room row so concurrent joins can't blow past the cap
	const lockQuery = `
SELECT code
FROM rooms
WHERE code = $1
FOR UPDATE`

	var code string
	if err := tx.QueryRowContext(ctx, lockQuery, r.Code).Scan(&code); err != nil {
		rollback(tx)
		return err
	}

	const countQuery = `
SELECT COUNT(*)
FROM rooms_players
WHERE room_code = $1`

	var count int
	if err := tx.QueryRowContext(ctx, countQuery, r.Code).Scan(&count); err != nil {
		rollback(tx)
		return err
	}

	if count >= MaxRoomPlayers {
		rollback(tx)
		return ErrRoomIsFull
	}

	const insertQuery = `
INSERT INTO rooms_players (room_code, player_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`

	if _, err := tx.ExecContext(ctx, insertQuery, r.Code, playerID); err != nil {
		rollback(tx)
		return err
	}

	return tx.Commit()
}

// RemovePlayer removes the player from the room's roster.
// An empty room is deleted.
func (r *Room) RemovePlayer(ctx context.Context, playerID int64) error {
	tx, err := db.Instance().BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	const deleteQuery = `
DELETE FROM rooms_players
WHERE room_code = $1 AND player_id = $2`

	if _, err := tx.ExecContext(ctx, deleteQuery, r.Code, playerID); err != nil {
		rollback(tx)
		return err
	}

	const countQuery = `
SELECT COUNT(*)
FROM rooms_players
WHERE room_code = $1`

	var count int
	if err := tx.QueryRowContext(ctx, countQuery, r.Code).Scan(&count); err != nil {
		rollback(tx)
		return err
	}

	if count == 0 {
		const deleteRoomQuery = `
DELETE FROM rooms
WHERE code = $1`

		if _, err := tx.ExecContext(ctx, deleteRoomQuery, r.Code); err != nil {
			rollback(tx)
			return err
		}
	}

	return tx.Commit()
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		logrus.WithError(err).Error("could not rollback transaction")
	}
}
