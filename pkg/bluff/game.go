package bluff

import (
	"bluffroom-server/pkg/deck"
)

const minPlayers = 2
const maxPlayers = 4

// maximum number of cards in a single play
const maxPlayCards = 4

// Game is the authoritative state of a single game of Bluff.
// All methods must be called from a single goroutine; the room's run loop
// provides that serialization.
type Game struct {
	players          []int64
	currentTurnIndex int

	hands map[int64][]*deck.Card
	pile  []*deck.Card

	// claimRank is the rank the pile is asserted to consist of; 0 when no round is open
	claimRank    int
	claimStarter int64
	lastPlay     *lastPlay

	consecutivePasses int
	pendingWinner     int64
	gameOver          bool
}

// lastPlay is the most recent play, the only play subject to a doubt
type lastPlay struct {
	playerID    int64
	cards       []*deck.Card
	emptiedHand bool
}

// NewGame deals a new game for the given players.
// The seed is for the deck shuffle; pass 0 outside of tests.
func NewGame(playerIDs []int64, seed int64) (*Game, error) {
	if len(playerIDs) < minPlayers || len(playerIDs) > maxPlayers {
		return nil, PlayerCountError(len(playerIDs))
	}

	players := make([]int64, len(playerIDs))
	copy(players, playerIDs)

	g := &Game{
		players: players,
		hands:   make(map[int64][]*deck.Card),
	}

	g.deal(seed)
	return g, nil
}

func (g *Game) deal(seed int64) {
	d := deck.New()
	d.Shuffle(seed)

	// with three players, drop a card so the deal comes out even
	if len(g.players) == 3 {
		d.Cards = d.Cards[:51]
	}

	for _, id := range g.players {
		g.hands[id] = make([]*deck.Card, 0, 52/len(g.players)+1)
	}

	i := 0
	for {
		card, err := d.Draw()
		if err != nil {
			break
		}

		id := g.players[i%len(g.players)]
		g.hands[id] = append(g.hands[id], card)
		i++
	}
}

// CurrentPlayer returns the player whose turn it is
func (g *Game) CurrentPlayer() int64 {
	return g.players[g.currentTurnIndex]
}

// Players returns the players in turn order
func (g *Game) Players() []int64 {
	players := make([]int64, len(g.players))
	copy(players, g.players)
	return players
}

// IsOver returns true once a winner has been confirmed
func (g *Game) IsOver() bool {
	return g.gameOver
}

// HasPlayer returns true if the player is part of this game
func (g *Game) HasPlayer(playerID int64) bool {
	_, ok := g.hands[playerID]
	return ok
}

func (g *Game) nextTurn() {
	g.currentTurnIndex = (g.currentTurnIndex + 1) % len(g.players)
}

func (g *Game) playerIndex(playerID int64) int {
	for i, id := range g.players {
		if id == playerID {
			return i
		}
	}

	return -1
}

func (g *Game) validateTurn(playerID int64) error {
	if g.gameOver {
		return ErrGameOver
	}

	if playerID != g.CurrentPlayer() {
		return ErrNotYourTurn
	}

	return nil
}

// clearRound resets the per-round state after an all-pass dump or a doubt
func (g *Game) clearRound() {
	g.pile = g.pile[:0]
	g.claimRank = 0
	g.claimStarter = 0
	g.lastPlay = nil
	g.consecutivePasses = 0
}

// confirmPendingWinner transitions the game to over if a pending win survived
// round resolution. Returns the game_over event, or nil.
func (g *Game) confirmPendingWinner() *Event {
	if g.pendingWinner == 0 {
		return nil
	}

	winner := g.pendingWinner
	g.pendingWinner = 0
	g.gameOver = true

	return &Event{
		Event:  EventGameOver,
		Winner: winner,
	}
}

// handWithout returns the player's hand with the given cards removed, or
// false if any of them is not currently held. The hand itself is untouched.
func (g *Game) handWithout(playerID int64, cards []*deck.Card) ([]*deck.Card, bool) {
	hand := make([]*deck.Card, len(g.hands[playerID]))
	copy(hand, g.hands[playerID])

	for _, card := range cards {
		found := -1
		for i, held := range hand {
			if held.Equal(card) {
				found = i
				break
			}
		}

		if found < 0 {
			return nil, false
		}

		hand = append(hand[:found], hand[found+1:]...)
	}

	return hand, true
}

// Play moves cards from the player's hand onto the pile.
// A round-opening play must supply a claim; any later play must not. The
// claimed rank is deliberately never checked against the cards until a doubt.
// Emptying a hand only marks a pending winner; the win is confirmed at the
// next round resolution.
func (g *Game) Play(playerID int64, cards []*deck.Card, claim string) (*Event, error) {
	if err := g.validateTurn(playerID); err != nil {
		return nil, err
	}

	if len(cards) == 0 || len(cards) > maxPlayCards {
		return nil, ErrInvalidCards
	}

	hand, ok := g.handWithout(playerID, cards)
	if !ok {
		return nil, ErrInvalidCards
	}

	// a new claim opens the round; the claim is then locked until resolution
	claimRank := 0
	if g.claimRank == 0 {
		rank, err := deck.ParseRank(claim)
		if err != nil {
			return nil, ErrInvalidClaim
		}

		claimRank = rank
	} else if claim != "" {
		return nil, ErrClaimAlreadySet
	}

	// validation is done; commit
	if claimRank > 0 {
		g.claimRank = claimRank
		g.claimStarter = playerID
	}

	g.hands[playerID] = hand

	played := make([]*deck.Card, len(cards))
	copy(played, cards)
	g.pile = append(g.pile, played...)

	g.lastPlay = &lastPlay{
		playerID:    playerID,
		cards:       played,
		emptiedHand: len(g.hands[playerID]) == 0,
	}

	if g.lastPlay.emptiedHand {
		g.pendingWinner = playerID
	}

	g.consecutivePasses = 0
	g.nextTurn()

	return &Event{
		Event: EventCardsPlayed,
		By:    playerID,
		Count: len(played),
		Claim: deck.RankToString(g.claimRank),
		Cards: played,
	}, nil
}

// Pass passes the turn. When every player has passed in sequence the round
// resolves: the pile is dumped and the last player to play leads the next round.
func (g *Game) Pass(playerID int64) (*Event, error) {
	if err := g.validateTurn(playerID); err != nil {
		return nil, err
	}

	g.consecutivePasses++

	if g.consecutivePasses < len(g.players) {
		g.nextTurn()
		return &Event{
			Event: EventPass,
			By:    playerID,
		}, nil
	}

	if g.lastPlay == nil || g.claimRank == 0 {
		return nil, ErrInvalidState
	}

	lastPlayer := g.lastPlay.playerID
	g.clearRound()
	g.currentTurnIndex = g.playerIndex(lastPlayer)

	if event := g.confirmPendingWinner(); event != nil {
		return event, nil
	}

	return &Event{
		Event:      EventPileDumped,
		NextPlayer: g.CurrentPlayer(),
	}, nil
}

// CallDoubt challenges the truthfulness of the last play. The loser takes the
// whole pile and the winner of the challenge leads the next round. A liar who
// had emptied their hand forfeits the pending win permanently.
func (g *Game) CallDoubt(playerID int64) (*Event, error) {
	if err := g.validateTurn(playerID); err != nil {
		return nil, err
	}

	if g.lastPlay == nil {
		return nil, ErrNothingToDoubt
	}

	lastPlayer := g.lastPlay.playerID
	lastCards := g.lastPlay.cards

	truthful := true
	for _, card := range lastCards {
		if card.Rank != g.claimRank {
			truthful = false
			break
		}
	}

	var loser, nextPlayer int64
	var result string
	if truthful {
		loser = playerID
		nextPlayer = lastPlayer
		result = ResultTruth
	} else {
		loser = lastPlayer
		nextPlayer = playerID
		result = ResultLie

		if g.pendingWinner == lastPlayer {
			g.pendingWinner = 0
		}
	}

	g.hands[loser] = append(g.hands[loser], g.pile...)

	g.clearRound()
	g.currentTurnIndex = g.playerIndex(nextPlayer)

	if event := g.confirmPendingWinner(); event != nil {
		return event, nil
	}

	return &Event{
		Event:      EventDoubtResult,
		Result:     result,
		Loser:      loser,
		NextPlayer: nextPlayer,
		Cards:      lastCards,
	}, nil
}

// GetPublicState returns the view of the game shared with the whole room
func (g *Game) GetPublicState() *PublicState {
	claim := ""
	if g.claimRank > 0 {
		claim = deck.RankToString(g.claimRank)
	}

	lastPlayCount := 0
	if g.lastPlay != nil {
		lastPlayCount = len(g.lastPlay.cards)
	}

	counts := make(map[int64]int, len(g.players))
	for _, id := range g.players {
		counts[id] = len(g.hands[id])
	}

	return &PublicState{
		CurrentTurn:   g.CurrentPlayer(),
		Claim:         claim,
		PileCount:     len(g.pile),
		LastPlayCount: lastPlayCount,
		Players:       counts,
	}
}

// GetPlayerHand returns the player's full hand.
// This must only ever be sent to that player.
func (g *Game) GetPlayerHand(playerID int64) []*deck.Card {
	hand := make([]*deck.Card, len(g.hands[playerID]))
	copy(hand, g.hands[playerID])
	return hand
}
