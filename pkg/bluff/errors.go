package bluff

import (
	"errors"
	"fmt"
)

// ErrNotYourTurn is returned when it's not the player's turn
var ErrNotYourTurn = errors.New("not your turn")

// ErrGameOver is an error when an action is attempted on an ended game
var ErrGameOver = errors.New("game is over")

// ErrInvalidCards happens when the player plays no cards, too many cards, or cards they don't hold
var ErrInvalidCards = errors.New("must play 1 to 4 cards from your hand")

// ErrInvalidClaim happens when a round-opening play has a missing or unknown claim rank
var ErrInvalidClaim = errors.New("invalid claim")

// ErrClaimAlreadySet happens when a claim is supplied while a round already has one
var ErrClaimAlreadySet = errors.New("claim already set")

// ErrNothingToDoubt happens when doubt is called before anyone has played this round
var ErrNothingToDoubt = errors.New("nothing to doubt")

// ErrInvalidState means the round resolved without an active claim or last play.
// This is a bug in the state tracking, not a user error, and must not be shown to clients.
var ErrInvalidState = errors.New("invalid state: round resolved without an active claim")

// PlayerCountError is an error on the number of players in the game
type PlayerCountError int

func (p PlayerCountError) Error() string {
	return fmt.Sprintf("expected 2–%d players, got %d", maxPlayers, int(p))
}

// IsValidationError returns true if the error was caused by client misuse and is
// safe to report back to the acting player
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrNotYourTurn,
		ErrGameOver,
		ErrInvalidCards,
		ErrInvalidClaim,
		ErrClaimAlreadySet,
		ErrNothingToDoubt,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	var pce PlayerCountError
	return errors.As(err, &pce)
}
