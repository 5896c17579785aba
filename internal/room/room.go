// Package room implements the game-room registry: rooms with a shuffled
// deck, a reveal window, and a score-carrying player roster.
package room

import (
	"errors"
	"time"

	"github.com/setgame/set-server-go/internal/set"
)

// InitialCardsVisible is the reveal window size of a fresh room.
const InitialCardsVisible = 12

// Errors surfaced to the transport layer. The messages are the exact
// strings carried in the client-facing error envelope.
var (
	ErrRoomIDMissing = errors.New("Game id missing")
	ErrInvalidRoomID = errors.New("Invalid game id")
	ErrAlreadyJoined = errors.New("Already joined")
	ErrNotAPlayer    = errors.New("Not a player")
)

// Player is a membership record inside a room.
type Player struct {
	Score int `json:"score"`
}

// Room holds one game session. The deck is immutable after creation; the
// "remaining" cards are simply those at or beyond the reveal boundary.
type Room struct {
	ID           int
	CreatedAt    time.Time
	Players      map[string]*Player // keyed by nickname
	Deck         []set.Card
	CardsVisible int
}

// Summary is the per-room view returned by room listing: id and member
// nicknames, no score or card data.
type Summary struct {
	ID    int      `json:"id"`
	Users []string `json:"users"`
}

// PlayerSnapshot captures player data for external use.
type PlayerSnapshot struct {
	Score int `json:"score"`
}

// FieldSnapshot captures a consistent view of a room's visible field.
// CardsRemaining is the total deck length, not the count beyond the
// window.
type FieldSnapshot struct {
	Players        map[string]PlayerSnapshot `json:"players"`
	Cards          []set.Card                `json:"cards"`
	CardsVisible   int                       `json:"cardsVisible"`
	CardsRemaining int                       `json:"cardsRemaining"`
}
