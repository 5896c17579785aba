// Package set implements the card universe and combination rules of the
// Set card game: 81 distinct cards over four three-valued attributes, and
// the "all equal or all distinct per attribute" matching rule.
package set

import "math/rand"

// Attribute values range over 1..3.
const (
	AttrMin = 1
	AttrMax = 3
)

// DeckSize is the number of distinct cards (3^4 attribute combinations).
const DeckSize = 81

// Card is a value object identified entirely by its four attributes.
type Card struct {
	Count int `json:"count"`
	Color int `json:"color"`
	Shape int `json:"shape"`
	Fill  int `json:"fill"`
}

// NewDeck enumerates the full card universe in fixed nested attribute order
// (count, then color, then shape, then fill). Deterministic: every call
// returns the same 81 cards in the same order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for count := AttrMin; count <= AttrMax; count++ {
		for color := AttrMin; color <= AttrMax; color++ {
			for shape := AttrMin; shape <= AttrMax; shape++ {
				for fill := AttrMin; fill <= AttrMax; fill++ {
					deck = append(deck, Card{
						Count: count,
						Color: color,
						Shape: shape,
						Fill:  fill,
					})
				}
			}
		}
	}
	return deck
}

// Shuffle returns a new slice holding the cards of deck in a uniformly
// random order. The input is never mutated. Fisher-Yates via rand.Shuffle;
// rng may be nil to use the shared source.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)

	swap := func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if rng != nil {
		rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}

	return shuffled
}
