package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/setgame/set-server-go/internal/set"
	"github.com/setgame/set-server-go/internal/user"
)

// stubTokens maps fixed tokens to nicknames.
type stubTokens map[string]string

func (s stubTokens) Validate(token string) (user.User, error) {
	nickname, ok := s[token]
	if !ok {
		return user.User{}, user.ErrInvalidToken
	}
	return user.User{Token: token, Nickname: nickname}, nil
}

func newTestManager() *Manager {
	return NewManager(stubTokens{"tok-alice": "alice", "tok-bob": "bob"}, zap.NewNop())
}

func TestCreateRoom(t *testing.T) {
	m := newTestManager()

	id, err := m.CreateRoom("tok-alice")
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	id, err = m.CreateRoom("tok-alice")
	require.NoError(t, err)
	assert.Equal(t, 1, id, "room ids are assigned monotonically")

	r := m.rooms[0]
	assert.Equal(t, InitialCardsVisible, r.CardsVisible)
	assert.Len(t, r.Deck, set.DeckSize)
	assert.Empty(t, r.Players, "creator does not join automatically")
}

func TestCreateRoom_InvalidToken(t *testing.T) {
	m := newTestManager()

	_, err := m.CreateRoom("bogus")
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestCreateRoom_DecksIndependent(t *testing.T) {
	m := newTestManager()

	_, err := m.CreateRoom("tok-alice")
	require.NoError(t, err)
	_, err = m.CreateRoom("tok-alice")
	require.NoError(t, err)

	// Each room shuffles its own copy of the universe
	a, b := m.rooms[0].Deck, m.rooms[1].Deck
	require.Len(t, b, len(a))
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	assert.False(t, same, "two 81-card shuffles should practically never coincide")
}

func TestJoinRoom(t *testing.T) {
	m := newTestManager()

	id, err := m.CreateRoom("tok-alice")
	require.NoError(t, err)

	got, err := m.JoinRoom("tok-alice", id)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// Joining the same room twice is a conflict; roster stays at one
	_, err = m.JoinRoom("tok-alice", id)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
	assert.Len(t, m.rooms[id].Players, 1)
}

func TestJoinRoom_Validation(t *testing.T) {
	m := newTestManager()

	_, err := m.JoinRoom("bogus", 0)
	assert.ErrorIs(t, err, user.ErrInvalidToken)

	_, err = m.JoinRoom("tok-alice", 0)
	assert.ErrorIs(t, err, ErrInvalidRoomID)

	id, err := m.CreateRoom("tok-alice")
	require.NoError(t, err)

	_, err = m.JoinRoom("tok-alice", id+1)
	assert.ErrorIs(t, err, ErrInvalidRoomID)

	_, err = m.JoinRoom("tok-alice", -1)
	assert.ErrorIs(t, err, ErrInvalidRoomID)
}

func TestListRooms(t *testing.T) {
	m := newTestManager()

	id, err := m.CreateRoom("tok-alice")
	require.NoError(t, err)
	_, err = m.JoinRoom("tok-bob", id)
	require.NoError(t, err)
	_, err = m.JoinRoom("tok-alice", id)
	require.NoError(t, err)

	summaries, err := m.ListRooms("tok-alice")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, id, summaries[0].ID)
	assert.Equal(t, []string{"alice", "bob"}, summaries[0].Users)
}

func TestGetField(t *testing.T) {
	m := newTestManager()

	id, err := m.CreateRoom("tok-alice")
	require.NoError(t, err)

	// Not a member yet
	_, err = m.GetField("tok-alice", id)
	assert.ErrorIs(t, err, ErrNotAPlayer)

	_, err = m.JoinRoom("tok-alice", id)
	require.NoError(t, err)

	field, err := m.GetField("tok-alice", id)
	require.NoError(t, err)

	assert.Equal(t, InitialCardsVisible, field.CardsVisible)
	assert.Equal(t, set.DeckSize, field.CardsRemaining)
	require.Len(t, field.Cards, InitialCardsVisible)
	assert.Equal(t, m.rooms[id].Deck[:InitialCardsVisible], field.Cards)

	require.Contains(t, field.Players, "alice")
	assert.Equal(t, 0, field.Players["alice"].Score)
}

func TestFindCombinations(t *testing.T) {
	m := newTestManager()

	id, err := m.CreateRoom("tok-alice")
	require.NoError(t, err)

	// No membership required for the debug surface
	triples, err := m.FindCombinations("tok-alice", id)
	require.NoError(t, err)

	want := set.FindSets(m.rooms[id].Deck[:InitialCardsVisible])
	assert.Equal(t, want, triples)

	_, err = m.FindCombinations("tok-alice", 99)
	assert.ErrorIs(t, err, ErrInvalidRoomID)

	_, err = m.FindCombinations("bogus", id)
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}
