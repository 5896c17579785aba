package room

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/setgame/set-server-go/internal/set"
	"github.com/setgame/set-server-go/internal/user"
)

// TokenValidator resolves access tokens to user records. Satisfied by
// *user.Manager.
type TokenValidator interface {
	Validate(token string) (user.User, error)
}

// Manager owns the room registry. Room ids are positions in the rooms
// slice: assigned monotonically, never reused, rooms never deleted. One
// coarse lock guards the slice and every room's player map.
type Manager struct {
	mu    sync.Mutex
	rooms []*Room

	tokens TokenValidator
	logger *zap.Logger
}

// NewManager creates an empty room registry.
func NewManager(tokens TokenValidator, logger *zap.Logger) *Manager {
	return &Manager{
		tokens: tokens,
		logger: logger,
	}
}

// CreateRoom builds a fresh shuffled deck, opens the initial reveal window,
// and appends the room. Returns the assigned room id.
func (m *Manager) CreateRoom(token string) (int, error) {
	u, err := m.tokens.Validate(token)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r := &Room{
		ID:           len(m.rooms),
		CreatedAt:    time.Now(),
		Players:      make(map[string]*Player),
		Deck:         set.Shuffle(set.NewDeck(), nil),
		CardsVisible: InitialCardsVisible,
	}
	m.rooms = append(m.rooms, r)

	m.logger.Info("room created",
		zap.Int("room_id", r.ID),
		zap.String("creator", u.Nickname),
	)

	return r.ID, nil
}

// ListRooms returns the id and member nicknames of every room.
func (m *Manager) ListRooms(token string) ([]Summary, error) {
	if _, err := m.tokens.Validate(token); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	summaries := make([]Summary, 0, len(m.rooms))
	for _, r := range m.rooms {
		users := make([]string, 0, len(r.Players))
		for nickname := range r.Players {
			users = append(users, nickname)
		}
		sort.Strings(users)

		summaries = append(summaries, Summary{ID: r.ID, Users: users})
	}

	return summaries, nil
}

// JoinRoom adds the token's user to the room with a zero score. A user may
// join a given room at most once.
func (m *Manager) JoinRoom(token string, roomID int) (int, error) {
	u, err := m.tokens.Validate(token)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.roomLocked(roomID)
	if err != nil {
		return 0, err
	}

	if _, joined := r.Players[u.Nickname]; joined {
		return 0, ErrAlreadyJoined
	}
	r.Players[u.Nickname] = &Player{}

	m.logger.Info("player joined room",
		zap.Int("room_id", r.ID),
		zap.String("nickname", u.Nickname),
	)

	return r.ID, nil
}

// GetField returns the room's roster and the currently revealed slice of
// its deck. The caller must be a member of the room.
func (m *Manager) GetField(token string, roomID int) (FieldSnapshot, error) {
	u, err := m.tokens.Validate(token)
	if err != nil {
		return FieldSnapshot{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.roomLocked(roomID)
	if err != nil {
		return FieldSnapshot{}, err
	}

	if _, joined := r.Players[u.Nickname]; !joined {
		return FieldSnapshot{}, ErrNotAPlayer
	}

	players := make(map[string]PlayerSnapshot, len(r.Players))
	for nickname, p := range r.Players {
		players[nickname] = PlayerSnapshot{Score: p.Score}
	}

	cards := make([]set.Card, r.CardsVisible)
	copy(cards, r.Deck[:r.CardsVisible])

	return FieldSnapshot{
		Players:        players,
		Cards:          cards,
		CardsVisible:   r.CardsVisible,
		CardsRemaining: len(r.Deck),
	}, nil
}

// FindCombinations enumerates every valid combination within the room's
// visible slice. Debug surface: requires a valid token and room id but not
// membership.
func (m *Manager) FindCombinations(token string, roomID int) ([][3]int, error) {
	if _, err := m.tokens.Validate(token); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.roomLocked(roomID)
	if err != nil {
		return nil, err
	}

	return set.FindSets(r.Deck[:r.CardsVisible]), nil
}

// roomLocked resolves a room id. Caller holds m.mu.
func (m *Manager) roomLocked(roomID int) (*Room, error) {
	if roomID < 0 || roomID >= len(m.rooms) {
		return nil, ErrInvalidRoomID
	}
	return m.rooms[roomID], nil
}
