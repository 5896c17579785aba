package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memRepo is an in-memory Repository for manager tests.
type memRepo struct {
	records  map[string]User
	saves    int
	failSave bool
	preload  []*User
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[string]User)}
}

func (r *memRepo) LoadAll(ctx context.Context) ([]*User, error) {
	return r.preload, nil
}

func (r *memRepo) Save(ctx context.Context, u *User) error {
	if r.failSave {
		return errors.New("storage unavailable")
	}
	r.saves++
	r.records[u.Token] = *u
	return nil
}

func newTestManager(repo Repository) *Manager {
	return NewManager(repo, "test-salt", zap.NewNop())
}

func TestRegister(t *testing.T) {
	repo := newMemRepo()
	m := newTestManager(repo)

	creds, err := m.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", creds.Nickname)
	assert.Len(t, creds.Token, 64) // hex sha256

	u, err := m.Validate(creds.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Nickname)
	assert.NotEqual(t, "pw1", u.PasswordHash)
	assert.False(t, u.Dirty(), "record should be flushed after registration")

	saved, ok := repo.records[creds.Token]
	require.True(t, ok, "record should be in the repository")
	assert.Equal(t, "alice", saved.Nickname)
	assert.GreaterOrEqual(t, saved.SavedAt, saved.ModifiedAt)
}

func TestRegister_MissingFields(t *testing.T) {
	m := newTestManager(newMemRepo())

	_, err := m.Register(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrNicknameMissing)

	_, err = m.Register(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrPasswordMissing)
}

func TestRegister_NicknameTaken(t *testing.T) {
	m := newTestManager(newMemRepo())

	first, err := m.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	_, err = m.Register(context.Background(), "alice", "pw2")
	assert.ErrorIs(t, err, ErrNicknameTaken)

	// First registration's token stays valid
	u, err := m.Validate(first.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Nickname)
}

func TestValidate_InvalidToken(t *testing.T) {
	m := newTestManager(newMemRepo())

	_, err := m.Validate("no-such-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFlush_SkipsCleanRecords(t *testing.T) {
	repo := newMemRepo()
	m := newTestManager(repo)

	_, err := m.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)
	require.Equal(t, 1, repo.saves)

	// Nothing dirty: flush is a no-op
	m.Flush(context.Background())
	assert.Equal(t, 1, repo.saves)
}

func TestFlush_RetriesAfterFailure(t *testing.T) {
	repo := newMemRepo()
	repo.failSave = true
	m := newTestManager(repo)

	creds, err := m.Register(context.Background(), "alice", "pw")
	require.NoError(t, err, "registration succeeds even when the flush fails")

	u, err := m.Validate(creds.Token)
	require.NoError(t, err)
	assert.True(t, u.Dirty(), "record stays dirty after a failed write")

	repo.failSave = false
	m.Flush(context.Background())

	u, err = m.Validate(creds.Token)
	require.NoError(t, err)
	assert.False(t, u.Dirty())
	assert.Equal(t, 1, repo.saves)
}

func TestLoad_RebuildsIndexes(t *testing.T) {
	repo := newMemRepo()
	repo.preload = []*User{
		{Token: "tok-1", Nickname: "alice", PasswordHash: "h", CreatedAt: 1, ModifiedAt: 1, SavedAt: 2},
	}

	m := newTestManager(repo)
	require.NoError(t, m.Load(context.Background()))

	u, err := m.Validate("tok-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Nickname)

	// Nickname index rebuilt as well
	_, err = m.Register(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, ErrNicknameTaken)
}

func TestRegister_DistinctTokens(t *testing.T) {
	m := newTestManager(newMemRepo())

	a, err := m.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)
	b, err := m.Register(context.Background(), "bob", "pw")
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
}
