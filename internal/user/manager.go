package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Credentials is the success payload of a registration.
type Credentials struct {
	Nickname string
	Token    string
}

// Manager owns the in-memory user registry and is the sole writer to the
// repository. One coarse lock guards both indexes so read-validate-write
// sequences (register, validate) never interleave.
type Manager struct {
	mu        sync.Mutex
	users     map[string]*User  // token -> record
	nicknames map[string]string // nickname -> token

	repo   Repository
	salt   string
	logger *zap.Logger
}

// NewManager creates an identity store backed by repo. The salt feeds the
// fixed one-way digest used for both password hashes and token generation.
func NewManager(repo Repository, salt string, logger *zap.Logger) *Manager {
	return &Manager{
		users:     make(map[string]*User),
		nicknames: make(map[string]string),
		repo:      repo,
		salt:      salt,
		logger:    logger,
	}
}

// Load rebuilds the token and nickname indexes from the repository. Called
// once at startup before any request is served.
func (m *Manager) Load(ctx context.Context) error {
	records, err := m.repo.LoadAll(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range records {
		m.users[u.Token] = u
		m.nicknames[u.Nickname] = u.Token
	}

	m.logger.Info("user store loaded", zap.Int("users", len(records)))
	return nil
}

// Register creates a new user record and issues its access token. The new
// record is flushed before returning; a flush failure is logged and does
// not fail the registration (the record stays dirty for the next cycle).
func (m *Manager) Register(ctx context.Context, nickname, password string) (Credentials, error) {
	if nickname == "" {
		return Credentials{}, ErrNicknameMissing
	}
	if password == "" {
		return Credentials{}, ErrPasswordMissing
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.nicknames[nickname]; taken {
		return Credentials{}, ErrNicknameTaken
	}

	token := m.digest(uuid.NewString())
	if _, exists := m.users[token]; exists {
		// Practically unreachable with 128 bits of entropy behind the digest.
		return Credentials{}, ErrTokenCollision
	}

	now := time.Now().UnixMilli()
	u := &User{
		Token:        token,
		Nickname:     nickname,
		PasswordHash: m.digest(password),
		CreatedAt:    now,
		ModifiedAt:   now,
		SavedAt:      0,
	}

	m.nicknames[nickname] = token
	m.users[token] = u

	m.flushLocked(ctx)

	return Credentials{Nickname: nickname, Token: token}, nil
}

// Validate resolves a token to a copy of its user record.
func (m *Manager) Validate(token string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[token]
	if !ok {
		return User{}, ErrInvalidToken
	}
	return *u, nil
}

// Flush writes every dirty record to the repository.
func (m *Manager) Flush(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked(ctx)
}

// flushLocked walks the registry and saves each dirty record, marking it
// clean on success. One record per write; a failure leaves that record
// dirty and moves on. SavedAt is stamped before the write so the durable
// copy is already clean when reloaded.
func (m *Manager) flushLocked(ctx context.Context) {
	for token, u := range m.users {
		if !u.Dirty() {
			continue
		}

		prev := u.SavedAt
		u.SavedAt = time.Now().UnixMilli()

		if err := m.repo.Save(ctx, u); err != nil {
			u.SavedAt = prev
			m.logger.Error("failed to flush user record",
				zap.String("nickname", u.Nickname),
				zap.Error(err),
			)
			continue
		}

		m.logger.Debug("user record flushed", zap.String("token", token))
	}
}

// digest applies the fixed salted one-way hash shared by password storage
// and token generation. Kept as a single fast digest so records written by
// earlier deployments stay valid.
func (m *Manager) digest(value string) string {
	sum := sha256.Sum256([]byte(m.salt + value))
	return hex.EncodeToString(sum[:])
}
