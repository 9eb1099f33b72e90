package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ErlanBelekov/bookshelf/internal/apiclient"
	"github.com/ErlanBelekov/bookshelf/internal/metrics"
	"github.com/ErlanBelekov/bookshelf/internal/state"
	"github.com/ErlanBelekov/bookshelf/internal/tokenstore"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenFactory returns the token store backing sessionID.
type TokenFactory func(sessionID string) tokenstore.Store

// MemoryTokens keeps each session's token in process memory; it is lost
// when the session is swept or the process exits.
func MemoryTokens(string) tokenstore.Store {
	return tokenstore.NewMemoryStore()
}

// RedisTokens keeps each session's token in Redis for ttl after last use,
// so a returning browser is logged back in after a restart.
func RedisTokens(rdb *redis.Client, ttl time.Duration) TokenFactory {
	return func(sessionID string) tokenstore.Store {
		return tokenstore.NewRedisStore(rdb, sessionID, ttl)
	}
}

type Manager struct {
	client    *apiclient.Client
	newTokens TokenFactory
	idle      time.Duration
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager builds sessions whose API clients share client's transport.
func NewManager(client *apiclient.Client, newTokens TokenFactory, idle time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		client:    client,
		newTokens: newTokens,
		idle:      idle,
		logger:    logger.With("component", "session_manager"),
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Get returns the session for id, creating it when id is unknown. Ids that
// are not UUIDs are replaced by a fresh one, so callers must use the returned
// session's ID for the cookie. A new session is bootstrapped before Get
// returns; concurrent callers for the same id wait for that to finish.
func (m *Manager) Get(ctx context.Context, id string) (sess *Session, created bool) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	m.mu.Lock()
	sess, ok := m.sessions[id]
	if !ok {
		tokens := m.newTokens(id)
		client := m.client.WithTokens(tokens)
		sess = &Session{
			ID:     id,
			Store:  state.New(client, tokens, m.logger),
			Client: client,
			tokens: tokens,
		}
		m.sessions[id] = sess
		metrics.SessionsActive.Set(float64(len(m.sessions)))
		created = true
	}
	m.mu.Unlock()

	sess.touch(m.now())
	sess.ready.Do(func() {
		// A client hanging up must not fail the check and drop the token.
		if _, err := sess.Store.Bootstrap(context.WithoutCancel(ctx)); err != nil {
			m.logger.WarnContext(ctx, "session bootstrap", "error", err)
		}
	})
	if t, ok := sess.tokens.(toucher); ok && !created {
		if err := t.Touch(ctx); err != nil {
			m.logger.WarnContext(ctx, "extend token ttl", "error", err)
		}
	}
	return sess, created
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions not seen within the idle window before now and
// returns how many it removed.
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	metrics.SessionsSweptTotal.Add(float64(removed))
	return removed
}
