package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"greenhood/config"
	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/errors"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	identityPrefix    = "USER_"
	anonymousIdentity = "ANONYMOUS"
)

// SessionTagger marks a freshly acquired connection with the client identity.
type SessionTagger interface {
	TagSession(ctx context.Context, conn *sql.Conn, tag string) error
}

// PostgresSessionTagger stores the tag in the app.current_user setting read by the audit columns.
type PostgresSessionTagger struct{}

// TagSession implements SessionTagger.
func (PostgresSessionTagger) TagSession(ctx context.Context, conn *sql.Conn, tag string) error {
	_, err := conn.ExecContext(ctx, "SELECT set_config('app.current_user', $1, false)", tag)

	return err
}

// Session is one dedicated, tagged connection. Release it when done.
type Session struct {
	db      *gorm.DB
	conn    *sql.Conn
	release sync.Once
	err     error
}

// DB returns a GORM handle whose statements all run on this session's connection.
func (s *Session) DB() *gorm.DB {
	return s.db
}

// Release returns the connection to the pool. Calling it more than once is a no-op.
func (s *Session) Release() error {
	s.release.Do(func() {
		s.err = s.conn.Close()
	})

	return s.err
}

// Provider hands out pooled, tagged sessions.
type Provider struct {
	db             *gorm.DB
	sqlDB          *sql.DB
	tagger         SessionTagger
	acquireTimeout time.Duration
	logger         *slog.Logger

	mu       sync.RWMutex
	identity string

	closed       atomic.Bool
	shutdownOnce sync.Once
	shutdownErr  error
}

// ProviderParams defines the required parameters
type ProviderParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB
}

// NewProvider builds the Postgres-backed provider and shuts it down with the app.
func NewProvider(params ProviderParams) (*Provider, error) {
	provider, err := NewSessionProvider(
		params.DB,
		PostgresSessionTagger{},
		params.Config.Store.AcquireTimeout,
		params.Config.Store.Identity,
		params.Logger,
	)
	if err != nil {
		return nil, err
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return provider.Shutdown()
		},
	})

	return provider, nil
}

// NewSessionProvider wires a provider around an existing GORM handle.
func NewSessionProvider(db *gorm.DB, tagger SessionTagger, acquireTimeout time.Duration, identity string, logger *slog.Logger) (*Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}
	if acquireTimeout <= 0 {
		return nil, errors.New("acquire timeout must be positive")
	}

	return &Provider{
		db:             db,
		sqlDB:          sqlDB,
		tagger:         tagger,
		acquireTimeout: acquireTimeout,
		logger:         logger,
		identity:       identity,
	}, nil
}

// SetIdentity changes the identity tagged on sessions acquired from now on.
func (p *Provider) SetIdentity(identity string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.identity = identity
}

// Identity returns the raw identity currently used for tagging.
func (p *Provider) Identity() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.identity
}

// Acquire takes a connection from the pool, waiting at most the acquire timeout,
// and tags it. A timeout fails with ErrPoolExhausted.
func (p *Provider) Acquire(ctx context.Context) (*Session, error) {
	if p.closed.Load() {
		return nil, errors.Wrap(sql.ErrConnDone, "connection provider is shut down")
	}

	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	conn, err := p.sqlDB.Conn(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, errors.Wrapf(domainerrors.ErrPoolExhausted, "no session free within %s", p.acquireTimeout)
		}

		return nil, errors.Wrap(err, "failed to acquire session")
	}

	if err := p.tagger.TagSession(ctx, conn, SanitizeIdentity(p.Identity())); err != nil {
		p.discard(conn)

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to tag session")
	}

	db := p.db.Session(&gorm.Session{Context: ctx, NewDB: true})
	db.Statement.ConnPool = conn

	return &Session{db: db, conn: conn}, nil
}

// WithSession acquires a session, runs fn on it and releases it on return.
func (p *Provider) WithSession(ctx context.Context, fn func(db *gorm.DB) error) error {
	session, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Release(); err != nil && p.logger != nil {
			p.logger.Warn("Failed to release session", slog.Any("error", err))
		}
	}()

	return fn(session.DB())
}

// Shutdown closes every pooled connection. Later calls return the first result.
func (p *Provider) Shutdown() error {
	p.shutdownOnce.Do(func() {
		p.closed.Store(true)
		p.shutdownErr = p.sqlDB.Close()
		if p.logger != nil {
			p.logger.Info("Connection provider shut down")
		}
	})

	return p.shutdownErr
}

// discard drops a connection instead of returning it to the pool.
func (p *Provider) discard(conn *sql.Conn) {
	_ = conn.Raw(func(any) error {
		return driver.ErrBadConn
	})
	_ = conn.Close()
}

// SanitizeIdentity builds the session tag: a fixed prefix plus the identity
// restricted to ASCII letters, digits and underscores.
func SanitizeIdentity(identity string) string {
	var b strings.Builder
	b.Grow(len(identityPrefix) + len(identity))
	b.WriteString(identityPrefix)

	n := 0
	for _, r := range identity {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			n++
		}
	}
	if n == 0 {
		b.WriteString(anonymousIdentity)
	}

	return b.String()
}
