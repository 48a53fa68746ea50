// Package sqlite implements the SQLite ContactStore.
//
// A Backend owns one database handle and one open transaction while
// connected. Every read and write runs inside that transaction; Commit makes
// the work durable and opens a fresh transaction, Close rolls back whatever
// was not committed.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/addressbook/internal/auth"
	"github.com/mesh-intelligence/addressbook/internal/logging"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// Compile-time interface check.
var _ types.ContactStore = (*Backend)(nil)

// dsnPragmas are applied to every connection.
const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Backend implements types.ContactStore on a single SQLite file.
type Backend struct {
	mu     sync.Mutex
	config types.Config
	log    *logging.Logger
	params auth.Params
	now    func() time.Time

	db          *sql.DB
	tx          *sql.Tx
	currentUser string
	userID      string // cached once the current user is known to exist
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(b *Backend) { b.log = l }
}

// WithPasswordParams sets the argon2id cost used by RegisterUser.
func WithPasswordParams(p auth.Params) Option {
	return func(b *Backend) { b.params = p }
}

// NewBackend creates a disconnected backend for config.
// Config is validated on Connect.
func NewBackend(config types.Config, opts ...Option) *Backend {
	b := &Backend{
		config: config,
		log:    logging.NewNop(),
		params: auth.DefaultParams,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Path returns the data file location, or ":memory:" for in-memory stores.
func (b *Backend) Path() string {
	if b.config.InMemory {
		return ":memory:"
	}
	dataDir := b.config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, types.DataFileName)
}

// open validates config, creates DataDir and opens the database with the
// schema applied.
func (b *Backend) open(ctx context.Context) (*sql.DB, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if !b.config.InMemory && b.config.DataDir != "" {
		if err := os.MkdirAll(b.config.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", b.Path()+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: the in-memory database lives and dies with it, and the
	// store is single-writer anyway.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Initialize creates the data file and schema without binding a user.
func (b *Backend) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db != nil {
		return types.ErrAlreadyConnected
	}
	db, err := b.open(ctx)
	if err != nil {
		return err
	}
	b.log.Info("store initialized", "path", b.Path())
	return db.Close()
}

// Connect opens the store for username. The schema is created when missing.
func (b *Backend) Connect(ctx context.Context, username string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db != nil {
		return types.ErrAlreadyConnected
	}
	if err := types.ValidateUsername(username); err != nil {
		return err
	}

	db, err := b.open(ctx)
	if err != nil {
		return err
	}
	// The transaction outlives ctx, so it must not be bound to it.
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		db.Close()
		return fmt.Errorf("begin transaction: %w", err)
	}

	b.db = db
	b.tx = tx
	b.currentUser = username
	b.userID = ""
	b.log.Debug("store connected", "user", username, "path", b.Path())
	return nil
}

// CurrentUser returns the username bound by the last Connect.
func (b *Backend) CurrentUser() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentUser
}

// Connected reports whether the store is connected.
func (b *Backend) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.db != nil
}

// q returns the active transaction or ErrNotConnected.
// The caller must hold b.mu.
func (b *Backend) q() (querier, error) {
	if b.db == nil {
		return nil, types.ErrNotConnected
	}
	return b.tx, nil
}

// Commit makes pending changes durable and starts a new transaction.
func (b *Backend) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commitLocked()
}

func (b *Backend) commitLocked() error {
	if b.db == nil {
		return types.ErrNotConnected
	}
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	tx, err := b.db.BeginTx(context.Background(), nil)
	if err != nil {
		// Committed work is safe; the handle is unusable, so release it.
		closeErr := b.db.Close()
		b.reset()
		return errors.Join(fmt.Errorf("begin transaction: %w", err), closeErr)
	}
	b.tx = tx
	return nil
}

// Close rolls back uncommitted changes and disconnects.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeLocked()
}

func (b *Backend) closeLocked() error {
	if b.db == nil {
		return types.ErrNotConnected
	}
	rbErr := b.tx.Rollback()
	if errors.Is(rbErr, sql.ErrTxDone) {
		rbErr = nil
	}
	closeErr := b.db.Close()
	b.log.Debug("store closed", "user", b.currentUser)
	b.reset()
	return errors.Join(rbErr, closeErr)
}

// CloseOut commits pending changes and disconnects. The connection is
// released even when the commit fails.
func (b *Backend) CloseOut() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return types.ErrNotConnected
	}
	if err := b.commitLocked(); err != nil {
		if b.db != nil {
			return errors.Join(err, b.closeLocked())
		}
		return err
	}
	return b.closeLocked()
}

// reset clears connection state. The caller must hold b.mu.
func (b *Backend) reset() {
	b.db = nil
	b.tx = nil
	b.userID = ""
}

// newID generates a UUID v7 for user and contact ids.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// timestamp formats t for the TEXT time columns.
func timestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// parseTimestamp parses a TEXT time column.
func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
