package types

import (
	"context"
	"errors"
)

// ContactStore is the persistence contract for contacts and credentials.
// A store starts disconnected; Connect binds it to one user and every other
// method except CurrentUser and Connected returns ErrNotConnected until then.
// A store is not safe for concurrent use.
type ContactStore interface {
	// Connect opens the data file, creates the schema when missing and binds
	// the store to username. Returns ErrInvalidUsername for usernames that
	// are not identifiers and ErrAlreadyConnected when already connected.
	Connect(ctx context.Context, username string) error

	// CurrentUser returns the username passed to the last Connect.
	CurrentUser() string

	// Connected reports whether the store holds an open connection.
	Connected() bool

	// UserExists reports whether username is registered.
	UserExists(ctx context.Context, username string) (bool, error)

	// RegisterUser stores a credential for username.
	// Returns ErrUserAlreadyExists when the username is taken.
	RegisterUser(ctx context.Context, username, password string) error

	// CheckPassword reports whether username exists and password matches.
	CheckPassword(ctx context.Context, username, password string) (bool, error)

	// Users returns every registered username in sorted order.
	Users(ctx context.Context) ([]string, error)

	// AddContact inserts c for the current user unless a contact with the
	// same first and last name exists. It reports whether a row was added.
	// Returns ErrUserNotFound when the current user is not registered.
	AddContact(ctx context.Context, c Contact) (bool, error)

	// Contacts returns every contact of the current user sorted by Compare.
	Contacts(ctx context.Context) ([]Contact, error)

	// Search returns contacts where any field, or the composed name,
	// matches the SQL LIKE pattern %substr%. Wildcards in substr pass
	// through. Results are sorted by Compare.
	Search(ctx context.Context, substr string) ([]Contact, error)

	// EditContact overwrites every contact named like old with the values
	// of updated, including the name. It returns the number of rows changed.
	EditContact(ctx context.Context, old, updated Contact) (int64, error)

	// DeleteContact removes every contact named like c. More than one row
	// is removed when several contacts share a first and last name.
	DeleteContact(ctx context.Context, c Contact) (int64, error)

	// Commit makes pending changes durable and keeps the store connected.
	Commit() error

	// Close discards uncommitted changes and disconnects.
	Close() error

	// CloseOut commits pending changes and disconnects.
	CloseOut() error
}

// WithConnection connects store as username, runs fn and always releases the
// store with CloseOut, also when fn fails. Errors from fn and from CloseOut
// are joined.
func WithConnection(ctx context.Context, store ContactStore, username string, fn func(ContactStore) error) (err error) {
	if err := store.Connect(ctx, username); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.CloseOut())
	}()
	return fn(store)
}
