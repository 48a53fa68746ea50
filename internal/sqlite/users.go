// This file implements the credential table: registration, lookup and
// password checks.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/addressbook/internal/auth"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// UserExists reports whether username is registered.
func (b *Backend) UserExists(ctx context.Context, username string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return false, err
	}
	return userExists(ctx, q, username)
}

func userExists(ctx context.Context, q querier, username string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return exists, nil
}

// RegisterUser stores an argon2id credential for username.
func (b *Backend) RegisterUser(ctx context.Context, username, password string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return err
	}
	if err := types.ValidateUsername(username); err != nil {
		return err
	}
	if password == "" {
		return types.ErrInvalidPassword
	}

	exists, err := userExists(ctx, q, username)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", types.ErrUserAlreadyExists, username)
	}

	hash, err := auth.Hash(password, b.params)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	account := types.UserAccount{
		UserID:       newID(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    b.now(),
	}
	_, err = q.ExecContext(ctx,
		"INSERT INTO users (username, user_id, password, created_at) VALUES (?, ?, ?, ?)",
		account.Username, account.UserID, account.PasswordHash, timestamp(account.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	if username == b.currentUser {
		b.userID = account.UserID
	}
	b.log.Info("user registered", "user", username, "user_id", account.UserID)
	return nil
}

// CheckPassword reports whether username exists and password matches its
// stored hash.
func (b *Backend) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return false, err
	}

	var hash string
	err = q.QueryRowContext(ctx,
		"SELECT password FROM users WHERE username = ?", username,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading credential: %w", err)
	}

	ok, err := auth.Verify(password, hash)
	if err != nil {
		return false, fmt.Errorf("verifying password for %s: %w", username, err)
	}
	if !ok {
		b.log.Warn("password mismatch", "user", username)
	}
	return ok, nil
}

// Users returns every registered username in sorted order.
func (b *Backend) Users(ctx context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, "SELECT username FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, name)
	}
	return users, rows.Err()
}

// lookupUser loads the account row for username.
func lookupUser(ctx context.Context, q querier, username string) (types.UserAccount, error) {
	var (
		account   types.UserAccount
		createdAt string
	)
	err := q.QueryRowContext(ctx,
		"SELECT username, user_id, password, created_at FROM users WHERE username = ?", username,
	).Scan(&account.Username, &account.UserID, &account.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.UserAccount{}, fmt.Errorf("%w: %s", types.ErrUserNotFound, username)
	}
	if err != nil {
		return types.UserAccount{}, fmt.Errorf("loading user %s: %w", username, err)
	}
	account.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return types.UserAccount{}, fmt.Errorf("parsing created_at for %s: %w", username, err)
	}
	return account, nil
}

// Account returns the account of the current user.
func (b *Backend) Account(ctx context.Context) (types.UserAccount, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return types.UserAccount{}, err
	}
	return lookupUser(ctx, q, b.currentUser)
}

// currentUserID resolves and caches the id of the current user.
// The caller must hold b.mu.
func (b *Backend) currentUserID(ctx context.Context, q querier) (string, error) {
	if b.userID != "" {
		return b.userID, nil
	}
	account, err := lookupUser(ctx, q, b.currentUser)
	if err != nil {
		return "", err
	}
	b.userID = account.UserID
	return b.userID, nil
}
