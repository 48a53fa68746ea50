// This file implements contact CRUD and search for the current user.
// Rows are matched by first and last name, so edit and delete reach every
// contact sharing a name.
package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// AddContact inserts c unless the current user already has a contact with
// the same first and last name. It reports whether a row was inserted.
func (b *Backend) AddContact(ctx context.Context, c types.Contact) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return false, err
	}
	return b.addContact(ctx, q, c)
}

func (b *Backend) addContact(ctx context.Context, q querier, c types.Contact) (bool, error) {
	uid, err := b.currentUserID(ctx, q)
	if err != nil {
		return false, err
	}

	var exists bool
	err = q.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM contacts WHERE user_id = ? AND first_name = ? AND last_name = ? LIMIT 1)",
		uid, c.FirstName(), c.LastName(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking contact existence: %w", err)
	}
	if exists {
		b.log.Debug("contact already present", "user", b.currentUser, "name", c.Name())
		return false, nil
	}

	now := timestamp(b.now())
	h := c.Home()
	_, err = q.ExecContext(ctx,
		"INSERT INTO contacts (contact_id, user_id, "+contactColumns+", created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		newID(), uid,
		c.FirstName(), c.LastName(), c.Phone(), c.Email(),
		h.Street, h.City, h.State, h.Zip,
		now, now,
	)
	if err != nil {
		return false, fmt.Errorf("inserting contact: %w", err)
	}
	b.log.Debug("contact added", "user", b.currentUser, "name", c.Name())
	return true, nil
}

// Contacts returns every contact of the current user sorted by types.Compare.
func (b *Backend) Contacts(ctx context.Context) ([]types.Contact, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return nil, err
	}
	return b.contacts(ctx, q)
}

func (b *Backend) contacts(ctx context.Context, q querier) ([]types.Contact, error) {
	uid, err := b.currentUserID(ctx, q)
	if err != nil {
		return nil, err
	}
	return queryContacts(ctx, q,
		"SELECT "+contactColumns+" FROM contacts WHERE user_id = ?", uid)
}

// Search returns contacts where any column, or the composed
// "<first> <last>" name, is LIKE %substr%. The pattern is bound as a
// parameter; % and _ in substr act as wildcards.
func (b *Backend) Search(ctx context.Context, substr string) ([]types.Contact, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return nil, err
	}
	uid, err := b.currentUserID(ctx, q)
	if err != nil {
		return nil, err
	}

	pattern := "%" + substr + "%"
	args := make([]any, 0, searchPatternCount+1)
	args = append(args, uid)
	for range searchPatternCount {
		args = append(args, pattern)
	}

	results, err := queryContacts(ctx, q,
		"SELECT "+contactColumns+" FROM contacts WHERE "+searchWhere, args...)
	if err != nil {
		return nil, err
	}
	b.log.Debug("search", "user", b.currentUser, "term", substr, "results", len(results))
	return results, nil
}

// EditContact overwrites every contact named like old with updated's
// values, including the name. It returns the number of rows changed.
func (b *Backend) EditContact(ctx context.Context, old, updated types.Contact) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return 0, err
	}
	uid, err := b.currentUserID(ctx, q)
	if err != nil {
		return 0, err
	}

	h := updated.Home()
	res, err := q.ExecContext(ctx,
		`UPDATE contacts SET first_name = ?, last_name = ?, phone = ?, email = ?,
    street = ?, city = ?, state = ?, zip = ?, updated_at = ?
WHERE user_id = ? AND first_name = ? AND last_name = ?`,
		updated.FirstName(), updated.LastName(), updated.Phone(), updated.Email(),
		h.Street, h.City, h.State, h.Zip, timestamp(b.now()),
		uid, old.FirstName(), old.LastName(),
	)
	if err != nil {
		return 0, fmt.Errorf("updating contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	b.log.Debug("contact edited", "user", b.currentUser, "old", old.Name(), "new", updated.Name(), "rows", n)
	return n, nil
}

// DeleteContact removes every contact named like c and returns how many
// rows went.
func (b *Backend) DeleteContact(ctx context.Context, c types.Contact) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return 0, err
	}
	uid, err := b.currentUserID(ctx, q)
	if err != nil {
		return 0, err
	}

	res, err := q.ExecContext(ctx,
		"DELETE FROM contacts WHERE user_id = ? AND first_name = ? AND last_name = ?",
		uid, c.FirstName(), c.LastName(),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	b.log.Debug("contact deleted", "user", b.currentUser, "name", c.Name(), "rows", n)
	return n, nil
}

// queryContacts runs a SELECT of contactColumns and hydrates the rows.
func queryContacts(ctx context.Context, q querier, query string, args ...any) ([]types.Contact, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	contacts := []types.Contact{}
	for rows.Next() {
		var (
			first, last, phone, email string
			h                         types.Home
		)
		if err := rows.Scan(&first, &last, &phone, &email, &h.Street, &h.City, &h.State, &h.Zip); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		c, err := types.NewContact(first, last, phone, email, h)
		if err != nil {
			return nil, fmt.Errorf("hydrating contact %q: %w", first+" "+last, err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contacts: %w", err)
	}
	types.SortContacts(contacts)
	return contacts, nil
}
