// This file provides JSONL export and import of a user's contacts.
// Exports are written with the temp-file, fsync, rename pattern so a crash
// never leaves a truncated backup behind.
package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// ExportJSONL writes every contact of the current user to path, one JSON
// object per line. It returns the number of contacts written.
func (b *Backend) ExportJSONL(ctx context.Context, path string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return 0, err
	}
	contacts, err := b.contacts(ctx, q)
	if err != nil {
		return 0, err
	}

	records := make([]json.RawMessage, 0, len(contacts))
	for _, c := range contacts {
		rec, err := json.Marshal(c)
		if err != nil {
			return 0, fmt.Errorf("encoding %q: %w", c.Name(), err)
		}
		records = append(records, rec)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	b.log.Info("contacts exported", "user", b.currentUser, "path", path, "count", len(records))
	return len(records), nil
}

// ImportJSONL adds the contacts in path for the current user. Blank lines
// are ignored; lines that are not valid JSON or fail contact validation are
// counted as skipped, as are contacts whose name already exists.
func (b *Backend) ImportJSONL(ctx context.Context, path string) (added, skipped int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.q()
	if err != nil {
		return 0, 0, err
	}
	if _, err := b.currentUserID(ctx, q); err != nil {
		return 0, 0, err
	}

	records, malformed, err := readJSONL(path)
	if err != nil {
		return 0, 0, err
	}
	skipped = malformed

	for i, rec := range records {
		var c types.Contact
		if err := json.Unmarshal(rec, &c); err != nil {
			b.log.Warn("skipping invalid contact", "path", path, "record", i+1, "error", err)
			skipped++
			continue
		}
		ok, err := b.addContact(ctx, q, c)
		if err != nil {
			return added, skipped, err
		}
		if ok {
			added++
		} else {
			skipped++
		}
	}
	b.log.Info("contacts imported", "user", b.currentUser, "path", path, "added", added, "skipped", skipped)
	return added, skipped, nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage, plus the count of malformed lines it dropped.
func readJSONL(path string) ([]json.RawMessage, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var (
		records   []json.RawMessage
		malformed int
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			malformed++
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, malformed, nil
}

// writeJSONL atomically writes records to path.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
