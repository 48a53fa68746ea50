package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/addressbook/internal/sqlite"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// envPassword supplies the password for non-interactive runs.
const envPassword = "ADDRESSBOOK_PASSWORD"

// terminal abstracts the no-echo prompt.
type terminal struct {
	isTerminal   func() bool
	readPassword func() ([]byte, error)
}

func stdTerminal() terminal {
	fd := int(os.Stdin.Fd())
	return terminal{
		isTerminal:   func() bool { return term.IsTerminal(fd) },
		readPassword: func() ([]byte, error) { return term.ReadPassword(fd) },
	}
}

// password returns the password from --password-stdin, ADDRESSBOOK_PASSWORD
// or a terminal prompt, in that order. prompted reports the last case.
func (a *app) password(cmd *cobra.Command, prompt string) (pw string, prompted bool, err error) {
	if a.passwordStdin {
		if a.stdin == nil {
			a.stdin = bufio.NewReader(cmd.InOrStdin())
		}
		line, err := a.stdin.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", false, fmt.Errorf("%w: no password on stdin", errUsage)
		}
		return strings.TrimRight(line, "\r\n"), false, nil
	}
	if pw := os.Getenv(envPassword); pw != "" {
		return pw, false, nil
	}
	if !a.term.isTerminal() {
		return "", false, fmt.Errorf("%w: no password given; use --password-stdin or %s", errUsage, envPassword)
	}

	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	raw, err := a.term.readPassword()
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", true, fmt.Errorf("read password: %w", err)
	}
	return string(raw), true, nil
}

// username returns --user or a usage error.
func (a *app) username() (string, error) {
	if a.user == "" {
		return "", fmt.Errorf("%w: --user is required", errUsage)
	}
	return a.user, nil
}

// withSession authenticates --user and runs fn on the connected backend.
// The store is always released with CloseOut.
func (a *app) withSession(cmd *cobra.Command, fn func(ctx context.Context, b *sqlite.Backend) error) error {
	user, err := a.username()
	if err != nil {
		return err
	}
	pw, _, err := a.password(cmd, "Password: ")
	if err != nil {
		return err
	}
	b, err := a.newBackend()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	return types.WithConnection(ctx, b, user, func(types.ContactStore) error {
		if err := authenticate(ctx, b, user, pw); err != nil {
			a.log.Warn("authentication failed", "user", user, "error", err)
			return err
		}
		return fn(ctx, b)
	})
}

// authenticate distinguishes an unknown user from a wrong password.
func authenticate(ctx context.Context, s types.ContactStore, user, pw string) error {
	exists, err := s.UserExists(ctx, user)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", types.ErrUserNotFound, user)
	}
	ok, err := s.CheckPassword(ctx, user, pw)
	if err != nil {
		return err
	}
	if !ok {
		return errAuthFailed
	}
	return nil
}
