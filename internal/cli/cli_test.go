package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/addressbook/internal/auth"
	"github.com/mesh-intelligence/addressbook/internal/logging"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// harness runs commands in process against temp config and data dirs.
type harness struct {
	t         *testing.T
	configDir string
	dataDir   string
	term      terminal
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(envPassword, "")
	root := t.TempDir()
	return &harness{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
		term: terminal{
			isTerminal:   func() bool { return false },
			readPassword: func() ([]byte, error) { return nil, errors.New("no terminal") },
		},
	}
}

// exec runs args exactly as given.
func (h *harness) exec(stdin string, args ...string) (string, error) {
	h.t.Helper()
	a := &app{
		params: auth.Params{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32},
		log:    logging.NewNop(),
		term:   h.term,
	}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// run adds the harness directories to args.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	return h.exec(stdin, append([]string{"--config-dir", h.configDir, "--data-dir", h.dataDir}, args...)...)
}

// as runs a command authenticated as user with password pw on stdin.
func (h *harness) as(user, pw string, args ...string) (string, error) {
	h.t.Helper()
	return h.run(pw+"\n", append([]string{"-u", user, "--password-stdin"}, args...)...)
}

func (h *harness) mustRegister(user, pw string) {
	h.t.Helper()
	_, err := h.as(user, pw, "register")
	require.NoError(h.t, err)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "addressbook v")
	assert.Contains(t, out, "module: github.com/mesh-intelligence/addressbook")
}

func TestInit(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "(created)")
	assert.FileExists(t, filepath.Join(h.configDir, "config.yaml"))
	assert.FileExists(t, filepath.Join(h.dataDir, types.DataFileName))

	out, err = h.run("", "init")
	require.NoError(t, err)
	assert.NotContains(t, out, "(created)", "existing config is kept")
}

func TestInit_DataDirFromConfig(t *testing.T) {
	h := newHarness(t)
	t.Setenv("ADDRESSBOOK_DATA_DIR", filepath.Join(t.TempDir(), "from-env"))
	require.NoError(t, os.MkdirAll(h.configDir, 0o755))
	configured := filepath.Join(t.TempDir(), "from-config")
	cfg := fmt.Sprintf("backend: sqlite\ndata_dir: %s\n", configured)
	require.NoError(t, os.WriteFile(filepath.Join(h.configDir, "config.yaml"), []byte(cfg), 0o644))

	_, err := h.exec("", "--config-dir", h.configDir, "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(configured, types.DataFileName))
}

func TestInit_UnknownBackend(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(h.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(h.configDir, "config.yaml"), []byte("backend: postgres\n"), 0o644))

	_, err := h.run("", "init")
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)

	out, err := h.as("alice", "secret", "register")
	require.NoError(t, err)
	assert.Equal(t, "Registered alice\n", out)

	out, err = h.as("alice", "secret", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice (0 contacts)")

	_, err = h.as("alice", "wrong", "login")
	assert.ErrorIs(t, err, errAuthFailed)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = h.as("bob", "secret", "login")
	assert.ErrorIs(t, err, types.ErrUserNotFound)

	_, err = h.as("alice", "again", "register")
	assert.ErrorIs(t, err, types.ErrUserAlreadyExists)

	_, err = h.as("1abc", "pw", "register")
	assert.ErrorIs(t, err, types.ErrInvalidUsername)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestPasswordSources(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		h := newHarness(t)
		h.mustRegister("alice", "secret")
		t.Setenv(envPassword, "secret")
		_, err := h.run("", "-u", "alice", "login")
		assert.NoError(t, err)
	})

	t.Run("no source", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("", "-u", "alice", "login")
		assert.ErrorIs(t, err, errUsage)
	})

	t.Run("empty stdin", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("", "-u", "alice", "--password-stdin", "login")
		assert.ErrorIs(t, err, errUsage)
	})

	t.Run("terminal prompts twice on register", func(t *testing.T) {
		h := newHarness(t)
		answers := []string{"one", "two"}
		h.term = terminal{
			isTerminal: func() bool { return true },
			readPassword: func() ([]byte, error) {
				next := answers[0]
				answers = answers[1:]
				return []byte(next), nil
			},
		}
		_, err := h.run("", "-u", "alice", "register")
		assert.ErrorIs(t, err, errPasswordMatch)
		assert.Empty(t, answers)
	})

	t.Run("missing user", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("secret\n", "--password-stdin", "login")
		assert.ErrorIs(t, err, errUsage)
	})
}

func TestContactCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRegister("alice", "secret")

	out, err := h.as("alice", "secret", "add",
		"--first", "Spenser", "--last", "Mason", "--phone", "8139570260",
		"--email", "mason11@mail.usf.edu",
		"--street", "4202 E Fowler Ave", "--city", "Tampa", "--state", "FL", "--zip", "33620")
	require.NoError(t, err)
	assert.Equal(t, "Added Spenser Mason\n", out)

	_, err = h.as("alice", "secret", "add", "--first", "Ada", "--last", "Lovelace")
	require.NoError(t, err)

	_, err = h.as("alice", "secret", "add", "--first", "Ada", "--last", "Lovelace")
	assert.ErrorIs(t, err, errContactExists)

	_, err = h.as("alice", "secret", "add", "--first", "Bad", "--phone", "555", "--email", "nope")
	assert.ErrorIs(t, err, types.ErrInvalidPhone)
	assert.ErrorIs(t, err, types.ErrInvalidEmail)
	assert.Equal(t, exitUserError, exitCode(err))

	out, err = h.as("alice", "secret", "search", "Tampa")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Spenser Mason")
	assert.NotContains(t, out, "Ada Lovelace")

	out, err = h.as("alice", "secret", "--json", "list")
	require.NoError(t, err)
	var listed []types.Contact
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "Ada Lovelace", listed[0].Name())
	assert.Equal(t, "Spenser Mason", listed[1].Name())
}

func TestEditCommand(t *testing.T) {
	h := newHarness(t)
	h.mustRegister("alice", "secret")
	_, err := h.as("alice", "secret", "add", "--first", "Ada", "--last", "Lovelace",
		"--phone", "2025550143", "--email", "ada@example.com")
	require.NoError(t, err)

	out, err := h.as("alice", "secret", "edit", "--first", "Ada", "--last", "Lovelace",
		"--new-first", "Augusta", "--phone", "2025550199")
	require.NoError(t, err)
	assert.Equal(t, "Updated 1 contact(s)\n", out)

	out, err = h.as("alice", "secret", "--json", "search", "Augusta")
	require.NoError(t, err)
	var found []types.Contact
	require.NoError(t, json.Unmarshal([]byte(out), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Augusta Lovelace", found[0].Name())
	assert.Equal(t, "2025550199", found[0].Phone())
	assert.Equal(t, "ada@example.com", found[0].Email(), "unset flags keep stored values")

	_, err = h.as("alice", "secret", "edit", "--first", "Ada", "--last", "Lovelace", "--phone", "2025550100")
	assert.ErrorIs(t, err, errContactNotFound)

	_, err = h.as("alice", "secret", "edit", "--first", "Augusta", "--last", "Lovelace", "--zip", "1")
	assert.ErrorIs(t, err, types.ErrInvalidAddress)
}

func TestDeleteCommand(t *testing.T) {
	h := newHarness(t)
	h.mustRegister("alice", "secret")
	_, err := h.as("alice", "secret", "add", "--first", "Ada", "--last", "Lovelace")
	require.NoError(t, err)

	out, err := h.as("alice", "secret", "delete", "--first", "Ada", "--last", "Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 1 contact(s)\n", out)

	_, err = h.as("alice", "secret", "delete", "--first", "Ada", "--last", "Lovelace")
	assert.ErrorIs(t, err, errContactNotFound)

	_, err = h.as("alice", "secret", "delete")
	assert.ErrorIs(t, err, types.ErrInvalidName)

	out, err = h.as("alice", "secret", "list")
	require.NoError(t, err)
	assert.Equal(t, "No contacts\n", out)
}

func TestUsersCommand(t *testing.T) {
	h := newHarness(t)
	h.mustRegister("carol", "pw")
	h.mustRegister("alice", "pw")

	out, err := h.as("alice", "pw", "users")
	require.NoError(t, err)
	assert.Equal(t, "alice\ncarol\n", out)
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	h.mustRegister("alice", "secret")
	h.mustRegister("bob", "hunter2")
	_, err := h.as("alice", "secret", "add", "--first", "Ada", "--last", "Lovelace", "--phone", "2025550143")
	require.NoError(t, err)
	_, err = h.as("alice", "secret", "add", "--first", "Grace", "--last", "Hopper")
	require.NoError(t, err)

	backup := filepath.Join(t.TempDir(), "alice.jsonl")
	out, err := h.as("alice", "secret", "export", "--out", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 contact(s)")

	out, err = h.as("bob", "hunter2", "import", "--in", backup)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 contact(s), skipped 0\n", out)

	out, err = h.as("bob", "hunter2", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Grace Hopper")

	_, err = h.as("bob", "hunter2", "export")
	assert.ErrorIs(t, err, errUsage)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitSuccess},
		{name: "validation", err: fmt.Errorf("add: %w", types.ErrInvalidPhone), want: exitUserError},
		{name: "usage", err: errUsage, want: exitUserError},
		{name: "unknown user", err: types.ErrUserNotFound, want: exitUserError},
		{name: "not connected", err: types.ErrNotConnected, want: exitSysError},
		{name: "io failure", err: os.ErrPermission, want: exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "list", "--bogus")
	assert.ErrorIs(t, err, errUsage)
}
