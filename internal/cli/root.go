// Package cli implements the addressbook command-line interface.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/addressbook/internal/auth"
	"github.com/mesh-intelligence/addressbook/internal/logging"
	"github.com/mesh-intelligence/addressbook/internal/paths"
	"github.com/mesh-intelligence/addressbook/internal/sqlite"
	"github.com/mesh-intelligence/addressbook/pkg/addressbook"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// CLI-level user errors. Store sentinels are classified in exitCode.
var (
	errUsage           = errors.New("usage")
	errAuthFailed      = errors.New("incorrect password")
	errContactExists   = errors.New("contact already exists")
	errContactNotFound = errors.New("contact not found")
	errPasswordMatch   = errors.New("passwords do not match")
)

// app holds global flag values and the collaborators shared by subcommands.
type app struct {
	configDir     string
	dataDir       string
	jsonMode      bool
	user          string
	passwordStdin bool

	cfg    *viper.Viper
	log    *logging.Logger
	params auth.Params
	term   terminal
	stdin  *bufio.Reader
}

func newApp() *app {
	return &app{
		params: auth.DefaultParams,
		term:   stdTerminal(),
	}
}

// NewRootCmd creates the top-level "addressbook" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "addressbook",
		Short:   "A per-user address book backed by SQLite",
		Long:    "addressbook keeps contacts for each registered user in a local SQLite file.\nRun 'addressbook ui' for the form interface.",
		Version: addressbook.Version,
		// Errors are printed once by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.log.Sync()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/addressbook)")
	pf.StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/.addressbook-db)")
	pf.BoolVar(&a.jsonMode, "json", false, "output as JSON")
	pf.StringVarP(&a.user, "user", "u", "", "account to act as")
	pf.BoolVar(&a.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newRegisterCmd(a),
		newLoginCmd(a),
		newUsersCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newSearchCmd(a),
		newListCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newUICmd(a),
	)
	return root
}

// Execute runs the root command and exits with the mapped code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "addressbook:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps err to exit code 1 when the user can fix the input and 2
// otherwise.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if types.IsValidation(err) {
		return exitUserError
	}
	for _, target := range []error{
		errUsage, errAuthFailed, errContactExists, errContactNotFound, errPasswordMatch,
		types.ErrUserNotFound, types.ErrUserAlreadyExists, types.ErrBackendUnknown,
	} {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// setup resolves the config directory, loads config.yaml and builds the
// logger. A logger injected by tests is kept.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.log == nil {
		log, err := logging.New(cfg.GetString(cfgKeyLogMode), cfg.GetString(cfgKeyLogLevel))
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		a.log = log
	}
	return nil
}

// storeConfig resolves the data directory and returns the backend config.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend: a.cfg.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}, nil
}

// newBackend creates a disconnected backend for the resolved config.
func (a *app) newBackend() (*sqlite.Backend, error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, err
	}
	return sqlite.NewBackend(cfg,
		sqlite.WithLogger(a.log),
		sqlite.WithPasswordParams(a.params),
	), nil
}
