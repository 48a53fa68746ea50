package types

import "errors"

// Config holds backend selection and parameters for a ContactStore.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// InMemory keeps the database in process memory. Nothing is written to
	// DataDir and all data is lost on Close.
	InMemory bool `json:"in_memory,omitempty" yaml:"in_memory,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DataFileName is the name of the data file created inside DataDir.
const DataFileName = "contacts.db"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
