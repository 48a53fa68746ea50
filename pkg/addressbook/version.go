// Package addressbook holds release metadata for the address book module.
package addressbook

// Version is the current release, set at build time with
// -ldflags "-X github.com/mesh-intelligence/addressbook/pkg/addressbook.Version=...".
var Version = "0.3.0"

// ModulePath is the Go module path of this repository.
const ModulePath = "github.com/mesh-intelligence/addressbook"
