// Command addressbook manages per-user contacts in a local SQLite file.
package main

import "github.com/mesh-intelligence/addressbook/internal/cli"

func main() {
	cli.Execute()
}
