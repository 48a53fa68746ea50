// Package types defines the Contact and UserAccount entities, the
// ContactStore interface, store configuration, and the standard error values
// shared by every address book backend and front end.
package types
