package types

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
)

// Validation patterns for contact fields.
var (
	// phonePattern accepts an optional country code, a 3-digit area code, a
	// 7-digit local number and an optional extension.
	phonePattern = regexp.MustCompile(`^\s*(?:\+?(\d{1,3}))?[-. (]*(\d{3})[-. )]*(\d{3})[-. ]*(\d{4})(?: *x(\d+))?\s*$`)

	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

	zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// phoneLength is the required length of a raw phone value.
const phoneLength = 10

// Home is a postal address. Either every field is set or none is.
type Home struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// IsZero reports whether no address field is set.
func (h Home) IsZero() bool {
	return h == Home{}
}

// String renders the address on one line, or "" when empty.
func (h Home) String() string {
	if h.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s, %s, %s %s", h.Street, h.City, h.State, h.Zip)
}

// Contact is one address book entry. The zero value is not a valid contact;
// build one with NewContact. Setters validate before assigning, so a Contact
// never holds a rejected value.
type Contact struct {
	firstName string
	lastName  string
	phone     string
	email     string
	home      Home
}

// NewContact validates every field and returns the contact. When several
// fields are invalid the returned error joins all of them, so errors.Is
// reports each failing field.
func NewContact(firstName, lastName, phone, email string, home Home) (Contact, error) {
	var c Contact
	err := errors.Join(
		c.SetName(firstName, lastName),
		c.SetPhone(phone),
		c.SetEmail(email),
		c.SetHome(home.Street, home.City, home.State, home.Zip),
	)
	if err != nil {
		return Contact{}, err
	}
	return c, nil
}

// MustContact is like NewContact but panics on invalid input.
// Intended for tests and fixed fixtures.
func MustContact(firstName, lastName, phone, email string, home Home) Contact {
	c, err := NewContact(firstName, lastName, phone, email, home)
	if err != nil {
		panic(err)
	}
	return c
}

// FirstName returns the first name.
func (c Contact) FirstName() string { return c.firstName }

// LastName returns the last name.
func (c Contact) LastName() string { return c.lastName }

// Name returns the composed "<first> <last>" name used for comparisons.
func (c Contact) Name() string { return c.firstName + " " + c.lastName }

// Phone returns the phone number exactly as entered, or "".
func (c Contact) Phone() string { return c.phone }

// Email returns the e-mail address, or "".
func (c Contact) Email() string { return c.email }

// Home returns the postal address.
func (c Contact) Home() Home { return c.home }

// SetName sets the first and last name. At least one must be non-empty.
func (c *Contact) SetName(firstName, lastName string) error {
	if firstName == "" && lastName == "" {
		return ErrInvalidName
	}
	c.firstName = firstName
	c.lastName = lastName
	return nil
}

// SetPhone sets the phone number. An empty value clears it. Otherwise the
// value must match the numbering-plan pattern and be exactly ten characters.
func (c *Contact) SetPhone(phone string) error {
	if phone != "" && (len(phone) != phoneLength || !phonePattern.MatchString(phone)) {
		return fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	c.phone = phone
	return nil
}

// SetEmail sets the e-mail address. An empty value clears it.
func (c *Contact) SetEmail(email string) error {
	if email != "" && !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	c.email = email
	return nil
}

// SetHome sets the postal address. All four parts must be empty, or all four
// present with a 5-digit (optionally ZIP+4) zip code.
func (c *Contact) SetHome(street, city, state, zip string) error {
	h := Home{Street: street, City: city, State: state, Zip: zip}
	if !h.IsZero() {
		if street == "" || city == "" || state == "" || zip == "" {
			return fmt.Errorf("%w: street, city, state and zip are all required", ErrInvalidAddress)
		}
		if !zipPattern.MatchString(zip) {
			return fmt.Errorf("%w: zip %q", ErrInvalidAddress, zip)
		}
	}
	c.home = h
	return nil
}

// SameName reports whether c and other share first and last name, which is
// how the store matches rows.
func (c Contact) SameName(other Contact) bool {
	return c.firstName == other.firstName && c.lastName == other.lastName
}

// String renders the contact in the multi-line display form.
func (c Contact) String() string {
	return fmt.Sprintf("Name: %s\nPhone Number: %s\nE-mail Address: %s\nHome Address: %s",
		c.Name(), c.phone, c.email, c.home)
}

// Compare orders contacts by name, phone, email, then address parts.
// It returns -1, 0 or +1.
func Compare(a, b Contact) int {
	return cmp.Or(
		cmp.Compare(a.Name(), b.Name()),
		cmp.Compare(a.phone, b.phone),
		cmp.Compare(a.email, b.email),
		cmp.Compare(a.home.Street, b.home.Street),
		cmp.Compare(a.home.City, b.home.City),
		cmp.Compare(a.home.State, b.home.State),
		cmp.Compare(a.home.Zip, b.home.Zip),
	)
}

// SortContacts sorts contacts in place using Compare.
func SortContacts(contacts []Contact) {
	slices.SortFunc(contacts, Compare)
}

// contactJSON is the wire form of a Contact.
type contactJSON struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Home      *Home  `json:"home,omitempty"`
}

// MarshalJSON encodes the contact with snake_case keys.
func (c Contact) MarshalJSON() ([]byte, error) {
	out := contactJSON{
		FirstName: c.firstName,
		LastName:  c.lastName,
		Phone:     c.phone,
		Email:     c.email,
	}
	if !c.home.IsZero() {
		h := c.home
		out.Home = &h
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates a contact. On error c is unchanged.
func (c *Contact) UnmarshalJSON(data []byte) error {
	var in contactJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var home Home
	if in.Home != nil {
		home = *in.Home
	}
	parsed, err := NewContact(in.FirstName, in.LastName, in.Phone, in.Email, home)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
