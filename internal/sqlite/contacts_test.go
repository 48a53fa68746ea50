package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/addressbook/pkg/types"
)

var (
	tampa = types.Home{Street: "4202 E Fowler Ave", City: "Tampa", State: "FL", Zip: "33620"}

	spenser = types.MustContact("Spenser", "Mason", "8139570260", "mason11@mail.usf.edu", tampa)
	ada     = types.MustContact("Ada", "Lovelace", "2025550143", "ada@example.com", types.Home{})
	grace   = types.MustContact("Grace", "Hopper", "", "", types.Home{})
)

func seedContacts(t *testing.T, b *Backend, cs ...types.Contact) {
	t.Helper()
	for _, c := range cs {
		added, err := b.AddContact(context.Background(), c)
		require.NoError(t, err)
		require.True(t, added, c.Name())
	}
}

func TestAddContact_RoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newMemoryBackend(t)
	connectRegistered(t, b, "alice")
	seedContacts(t, b, spenser)

	got, err := b.Search(ctx, spenser.Name())
	require.NoError(t, err)
	assert.Equal(t, []types.Contact{spenser}, got)
}

func TestAddContact_IdempotentByName(t *testing.T) {
	ctx := context.Background()
	b := newMemoryBackend(t)
	connectRegistered(t, b, "alice")
	seedContacts(t, b, ada)

	other := types.MustContact("Ada", "Lovelace", "", "other@example.com", types.Home{})
	added, err := b.AddContact(ctx, other)
	require.NoError(t, err)
	assert.False(t, added)

	got, err := b.Contacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Contact{ada}, got, "first insert wins")
}

func TestContacts_SortedAndScopedToUser(t *testing.T) {
	ctx := context.Background()
	b := newFileBackend(t, t.TempDir())
	connectRegistered(t, b, "alice")
	seedContacts(t, b, spenser, grace, ada)

	got, err := b.Contacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Contact{ada, grace, spenser}, got)

	require.NoError(t, b.RegisterUser(ctx, "bob", "pw"))
	require.NoError(t, b.CloseOut())

	require.NoError(t, b.Connect(ctx, "bob"))
	got, err = b.Contacts(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	b := newMemoryBackend(t)
	connectRegistered(t, b, "alice")
	seedContacts(t, b, spenser, ada, grace)

	tests := []struct {
		name string
		term string
		want []types.Contact
	}{
		{name: "first name", term: "Grace", want: []types.Contact{grace}},
		{name: "composed name", term: "Ada Lovelace", want: []types.Contact{ada}},
		{name: "phone fragment", term: "9570", want: []types.Contact{spenser}},
		{name: "email domain", term: "example.com", want: []types.Contact{ada}},
		{name: "city", term: "Tampa", want: []types.Contact{spenser}},
		{name: "zip", term: "33620", want: []types.Contact{spenser}},
		{name: "case insensitive ascii", term: "hopper", want: []types.Contact{grace}},
		{name: "empty matches all", term: "", want: []types.Contact{ada, grace, spenser}},
		{name: "wildcard passes through", term: "G_ace", want: []types.Contact{grace}},
		{name: "no match", term: "zzz", want: []types.Contact{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Search(ctx, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEditContact(t *testing.T) {
	ctx := context.Background()
	b := newMemoryBackend(t)
	connectRegistered(t, b, "alice")
	seedContacts(t, b, ada)

	updated := types.MustContact("Augusta", "King", "2025550199", "", tampa)
	n, err := b.EditContact(ctx, ada, updated)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := b.Contacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Contact{updated}, got)

	n, err = b.EditContact(ctx, ada, updated)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "old name no longer exists")
}

func TestEditContact_RenameOntoExistingName(t *testing.T) {
	ctx := context.Background()
	b := newMemoryBackend(t)
	connectRegistered(t, b, "alice")
	seedContacts(t, b, ada, grace)

	renamed := types.MustContact("Ada", "Lovelace", "", "", types.Home{})
	n, err := b.EditContact(ctx, grace, renamed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Both rows now share a name, so a delete removes both.
	n, err = b.DeleteContact(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestDeleteContact(t *testing.T) {
	ctx := context.Background()
	b := newMemoryBackend(t)
	connectRegistered(t, b, "alice")
	seedContacts(t, b, ada, grace)

	n, err := b.DeleteContact(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := b.Search(ctx, ada.Name())
	require.NoError(t, err)
	assert.Empty(t, got)

	n, err = b.DeleteContact(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	got, err = b.Contacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Contact{grace}, got)
}
