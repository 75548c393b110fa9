package search_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vaudoise/backoffice/search"
)

type contactModel struct{}

func TestEntity(t *testing.T) {
	require.Equal(t, "Contact", contact.Name())
	require.Equal(t, []search.Field{
		search.Int("id"),
		search.String("name"),
		search.String("email"),
		search.String("phone"),
		search.Time("createdAt"),
		search.Time("modifiedAt"),
		search.String("createdBy"),
		search.String("modifiedBy"),
	}, contact.Fields())

	f, ok := contact.Field("createdBy")
	require.True(t, ok)
	require.Equal(t, search.KindString, f.Kind)
	_, ok = contact.Field("missing")
	require.False(t, ok)

	require.Equal(t, []string{"name", "email", "phone"}, contact.SearchableFields())

	withUUID := contact.Extend("Tagged", search.UUID("uuid"), search.Enum("kind"))
	require.Equal(t, []string{"uuid", "name", "email", "phone"}, withUUID.SearchableFields())
	require.Len(t, contact.Fields(), 8)
}

func TestRegistry(t *testing.T) {
	search.Register[contactModel](contact)

	require.Same(t, contact, search.EntityFor[contactModel]())
	require.Same(t, contact, search.EntityFor[*contactModel]())
	require.Same(t, contact, search.EntityFor[[]*contactModel]())
	require.Nil(t, search.EntityFor[struct{ X int }]())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NotNil(t, search.EntityFor[contactModel]())
		}()
	}
	wg.Wait()
}
