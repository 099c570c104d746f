package subcommittees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogOrder(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, []Subcommittee{
		{ID: "transport", Name: "Transport"},
		{ID: "revenue", Name: "Revenue"},
		{ID: "travel", Name: "Travel"},
	}, c.All())
	assert.Equal(t, 0, c.Rank("transport"))
	assert.Equal(t, 2, c.Rank("travel"))
	assert.Equal(t, 3, c.Rank("unknown"))
}

func TestCatalogCustomOrder(t *testing.T) {
	c, err := NewCatalog([]string{"travel"})
	require.NoError(t, err)
	ids := []string{}
	for _, sc := range c.All() {
		ids = append(ids, sc.ID)
	}
	assert.Equal(t, []string{"travel", "transport", "revenue"}, ids)

	_, err = NewCatalog([]string{"Finance"})
	assert.Error(t, err)
}

func TestCatalogLookup(t *testing.T) {
	c := DefaultCatalog()
	for _, in := range []string{"Travel", "travel", " TRAVEL "} {
		sc, ok := c.Lookup(in)
		require.True(t, ok, in)
		assert.Equal(t, "travel", sc.ID)
	}
	_, ok := c.Lookup("Finance")
	assert.False(t, ok)
}
