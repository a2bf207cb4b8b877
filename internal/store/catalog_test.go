package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "templates.db")
	c, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, path
}

func TestOpenSeedsDefaults(t *testing.T) {
	c, _ := openCatalog(t)

	all, err := c.List()
	require.NoError(t, err)
	require.Len(t, all, len(DefaultTemplates))
	assert.Equal(t, "Dining", all[0].Name, "ordered by name")

	g, err := c.Get("groceries")
	require.NoError(t, err)
	assert.Equal(t, []string{"Food & Beverages", "Household Items", "Personal Care", "Snacks"}, g.Subcategories)
	assert.True(t, g.Builtin)
}

func TestSuggest(t *testing.T) {
	c, _ := openCatalog(t)

	got, err := c.Suggest("TRANS")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Transportation", got[0].Name)

	got, err = c.Suggest("in")
	require.NoError(t, err)
	names := make([]string, len(got))
	for i, tpl := range got {
		names[i] = tpl.Name
	}
	assert.Equal(t, []string{"Dining", "Entertainment", "Shopping"}, names)

	got, err = c.Suggest("   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPutReplacesItems(t *testing.T) {
	c, _ := openCatalog(t)

	require.NoError(t, c.Put(Template{Name: "Pets", Subcategories: []string{"Food", "Vet"}}))
	require.NoError(t, c.Put(Template{Name: "pets", Subcategories: []string{"Toys"}}))

	p, err := c.Get("PETS")
	require.NoError(t, err)
	assert.Equal(t, "pets", p.Name)
	assert.Equal(t, []string{"Toys"}, p.Subcategories)
	assert.False(t, p.Builtin)

	assert.Error(t, c.Put(Template{Name: " "}))
	assert.Error(t, c.Put(Template{Name: "Empty"}))
}

func TestRemoveSurvivesReopen(t *testing.T) {
	c, path := openCatalog(t)

	require.NoError(t, c.Remove("Health"))
	require.ErrorIs(t, c.Remove("Health"), ErrNotFound)
	require.NoError(t, c.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	_, err = reopened.Get("Health")
	require.ErrorIs(t, err, ErrNotFound)

	all, err := reopened.List()
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultTemplates)-1)
}

func TestMatchAndLookup(t *testing.T) {
	assert.Len(t, Match(DefaultTemplates, "ent"), 1)
	assert.Nil(t, Match(DefaultTemplates, ""))

	tpl, ok := Lookup(DefaultTemplates, " dining ")
	require.True(t, ok)
	assert.Equal(t, "Dining", tpl.Name)

	_, ok = Lookup(DefaultTemplates, "Din")
	assert.False(t, ok)
}
