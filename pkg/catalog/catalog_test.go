package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/stockcheck/pkg/catalog"
	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_OrderIsGroupedAndStable(t *testing.T) {
	c, err := catalog.New(catalog.Definition{
		Quantities: []catalog.Threshold{{Name: "Orange", Min: 2}, {Name: "Lime", Min: 1}},
		YesNo:      []string{"Soap", "Sponges"},
		Packs:      []string{"Napkins"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Orange", "Lime", "Soap", "Sponges", "Napkins"}, c.Names())
	assert.Equal(t, 5, c.Len())

	order := c.Order()
	assert.Equal(t, domain.KindQuantity, order[0].Kind)
	assert.Equal(t, 2.0, order[0].Min)
	assert.Equal(t, domain.KindYesNo, order[2].Kind)
	assert.Equal(t, domain.KindPack, order[4].Kind)

	// Order hands out a copy.
	order[0].Name = "mutated"
	assert.Equal(t, "Orange", c.Order()[0].Name)
}

func TestNew_RejectsDuplicatesAcrossGroups(t *testing.T) {
	_, err := catalog.New(catalog.Definition{
		Quantities: []catalog.Threshold{{Name: "Soap", Min: 1}},
		YesNo:      []string{"Soap"},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateItem)

	_, err = catalog.New(catalog.Definition{Packs: []string{""}})
	assert.Error(t, err)
}

func TestLookupAndAt(t *testing.T) {
	c := catalog.MustNew(catalog.Definition{
		Quantities: []catalog.Threshold{{Name: "Orange", Min: 2}},
		YesNo:      []string{"Soap"},
	})

	e, err := c.Lookup("Soap")
	require.NoError(t, err)
	assert.Equal(t, domain.KindYesNo, e.Kind)

	_, err = c.Lookup("Missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	e, ok := c.At(0)
	assert.True(t, ok)
	assert.Equal(t, "Orange", e.Name)

	_, ok = c.At(2)
	assert.False(t, ok)
	_, ok = c.At(-1)
	assert.False(t, ok)
}

func TestEmptyCatalog(t *testing.T) {
	c, err := catalog.New(catalog.Definition{})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Order())

	_, ok := c.At(0)
	assert.False(t, ok)
}

func TestParse_PreservesMappingOrder(t *testing.T) {
	data := []byte(`
quantities:
  Zucchini: 3
  Apple: 0.5
  Milk: 30
yes_no:
  - Soap
packs:
  - Napkins
`)
	c, err := catalog.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zucchini", "Apple", "Milk", "Soap", "Napkins"}, c.Names())

	e, err := c.Lookup("Apple")
	require.NoError(t, err)
	assert.Equal(t, 0.5, e.Min)
}

func TestParse_Errors(t *testing.T) {
	t.Run("Bad Threshold", func(t *testing.T) {
		_, err := catalog.Parse([]byte("quantities:\n  Apple: lots\n"))
		assert.ErrorContains(t, err, "invalid minimum")
	})

	t.Run("Quantities Not A Mapping", func(t *testing.T) {
		_, err := catalog.Parse([]byte("quantities: [Apple]\n"))
		assert.ErrorContains(t, err, "expected a mapping")
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := catalog.Parse([]byte("yes_no: [Soap]\npacks: [Soap]\n"))
		assert.ErrorIs(t, err, domain.ErrDuplicateItem)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quantities:\n  Orange: 2\nyes_no: [Soap]\n"), 0o644))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Orange", "Soap"}, c.Names())

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	c := catalog.Default()
	assert.Equal(t, 43, c.Len())

	first, _ := c.At(0)
	assert.Equal(t, "Апельсин", first.Name)

	milk, err := c.Lookup("Молоко")
	require.NoError(t, err)
	assert.Equal(t, 30.0, milk.Min)

	last, _ := c.At(c.Len() - 1)
	assert.Equal(t, "Вода Байкал", last.Name)
	assert.Equal(t, domain.KindPack, last.Kind)
}
