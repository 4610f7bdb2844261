package catalog_test

import (
	"testing"

	"github.com/omnibuslines/booking/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_ExactMatch(t *testing.T) {
	c := catalog.New()

	routes := c.Search("Paris", "Lyon")
	require.Len(t, routes, 1)
	assert.Equal(t, "rt_001", routes[0].ID)
	assert.Equal(t, "OM-101", routes[0].BusNumber)
}

func TestSearch_NoServiceYieldsEmpty(t *testing.T) {
	c := catalog.New()

	assert.Empty(t, c.Search("Paris", "Marseille"))
	assert.Empty(t, c.Search("Lyon", "Paris"), "search is directional")
	assert.Empty(t, c.Search("paris", "lyon"), "matching is exact, not case-folded")
	assert.Empty(t, c.Search("", ""))
}

func TestGet(t *testing.T) {
	c := catalog.New()

	route, ok := c.Get("rt_003")
	require.True(t, ok)
	assert.Equal(t, "Lyon", route.Origin)
	assert.Equal(t, "Marseille", route.Destination)
	assert.Equal(t, 40, route.TotalSeats)

	_, ok = c.Get("rt_999")
	assert.False(t, ok)
}

func TestCitiesAndRoutesAreCopies(t *testing.T) {
	c := catalog.New()

	cities := c.Cities()
	require.NotEmpty(t, cities)
	cities[0] = "Atlantis"
	assert.Equal(t, "Paris", c.Cities()[0])

	routes := c.Routes()
	require.Len(t, routes, 4)
	routes[0].Price = 0
	fresh, _ := c.Get("rt_001")
	assert.Equal(t, 45.0, fresh.Price)
}
