package realty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/dealdesk-api/internal/canon"
)

func TestBuildQueryStateResolution(t *testing.T) {
	for _, state := range []string{"California", "ca", "CA", "  CA  "} {
		q, err := BuildQuery(SearchInput{City: "San Diego", State: state})
		require.NoError(t, err, "state %q", state)
		assert.Equal(t, "CA", q.StateCode, "state %q", state)
	}
}

func TestBuildQueryUnknownState(t *testing.T) {
	_, err := BuildQuery(SearchInput{City: "Nowhere", State: "Atlantis"})
	require.Error(t, err)
	assert.ErrorIs(t, err, canon.ErrUnknownState)
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestBuildQueryRequiresCityAndState(t *testing.T) {
	_, err := BuildQuery(SearchInput{State: "TX"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = BuildQuery(SearchInput{City: "Austin"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildQueryDefaults(t *testing.T) {
	q, err := BuildQuery(SearchInput{City: "Austin", State: "TX"})
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, q.Limit)
	assert.Equal(t, []string{"for_sale"}, q.Status)
	assert.Equal(t, "desc", q.Sort.Direction)
	assert.Equal(t, "list_date", q.Sort.Field)
	assert.Nil(t, q.Filters.ListPriceMin)
	assert.Nil(t, q.Filters.ListPriceMax)
	assert.Empty(t, q.Filters.PropertyType)
}

func TestBuildQueryPriceRange(t *testing.T) {
	q, err := BuildQuery(SearchInput{City: "Austin", State: "TX", PriceMin: 200000, PriceMax: 750000})
	require.NoError(t, err)
	require.NotNil(t, q.Filters.ListPriceMin)
	require.NotNil(t, q.Filters.ListPriceMax)
	assert.Equal(t, 200000, *q.Filters.ListPriceMin)
	assert.Equal(t, 750000, *q.Filters.ListPriceMax)
}

func TestPropertyTypeMapping(t *testing.T) {
	v, ok := PropertyTypeParam("townhomes")
	require.True(t, ok)
	assert.Equal(t, "townhome", v)

	v, ok = PropertyTypeParam("single_family")
	require.True(t, ok)
	assert.Equal(t, "single_family", v)

	_, ok = PropertyTypeParam("castle")
	assert.False(t, ok)
}

func TestBuildQueryOmitsUnknownPropertyType(t *testing.T) {
	q, err := BuildQuery(SearchInput{City: "Austin", State: "TX", PropertyType: "castle"})
	require.NoError(t, err)
	assert.Empty(t, q.Filters.PropertyType)
}

func TestMatchesCount(t *testing.T) {
	assert.True(t, matchesCount("3", "3"))
	assert.False(t, matchesCount("2", "3"))
	assert.True(t, matchesCount("5", "5+"))
	assert.True(t, matchesCount("7", "5+"))
	assert.False(t, matchesCount("4", "5+"))
	assert.True(t, matchesCount("2.5", "2.5"))
	assert.False(t, matchesCount("N/A", "3"))
}
