package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "12 mg road", Key("  12  MG\tRoad "))
	assert.Equal(t, "", Key("   "))
}

func TestSuggestionCache_GetSet(t *testing.T) {
	sc := NewSuggestionCache()

	_, ok := sc.Get("bandra")
	assert.False(t, ok)

	sc.Set("Bandra ", []string{"Bandra West, Mumbai", "Bandra East, Mumbai"})

	page, ok := sc.Get("bandra")
	assert.True(t, ok)
	assert.Equal(t, []string{"Bandra West, Mumbai", "Bandra East, Mumbai"}, page)
	assert.Equal(t, 1, sc.Len())
}

func TestSuggestionCache_EmptyPageIsCached(t *testing.T) {
	sc := NewSuggestionCache()
	sc.Set("zzzz", []string{})

	page, ok := sc.Get("zzzz")
	assert.True(t, ok)
	assert.Empty(t, page)
}
