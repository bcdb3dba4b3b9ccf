package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSortedKeys(t *testing.T) {
	// GIVEN
	input := map[string]int{
		"Quiet":       65,
		"Gaming":      40,
		"Performance": 35,
		"Balanced":    50,
	}

	// WHEN
	result := SortedKeys(input)

	// THEN
	assert.Equal(t, []string{"Balanced", "Gaming", "Performance", "Quiet"}, result)
}
