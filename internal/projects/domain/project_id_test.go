package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectID(t *testing.T) {
	seen := map[string]bool{}
	for range 50 {
		id, err := NewProjectID()
		require.NoError(t, err)
		assert.True(t, IsProjectID(id), id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestIsProjectID(t *testing.T) {
	assert.True(t, IsProjectID("onb-00042-0007"))
	assert.False(t, IsProjectID("onb-1"))
	assert.False(t, IsProjectID("missing"))
	assert.False(t, IsProjectID("onb-12345-6789 "))
}
