package zookeeper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortBySequenceIgnoresGuidPrefix(t *testing.T) {
	children := []string{
		"_c_ffff-lock-0000000003",
		"_c_0000-lock-0000000010",
		"_c_aaaa-lock-0000000001",
	}
	sortBySequence(children)
	assert.Equal(t, []string{
		"_c_aaaa-lock-0000000001",
		"_c_ffff-lock-0000000003",
		"_c_0000-lock-0000000010",
	}, children)
}

func TestPredecessor(t *testing.T) {
	sorted := []string{"a-0000000001", "b-0000000002", "c-0000000003"}

	prev, first, found := predecessor(sorted, "a-0000000001")
	assert.True(t, found)
	assert.True(t, first)
	assert.Empty(t, prev)

	prev, first, found = predecessor(sorted, "c-0000000003")
	assert.True(t, found)
	assert.False(t, first)
	assert.Equal(t, "b-0000000002", prev)

	_, _, found = predecessor(sorted, "z-0000000009")
	assert.False(t, found)
}
