package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryContinue(t *testing.T) {

	var r Registry
	r.Initialize()

	// first sight of a client is always a new view
	assert.True(t, r.Continue("10.0.0.1", "item-a"))

	// same client, same item - a refresh
	assert.False(t, r.Continue("10.0.0.1", "item-a"))

	// moving on to another item counts again
	assert.True(t, r.Continue("10.0.0.1", "item-b"))

	// a different client is independent
	assert.True(t, r.Continue("10.0.0.2", "item-a"))

	assert.Equal(t, 2, r.Count())
}

func TestRegistryDumpLimit(t *testing.T) {

	var r Registry
	r.Initialize()

	r.Continue("10.0.0.1", "item-a")
	r.Continue("10.0.0.2", "item-a")
	r.Continue("10.0.0.3", "item-a")

	// never more than max entries
	assert.Len(t, r.Dump(2), 2)
	assert.Len(t, r.Dump(50), 3)
	assert.Empty(t, r.Dump(0))
}
