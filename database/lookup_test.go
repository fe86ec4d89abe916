package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLookupText(t *testing.T) {

	lookups = []LookupType{
		{
			Name: "item type",
			Values: []LookupValue{
				{LookupValue: 1, TextEN: "Offer"},
				{LookupValue: 2, TextEN: "Wish"},
			},
		},
	}
	defer func() { lookups = nil }()

	assert.Equal(t, "Offer", GetLookupText("item type", 1))
	assert.Equal(t, "Wish", GetLookupText("item type", 2))

	// unknown code or type resolves to the empty string, never panics
	assert.Equal(t, "", GetLookupText("item type", 99))
	assert.Equal(t, "", GetLookupText("no such type", 1))
}
