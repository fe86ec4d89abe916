package lookups

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupType(t *testing.T) {

	assert.Equal(t, "user role", LookupType(LTuserRole))
	assert.Equal(t, "item type", LookupType(LTitemType))
	assert.Equal(t, "item status", LookupType(LTitemStatus))
	assert.Equal(t, "subscription level", LookupType(LTsubscription))
	assert.Equal(t, "currency", LookupType(LTcurrency))

	assert.Equal(t, "", LookupType(99))
}
