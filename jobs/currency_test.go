package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRateFeed(t *testing.T) {

	body := []byte(`{"base":"USD","rates":{"EUR":0.85,"GBP":0.73}}`)

	rates, err := parseRateFeed(body)
	require.NoError(t, err)
	assert.Equal(t, 0.85, rates["EUR"])
	assert.Equal(t, 0.73, rates["GBP"])
}

func TestParseRateFeedErrors(t *testing.T) {

	_, err := parseRateFeed([]byte("not json"))
	assert.Error(t, err)

	// structurally valid but empty feeds are refused here already
	_, err = parseRateFeed([]byte(`{"base":"USD"}`))
	assert.Error(t, err)
}
