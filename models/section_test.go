package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionValidate(t *testing.T) {

	m := &SectionModel{}

	section, err := m.Validate(Section{Title: "  Bikes ", AllowOffers: true})
	require.NoError(t, err)
	assert.Equal(t, "Bikes", section.Title)
	assert.True(t, section.AllowOffers)

	_, err = m.Validate(Section{Title: "   "})
	assert.Equal(t, ErrSectionTitleMissing, err)
}

func TestSectionValidateCategory(t *testing.T) {

	m := &SectionModel{}

	// a pure category never takes items, whatever the client claims
	section, err := m.Validate(Section{
		Title:       "Marketplace",
		IsCategory:  true,
		AllowOffers: true,
		AllowWishes: true,
	})

	require.NoError(t, err)
	assert.False(t, section.AllowOffers)
	assert.False(t, section.AllowWishes)
}
