package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOpenStatus(t *testing.T) {
	assert.Equal(t, Status{Code: StatusOpen}, NewOpenStatus(false))
	assert.Equal(t, Status{Code: StatusHellbanned, Shadow: StatusOpen}, NewOpenStatus(true))
}

func TestStatusVisibleTo(t *testing.T) {
	banned := Status{Code: StatusHellbanned, Shadow: StatusOpen}

	// the shadow state replaces the real one for regular viewers
	assert.Equal(t, StatusOpen, banned.VisibleTo(false))
	assert.Equal(t, StatusHellbanned, banned.VisibleTo(true))

	// unbanned items look the same to everybody
	open := Status{Code: StatusOpen}
	assert.Equal(t, StatusOpen, open.VisibleTo(false))
	assert.Equal(t, StatusOpen, open.VisibleTo(true))
}

// every possible pair must project to exactly one code for either viewer
func TestStatusVisibleToIsTotal(t *testing.T) {
	codes := []StatusCode{StatusOpen, StatusClosed, StatusDeleted, StatusDeletedHard, StatusHellbanned}

	for _, code := range codes {
		for _, shadow := range append(codes, 0) {
			s := Status{Code: code, Shadow: shadow}
			assert.NotPanics(t, func() {
				_ = s.VisibleTo(false)
				_ = s.VisibleTo(true)
			})
		}
	}
}

func TestStatusIsOpen(t *testing.T) {
	assert.True(t, Status{Code: StatusOpen}.IsOpen())
	assert.True(t, Status{Code: StatusHellbanned, Shadow: StatusOpen}.IsOpen())

	assert.False(t, Status{Code: StatusClosed}.IsOpen())
	assert.False(t, Status{Code: StatusHellbanned, Shadow: StatusClosed}.IsOpen())
}

func TestStatusClosed(t *testing.T) {
	// closing keeps a shadow-ban in place
	closed := Status{Code: StatusHellbanned, Shadow: StatusOpen}.Closed()
	assert.Equal(t, Status{Code: StatusHellbanned, Shadow: StatusClosed}, closed)

	assert.Equal(t, Status{Code: StatusClosed}, Status{Code: StatusOpen}.Closed())

	// idempotent
	assert.Equal(t, closed, closed.Closed())
}
