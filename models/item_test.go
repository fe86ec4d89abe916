package models

import (
	"market-api/lookups"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func postableSection() *Section {
	return &Section{
		ID:          primitive.NewObjectID(),
		Title:       "Bikes",
		AllowOffers: true,
		AllowWishes: true,
	}
}

func TestItemValidateOffer(t *testing.T) {

	m := &ItemModel{}
	section := postableSection()

	item, err := m.Validate(Item{
		TypeCode: lookups.ItemTypeOffer,
		Title:    "  Road bike  ",
		Price:    100,
		Currency: "EUR",
	}, section)

	require.NoError(t, err)
	assert.Equal(t, "Road bike", item.Title)
	assert.Equal(t, int64(100), item.Price)

	// offers need a price in priced sections
	_, err = m.Validate(Item{
		TypeCode: lookups.ItemTypeOffer,
		Title:    "Road bike",
	}, section)
	assert.Equal(t, ErrPriceMissing, err)
}

func TestItemValidateNoPriceSection(t *testing.T) {

	m := &ItemModel{}
	section := postableSection()
	section.NoPrice = true

	// a price slips through the client? stripped, not rejected
	item, err := m.Validate(Item{
		TypeCode: lookups.ItemTypeOffer,
		Title:    "Free compost",
		Price:    50,
		Currency: "EUR",
	}, section)

	require.NoError(t, err)
	assert.Zero(t, item.Price)
	assert.Empty(t, item.Currency)
}

func TestItemValidateWish(t *testing.T) {

	m := &ItemModel{}
	section := postableSection()

	// wishes never carry a price, whatever the client sent
	item, err := m.Validate(Item{
		TypeCode: lookups.ItemTypeWish,
		Title:    "Looking for a tandem",
		Price:    999,
	}, section)

	require.NoError(t, err)
	assert.Zero(t, item.Price)
}

func TestItemValidateSectionRules(t *testing.T) {

	m := &ItemModel{}

	category := postableSection()
	category.AllowOffers = false

	_, err := m.Validate(Item{
		TypeCode: lookups.ItemTypeOffer,
		Title:    "Road bike",
		Price:    100,
	}, category)
	assert.Equal(t, ErrSectionNotPostable, err)

	_, err = m.Validate(Item{TypeCode: lookups.ItemTypeOffer}, postableSection())
	assert.Equal(t, ErrItemTitleMissing, err)
}

func TestItemArchived(t *testing.T) {

	now := time.Now()

	item := Item{
		ID:     primitive.NewObjectID(),
		Status: Status{Code: StatusOpen},
	}

	archived := item.Archived(now)
	assert.Equal(t, Status{Code: StatusClosed}, archived.Status)
	assert.Equal(t, now, archived.ClosedTS)

	// the original is untouched
	assert.Equal(t, Status{Code: StatusOpen}, item.Status)

	// an explicit close keeps its own timestamp
	earlier := now.Add(-time.Hour)
	item.ClosedTS = earlier
	assert.Equal(t, earlier, item.Archived(now).ClosedTS)

	// a shadow-banned item stays concealed in the archive
	item.Status = Status{Code: StatusHellbanned, Shadow: StatusOpen}
	assert.Equal(t, Status{Code: StatusHellbanned, Shadow: StatusClosed}, item.Archived(now).Status)
}
