package models

import (
	"market-api/authorization"
	"market-api/lookups"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func memberCreds() *authorization.Credentials {
	return &authorization.Credentials{
		UserID:   primitive.NewObjectID(),
		RoleCode: lookups.UserRoleMember,
	}
}

func moderatorCreds() *authorization.Credentials {
	return &authorization.Credentials{
		UserID:   primitive.NewObjectID(),
		RoleCode: lookups.UserRoleModerator,
	}
}

func testItem() Item {
	return Item{
		ID:         primitive.NewObjectID(),
		HID:        42,
		TypeCode:   lookups.ItemTypeOffer,
		SectionID:  primitive.NewObjectID(),
		UserID:     primitive.NewObjectID(),
		Title:      "Steel frame road bike",
		Price:      250,
		Currency:   "EUR",
		Status:     Status{Code: StatusOpen},
		LastEditTS: time.Now(),
		EditCount:  3,
	}
}

func TestSanitizeItemHellban(t *testing.T) {

	item := testItem()
	item.Status = Status{Code: StatusHellbanned, Shadow: StatusOpen}

	// regular viewers get the shadow state, staff the real one
	view := SanitizeItem(&item, memberCreds(), nil)
	assert.Equal(t, StatusOpen, view.Status)

	view = SanitizeItem(&item, moderatorCreds(), nil)
	assert.Equal(t, StatusHellbanned, view.Status)
}

func TestSanitizeItemHistoryStaffOnly(t *testing.T) {

	item := testItem()

	view := SanitizeItem(&item, memberCreds(), nil)
	assert.Nil(t, view.EditCount)
	assert.Nil(t, view.LastEditTS)

	view = SanitizeItem(&item, moderatorCreds(), nil)
	require.NotNil(t, view.EditCount)
	assert.Equal(t, int32(3), *view.EditCount)
	require.NotNil(t, view.LastEditTS)
}

func TestSanitizeItemNoPriceSection(t *testing.T) {

	item := testItem()
	noPrice := map[primitive.ObjectID]bool{item.SectionID: true}

	view := SanitizeItem(&item, memberCreds(), noPrice)
	assert.Nil(t, view.Price)
	assert.Empty(t, view.Currency)

	// same item with a priced section keeps its price
	view = SanitizeItem(&item, memberCreds(), nil)
	require.NotNil(t, view.Price)
	assert.Equal(t, int64(250), *view.Price)
	assert.Equal(t, "EUR", view.Currency)

	// a zero price never produces a price field
	item.Price = 0
	view = SanitizeItem(&item, memberCreds(), nil)
	assert.Nil(t, view.Price)
}

func TestSanitizeItemsKeepsOrder(t *testing.T) {

	first := testItem()
	second := testItem()

	views := SanitizeItems([]Item{first, second}, memberCreds(), nil)

	require.Len(t, views, 2)
	assert.Equal(t, first.ID, views[0].ID)
	assert.Equal(t, second.ID, views[1].ID)
}

func TestSanitizeSectionCounters(t *testing.T) {

	section := Section{
		ID:      primitive.NewObjectID(),
		Title:   "Bikes",
		Cache:   SectionCache{OfferCount: 5, WishCount: 2},
		CacheHB: SectionCache{OfferCount: 7, WishCount: 2},
	}

	view := SanitizeSection(&section, memberCreds())
	assert.Equal(t, int64(5), view.Cache.OfferCount)

	view = SanitizeSection(&section, moderatorCreds())
	assert.Equal(t, int64(7), view.Cache.OfferCount)
}

func TestSanitizeSubscriptions(t *testing.T) {

	sectionID := primitive.NewObjectID()

	views := SanitizeSubscriptions([]Subscription{
		{
			ID:        primitive.NewObjectID(),
			UserID:    primitive.NewObjectID(),
			SectionID: sectionID,
			TypeCode:  lookups.ItemTypeOffer,
			LevelCode: lookups.SubscriptionWatching,
		},
	})

	require.Len(t, views, 1)
	assert.Equal(t, sectionID, views[0].SectionID)
	assert.Equal(t, lookups.ItemTypeOffer, views[0].TypeCode)
	assert.Equal(t, lookups.SubscriptionWatching, views[0].LevelCode)
	// without a loaded code map the texts degrade to empty strings
	assert.Equal(t, "", views[0].TypeText)
	assert.Equal(t, "", views[0].LevelText)
}

func TestSanitizeCounters(t *testing.T) {

	counters := []UserCounter{
		{Kind: CounterOffers, Value: 3, ValueHB: 4},
		{Kind: CounterWishes, Value: 1, ValueHB: 1},
	}

	sanitized := SanitizeCounters(counters, memberCreds())
	assert.Equal(t, int64(3), sanitized[0].Value)

	sanitized = SanitizeCounters(counters, moderatorCreds())
	assert.Equal(t, int64(4), sanitized[0].Value)
	// the input must stay untouched
	assert.Equal(t, int64(3), counters[0].Value)
}
