package models

import (
	"market-api/authorization"
	"market-api/database"
	"market-api/lookups"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The sanitizers are the only path from a database document to a client
// response. They copy into explicit view structs - a field that is not
// listed here cannot leak, no matter what the document carries.

// ItemView is the client-facing projection of an Item
type ItemView struct {
	ID          primitive.ObjectID `json:"id"`
	HID         int64              `json:"hid"`
	TypeCode    int32              `json:"typeCode"`
	TypeText    string             `json:"typeText"`
	SectionID   primitive.ObjectID `json:"sectionID"`
	UserID      primitive.ObjectID `json:"userID"`
	UserName    string             `json:"userName"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Price       *int64             `json:"price,omitempty"`
	Currency    string             `json:"currency,omitempty"`
	Status      StatusCode         `json:"st"`
	StatusText  string             `json:"stText"`
	CreatedTS   time.Time          `json:"createdTS"`
	ClosedTS    *time.Time         `json:"closedTS,omitempty"`
	AutocloseTS *time.Time         `json:"autocloseTS,omitempty"`
	LastEditTS  *time.Time         `json:"lastEditTS,omitempty"`
	EditCount   *int32             `json:"editCount,omitempty"`
	Views       int64              `json:"views"`
	Bookmarks   int64              `json:"bookmarks"`
}

// SectionView is the client-facing projection of a Section
type SectionView struct {
	ID           primitive.ObjectID `json:"id"`
	HID          int64              `json:"hid"`
	Title        string             `json:"title"`
	Parent       primitive.ObjectID `json:"parent,omitempty"`
	IsCategory   bool               `json:"isCategory"`
	AllowOffers  bool               `json:"allowOffers"`
	AllowWishes  bool               `json:"allowWishes"`
	NoPrice      bool               `json:"noPrice"`
	DisplayOrder int32              `json:"displayOrder"`
	Cache        SectionCache       `json:"cache"`
}

// SanitizeItem projects one item for a viewer:
//   - a shadow-banned item shows its shadow status to anyone without the
//     hellban permission; the real status never leaves the model
//   - edit history is staff-only
//   - the price is dropped entirely in no-price sections
func SanitizeItem(item *Item, credentials *authorization.Credentials, noPriceSections map[primitive.ObjectID]bool) *ItemView {

	view := &ItemView{
		ID:          item.ID,
		HID:         item.HID,
		TypeCode:    item.TypeCode,
		SectionID:   item.SectionID,
		UserID:      item.UserID,
		UserName:    item.UserName,
		Title:       item.Title,
		Description: item.Description,
		Status:      item.Status.VisibleTo(credentials.CanSeeHellbanned()),
		CreatedTS:   item.CreatedTS(),
		Views:       item.Views,
		Bookmarks:   item.Bookmarks,
	}

	// resolve code texts for the client (no joins in MongoDB)
	view.TypeText = database.GetLookupText(lookups.LookupType(lookups.LTitemType), view.TypeCode)
	view.StatusText = database.GetLookupText(lookups.LookupType(lookups.LTitemStatus), int32(view.Status))

	if !item.ClosedTS.IsZero() {
		ts := item.ClosedTS
		view.ClosedTS = &ts
	}
	if !item.AutocloseTS.IsZero() {
		ts := item.AutocloseTS
		view.AutocloseTS = &ts
	}

	if credentials.CanSeeHistory() {
		count := item.EditCount
		view.EditCount = &count
		if !item.LastEditTS.IsZero() {
			ts := item.LastEditTS
			view.LastEditTS = &ts
		}
	}

	if !noPriceSections[item.SectionID] && item.Price > 0 {
		price := item.Price
		view.Price = &price
		view.Currency = item.Currency
	}

	return view
}

// SanitizeItems projects a whole result set, preserving order
func SanitizeItems(items []Item, credentials *authorization.Credentials, noPriceSections map[primitive.ObjectID]bool) []ItemView {

	views := make([]ItemView, 0, len(items))
	for i := range items {
		views = append(views, *SanitizeItem(&items[i], credentials, noPriceSections))
	}
	return views
}

// SanitizeSection projects a section; the hellban-inclusive counters are
// substituted for staff so their item counts match what they see in lists
func SanitizeSection(section *Section, credentials *authorization.Credentials) *SectionView {

	view := &SectionView{
		ID:           section.ID,
		HID:          section.HID,
		Title:        section.Title,
		Parent:       section.Parent,
		IsCategory:   section.IsCategory,
		AllowOffers:  section.AllowOffers,
		AllowWishes:  section.AllowWishes,
		NoPrice:      section.NoPrice,
		DisplayOrder: section.DisplayOrder,
		Cache:        section.Cache,
	}

	if credentials.CanSeeHellbanned() {
		view.Cache = section.CacheHB
	}

	return view
}

// SubscriptionView is the client-facing projection of a Subscription
type SubscriptionView struct {
	SectionID primitive.ObjectID `json:"sectionID"`
	TypeCode  int32              `json:"typeCode"`
	TypeText  string             `json:"typeText"`
	LevelCode int32              `json:"levelCode"`
	LevelText string             `json:"levelText"`
}

// SanitizeSubscriptions projects a user's subscriptions with resolved
// code texts (owners only see their own, so nothing is concealed here)
func SanitizeSubscriptions(subscriptions []Subscription) []SubscriptionView {

	views := make([]SubscriptionView, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		views = append(views, SubscriptionView{
			SectionID: subscription.SectionID,
			TypeCode:  subscription.TypeCode,
			TypeText:  database.GetLookupText(lookups.LookupType(lookups.LTitemType), subscription.TypeCode),
			LevelCode: subscription.LevelCode,
			LevelText: database.GetLookupText(lookups.LookupType(lookups.LTsubscription), subscription.LevelCode),
		})
	}
	return views
}

// SanitizeCounters substitutes the hellban-inclusive totals for staff;
// the hb values themselves never serialize (see the UserCounter json tags)
func SanitizeCounters(counters []UserCounter, credentials *authorization.Credentials) []UserCounter {

	if !credentials.CanSeeHellbanned() {
		return counters
	}

	views := make([]UserCounter, 0, len(counters))
	for _, counter := range counters {
		counter.Value = counter.ValueHB
		views = append(views, counter)
	}
	return views
}

// SanitizeSections projects a list of sections
func SanitizeSections(sections []Section, credentials *authorization.Credentials) []SectionView {

	views := make([]SectionView, 0, len(sections))
	for i := range sections {
		views = append(views, *SanitizeSection(&sections[i], credentials))
	}
	return views
}
