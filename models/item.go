package models

import (
	"context"
	"market-api/apperror"
	"market-api/authorization"
	"market-api/helpers"
	"market-api/lookups"
	"os"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Item is a marketplace listing. Offers and wishes share one live collection
// (typeCD discriminator) and move to the archive collection when closed.
type Item struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	HID         int64              `json:"hid" bson:"hid"`
	TypeCode    int32              `json:"typeCode" bson:"typeCD"`
	SectionID   primitive.ObjectID `json:"sectionID" bson:"sectionID"`
	UserID      primitive.ObjectID `json:"userID" bson:"userID"`
	UserName    string             `json:"userName" bson:"userName"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Price       int64              `json:"price,omitempty" bson:"price,omitempty"` // offers only
	Currency    string             `json:"currency,omitempty" bson:"currency,omitempty"`
	Status      Status             `json:"status" bson:",inline"`
	LastEditTS  time.Time          `json:"lastEditTS,omitempty" bson:"lastEditTS,omitempty"`
	AutocloseTS time.Time          `json:"autocloseTS,omitempty" bson:"autocloseTS,omitempty"` // offers only
	ClosedTS    time.Time          `json:"closedTS,omitempty" bson:"closedTS,omitempty"`
	Views       int64              `json:"views" bson:"views"`
	Bookmarks   int64              `json:"bookmarks" bson:"bookmarks"`
	EditCount   int32              `json:"editCount" bson:"editCount"`
}

// CreatedTS is derived from the document id (no separate field stored)
func (i *Item) CreatedTS() time.Time {
	return i.ID.Timestamp()
}

// Archived returns the clone of an item the way it is stored in the archive:
// real status finalized to closed, closing time stamped with the sweep time
// (unless an explicit close already set one)
func (i Item) Archived(now time.Time) Item {
	clone := i
	clone.Status = i.Status.Closed()
	if clone.ClosedTS.IsZero() {
		clone.ClosedTS = now
	}
	return clone
}

// Bookmark links a user to an item they want to find again
type Bookmark struct {
	ID     primitive.ObjectID `json:"-" bson:"_id"`
	UserID primitive.ObjectID `json:"userID" bson:"userID"`
	ItemID primitive.ObjectID `json:"itemID" bson:"itemID"`
}

// ItemSearch is passed as the search params
type ItemSearch struct {
	SectionID   string
	TypeCode    int32
	SearchTerm  string
	Credentials *authorization.Credentials
}

// ItemModel provides the logic to the interface and access to the database
type ItemModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection // live items
	Archive    *mongo.Collection
	Bookmarks  *mongo.Collection
	System     *mongo.Collection

	// injected to avoid package-level coupling between the models
	GetUserName    func(ID string) (string, error)
	RecountSection func(sectionOID primitive.ObjectID) error
	RecountUser    func(userOID primitive.ObjectID) error
}

// Validate checks given values and sets defaults where applicable (immutable)
func (m *ItemModel) Validate(item Item, section *Section) (*Item, error) {

	cleaned := item

	cleaned.Title = strings.TrimSpace(cleaned.Title)
	if cleaned.Title == "" {
		return nil, ErrItemTitleMissing
	}

	switch cleaned.TypeCode {
	case lookups.ItemTypeOffer:
		if !section.AllowOffers {
			return nil, ErrSectionNotPostable
		}
		if cleaned.Price <= 0 && !section.NoPrice {
			return nil, ErrPriceMissing
		}
		if section.NoPrice {
			cleaned.Price = 0
			cleaned.Currency = ""
		}
	case lookups.ItemTypeWish:
		if !section.AllowWishes {
			return nil, ErrSectionNotPostable
		}
		// wishes never carry a price
		cleaned.Price = 0
		cleaned.Currency = ""
	default:
		return nil, apperror.ErrNoData
	}

	return &cleaned, nil
}

// CreateItem publishes a new listing (usually from a draft)
func (m *ItemModel) CreateItem(item *Item, authorHellbanned bool) (string, error) {

	// set "system-fields"
	item.ID = primitive.NewObjectID()
	item.Status = NewOpenStatus(authorHellbanned)
	item.Views = 0
	item.Bookmarks = 0
	item.EditCount = 0
	item.ClosedTS = time.Time{}

	// the author's name is denormalized onto the listing
	if userName, err := m.GetUserName(item.UserID.Hex()); err == nil {
		item.UserName = userName
	}

	hid, err := NextHid(m.System, "item")
	if err != nil {
		return "", err
	}
	item.HID = hid

	if item.TypeCode == lookups.ItemTypeOffer {
		item.AutocloseTS = time.Now().Add(offerTTL())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = m.Collection.InsertOne(ctx, item)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	// refresh the derived counters (best effort, the recount jobs converge)
	_ = m.RecountSection(item.SectionID)
	_ = m.RecountUser(item.UserID)

	return item.ID.Hex(), nil
}

// GetItem returns one live item, access-checked against the viewer
func (m *ItemModel) GetItem(itemID string, credentials *authorization.Credentials) (*Item, error) {

	id, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	data := Item{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = m.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&data)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	// shadow-banned items exist only for staff and their own author
	if data.Status.Code == StatusHellbanned &&
		!credentials.CanSeeHellbanned() && !credentials.IsOwner(data.UserID) {
		return nil, apperror.ErrNoData
	}

	return &data, nil
}

// SearchItems lists a section's open items, or searches by term.
// Shadow-banned items are only returned to staff and to their author.
func (m *ItemModel) SearchItems(search *ItemSearch) ([]Item, error) {

	visible := bson.A{
		bson.M{"st": StatusOpen},
	}
	if search.Credentials.CanSeeHellbanned() {
		visible = append(visible, bson.M{"st": StatusHellbanned})
	} else if search.Credentials.UserID != primitive.NilObjectID {
		visible = append(visible, bson.M{
			"st":     StatusHellbanned,
			"userID": search.Credentials.UserID,
		})
	}

	filter := bson.M{"$or": visible}

	if search.SectionID != "" {
		filter["sectionID"] = helpers.ObjectID(search.SectionID)
	}
	if search.TypeCode != 0 {
		filter["typeCD"] = search.TypeCode
	}
	if search.SearchTerm != "" {
		// LIKE %searchTerm% (case-insensitive)
		filter["title"] = primitive.Regex{Pattern: ".*" + search.SearchTerm + ".*", Options: "i"}
	}

	sort := bson.D{
		{Key: "_id", Value: -1}, // newest first
	}

	opts := options.Find().SetLimit(50).SetSort(sort)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var items []Item
	err = cursor.All(ctx, &items)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if items == nil {
		return nil, apperror.ErrNoData
	}

	return items, nil
}

// SimilarItems looks up open items of the same type with similar titles
// (used for the "similar offers" box on the item page)
func (m *ItemModel) SimilarItems(itemID string, credentials *authorization.Credentials) ([]Item, error) {

	item, err := m.GetItem(itemID, credentials)
	if err != nil {
		return nil, err
	}

	// use the longest title word as the needle - cheap but good enough
	needle := ""
	for _, word := range strings.Fields(item.Title) {
		if len(word) > len(needle) {
			needle = word
		}
	}
	if needle == "" {
		return nil, apperror.ErrNoData
	}

	filter := bson.M{
		"_id":    bson.M{"$ne": item.ID},
		"typeCD": item.TypeCode,
		"st":     StatusOpen,
		"title":  primitive.Regex{Pattern: ".*" + needle + ".*", Options: "i"},
	}

	opts := options.Find().SetLimit(5).SetSort(bson.D{{Key: "_id", Value: -1}})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var items []Item
	if err = cursor.All(ctx, &items); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if items == nil {
		return nil, apperror.ErrNoData
	}

	return items, nil
}

// CloseItem finalizes a listing on user or moderator request and moves it
// to the archive right away
func (m *ItemModel) CloseItem(itemID string, credentials *authorization.Credentials) error {

	item, err := m.GetItem(itemID, credentials)
	if err != nil {
		return err
	}

	if !credentials.IsOwner(item.UserID) && !credentials.CanModerate() {
		return apperror.ErrNotOwner
	}
	if !item.Status.IsOpen() {
		return apperror.ErrItemClosed
	}

	return m.ArchiveItems([]Item{*item}, time.Now())
}

// RenewItem extends an offer's autoclose timestamp by the configured window
func (m *ItemModel) RenewItem(itemID string, credentials *authorization.Credentials) error {

	item, err := m.GetItem(itemID, credentials)
	if err != nil {
		return err
	}

	if !credentials.IsOwner(item.UserID) && !credentials.CanModerate() {
		return apperror.ErrNotOwner
	}
	if item.TypeCode != lookups.ItemTypeOffer {
		return ErrItemNotOffer
	}
	if !item.Status.IsOpen() {
		return apperror.ErrItemClosed
	}

	update := bson.M{"$set": bson.M{"autocloseTS": time.Now().Add(offerTTL())}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = m.Collection.UpdateOne(ctx, bson.M{"_id": item.ID}, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

// SetBookmark remembers an item for a user; counting relies on the upsert
// so double-clicks do not inflate the counter
func (m *ItemModel) SetBookmark(itemID string, userOID primitive.ObjectID) error {

	id, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return apperror.ErrNoData
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"userID": userOID, "itemID": id}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":    primitive.NewObjectID(),
		"userID": userOID,
		"itemID": id,
	}}

	res, err := m.Bookmarks.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if res.UpsertedCount > 0 {
		_, err = m.Collection.UpdateOne(ctx, bson.M{"_id": id},
			bson.M{"$inc": bson.M{"bookmarks": 1}})
		if err != nil {
			return helpers.WrapError(err, helpers.FuncName())
		}
	}

	return nil
}

// RemoveBookmark forgets an item again
func (m *ItemModel) RemoveBookmark(itemID string, userOID primitive.ObjectID) error {

	id, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return apperror.ErrNoData
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := m.Bookmarks.DeleteOne(ctx, bson.M{"userID": userOID, "itemID": id})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	if res.DeletedCount > 0 {
		_, err = m.Collection.UpdateOne(ctx, bson.M{"_id": id},
			bson.M{"$inc": bson.M{"bookmarks": -1}})
		if err != nil {
			return helpers.WrapError(err, helpers.FuncName())
		}
	}

	return nil
}

// ArchiveCandidates returns the live items past their expiry: offers by
// their autoclose timestamp, wishes by the age embedded in their id
func (m *ItemModel) ArchiveCandidates(now time.Time, wishMaxAge time.Duration) ([]Item, error) {

	wishCutoff := primitive.NewObjectIDFromTimestamp(now.Add(-wishMaxAge))

	filter := bson.M{"$or": bson.A{
		bson.M{
			"typeCD":      lookups.ItemTypeOffer,
			"autocloseTS": bson.M{"$lt": now},
		},
		bson.M{
			"typeCD": lookups.ItemTypeWish,
			"_id":    bson.M{"$lt": wishCutoff},
		},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, filter)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var items []Item
	if err = cursor.All(ctx, &items); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return items, nil
}

// ArchiveItems moves the given items into the archive collection.
// The order matters: upsert the finalized clones first, delete the originals
// second - a crash in between leaves both copies and the next sweep simply
// upserts and deletes again (idempotent by the id-keyed upsert).
// Affected section caches and user counters are recounted afterwards,
// deduplicated per id.
func (m *ItemModel) ArchiveItems(items []Item, now time.Time) error {

	if len(items) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var upserts []mongo.WriteModel
	var ids []primitive.ObjectID

	sections := make(map[primitive.ObjectID]bool)
	users := make(map[primitive.ObjectID]bool)

	for _, item := range items {
		clone := item.Archived(now)

		opModel := mongo.NewReplaceOneModel()
		opModel.SetFilter(bson.M{"_id": clone.ID})
		opModel.SetReplacement(clone)
		opModel.SetUpsert(true)
		upserts = append(upserts, opModel)

		ids = append(ids, item.ID)
		sections[item.SectionID] = true
		users[item.UserID] = true
	}

	opts := options.BulkWrite().SetOrdered(false)

	_, err := m.Archive.BulkWrite(ctx, upserts, opts)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	_, err = m.Collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	// derived state - errors are reported but the archive move stands
	var lastErr error
	for sectionOID := range sections {
		if err := m.RecountSection(sectionOID); err != nil && err != apperror.ErrNoData {
			lastErr = err
		}
	}
	for userOID := range users {
		if err := m.RecountUser(userOID); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// ItemOwners returns the deduplicated owners of all live and archived items
// (used by the counter recount job)
func (m *ItemModel) ItemOwners() ([]primitive.ObjectID, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	liveOwners, err := m.Collection.Distinct(ctx, "userID", bson.D{})
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	archivedOwners, err := m.Archive.Distinct(ctx, "userID", bson.D{})
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	seen := make(map[primitive.ObjectID]bool)
	var owners []primitive.ObjectID
	for _, v := range append(liveOwners, archivedOwners...) {
		oid, ok := v.(primitive.ObjectID)
		if !ok || seen[oid] {
			continue
		}
		seen[oid] = true
		owners = append(owners, oid)
	}

	return owners, nil
}

// offerTTL reads the configured listing lifetime (days)
func offerTTL() time.Duration {
	days, err := strconv.Atoi(os.Getenv("MARKET_OFFER_TTL_DAYS"))
	if err != nil || days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// WishMaxAge reads the configured wish lifetime (days)
func WishMaxAge() time.Duration {
	days, err := strconv.Atoi(os.Getenv("MARKET_WISH_TTL_DAYS"))
	if err != nil || days <= 0 {
		days = 60
	}
	return time.Duration(days) * 24 * time.Hour
}
