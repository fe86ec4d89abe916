package models

import (
	"context"
	"market-api/apperror"
	"market-api/helpers"
	"market-api/lookups"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Section is a node of the marketplace taxonomy. A pure category holds no
// items itself; a postable leaf accepts offers and/or wishes. Links are
// secondary placements of other sections below this one.
type Section struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id"`
	HID          int64                `json:"hid" bson:"hid"`
	Title        string               `json:"title" bson:"title"`
	Parent       primitive.ObjectID   `json:"parent,omitempty" bson:"parent,omitempty"`
	Links        []primitive.ObjectID `json:"links,omitempty" bson:"links,omitempty"`
	IsCategory   bool                 `json:"isCategory" bson:"isCategory"`
	AllowOffers  bool                 `json:"allowOffers" bson:"allowOffers"`
	AllowWishes  bool                 `json:"allowWishes" bson:"allowWishes"`
	NoPrice      bool                 `json:"noPrice" bson:"noPrice"`
	DisplayOrder int32                `json:"displayOrder" bson:"displayOrder"`
	Cache        SectionCache         `json:"cache" bson:"cache"`
	CacheHB      SectionCache         `json:"-" bson:"cacheHB"`
}

// SectionCache is the denormalized item-count pair. The HB variant
// additionally includes shadow-banned items and is only shown to staff.
type SectionCache struct {
	OfferCount int64 `json:"offerCount" bson:"offerCount"`
	WishCount  int64 `json:"wishCount" bson:"wishCount"`
}

// noPriceCache memoizes the set of sections flagged noPrice, used by the
// sanitizer on every single item - an explicit cache object with an
// injectable clock instead of a package-level singleton
type noPriceCache struct {
	sync.RWMutex
	ids       map[primitive.ObjectID]bool
	fetchedTS time.Time
}

// SectionModel provides the logic to the interface and access to the database
type SectionModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
	Items      *mongo.Collection
	Archive    *mongo.Collection
	System     *mongo.Collection

	// injectable clock & TTL for the no-price set (deterministic tests)
	Clock      func() time.Time
	NoPriceTTL time.Duration

	noPrice noPriceCache
}

// Validate checks given values and sets defaults where applicable (immutable)
func (m *SectionModel) Validate(section Section) (*Section, error) {

	cleaned := section

	cleaned.Title = strings.TrimSpace(cleaned.Title)
	if cleaned.Title == "" {
		return nil, ErrSectionTitleMissing
	}

	// a pure category never takes items
	if cleaned.IsCategory {
		cleaned.AllowOffers = false
		cleaned.AllowWishes = false
	}

	return &cleaned, nil
}

// ListSections returns the whole flat taxonomy in sibling order
// (the tree is built client-side of the model, see tree.go)
func (m *SectionModel) ListSections() ([]Section, error) {

	sort := bson.D{
		{Key: "displayOrder", Value: 1},
	}

	opts := options.Find().SetSort(sort)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var sections []Section
	err = cursor.All(ctx, &sections)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if sections == nil {
		return nil, apperror.ErrNoData
	}

	return sections, nil
}

// GetSection returns one
func (m *SectionModel) GetSection(sectionID string) (*Section, error) {

	id, err := primitive.ObjectIDFromHex(sectionID)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	data := Section{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = m.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&data)
	if err != nil {
		return nil, apperror.ErrNoData
	}

	return &data, nil
}

// CreateSection adds a new node below the given parent (NilObjectID = root)
func (m *SectionModel) CreateSection(section *Section) (string, error) {

	// set "system-fields"
	section.ID = primitive.NewObjectID()
	section.Cache = SectionCache{}
	section.CacheHB = SectionCache{}

	hid, err := NextHid(m.System, "section")
	if err != nil {
		return "", err
	}
	section.HID = hid

	// new nodes go last among their siblings
	last, err := m.lastSiblingOrder(section.Parent)
	if err != nil {
		return "", err
	}
	section.DisplayOrder = last + 1

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = m.Collection.InsertOne(ctx, section)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return section.ID.Hex(), nil
}

// UpdateSection sets the mutable fields of a node
func (m *SectionModel) UpdateSection(section *Section) error {

	cleaned, err := m.Validate(*section)
	if err != nil {
		return err
	}

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "title", Value: cleaned.Title},
			{Key: "isCategory", Value: cleaned.IsCategory},
			{Key: "allowOffers", Value: cleaned.AllowOffers},
			{Key: "allowWishes", Value: cleaned.AllowWishes},
			{Key: "noPrice", Value: cleaned.NoPrice},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := m.Collection.UpdateOne(ctx, bson.M{"_id": cleaned.ID}, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if res.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	// the no-price flag may have changed
	m.invalidateNoPrice()

	return nil
}

// DeleteSection removes a node - but only if nothing points to it anymore:
// no children, no incoming links and no items (live or archived)
func (m *SectionModel) DeleteSection(sectionID string) error {

	id, err := primitive.ObjectIDFromHex(sectionID)
	if err != nil {
		return apperror.ErrNoData
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	children, err := m.Collection.CountDocuments(ctx, bson.M{"parent": id})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if children > 0 {
		return apperror.ErrSectionNotEmpty
	}

	incoming, err := m.Collection.CountDocuments(ctx, bson.M{"links": id})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if incoming > 0 {
		return apperror.ErrSectionNotEmpty
	}

	live, err := m.Items.CountDocuments(ctx, bson.M{"sectionID": id})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	archived, err := m.Archive.CountDocuments(ctx, bson.M{"sectionID": id})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if live+archived > 0 {
		return apperror.ErrSectionNotEmpty
	}

	res, err := m.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if res.DeletedCount == 0 {
		return apperror.ErrNoData
	}

	m.invalidateNoPrice()

	return nil
}

// CreateLink adds a secondary placement of linkedID below sectionID
func (m *SectionModel) CreateLink(sectionID string, linkedID string) error {

	id := helpers.ObjectID(sectionID)
	linked := helpers.ObjectID(linkedID)
	if id == primitive.NilObjectID || linked == primitive.NilObjectID {
		return apperror.ErrNoData
	}

	// the linked section must exist
	_, err := m.GetSection(linkedID)
	if err != nil {
		return ErrSectionNotFound
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// $addToSet keeps the operation idempotent; report a duplicate
	// so clients can tell the user
	update := bson.M{"$addToSet": bson.M{"links": linked}}

	res, err := m.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if res.MatchedCount == 0 {
		return apperror.ErrNoData
	}
	if res.ModifiedCount == 0 {
		return ErrLinkExists
	}

	return nil
}

// DestroyLink removes a secondary placement again
func (m *SectionModel) DestroyLink(sectionID string, linkedID string) error {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{"$pull": bson.M{"links": helpers.ObjectID(linkedID)}}

	res, err := m.Collection.UpdateOne(ctx, bson.M{"_id": helpers.ObjectID(sectionID)}, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if res.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}

// Move re-parents a section and re-ranks the siblings as sent by the client.
// The sibling list is taken as-is (1-based rank by position) - the server
// does not verify it is the complete current set; concurrent reorders may
// leave duplicate ranks until the next move fixes them.
func (m *SectionModel) Move(sectionID string, newParent string, siblings []string) error {

	id := helpers.ObjectID(sectionID)
	if id == primitive.NilObjectID {
		return apperror.ErrNoData
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	parent := helpers.ObjectID(newParent)

	var update bson.M
	if parent == primitive.NilObjectID {
		update = bson.M{"$unset": bson.M{"parent": ""}}
	} else {
		update = bson.M{"$set": bson.M{"parent": parent}}
	}

	res, err := m.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if res.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	return m.Reorder(siblings)
}

// Reorder assigns displayOrder as the 1-based rank of each id in the list
func (m *SectionModel) Reorder(siblings []string) error {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var opModels []mongo.WriteModel
	for i, sid := range siblings {
		opModel := mongo.NewUpdateOneModel()
		opModel.SetFilter(bson.M{"_id": helpers.ObjectID(sid)})
		opModel.SetUpdate(bson.M{"$set": bson.M{"displayOrder": int32(i + 1)}})
		opModels = append(opModels, opModel)
	}

	if opModels == nil {
		return nil
	}

	opts := options.BulkWrite().SetOrdered(false)

	_, err := m.Collection.BulkWrite(ctx, opModels, opts)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

// ReorderLinks replaces a section's link list with the client-sent order
func (m *SectionModel) ReorderLinks(sectionID string, links []string) error {

	ordered := make([]primitive.ObjectID, 0, len(links))
	for _, l := range links {
		if oid := helpers.ObjectID(l); oid != primitive.NilObjectID {
			ordered = append(ordered, oid)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"links": ordered}}

	res, err := m.Collection.UpdateOne(ctx, bson.M{"_id": helpers.ObjectID(sectionID)}, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if res.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}

// RecountSection recomputes the four cached counters of a section as
// (direct open items) + (children's already cached counts) and then walks
// the parent chain up to the root, repeating the computation there.
// Overlapping recounts converge since the result only depends on current
// child state, never on the previous cache value.
func (m *SectionModel) RecountSection(sectionOID primitive.ObjectID) error {

	id := sectionOID

	for id != primitive.NilObjectID {

		cache, cacheHB, err := m.computeCache(id)
		if err != nil {
			return err
		}

		update := bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "cache", Value: cache},
				{Key: "cacheHB", Value: cacheHB},
			}},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

		// read the parent pointer in the same go (postpone upward)
		data := struct {
			Parent primitive.ObjectID `bson:"parent"`
		}{}

		opts := options.FindOneAndUpdate().
			SetProjection(bson.D{{Key: "parent", Value: 1}}).
			SetReturnDocument(options.After)

		err = m.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&data)
		cancel()
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return apperror.ErrNoData
			}
			return helpers.WrapError(err, helpers.FuncName())
		}

		id = data.Parent
	}

	return nil
}

// computeCache aggregates one section's counters bottom-up
func (m *SectionModel) computeCache(id primitive.ObjectID) (SectionCache, SectionCache, error) {

	var cache, cacheHB SectionCache

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// direct open items, with and without shadow-banned ones
	open := bson.M{"st": StatusOpen}
	openHB := bson.M{"$or": bson.A{
		bson.M{"st": StatusOpen},
		bson.M{"st": StatusHellbanned, "ste": StatusOpen},
	}}

	count := func(itemType int32, status bson.M) (int64, error) {
		filter := bson.M{"sectionID": id, "typeCD": itemType}
		for k, v := range status {
			filter[k] = v
		}
		return m.Items.CountDocuments(ctx, filter)
	}

	var err error
	if cache.OfferCount, err = count(lookups.ItemTypeOffer, open); err != nil {
		return cache, cacheHB, helpers.WrapError(err, helpers.FuncName())
	}
	if cache.WishCount, err = count(lookups.ItemTypeWish, open); err != nil {
		return cache, cacheHB, helpers.WrapError(err, helpers.FuncName())
	}
	if cacheHB.OfferCount, err = count(lookups.ItemTypeOffer, openHB); err != nil {
		return cache, cacheHB, helpers.WrapError(err, helpers.FuncName())
	}
	if cacheHB.WishCount, err = count(lookups.ItemTypeWish, openHB); err != nil {
		return cache, cacheHB, helpers.WrapError(err, helpers.FuncName())
	}

	// add the children's cached counts (one generation of staleness is fine,
	// callers sweep leaves before parents)
	cursor, err := m.Collection.Find(ctx, bson.M{"parent": id},
		options.Find().SetProjection(bson.D{
			{Key: "cache", Value: 1},
			{Key: "cacheHB", Value: 1},
		}))
	if err != nil {
		return cache, cacheHB, helpers.WrapError(err, helpers.FuncName())
	}

	var children []Section
	if err = cursor.All(ctx, &children); err != nil {
		return cache, cacheHB, helpers.WrapError(err, helpers.FuncName())
	}

	for _, child := range children {
		cache.OfferCount += child.Cache.OfferCount
		cache.WishCount += child.Cache.WishCount
		cacheHB.OfferCount += child.CacheHB.OfferCount
		cacheHB.WishCount += child.CacheHB.WishCount
	}

	return cache, cacheHB, nil
}

// Breadcrumbs walks the parent chain of a section root-ward and returns
// the path from the root down to (and including) the section
func (m *SectionModel) Breadcrumbs(sectionOID primitive.ObjectID) ([]Section, error) {

	var path []Section

	id := sectionOID
	for id != primitive.NilObjectID {
		section, err := m.GetSection(id.Hex())
		if err != nil {
			// a dangling parent pointer ends the chain, it does not fail it
			break
		}
		path = append(path, *section)
		id = section.Parent
	}

	if path == nil {
		return nil, apperror.ErrNoData
	}

	// reverse: root first
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// NoPriceSections returns the memoized set of sections flagged noPrice
func (m *SectionModel) NoPriceSections() (map[primitive.ObjectID]bool, error) {

	now := m.now()

	m.noPrice.RLock()
	if m.noPrice.ids != nil && now.Sub(m.noPrice.fetchedTS) < m.noPriceTTL() {
		ids := m.noPrice.ids
		m.noPrice.RUnlock()
		return ids, nil
	}
	m.noPrice.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, bson.M{"noPrice": true},
		options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var sections []Section
	if err = cursor.All(ctx, &sections); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	ids := make(map[primitive.ObjectID]bool, len(sections))
	for _, s := range sections {
		ids[s.ID] = true
	}

	m.noPrice.Lock()
	m.noPrice.ids = ids
	m.noPrice.fetchedTS = now
	m.noPrice.Unlock()

	return ids, nil
}

func (m *SectionModel) invalidateNoPrice() {
	m.noPrice.Lock()
	m.noPrice.ids = nil
	m.noPrice.Unlock()
}

func (m *SectionModel) now() time.Time {
	if m.Clock != nil {
		return m.Clock()
	}
	return time.Now()
}

func (m *SectionModel) noPriceTTL() time.Duration {
	if m.NoPriceTTL > 0 {
		return m.NoPriceTTL
	}
	return 30 * time.Second
}

// lastSiblingOrder returns the highest displayOrder below a parent
func (m *SectionModel) lastSiblingOrder(parent primitive.ObjectID) (int32, error) {

	filter := bson.M{"parent": parent}
	if parent == primitive.NilObjectID {
		filter = bson.M{"parent": bson.M{"$exists": false}}
	}

	opts := options.FindOne().
		SetProjection(bson.D{{Key: "displayOrder", Value: 1}}).
		SetSort(bson.D{{Key: "displayOrder", Value: -1}})

	data := struct {
		DisplayOrder int32 `bson:"displayOrder"`
	}{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := m.Collection.FindOne(ctx, filter, opts).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	return data.DisplayOrder, nil
}
