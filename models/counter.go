package models

import (
	"context"
	"market-api/apperror"
	"market-api/helpers"
	"market-api/lookups"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// counter kinds stored in the counters collection
const (
	CounterOffers         = "offers"
	CounterWishes         = "wishes"
	CounterOffersArchived = "offers_archived"
	CounterWishesArchived = "wishes_archived"
)

// UserCounter is a cached per-user total. Value excludes shadow-banned
// items, ValueHB includes them. Both are derived state and can always be
// rebuilt from the item collections.
type UserCounter struct {
	ID      primitive.ObjectID `json:"-" bson:"_id"`
	UserID  primitive.ObjectID `json:"userID" bson:"userID"`
	Kind    string             `json:"kind" bson:"kind"`
	Value   int64              `json:"value" bson:"value"`
	ValueHB int64              `json:"-" bson:"valueHB"`
}

// CounterModel maintains the per-user item counts
type CounterModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
	Items      *mongo.Collection
	Archive    *mongo.Collection
}

// GetCounters returns all cached totals of one user
func (m *CounterModel) GetCounters(userOID primitive.ObjectID) ([]UserCounter, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, bson.M{"userID": userOID})
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var counters []UserCounter
	if err = cursor.All(ctx, &counters); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if counters == nil {
		return nil, apperror.ErrNoData
	}

	return counters, nil
}

// RecountUser rebuilds all four totals of one user from scratch.
// Upserts keep concurrent recounts race-safe (last write wins, and every
// write is a pure function of current item state).
func (m *CounterModel) RecountUser(userOID primitive.ObjectID) error {

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	countLive := func(itemType int32, includeHB bool) (int64, error) {
		var status bson.A
		status = bson.A{bson.M{"st": StatusOpen}}
		if includeHB {
			status = append(status, bson.M{"st": StatusHellbanned, "ste": StatusOpen})
		}
		return m.Items.CountDocuments(ctx, bson.M{
			"userID": userOID,
			"typeCD": itemType,
			"$or":    status,
		})
	}

	countArchived := func(itemType int32, includeHB bool) (int64, error) {
		filter := bson.M{
			"userID": userOID,
			"typeCD": itemType,
		}
		if !includeHB {
			filter["st"] = bson.M{"$ne": StatusHellbanned}
		}
		return m.Archive.CountDocuments(ctx, filter)
	}

	type counting struct {
		kind     string
		itemType int32
		count    func(int32, bool) (int64, error)
	}

	countings := []counting{
		{CounterOffers, lookups.ItemTypeOffer, countLive},
		{CounterWishes, lookups.ItemTypeWish, countLive},
		{CounterOffersArchived, lookups.ItemTypeOffer, countArchived},
		{CounterWishesArchived, lookups.ItemTypeWish, countArchived},
	}

	for _, c := range countings {
		value, err := c.count(c.itemType, false)
		if err != nil {
			return helpers.WrapError(err, helpers.FuncName())
		}
		valueHB, err := c.count(c.itemType, true)
		if err != nil {
			return helpers.WrapError(err, helpers.FuncName())
		}

		filter := bson.M{"userID": userOID, "kind": c.kind}
		update := bson.M{
			"$set": bson.M{"value": value, "valueHB": valueHB},
			"$setOnInsert": bson.M{
				"_id":    primitive.NewObjectID(),
				"userID": userOID,
				"kind":   c.kind,
			},
		}

		opts := options.FindOneAndUpdate().SetUpsert(true)

		err = m.Collection.FindOneAndUpdate(ctx, filter, update, opts).Err()
		if err != nil && err != mongo.ErrNoDocuments {
			return helpers.WrapError(err, helpers.FuncName())
		}
	}

	return nil
}
