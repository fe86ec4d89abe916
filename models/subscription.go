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

// Subscription records that a user wants to be notified about new offers
// or wishes in a section. One document per (user, section, item type).
type Subscription struct {
	ID        primitive.ObjectID `json:"-" bson:"_id"`
	UserID    primitive.ObjectID `json:"userID" bson:"userID"`
	SectionID primitive.ObjectID `json:"sectionID" bson:"sectionID"`
	TypeCode  int32              `json:"typeCode" bson:"typeCD"`
	LevelCode int32              `json:"levelCode" bson:"levelCD"`
}

// SubscriptionModel provides the logic to the interface and access to the database
type SubscriptionModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// ChangeSubscription upserts a user's subscription on a section; the "none"
// level removes the document again
func (m *SubscriptionModel) ChangeSubscription(userOID primitive.ObjectID, sectionID string, typeCode int32, levelCode int32) error {

	sectionOID, err := primitive.ObjectIDFromHex(sectionID)
	if err != nil {
		return apperror.ErrNoData
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"userID":    userOID,
		"sectionID": sectionOID,
		"typeCD":    typeCode,
	}

	if levelCode == lookups.SubscriptionNone {
		_, err := m.Collection.DeleteOne(ctx, filter)
		if err != nil {
			return helpers.WrapError(err, helpers.FuncName())
		}
		return nil
	}

	update := bson.M{
		"$set": bson.M{"levelCD": levelCode},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"userID":    userOID,
			"sectionID": sectionOID,
			"typeCD":    typeCode,
		},
	}

	err = m.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetUpsert(true)).Err()
	if err != nil && err != mongo.ErrNoDocuments {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

// ListSubscriptions returns all of a user's subscriptions
func (m *SubscriptionModel) ListSubscriptions(userOID primitive.ObjectID) ([]Subscription, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, bson.M{"userID": userOID})
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var subscriptions []Subscription
	if err = cursor.All(ctx, &subscriptions); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if subscriptions == nil {
		return nil, apperror.ErrNoData
	}

	return subscriptions, nil
}
