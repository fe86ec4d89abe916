package models

import (
	"context"
	"market-api/apperror"
	"market-api/authorization"
	"market-api/helpers"
	"os"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Draft is a user-private listing in progress. It never shows up anywhere
// until published and silently expires after the configured number of days.
type Draft struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	UserID      primitive.ObjectID `json:"-" bson:"userID"`
	TypeCode    int32              `json:"typeCode" bson:"typeCD"`
	SectionID   primitive.ObjectID `json:"sectionID" bson:"sectionID"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Price       int64              `json:"price,omitempty" bson:"price,omitempty"`
	Currency    string             `json:"currency,omitempty" bson:"currency,omitempty"`
	TouchedTS   time.Time          `json:"touchedTS" bson:"touchedTS"`
}

// DraftModel provides the logic to the interface and access to the database
type DraftModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// CreateDraft starts a new listing for a user
func (m *DraftModel) CreateDraft(draft *Draft) (string, error) {

	draft.ID = primitive.NewObjectID()
	draft.TouchedTS = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := m.Collection.InsertOne(ctx, draft)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return draft.ID.Hex(), nil
}

// GetDraft returns one draft - owners only, drafts are private
func (m *DraftModel) GetDraft(draftID string, credentials *authorization.Credentials) (*Draft, error) {

	id, err := primitive.ObjectIDFromHex(draftID)
	if err != nil {
		return nil, ErrDraftNotFound
	}

	data := Draft{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = m.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&data)
	if err != nil {
		return nil, ErrDraftNotFound
	}

	if !credentials.IsOwner(data.UserID) {
		// concealed, not forbidden - a draft's existence is private too
		return nil, ErrDraftNotFound
	}

	return &data, nil
}

// ListDrafts returns all of a user's open drafts
func (m *DraftModel) ListDrafts(userOID primitive.ObjectID) ([]Draft, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, bson.M{"userID": userOID})
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var drafts []Draft
	if err = cursor.All(ctx, &drafts); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if drafts == nil {
		return nil, apperror.ErrNoData
	}

	return drafts, nil
}

// UpdateDraft overwrites the user-editable fields
func (m *DraftModel) UpdateDraft(draft *Draft, credentials *authorization.Credentials) error {

	current, err := m.GetDraft(draft.ID.Hex(), credentials)
	if err != nil {
		return err
	}

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "sectionID", Value: draft.SectionID},
			{Key: "title", Value: draft.Title},
			{Key: "description", Value: draft.Description},
			{Key: "price", Value: draft.Price},
			{Key: "currency", Value: draft.Currency},
			{Key: "touchedTS", Value: time.Now()},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = m.Collection.UpdateOne(ctx, bson.M{"_id": current.ID}, update)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

// DeleteDraft discards a draft
func (m *DraftModel) DeleteDraft(draftID string, credentials *authorization.Credentials) error {

	current, err := m.GetDraft(draftID, credentials)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = m.Collection.DeleteOne(ctx, bson.M{"_id": current.ID})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

// PurgeDrafts deletes drafts untouched for longer than the configured age
// (called by the cron job)
func (m *DraftModel) PurgeDrafts(now time.Time) (int64, error) {

	cutoff := now.Add(-draftMaxAge())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := m.Collection.DeleteMany(ctx, bson.M{"touchedTS": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	return res.DeletedCount, nil
}

// draftMaxAge reads the configured draft lifetime (days)
func draftMaxAge() time.Duration {
	days, err := strconv.Atoi(os.Getenv("MARKET_DRAFT_TTL_DAYS"))
	if err != nil || days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}
