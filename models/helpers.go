package models

import (
	"context"
	"market-api/helpers"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NextHid draws the next human-readable sequential number for a domain
// ("section", "item") from the system collection. The upsert makes the
// counter document appear on first use.
func NextHid(collection *mongo.Collection, domain string) (int64, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": "hid_" + domain}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	data := struct {
		Seq int64 `bson:"seq"`
	}{}

	err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&data)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	return data.Seq, nil
}
