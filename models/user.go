package models

import (
	"context"
	"market-api/apperror"
	"market-api/helpers"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// account management is the host platform's business - this plugin only
// reads what it needs to display and authorize

// UserModel resolves display names from the platform's users collection
type UserModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// GetUserName reads just the login name of a user
func (m *UserModel) GetUserName(ID string) (string, error) {

	id := helpers.ObjectID(ID)
	if id.IsZero() {
		return "", apperror.ErrNoData
	}

	fields := bson.D{
		{Key: "_id", Value: 0},
		{Key: "loginName", Value: 1},
	}

	data := struct {
		LoginName string `bson:"loginName"`
	}{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := m.Collection.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(fields)).Decode(&data)
	if err != nil {
		return "", apperror.ErrNoData
	}

	return data.LoginName, nil
}
