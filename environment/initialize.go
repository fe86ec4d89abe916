package environment

import (
	"market-api/analytics"
	"market-api/authorization"
	"market-api/client"
	"market-api/database"
	"market-api/models"
	"os"

	"github.com/go-redis/redis/v8"
	influxdb2 "github.com/influxdata/influxdb-client-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Environment is used for dependency-injection (package de-coupling)
type Environment struct {
	Credentials       authorization.Credentials
	UserModel         models.UserModel
	SectionModel      models.SectionModel
	ItemModel         models.ItemModel
	DraftModel        models.DraftModel
	CounterModel      models.CounterModel
	SubscriptionModel models.SubscriptionModel
	CurrencyModel     models.CurrencyModel
	ViewCounter       *analytics.Counter
	Tracker           *analytics.Tracker
	Requests          *client.Registry
}

// newEnv operates as the constructor to initialize the collection references (private)
func newEnv(mongoClient *mongo.Client, redisClient *redis.Client, influxClient *influxdb2.Client) *Environment {
	env := &Environment{}

	db := mongoClient.Database(os.Getenv("DB_NAME"))

	env.Requests = new(client.Registry)
	env.Requests.Initialize()

	// view batching (always created so the models need no nil checks)
	env.ViewCounter = new(analytics.Counter)
	env.ViewCounter.SetConnections(redisClient, db.Collection(database.CollectionItems))
	env.ViewCounter.Requests = env.Requests

	env.Tracker = new(analytics.Tracker)
	env.Tracker.SetConnections(influxClient)
	env.Tracker.SearchAPI = database.InfluxAPI{
		WriteAPI: (*influxClient).WriteAPIBlocking(os.Getenv("ANALYTICS_ORG"), os.Getenv("ANALYTICS_SEARCH_BUCKET")),
	}

	env.Credentials.SetConnections(db.Collection(database.CollectionUsers))

	env.UserModel.Client = mongoClient
	env.UserModel.Collection = db.Collection(database.CollectionUsers)

	env.SectionModel.Client = mongoClient
	env.SectionModel.Collection = db.Collection(database.CollectionSections)
	env.SectionModel.Items = db.Collection(database.CollectionItems)
	env.SectionModel.Archive = db.Collection(database.CollectionItemsArchived)
	env.SectionModel.System = db.Collection(database.CollectionSystem)

	env.CounterModel.Client = mongoClient
	env.CounterModel.Collection = db.Collection(database.CollectionCounters)
	env.CounterModel.Items = db.Collection(database.CollectionItems)
	env.CounterModel.Archive = db.Collection(database.CollectionItemsArchived)

	env.ItemModel.Client = mongoClient
	env.ItemModel.Collection = db.Collection(database.CollectionItems)
	env.ItemModel.Archive = db.Collection(database.CollectionItemsArchived)
	env.ItemModel.Bookmarks = db.Collection(database.CollectionBookmarks)
	env.ItemModel.System = db.Collection(database.CollectionSystem)

	// inject functions across the models
	env.ItemModel.GetUserName = env.UserModel.GetUserName
	env.ItemModel.RecountSection = env.SectionModel.RecountSection
	env.ItemModel.RecountUser = env.CounterModel.RecountUser

	env.DraftModel.Client = mongoClient
	env.DraftModel.Collection = db.Collection(database.CollectionDrafts)

	env.SubscriptionModel.Client = mongoClient
	env.SubscriptionModel.Collection = db.Collection(database.CollectionSubscriptions)

	env.CurrencyModel.Client = mongoClient
	env.CurrencyModel.Collection = db.Collection(database.CollectionRates)

	return env
}

// Env is the singleton registry
var Env *Environment

// InitializeModels injects the database connections into the models
// (do not confuse with package init)
func InitializeModels() {
	Env = newEnv(database.GetConnection(), database.GetRedisConnection(), database.GetInfluxConnection())
}
