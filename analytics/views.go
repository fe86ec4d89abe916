package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"market-api/client"
	"market-api/helpers"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/twinj/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ViewCache is the list item in the cache (redis);
// one key per counted view, aggregated by the flush job
type ViewCache struct {
	ViewTS time.Time `json:"viewTS"`
	UserID string    `json:"userID"`
}

// Counter batches item views in redis and flushes them into the item
// documents periodically, so a busy listing does not hammer the database
// with single-field updates
type Counter struct {
	redisClient *redis.Client
	items       *mongo.Collection
	Requests    *client.Registry
}

// SetConnections initializes the instance
func (t *Counter) SetConnections(redisClient *redis.Client, items *mongo.Collection) {
	t.redisClient = redisClient
	t.items = items
}

// SaveView stores one view event in the cache. Page refreshes are filtered
// via the request registry so F5 does not count.
func (t *Counter) SaveView(itemID string, userID string, clientIP string) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	if t.Requests != nil && !t.Requests.Continue(clientIP, itemID) {
		return // same client, same item - a refresh
	}

	var ctx = context.Background()

	key := "item_" + itemID + "_" + uuid.NewV4().String()

	view := ViewCache{
		ViewTS: time.Now(),
		UserID: userID,
	}

	b, err := json.Marshal(view)
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	err = t.redisClient.Set(ctx, key, b, 0).Err()
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
	}
}

// PendingViews counts the cached views of an item that are not yet
// flushed into the document
func (t *Counter) PendingViews(itemID string) int64 {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return 0
	}

	keys, err := t.getKeys("item_" + itemID + "_*")
	if err != nil {
		return 0
	}

	return int64(len(keys))
}

// Flush moves the cached view counts from redis into the item documents
// (one unordered bulk of $inc updates), then deletes the flushed keys.
// Errors are logged, never raised - the next run picks up what's left.
func (t *Counter) Flush() {
	var ctx = context.Background()

	allKeys, err := t.getKeys("item_*")
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	if allKeys == nil {
		return
	}

	// aggregate per item id ("item_<id>_<uuid>")
	counts := make(map[string]int64)
	for _, key := range allKeys {
		parts := strings.Split(key, "_")
		if len(parts) != 3 {
			continue
		}
		counts[parts[1]]++
	}

	var opModels []mongo.WriteModel
	for id, cnt := range counts {
		opModel := mongo.NewUpdateOneModel()
		opModel.SetFilter(bson.M{"_id": helpers.ObjectID(id)})
		opModel.SetUpdate(bson.M{"$inc": bson.M{"views": cnt}})
		opModels = append(opModels, opModel)
	}

	if opModels == nil {
		return
	}

	opts := options.BulkWrite().SetOrdered(false)

	res, err := t.items.BulkWrite(ctx, opModels, opts)
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	// delete the flushed keys; a failure here means some views count twice
	// once - acceptable for a popularity counter
	for _, key := range allKeys {
		_, err := t.redisClient.Del(ctx, key).Result()
		if err != nil {
			fmt.Println(helpers.WrapError(err, helpers.FuncName()))
			return
		}
	}

	fmt.Printf("%v: views of %v item(s) flushed.\n", time.Now().Format(time.RFC3339), res.MatchedCount)
}

// get a list of keys matching a specific name
func (t *Counter) getKeys(searchMask string) ([]string, error) {

	var ctx = context.Background()
	var cursor uint64
	var err error

	var keys []string // current iteration of cursor
	var allKeys []string

	for {
		keys, cursor, err = t.redisClient.Scan(ctx, cursor, searchMask, 10).Result()
		if err != nil {
			return nil, helpers.WrapError(err, helpers.FuncName())
		}

		allKeys = append(allKeys, keys...)

		if cursor == 0 {
			break
		}
	}
	return allKeys, nil
}
