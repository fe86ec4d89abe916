package models

import (
	"context"
	"market-api/helpers"
	"os"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RateSnapshot is one dated set of exchange rates, all relative to the
// base currency. Only the most recent snapshot is ever read; older ones
// remain as history.
type RateSnapshot struct {
	ID    primitive.ObjectID `json:"-" bson:"_id"`
	TS    time.Time          `json:"ts" bson:"ts"`
	Base  string             `json:"base" bson:"base"`
	Rates map[string]float64 `json:"rates" bson:"rates"`
}

// CurrencyModel serves pairwise conversion factors, composed through the
// base currency. Reads go through an in-process cache with a short TTL to
// bound database load; the snapshot itself is refreshed by the cron job
// on its own cadence.
type CurrencyModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection

	// injectable clock & TTL (deterministic tests)
	Clock func() time.Time
	TTL   time.Duration

	mu        sync.RWMutex
	cached    *RateSnapshot
	fetchedTS time.Time
}

// Currencies returns the configured currency codes, base first
func Currencies() []string {
	configured := os.Getenv("MARKET_CURRENCIES")
	if configured == "" {
		configured = "USD,EUR,GBP"
	}

	var codes []string
	for _, code := range strings.Split(configured, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// BaseCurrency is the fixed currency every stored rate refers to
func BaseCurrency() string {
	codes := Currencies()
	if len(codes) == 0 {
		return "USD"
	}
	return codes[0]
}

// Get returns the multiplicative factor converting an amount in "from"
// into "to". Identity conversions yield 1 for any code, even unconfigured
// ones. An unknown code yields 0 - "unavailable", not an error; callers
// must never multiply with it.
func (m *CurrencyModel) Get(from string, to string) (float64, error) {

	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == to {
		return 1, nil
	}

	snapshot, err := m.snapshot()
	if err != nil {
		return 0, err
	}
	if snapshot == nil {
		return 0, nil // no snapshot stored yet
	}

	rate := func(code string) float64 {
		if code == snapshot.Base {
			return 1
		}
		return snapshot.Rates[code] // 0 if absent
	}

	fromRate := rate(from)
	toRate := rate(to)
	if fromRate == 0 || toRate == 0 {
		return 0, nil
	}

	// rates are base->code factors: from->to = (base->to) / (base->from)
	return toRate / fromRate, nil
}

// SaveSnapshot validates and stores a freshly fetched rate set.
// A feed missing any configured currency (or carrying junk values) is
// rejected wholesale - a partial snapshot is worse than a stale one.
func (m *CurrencyModel) SaveSnapshot(rates map[string]float64, fetchedTS time.Time) error {

	base := BaseCurrency()

	for _, code := range Currencies() {
		if code == base {
			continue
		}
		rate, ok := rates[code]
		if !ok || rate <= 0 {
			return ErrRatesIncomplete
		}
	}

	snapshot := RateSnapshot{
		ID:    primitive.NewObjectID(),
		TS:    fetchedTS,
		Base:  base,
		Rates: rates,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := m.Collection.InsertOne(ctx, snapshot)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	// serve the new snapshot right away
	m.mu.Lock()
	m.cached = &snapshot
	m.fetchedTS = m.now()
	m.mu.Unlock()

	return nil
}

// snapshot returns the most recent rate set, memoized for the cache TTL
func (m *CurrencyModel) snapshot() (*RateSnapshot, error) {

	now := m.now()

	m.mu.RLock()
	if m.cached != nil && now.Sub(m.fetchedTS) < m.ttl() {
		cached := m.cached
		m.mu.RUnlock()
		return cached, nil
	}
	m.mu.RUnlock()

	opts := options.FindOne().SetSort(bson.D{{Key: "ts", Value: -1}})

	data := RateSnapshot{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := m.Collection.FindOne(ctx, bson.D{}, opts).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	m.mu.Lock()
	m.cached = &data
	m.fetchedTS = now
	m.mu.Unlock()

	return &data, nil
}

func (m *CurrencyModel) now() time.Time {
	if m.Clock != nil {
		return m.Clock()
	}
	return time.Now()
}

func (m *CurrencyModel) ttl() time.Duration {
	if m.TTL > 0 {
		return m.TTL
	}
	return 30 * time.Second
}
