package models

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a model whose cache is primed, so Get never reaches the database
func cachedCurrencyModel(snapshot *RateSnapshot) *CurrencyModel {
	now := time.Now()
	m := &CurrencyModel{
		Clock: func() time.Time { return now },
		TTL:   time.Minute,
	}
	m.cached = snapshot
	m.fetchedTS = now
	return m
}

func TestCurrencyGetIdentity(t *testing.T) {

	m := cachedCurrencyModel(&RateSnapshot{Base: "USD", Rates: map[string]float64{"EUR": 0.9}})

	// identity is 1 for any code, even one nobody configured
	for _, code := range []string{"USD", "EUR", "XXX"} {
		rate, err := m.Get(code, code)
		require.NoError(t, err)
		assert.Equal(t, float64(1), rate)
	}
}

func TestCurrencyGetComposesViaBase(t *testing.T) {

	m := cachedCurrencyModel(&RateSnapshot{
		Base:  "USD",
		Rates: map[string]float64{"EUR": 0.8, "GBP": 0.5},
	})

	rate, err := m.Get("USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 0.8, rate)

	rate, err = m.Get("EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, 1.25, rate)

	// cross rate through the base
	rate, err = m.Get("EUR", "GBP")
	require.NoError(t, err)
	assert.Equal(t, 0.625, rate)
}

func TestCurrencyGetUnknownCode(t *testing.T) {

	m := cachedCurrencyModel(&RateSnapshot{Base: "USD", Rates: map[string]float64{"EUR": 0.9}})

	// unknown = unavailable, not an error
	rate, err := m.Get("USD", "JPY")
	require.NoError(t, err)
	assert.Equal(t, float64(0), rate)

	rate, err = m.Get("JPY", "EUR")
	require.NoError(t, err)
	assert.Equal(t, float64(0), rate)
}

func TestCurrencyGetNormalizesInput(t *testing.T) {

	m := cachedCurrencyModel(&RateSnapshot{Base: "USD", Rates: map[string]float64{"EUR": 0.8}})

	rate, err := m.Get(" usd ", "eur")
	require.NoError(t, err)
	assert.Equal(t, 0.8, rate)
}

func TestSaveSnapshotRejectsIncompleteFeed(t *testing.T) {

	os.Setenv("MARKET_CURRENCIES", "USD,EUR,GBP")
	defer os.Unsetenv("MARKET_CURRENCIES")

	m := &CurrencyModel{}

	err := m.SaveSnapshot(map[string]float64{"EUR": 0.8}, time.Now())
	assert.Equal(t, ErrRatesIncomplete, err)

	// junk values are rejected the same way
	err = m.SaveSnapshot(map[string]float64{"EUR": 0.8, "GBP": -1}, time.Now())
	assert.Equal(t, ErrRatesIncomplete, err)
}
