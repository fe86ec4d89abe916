package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"market-api/helpers"
	"net"
	"net/http"
	"os"
	"time"
)

// rateFeed is the payload of the remote exchange-rate service
// (rates are base -> code factors)
type rateFeed struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// explicit connect/response timeouts - a hanging feed must not hold a
// scheduler slot for long
var rateClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: 10 * time.Second,
	},
}

// FetchRates pulls the configured exchange-rate feed and stores a new
// snapshot. Validation happens in the model: a feed missing any configured
// currency is rejected wholesale, the previous snapshot stays in service.
func (r *Runner) FetchRates() {

	url := os.Getenv("MARKET_RATES_URL")
	if url == "" {
		return // feature not configured
	}

	rates, err := fetchRateFeed(url)
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	err = r.env.CurrencyModel.SaveSnapshot(rates, time.Now())
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	fmt.Printf("%v: currency rates refreshed.\n", time.Now().Format(time.RFC3339))
}

func fetchRateFeed(url string) (map[string]float64, error) {

	res, err := rateClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %v", res.StatusCode)
	}

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return parseRateFeed(body)
}

// parseRateFeed decodes the feed; structural problems are reported here,
// completeness is the model's concern
func parseRateFeed(body []byte) (map[string]float64, error) {

	var feed rateFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, err
	}

	if feed.Rates == nil {
		return nil, errors.New("rate feed carries no rates")
	}

	return feed.Rates, nil
}
