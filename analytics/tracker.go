package analytics

import (
	"context"
	"market-api/database"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
)

// Tracker writes search events to the analytics store (influxDB).
// The bucket carries a TTL, so no clean-up job is needed here.
type Tracker struct {
	influxClient influxdb2.Client
	SearchAPI    database.InfluxAPI
}

// SetConnections initializes the instance
func (t *Tracker) SetConnections(influxClient *influxdb2.Client) {
	t.influxClient = *influxClient
}

// SaveSearch stores one item search with its hit count.
// The risk of high series cardinality is accepted, terms are what
// we're interested in.
// https://docs.influxdata.com/influxdb/v2.0/write-data/best-practices/resolve-high-cardinality/
func (t *Tracker) SaveSearch(searchTerm string, typeCode int32, hits int) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	// do not log any empty search (section browsing)
	if searchTerm == "" {
		return
	}

	fields := map[string]interface{}{
		"domain": "market",
		"type":   typeCode,
		"hits":   hits,
	}

	p := influxdb2.NewPoint(
		"search", // measurement
		map[string]string{"term": searchTerm}, // tag
		fields,
		time.Now())

	// ToDo: log error
	t.SearchAPI.WriteAPI.WritePoint(context.Background(), p)
}
