package client

import (
	"sync"
	"time"
)

type request struct {
	ItemID   string
	Accessed time.Time
}

// https://blog.golang.org/maps
// mediate access to the requests-map using mutex
// this is needed because the map is maintained by a GO-routine
var registry = struct {
	sync.RWMutex
	requests map[string]request // key is IP or domain-action
}{}

// Registry remembers the last item each client looked at, so a page
// refresh is not counted as another view
type Registry struct {
}

func (r Registry) Initialize() {
	registry.requests = make(map[string]request)
}

// Continue reports whether the request moves the client to a new item
// (false = same client, same item, hence a refresh)
func (r Registry) Continue(client string, itemID string) bool {

	registry.RLock()
	found := !(registry.requests[client].ItemID == itemID)
	registry.RUnlock()

	// add or update the last (relevant) request
	req := request{
		ItemID:   itemID,
		Accessed: time.Now(),
	}

	registry.Lock()
	registry.requests[client] = req
	registry.Unlock()

	return found
}

// Flush removes requests from the registry which are older than 15 minutes
// usually called by a GO-routine that runs in a ticker
func (r Registry) Flush() {

	registry.Lock()
	now := time.Now()
	if len(registry.requests) > 5000 {
		// it's safe to just delete expired keys, since iterations over maps are not ordered
		for key, value := range registry.requests {
			// remove if last access was 15 mins ago
			if now.Sub(value.Accessed).Minutes() > 15 {
				delete(registry.requests, key)
			}
		}
	}
	registry.Unlock()
}

// Count returns how many different clients are currently active
func (r Registry) Count() int {
	registry.RLock()
	cnt := len(registry.requests)
	registry.RUnlock()
	return cnt
}

// Dump returns up to max entries for the monitor endpoint
func (r Registry) Dump(max int) []request {

	registry.RLock()
	defer registry.RUnlock()

	var res []request
	i := 0
	for _, v := range registry.requests {
		if i >= max {
			break
		}
		res = append(res, v)
		i++
	}
	return res
}
