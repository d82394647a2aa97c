package source

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Vesslan01/secsweep/internal/record"
)

// LoadEvents reads a login-event feed: {"events": [{"user":..,"event":..}]}.
//
// A missing or non-array "events" key is a shape error, not an empty
// result; a feed that genuinely has no events must say "events": [].
func LoadEvents(path string) ([]record.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("event feed %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("event feed %s: %w", path, err)
	}

	var doc struct {
		Events *[]record.Event `json:"events"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("event feed %s: %w: %v", path, ErrMalformedShape, err)
	}
	if doc.Events == nil {
		return nil, fmt.Errorf("event feed %s: %w: missing top-level \"events\" array", path, ErrMalformedShape)
	}
	return *doc.Events, nil
}

// CountFailedLogins folds the feed into a per-user failed_login count.
// Events for users outside the given set are ignored; the returned map
// has an entry for every known user, zero included.
func CountFailedLogins(events []record.Event, known map[string]record.Status) map[string]int {
	counts := make(map[string]int, len(known))
	for user := range known {
		counts[user] = 0
	}
	for _, ev := range events {
		if ev.Type != record.EventFailedLogin {
			continue
		}
		if _, ok := known[ev.User]; ok {
			counts[ev.User]++
		}
	}
	return counts
}
