package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/siherrmann/eventract/model"
)

// wellKnownPlaces maps a lowercased place name to its canonical address
// record. It is process-wide read-only data, extended only through
// RegisterPlace, so lookups are safe under concurrent requests.
var (
	placesMu        sync.RWMutex
	wellKnownPlaces = map[string]model.LocationDetails{
		"cn tower": {
			Address: "290 Bremner Blvd, Toronto, ON M5V 3L9",
			City:    "Toronto", State: "ON", Country: "Canada",
			IsWellKnownPlace: true,
		},
		"eiffel tower": {
			Address: "Champ de Mars, 5 Av. Anatole France, 75007 Paris",
			City:    "Paris", Country: "France",
			IsWellKnownPlace: true,
		},
		"empire state building": {
			Address: "20 W 34th St, New York, NY 10001",
			City:    "New York", State: "NY", Country: "USA",
			IsWellKnownPlace: true,
		},
		"statue of liberty": {
			Address: "Liberty Island, New York, NY 10004",
			City:    "New York", State: "NY", Country: "USA",
			IsWellKnownPlace: true,
		},
		"golden gate bridge": {
			Address: "Golden Gate Bridge, San Francisco, CA",
			City:    "San Francisco", State: "CA", Country: "USA",
			IsWellKnownPlace: true,
		},
		"space needle": {
			Address: "400 Broad St, Seattle, WA 98109",
			City:    "Seattle", State: "WA", Country: "USA",
			IsWellKnownPlace: true,
		},
		"sydney opera house": {
			Address: "Bennelong Point, Sydney NSW 2000",
			City:    "Sydney", State: "NSW", Country: "Australia",
			IsWellKnownPlace: true,
		},
		"big ben": {
			Address: "Westminster, London SW1A 0AA",
			City:    "London", Country: "UK",
			IsWellKnownPlace: true,
		},
		"times square": {
			Address: "Manhattan, NY 10036",
			City:    "New York", State: "NY", Country: "USA",
			IsWellKnownPlace: true,
		},
		"central park": {
			Address: "New York, NY",
			City:    "New York", State: "NY", Country: "USA",
			IsWellKnownPlace: true,
		},
	}
)

// RegisterPlace adds or replaces a well-known place under the given name.
// The key is matched case-insensitively.
func RegisterPlace(name string, details model.LocationDetails) {
	placesMu.Lock()
	defer placesMu.Unlock()
	wellKnownPlaces[strings.ToLower(strings.TrimSpace(name))] = details
}

// LoadPlaces extends the well-known-places table from a YAML file mapping
// place names to location details.
func LoadPlaces(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read places file %v: %w", path, err)
	}
	places := map[string]model.LocationDetails{}
	if err := yaml.Unmarshal(data, &places); err != nil {
		return fmt.Errorf("parse places file %v: %w", path, err)
	}
	for name, details := range places {
		RegisterPlace(name, details)
	}
	return nil
}

// lookupPlace finds the canonical record for a place name: exact match
// first, then substring containment in either direction over the sorted
// keys (sorted so that the "first hit" is deterministic).
func lookupPlace(name string) (model.LocationDetails, bool) {
	placesMu.RLock()
	defer placesMu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return model.LocationDetails{}, false
	}
	if details, ok := wellKnownPlaces[key]; ok {
		return details, true
	}

	keys := make([]string, 0, len(wellKnownPlaces))
	for k := range wellKnownPlaces {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(key, k) || strings.Contains(k, key) {
			return wellKnownPlaces[k], true
		}
	}
	return model.LocationDetails{}, false
}

// EnhanceLocation overlays canonical address data onto the candidate
// location details from the static well-known-places table. The original
// Name is always preserved; on a total miss the input is returned unchanged.
// EnhanceLocation never fails.
func EnhanceLocation(details *model.LocationDetails) *model.LocationDetails {
	if details == nil || details.Name == "" {
		return details
	}

	match, ok := lookupPlace(details.Name)
	if !ok {
		return details
	}

	enhanced := *details
	enhanced.Address = match.Address
	enhanced.City = match.City
	enhanced.State = match.State
	enhanced.Country = match.Country
	enhanced.IsWellKnownPlace = match.IsWellKnownPlace
	return &enhanced
}

// enhanceEventLocation applies the static table to an event's location
// details, synthesizing them from the flat location string when the
// inference result carried none. The optional remote geocoder is consulted
// only when a name is present and no address was resolved; a geocoder
// failure leaves the record unchanged.
func (p *Pipeline) enhanceEventLocation(ctx context.Context, event *model.EventRecord) {
	details := event.LocationDetails
	synthesized := false
	if details == nil {
		if event.Location == "" {
			return
		}
		details = &model.LocationDetails{Name: event.Location}
		synthesized = true
	}

	enhanced := EnhanceLocation(details)
	resolved := enhanced != nil && enhanced.Address != ""

	if !resolved && p.Geocoder != nil && enhanced != nil && enhanced.Name != "" {
		remote, err := p.Geocoder(ctx, enhanced.Name)
		if err == nil && remote != nil {
			merged := *enhanced
			merged.Address = remote.Address
			merged.City = remote.City
			merged.State = remote.State
			merged.Country = remote.Country
			merged.IsWellKnownPlace = remote.IsWellKnownPlace
			enhanced = &merged
			resolved = merged.Address != ""
		}
	}

	// A synthesized record that resolved to nothing stays off the event.
	if synthesized && !resolved {
		return
	}
	event.LocationDetails = enhanced
}
