package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siherrmann/eventract/model"
)

func TestEnhanceLocation(t *testing.T) {
	t.Run("Exact match overlays canonical address", func(t *testing.T) {
		details := &model.LocationDetails{Name: "CN Tower"}

		enhanced := EnhanceLocation(details)

		require.NotNil(t, enhanced)
		assert.Equal(t, "CN Tower", enhanced.Name, "Expected original name to be preserved")
		assert.Equal(t, "290 Bremner Blvd, Toronto, ON M5V 3L9", enhanced.Address)
		assert.Equal(t, "Toronto", enhanced.City)
		assert.Equal(t, "ON", enhanced.State)
		assert.Equal(t, "Canada", enhanced.Country)
		assert.True(t, enhanced.IsWellKnownPlace)
	})

	t.Run("Partial match in either direction", func(t *testing.T) {
		byLongerQuery := EnhanceLocation(&model.LocationDetails{Name: "the CN Tower in Toronto"})
		byShorterQuery := EnhanceLocation(&model.LocationDetails{Name: "Eiffel"})

		require.NotNil(t, byLongerQuery)
		assert.Equal(t, "290 Bremner Blvd, Toronto, ON M5V 3L9", byLongerQuery.Address)
		require.NotNil(t, byShorterQuery)
		assert.Equal(t, "Paris", byShorterQuery.City)
	})

	t.Run("Total miss returns input unchanged", func(t *testing.T) {
		details := &model.LocationDetails{Name: "Dave's garage"}

		enhanced := EnhanceLocation(details)

		assert.Equal(t, details, enhanced)
		assert.Empty(t, enhanced.Address)
		assert.False(t, enhanced.IsWellKnownPlace)
	})

	t.Run("Nil and empty name pass through", func(t *testing.T) {
		assert.Nil(t, EnhanceLocation(nil))

		empty := &model.LocationDetails{}
		assert.Equal(t, empty, EnhanceLocation(empty))
	})

	t.Run("Registered place becomes matchable", func(t *testing.T) {
		RegisterPlace("Fernsehturm Berlin", model.LocationDetails{
			Address: "Panoramastrasse 1A, 10178 Berlin",
			City:    "Berlin", Country: "Germany",
			IsWellKnownPlace: true,
		})

		enhanced := EnhanceLocation(&model.LocationDetails{Name: "fernsehturm berlin"})

		require.NotNil(t, enhanced)
		assert.Equal(t, "Panoramastrasse 1A, 10178 Berlin", enhanced.Address)
	})
}

func TestLoadPlaces(t *testing.T) {
	t.Run("Loads places from YAML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "places.yaml")
		content := `"city hall toronto":
  address: "100 Queen St W, Toronto, ON M5H 2N2"
  city: "Toronto"
  state: "ON"
  country: "Canada"
  isWellKnownPlace: true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		err := LoadPlaces(path)

		require.NoError(t, err)
		enhanced := EnhanceLocation(&model.LocationDetails{Name: "City Hall Toronto"})
		require.NotNil(t, enhanced)
		assert.Equal(t, "100 Queen St W, Toronto, ON M5H 2N2", enhanced.Address)
	})

	t.Run("Missing file returns an error", func(t *testing.T) {
		err := LoadPlaces(filepath.Join(t.TempDir(), "nope.yaml"))

		assert.Error(t, err)
	})
}

func TestEnhanceEventLocation(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	newEvent := func(location string, details *model.LocationDetails) *model.EventRecord {
		return &model.EventRecord{
			Title: "Test", Start: now, End: now.Add(time.Hour),
			Location: location, LocationDetails: details,
		}
	}

	t.Run("Synthesizes details from flat location on table hit", func(t *testing.T) {
		p := NewPipeline(nil, nil)
		event := newEvent("CN Tower", nil)

		p.enhanceEventLocation(ctx, event)

		require.NotNil(t, event.LocationDetails)
		assert.Equal(t, "CN Tower", event.LocationDetails.Name)
		assert.Equal(t, "290 Bremner Blvd, Toronto, ON M5V 3L9", event.LocationDetails.Address)
		assert.True(t, event.LocationDetails.IsWellKnownPlace)
	})

	t.Run("Flat location with no match stays flat", func(t *testing.T) {
		p := NewPipeline(nil, nil)
		event := newEvent("conference room 4b", nil)

		p.enhanceEventLocation(ctx, event)

		assert.Nil(t, event.LocationDetails)
		assert.Equal(t, "conference room 4b", event.Location)
	})

	t.Run("Geocoder is consulted only on table miss", func(t *testing.T) {
		calls := 0
		p := NewPipeline(nil, nil)
		p.SetGeocoder(func(ctx context.Context, name string) (*model.LocationDetails, error) {
			calls++
			return &model.LocationDetails{Address: "1 Remote Way", City: "Springfield"}, nil
		})

		hit := newEvent("CN Tower", nil)
		p.enhanceEventLocation(ctx, hit)
		assert.Equal(t, 0, calls, "Expected no geocoder call for a well-known place")

		miss := newEvent("", &model.LocationDetails{Name: "some local dive"})
		p.enhanceEventLocation(ctx, miss)
		assert.Equal(t, 1, calls)
		require.NotNil(t, miss.LocationDetails)
		assert.Equal(t, "some local dive", miss.LocationDetails.Name, "Expected original name to be preserved")
		assert.Equal(t, "1 Remote Way", miss.LocationDetails.Address)
	})

	t.Run("Geocoder failure leaves the record unchanged", func(t *testing.T) {
		p := NewPipeline(nil, nil)
		p.SetGeocoder(func(ctx context.Context, name string) (*model.LocationDetails, error) {
			return nil, fmt.Errorf("network unreachable")
		})
		event := newEvent("", &model.LocationDetails{Name: "some local dive"})

		p.enhanceEventLocation(ctx, event)

		require.NotNil(t, event.LocationDetails)
		assert.Equal(t, "some local dive", event.LocationDetails.Name)
		assert.Empty(t, event.LocationDetails.Address)
	})
}
