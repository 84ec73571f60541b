// Package geocode turns typed or located addresses into suggestion strings
// and resolved places, backed by Google Maps Platform.
package geocode

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	apperrors "github.com/pestpro/pestpro-api/pkg/errors"
	"github.com/pestpro/pestpro-api/pkg/logger"
	"github.com/pestpro/pestpro-api/pkg/metrics"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

const serviceName = "google_maps"

// ErrNoResults is returned when the provider knows no matching address
var ErrNoResults = fmt.Errorf("address %w", apperrors.ErrNotFound)

// Place is one resolved address
type Place struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// placesAPI is the part of *maps.Client the resolver calls
type placesAPI interface {
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// SuggestionCache stores suggestion pages by query
type SuggestionCache interface {
	Get(query string) ([]string, bool)
	Set(query string, page []string)
}

// Resolver answers address lookups restricted to one country
type Resolver struct {
	api     placesAPI
	country string
	cache   SuggestionCache
}

// NewResolver creates a resolver using the Google Maps API key
func NewResolver(apiKey, country string, cache SuggestionCache) (*Resolver, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newResolver(client, country, cache), nil
}

func newResolver(api placesAPI, country string, cache SuggestionCache) *Resolver {
	return &Resolver{api: api, country: strings.ToLower(country), cache: cache}
}

// Suggest returns the provider's suggestions for a partial address. Nothing
// is fetched until the sequence is ranged over; ranging again replays the
// same page. Blank input and provider failures give an empty sequence.
func (r *Resolver) Suggest(ctx context.Context, partial string) iter.Seq[string] {
	query := strings.TrimSpace(partial)
	var (
		once sync.Once
		page []string
	)
	return func(yield func(string) bool) {
		if query == "" {
			return
		}
		once.Do(func() { page = r.suggestions(ctx, query) })
		for _, s := range page {
			if !yield(s) {
				return
			}
		}
	}
}

func (r *Resolver) suggestions(ctx context.Context, query string) []string {
	if r.cache != nil {
		if page, ok := r.cache.Get(query); ok {
			return page
		}
	}

	req := &maps.PlaceAutocompleteRequest{Input: query}
	if r.country != "" {
		req.Components = map[maps.Component][]string{maps.ComponentCountry: {r.country}}
	}

	start := time.Now()
	resp, err := r.api.PlaceAutocomplete(ctx, req)
	r.record("autocomplete", start, err)
	if err != nil {
		logger.Warn("Address suggestions unavailable", zap.Int("query_length", len(query)), zap.Error(err))
		return nil
	}

	page := make([]string, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		if p.Description != "" {
			page = append(page, p.Description)
		}
	}
	if r.cache != nil {
		r.cache.Set(query, page)
	}
	return page
}

// Resolve geocodes a chosen suggestion
func (r *Resolver) Resolve(ctx context.Context, suggestion string) (Place, error) {
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return Place{}, apperrors.InvalidInputError("address", "must not be empty")
	}

	req := &maps.GeocodingRequest{Address: suggestion}
	if r.country != "" {
		req.Components = map[maps.Component]string{maps.ComponentCountry: r.country}
	}

	start := time.Now()
	results, err := r.api.Geocode(ctx, req)
	r.record("geocode", start, err)
	if err != nil {
		return Place{}, apperrors.UnavailableError(serviceName, err)
	}
	return firstPlace(results)
}

// Reverse finds the address at a device location
func (r *Resolver) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Place{}, apperrors.InvalidInputError("location", "coordinates out of range")
	}

	start := time.Now()
	results, err := r.api.ReverseGeocode(ctx, &maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: lat, Lng: lng}})
	r.record("reverse_geocode", start, err)
	if err != nil {
		return Place{}, apperrors.UnavailableError(serviceName, err)
	}

	place, err := firstPlace(results)
	if err != nil {
		return Place{}, err
	}
	// Report the device's coordinates, not the geocoded point.
	place.Lat, place.Lng = lat, lng
	return place, nil
}

func firstPlace(results []maps.GeocodingResult) (Place, error) {
	for _, res := range results {
		if res.FormattedAddress == "" {
			continue
		}
		return Place{
			Address: res.FormattedAddress,
			Lat:     res.Geometry.Location.Lat,
			Lng:     res.Geometry.Location.Lng,
		}, nil
	}
	return Place{}, ErrNoResults
}

func (r *Resolver) record(operation string, start time.Time, err error) {
	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordClientCall(serviceName, operation, status, duration)
	metrics.AddressLookups.WithLabelValues(operation, status).Inc()
	logger.LogAPICall(serviceName, operation, status, duration)
}
