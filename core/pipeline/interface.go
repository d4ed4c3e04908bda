package pipeline

import (
	"context"

	"github.com/siherrmann/eventract/model"
)

// InferFunc sends one instruction prompt to the external inference
// collaborator and returns the raw completion text. The collaborator is a
// black box: it is expected to answer with a single JSON object, but the
// pipeline repairs common wrapping (markdown code fences) before parsing.
type InferFunc func(ctx context.Context, prompt string) (string, error)

// GeocodeFunc resolves a free-text place name to structured location details.
// It is an optional remote fallback for the static well-known-places table;
// errors are swallowed by the pipeline and leave the record unchanged.
type GeocodeFunc func(ctx context.Context, name string) (*model.LocationDetails, error)

// Pipeline turns raw natural-language text into validated event records.
// All working state is request-local; a single Pipeline is safe for
// concurrent use as long as the configured functions are.
type Pipeline struct {
	Infer    InferFunc
	Geocoder GeocodeFunc // Optional
	Config   *model.Config
}

// NewPipeline creates a new extraction pipeline.
func NewPipeline(infer InferFunc, config *model.Config) *Pipeline {
	if config == nil {
		config = model.DefaultConfig()
	}
	return &Pipeline{
		Infer:  infer,
		Config: config,
	}
}

// SetGeocoder sets the optional remote geocoding fallback.
func (p *Pipeline) SetGeocoder(geocoder GeocodeFunc) {
	p.Geocoder = geocoder
}
