// Package eventract turns free-form text (pasted email bodies, uploaded
// documents) into validated calendar event records and a standards-compliant
// iCalendar document. The natural-language understanding itself is delegated
// to an external inference collaborator behind a narrow request/response
// contract; everything around it — link scanning, location enhancement,
// date/time correction, validation and encoding — is deterministic.
package eventract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/siherrmann/eventract/core/pipeline"
	"github.com/siherrmann/eventract/helper"
	"github.com/siherrmann/eventract/ics"
	"github.com/siherrmann/eventract/model"
)

// Eventract provides a unified interface to the extraction pipeline.
type Eventract struct {
	Pipeline *pipeline.Pipeline
	Config   *model.Config
	// Logging
	log *slog.Logger
}

// NewEventract creates a new Eventract instance. A nil config selects the
// defaults. The inference collaborator is not wired yet: call
// UseDefaultInference or SetInference before extracting.
func NewEventract(config *model.Config) (*Eventract, error) {
	if config == nil {
		config = model.DefaultConfig()
	}
	if config.Timezone != "" {
		if _, err := time.LoadLocation(config.Timezone); err != nil {
			return nil, helper.NewError("load configured timezone", err)
		}
	}

	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	return &Eventract{
		Pipeline: pipeline.NewPipeline(nil, config),
		Config:   config,
		log:      logger,
	}, nil
}

// UseDefaultInference wires the Anthropic-backed inference collaborator
// using the configured model and ANTHROPIC_API_KEY from the environment.
func (e *Eventract) UseDefaultInference() error {
	infer, err := pipeline.DefaultInferrer(e.Config)
	if err != nil {
		return helper.NewError("create default inferrer", err)
	}
	e.Pipeline.Infer = infer
	return nil
}

// SetInference sets the inference function, e.g. a deterministic stub in tests.
func (e *Eventract) SetInference(infer pipeline.InferFunc) {
	e.Pipeline.Infer = infer
}

// SetGeocoder sets the optional remote geocoding fallback for locations the
// static well-known-places table cannot resolve.
func (e *Eventract) SetGeocoder(geocoder pipeline.GeocodeFunc) {
	e.Pipeline.SetGeocoder(geocoder)
}

// Extract runs the pipeline on one input text. referenceNow anchors
// relative-date phrases ("today", "tomorrow") and the sanity bounds;
// timezone is the caller's IANA timezone label (empty selects the
// configured default). Requests are stateless and may run concurrently.
func (e *Eventract) Extract(ctx context.Context, text string, referenceNow time.Time, timezone string) (*model.Extraction, error) {
	if text == "" {
		return nil, helper.NewError("extract events", fmt.Errorf("input text is empty"))
	}

	extraction, err := e.Pipeline.Extract(ctx, text, referenceNow, timezone)
	if err != nil {
		e.log.Error("Extraction failed", slog.String("error", err.Error()))
		return nil, err
	}

	if !extraction.HasEvent {
		e.log.Info("No event found in input")
		return extraction, nil
	}

	e.log.Info("Extracted events",
		slog.Int("event_count", len(extraction.Events)),
		slog.Int("warning_count", len(extraction.Warnings)),
		slog.Bool("truncated", extraction.Truncated))
	return extraction, nil
}

// ExtractToCalendar runs Extract and, when events were found, encodes them
// into an iCalendar document. The document is empty for a no-event result.
func (e *Eventract) ExtractToCalendar(ctx context.Context, text string, referenceNow time.Time, timezone string) (*model.Extraction, string, error) {
	extraction, err := e.Extract(ctx, text, referenceNow, timezone)
	if err != nil {
		return nil, "", err
	}
	if !extraction.HasEvent {
		return extraction, "", nil
	}
	return extraction, ics.Encode(extraction.Events, e.Config.ProductID), nil
}
