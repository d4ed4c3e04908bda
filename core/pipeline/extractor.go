package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/siherrmann/eventract/helper"
	"github.com/siherrmann/eventract/model"
)

// inferenceEnvelope is the agreed response contract: hasEvent plus either
// an events array or a flat single event.
type inferenceEnvelope struct {
	HasEvent *bool       `json:"hasEvent"`
	Events   []*RawEvent `json:"events"`
}

// Extract runs the full pipeline for one request: truncate, prompt, call
// the inference collaborator, repair and parse the JSON answer, then apply
// link scanning, location enhancement, date/time correction and structural
// validation to every candidate before returning.
//
// Either a fully validated batch is returned or a single typed failure;
// no partial batch is ever surfaced. A well-formed negative answer from the
// collaborator yields Extraction{HasEvent: false}, which is not an error.
func (p *Pipeline) Extract(ctx context.Context, text string, referenceNow time.Time, timezone string) (*model.Extraction, error) {
	if p.Infer == nil {
		return nil, helper.NewError("extract events", fmt.Errorf("inference function not set, use NewPipeline or SetInference first"))
	}

	loc := p.location(timezone)
	bounded, truncated := TruncateInput(text, p.Config.MaxInputLength)
	prompt := BuildPrompt(bounded, referenceNow, loc)

	raw, err := p.Infer(ctx, prompt)
	if err != nil {
		var infErr *InferenceError
		if errors.As(err, &infErr) {
			return nil, err
		}
		return nil, &InferenceError{Kind: InferenceUnavailable, Err: err}
	}

	candidates, hasEvent, err := normalizeResponse(raw)
	if err != nil {
		return nil, err
	}
	if !hasEvent {
		return model.NoEvent(), nil
	}

	extraction := &model.Extraction{HasEvent: true, Truncated: truncated}
	for _, candidate := range candidates {
		event, err := ParseEventDates(candidate, loc)
		if err != nil {
			return nil, err
		}

		// Link scan is a fallback only: the inferred value wins.
		if event.MeetingLink == "" {
			event.MeetingLink = ScanMeetingLink(text)
		}

		p.enhanceEventLocation(ctx, event)

		_, notes := CorrectDateTime(event, text, referenceNow, p.minimumYear(referenceNow))
		for _, note := range notes {
			event.AddWarning(note)
		}

		if err := ValidateEvent(event); err != nil {
			return nil, err
		}

		extraction.Events = append(extraction.Events, event)
		extraction.Warnings = append(extraction.Warnings, event.Warnings...)
	}

	if len(extraction.Events) == 0 {
		return nil, &ResponseFormatError{Raw: raw, Err: fmt.Errorf("hasEvent is true but no event was returned")}
	}
	return extraction, nil
}

// normalizeResponse repairs and parses the collaborator's answer and
// normalizes it to a batch. Shape normalization happens exactly once, here:
// downstream code only ever sees a sequence of candidates.
func normalizeResponse(raw string) ([]*RawEvent, bool, error) {
	cleaned := stripCodeFence(raw)

	var envelope inferenceEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, false, &ResponseFormatError{Raw: raw, Err: err}
	}

	if envelope.HasEvent != nil && !*envelope.HasEvent {
		return nil, false, nil
	}

	if len(envelope.Events) > 0 {
		return envelope.Events, true, nil
	}

	// Flat single-event shape: wrap it into a one-element batch.
	var flat RawEvent
	if err := json.Unmarshal([]byte(cleaned), &flat); err != nil {
		return nil, false, &ResponseFormatError{Raw: raw, Err: err}
	}
	if flat.empty() {
		if envelope.HasEvent == nil {
			return nil, false, &ResponseFormatError{Raw: raw, Err: fmt.Errorf("response carries neither hasEvent nor an event")}
		}
		return nil, true, &ResponseFormatError{Raw: raw, Err: fmt.Errorf("hasEvent is true but no event was returned")}
	}
	return []*RawEvent{&flat}, true, nil
}

// minimumYear resolves the year floor for one request. An unset
// configuration derives it from the request's reference time, so identical
// requests yield identical corrections regardless of when the process
// started; 2025 is the hard lower bound either way.
func (p *Pipeline) minimumYear(referenceNow time.Time) int {
	year := p.Config.MinimumEventYear
	if year == 0 {
		year = referenceNow.Year()
	}
	if year < 2025 {
		year = 2025
	}
	return year
}

// location resolves the caller's timezone label, falling back to the
// configured default and finally UTC. An unknown label is not an error:
// the pipeline must stay usable with instants normalized to UTC.
func (p *Pipeline) location(timezone string) *time.Location {
	for _, name := range []string{timezone, p.Config.Timezone} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}
