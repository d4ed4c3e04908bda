package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/siherrmann/eventract/model"
)

// RawEvent is the candidate record shape as returned by the inference
// collaborator, before its dates have been parsed and validated.
type RawEvent struct {
	Title           string                 `json:"title"`
	StartDate       string                 `json:"startDate"`
	EndDate         string                 `json:"endDate"`
	Location        string                 `json:"location"`
	LocationDetails *model.LocationDetails `json:"locationDetails"`
	Description     string                 `json:"description"`
	MeetingLink     string                 `json:"meetingLink"`
	Attendees       []model.Attendee       `json:"attendees"`
	Timezone        string                 `json:"timezone"`
}

// empty reports whether the raw event carries no usable content at all.
func (r *RawEvent) empty() bool {
	return r == nil || (r.Title == "" && r.StartDate == "" && r.EndDate == "")
}

// dateLayouts are the timestamp shapes accepted from the collaborator, in
// match order. Layouts without an offset are interpreted in the caller's
// timezone.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseEventDates converts a raw candidate into an EventRecord with parsed
// instants. It fails with ErrMissingDate when a date is absent and with
// ErrMalformedDate when one is present but not parseable.
func ParseEventDates(raw *RawEvent, loc *time.Location) (*model.EventRecord, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: no candidate record", ErrMissingDate)
	}
	if strings.TrimSpace(raw.StartDate) == "" || strings.TrimSpace(raw.EndDate) == "" {
		return nil, fmt.Errorf("%w: startDate=%q endDate=%q", ErrMissingDate, raw.StartDate, raw.EndDate)
	}

	start, err := parseInstant(raw.StartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: startDate %q", ErrMalformedDate, raw.StartDate)
	}
	end, err := parseInstant(raw.EndDate, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: endDate %q", ErrMalformedDate, raw.EndDate)
	}

	return &model.EventRecord{
		Title:           raw.Title,
		Start:           start,
		End:             end,
		Location:        raw.Location,
		LocationDetails: raw.LocationDetails,
		Description:     raw.Description,
		MeetingLink:     raw.MeetingLink,
		Attendees:       raw.Attendees,
		Timezone:        raw.Timezone,
	}, nil
}

// ValidateEvent enforces the structural invariants of a parsed record:
// both instants present and the end strictly after the start. Successful
// validation does not guarantee semantic correctness (see the corrector's
// warnings), only that the record is usable by the encoder.
func ValidateEvent(event *model.EventRecord) error {
	if event == nil || event.Start.IsZero() || event.End.IsZero() {
		return fmt.Errorf("%w: record has no parsed instants", ErrMissingDate)
	}
	if !event.End.After(event.Start) {
		return fmt.Errorf("%w: start=%v end=%v", ErrEventOrder,
			event.Start.Format(time.RFC3339), event.End.Format(time.RFC3339))
	}
	return nil
}

func parseInstant(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.UTC
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			if t.Year() <= 0 {
				return time.Time{}, fmt.Errorf("implausible year %d", t.Year())
			}
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
