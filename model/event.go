package model

import (
	"strings"
	"time"
)

// MeetingLinkPending is the sentinel value stored in EventRecord.MeetingLink
// when the source text signals a joinable meeting but no URL could be isolated.
const MeetingLinkPending = "meeting_link_detected_but_not_found"

// LocationDetails is the structured refinement of an event's flat location
// string. When present it supersedes EventRecord.Location for rendering.
type LocationDetails struct {
	Name             string `json:"name,omitempty"`
	Address          string `json:"address,omitempty"`
	City             string `json:"city,omitempty"`
	State            string `json:"state,omitempty"`
	Country          string `json:"country,omitempty"`
	IsWellKnownPlace bool   `json:"isWellKnownPlace,omitempty"`
}

// Attendee represents a single participant parsed from the source text.
// The first attendee of a record may be promoted to organizer at encoding time.
type Attendee struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// EventRecord is the canonical output unit of the extraction pipeline.
// Start and End are UTC-normalized instants; Timezone optionally preserves
// the source's apparent timezone label independent of the instants.
type EventRecord struct {
	Title           string           `json:"title"`
	Start           time.Time        `json:"startDate"`
	End             time.Time        `json:"endDate"`
	Location        string           `json:"location,omitempty"`
	LocationDetails *LocationDetails `json:"locationDetails,omitempty"`
	Description     string           `json:"description,omitempty"`
	MeetingLink     string           `json:"meetingLink,omitempty"`
	Attendees       []Attendee       `json:"attendees,omitempty"`
	Timezone        string           `json:"timezone,omitempty"`
	Warnings        []string         `json:"warnings,omitempty"`
}

// AddWarning appends a human-readable correction/inconsistency note.
func (e *EventRecord) AddWarning(w string) {
	e.Warnings = append(e.Warnings, w)
}

// DisplayLocation resolves the location text used for rendering output.
// Preference order: structured name + address, then city/state/country,
// then the flat location string.
func (e *EventRecord) DisplayLocation() string {
	d := e.LocationDetails
	if d != nil {
		if d.Name != "" && d.Address != "" {
			return d.Name + ", " + d.Address
		}
		parts := make([]string, 0, 3)
		for _, p := range []string{d.City, d.State, d.Country} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
		if d.Name != "" {
			return d.Name
		}
	}
	return e.Location
}

// EventBatch is the ordered sequence of records extracted from one input
// text. The common case is length 1.
type EventBatch []*EventRecord

// Extraction is the result envelope for a single extraction request.
// HasEvent=false is a terminal "no event found" signal, not a failure;
// in that case Events is empty.
type Extraction struct {
	HasEvent  bool       `json:"hasEvent"`
	Events    EventBatch `json:"events,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
	Truncated bool       `json:"truncated,omitempty"`
}

// NoEvent returns the terminal negative extraction result.
func NoEvent() *Extraction {
	return &Extraction{HasEvent: false}
}
