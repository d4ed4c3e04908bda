// Package ics serializes validated event records into an RFC 5545
// iCalendar document. Escaping and line folding follow the format's
// grammar byte-exactly; the output is loadable by any standards-compliant
// calendar application.
package ics

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/siherrmann/eventract/model"
)

// utcStampLayout is the basic ISO form required for DTSTAMP/DTSTART/DTEND.
const utcStampLayout = "20060102T150405Z"

// timeNow is swapped out in tests for deterministic DTSTAMP values.
var timeNow = time.Now

// Encode serializes a batch of validated event records into a single
// iCalendar document with one VEVENT block per record. Every record is
// assumed to have passed structural validation; Encode itself never fails.
func Encode(batch model.EventBatch, productID string) string {
	if productID == "" {
		productID = "-//siherrmann//eventract//EN"
	}

	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+productID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")

	stamp := timeNow().UTC().Format(utcStampLayout)
	for _, event := range batch {
		writeEvent(&b, event, stamp)
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

func writeEvent(b *strings.Builder, event *model.EventRecord, stamp string) {
	writeLine(b, "BEGIN:VEVENT")
	writeLine(b, fmt.Sprintf("UID:%v@eventract", uuid.NewString()))
	writeLine(b, "DTSTAMP:"+stamp)
	writeLine(b, "DTSTART:"+event.Start.UTC().Format(utcStampLayout))
	writeLine(b, "DTEND:"+event.End.UTC().Format(utcStampLayout))
	writeLine(b, "SUMMARY:"+EscapeText(event.Title))

	if event.Description != "" {
		writeLine(b, "DESCRIPTION:"+EscapeText(event.Description))
	}
	if location := event.DisplayLocation(); location != "" {
		writeLine(b, "LOCATION:"+EscapeText(location))
	}
	if event.MeetingLink != "" && event.MeetingLink != model.MeetingLinkPending {
		writeLine(b, "URL:"+event.MeetingLink)
	}
	if event.Timezone != "" {
		// Informational only: instants above are already UTC-normalized.
		writeLine(b, "X-SOURCE-TIMEZONE:"+EscapeText(event.Timezone))
	}

	writeAttendees(b, event.Attendees)
	writeLine(b, "END:VEVENT")
}

// writeAttendees emits the first attendee as organizer and every entry
// (organizer included) as an attendee awaiting a response.
func writeAttendees(b *strings.Builder, attendees []model.Attendee) {
	if len(attendees) == 0 {
		return
	}
	organizer := attendees[0]
	writeLine(b, fmt.Sprintf("ORGANIZER;CN=%v:mailto:%v", EscapeText(attendeeName(organizer)), organizer.Email))
	for _, attendee := range attendees {
		writeLine(b, fmt.Sprintf("ATTENDEE;ROLE=REQ-PARTICIPANT;PARTSTAT=NEEDS-ACTION;CN=%v:mailto:%v",
			EscapeText(attendeeName(attendee)), attendee.Email))
	}
}

func attendeeName(a model.Attendee) string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}

// writeLine folds an overlong content line and terminates every physical
// line with CRLF as the grammar requires.
func writeLine(b *strings.Builder, line string) {
	for _, physical := range FoldLine(line) {
		b.WriteString(physical)
		b.WriteString("\r\n")
	}
}
